package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "feature", "features":
		pterm.Info.Println("Features")
		pterm.Println(`
	features          lists features with their lookups, per script and language
	feature:<tag>     prints the feature block for <tag>, e.g. feature:kern

	Lookups listed for script '*' and language '*' are common to all language
	systems of a feature. They are emitted at the top of the feature block.
	`)
	case "lookup", "lookups":
		pterm.Info.Println("Lookups")
		pterm.Println(`
	lookups           lists all lookups of the GPOS table
	lookup:<n>        prints the lookup block decoded from lookup <n>
	lookup:<n>:xml    prints a structural dump of lookup <n>

	Lookups used in more than one place are shared, i.e. defined once and
	referenced by name. All other lookups are inlined into feature blocks.
	`)
	case "script", "scripts":
		pterm.Info.Println("Scripts")
		pterm.Println(`
	scripts           lists scripts and language systems with their features
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	features, feature:<tag>
	lookups, lookup:<n>[:xml]
	scripts
	classes[:<name>]  lists named glyph classes
	all               prints the complete feature file
	help[:<topic>]    topics are features, lookups, scripts
	quit

	Several commands may be given on one line, separated by blanks.
	`)
	}
}
