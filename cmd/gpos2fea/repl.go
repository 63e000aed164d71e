package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otfea/otload"
	"github.com/npillmayer/otfea/unparse"
	"github.com/npillmayer/schuko"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	font   *otload.Font
	conf   schuko.Configuration
	result *unparse.Result
	repl   *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf("%v", err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is one step of a command line, e.g. "lookup:5:xml".
type Op struct {
	code   int
	arg    string
	format string
}

const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	FEATURES
	FEATURE
	LOOKUPS
	LOOKUP
	SCRIPTS
	CLASSES
	ALL
)

var opMap = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"features": FEATURES,
	"feature":  FEATURE,
	"lookups":  LOOKUPS,
	"lookup":   LOOKUP,
	"scripts":  SCRIPTS,
	"classes":  CLASSES,
	"all":      ALL,
}

var opNames = []string{
	"quit",
	"help",
	"features",
	"feature",
	"lookups",
	"lookup",
	"scripts",
	"classes",
	"all",
}

// parseCommand splits a command line into steps, separated by blanks.
// Every step is of the form "op:arg:format", with arg and format optional.
// Unknown ops are turned into a request for help.
func parseCommand(line string) []Op {
	steps := strings.Fields(line)
	ops := make([]Op, 0, len(steps))
	for _, step := range steps {
		c := strings.Split(step, ":") // e.g.  "feature:kern" or "lookup:5:xml" or "help:lookups"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		op := Op{code: code}
		if code == QUIT {
			return append(ops, op)
		}
		op.arg = getOptArg(c, 1)
		op.format = getOptArg(c, 2)
		if op.arg == "" {
			tracer().Debugf("%s", opNames[op.code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[op.code], op.arg)
		}
		ops = append(ops, op)
	}
	return ops
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	FEATURES: featuresOp,
	FEATURE:  featureOp,
	LOOKUPS:  lookupsOp,
	LOOKUP:   lookupOp,
	SCRIPTS:  scriptsOp,
	CLASSES:  classesOp,
	ALL:      allOp,
}

func (intp *Intp) execute(cmd []Op) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd)
	for _, c := range cmd {
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// ----------------------------------------------------------------------

var errNoResult = errors.New("no decompilation result")

func (intp *Intp) checkResult() error {
	if intp.result == nil || intp.result.File == nil {
		return errNoResult
	}
	return nil
}

func (intp *Intp) lookupIndex(op *Op) (int, error) {
	i, err := strconv.Atoi(op.arg)
	if err != nil {
		return 0, errors.New("lookup index not numeric: " + op.arg)
	}
	if i < 0 || i >= intp.font.GPOS.LookupCount() {
		return 0, errors.New("lookup index out of range: " + op.arg)
	}
	return i, nil
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}
