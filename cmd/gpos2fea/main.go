/*
Command gpos2fea decompiles the GPOS table of an OpenType font into a
feature file.

	gpos2fea -font MyFont.otf -o MyFont-gpos.fea

Fonts are read as binary OpenType fonts, or as TTX dumps if the file name
ends in ".ttx". With flag -i, gpos2fea starts an interactive session for
browsing the decompiled features and lookups.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otfea"
	"github.com/npillmayer/otfea/unparse"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otfea.cli'
func tracer() tracing.Trace {
	return tracing.Select("otfea.cli")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load (OTF, TTF or TTX dump)")
	outname := flag.String("o", "", "Output file (default stdout)")
	nolookups := flag.Bool("nolookups", false, "List features only, do not decode lookups")
	classesFirst := flag.Bool("classes-first", false, "Emit glyph classes before lookups")
	allext := flag.Bool("allext", false, "Decode every subtable of extension lookups")
	interactive := flag.Bool("i", false, "Interactive mode")
	flag.Parse()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":             "go",
		"trace.otfea":                 *tlevel,
		"trace.otfea.cli":             *tlevel,
		"trace.otfea.load":            *tlevel,
		"trace.otfea.unparse":         *tlevel,
		unparse.KeyLookups:            !*nolookups,
		unparse.KeyClassesFirst:       *classesFirst,
		unparse.KeyExtensionSubtables: *allext,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	if _, ok := traceLevels[*tlevel]; !ok {
		pterm.Error.Printf("Invalid trace level: %s\n", *tlevel)
		os.Exit(2)
	}
	if *fontname == "" {
		pterm.Error.Println("No font given, use -font")
		flag.Usage()
		os.Exit(2)
	}
	//
	// load font and decompile
	intp := &Intp{conf: conf}
	if err := intp.loadFont(*fontname); err != nil {
		pterm.Error.Println(err)
		os.Exit(3)
	}
	if err := intp.decompile(); err != nil {
		pterm.Error.Println(err)
		os.Exit(4)
	}
	if !*interactive {
		if err := intp.writeFea(*outname); err != nil {
			pterm.Error.Println(err)
			os.Exit(5)
		}
		return
	}
	//
	// set up REPL
	repl, err := readline.New("gpos > ")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(6)
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Welcome to the GPOS decompiler")
	pterm.Info.Printf("font %q: %d glyphs, %d GPOS lookups\n", intp.font.Fontname,
		intp.font.NumGlyphs, intp.font.GPOS.LookupCount())
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
}

var traceLevels = map[string]tracing.TraceLevel{
	"Debug": tracing.LevelDebug,
	"Info":  tracing.LevelInfo,
	"Error": tracing.LevelError,
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// --- Batch mode -------------------------------------------------------

func (intp *Intp) loadFont(fontname string) (err error) {
	if intp.font, err = otfea.LoadFont(fontname); err != nil {
		return err
	}
	tracer().Infof("loaded font %s: %d glyphs, %d GPOS lookups", fontname,
		intp.font.NumGlyphs, intp.font.GPOS.LookupCount())
	return nil
}

func (intp *Intp) decompile() (err error) {
	intp.result, err = unparse.Decompile(intp.font.GPOS,
		unparse.WithGlyphNamer(intp.font),
		unparse.WithConfiguration(intp.conf))
	return err
}

func (intp *Intp) writeFea(outname string) error {
	if outname == "" {
		_, err := intp.result.File.WriteTo(os.Stdout)
		return err
	}
	out, err := os.Create(outname)
	if err != nil {
		return err
	}
	if _, err = intp.result.File.WriteTo(out); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err == nil {
		pterm.Info.Printf("feature file written to %s\n", outname)
	}
	return err
}
