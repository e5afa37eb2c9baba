// Command tocc compiles automaton definitions to C simulators and Graphviz
// diagrams.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	u "github.com/araddon/gou"

	"github.com/ha1tch/tocc/pkg/config"
	"github.com/ha1tch/tocc/pkg/fsm"
	"github.com/ha1tch/tocc/pkg/fsmfile"
)

const usage = `tocc - automaton compiler

Usage:
  tocc [-config file] [-loglevel level] <command> [options]
  tocc <source> <output>.c <binary>
  tocc <source> <output>.dot <image>.png

Commands:
  compile    Generate C and build it with the configured compiler
  c          Generate C simulator source
  go         Generate Go simulator source
  rust       Generate Rust simulator source
  dot        Generate Graphviz DOT output
  png        Render a PNG diagram
  info       Show automaton information
  validate   Validate a source file
  run        Simulate input strings
  step       Step through input interactively

Examples:
  tocc compile even.tocc even.c even
  tocc dot -nfa guess.tocc | dot -Tpng -o guess.png
  tocc png -native even.tocc even.png
  tocc run even.tocc 0110 111

Use "tocc <command> -h" for more information about a command.
`

var (
	configFile = flag.String("config", "tocc.conf", "tocc config file")
	logLevel   = flag.String("loglevel", "", "log level [debug|info|warn|error], overrides config")
)

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	conf, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load config %s: %v\n", *configFile, err)
		os.Exit(1)
	}
	level := conf.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	u.SetupLogging(level)
	u.SetColorIfTerminal()

	d := &driver{conf: conf}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "compile":
		err = d.cmdCompile(rest)
	case "c", "go", "rust":
		err = d.cmdSource(cmd, rest)
	case "dot":
		err = d.cmdDot(rest)
	case "png":
		err = d.cmdPNG(rest)
	case "info":
		err = d.cmdInfo(rest)
	case "validate":
		err = d.cmdValidate(rest)
	case "run":
		err = d.cmdRun(rest)
	case "step":
		err = d.cmdStep(rest)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		if len(args) != 3 {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		err = d.legacy(args)
	}

	if err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the process exit status for it.
func report(err error) int {
	var synErr *fsmfile.SyntaxError
	var semErr *fsm.SemanticError
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usage)
	case errors.As(err, &synErr), errors.As(err, &semErr):
		fmt.Fprintln(os.Stderr, err)
	default:
		u.Debugf("%#v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

var errUsage = errors.New("usage")

// legacy handles the three-argument form: source, output file, and binary or
// image. The output extension picks the backend.
func (d *driver) legacy(args []string) error {
	src, out, target := args[0], args[1], args[2]
	if info, err := os.Stat(src); err != nil || info.IsDir() {
		return errors.New("sourcefile not a valid filename")
	}

	switch {
	case strings.HasSuffix(out, ".c"):
		return d.compile(src, out, target, fsm.Deterministic)
	case strings.HasSuffix(out, ".dot") && strings.HasSuffix(target, ".png"):
		a, err := load(src, fsm.Deterministic)
		if err != nil {
			return err
		}
		if err := writeOutput(out, fsmfile.GenerateDOT(a)); err != nil {
			return err
		}
		fmt.Println("DOT code written to " + out)
		return d.runDot(out, target, "png")
	default:
		return errUsage
	}
}

// load reads an automaton from path. JSON files carry their own mode;
// anything else is parsed as tocc source in the given mode.
func load(path string, mode fsm.Mode) (*fsm.Automaton, error) {
	u.Debugf("loading %s as %s", path, mode)
	if filepath.Ext(path) == ".json" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return fsmfile.ParseJSON(data)
	}
	return fsmfile.ReadSourceFile(path, mode)
}

// loadDeterministic loads path and determinizes it when needed.
func loadDeterministic(path string, mode fsm.Mode) (*fsm.Automaton, error) {
	a, err := load(path, mode)
	if err != nil {
		return nil, err
	}
	if a.Mode() == fsm.NonDeterministic {
		a = fsm.Determinize(a)
		u.Debugf("determinized %s: %d states", path, len(a.States()))
	}
	return a, nil
}

func modeFlag(fs *flag.FlagSet) *bool {
	return fs.Bool("nfa", false, "parse the source as a non-deterministic automaton")
}

func modeOf(nfa bool) fsm.Mode {
	if nfa {
		return fsm.NonDeterministic
	}
	return fsm.Deterministic
}

// writeOutput writes text plus a trailing newline to path, or to stdout
// when path is empty or "-".
func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Println(text)
		return err
	}
	return os.WriteFile(path, []byte(text+"\n"), 0644)
}
