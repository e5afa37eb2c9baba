package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	u "github.com/araddon/gou"
	"github.com/kr/pretty"

	"github.com/ha1tch/tocc/pkg/codegen"
	"github.com/ha1tch/tocc/pkg/config"
	"github.com/ha1tch/tocc/pkg/fsm"
	"github.com/ha1tch/tocc/pkg/fsmfile"
)

type driver struct {
	conf *config.Config
}

// CompileError reports a failure of an external tool.
type CompileError struct {
	Tool string
	Err  error
}

func (e *CompileError) Error() string {
	if errors.Is(e.Err, exec.ErrNotFound) {
		return fmt.Sprintf("compile error: %s not found. Please ensure %q is in path", e.Tool, e.Tool)
	}
	return fmt.Sprintf("compile error: %s: %v", e.Tool, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (d *driver) cmdCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	nfa := modeFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc compile [-nfa] <source> <output.c> <binary>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 3 {
		fs.Usage()
		os.Exit(1)
	}
	return d.compile(fs.Arg(0), fs.Arg(1), fs.Arg(2), modeOf(*nfa))
}

func (d *driver) compile(src, out, binary string, mode fsm.Mode) error {
	a, err := load(src, mode)
	if err != nil {
		return err
	}
	if err := writeOutput(out, codegen.GenerateC(a)); err != nil {
		return err
	}
	fmt.Println("C code written to " + out)

	ccArgs := append(append([]string(nil), d.conf.CCFlags...), out, "-o", binary)
	return runTool(d.conf.CC, ccArgs...)
}

func (d *driver) cmdSource(lang string, args []string) error {
	fs := flag.NewFlagSet(lang, flag.ExitOnError)
	nfa := modeFlag(fs)
	output := fs.String("o", "", "output file (default stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tocc %s [-nfa] [-o output] <source>\n", lang)
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := load(fs.Arg(0), modeOf(*nfa))
	if err != nil {
		return err
	}

	var code string
	switch lang {
	case "c":
		code = codegen.GenerateC(a)
	case "go":
		code = codegen.GenerateGo(a)
	case "rust":
		code = codegen.GenerateRust(a)
	}
	return writeOutput(*output, code)
}

func (d *driver) cmdDot(args []string) error {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	nfa := modeFlag(fs)
	raw := fs.Bool("raw", false, "draw a non-deterministic automaton without determinizing it")
	output := fs.String("o", "", "output file (default stdout)")
	image := fs.String("render", "", "also render with Graphviz to this file, in the configured dot_format")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc dot [-nfa] [-raw] [-o output] [-render image] <source>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	var a *fsm.Automaton
	var err error
	if *raw {
		a, err = load(fs.Arg(0), modeOf(*nfa))
	} else {
		a, err = loadDeterministic(fs.Arg(0), modeOf(*nfa))
	}
	if err != nil {
		return err
	}
	if err := writeOutput(*output, fsmfile.GenerateDOT(a)); err != nil {
		return err
	}
	if *image != "" {
		return d.render(a, *image, d.conf.DotFormat)
	}
	return nil
}

func (d *driver) cmdPNG(args []string) error {
	fs := flag.NewFlagSet("png", flag.ExitOnError)
	nfa := modeFlag(fs)
	native := fs.Bool("native", false, "render without Graphviz")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc png [-nfa] [-native] <source> <image.png>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	src, image := fs.Arg(0), fs.Arg(1)

	a, err := loadDeterministic(src, modeOf(*nfa))
	if err != nil {
		return err
	}

	if *native {
		f, err := os.Create(image)
		if err != nil {
			return err
		}
		defer f.Close()

		opts := fsmfile.DefaultPNGOptions()
		opts.Width, opts.Height = d.conf.PNGWidth, d.conf.PNGHeight
		if err := fsmfile.RenderPNG(a, f, opts); err != nil {
			return err
		}
		u.Infof("rendered %s", image)
		return f.Close()
	}

	return d.render(a, image, "png")
}

// render writes a's DOT to a temporary file and runs Graphviz on it.
func (d *driver) render(a *fsm.Automaton, image, format string) error {
	tmp, err := os.CreateTemp("", "tocc-*.dot")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(fsmfile.GenerateDOT(a) + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return d.runDot(tmp.Name(), image, format)
}

func (d *driver) runDot(dotFile, image, format string) error {
	return runTool(d.conf.Dot, "-T"+format, dotFile, "-o", image)
}

func runTool(name string, args ...string) error {
	u.Debugf("exec %s %s", name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &CompileError{Tool: name, Err: err}
	}
	return nil
}

func (d *driver) cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	nfa := modeFlag(fs)
	verbose := fs.Bool("v", false, "dump the full automaton")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc info [-nfa] [-v] <source>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := load(fs.Arg(0), modeOf(*nfa))
	if err != nil {
		return err
	}
	printInfo(a)

	if a.Mode() == fsm.NonDeterministic {
		dfa := fsm.Determinize(a)
		fmt.Println()
		fmt.Printf("Determinized: %d states, %d accepting\n", len(dfa.States()), len(dfa.Finals()))
	}

	for _, w := range a.Analyse() {
		fmt.Printf("Warning: %s\n", w)
	}

	if *verbose {
		fmt.Println()
		fmt.Printf("%# v\n", pretty.Formatter(a.Transitions()))
	}
	return nil
}

func printInfo(a *fsm.Automaton) {
	fmt.Printf("Type:        %s\n", strings.ToUpper(a.Mode().String()))
	fmt.Printf("States:      %d\n", len(a.States()))
	fmt.Printf("Symbols:     %d\n", len(a.Alphabet()))
	fmt.Printf("Transitions: %d\n", len(a.Transitions()))
	fmt.Printf("Start:       %s\n", a.Start())
	if finals := a.Finals(); len(finals) > 0 {
		fmt.Printf("Accepting:   %s\n", fsm.NewStateSet(finals...))
	}
	fmt.Println()
	fmt.Printf("States:      %s\n", strings.Join(a.States(), " "))
	fmt.Printf("Alphabet:    %s\n", string(a.Alphabet()))
}

func (d *driver) cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	nfa := modeFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc validate [-nfa] <source>")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := load(fs.Arg(0), modeOf(*nfa))
	if err != nil {
		return err
	}
	fmt.Printf("%s: valid %s with %d states, %d transitions\n",
		fs.Arg(0), strings.ToUpper(a.Mode().String()), len(a.States()), len(a.Transitions()))
	return nil
}

func (d *driver) cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	nfa := modeFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc run [-nfa] <source> [input...]")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	a, err := load(fs.Arg(0), modeOf(*nfa))
	if err != nil {
		return err
	}
	if fs.NArg() == 1 {
		return interactive(a, os.Stdin)
	}

	runInputs(os.Stdout, a, fs.Args()[1:])
	return nil
}

// runInputs simulates each input from the start state and prints its
// verdict and the state after every symbol.
func runInputs(w io.Writer, a *fsm.Automaton, inputs []string) {
	for _, input := range inputs {
		runner := fsm.NewRunner(a)
		trace, err := runner.Run(input)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", input, err)
			continue
		}
		verdict := "Not Accept"
		if runner.IsAccepting() {
			verdict = "Accept"
		}
		fmt.Fprintf(w, "%s: %s [%s]\n", input, verdict, strings.Join(trace, " "))
	}
}

func interactive(a *fsm.Automaton, in io.Reader) error {
	runner := fsm.NewRunner(a)

	fmt.Print(a)
	fmt.Printf("Commands: <symbols>, reset, status, history, inputs, quit\n")
	fmt.Println()
	printStatus(runner)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch cmd {
		case "quit", "exit", "q":
			return nil
		case "reset":
			runner.Reset()
			fmt.Println("Reset to start state")
			printStatus(runner)
		case "status":
			printStatus(runner)
		case "history":
			printHistory(runner)
		case "inputs":
			symbols := runner.AvailableSymbols()
			if len(symbols) == 0 {
				fmt.Println("No moves from current state")
			} else {
				fmt.Printf("Available symbols: %s\n", string(symbols))
			}
		case "help", "?":
			fmt.Println("Commands:")
			fmt.Println("  <symbols> - Feed each symbol to the automaton")
			fmt.Println("  reset     - Reset to start state")
			fmt.Println("  status    - Show current status")
			fmt.Println("  history   - Show execution history")
			fmt.Println("  inputs    - Show symbols with a move")
			fmt.Println("  quit      - Exit")
		default:
			if _, err := runner.Run(cmd); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			printStatus(runner)
		}
	}
	return scanner.Err()
}

func printStatus(r *fsm.Runner) {
	status := fmt.Sprintf("State: %s", r.CurrentState())
	if r.IsAccepting() {
		status += " [accepting]"
	}
	fmt.Println(status)
}

func printHistory(r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Println("No history yet")
		return
	}

	fmt.Println("History:")
	for i, step := range history {
		fmt.Printf("  %d: %s --%c--> %s\n", i+1, step.From, step.Symbol, step.To)
	}
}
