package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/tocc/pkg/fsm"
)

// Styles
var (
	styleTitle     = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleState     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateSel  = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleStateInit = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStateAcc  = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleTrans     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSidebarH  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput     = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// stepper holds the state of the interactive simulator.
type stepper struct {
	a       *fsm.Automaton
	runner  *fsm.Runner
	current map[string]bool
	input   []rune
	message string
}

func newStepper(a *fsm.Automaton) *stepper {
	s := &stepper{a: a, runner: fsm.NewRunner(a)}
	s.sync()
	return s
}

func (s *stepper) sync() {
	s.current = make(map[string]bool)
	for _, name := range s.runner.Current().Members() {
		s.current[name] = true
	}
}

// feed consumes one symbol. Unknown symbols are reported and ignored.
func (s *stepper) feed(c rune) {
	if err := s.runner.Step(c); err != nil {
		s.message = err.Error()
		return
	}
	s.input = append(s.input, c)
	s.message = ""
	s.sync()
}

// back undoes the last symbol by replaying the remaining input.
func (s *stepper) back() {
	if len(s.input) == 0 {
		return
	}
	s.input = s.input[:len(s.input)-1]
	s.runner.Reset()
	s.runner.Run(string(s.input))
	s.message = ""
	s.sync()
}

func (s *stepper) reset() {
	s.input = s.input[:0]
	s.runner.Reset()
	s.message = "Reset to start state"
	s.sync()
}

// handleKey applies a key event and reports whether to quit.
func (s *stepper) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.back()
	case tcell.KeyCtrlR:
		s.reset()
	case tcell.KeyRune:
		s.feed(ev.Rune())
	}
	return false
}

func (s *stepper) draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()

	title := fmt.Sprintf("tocc step - %s, %d states", strings.ToUpper(s.a.Mode().String()), len(s.a.States()))
	drawString(screen, 1, 0, title, styleTitle)

	// States column
	drawString(screen, 1, 2, "States", styleSidebarH)
	y := 3
	for _, name := range s.a.States() {
		if y >= h-3 {
			break
		}
		style := styleState
		switch {
		case s.current[name]:
			style = styleStateSel
		case name == s.a.Start():
			style = styleStateInit
		case s.a.IsAccepting(name):
			style = styleStateAcc
		}
		label := name
		if s.a.IsAccepting(name) {
			label += " *"
		}
		drawString(screen, 3, y, label, style)
		y++
	}

	// History column, newest at the bottom
	hx := w / 2
	drawString(screen, hx, 2, "History", styleSidebarH)
	history := s.runner.History()
	rows := h - 6
	if rows < 0 {
		rows = 0
	}
	if len(history) > rows {
		history = history[len(history)-rows:]
	}
	for i, step := range history {
		line := fmt.Sprintf("%s --%c--> %s", step.From, step.Symbol, step.To)
		drawString(screen, hx, 3+i, line, styleTrans)
	}

	// Input line
	for x := 0; x < w; x++ {
		screen.SetContent(x, h-3, ' ', nil, styleInput)
	}
	drawString(screen, 1, h-3, "Input: "+string(s.input), styleInput)

	drawString(screen, 1, h-2, fmt.Sprintf("Symbols: %s  Backspace undo  Ctrl-R reset  Esc quit", string(s.a.Alphabet())), styleHelp)

	// Status bar
	for x := 0; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	status := "State: " + s.runner.CurrentState()
	if s.runner.IsAccepting() {
		status += "  Accept"
	} else {
		status += "  Not Accept"
	}
	drawString(screen, 1, h-1, status, styleStatus)
	if s.message != "" {
		drawString(screen, w-len(s.message)-1, h-1, s.message, styleMsgError)
	}
}

func drawString(screen tcell.Screen, x, y int, str string, style tcell.Style) {
	for i, r := range []rune(str) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func (d *driver) cmdStep(args []string) error {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	nfa := modeFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tocc step [-nfa] <source>")
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	runStepper(screen, newStepper(a))
	return nil
}

func runStepper(screen tcell.Screen, s *stepper) {
	for {
		s.draw(screen)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if s.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}
