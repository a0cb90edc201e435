package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bleemesser/fsm"
	"github.com/bleemesser/fsm/internal/runner"
	"github.com/goccy/go-yaml"
	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	fileutil "github.com/projectdiscovery/utils/file"
)

func main() {
	opts := runner.ParseFlags()

	if opts.Sample != "" {
		if err := fsm.GenerateSample(opts.Sample); err != nil {
			gologger.Fatal().Msgf("failed to write sample specification got %v", err)
		}
		gologger.Info().Msgf("Sample specification written to %s", opts.Sample)
		return
	}

	machine, err := loadFSM(opts)
	if err != nil {
		gologger.Fatal().Msgf("failed to load automaton:\n%s", yaml.FormatError(err, false, true))
	}

	switch {
	case opts.Table:
		if err := machine.DFA.WriteTransitionTable(os.Stdout); err != nil {
			gologger.Fatal().Msgf("failed to print transition table got %v", err)
		}
	case opts.Viz:
		if err := runViz(machine, vizBase(opts)); err != nil {
			gologger.Fatal().Msgf("failed to generate visualization got %v", err)
		}
	default:
		runREPL(machine, opts.File)
	}
}

// loadFSM builds the automaton from whichever input the flags selected.
func loadFSM(opts *runner.Options) (*fsm.FSM, error) {
	switch {
	case opts.File != "":
		return loadSpecFile(opts.File)
	case opts.Regex != "":
		return fsm.FromRegex(opts.Regex)
	default:
		return fsm.FromSpec(opts.Spec)
	}
}

func loadSpecFile(path string) (*fsm.FSM, error) {
	if !fileutil.FileExists(path) {
		return nil, errorutil.New("specification file %v does not exist", path)
	}
	return fsm.FromSpecFile(path)
}

// vizBase derives the output path stem for generated DOT files.
func vizBase(opts *runner.Options) string {
	switch {
	case opts.File != "":
		return strings.TrimSuffix(opts.File, filepath.Ext(opts.File))
	case opts.Regex != "":
		return "regex_fsm"
	default:
		return "fsm"
	}
}

// runViz writes DOT file(s) for the loaded automaton. When an intermediate
// NFA exists both it and the determinized DFA are rendered.
func runViz(machine *fsm.FSM, base string) error {
	if machine.NFA == nil {
		return writeDotFile(base+".dot", func(f *os.File) error {
			return fsm.WriteDOT(f, machine.DFA)
		})
	}
	err := writeDotFile(base+"-nfa.dot", func(f *os.File) error {
		return fsm.WriteNFADOT(f, machine.NFA, machine.DFA.Name, machine.DFA.Description)
	})
	if err != nil {
		return err
	}
	return writeDotFile(base+"-dfa.dot", func(f *os.File) error {
		return fsm.WriteDOT(f, machine.DFA)
	})
}

func writeDotFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	gologger.Info().Msgf("Graphviz DOT file generated: %s", path)
	gologger.Info().Msgf("To generate a PNG: dot -Tpng \"%s\" -o \"%s.png\"", path, strings.TrimSuffix(path, ".dot"))
	return nil
}

// runREPL reads input lines and prints ACCEPT or REJECT for each. Load and
// reload failures leave the current automaton active.
func runREPL(machine *fsm.FSM, currentPath string) {
	gologger.Info().Msgf("Loading DFA with %d states and %d transitions...", machine.DFA.StateCount(), machine.DFA.TransitionCount())
	gologger.Info().Msgf("FSM '%s' loaded. (Press Ctrl+C or type 'exit' to quit)", machine.DFA.Name)
	gologger.Info().Msgf("Commands: 'exit', 'quit', 'reload', 'load <path>'")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			fmt.Println()
			gologger.Info().Msgf("Exiting.")
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch {
		case input == "exit" || input == "quit":
			return
		case input == "reload":
			if currentPath == "" {
				gologger.Error().Msgf("No file to reload. Use 'load <path>' first.")
				continue
			}
			gologger.Info().Msgf("Reloading '%s'...", currentPath)
			if reloaded, err := loadSpecFile(currentPath); err != nil {
				gologger.Error().Msgf("Failed to reload:\n%s", yaml.FormatError(err, false, true))
			} else {
				machine = reloaded
				gologger.Info().Msgf("FSM '%s' reloaded successfully.", machine.DFA.Name)
			}
		case strings.HasPrefix(input, "load "):
			path := strings.TrimSpace(strings.TrimPrefix(input, "load "))
			if path == "" {
				gologger.Error().Msgf("Invalid load command. Use: load <path>")
				continue
			}
			gologger.Info().Msgf("Loading '%s'...", path)
			if loaded, err := loadSpecFile(path); err != nil {
				gologger.Error().Msgf("Failed to load:\n%s", yaml.FormatError(err, false, true))
			} else {
				machine = loaded
				currentPath = path
				gologger.Info().Msgf("FSM '%s' loaded successfully.", machine.DFA.Name)
			}
		default:
			start := time.Now()
			accepted := machine.DFA.Run(input)
			verdict := "REJECT"
			if accepted {
				verdict = "ACCEPT"
			}
			fmt.Printf("%s | Processed in: %v\n", verdict, time.Since(start))
		}
	}
}
