package runner

import (
	"io"
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	fileutil "github.com/projectdiscovery/utils/file"
)

type Options struct {
	File    string // path to a YAML automaton specification
	Regex   string // regular expression to compile instead of a spec file
	Table   bool
	Viz     bool
	Sample  string
	Config  string
	Verbose bool
	Silent  bool
	Spec    []byte // specification content read from stdin
}

func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Compile finite-state acceptors from YAML specs or regular expressions and run them against input strings.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.File, "file", "f", "", "path to the .yml automaton specification file"),
		flagSet.StringVarP(&opts.Regex, "regex", "r", "", "regular expression to compile instead of a spec file"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Table, "table", "t", false, "print the compiled transition table to the console"),
		flagSet.BoolVar(&opts.Viz, "viz", false, "generate Graphviz DOT file(s) for visualization"),
		flagSet.CallbackVar(printVersion, "version", "display fsm version"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&opts.Config, "config", "", "fsm cli config file"),
		flagSet.StringVar(&opts.Sample, "sample", "", "write a sample specification to the given path and exit"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Config != "" {
		if err := flagSet.MergeConfigFile(opts.Config); err != nil {
			gologger.Error().Msgf("failed to read config file got %v", err)
		}
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	showBanner()

	// read a specification from stdin when no other input is given
	if opts.File == "" && opts.Regex == "" && fileutil.HasStdin() {
		bin, err := io.ReadAll(os.Stdin)
		if err != nil {
			gologger.Error().Msgf("failed to read input from stdin got %v", err)
		}
		opts.Spec = bin
	}

	if opts.File == "" && opts.Regex == "" && len(opts.Spec) == 0 && opts.Sample == "" {
		gologger.Fatal().Msgf("either -file <path>, -regex <pattern>, or a specification on stdin must be provided")
	}
	if opts.File != "" && opts.Regex != "" {
		gologger.Fatal().Msgf("-file and -regex are mutually exclusive")
	}

	return opts
}
