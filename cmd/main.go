// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"datalayer-extract/internal/config"
	"datalayer-extract/internal/extractor"
	"datalayer-extract/internal/help"
	"datalayer-extract/internal/loader"
	"datalayer-extract/internal/messages"
	"datalayer-extract/internal/observability"
	"datalayer-extract/internal/pipeline"
	"datalayer-extract/internal/report"
	"datalayer-extract/internal/version"

	"golang.org/x/term"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	cfg, err := config.LoadConfigOrDefault(configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
	}
	return cfg
}

// configFlags holds command line flag values
type configFlags struct {
	inputFile  string
	configFile string
	mode       string
	language   string
	layout     string
	validate   bool
	debug      bool
	noColor    bool
	showHelp   bool
	version    bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	file     string
	mode     string
	language string
	layout   string
	validate bool
	debug    bool
	noColor  bool
}

// resolveConfiguration resolves final configuration values from config file and command line flags
func resolveConfiguration(cfg *config.Config, fs *flag.FlagSet, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	// File
	final.file = config.DefaultFile // default fallback
	if cfg != nil && cfg.Defaults.File != "" {
		final.file = cfg.Defaults.File
	}
	if isFlagSet(fs, "file") && flags.inputFile != "" {
		final.file = flags.inputFile
	} else if args := fs.Args(); len(args) > 0 {
		final.file = args[0]
	}

	// Mode
	final.mode = string(extractor.DefaultMode)
	if cfg != nil && cfg.Defaults.Mode != "" {
		final.mode = cfg.Defaults.Mode
	}
	if isFlagSet(fs, "mode") && flags.mode != "" {
		final.mode = flags.mode
	}

	// Language
	final.language = messages.DefaultLanguage
	if cfg != nil && cfg.Defaults.Language != "" {
		final.language = cfg.Defaults.Language
	}
	if isFlagSet(fs, "lang") && flags.language != "" {
		final.language = flags.language
	}

	// Layout
	final.layout = string(loader.LayoutPlain)
	if cfg != nil && cfg.Loader.Layout != "" {
		final.layout = cfg.Loader.Layout
	}
	if isFlagSet(fs, "layout") && flags.layout != "" {
		final.layout = flags.layout
	}

	// Validate
	final.validate = false
	if cfg != nil {
		final.validate = cfg.Loader.Validate
	}
	if isFlagSet(fs, "validate") {
		final.validate = flags.validate
	}

	// Debug
	final.debug = false
	if cfg != nil {
		final.debug = cfg.Defaults.Debug
	}
	if isFlagSet(fs, "debug") {
		final.debug = flags.debug
	}

	// No color
	final.noColor = false
	if cfg != nil {
		final.noColor = cfg.Defaults.NoColor
	}
	if isFlagSet(fs, "no-color") {
		final.noColor = flags.noColor
	}

	return final
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stdout)))
}

// run executes one invocation and returns the process exit code
func run(args []string, stdout, stderr io.Writer, interactive bool) int {
	fs := flag.NewFlagSet("datalayer-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)

	flags := &configFlags{}
	fs.StringVar(&flags.inputFile, "file", "", "Path to the PDF document")
	fs.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&flags.mode, "mode", "", "Extraction mode: scanner or regex")
	fs.StringVar(&flags.language, "lang", "", "Message language: tr or en")
	fs.StringVar(&flags.layout, "layout", "", "Page text layout: plain or rows")
	fs.BoolVar(&flags.validate, "validate", false, "Validate the PDF structure before extracting text")
	fs.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&flags.showHelp, "help", false, "Show help information")
	fs.BoolVar(&flags.version, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	// Handle version command
	if flags.version {
		fmt.Fprintln(stdout, version.Info())
		return 0
	}

	cfg := loadConfiguration(flags.configFile, stderr)
	finalConfig := resolveConfiguration(cfg, fs, flags)

	// Auto-detect non-interactive output
	if !interactive || os.Getenv("CI") != "" {
		finalConfig.noColor = true
	}

	// Check if DATALAYER_DEBUG environment variable is set
	if os.Getenv("DATALAYER_DEBUG") != "" {
		finalConfig.debug = true
	}

	if flags.showHelp {
		return showHelp(fs.Args(), finalConfig, stdout, stderr)
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "Error: expected one PDF file, got %d arguments\n", fs.NArg())
		return 1
	}
	if fs.NArg() == 1 && isFlagSet(fs, "file") {
		fmt.Fprintln(stderr, "Error: give the PDF either with --file or as an argument, not both")
		return 1
	}

	var debugObs *observability.DebugObserver
	if finalConfig.debug {
		debugObs = observability.NewDebugObserver(stderr)
		debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", args))
		debugObs.LogDetail("main", fmt.Sprintf("Resolved file=%s mode=%s lang=%s layout=%s",
			finalConfig.file, finalConfig.mode, finalConfig.language, finalConfig.layout))
	}

	mode, err := extractor.ParseMode(finalConfig.mode)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	loaderOpts, err := cfg.LoaderOptions()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	loaderOpts.Validate = finalConfig.validate
	if loaderOpts.Layout, err = loader.ParseLayout(finalConfig.layout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	catalog, err := cfg.Catalog(finalConfig.language)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := pipeline.Run(pipeline.Options{
		Path:   finalConfig.file,
		Mode:   mode,
		Loader: loaderOpts,
	}, debugObs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnFailedPages(stderr, result.Document)

	reporter := report.NewReporter(catalog, finalConfig.noColor)
	if err := reporter.Report(stdout, result.Pushes); err != nil {
		fmt.Fprintf(stderr, "Error: failed to write report: %v\n", err)
		return 1
	}
	return 0
}

// warnFailedPages notes pages whose text could not be extracted, since
// pushes on them are missing from the report
func warnFailedPages(stderr io.Writer, doc *loader.Document) {
	if len(doc.FailedPages) > 0 {
		fmt.Fprintf(stderr, "Warning: could not extract text from pages %v; they were treated as empty\n", doc.FailedPages)
	}
}

// showHelp handles --help, --help modes, --help messages and --help <mode>
func showHelp(args []string, finalConfig *finalConfiguration, stdout, stderr io.Writer) int {
	helpSystem := help.NewSystem(stdout, finalConfig.noColor)

	switch {
	case len(args) == 0:
		helpSystem.ShowGeneralHelp()
		return 0
	case len(args) == 1 && strings.ToLower(args[0]) == "modes":
		helpSystem.ShowModesHelp()
		return 0
	case len(args) == 1 && strings.ToLower(args[0]) == "messages":
		if err := helpSystem.ShowMessagesHelp(finalConfig.language); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case len(args) == 1:
		if helpSystem.ShowModeHelp(args[0]) {
			return 0
		}
		return 1
	default:
		fmt.Fprintln(stderr, "Error: Too many arguments for help command")
		fmt.Fprintln(stderr, "Use 'datalayer-extract --help', 'datalayer-extract --help modes', or 'datalayer-extract --help <mode>'")
		return 1
	}
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
