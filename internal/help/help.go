// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"datalayer-extract/internal/messages"

	"github.com/fatih/color"
)

// ModeInfo describes one extraction mode for the help screens
type ModeInfo struct {
	Name                string   // Name of the mode (e.g., "scanner")
	ShortDescription    string   // Short description for the modes list
	DetailedDescription string   // What the mode matches and how
	Limitations         []string // Inputs the mode handles poorly
	Examples            []string // Usage examples
}

// System manages help content for the application
type System struct {
	out    io.Writer
	modes  map[string]ModeInfo
	colors map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"emphasis": color.New(color.FgWhite, color.Bold),
		"negative": color.New(color.FgRed),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	h := &System{
		out:    out,
		modes:  make(map[string]ModeInfo),
		colors: colors,
	}
	for _, info := range builtinModes {
		h.RegisterMode(info)
	}
	return h
}

// RegisterMode adds a mode description to the system
func (h *System) RegisterMode(info ModeInfo) {
	h.modes[strings.ToLower(info.Name)] = info
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Fprintln(h.out, "datalayer-extract - dataLayer.push extractor for PDF tagging plans")
	fmt.Fprintln(h.out, "==================================================================")
	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "USAGE:")
	fmt.Fprintln(h.out, "  datalayer-extract [options] [file.pdf]")
	fmt.Fprintln(h.out)

	h.colors["header"].Fprintln(h.out, "OPTIONS:")

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tPath to the PDF document (a positional argument works too)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --mode\t<mode>\tExtraction mode: scanner, regex (default: scanner)")
	fmt.Fprintln(w, "  --lang\t<lang>\tMessage language: "+strings.Join(messages.Languages(), ", ")+" (default: "+messages.DefaultLanguage+")")
	fmt.Fprintln(w, "  --layout\t<layout>\tPage text layout: plain, rows (default: plain)")
	fmt.Fprintln(w, "  --validate\t\tValidate the PDF structure before extracting text")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of loading and extraction steps")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help modes\t\tList extraction modes")
	fmt.Fprintln(w, "  --help <mode>\t\tShow detailed help for an extraction mode")
	fmt.Fprintln(w, "  --help messages\t\tShow the message keys that can be overridden")
	w.Flush()

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "EXAMPLES:")
	h.colors["example"].Fprintln(h.out, "  datalayer-extract tagging-plan.pdf")
	h.colors["example"].Fprintln(h.out, "  datalayer-extract --file tagging-plan.pdf --mode regex --lang en")
	h.colors["example"].Fprintln(h.out, "  datalayer-extract --config datalayer.yaml --debug")

	fmt.Fprintln(h.out)
	h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
	fmt.Fprintln(h.out, "  Project config: datalayer.yaml or .datalayer-extract.yaml (in current directory)")
	fmt.Fprintln(h.out, "  User config: <user config dir>/datalayer-extract/config.yaml")
	fmt.Fprintln(h.out, "  Environment: DATALAYER_CONFIG_DIR - Override config directory")
	fmt.Fprintln(h.out, "  Environment: DATALAYER_DEBUG - Enable debug logging")
}

// ShowModesHelp lists all extraction modes
func (h *System) ShowModesHelp() {
	h.colors["title"].Fprintln(h.out, "Extraction Modes")
	fmt.Fprintln(h.out, "================")
	fmt.Fprintln(h.out)

	names := make([]string, 0, len(h.modes))
	for name := range h.modes {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  MODE\tDESCRIPTION")
	fmt.Fprintln(w, "  ----\t-----------")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", h.modes[name].Name, h.modes[name].ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a mode, use:")
	h.colors["example"].Fprintln(h.out, "  datalayer-extract --help <mode>")
}

// ShowModeHelp displays detailed help for one mode. It returns false when the
// mode is unknown.
func (h *System) ShowModeHelp(name string) bool {
	info, exists := h.modes[strings.ToLower(name)]
	if !exists {
		h.colors["negative"].Fprintf(h.out, "Error: Mode '%s' not found.\n", name)
		fmt.Fprintln(h.out, "Use 'datalayer-extract --help modes' to see a list of available modes.")
		return false
	}

	h.colors["title"].Fprintf(h.out, "%s mode\n", info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)+5))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	if len(info.Limitations) > 0 {
		h.colors["header"].Fprintln(h.out, "LIMITATIONS:")
		for _, l := range info.Limitations {
			fmt.Fprint(h.out, "  - ")
			h.colors["item"].Fprintln(h.out, l)
		}
		fmt.Fprintln(h.out)
	}

	if len(info.Examples) > 0 {
		h.colors["header"].Fprintln(h.out, "EXAMPLES:")
		for _, example := range info.Examples {
			fmt.Fprint(h.out, "  ")
			h.colors["example"].Fprintln(h.out, example)
		}
	}
	return true
}

// ShowMessagesHelp prints every message key with its built-in text for lang
func (h *System) ShowMessagesHelp(lang string) error {
	catalog, err := messages.New(lang, nil)
	if err != nil {
		return err
	}

	h.colors["title"].Fprintf(h.out, "Messages (%s)\n", catalog.Language())
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KEY\tTEXT")
	fmt.Fprintln(w, "  ---\t----")
	for _, key := range messages.Keys() {
		fmt.Fprintf(w, "  %s\t%s\n", key, catalog.Get(key))
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "Override any of them in the config file:")
	h.colors["example"].Fprintf(h.out, "  messages:\n    %s:\n      %s: \"...\"\n", catalog.Language(), messages.ParamsHeader)
	return nil
}

var builtinModes = []ModeInfo{
	{
		Name:             "scanner",
		ShortDescription: "Bracket-aware scan of each push body (default)",
		DetailedDescription: "Finds each dataLayer.push( call and follows braces and brackets to the\n" +
			"matching close, skipping over quoted strings. Top-level entries are split\n" +
			"on commas and keys are reported without their quotes. Values are kept as\n" +
			"written, including negative numbers, arrays and nested objects.",
		Limitations: []string{
			"Calls whose body never closes are skipped",
			"Values are not checked for JavaScript validity",
		},
		Examples: []string{"datalayer-extract --mode scanner plan.pdf"},
	},
	{
		Name:             "regex",
		ShortDescription: "Non-greedy pattern match, compatible with earlier reports",
		DetailedDescription: "Captures from dataLayer.push({ up to the first '})' and pairs keys with\n" +
			"quoted strings, digit runs, true, false or null. Pairs inside nested\n" +
			"objects are reported flat and quoted keys keep their quotes.",
		Limitations: []string{
			"Bodies containing an inner '})' are truncated",
			"Negative numbers, decimals, arrays and objects are not reported as values",
		},
		Examples: []string{"datalayer-extract --mode regex plan.pdf"},
	},
}
