// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"

	"datalayer-extract/internal/extractor"
	"datalayer-extract/internal/messages"

	"github.com/fatih/color"
)

// Reporter prints extracted pushes as human-readable text
type Reporter struct {
	messages *messages.Catalog
	colors   map[string]*color.Color
}

// NewReporter creates a reporter using the given message catalog
func NewReporter(catalog *messages.Catalog, noColor bool) *Reporter {
	colors := map[string]*color.Color{
		"header":  color.New(color.FgCyan, color.Bold),
		"params":  color.New(color.FgGreen),
		"key":     color.New(color.FgYellow),
		"warning": color.New(color.FgRed),
	}
	for _, c := range colors {
		if noColor {
			c.DisableColor()
		}
	}

	return &Reporter{
		messages: catalog,
		colors:   colors,
	}
}

// Report writes one section per push, or the single no-pushes line
func (r *Reporter) Report(w io.Writer, pushes []extractor.Push) error {
	if len(pushes) == 0 {
		_, err := fmt.Fprintln(w, r.colors["warning"].Sprint(r.messages.Get(messages.NoPushes)))
		return err
	}

	for _, push := range pushes {
		if err := r.writePush(w, push); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writePush(w io.Writer, push extractor.Push) error {
	header := r.messages.Format(messages.PushHeader, push.Index)
	if _, err := fmt.Fprintf(w, "\n%s\n%s\n", r.colors["header"].Sprint(header), push.Body); err != nil {
		return err
	}

	if len(push.Params) == 0 {
		_, err := fmt.Fprintln(w, r.colors["warning"].Sprint(r.messages.Get(messages.ParamsUnparsed)))
		return err
	}

	if _, err := fmt.Fprintln(w, r.colors["params"].Sprint(r.messages.Get(messages.ParamsHeader))); err != nil {
		return err
	}
	for _, p := range push.Params {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", r.colors["key"].Sprint(p.Key), p.Value); err != nil {
			return err
		}
	}
	return nil
}
