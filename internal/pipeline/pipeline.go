// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline runs the load, extract and parse stages in order.
package pipeline

import (
	"fmt"

	"datalayer-extract/internal/extractor"
	"datalayer-extract/internal/loader"
	"datalayer-extract/internal/observability"
)

// Options holds the resolved settings for one run
type Options struct {
	Path   string
	Mode   extractor.Mode
	Loader loader.Options
}

// Result holds the loaded document and the pushes found in it
type Result struct {
	Document *loader.Document
	Pushes   []extractor.Push
}

// Run loads the PDF at opts.Path and extracts its pushes. debugObs may be nil.
func Run(opts Options, debugObs *observability.DebugObserver) (*Result, error) {
	if debugObs == nil {
		doc, err := loader.Load(opts.Path, opts.Loader)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", opts.Path, err)
		}
		return &Result{Document: doc, Pushes: extractor.Extract(doc.Text, opts.Mode)}, nil
	}

	finishRun := debugObs.StartTiming("pipeline", "run", opts.Path)
	finishStep := debugObs.StartStep("loader", "load PDF text", opts.Path)
	debugObs.LogDetail("loader", fmt.Sprintf("layout=%s validate=%v normalize=%v",
		opts.Loader.Layout, opts.Loader.Validate, opts.Loader.Normalize))

	finishLoad := debugObs.StartTiming("loader", "load", opts.Path)
	doc, err := loader.Load(opts.Path, opts.Loader)
	if err != nil {
		finishLoad(false, map[string]interface{}{"error": err.Error()})
		finishStep(false, err.Error())
		finishRun(false, map[string]interface{}{"mode": string(opts.Mode), "error": err.Error()})
		return nil, fmt.Errorf("failed to load %s: %w", opts.Path, err)
	}
	finishLoad(true, map[string]interface{}{
		"pages":        doc.PageCount,
		"empty_pages":  len(doc.EmptyPages),
		"failed_pages": len(doc.FailedPages),
	})

	debugObs.LogMetric("loader", "pages", doc.PageCount)
	debugObs.LogMetric("loader", "characters", len(doc.Text))
	if len(doc.EmptyPages) > 0 {
		debugObs.LogDetail("loader", fmt.Sprintf("pages without text: %v", doc.EmptyPages))
	}
	if len(doc.FailedPages) > 0 {
		debugObs.LogWarning("loader", fmt.Sprintf("text extraction failed on pages %v", doc.FailedPages))
	}
	finishStep(true, "")

	pushes := ExtractText(doc.Text, opts.Mode, debugObs)
	finishRun(true, map[string]interface{}{"mode": string(opts.Mode), "push_count": len(pushes)})

	return &Result{Document: doc, Pushes: pushes}, nil
}

// ExtractText runs the extraction stages over already loaded text
func ExtractText(text string, mode extractor.Mode, debugObs *observability.DebugObserver) []extractor.Push {
	if debugObs == nil {
		return extractor.Extract(text, mode)
	}

	finish := debugObs.StartStep("extractor", "find dataLayer.push calls", string(mode))
	pushes := extractor.Extract(text, mode)

	for _, p := range pushes {
		debugObs.LogMetric("extractor", fmt.Sprintf("push #%d params", p.Index), len(p.Params))
		if !extractor.Balanced(p.Body) {
			debugObs.LogWarning("extractor", fmt.Sprintf("push #%d at offset %d has unbalanced brackets and is probably truncated", p.Index, p.Offset))
		}
	}

	finish(true, fmt.Sprintf("%d pushes", len(pushes)))
	return pushes
}
