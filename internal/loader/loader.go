// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package loader turns a PDF file into one text blob: every page's text
// followed by a newline, in page order.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound is returned when the PDF path does not exist
	ErrNotFound = errors.New("PDF file not found")
	// ErrInvalidPDF is returned when the file cannot be parsed as a PDF
	ErrInvalidPDF = errors.New("invalid PDF file")
)

// Layout selects how page text is reconstructed
type Layout string

const (
	// LayoutPlain concatenates the text-showing operators of the page
	LayoutPlain Layout = "plain"
	// LayoutRows rebuilds lines from glyph positions, top to bottom
	LayoutRows Layout = "rows"
)

// ParseLayout converts a configuration or flag value into a Layout
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutPlain:
		return LayoutPlain, nil
	case LayoutRows:
		return LayoutRows, nil
	default:
		return "", fmt.Errorf("unknown page layout '%s' (want %s or %s)", s, LayoutPlain, LayoutRows)
	}
}

// Options controls how a document is loaded
type Options struct {
	// Validate runs pdfcpu's relaxed validation before extracting text
	Validate bool
	// Normalize applies Unicode NFC normalisation to page text
	Normalize bool
	Layout    Layout
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{Normalize: true, Layout: LayoutPlain}
}

// Document is the text of a loaded PDF
type Document struct {
	Path      string
	Text      string
	PageCount int
	// EmptyPages lists 1-based page numbers that contributed no text,
	// including the failed ones
	EmptyPages []int
	// FailedPages lists pages whose text extraction errored or panicked
	FailedPages []int
}

// PageSource yields the text of numbered pages, starting at 1
type PageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

// Load opens the PDF at path and returns its concatenated page text.
// The file is closed on every return path, including a panic inside the
// PDF library, which is reported as ErrInvalidPDF.
func Load(path string, opts Options) (doc *Document, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("error accessing PDF: %w", statErr)
	}

	if opts.Validate {
		if err := Validate(path); err != nil {
			return nil, err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: %v", ErrInvalidPDF, filepath.Base(path), r)
		}
	}()

	f, src, err := openSource(path, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPDF, filepath.Base(path), err)
	}
	defer f.Close()

	text, empty, failed := JoinPages(src, opts.Normalize)

	return &Document{
		Path:        path,
		Text:        text,
		PageCount:   src.NumPage(),
		EmptyPages:  empty,
		FailedPages: failed,
	}, nil
}

// openSource opens path for page iteration. The returned closer releases
// the file handle.
var openSource = openPDF

func openPDF(path string, layout Layout) (io.Closer, PageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	opened := false
	defer func() {
		if !opened {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, nil, err
	}

	opened = true
	return f, &pdfSource{reader: r, layout: layout}, nil
}

// Validate checks the file with pdfcpu in relaxed mode
func Validate(path string) error {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPDF, filepath.Base(path), err)
	}
	return nil
}

// JoinPages appends each page's text and a newline, in page order. A page
// that errors, panics or has no text contributes an empty string and is
// listed in empty; the ones that errored or panicked are also in failed.
func JoinPages(src PageSource, normalize bool) (joined string, empty, failed []int) {
	var buf strings.Builder

	for i := 1; i <= src.NumPage(); i++ {
		text, err := pageText(src, i)
		if err != nil {
			failed = append(failed, i)
			text = ""
		}
		if text == "" {
			empty = append(empty, i)
		}
		if normalize {
			text = norm.NFC.String(text)
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return buf.String(), empty, failed
}

// pageText isolates a panicking page so the remaining pages still load
func pageText(src PageSource, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, r)
		}
	}()
	return src.PageText(num)
}
