// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfSource adapts a ledongthuc/pdf reader to PageSource
type pdfSource struct {
	reader *pdf.Reader
	layout Layout
}

func (s *pdfSource) NumPage() int {
	return s.reader.NumPage()
}

func (s *pdfSource) PageText(num int) (string, error) {
	p := s.reader.Page(num)
	if p.V.IsNull() {
		return "", nil
	}

	if s.layout == LayoutRows {
		if text, err := rowText(p); err == nil {
			return text, nil
		}
	}
	return plainText(p)
}

// plainText resolves the page's own fonts, since resource names are only
// unique within a page
func plainText(p pdf.Page) (string, error) {
	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		font := p.Font(name)
		fonts[name] = &font
	}
	return p.GetPlainText(fonts)
}

// rowText rebuilds the page line by line from glyph positions
func rowText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return "", err
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}

	// PDF y grows upwards: higher rows come first
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	lines := make([]string, 0, len(sorted))
	for _, row := range sorted {
		if line := joinRow(row.Content); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// joinRow orders a row's glyphs left to right and inserts a space wherever
// the gap to the next glyph exceeds a fifth of the font size
func joinRow(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}

	ordered := make([]pdf.Text, len(texts))
	copy(ordered, texts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].X < ordered[j].X
	})

	var b strings.Builder
	for i, t := range ordered {
		b.WriteString(t.S)
		if i == len(ordered)-1 {
			break
		}

		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := ordered[i+1].X - (t.X + t.W)
		if gap > fontSize*0.2 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
