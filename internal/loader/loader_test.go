// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"datalayer-extract/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	numPagePanics bool

	pages  []string
	errs   map[int]error
	panics map[int]bool
}

func (f *fakeSource) NumPage() int {
	if f.numPagePanics {
		panic("broken page tree")
	}
	return len(f.pages)
}

type trackingCloser struct {
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func stubOpenSource(t *testing.T, closer io.Closer, src PageSource) {
	t.Helper()
	saved := openSource
	openSource = func(string, Layout) (io.Closer, PageSource, error) {
		return closer, src, nil
	}
	t.Cleanup(func() { openSource = saved })
}

func (f *fakeSource) PageText(num int) (string, error) {
	if f.panics[num] {
		panic("malformed content stream")
	}
	if err := f.errs[num]; err != nil {
		return "partial", err
	}
	return f.pages[num-1], nil
}

func TestJoinPages_NewlineAfterEveryPage(t *testing.T) {
	text, empty, failed := JoinPages(&fakeSource{pages: []string{"first", "second"}}, false)

	assert.Equal(t, "first\nsecond\n", text)
	assert.Empty(t, empty)
	assert.Empty(t, failed)
}

func TestJoinPages_EmptyAndFailingPagesBecomeEmptyStrings(t *testing.T) {
	src := &fakeSource{
		pages:  []string{"a", "", "c", "d", "e"},
		errs:   map[int]error{4: errors.New("bad font")},
		panics: map[int]bool{5: true},
	}

	text, empty, failed := JoinPages(src, false)

	assert.Equal(t, "a\n\nc\n\n\n", text)
	assert.Equal(t, []int{2, 4, 5}, empty)
	assert.Equal(t, []int{4, 5}, failed)
}

func TestJoinPages_NoPages(t *testing.T) {
	text, empty, _ := JoinPages(&fakeSource{}, true)
	assert.Equal(t, "", text)
	assert.Empty(t, empty)
}

func TestJoinPages_Normalize(t *testing.T) {
	// "Ş" written as S + combining cedilla, as some PDF producers emit it
	decomposed := "S\u0327ablon"
	src := &fakeSource{pages: []string{decomposed}}

	raw, _, _ := JoinPages(src, false)
	normalized, _, _ := JoinPages(src, true)

	assert.Equal(t, decomposed+"\n", raw)
	assert.Equal(t, "\u015eablon\n", normalized)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutPlain, l)

	l, err = ParseLayout("ROWS")
	require.NoError(t, err)
	assert.Equal(t, LayoutRows, l)

	_, err = ParseLayout("columns")
	assert.Error(t, err)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.pdf"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("dataLayer.push({event: 'x'})"), 0600))

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPDF))
}

func TestLoad_ValidateRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0600))

	opts := DefaultOptions()
	opts.Validate = true

	_, err := Load(path, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPDF))
}

func TestLoad_GeneratedPDF(t *testing.T) {
	path := testutil.WritePDF(t, []string{
		"Event plan",
		"",
		"dataLayer.push({event: 'login'})",
	})

	doc, err := Load(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, []int{2}, doc.EmptyPages)
	assert.Empty(t, doc.FailedPages)
	assert.Contains(t, doc.Text, "Event plan")
	assert.Contains(t, doc.Text, "dataLayer.push({event: 'login'})")
	assert.Equal(t, 3, strings.Count(doc.Text, "\n"))
}

func TestValidate_GeneratedPDF(t *testing.T) {
	path := testutil.WritePDF(t, []string{"dataLayer.push({event: 'login'})"})
	assert.NoError(t, Validate(path))
}

func TestLoad_LibraryPanicClosesFileAndReportsInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0600))

	closer := &trackingCloser{}
	stubOpenSource(t, closer, &fakeSource{numPagePanics: true})

	doc, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, ErrInvalidPDF))
	assert.Contains(t, err.Error(), "broken page tree")
	assert.True(t, closer.closed)
}

func TestLoad_FailedPagesAreReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0600))

	closer := &trackingCloser{}
	stubOpenSource(t, closer, &fakeSource{
		pages:  []string{"dataLayer.push({a: 1})", "", "x"},
		errs:   map[int]error{3: errors.New("bad font")},
		panics: map[int]bool{},
	})

	doc, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, []int{2, 3}, doc.EmptyPages)
	assert.Equal(t, []int{3}, doc.FailedPages)
	assert.True(t, closer.closed)
}

func TestLoad_TruncatedPDF(t *testing.T) {
	data := testutil.BuildPDF([]string{"dataLayer.push({event: 'login'})", "second page"})
	path := filepath.Join(t.TempDir(), "truncated.pdf")
	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0600))

	_, err := Load(path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPDF))
}
