// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// quotePairs maps an opening string delimiter to its closing one. PDF text
// often carries typographic quotes in place of the ASCII ones.
var quotePairs = map[rune]rune{
	'\'': '\'',
	'"':  '"',
	'`':  '`',
	'‘':  '’',
	'“':  '”',
}

// closers maps each opening bracket to the one that closes it
var closers = map[rune]rune{
	'{': '}',
	'[': ']',
	'(': ')',
}

func isCloser(r rune) bool {
	return r == '}' || r == ']' || r == ')'
}

// scanSpans walks text for "dataLayer.push(" followed by an object literal
// and the closing parenthesis. Calls whose argument is not an object are
// skipped. An object that never balances is captured up to the first "})".
func scanSpans(text string) []span {
	var spans []span
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], pushCall)
		if j < 0 {
			break
		}
		start := i + j
		next := start + len(pushCall)

		open := skipSpace(text, next)
		if open >= len(text) || text[open] != '{' {
			i = next
			continue
		}

		end, ok := matchBrace(text, open)
		if !ok {
			// Fall back to the non-greedy capture so the call is still
			// reported, unless that capture runs into the next call.
			if sp, after, found := regexSpanAt(text, start); found && !strings.Contains(sp.body, pushCall) {
				spans = append(spans, sp)
				i = after
				continue
			}
			i = next
			continue
		}

		paren := skipSpace(text, end+1)
		if paren >= len(text) || text[paren] != ')' {
			i = next
			continue
		}

		spans = append(spans, span{offset: start, body: text[open : end+1]})
		i = paren + 1
	}
	return spans
}

// matchBrace returns the index of the '}' closing the '{' at open. String
// literals and comments are skipped and every bracket must close with its
// own kind.
func matchBrace(s string, open int) (int, bool) {
	var stack []rune
	for i := open; i < len(s); {
		if end, ok := skipComment(s, i); ok {
			i = end
			continue
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		if _, ok := quotePairs[r]; ok {
			end := skipString(s, i)
			if end < 0 {
				return 0, false
			}
			i = end
			continue
		}

		if c, ok := closers[r]; ok {
			stack = append(stack, c)
		} else if isCloser(r) {
			if len(stack) == 0 || stack[len(stack)-1] != r {
				return 0, false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
		i += n
	}
	return 0, false
}

// skipString returns the index just past the string literal starting at i,
// or -1 when it is unterminated.
func skipString(s string, i int) int {
	open, n := utf8.DecodeRuneInString(s[i:])
	want := quotePairs[open]
	for j := i + n; j < len(s); {
		r, size := utf8.DecodeRuneInString(s[j:])
		if r == '\\' {
			j += size
			if j < len(s) {
				_, esc := utf8.DecodeRuneInString(s[j:])
				j += esc
			}
			continue
		}
		if r == want {
			return j + size
		}
		j += size
	}
	return -1
}

// skipComment returns the index just past a // or /* */ comment starting at
// i. A line comment ends after its newline; an unclosed block comment runs
// to the end of s.
func skipComment(s string, i int) (int, bool) {
	if !strings.HasPrefix(s[i:], "/") || i+1 >= len(s) {
		return 0, false
	}
	switch s[i+1] {
	case '/':
		if nl := strings.IndexByte(s[i:], '\n'); nl >= 0 {
			return i + nl + 1, true
		}
		return len(s), true
	case '*':
		if end := strings.Index(s[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2, true
		}
		return len(s), true
	}
	return 0, false
}

// stripComments replaces every comment outside string literals with a space
func stripComments(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if end, ok := skipComment(s, i); ok {
			b.WriteByte(' ')
			i = end
			continue
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		if _, ok := quotePairs[r]; ok {
			if end := skipString(s, i); end >= 0 {
				b.WriteString(s[i:end])
				i = end
				continue
			}
		}
		b.WriteString(s[i : i+n])
		i += n
	}
	return b.String()
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += n
	}
	return i
}

// splitTopLevel splits s at sep where it occurs outside strings, comments and
// brackets.
// With limit > 0 at most limit parts are returned.
func splitTopLevel(s string, sep rune, limit int) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); {
		if end, ok := skipComment(s, i); ok {
			i = end
			continue
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		if _, ok := quotePairs[r]; ok {
			if end := skipString(s, i); end >= 0 {
				i = end
				continue
			}
			// An unterminated string swallows the rest of the input.
			break
		}

		switch {
		case closers[r] != 0:
			depth++
		case isCloser(r):
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0 && (limit <= 0 || len(parts) < limit-1):
			parts = append(parts, s[start:i])
			start = i + n
		}
		i += n
	}
	return append(parts, s[start:])
}

// scanParams reads the top-level entries of an object literal. Keys lose
// their quotes; values are the trimmed literal text, whatever its type.
// Comments are dropped. Entries with no top-level ':' (spreads, shorthand
// properties) are skipped.
func scanParams(body string) []Param {
	inner := strings.TrimSpace(body)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")
	inner = stripComments(inner)

	var params []Param
	for _, entry := range splitTopLevel(inner, ',', 0) {
		kv := splitTopLevel(entry, ':', 2)
		if len(kv) != 2 {
			continue
		}
		key := unquote(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])
		if key == "" || value == "" {
			continue
		}
		params = append(params, Param{Key: key, Value: value})
	}
	return params
}

// unquote strips one pair of matching string delimiters from s
func unquote(s string) string {
	open, n := utf8.DecodeRuneInString(s)
	want, ok := quotePairs[open]
	if !ok {
		return s
	}
	last, m := utf8.DecodeLastRuneInString(s)
	if len(s) < n+m || last != want {
		return s
	}
	return s[n : len(s)-m]
}
