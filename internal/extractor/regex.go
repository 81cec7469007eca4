// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"regexp"
	"strings"
)

// Whitespace and word classes are widened to Unicode so that text pulled from
// Turkish documents (dotless i, no-break spaces) still matches.
var (
	pushPattern  = regexp.MustCompile(`(?s)dataLayer\.push\((\{.*?\})\)`)
	paramPattern = regexp.MustCompile(`(?s)(['"]?[\p{L}\p{N}_]+['"]?)[\s\v\p{Z}]*:[\s\v\p{Z}]*(['"].*?['"]|\p{Nd}+|true|false|null)`)
)

func regexSpans(text string) []span {
	matches := pushPattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([]span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, span{offset: m[0], body: text[m[2]:m[3]]})
	}
	return spans
}

func regexParams(body string) []Param {
	matches := paramPattern.FindAllStringSubmatch(body, -1)
	params := make([]Param, 0, len(matches))
	for _, m := range matches {
		// Only ':' and ' ' are trimmed; quotes around the key stay.
		params = append(params, Param{Key: strings.Trim(m[1], ": "), Value: m[2]})
	}
	return params
}

// regexSpanAt applies the push pattern to the call starting exactly at start
// and returns the span and the index just past the match.
func regexSpanAt(text string, start int) (span, int, bool) {
	m := pushPattern.FindStringSubmatchIndex(text[start:])
	if m == nil || m[0] != 0 {
		return span{}, 0, false
	}
	return span{offset: start, body: text[start+m[2] : start+m[3]]}, start + m[1], true
}
