// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractor finds dataLayer.push({...}) calls in document text and
// splits their object literals into key/value parameters.
//
// Two modes are available. ModeRegex keeps the output of earlier reports
// stable: a non-greedy match up to the first "})" and a key/value
// pattern that only recognises quoted strings, unsigned integers, true, false
// and null. An inner "})" truncates the body, and other values are dropped
// without warning. ModeScanner tracks brace depth and string literals, so
// nested objects are captured whole and every top-level entry is reported.
package extractor

import (
	"fmt"
	"strings"
)

// Mode selects the extraction strategy
type Mode string

const (
	// ModeScanner uses the brace-balancing scanner
	ModeScanner Mode = "scanner"
	// ModeRegex uses the non-greedy regular expressions
	ModeRegex Mode = "regex"
)

// DefaultMode is used when no mode is configured
const DefaultMode = ModeScanner

// pushCall is the call prefix both modes anchor on
const pushCall = "dataLayer.push("

// Param is one key/value entry of a push body
type Param struct {
	Key   string
	Value string
}

// Push is one dataLayer.push call found in the document text
type Push struct {
	// Index is 1-based, in order of appearance
	Index int
	// Offset is the byte offset of "dataLayer.push(" in the text
	Offset int
	// Body is the captured object literal, braces included
	Body   string
	Params []Param
}

// span is a captured body and where its call starts
type span struct {
	offset int
	body   string
}

// ParseMode converts a configuration or flag value into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeScanner:
		return ModeScanner, nil
	case ModeRegex:
		return ModeRegex, nil
	default:
		return "", fmt.Errorf("unknown extraction mode '%s' (want %s or %s)", s, ModeScanner, ModeRegex)
	}
}

// Extract finds every push in text and parses its parameters.
// It is a pure function of its inputs.
func Extract(text string, mode Mode) []Push {
	spans := findSpans(text, mode)
	pushes := make([]Push, 0, len(spans))
	for i, s := range spans {
		pushes = append(pushes, Push{
			Index:  i + 1,
			Offset: s.offset,
			Body:   s.body,
			Params: ParseParams(s.body, mode),
		})
	}
	return pushes
}

// FindPushes returns the captured push bodies in order of appearance
func FindPushes(text string, mode Mode) []string {
	spans := findSpans(text, mode)
	bodies := make([]string, 0, len(spans))
	for _, s := range spans {
		bodies = append(bodies, s.body)
	}
	return bodies
}

// ParseParams splits one push body into ordered key/value pairs
func ParseParams(body string, mode Mode) []Param {
	if mode == ModeRegex {
		return regexParams(body)
	}
	return scanParams(body)
}

// Balanced reports whether body is a single object literal whose braces,
// brackets and parentheses all close. A regex-mode body that is not balanced
// was most likely cut short at an inner "})".
func Balanced(body string) bool {
	if !strings.HasPrefix(body, "{") {
		return false
	}
	end, ok := matchBrace(body, 0)
	return ok && end == len(body)-1
}

func findSpans(text string, mode Mode) []span {
	if mode == ModeRegex {
		return regexSpans(text)
	}
	return scanSpans(text)
}
