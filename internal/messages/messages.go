// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package messages holds the user-facing report strings, keyed by language.
package messages

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies one report message
type Key string

const (
	// NoPushes is printed alone when the document has no dataLayer.push calls
	NoPushes Key = "no_pushes"
	// PushHeader introduces one push; it must contain a single %d for the index
	PushHeader Key = "push_header"
	// ParamsHeader precedes the key/value lines of a push
	ParamsHeader Key = "params_header"
	// ParamsUnparsed replaces the parameter list when nothing could be split out
	ParamsUnparsed Key = "params_unparsed"
)

// DefaultLanguage is the language of the tagging documents
const DefaultLanguage = "tr"

var allKeys = []Key{NoPushes, PushHeader, ParamsHeader, ParamsUnparsed}

var builtin = map[string]map[Key]string{
	"tr": {
		NoPushes:       "Hiç dataLayer.push bulunamadı.",
		PushHeader:     "--- dataLayer.push #%d ---",
		ParamsHeader:   "Parametreler:",
		ParamsUnparsed: "Parametreler ayrıştırılamadı.",
	},
	"en": {
		NoPushes:       "No dataLayer.push calls found.",
		PushHeader:     "--- dataLayer.push #%d ---",
		ParamsHeader:   "Parameters:",
		ParamsUnparsed: "Could not parse parameters.",
	},
}

// Catalog is the resolved message table for one language
type Catalog struct {
	lang  string
	table map[Key]string
}

// Languages returns the built-in language codes, sorted
func Languages() []string {
	langs := make([]string, 0, len(builtin))
	for lang := range builtin {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Keys returns every message key a catalog defines
func Keys() []Key {
	return append([]Key(nil), allKeys...)
}

// New builds the catalog for lang, applying overrides on top of the built-in
// table. A language without a built-in table is accepted only when overrides
// supply every key.
func New(lang string, overrides map[string]string) (*Catalog, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = DefaultLanguage
	}

	table := make(map[Key]string, len(allKeys))
	for k, v := range builtin[lang] {
		table[k] = v
	}

	for name, text := range overrides {
		key := Key(name)
		if !isKnown(key) {
			return nil, fmt.Errorf("unknown message key '%s' for language '%s'", name, lang)
		}
		table[key] = text
	}

	for _, key := range allKeys {
		if _, ok := table[key]; !ok {
			return nil, fmt.Errorf("language '%s' has no message for '%s'", lang, key)
		}
	}

	if strings.Count(table[PushHeader], "%d") != 1 {
		return nil, fmt.Errorf("message '%s' for language '%s' must contain exactly one %%d", PushHeader, lang)
	}

	return &Catalog{lang: lang, table: table}, nil
}

// Language returns the catalog's language code
func (c *Catalog) Language() string {
	return c.lang
}

// Get returns the message text for key
func (c *Catalog) Get(key Key) string {
	return c.table[key]
}

// Format renders the message for key with fmt verbs
func (c *Catalog) Format(key Key, args ...interface{}) string {
	return fmt.Sprintf(c.table[key], args...)
}

func isKnown(key Key) bool {
	for _, k := range allKeys {
		if k == key {
			return true
		}
	}
	return false
}
