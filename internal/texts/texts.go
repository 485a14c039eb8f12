// Package texts holds the predefined strings revealed by the prompt demo.
//
// A Dataset carries six parallel variants of the same topics. Each variant
// maps a language code to a map of topic key to literal text, and every
// variant must cover exactly the (language, key) pairs of the base variant.
package texts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotLoaded   = errors.New("predefined texts not loaded")
	ErrMissingText = errors.New("predefined text missing")
	ErrIncomplete  = errors.New("predefined texts incomplete")
	ErrNoTopics    = errors.New("no topics for language")
)

// Language is a two-letter language code used as the first lookup level.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageBulgarian Language = "bg"
	LanguageGerman    Language = "de"
)

// DefaultLanguage is the language a new session starts in.
const DefaultLanguage = LanguageEnglish

// ParseLanguage accepts a code ("en") or an English name ("English").
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "english":
		return LanguageEnglish, nil
	case "bg", "bulgarian":
		return LanguageBulgarian, nil
	case "de", "german":
		return LanguageGerman, nil
	default:
		return "", fmt.Errorf("unknown language %q", s)
	}
}

// Variant selects one of the six precomputed transformations.
type Variant string

const (
	VariantBase       Variant = "base"
	VariantBulleted   Variant = "bulleted"
	VariantExpanded   Variant = "expanded"
	VariantRephrased  Variant = "rephrased"
	VariantSimplified Variant = "simplified"
	VariantSummarized Variant = "summarized"
)

// Variants lists every variant, base first.
var Variants = []Variant{
	VariantBase,
	VariantBulleted,
	VariantExpanded,
	VariantRephrased,
	VariantSimplified,
	VariantSummarized,
}

// Table maps language → topic key → text.
type Table map[Language]map[string]string

// Dataset is the document served at the predefined texts URL.
type Dataset struct {
	Base       Table `json:"predefinedTexts" yaml:"predefinedTexts"`
	Bulleted   Table `json:"predefinedTextsBulleted" yaml:"predefinedTextsBulleted"`
	Expanded   Table `json:"predefinedTextsExpanded" yaml:"predefinedTextsExpanded"`
	Rephrased  Table `json:"predefinedTextsRephrased" yaml:"predefinedTextsRephrased"`
	Simplified Table `json:"predefinedTextsSimplified" yaml:"predefinedTextsSimplified"`
	Summarized Table `json:"predefinedTextsSummarized" yaml:"predefinedTextsSummarized"`
}

// Table returns the table backing a variant.
func (d *Dataset) Table(v Variant) Table {
	if d == nil {
		return nil
	}
	switch v {
	case VariantBase:
		return d.Base
	case VariantBulleted:
		return d.Bulleted
	case VariantExpanded:
		return d.Expanded
	case VariantRephrased:
		return d.Rephrased
	case VariantSimplified:
		return d.Simplified
	case VariantSummarized:
		return d.Summarized
	default:
		return nil
	}
}

// Text looks up one string. A nil dataset yields ErrNotLoaded.
func (d *Dataset) Text(v Variant, lang Language, key string) (string, error) {
	if d == nil {
		return "", ErrNotLoaded
	}
	text, ok := d.Table(v)[lang][key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s/%s", ErrMissingText, v, lang, key)
	}
	return text, nil
}

// Keys returns the base variant's topic keys for lang, sorted.
func (d *Dataset) Keys(lang Language) ([]string, error) {
	if d == nil {
		return nil, ErrNotLoaded
	}
	topics := d.Base[lang]
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoTopics, lang)
	}
	keys := make([]string, 0, len(topics))
	for k := range topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Languages returns the base variant's languages, sorted.
func (d *Dataset) Languages() []Language {
	if d == nil {
		return nil
	}
	langs := make([]Language, 0, len(d.Base))
	for l := range d.Base {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Validate checks that every variant covers every (language, key) pair of
// the base variant. All gaps are reported in one error wrapping ErrIncomplete.
func (d *Dataset) Validate() error {
	if d == nil {
		return ErrNotLoaded
	}
	if len(d.Base) == 0 {
		return fmt.Errorf("%w: base variant is empty", ErrIncomplete)
	}

	var missing []string
	for _, lang := range d.Languages() {
		keys, _ := d.Keys(lang)
		for _, v := range Variants[1:] {
			table := d.Table(v)
			for _, key := range keys {
				if _, ok := table[lang][key]; !ok {
					missing = append(missing, fmt.Sprintf("%s/%s/%s", v, lang, key))
				}
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Candidates returns every variant's text for (lang, key), skipping absent ones.
func (d *Dataset) Candidates(lang Language, key string) []string {
	var out []string
	for _, v := range Variants {
		if text, err := d.Text(v, lang, key); err == nil {
			out = append(out, text)
		}
	}
	return out
}
