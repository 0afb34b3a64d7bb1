// Package detector guesses the language a book is written in. The result is
// stored as book metadata only; tokenization never depends on it.
package detector

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
)

// sampleSize bounds how much text is handed to the detector. Detection cost
// grows with input length.
const sampleSize = 20000

// bodyMarker opens the body of a Project Gutenberg file. Everything before it
// is the English license header.
const bodyMarker = "*** START OF"

// Languages commonly found in public-domain book collections.
var Languages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Finnish,
	lingua.Swedish,
	lingua.Latin,
}

// Detector wraps a lazily built lingua detector.
type Detector struct {
	once      sync.Once
	languages []lingua.Language
	detector  lingua.LanguageDetector
}

// New returns a detector restricted to languages, or to Languages when
// none are given.
func New(languages ...lingua.Language) *Detector {
	if len(languages) == 0 {
		languages = Languages
	}
	return &Detector{languages: languages}
}

// Detect returns the lowercase ISO-639-1 code of the most likely language,
// or "" when the text gives no reliable signal.
func (d *Detector) Detect(text string) string {
	text = strings.TrimSpace(skipHeader(text))
	if text == "" {
		return ""
	}
	if len(text) > sampleSize {
		cut := sampleSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.languages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

// skipHeader returns the text after the line holding bodyMarker, or text
// unchanged when there is no marker.
func skipHeader(text string) string {
	i := strings.Index(text, bodyMarker)
	if i < 0 {
		return text
	}
	rest := text[i:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return ""
	}
	return rest[nl+1:]
}
