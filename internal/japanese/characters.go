// Package japanese classifies Unicode code points into Japanese scripts and
// extracts the characters a glossary is built from.
package japanese

import "unicode"

// Script identifies the writing system of a single character.
type Script string

const (
	ScriptHiragana Script = "hiragana"
	ScriptKatakana Script = "katakana"
	ScriptKanji    Script = "kanji"
	ScriptOther    Script = "other"
)

// longVowelMark (U+30FC) belongs to both kana syllabaries.
const longVowelMark = 'ー'

// IsHiragana reports whether r is a hiragana character or the long vowel mark.
func IsHiragana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || r == longVowelMark
}

// IsKatakana reports whether r is a katakana character or the long vowel mark.
func IsKatakana(r rune) bool {
	return (r >= 0x30A0 && r <= 0x30FF) || r == longVowelMark
}

// IsKanji reports whether r is a CJK unified ideograph, including the
// supplementary plane extension.
func IsKanji(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FAF) || (r >= 0x20000 && r <= 0x2A6DF)
}

// IsJapanese reports whether r is hiragana, katakana or kanji.
func IsJapanese(r rune) bool {
	return IsHiragana(r) || IsKatakana(r) || IsKanji(r)
}

// Classify returns the script of r. The long vowel mark matches both kana
// syllabaries; hiragana wins, so classification is total and unambiguous.
func Classify(r rune) Script {
	switch {
	case IsHiragana(r):
		return ScriptHiragana
	case IsKatakana(r):
		return ScriptKatakana
	case IsKanji(r):
		return ScriptKanji
	default:
		return ScriptOther
	}
}

// ExtractUnique returns every Japanese character in text exactly once, in
// order of first appearance. Whitespace and non-Japanese characters are
// dropped.
func ExtractUnique(text string) []rune {
	seen := make(map[rune]struct{})
	var chars []rune
	for _, r := range text {
		if unicode.IsSpace(r) || !IsJapanese(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		chars = append(chars, r)
	}
	return chars
}

// Categories groups the unique Japanese characters of a text by script,
// preserving first-appearance order within each group.
type Categories struct {
	Hiragana []rune
	Katakana []rune
	Kanji    []rune
}

// Categorize splits the unique Japanese characters of text by script.
func Categorize(text string) Categories {
	var c Categories
	for _, r := range ExtractUnique(text) {
		switch Classify(r) {
		case ScriptHiragana:
			c.Hiragana = append(c.Hiragana, r)
		case ScriptKatakana:
			c.Katakana = append(c.Katakana, r)
		case ScriptKanji:
			c.Kanji = append(c.Kanji, r)
		}
	}
	return c
}

// HasJapaneseContent reports whether text contains at least one Japanese
// character.
func HasJapaneseContent(text string) bool {
	for _, r := range text {
		if IsJapanese(r) {
			return true
		}
	}
	return false
}
