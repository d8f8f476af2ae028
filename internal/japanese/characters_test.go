package japanese

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		char     rune
		expected Script
	}{
		{
			name:     "hiragana character",
			char:     'あ',
			expected: ScriptHiragana,
		},
		{
			name:     "katakana character",
			char:     'ア',
			expected: ScriptKatakana,
		},
		{
			name:     "kanji character",
			char:     '元',
			expected: ScriptKanji,
		},
		{
			name:     "supplementary plane kanji",
			char:     0x20000,
			expected: ScriptKanji,
		},
		{
			name:     "long vowel mark resolves to hiragana",
			char:     'ー',
			expected: ScriptHiragana,
		},
		{
			name:     "latin letter",
			char:     'a',
			expected: ScriptOther,
		},
		{
			name:     "digit",
			char:     '3',
			expected: ScriptOther,
		},
		{
			name:     "space",
			char:     ' ',
			expected: ScriptOther,
		},
		{
			name:     "cjk punctuation",
			char:     '。',
			expected: ScriptOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.char))
		})
	}
}

func TestClassify_isTotal(t *testing.T) {
	// Every code point maps to exactly one script; the predicates only
	// overlap on the long vowel mark, which Classify resolves to hiragana.
	for r := rune(0x3000); r <= 0x30FF; r++ {
		script := Classify(r)
		assert.Contains(t, []Script{ScriptHiragana, ScriptKatakana, ScriptKanji, ScriptOther}, script)
		if IsHiragana(r) && IsKatakana(r) {
			assert.Equal(t, 'ー', r)
			assert.Equal(t, ScriptHiragana, script)
		}
	}
}

func TestExtractUnique(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []rune
	}{
		{
			name:     "duplicates keep first appearance order",
			text:     "あいあう",
			expected: []rune{'あ', 'い', 'う'},
		},
		{
			name:     "mixed scripts in order of appearance",
			text:     "元気ですカナ",
			expected: []rune{'元', '気', 'で', 'す', 'カ', 'ナ'},
		},
		{
			name:     "whitespace and latin dropped",
			text:     "あ a い\nう",
			expected: []rune{'あ', 'い', 'う'},
		},
		{
			name:     "no japanese content",
			text:     "hello world",
			expected: nil,
		},
		{
			name:     "empty string",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractUnique(tt.text))
		})
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize("元気ですカナー")

	assert.Equal(t, []rune{'で', 'す', 'ー'}, got.Hiragana)
	assert.Equal(t, []rune{'カ', 'ナ'}, got.Katakana)
	assert.Equal(t, []rune{'元', '気'}, got.Kanji)
}

func TestHasJapaneseContent(t *testing.T) {
	assert.True(t, HasJapaneseContent("hello 元 world"))
	assert.False(t, HasJapaneseContent("hello world"))
	assert.False(t, HasJapaneseContent(""))
}
