package subs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTranslatable_LengthThreshold(t *testing.T) {
	assert.False(t, IsTranslatable("ab", "ab", ""), "2-scalar line should be dropped")
	assert.True(t, IsTranslatable("abc", "abc", ""), "3-scalar line should be kept")
}

func TestIsTranslatable_EmptyAfterTrim(t *testing.T) {
	assert.False(t, IsTranslatable("   ", "   ", ""), "whitespace-only line should be dropped")
}

func TestIsTranslatable_StyleBlacklist(t *testing.T) {
	cases := []string{"OP Romaji", "Karaoke", "Signs", "opening", "Insert Song"}
	for _, style := range cases {
		assert.Falsef(t, IsTranslatable("this is a normal sentence", "this is a normal sentence", style),
			"style %q should be blacklisted", style)
	}
	assert.True(t, IsTranslatable("this is a normal sentence", "this is a normal sentence", "Default"))
}

func TestIsTranslatable_MusicNotes(t *testing.T) {
	assert.False(t, IsTranslatable("♪ la la la ♪", "♪ la la la ♪", ""))
}

func TestIsTranslatable_MusicSubstrings(t *testing.T) {
	assert.False(t, IsTranslatable("[Music Playing]", "[Music Playing]", ""))
	assert.False(t, IsTranslatable("Opening Theme begins softly", "Opening Theme begins softly", ""))
}

func TestIsTranslatable_KaraokeOverride(t *testing.T) {
	assert.False(t, IsTranslatable("kimito", `{\k20}ki{\k25}mi{\k30}to`, ""))
}

func TestIsTranslatable_ShortTopAlignedRomaji(t *testing.T) {
	assert.False(t, IsTranslatable("shi", `{\an8}shi`, ""))
}

func TestIsTranslatable_RepeatingRomajiSyllables(t *testing.T) {
	assert.False(t, IsTranslatable("da da da da da da", "da da da da da da", ""))
}

func TestIsTranslatable_OrdinaryDialogKept(t *testing.T) {
	assert.True(t, IsTranslatable("I can't believe you did that.", "I can't believe you did that.", "Default"))
}
