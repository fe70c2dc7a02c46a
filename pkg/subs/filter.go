package subs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// styleBlacklist holds style-name tokens that mark a line as non-dialog
// (karaoke, signs, credits...). Matching is case-insensitive substring OR
// whole-word, per spec.
var styleBlacklist = []string{
	"op", "ed", "opening", "ending", "karaoke", "romaji", "japanese",
	"sign", "signs", "title", "song", "lyrics", "insert", "credit", "credits",
}

var musicSubstrings = []string{
	"[music", "(music", "bgm", "instrumental", "ending theme", "opening theme",
}

const musicNotes = "♪♫♩♬"

// candidateLine is the minimal information the filter needs, decoupled
// from DialogLine so the predicate can be evaluated without constructing
// a full DialogLine.
type candidateLine struct {
	Text                   string
	OriginalWithFormatting string
	Style                  string
}

// IsTranslatable applies the dialog-filter heuristics from spec.md §4.3 to
// a prospective line. The Parser calls it to decide which lines get an
// Index; the Reconstructor does not call it again, since it only rewrites
// the items the Parser recorded for retained lines, so rejected lines are
// left untouched by construction.
func IsTranslatable(text, originalWithFormatting, style string) bool {
	return isTranslatable(candidateLine{
		Text:                   text,
		OriginalWithFormatting: originalWithFormatting,
		Style:                  style,
	})
}

func isTranslatable(l candidateLine) bool {
	trimmed := strings.TrimSpace(l.Text)

	// 1. Empty after trimming.
	if trimmed == "" {
		return false
	}

	// 2. Length below threshold.
	if utf8.RuneCountInString(trimmed) < 3 {
		return false
	}

	// 3. Style blacklist (ASS only).
	if l.Style != "" && styleMatchesBlacklist(l.Style) {
		return false
	}

	// 4. Music/karaoke content heuristic.
	if isMusicOrKaraoke(l.Text, trimmed, l.OriginalWithFormatting) {
		return false
	}

	return true
}

func styleMatchesBlacklist(style string) bool {
	lower := strings.ToLower(style)
	for _, term := range styleBlacklist {
		if lower == term {
			return true
		}
		if strings.Contains(lower, term) {
			return true
		}
		for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			if word == term {
				return true
			}
		}
	}
	return false
}

func isMusicOrKaraoke(text, trimmed, originalWithFormatting string) bool {
	if strings.ContainsAny(text, musicNotes) {
		return true
	}

	lowerText := strings.ToLower(text)
	for _, sub := range musicSubstrings {
		if strings.Contains(lowerText, sub) {
			return true
		}
	}

	lowerOrig := strings.ToLower(originalWithFormatting)
	if strings.Contains(lowerOrig, `\k`) {
		return true
	}

	if strings.Contains(originalWithFormatting, `\an`) &&
		utf8.RuneCountInString(trimmed) <= 3 &&
		isAllASCIIAlpha(trimmed) {
		return true
	}

	if isShortRepeatingRomaji(trimmed) {
		return true
	}

	return false
}

// isAllASCIIAlpha reports whether every non-whitespace rune in s is an
// ASCII letter.
func isAllASCIIAlpha(s string) bool {
	seenAny := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		seenAny = true
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return seenAny
}

// isShortRepeatingRomaji implements the fifth music heuristic clause: a
// whitespace-tokenized, all-ASCII-alphabetic-or-space line that is itself
// short, or mostly made of short tokens, and whose distinct-token count
// suggests syllable repetition (converted karaoke lyrics): at least three
// tokens, no more than half of them distinct.
func isShortRepeatingRomaji(trimmed string) bool {
	if !isAllASCIIAlphaOrSpace(trimmed) {
		return false
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return false
	}

	runeLen := utf8.RuneCountInString(trimmed)
	shortTokenCount := 0
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= 3 {
			shortTokenCount++
		}
	}
	isShort := runeLen <= 3 || float64(shortTokenCount)/float64(len(tokens)) >= 0.5
	if !isShort {
		return false
	}

	if len(tokens) < 3 {
		return false
	}
	distinct := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		distinct[strings.ToLower(tok)] = struct{}{}
	}
	return float64(len(distinct)) <= float64(len(tokens))/2
}

func isAllASCIIAlphaOrSpace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
