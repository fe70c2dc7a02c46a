// Package subs implements the subtitle data model: parsing of ASS/SSA, SRT
// and WebVTT payloads into a format-agnostic DialogLine sequence, the
// dialog-filter heuristics that decide which lines are translatable, and
// the reconstructor that writes translated text back into the source
// format while preserving everything else (styles, timing, regions)
// untouched.
//
// Parsing and writing are delegated to astisub, which already understands
// all three container formats; this package only adds the
// translation-oriented view over its Items/Lines/LineItems tree.
package subs

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// Logger is the package-level logger for subs, mirrored on the teacher's
// pkg/llms.Logger convention. Callers may replace it with SetLogger.
var Logger zerolog.Logger = log.Logger.With().Str("component", "subs").Logger()

// SetLogger installs l (scoped with a "subs" component field) as the
// package logger.
func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("component", "subs").Logger()
}

// Format identifies one of the three subtitle container formats this
// package understands.
type Format string

const (
	FormatASS Format = "ass"
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat maps a case-insensitive file extension (with or without the
// leading dot) to a Format. ".ssa" is accepted as an alias for ASS.
func ParseFormat(ext string) (Format, error) {
	switch normalizeExt(ext) {
	case "ass", "ssa":
		return FormatASS, nil
	case "srt":
		return FormatSRT, nil
	case "vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

func normalizeExt(ext string) string {
	out := make([]byte, 0, len(ext))
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if c == '.' && i == 0 {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// DialogLine is one subtitle cue as produced by a Parser and consumed by
// the Translation Engine and Reconstructor.
type DialogLine struct {
	// Index is the dense, zero-based position of this line among the
	// lines a Parser retained after filtering (invariant I1).
	Index int
	// Text is the displayable dialog astisub decoded for this item's
	// lines, joined with '\n'. This is what gets sent for translation
	// and, after a successful batch, replaced with the translated text.
	Text string
	// OriginalWithFormatting mirrors Text as astisub handed it to us:
	// override tags and style/position directives are already split out
	// into the underlying Item's InlineStyle/Style, so this package
	// never sees the raw escape sequences the source file used.
	OriginalWithFormatting string
	// Start and End are the item's timing, formatted the way the source
	// container prints it (H:MM:SS.cc for ASS, HH:MM:SS,mmm for SRT,
	// HH:MM:SS.mmm for WebVTT).
	Start string
	End   string
	// Style and Name are ASS/WebVTT metadata; empty when the source item
	// carries neither a style reference nor a voice name.
	Style string
	Name  string
}

// SubtitleDocument is the structured, parsed form of one subtitle file. It
// wraps the astisub tree it was parsed from so Reconstruct can write
// translated text back in place and re-serialize via astisub, carrying
// the styles, regions and metadata astisub parsed. The output is
// astisub's serialization of that tree, not a byte copy of the source.
type SubtitleDocument struct {
	Format     Format
	Lines      []DialogLine
	SourcePath string

	subtitles *astisub.Subtitles
	// refs holds, for each entry in Lines, the underlying astisub item
	// whose display text that DialogLine was read from. Reconstruct
	// indexes into refs by DialogLine.Index, so two DialogLines with
	// identical Text never collide on lookup.
	refs []*astisub.Item
}

// LineCount returns len(Lines), satisfying invariant I1's "line_count
// equal to list length" requirement as a method rather than a stored,
// independently-mutable field.
func (d *SubtitleDocument) LineCount() int {
	return len(d.Lines)
}
