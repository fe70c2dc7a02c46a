package subs

import (
	"fmt"
	"strings"
	"time"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// flatten walks an astisub tree in item order, joining each item's lines
// into a single displayable string and running it through IsTranslatable.
// Retained items get a dense Index and a pointer back into the tree so
// Reconstruct can write translated text in place.
func flatten(subtitles *astisub.Subtitles, format Format, sourcePath string) *SubtitleDocument {
	doc := &SubtitleDocument{
		Format:     format,
		SourcePath: sourcePath,
		subtitles:  subtitles,
	}

	// timestamp renders a duration in the source container's notation.
	timestamp := func(d time.Duration) string {
		ms := int64(d / time.Millisecond)
		h, m, s := ms/3600000, ms/60000%60, ms/1000%60
		ms %= 1000
		switch format {
		case FormatASS:
			return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms/10)
		case FormatSRT:
			return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
		default:
			return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
		}
	}

	nextIndex := 0
	for _, item := range subtitles.Items {
		if item == nil {
			continue
		}

		text, voiceName := itemText(item)
		if text == "" {
			continue
		}

		style := ""
		if item.Style != nil {
			style = item.Style.ID
		}

		if !IsTranslatable(text, text, style) {
			continue
		}

		dl := DialogLine{
			Index:                  nextIndex,
			Text:                   text,
			OriginalWithFormatting: text,
			Start:                  timestamp(item.StartAt),
			End:                    timestamp(item.EndAt),
			Style:                  style,
			Name:                   voiceName,
		}
		doc.Lines = append(doc.Lines, dl)
		doc.refs = append(doc.refs, item)
		nextIndex++
	}

	return doc
}

// itemText joins an item's lines (one per on-screen row) and, within a
// line, its voice-tagged spans, into a single '\n'-separated string. It
// also returns the first non-empty voice name encountered, which WebVTT
// "<v Name>" cues and the ASS Name field carry and SRT never populates.
func itemText(item *astisub.Item) (text string, voiceName string) {
	var rows []string
	for _, line := range item.Lines {
		var spans []string
		for _, li := range line.Items {
			if li.Text != "" {
				spans = append(spans, li.Text)
			}
		}
		if len(spans) == 0 {
			continue
		}
		rows = append(rows, strings.Join(spans, ""))
		if voiceName == "" && line.VoiceName != "" {
			voiceName = line.VoiceName
		}
	}
	return strings.Join(rows, "\n"), voiceName
}
