package subs

import (
	"bytes"
	"fmt"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// Reconstruct writes translated.Lines' text back into original's astisub
// tree — by DialogLine.Index, never by text match, so two source lines
// with identical dialog never collide — and serializes the result with
// the format-appropriate astisub writer. Every style, region, timing and
// comment astisub parsed out of the source file is carried through
// unmodified; only the Items this package found translatable are
// rewritten.
func Reconstruct(original, translated *SubtitleDocument) (string, error) {
	if original.subtitles == nil {
		return "", fmt.Errorf("subs: original document has no parsed source to reconstruct from")
	}

	for _, dl := range translated.Lines {
		if dl.Index < 0 || dl.Index >= len(original.refs) {
			continue
		}
		setItemText(original.refs[dl.Index], dl.Text)
	}

	var buf bytes.Buffer
	var err error
	switch original.Format {
	case FormatASS:
		err = original.subtitles.WriteToSSA(&buf)
	case FormatSRT:
		err = original.subtitles.WriteToSRT(&buf)
	case FormatVTT:
		err = original.subtitles.WriteToWebVTT(&buf)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, original.Format)
	}
	if err != nil {
		return "", fmt.Errorf("subs: writing %s output: %w", original.Format, err)
	}
	return buf.String(), nil
}

// setItemText replaces an item's display text in place. Translated text
// lands on the first line item, the common case for ASS/SRT where each
// item carries exactly one voice span; any further line items (multi-
// voice WebVTT cues) are cleared rather than left holding stale
// source-language text.
func setItemText(item *astisub.Item, text string) {
	if len(item.Lines) == 0 {
		item.Lines = []astisub.Line{{Items: []astisub.LineItem{{Text: text}}}}
		return
	}
	first := true
	for li := range item.Lines {
		for lj := range item.Lines[li].Items {
			if first {
				item.Lines[li].Items[lj].Text = text
				first = false
			} else {
				item.Lines[li].Items[lj].Text = ""
			}
		}
	}
}
