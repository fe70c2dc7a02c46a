package subs

import (
	"fmt"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// Parse dispatches to the format-specific astisub reader and flattens the
// resulting tree into a SubtitleDocument. payload must already be decoded
// UTF-8 (see pkg/encoding).
func Parse(payload string, format Format, sourcePath string) (*SubtitleDocument, error) {
	var (
		subtitles *astisub.Subtitles
		err       error
	)

	switch format {
	case FormatASS:
		subtitles, err = ParseASS(payload)
	case FormatSRT:
		subtitles, err = ParseSRT(payload)
	case FormatVTT:
		subtitles, err = ParseVTT(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	doc := flatten(subtitles, format, sourcePath)
	Logger.Debug().
		Str("format", string(format)).
		Str("path", sourcePath).
		Int("lines", doc.LineCount()).
		Msg("parsed subtitle document")
	return doc, nil
}
