package subs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVTT = "WEBVTT\n\nNOTE this is a comment\n\n00:00:01.000 --> 00:00:02.000 position:50%\nHello there\n\n00:00:03.000 --> 00:00:04.000\nWorld\n"

func parseVTTDoc(t *testing.T) *SubtitleDocument {
	t.Helper()
	doc, err := Parse(sampleVTT, FormatVTT, "sample.vtt")
	require.NoError(t, err)
	return doc
}

func TestParseVTT_SkipsHeaderAndNotesAndHints(t *testing.T) {
	doc := parseVTTDoc(t)

	require.Equal(t, 2, doc.LineCount())
	assert.Equal(t, "Hello there", doc.Lines[0].Text)
	assert.Equal(t, "World", doc.Lines[1].Text)
}

func TestReconstructVTT_EmitsCues(t *testing.T) {
	original := parseVTTDoc(t)

	translated := &SubtitleDocument{Format: FormatVTT, Lines: make([]DialogLine, len(original.Lines))}
	copy(translated.Lines, original.Lines)
	translated.Lines[0].Text = "Olá"
	translated.Lines[1].Text = "Mundo"

	out, err := Reconstruct(original, translated)
	require.NoError(t, err)
	assert.Contains(t, out, "WEBVTT")
	assert.Contains(t, out, "Olá")
	assert.Contains(t, out, "Mundo")
}
