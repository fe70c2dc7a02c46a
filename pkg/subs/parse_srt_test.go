package subs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n"

func parseSRTDoc(t *testing.T) *SubtitleDocument {
	t.Helper()
	doc, err := Parse(sampleSRT, FormatSRT, "sample.srt")
	require.NoError(t, err)
	return doc
}

func TestParseSRT_HappyPath(t *testing.T) {
	doc := parseSRTDoc(t)

	require.Equal(t, 2, doc.LineCount())
	assert.Equal(t, "Hello", doc.Lines[0].Text)
	assert.Equal(t, "World", doc.Lines[1].Text)
}

func TestReconstructSRT_PreservesTiming(t *testing.T) {
	original := parseSRTDoc(t)

	translated := &SubtitleDocument{Format: FormatSRT, Lines: make([]DialogLine, len(original.Lines))}
	copy(translated.Lines, original.Lines)
	translated.Lines[0].Text = "Olá"
	translated.Lines[1].Text = "Mundo"

	out, err := Reconstruct(original, translated)
	require.NoError(t, err)
	assert.Contains(t, out, "Olá")
	assert.Contains(t, out, "Mundo")
	assert.Contains(t, out, "00:00:01,000")
	assert.Contains(t, out, "00:00:04,000")
}

func TestParseSRT_StripsInlineTags(t *testing.T) {
	doc, err := Parse("1\n00:00:01,000 --> 00:00:02,000\n<i>Hello there</i>\n\n", FormatSRT, "inline.srt")
	require.NoError(t, err)
	require.Equal(t, 1, doc.LineCount())
	assert.Equal(t, "Hello there", doc.Lines[0].Text)
}
