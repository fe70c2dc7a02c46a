package subs

import (
	"strings"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// ParseSRT hands a UTF-8 SubRip payload to astisub's native SRT reader.
func ParseSRT(payload string) (*astisub.Subtitles, error) {
	return astisub.ReadFromSRT(strings.NewReader(payload))
}
