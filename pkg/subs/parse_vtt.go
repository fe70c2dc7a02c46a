package subs

import (
	"strings"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// ParseVTT hands a UTF-8 WebVTT payload to astisub's native WebVTT reader.
func ParseVTT(payload string) (*astisub.Subtitles, error) {
	return astisub.ReadFromWebVTT(strings.NewReader(payload))
}
