package subs

import (
	"strings"

	astisub "github.com/tassa-yoniso-manasi-karoto/go-astisub"
)

// ParseASS hands a UTF-8 ASS/SSA payload to astisub's native SSA reader,
// which builds the full Styles/Regions/Items tree. Reconstruct
// re-serializes that same tree, so everything astisub models is carried
// into the output; the output is astisub's serialization, not the
// source bytes.
func ParseASS(payload string) (*astisub.Subtitles, error) {
	return astisub.ReadFromSSA(strings.NewReader(payload))
}
