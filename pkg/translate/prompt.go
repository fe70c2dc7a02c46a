package translate

import (
	"fmt"
	"strings"
)

var recognizedStyleTags = map[string]bool{
	"natural":    true,
	"literal":    true,
	"localized":  true,
	"formal":     true,
	"casual":     true,
	"honorifics": true,
}

func normalizeStyleTag(tag string) string {
	lower := strings.ToLower(strings.TrimSpace(tag))
	if recognizedStyleTags[lower] {
		return lower
	}
	return "natural"
}

func styleClause(tag string) string {
	switch tag {
	case "literal":
		return "Translate as literally as the target grammar allows; do not smooth over structure for fluency's sake."
	case "localized":
		return "Favor natural idiom and cultural adaptation in the target language over literal fidelity."
	case "formal":
		return "Use a consistently formal, polite register."
	case "casual":
		return "Use a consistently casual, colloquial register."
	case "honorifics":
		return "Preserve Japanese honorifics (san, kun, chan, sama, senpai, etc.) by transliterating rather than translating or dropping them."
	default:
		return "Balance fidelity to meaning with natural phrasing in the target language."
	}
}

// systemPrompt builds the fixed-template system prompt for one
// translation run, per §4.4.1.
func systemPrompt(sourceLang, targetLang, styleTag string) string {
	return fmt.Sprintf(`You are a subtitle translation engine translating dialog from %s to %s.

%s

You will receive a JSON object of the form {"lines":[{"id":<int>,"text":<string>},...]}.
Respond with a JSON object of the form {"translations":[{"id":<int>,"text":<string>},...]} and nothing else.

Rules:
- Every "id" must round-trip exactly; never invent, drop, or renumber ids.
- Preserve line-break characters ("\n") present in the source text.
- Some lines may be karaoke or music lyrics that should have been filtered out before reaching you; if one appears, pass its text through unchanged rather than translating it.
- Respond with the JSON object only — no prose, no markdown code fences.`, sourceLang, targetLang, styleClause(normalizeStyleTag(styleTag)))
}
