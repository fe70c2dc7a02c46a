// Package encoding implements the Encoding Resolver: reading a subtitle
// file from disk into a validated UTF-8 string (honoring a BOM when
// present, falling back to heuristic charset detection otherwise), and
// writing UTF-8 payloads back out with an explicit, caller-chosen BOM
// policy.
package encoding

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Logger is the package-level logger for encoding.
var Logger zerolog.Logger = log.Logger.With().Str("component", "encoding").Logger()

// SetLogger installs l (scoped with an "encoding" component field) as the
// package logger.
func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("component", "encoding").Logger()
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadFile reads path and returns its contents decoded to UTF-8, with any
// leading BOM removed, per spec.md §4.1.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("encoding: read %s: %w", path, err)
	}
	Logger.Debug().Str("path", path).Str("size", humanize.Bytes(uint64(len(raw)))).Msg("read subtitle file")
	return Decode(raw)
}

// Decode implements steps 2-4 of spec.md §4.1 over an already-read byte
// slice: BOM-sniffed decode, then strict UTF-8, then heuristic
// charset-detected decode as a last resort. Decode never fails; step 4
// always returns a best-effort string.
func Decode(raw []byte) (string, error) {
	// Step 2: known encoding BOM.
	if bytes.HasPrefix(raw, bomUTF32LE) {
		return decodeUTF32(raw[len(bomUTF32LE):], binary.LittleEndian), nil
	}
	if bytes.HasPrefix(raw, bomUTF32BE) {
		return decodeUTF32(raw[len(bomUTF32BE):], binary.BigEndian), nil
	}
	if bytes.HasPrefix(raw, bomUTF8) {
		return string(raw[len(bomUTF8):]), nil
	}
	if bytes.HasPrefix(raw, bomUTF16LE) {
		return decodeUTF16(raw[len(bomUTF16LE):], binary.LittleEndian), nil
	}
	if bytes.HasPrefix(raw, bomUTF16BE) {
		return decodeUTF16(raw[len(bomUTF16BE):], binary.BigEndian), nil
	}

	// Step 3: strict UTF-8, no BOM.
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// Step 4: heuristic charset detection.
	return detectAndDecode(raw), nil
}

func decodeUTF16(b []byte, order binary.ByteOrder) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = order.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units))
}

func decodeUTF32(b []byte, order binary.ByteOrder) string {
	var runes []rune
	for i := 0; i+4 <= len(b); i += 4 {
		runes = append(runes, rune(order.Uint32(b[i:])))
	}
	return string(runes)
}

// candidate pairs a human-readable encoding name with a decode function
// used by the step-4 heuristic.
type candidate struct {
	name   string
	decode func([]byte) (string, int)
}

// detectAndDecode scores a fixed, ordered list of Latin/CJK candidate
// encodings by how many replacement characters (invalid byte sequences)
// each produces, and returns the best-scoring decode. This mirrors the
// original Rust implementation's use of a fixed candidate list
// (chardetng + encoding_rs) rather than an open-ended statistical
// detector — see DESIGN.md for why no general-purpose Go charset
// detection library is used here.
func detectAndDecode(raw []byte) string {
	candidates := []candidate{
		{"cp932/shift-jis", func(b []byte) (string, int) { return decodeWithCount(japanese.ShiftJIS.NewDecoder().Bytes, b) }},
		{"euc-jp", func(b []byte) (string, int) { return decodeWithCount(japanese.EUCJP.NewDecoder().Bytes, b) }},
		{"windows-1252", func(b []byte) (string, int) { return decodeWithCount(charmap.Windows1252.NewDecoder().Bytes, b) }},
	}

	best := string(bytes.ToValidUTF8(raw, []byte("�")))
	bestScore := countReplacement(best)
	bestName := "utf-8 (lossy)"

	for _, c := range candidates {
		decoded, errCount := c.decode(raw)
		score := errCount + countReplacement(decoded)
		if score < bestScore {
			best = decoded
			bestScore = score
			bestName = c.name
		}
	}

	Logger.Debug().Str("encoding", bestName).Int("replacement_count", bestScore).Msg("charset-detected decode")
	return best
}

func decodeWithCount(decode func([]byte) ([]byte, error), raw []byte) (string, int) {
	out, err := decode(raw)
	if err != nil {
		// Best-effort: the decoder may still have produced a usable
		// prefix via replacement characters.
		if len(out) == 0 {
			return string(bytes.ToValidUTF8(raw, []byte("�"))), len(raw)
		}
	}
	return string(out), 0
}

func countReplacement(s string) int {
	count := 0
	for _, r := range s {
		if r == utf8.RuneError || r == '�' {
			count++
		}
	}
	return count
}

// WriteFile writes content (assumed UTF-8) to path, prepending a UTF-8
// BOM when withBOM is true. Standalone output files destined to be
// embedded are written with a BOM; temporaries destined for a Matroska
// muxer are written without one, per spec.md §4.1.
func WriteFile(path, content string, withBOM bool) error {
	var buf bytes.Buffer
	if withBOM {
		buf.Write(bomUTF8)
	}
	buf.WriteString(content)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("encoding: write %s: %w", path, err)
	}
	Logger.Debug().Str("path", path).Bool("bom", withBOM).Msg("wrote subtitle file")
	return nil
}
