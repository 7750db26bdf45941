package transform

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// mojibakeMarkers are byte sequences that show up when UTF-8 text gets
// decoded a second time as latin-1 and re-encoded — the classic
// double-encoding corruption seen in the legacy MySQL "nom"/"departement"
// columns (e.g. "Ã©" instead of "é").
var mojibakeMarkers = []string{"Ã©", "Ã¨", "Ã", "Â"}

// repairMojibake attempts a latin-1 round-trip repair on text that looks
// double-UTF-8-encoded. Best-effort: on any failure the original string is
// returned unchanged.
func repairMojibake(s string) string {
	if s == "" {
		return s
	}

	hasMarker := false
	for _, m := range mojibakeMarkers {
		if strings.Contains(s, m) {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return s
	}

	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(encoded) {
		return s
	}
	return encoded
}
