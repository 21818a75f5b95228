package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dreams-labs/datacore/pkg/core"
)

// Identifier normalizes a string into a lower snake_case identifier
// safe for dataset, table, and column names. The function is
// idempotent: normalizing an already-normalized identifier returns it
// unchanged. Input that normalizes to nothing is a validation failure.
func Identifier(s string) (string, error) {
	var b strings.Builder
	lastUnderscore := false

	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "_")
	if out == "" {
		return "", core.E(core.KindValidation, "format.identifier", s,
			fmt.Errorf("input contains no identifier characters"))
	}
	return out, nil
}
