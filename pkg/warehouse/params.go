package warehouse

import (
	"fmt"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
)

// expandNamedParams rewrites @name markers in sqlText to the dialect's
// bind placeholders and returns the argument list in placeholder order.
// Markers inside string literals and quoted identifiers are left alone.
// Missing and unused parameters are both validation failures: a bound
// value that never reaches the statement is almost always a typo.
func expandNamedParams(sqlText string, params map[string]any, d Dialect) (string, []any, error) {
	var (
		out  strings.Builder
		args []any
		used = make(map[string]bool, len(params))
	)

	runes := []rune(sqlText)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch c {
		case '\'', '"':
			// Copy the quoted run verbatim, honoring doubled-quote escapes.
			quote := c
			out.WriteRune(c)
			for i++; i < len(runes); i++ {
				out.WriteRune(runes[i])
				if runes[i] == quote {
					if i+1 < len(runes) && runes[i+1] == quote {
						i++
						out.WriteRune(runes[i])
						continue
					}
					break
				}
			}

		case '@':
			start := i + 1
			end := start
			for end < len(runes) && isParamRune(runes[end], end > start) {
				end++
			}
			if end == start {
				out.WriteRune(c)
				continue
			}

			name := string(runes[start:end])
			val, ok := params[name]
			if !ok {
				return "", nil, core.E(core.KindValidation, "warehouse.bind", name,
					fmt.Errorf("query references @%s but no value is bound", name))
			}
			args = append(args, val)
			out.WriteString(d.Placeholder(len(args)))
			used[name] = true
			i = end - 1

		default:
			out.WriteRune(c)
		}
	}

	for name := range params {
		if !used[name] {
			return "", nil, core.E(core.KindValidation, "warehouse.bind", name,
				fmt.Errorf("bound parameter %q is not referenced by the query", name))
		}
	}

	return out.String(), args, nil
}

func isParamRune(c rune, notFirst bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return notFirst
	}
	return false
}
