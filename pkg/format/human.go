// Package format provides pure presentation helpers: human-readable
// number scaling, locale-aware number formatting, date presets,
// identifier normalization, and tabular rendering of query results.
//
// Every function is stateless and deterministic. Malformed input fails
// with a validation error; nothing is silently coerced.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dreams-labs/datacore/pkg/core"
)

// humanSuffixes scale by successive factors of 1000.
var humanSuffixes = []string{"", "k", "M", "B", "T", "Qa", "Qi", "Sx", "Sp", "O", "N", "D"}

// Human converts a number to a scaled human-readable string
// (e.g. 7437283 -> "7.4M").
//
// Zero renders as "0.0". Inputs strictly between -1 and 1 keep two
// significant figures by positional truncation (0.0678 -> "0.067");
// larger magnitudes reduce to one decimal place plus a thousands
// suffix. NaN, infinities, and magnitudes beyond the suffix table fail
// with a validation error.
func Human(number float64) (string, error) {
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return "", core.E(core.KindValidation, "format.human", "",
			fmt.Errorf("cannot format %v", number))
	}

	if number == 0 {
		return "0.0", nil
	}

	if number > -1 && number < 1 {
		return humanDecimal(number), nil
	}

	i := 0
	for math.Abs(number) >= 1000 {
		number /= 1000.0
		i++
		if i >= len(humanSuffixes) {
			return "", core.E(core.KindValidation, "format.human", "",
				fmt.Errorf("magnitude exceeds suffix table"))
		}
	}

	return fmt.Sprintf("%.1f%s", number, humanSuffixes[i]), nil
}

// humanDecimal keeps two significant figures of a sub-unit value by
// truncating its positional form. Truncation, not rounding, matches
// the established output (0.0678 stays "0.067").
func humanDecimal(number float64) string {
	prefix := ""
	if number < 0 {
		prefix = "-"
	}

	positional := strconv.FormatFloat(math.Abs(number), 'f', -1, 64)
	if len(positional) < 2 {
		return prefix + positional
	}

	afterDecimal := positional[2:]
	keep := 4 + len(afterDecimal) - len(strings.TrimLeft(afterDecimal, "0"))
	if keep > len(positional) {
		keep = len(positional)
	}

	return prefix + positional[:keep]
}
