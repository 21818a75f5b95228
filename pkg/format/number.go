package format

import (
	"fmt"

	"github.com/dreams-labs/datacore/pkg/core"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberOptions configures locale-aware number formatting. Options are
// explicit so unrecognized settings cannot pass silently.
type NumberOptions struct {
	// Locale is a BCP 47 tag, e.g. "en", "de", "ja". Defaults to "en".
	Locale string

	// Precision is the exact number of fraction digits. The zero value
	// formats whole numbers. Negative precision is a validation failure.
	Precision int
}

// Number renders a value with locale-appropriate grouping and decimal
// separators.
func Number(value float64, opts NumberOptions) (string, error) {
	locale := opts.Locale
	if locale == "" {
		locale = "en"
	}
	precision := opts.Precision
	if precision < 0 {
		return "", core.E(core.KindValidation, "format.number", "",
			fmt.Errorf("precision must be non-negative, got %d", opts.Precision))
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return "", core.E(core.KindValidation, "format.number", locale,
			fmt.Errorf("unknown locale: %w", err))
	}

	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(value,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision),
	)), nil
}
