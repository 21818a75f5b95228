package format

import (
	"fmt"
	"sort"
	"time"

	"github.com/dreams-labs/datacore/pkg/core"
)

// DateOptions configures date formatting by named preset.
type DateOptions struct {
	// Preset names the output layout. Defaults to "iso".
	Preset string
}

// datePresets maps preset names to reference layouts.
var datePresets = map[string]string{
	"iso":      time.RFC3339,
	"isodate":  "2006-01-02",
	"datetime": "2006-01-02 15:04:05",
	"us":       "01/02/2006",
	"compact":  "20060102",
}

// Date formats a timestamp using a named preset layout.
func Date(t time.Time, opts DateOptions) (string, error) {
	preset := opts.Preset
	if preset == "" {
		preset = "iso"
	}

	layout, ok := datePresets[preset]
	if !ok {
		return "", core.E(core.KindValidation, "format.date", preset,
			fmt.Errorf("unknown date preset (available: %v)", presetNames()))
	}
	return t.Format(layout), nil
}

func presetNames() []string {
	names := make([]string, 0, len(datePresets))
	for name := range datePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
