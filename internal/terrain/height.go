package terrain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/defvs/francegen/internal/georef"
)

// ParseHeight parses a height-range endpoint accepting a "N m" (metres,
// converted via georef.DEMToBlock) or "N b" (raw block-Y) suffix; no suffix
// is treated as metres.
func ParseHeight(raw string) (int32, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("height value must not be empty")
	}

	unit := byte('m')
	valuePart := trimmed
	switch trimmed[len(trimmed)-1] {
	case 'm', 'M':
		valuePart = trimmed[:len(trimmed)-1]
		unit = 'm'
	case 'b', 'B':
		valuePart = trimmed[:len(trimmed)-1]
		unit = 'b'
	}

	valuePart = strings.TrimSpace(valuePart)
	if valuePart == "" {
		return 0, fmt.Errorf("height number is missing before unit in %q", raw)
	}
	number, err := strconv.ParseFloat(valuePart, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse height value %q: %w", raw, err)
	}

	switch unit {
	case 'b':
		return int32(number), nil
	default:
		return georef.DEMToBlock(number), nil
	}
}
