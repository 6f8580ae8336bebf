package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/defvs/francegen/internal/georef"
)

// BlockHeight is a biome_layers/top_block_layers range endpoint (spec.md
// §6's input contract): config authors write either a bare number (metres,
// converted via georef.DEMToBlock), `"N m"` (metres, same conversion), or
// `"N b"` (a raw block-Y, used as-is). By the time a BlockHeight reaches
// terrain.Policy it always holds a raw block-Y.
type BlockHeight int32

// heightValueDecodeHook converts whatever viper/mapstructure hands it (a
// JSON/TOML number or a suffixed string) into a BlockHeight, so RangedValue
// never sees the raw config representation.
func heightValueDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(BlockHeight(0)) {
			return data, nil
		}
		return parseHeightValue(data)
	}
}

func parseHeightValue(raw interface{}) (BlockHeight, error) {
	switch v := raw.(type) {
	case BlockHeight:
		return v, nil
	case string:
		return parseHeightString(v)
	case int:
		return BlockHeight(georef.DEMToBlock(float64(v))), nil
	case int32:
		return BlockHeight(georef.DEMToBlock(float64(v))), nil
	case int64:
		return BlockHeight(georef.DEMToBlock(float64(v))), nil
	case float32:
		return BlockHeight(georef.DEMToBlock(float64(v))), nil
	case float64:
		return BlockHeight(georef.DEMToBlock(v)), nil
	default:
		return 0, fmt.Errorf("unsupported height value %v (%T)", raw, raw)
	}
}

// parseHeightString parses "N m" (metres, dem_to_block applied) or "N b"
// (raw block-Y); a bare number with no suffix is metres (spec.md §6: "no
// suffix ≡ metres").
func parseHeightString(s string) (BlockHeight, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty height value")
	}
	numPart, suffix := trimmed, "m"

	if fields := strings.Fields(trimmed); len(fields) == 2 {
		numPart, suffix = fields[0], strings.ToLower(fields[1])
	} else if last := trimmed[len(trimmed)-1:]; strings.EqualFold(last, "m") || strings.EqualFold(last, "b") {
		numPart, suffix = trimmed[:len(trimmed)-1], strings.ToLower(last)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid height value %q: %w", s, err)
	}

	switch suffix {
	case "m":
		return BlockHeight(georef.DEMToBlock(value)), nil
	case "b":
		return BlockHeight(int32(value)), nil
	default:
		return 0, fmt.Errorf("unknown height suffix %q in %q", suffix, s)
	}
}
