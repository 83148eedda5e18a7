package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Argument helpers factories use to decode their `arguments` attributes.
// Missing keys yield the default; present keys must convert to the
// requested type.

// StringArg extracts a string argument.
func StringArg(args map[string]cty.Value, key, def string) (string, error) {
	val, ok := args[key]
	if !ok || val.IsNull() {
		return def, nil
	}
	conv, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("argument %q: %w", key, err)
	}
	return conv.AsString(), nil
}

// FloatArg extracts a float argument.
func FloatArg(args map[string]cty.Value, key string, def float64) (float64, error) {
	val, ok := args[key]
	if !ok || val.IsNull() {
		return def, nil
	}
	conv, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	f, _ := conv.AsBigFloat().Float64()
	return f, nil
}

// BoolArg extracts a bool argument.
func BoolArg(args map[string]cty.Value, key string, def bool) (bool, error) {
	val, ok := args[key]
	if !ok || val.IsNull() {
		return def, nil
	}
	conv, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("argument %q: %w", key, err)
	}
	return conv.True(), nil
}
