package core

import "fmt"

// Kind normalizes a parameter value to one of the permitted scalar kinds:
// "null", "string", "integer", "float" or "boolean". It returns "" for
// anything outside that set.
func Kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "float"
	case bool:
		return "boolean"
	default:
		return ""
	}
}

// CheckParams rejects parameter values outside the closed scalar set before
// any SQL is built or I/O attempted.
func CheckParams(params map[string]any) error {
	for _, name := range sortedKeys(params) {
		if Kind(params[name]) == "" {
			return fmt.Errorf("parameter %q has unsupported type %T (allowed: string, integer, float, boolean, null)",
				name, params[name])
		}
	}
	return nil
}
