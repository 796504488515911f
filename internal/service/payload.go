package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// payloadString returns the first non-empty string value among the given
// keys. Non-string scalars are stringified.
func payloadString(payload map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		case int64:
			return strconv.FormatInt(v, 10), true
		case int:
			return strconv.Itoa(v), true
		case json.Number:
			return v.String(), true
		case bool:
			return strconv.FormatBool(v), true
		default:
			return fmt.Sprintf("%v", v), true
		}
	}
	return "", false
}

// payloadFloat returns the first present value among the given keys parsed
// as a float. The second return reports presence, the error reports an
// unparseable value.
func payloadFloat(payload map[string]interface{}, keys ...string) (float64, bool, error) {
	for _, key := range keys {
		value, ok := payload[key]
		if !ok || value == nil {
			continue
		}
		f, err := toFloat(value)
		if err != nil {
			return 0, true, fmt.Errorf("field %s: %w", key, err)
		}
		return f, true, nil
	}
	return 0, false, nil
}

// payloadInt behaves like payloadFloat but truncates to int.
func payloadInt(payload map[string]interface{}, keys ...string) (int, bool, error) {
	f, ok, err := payloadFloat(payload, keys...)
	return int(f), ok, err
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, fmt.Errorf("empty value")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}
