package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Args are the decoded JSON arguments of one tool call.
type Args map[string]any

// Text returns the argument as text; absent or null gives "".
func (a Args) Text(key string) (string, error) {
	switch v := a[key].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("argument[%s] has unsupported type %T", key, v)
	}
}

// Int returns the argument as a whole number, or def when absent.
func (a Args) Int(key string, def int) (int, error) {
	switch v := a[key].(type) {
	case nil:
		return def, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("argument[%s] is not a whole number: %v", key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("argument[%s] is not a whole number: %w", key, err)
		}
		return int(n), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return def, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("argument[%s] is not a whole number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("argument[%s] has unsupported type %T", key, v)
	}
}

// Bool returns the argument as a boolean, or def when absent.
func (a Args) Bool(key string, def bool) (bool, error) {
	switch v := a[key].(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("argument[%s] is not a boolean: %w", key, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("argument[%s] has unsupported type %T", key, v)
	}
}
