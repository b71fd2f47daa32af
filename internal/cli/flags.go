package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseToolArgs parses GNU-style flags (--key=value or --key value) into a
// tool argument map. A single positional argument is taken as a JSON object.
// Boolean flags (--flag without value) are set to true; repeated keys
// accumulate into arrays.
func parseToolArgs(args []string) (map[string]any, error) {
	if len(args) == 1 && !strings.HasPrefix(args[0], "--") {
		return parseJSONObject(args[0])
	}

	result := make(map[string]any)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected positional argument: %s", arg)
		}

		key, value, err := parseLongFlagValue(args, &i, arg)
		if err != nil {
			return nil, err
		}
		putArgValue(result, key, value)
	}
	return result, nil
}

func parseJSONObject(raw string) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON arguments: %w", err)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("JSON arguments must be an object")
	}
	return obj, nil
}

func parseLongFlagValue(args []string, idx *int, token string) (string, any, error) {
	body := strings.TrimPrefix(token, "--")
	if body == "" {
		return "", nil, fmt.Errorf("invalid flag: %s", token)
	}

	if eq := strings.Index(body, "="); eq >= 0 {
		key := body[:eq]
		value := body[eq+1:]
		if key == "" {
			return "", nil, fmt.Errorf("invalid flag: %s", token)
		}
		return key, value, nil
	}

	if *idx+1 < len(args) && !strings.HasPrefix(args[*idx+1], "--") {
		*idx = *idx + 1
		return body, args[*idx], nil
	}

	return body, true, nil
}

func putArgValue(dst map[string]any, key string, value any) {
	if existing, ok := dst[key]; ok {
		switch v := existing.(type) {
		case []any:
			dst[key] = append(v, value)
		default:
			dst[key] = []any{v, value}
		}
		return
	}
	dst[key] = value
}

// stringValue consumes the value of a --flag that requires one, supporting
// both --flag=value and --flag value forms.
func stringValue(args []string, idx *int, token, name string) (string, error) {
	if strings.HasPrefix(token, name+"=") {
		return strings.TrimPrefix(token, name+"="), nil
	}
	if *idx+1 >= len(args) {
		return "", fmt.Errorf("missing value for %s", name)
	}
	*idx = *idx + 1
	return args[*idx], nil
}
