package flagx

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// StringFromEnv sets *dst to the value of the environment variable name
// when it is set and non-empty.
func StringFromEnv(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

// IntFromEnv is StringFromEnv for integers.
func IntFromEnv(dst *int, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", name, err)
	}
	*dst = n
	return nil
}

// Int64FromEnv is StringFromEnv for 64-bit integers.
func Int64FromEnv(dst *int64, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("env %s: %w", name, err)
	}
	*dst = n
	return nil
}

// DurationFromEnv accepts Go duration strings such as "30s".
func DurationFromEnv(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", name, err)
	}
	*dst = d
	return nil
}
