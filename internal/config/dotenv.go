package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadDotenv reads a .env file and sets the variables that are not already
// defined. A missing file is ignored. It returns the keys it set.
func LoadDotenv(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var set []string
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return set, fmt.Errorf("%s:%d: expected KEY=value", path, n)
		}

		key = strings.TrimSpace(key)
		value = parseValue(strings.TrimSpace(value))

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return set, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		set = append(set, key)
	}
	return set, scanner.Err()
}

// parseValue strips matching surrounding quotes, or a trailing " # comment"
// from an unquoted value.
func parseValue(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	if i := strings.Index(s, " #"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
