package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// GoogleAPIKeyVar is the environment variable and env-file key holding the
// Gemini credential.
const GoogleAPIKeyVar = "GOOGLE_API_KEY"

// LoadAPIKey reads the Gemini API key from an env-style file, falling back to
// the process environment. The file is scanned for the first line of the form
// GOOGLE_API_KEY=value. A missing file is not an error; a missing key is.
func LoadAPIKey(path string) (string, error) {
	if key := readKeyFromFile(path, GoogleAPIKeyVar); key != "" {
		return key, nil
	}
	if key := os.Getenv(GoogleAPIKeyVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s not found in %s or environment", GoogleAPIKeyVar, path)
}

// readKeyFromFile returns the value of the first "name=value" line in path.
// Returns empty on any read failure.
func readKeyFromFile(path, name string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, name) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		return strings.TrimSpace(value)
	}
	return ""
}
