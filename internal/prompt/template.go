package prompt

import (
	"fmt"
	"os"
	"strings"
)

// Template holds the static instruction text sent ahead of every analysis.
type Template struct {
	text string
}

// LoadTemplate reads the instruction template from path.
// The template is required: a missing or empty file is a startup error and
// the process must refuse to proceed without it.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instruction template %s: %w", path, err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("instruction template %s is empty", path)
	}
	return &Template{text: text}, nil
}

// Text returns the instruction text.
func (t *Template) Text() string {
	return t.text
}
