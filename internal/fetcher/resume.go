package fetcher

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadResume loads the resume text used in every generation prompt.
// A missing or empty resume is fatal — the pipeline cannot personalize
// anything without it.
func ReadResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: read resume")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", eris.Errorf("fetcher: resume file %s is empty", path)
	}
	return text, nil
}
