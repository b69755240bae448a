package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Share writes an export file and hands it to the platform opener. No
// return value is consumed beyond the error.
type Share struct {
	Dir  string
	Open Opener
}

// Send writes the body under a slugged filename and opens it.
func (s Share) Send(title, body string) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "khata-exports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.txt", slug(title), time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	open := s.Open
	if open == nil {
		open = SystemOpener
	}
	if err := open(path); err != nil {
		// The file is still on disk; tell the caller where.
		return path, fmt.Errorf("open export: %w", err)
	}
	return path, nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "report"
	}
	return out
}
