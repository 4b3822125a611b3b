// Package cache provides the durable company summary cache. Entries persist
// as one line per company so prior runs never pay for the same website twice.
package cache

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Separator splits a persisted line into company name and summary. It is
// stripped from keys and values on save to keep the round trip intact.
const Separator = "|||"

// Entry is a single company/summary pair.
type Entry struct {
	Company string
	Summary string
}

// Cache is a string-to-string map persisted to a line-oriented file.
// Last writer wins; entries never expire within a run. Not safe for
// concurrent use — the batch runner owns it on a single sequential path.
type Cache struct {
	path       string
	backupPath string
	entries    map[string]string
}

// New creates a Cache bound to the given file paths. Call Load before use.
func New(path, backupPath string) *Cache {
	return &Cache{
		path:       path,
		backupPath: backupPath,
		entries:    make(map[string]string),
	}
}

// Load reads the cache file. A missing file is an empty cache, not an error.
// A line is a valid entry only when the separator splits it into exactly two
// non-empty trimmed parts; malformed lines are skipped with a warning.
func (c *Cache) Load() error {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrap(err, "cache: open")
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, Separator, 2)
		var company, summary string
		if len(parts) == 2 {
			company = strings.TrimSpace(parts[0])
			summary = strings.TrimSpace(parts[1])
		}
		if company == "" || summary == "" {
			zap.L().Warn("cache: skipping malformed line",
				zap.String("path", c.path),
				zap.Int("line", lineNum),
			)
			continue
		}
		c.entries[company] = summary
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "cache: scan")
	}

	return nil
}

// Get returns the summary for a company and whether it was present.
func (c *Cache) Get(company string) (string, bool) {
	v, ok := c.entries[strings.TrimSpace(company)]
	return v, ok
}

// Put stores a summary for a company, replacing any previous value.
func (c *Cache) Put(company, summary string) {
	c.entries[strings.TrimSpace(company)] = summary
}

// Len returns the number of cached companies.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries returns all entries sorted by company name.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for k, v := range c.entries {
		out = append(out, Entry{Company: k, Summary: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out
}

// Save persists the cache. The previous file content is copied to the backup
// path first, then the new content is written to a temp file and renamed so
// a crash mid-save never truncates the cache. Keys and values are sanitized
// by stripping the separator token and line terminators.
func (c *Cache) Save() error {
	if prev, err := os.ReadFile(c.path); err == nil {
		if err := os.WriteFile(c.backupPath, prev, 0o644); err != nil {
			return eris.Wrap(err, "cache: write backup")
		}
	} else if !os.IsNotExist(err) {
		return eris.Wrap(err, "cache: read for backup")
	}

	var sb strings.Builder
	for _, e := range c.Entries() {
		sb.WriteString(sanitize(e.Company))
		sb.WriteString(Separator)
		sb.WriteString(sanitize(e.Summary))
		sb.WriteByte('\n')
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return eris.Wrap(err, "cache: write temp file")
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return eris.Wrap(err, "cache: rename temp file")
	}

	return nil
}

// sanitize strips the separator token and newlines so every entry stays a
// single parseable line.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, Separator, "")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
