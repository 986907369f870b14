package mockfeeds

import (
	"fmt"
	"strings"

	"github.com/okian/aigi/internal/domain/feed"
)

// ParseOmit resolves a comma-separated list of feed names.
func ParseOmit(list string) ([]feed.Source, error) {
	var out []feed.Source
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		src, err := feed.ParseSource(name)
		if err != nil {
			return nil, fmt.Errorf("omit %q: %w", name, err)
		}
		out = append(out, src)
	}
	return out, nil
}

// Usage is the help text of the mock-feeds tool.
const Usage = `AIGI Mock Feeds
===============

Writes a deterministic five-model registry and the full set of current and
previous-epoch feed files, ready for "aigi run".

Usage:
  mock-feeds [flags]

Flags:
  -registry string   registry file to write (default "models_registry.json")
  -feeds string      feed directory to write (default "feeds")
  -layout string     feed layout: object or table (default "object")
  -omit string       comma-separated feeds to leave out, e.g. "multimodal,prev_arena"
  -force             overwrite existing files
  -help              show this help
`
