package mockfeeds

import (
	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/pkg/logger"
)

// Feed document layouts.
const (
	LayoutObject = "object" // {"model": value}
	LayoutTable  = "table"  // [{"model": "...", "<column>": value}]
)

// Config holds configuration for a mock data write.
type Config struct {
	RegistryPath string        // Registry file; .yaml/.yml writes YAML, anything else JSON
	FeedsDir     string        // Directory receiving one file per feed
	Layout       string        // LayoutObject or LayoutTable
	Omit         []feed.Source // Feeds to leave out, to simulate gaps
	Overwrite    bool          // Replace existing files instead of failing
	Logger       logger.Logger // Defaults to the global logger
}

// Result lists what was written.
type Result struct {
	RegistryPath string
	Models       int
	Files        []string
}
