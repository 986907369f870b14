package mockfeeds

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/okian/aigi/internal/domain/feed"
	"github.com/okian/aigi/pkg/logger"
)

const (
	directoryPermission = 0o755
	filePermission      = 0o644
)

// Write lays out the mock registry and feed files described by cfg.
func Write(ctx context.Context, cfg Config) (Result, error) {
	layout := cfg.Layout
	if layout == "" {
		layout = LayoutObject
	}
	if layout != LayoutObject && layout != LayoutTable {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownLayout, cfg.Layout)
	}

	res := Result{RegistryPath: cfg.RegistryPath, Models: len(models)}
	reg, err := registryDocument(cfg.RegistryPath)
	if err != nil {
		return Result{}, err
	}
	if err := writeFile(cfg.RegistryPath, reg, cfg.Overwrite); err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(cfg.FeedsDir, directoryPermission); err != nil {
		return Result{}, fmt.Errorf("create feeds dir: %w", err)
	}
	omit := make(map[feed.Source]bool, len(cfg.Omit))
	for _, src := range cfg.Omit {
		omit[src] = true
	}
	for _, src := range feed.Sources() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		f, ok := Feed(src)
		if !ok || omit[src] {
			continue
		}
		doc, err := feedDocument(f, layout)
		if err != nil {
			return res, err
		}
		path := filepath.Join(cfg.FeedsDir, feed.FileName(src))
		if err := writeFile(path, doc, cfg.Overwrite); err != nil {
			return res, err
		}
		res.Files = append(res.Files, path)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	log.Info(ctx, "mock data written",
		logger.String("registry", cfg.RegistryPath),
		logger.String("feedsDir", cfg.FeedsDir),
		logger.String("layout", layout),
		logger.Int("models", res.Models),
		logger.Int("feeds", len(res.Files)),
	)
	return res, nil
}

func registryDocument(path string) ([]byte, error) {
	entries := make([]map[string]any, len(models))
	for i, m := range models {
		e := map[string]any{"name": m.Name, "tier": string(m.Tier)}
		for k, v := range m.Attributes {
			e[k] = v
		}
		entries[i] = e
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(entries)
	default:
		return json.MarshalIndent(entries, "", "  ")
	}
}

func feedDocument(f feed.Feed, layout string) ([]byte, error) {
	if layout == LayoutObject {
		obj := make(map[string]float64, len(f.Rows))
		for _, r := range f.Rows {
			obj[r.Model] = r.Value.Or(0)
		}
		return json.MarshalIndent(obj, "", "  ")
	}
	col := f.Source.Column.String()
	rows := make([]map[string]any, len(f.Rows))
	for i, r := range f.Rows {
		rows[i] = map[string]any{feed.KeyColumn: r.Model, col: r.Value.Or(0)}
	}
	return json.MarshalIndent(rows, "", "  ")
}

func writeFile(path string, data []byte, overwrite bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, filePermission)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
