// Package archive stores the resolved feed set of a run as a compressed
// JSON bundle next to the published snapshots.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/aigi/internal/domain/feed"
)

// Ext is the archive file suffix.
const Ext = ".feeds.json.zst"

// Bundle is the archived content of one run.
type Bundle struct {
	EpochID   string    `json:"epoch_id"`
	Timestamp string    `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
	Feeds     *feed.Set `json:"feeds"`
}

// Path returns the deterministic archive path for a run.
func Path(dir, epochID, timestamp string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", epochID, strings.ReplaceAll(timestamp, ":", "-"), Ext))
}

// Write compresses b into dir and returns the archive path.
func Write(dir string, b Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	dest := Path(dir, b.EpochID, b.Timestamp)

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	encoder, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := json.NewEncoder(encoder).Encode(b); err != nil {
		encoder.Close()
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("compress: %w", err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("finalize compression: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close archive: %w", err)
	}
	return dest, nil
}

// Read decompresses an archive written by Write.
func Read(path string) (Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return Bundle{}, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	var b Bundle
	if err := json.NewDecoder(decoder).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decompress: %w", err)
	}
	return b, nil
}
