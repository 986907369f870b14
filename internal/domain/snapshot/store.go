package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DigestExt is appended to a snapshot path to name its digest sidecar.
const DigestExt = ".sha256"

// Written describes a persisted snapshot.
type Written struct {
	Path   string
	SHA256 string
}

// Write persists s into dir as FileName(s) along with a digest sidecar in
// sha256sum format. The snapshot file must not already exist. On any failure
// nothing is left behind.
func Write(dir string, s Snapshot) (Written, error) {
	canonical, err := Canonical(s)
	if err != nil {
		return Written{}, err
	}
	body, err := pretty(canonical)
	if err != nil {
		return Written{}, err
	}
	digest := Digest(canonical)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Written{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	path := filepath.Join(dir, FileName(s))
	if err := writeExclusive(path, body); err != nil {
		return Written{}, err
	}
	sidecar := fmt.Sprintf("%s  %s\n", digest, filepath.Base(path))
	if err := writeExclusive(path+DigestExt, []byte(sidecar)); err != nil {
		_ = os.Remove(path)
		return Written{}, err
	}
	return Written{Path: path, SHA256: digest}, nil
}

func writeExclusive(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrPersist, path, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrPersist, path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersist, path, err)
	}
	return nil
}

// Read loads a snapshot file and returns it with the digest of its content.
func Read(path string) (Snapshot, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Snapshot{}, "", err
	}
	canonical, err := canonicalize(data)
	if err != nil {
		return Snapshot{}, "", err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, "", fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return s, Digest(canonical), nil
}

// ReadDigest returns the digest recorded in the sidecar of path.
func ReadDigest(path string) (string, error) {
	data, err := os.ReadFile(path + DigestExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s%s", ErrNotFound, path, DigestExt)
		}
		return "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty digest file %s%s", path, DigestExt)
	}
	return strings.ToLower(fields[0]), nil
}

// Verification is the outcome of re-hashing a snapshot file.
type Verification struct {
	Path     string
	Expected string
	Actual   string
}

// OK reports whether the digests match.
func (v Verification) OK() bool { return v.Expected != "" && v.Expected == v.Actual }

// Verify re-hashes the snapshot at path and compares it with expected, or
// with the sidecar digest when expected is empty. A mismatch returns the
// Verification together with ErrDigestMismatch.
func Verify(path, expected string) (Verification, error) {
	v := Verification{Path: path, Expected: strings.ToLower(strings.TrimSpace(expected))}
	_, actual, err := Read(path)
	if err != nil {
		return v, err
	}
	v.Actual = actual
	if v.Expected == "" {
		if v.Expected, err = ReadDigest(path); err != nil {
			return v, err
		}
	}
	if !v.OK() {
		return v, fmt.Errorf("%w: %s: want %s, got %s", ErrDigestMismatch, path, v.Expected, v.Actual)
	}
	return v, nil
}

// Summary describes a persisted snapshot without its model list.
type Summary struct {
	Filename      string    `json:"filename"`
	Path          string    `json:"path"`
	EpochID       string    `json:"epoch_id"`
	Timestamp     string    `json:"timestamp"`
	CIS           float64   `json:"cis"`
	ModelsCount   int       `json:"models_count"`
	EngineVersion string    `json:"engine_version"`
	SHA256        string    `json:"sha256"`
	ModTime       time.Time `json:"-"`
}

// Summarize returns the summary of s as stored at path.
func Summarize(path, digest string, s Snapshot) Summary {
	return Summary{
		Filename:      filepath.Base(path),
		Path:          path,
		EpochID:       s.EpochID,
		Timestamp:     s.Timestamp,
		CIS:           s.CIS,
		ModelsCount:   len(s.Models),
		EngineVersion: s.EngineVersion,
		SHA256:        digest,
	}
}

// Latest returns the most recently modified snapshot in dir. Ties are broken
// by file name, later names first.
func Latest(dir string) (Summary, Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Summary{}, Snapshot{}, fmt.Errorf("%w: directory %s", ErrNotFound, dir)
		}
		return Summary{}, Snapshot{}, err
	}
	type candidate struct {
		name string
		mod  time.Time
	}
	var cands []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{name: e.Name(), mod: info.ModTime()})
	}
	if len(cands) == 0 {
		return Summary{}, Snapshot{}, fmt.Errorf("%w: no snapshots in %s", ErrNotFound, dir)
	}
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].mod.Equal(cands[j].mod) {
			return cands[i].mod.After(cands[j].mod)
		}
		return cands[i].name > cands[j].name
	})

	path := filepath.Join(dir, cands[0].name)
	s, digest, err := Read(path)
	if err != nil {
		return Summary{}, Snapshot{}, err
	}
	sum := Summarize(path, digest, s)
	sum.ModTime = cands[0].mod
	return sum, s, nil
}
