// Package snapshot builds, hashes and persists the per-epoch CIS snapshot.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/aigi/internal/domain/model"
)

// EngineVersion is stamped on every snapshot.
const EngineVersion = "1.0.0"

// TimestampLayout is the UTC layout used when no timestamp is supplied.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// ModelEntry is one model's published scores.
type ModelEntry struct {
	Name              string      `json:"name"`
	Tier              model.Tier  `json:"tier"`
	IntelligenceScore model.Value `json:"intelligence_score"`
	AdoptionScore     model.Value `json:"adoption_score"`
	MomentumScore     model.Value `json:"momentum_score"`
	ModelScore        model.Value `json:"model_score"`
}

// Snapshot is the published result of one epoch run.
type Snapshot struct {
	EpochID       string       `json:"epoch_id"`
	Timestamp     string       `json:"timestamp"`
	CIS           float64      `json:"cis"`
	Models        []ModelEntry `json:"models"`
	EngineVersion string       `json:"engine_version"`
}

// Timestamp formats t as a snapshot timestamp.
func Timestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// Build projects a scored table onto a snapshot. Models keep table order.
func Build(t *model.Table, cis float64, epochID, timestamp string) Snapshot {
	s := Snapshot{
		EpochID:       epochID,
		Timestamp:     timestamp,
		CIS:           cis,
		Models:        make([]ModelEntry, 0, t.Len()),
		EngineVersion: EngineVersion,
	}
	for _, r := range t.Records() {
		s.Models = append(s.Models, ModelEntry{
			Name:              r.Name,
			Tier:              r.Tier,
			IntelligenceScore: r.IntelligenceScore,
			AdoptionScore:     r.AdoptionScore,
			MomentumScore:     r.MomentumScore,
			ModelScore:        r.ModelScore,
		})
	}
	return s
}

// FileName returns "{epoch_id}_{timestamp}.json" with ':' replaced by '-'.
func FileName(s Snapshot) string {
	return fmt.Sprintf("%s_%s.json", s.EpochID, strings.ReplaceAll(s.Timestamp, ":", "-"))
}

// Canonical returns the compact, key-sorted JSON encoding of s that the
// digest is computed over.
func Canonical(s Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return canonicalize(raw)
}

// Hash returns the hex SHA-256 of the canonical encoding of s.
func Hash(s Snapshot) (string, error) {
	b, err := Canonical(s)
	if err != nil {
		return "", err
	}
	return Digest(b), nil
}

// Digest returns the hex SHA-256 of b.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// canonicalize re-encodes any JSON document with sorted object keys and no
// insignificant whitespace. Number literals are preserved as written.
func canonicalize(doc []byte) ([]byte, error) {
	tree, err := decodeTree(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return encodeTree(tree, "")
}

// pretty is canonicalize with two-space indentation, used for the file body.
func pretty(doc []byte) ([]byte, error) {
	tree, err := decodeTree(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return encodeTree(tree, "  ")
}

func decodeTree(doc []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after document")
	}
	return tree, nil
}

func encodeTree(tree any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	out := buf.Bytes()
	if indent == "" {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, nil
}
