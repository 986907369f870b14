package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/aigi/internal/domain/model"
)

func sample() Snapshot {
	t := model.NewTable(2)
	a := model.NewRecord(model.Spec{Name: "gpt-4", Tier: model.TierA})
	a.IntelligenceScore, a.AdoptionScore, a.MomentumScore, a.ModelScore = model.Some(30), model.Some(0), model.Some(0), model.Some(15)
	b := model.NewRecord(model.Spec{Name: "llama-3-70b", Tier: model.TierB})
	b.IntelligenceScore, b.AdoptionScore, b.MomentumScore, b.ModelScore = model.Some(0), model.Some(0), model.Some(0), model.Some(0)
	t.Add(a)
	t.Add(b)
	return Build(t, 7.5, "2026-04", "2026-04-01T12:00:00.000000Z")
}

func TestBuild(t *testing.T) {
	Convey("Given a scored table", t, func() {
		s := sample()

		Convey("Then the snapshot carries the run metadata", func() {
			So(s.EpochID, ShouldEqual, "2026-04")
			So(s.EngineVersion, ShouldEqual, "1.0.0")
			So(s.CIS, ShouldEqual, 7.5)
		})

		Convey("Then models keep table order", func() {
			So(len(s.Models), ShouldEqual, 2)
			So(s.Models[0].Name, ShouldEqual, "gpt-4")
			So(s.Models[1].Tier, ShouldEqual, model.TierB)
		})

		Convey("Then the file name replaces colons", func() {
			So(FileName(s), ShouldEqual, "2026-04_2026-04-01T12-00-00.000000Z.json")
		})
	})
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2026, 4, 1, 9, 30, 5, 123456789, time.FixedZone("X", 3600)))
	assert.Equal(t, "2026-04-01T08:30:05.123456Z", ts)
}

func TestCanonical(t *testing.T) {
	Convey("Given a snapshot", t, func() {
		s := sample()

		Convey("When encoded canonically", func() {
			b, err := Canonical(s)
			So(err, ShouldBeNil)

			Convey("Then keys are sorted and the output is compact", func() {
				out := string(b)
				So(strings.HasPrefix(out, `{"cis":7.5,"engine_version":"1.0.0","epoch_id":"2026-04","models":[{"adoption_score":0,`), ShouldBeTrue)
				So(out, ShouldNotContainSubstring, "\n")
				So(out, ShouldNotContainSubstring, " ")
			})

			Convey("Then encoding is deterministic", func() {
				again, err := Canonical(sample())
				So(err, ShouldBeNil)
				So(string(again), ShouldEqual, string(b))
			})
		})

		Convey("When a score is missing", func() {
			s.Models[1].ModelScore = model.Missing
			b, err := Canonical(s)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"model_score":null`)
		})

		Convey("When any field changes", func() {
			h1, err := Hash(s)
			So(err, ShouldBeNil)
			s.Timestamp = "2026-04-01T12:00:00.000001Z"
			h2, err := Hash(s)
			So(err, ShouldBeNil)

			Convey("Then the digest changes", func() {
				So(h1, ShouldNotEqual, h2)
				So(len(h1), ShouldEqual, 64)
			})
		})
	})
}

func TestWriteReadVerify(t *testing.T) {
	dir := t.TempDir()
	s := sample()

	w, err := Write(dir, s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName(s)), w.Path)

	want, err := Hash(s)
	require.NoError(t, err)
	assert.Equal(t, want, w.SHA256)

	body, err := os.ReadFile(w.Path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "\n  \"cis\": 7.5,")

	back, digest, err := Read(w.Path)
	require.NoError(t, err)
	assert.Equal(t, w.SHA256, digest)
	assert.Equal(t, s, back)

	sidecar, err := ReadDigest(w.Path)
	require.NoError(t, err)
	assert.Equal(t, w.SHA256, sidecar)

	v, err := Verify(w.Path, "")
	require.NoError(t, err)
	assert.True(t, v.OK())

	_, err = Write(dir, s)
	require.ErrorIs(t, err, ErrPersist)
	_, err = os.Stat(w.Path)
	require.NoError(t, err, "existing snapshot must survive a rejected overwrite")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	doc["cis"] = 99.0
	tampered, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(w.Path, tampered, 0o644))

	v, err = Verify(w.Path, "")
	require.ErrorIs(t, err, ErrDigestMismatch)
	assert.False(t, v.OK())
	assert.Equal(t, w.SHA256, v.Expected)
}

func TestWriteFailure(t *testing.T) {
	Convey("Given a snapshot directory that is a regular file", t, func() {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "epochs")
		So(os.WriteFile(blocker, []byte("x"), 0o600), ShouldBeNil)

		Convey("When writing", func() {
			_, err := Write(blocker, sample())

			Convey("Then a persistence error is returned", func() {
				So(errors.Is(err, ErrPersist), ShouldBeTrue)
			})
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a directory with several snapshots", t, func() {
		dir := t.TempDir()
		older := sample()
		newer := sample()
		newer.Timestamp = "2026-04-02T12:00:00.000000Z"
		newer.CIS = 8

		wOld, err := Write(dir, older)
		So(err, ShouldBeNil)
		wNew, err := Write(dir, newer)
		So(err, ShouldBeNil)

		past := time.Now().Add(-time.Hour)
		So(os.Chtimes(wOld.Path, past, past), ShouldBeNil)

		Convey("When the latest is requested", func() {
			sum, snap, err := Latest(dir)

			Convey("Then the most recently modified file wins", func() {
				So(err, ShouldBeNil)
				So(sum.Filename, ShouldEqual, filepath.Base(wNew.Path))
				So(sum.CIS, ShouldEqual, 8)
				So(sum.ModelsCount, ShouldEqual, 2)
				So(sum.EngineVersion, ShouldEqual, EngineVersion)
				So(sum.SHA256, ShouldEqual, wNew.SHA256)
				So(snap.Timestamp, ShouldEqual, newer.Timestamp)
			})
		})

		Convey("When the directory is empty", func() {
			_, _, err := Latest(t.TempDir())
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When the directory does not exist", func() {
			_, _, err := Latest(filepath.Join(dir, "missing"))
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}
