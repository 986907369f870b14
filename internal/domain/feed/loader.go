package feed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileExt is the extension of feed documents in a feeds directory.
const FileExt = ".json"

// maxConcurrentReads bounds parallel file reads in LoadDir.
const maxConcurrentReads = 8

// Problem records a feed file that was not used.
type Problem struct {
	File string
	Err  error
}

// Report summarises a directory load. None of its entries are fatal.
type Report struct {
	Loaded   []Source
	Absent   []Source
	Ignored  []string
	Rejected []Problem
}

// FileName returns the conventional file name for src.
func FileName(src Source) string { return src.String() + FileExt }

// LoadDir reads every recognised feed file in dir concurrently. A missing
// file means an absent feed. Files that cannot be read or decoded are
// reported and treated as absent. Unknown *.json files are reported and
// ignored. Only a missing or unreadable directory is an error.
func LoadDir(ctx context.Context, dir string) (*Set, Report, error) {
	var rep Report
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, rep, fmt.Errorf("read feeds dir %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, FileExt) {
			continue
		}
		if _, perr := ParseSource(strings.TrimSuffix(name, FileExt)); perr != nil {
			rep.Ignored = append(rep.Ignored, name)
		}
	}
	sort.Strings(rep.Ignored)

	sources := Sources()
	feeds := make([]*Feed, len(sources))
	problems := make([]error, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, FileName(src)))
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			if err != nil {
				problems[i] = err
				return nil
			}
			f, err := Decode(src, data)
			if err != nil {
				problems[i] = err
				return nil
			}
			feeds[i] = &f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rep, err
	}

	set := &Set{feeds: make(map[Source]Feed, len(sources))}
	for i, src := range sources {
		switch {
		case feeds[i] != nil:
			set.feeds[src] = *feeds[i]
			rep.Loaded = append(rep.Loaded, src)
		case problems[i] != nil:
			rep.Rejected = append(rep.Rejected, Problem{File: FileName(src), Err: problems[i]})
			rep.Absent = append(rep.Absent, src)
		default:
			rep.Absent = append(rep.Absent, src)
		}
	}
	return set, rep, nil
}
