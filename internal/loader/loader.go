// Package loader turns uploaded bytes into normalized-header tables and
// memoizes the result by content fingerprint and column subset.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"partsdash/domain/core"
	"partsdash/domain/table"
	"partsdash/internal"
	"partsdash/internal/schema"
	"partsdash/ports"

	"golang.org/x/sync/singleflight"
)

// Config holds loader settings.
type Config struct {
	// MaxEntries bounds the cache; 0 keeps every entry for the session.
	MaxEntries int
	// FoldAccents is passed to the header normalizer.
	FoldAccents bool
}

// Stats reports cache effectiveness.
type Stats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

type cacheKey struct {
	content core.ContentHash
	subset  string
}

func (k cacheKey) String() string {
	return k.content.String() + "|" + k.subset
}

// Loader implements ports.TableLoaderPort.
type Loader struct {
	reader     ports.TabularReaderPort
	normalizer schema.Normalizer
	config     Config
	logger     *internal.Logger

	mu      sync.Mutex
	entries map[cacheKey]*table.Table
	order   []cacheKey
	hits    int
	misses  int

	group singleflight.Group
}

// New creates a loader decoding through reader.
func New(reader ports.TabularReaderPort, config Config) *Loader {
	return &Loader{
		reader:     reader,
		normalizer: schema.Normalizer{FoldAccents: config.FoldAccents},
		config:     config,
		logger:     internal.DefaultLogger.Named("TableLoader"),
		entries:    make(map[cacheKey]*table.Table),
	}
}

// SourceFromReader snapshots a seekable stream into a TableSource. The
// cursor is rewound first so repeated calls on one handle see the same bytes.
func SourceFromReader(src ports.TableSource, r io.ReadSeeker) (ports.TableSource, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return src, fmt.Errorf("failed to rewind %s: %w", src.Name, err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return src, fmt.Errorf("failed to read %s: %w", src.Name, err)
	}
	src.Data = data
	return src, nil
}

// Load returns the table for src restricted to columns (nil for all). The
// subset names are normalized like headers before matching.
func (l *Loader) Load(ctx context.Context, src ports.TableSource, columns []string) (*table.Table, error) {
	subset := l.normalizer.NormalizeAll(columns)
	key := cacheKey{content: src.Fingerprint(), subset: core.ColumnSubsetKey(subset)}

	if t, ok := l.lookup(key); ok {
		l.logger.Trace("cache hit for %s (%s)", src.Name, core.Hash(key.content).Short())
		return t, nil
	}

	v, err, _ := l.group.Do(key.String(), func() (interface{}, error) {
		if t, ok := l.peek(key); ok {
			return t, nil
		}
		t, err := l.decode(ctx, src, subset)
		if err != nil {
			return nil, err
		}
		l.store(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*table.Table), nil
}

// Stats returns a snapshot of cache counters.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Entries: len(l.entries), Hits: l.hits, Misses: l.misses}
}

func (l *Loader) lookup(key cacheKey) (*table.Table, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.entries[key]
	if ok {
		l.hits++
	} else {
		l.misses++
	}
	return t, ok
}

func (l *Loader) peek(key cacheKey) (*table.Table, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.entries[key]
	return t, ok
}

func (l *Loader) store(key cacheKey, t *table.Table) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.entries[key]; exists {
		return
	}
	l.entries[key] = t
	l.order = append(l.order, key)
	if l.config.MaxEntries > 0 {
		for len(l.order) > l.config.MaxEntries {
			oldest := l.order[0]
			l.order = l.order[1:]
			delete(l.entries, oldest)
		}
	}
}

func (l *Loader) decode(ctx context.Context, src ports.TableSource, subset []string) (*table.Table, error) {
	startTime := time.Now()

	raw, err := l.reader.ReadTable(ctx, src.Name, bytes.NewReader(src.Data))
	if err != nil {
		return nil, err
	}

	headers := schema.UniqueHeaders(l.normalizer.NormalizeAll(raw.Headers))
	full := table.New(string(src.Role), headers)

	if len(subset) > 0 {
		if err := schema.Require(full, subset...); err != nil {
			return nil, err
		}
	}

	keep := headers
	if len(subset) > 0 {
		wanted := make(map[string]bool, len(subset))
		for _, c := range subset {
			wanted[c] = true
		}
		keep = make([]string, 0, len(subset))
		for _, h := range headers {
			if wanted[h] {
				keep = append(keep, h)
			}
		}
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	t := table.New(string(src.Role), keep)
	t.Rows = make([]table.Row, 0, len(raw.Records))
	for _, record := range raw.Records {
		row := make(table.Row, len(keep))
		for _, c := range keep {
			if i := index[c]; i < len(record) && record[i] != "" {
				row[c] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}

	l.logger.Info("loaded %s as %s: %d columns, %d rows in %.2fms",
		src.Name, src.Role, len(t.Columns), len(t.Rows), float64(time.Since(startTime).Nanoseconds())/1e6)
	return t, nil
}
