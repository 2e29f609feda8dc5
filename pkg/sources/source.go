// Package sources defines the interface shared by every raw data source of the
// reconciliation pipeline and the fixed order in which their records are
// concatenated.
//
// Example usage:
//
//	srcs := sources.Order([]sources.Source{legacy, feed, osm})
//	for _, src := range srcs {
//	    if err := src.Fetch(ctx, sources.WithTimeout(time.Minute)); err != nil {
//	        log.Printf("skipping %s: %v", src.ID(), err)
//	        continue
//	    }
//	    tables := src.Tables()
//	}
package sources

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/tabular"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Source IDs.
const (
	MapAPIID ID = "osm"
	FeedID   ID = "atp"
	LegacyID ID = "legacy"
)

// IDs returns all source IDs in concatenation order. Records from earlier
// sources survive deduplication over records from later ones.
func IDs() []ID {
	return []ID{
		MapAPIID,
		FeedID,
		LegacyID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Rank returns the position of the ID in concatenation order, or len(IDs())
// for unknown IDs so they sort last.
func (id ID) Rank() int {
	if i := slices.Index(IDs(), id); i >= 0 {
		return i
	}
	return len(IDs())
}

// Tag returns the record provenance tag for the source path.
func (id ID) Tag() records.SourceTag {
	switch id {
	case MapAPIID:
		return records.SourceMapAPI
	case FeedID:
		return records.SourceSimulatedFeed
	default:
		return records.SourceLegacy
	}
}

// Source represents a raw point-of-sale data source.
type Source interface {
	// ID returns the identifier of this source.
	ID() ID

	// Fetch loads the raw tables. A source that loaded some tables but not
	// others returns the failures while keeping the loaded tables.
	Fetch(ctx context.Context, opts ...Option) error

	// Tables returns the raw tables loaded by the last Fetch.
	Tables() []*tabular.Table

	// Cleanup releases any resources (called after all Fetch operations).
	Cleanup() error
}

// Order returns the sources sorted into concatenation order. Sources with the
// same ID keep their relative order.
func Order(srcs []Source) []Source {
	out := slices.Clone(srcs)
	slices.SortStableFunc(out, func(a, b Source) int {
		return a.ID().Rank() - b.ID().Rank()
	})
	return out
}

// Sources is a thread-safe registry holding at most one source per ID.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates a registry from srcs. A later source replaces an
// earlier one with the same ID.
func NewSources(srcs ...Source) *Sources {
	s := &Sources{
		sources: make(map[ID]Source),
	}
	for _, src := range srcs {
		s.Set(src)
	}
	return s
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers a source under its ID, replacing any previous one.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// List returns all sources in concatenation order. Unknown IDs sort last,
// by name.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Source, 0, len(s.sources))
	for _, src := range s.sources {
		list = append(list, src)
	}
	slices.SortFunc(list, func(a, b Source) int {
		if c := a.ID().Rank() - b.ID().Rank(); c != 0 {
			return c
		}
		return strings.Compare(a.ID().String(), b.ID().String())
	})
	return list
}
