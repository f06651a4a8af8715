package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"

	"github.com/verte-zerg/crease/internal/logging"
	"github.com/verte-zerg/crease/internal/model"
)

type entry struct {
	deliveries []model.Delivery
	rows       []model.PhaseRow
	origin     string
}

// Cache memoizes parsed datasets. Concurrent first loads of one dataset share
// a single read; returned slices are shared and must not be modified.
// Failed loads are not cached.
type Cache struct {
	sources []Source
	log     *logging.Logger

	mu      sync.Mutex
	entries map[ID]*entry
	group   singleflight.Group
}

// NewCache returns a cache reading from sources in order. Its log entries are
// named "dataset".
func NewCache(sources []Source, log *logging.Logger) *Cache {
	if log == nil {
		log = logging.Default()
	}
	return &Cache{sources: sources, log: log.Named("dataset"), entries: map[ID]*entry{}}
}

// Deliveries returns the ball-by-ball table.
func (c *Cache) Deliveries(ctx context.Context) ([]model.Delivery, error) {
	e, err := c.load(ctx, IDDeliveries)
	if err != nil {
		return nil, err
	}
	return e.deliveries, nil
}

// PhaseRows returns a pre-aggregated season/phase table.
func (c *Cache) PhaseRows(ctx context.Context, id ID) ([]model.PhaseRow, error) {
	if id == IDDeliveries {
		return nil, errors.Newf("%s is not a phase table", id)
	}
	e, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.rows, nil
}

// Clear drops every memoized dataset.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[ID]*entry{}
	c.mu.Unlock()
	c.log.Debug("dataset cache cleared")
}

// Status describes one dataset for listings.
type Status struct {
	Spec   Spec
	Origin string
	Rows   int
	Err    error
}

// Status loads every dataset and reports where it came from.
func (c *Cache) Status(ctx context.Context) []Status {
	out := make([]Status, 0, len(specs))
	for _, spec := range specs {
		st := Status{Spec: spec}
		e, err := c.load(ctx, spec.ID)
		if err != nil {
			st.Err = err
		} else {
			st.Origin = e.origin
			st.Rows = len(e.rows) + len(e.deliveries)
		}
		out = append(out, st)
	}
	return out
}

func (c *Cache) cached(id ID) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	return e, ok
}

func (c *Cache) load(ctx context.Context, id ID) (*entry, error) {
	if e, ok := c.cached(id); ok {
		return e, nil
	}
	v, err, _ := c.group.Do(string(id), func() (any, error) {
		if e, ok := c.cached(id); ok {
			return e, nil
		}
		e, err := c.read(ctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

func (c *Cache) read(ctx context.Context, id ID) (*entry, error) {
	spec, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	raw, err := readFirst(ctx, c.sources, spec)
	if err != nil {
		if errors.Is(err, ErrMissing) {
			c.log.Warn("dataset not found", "dataset", id, "file", spec.File)
		}
		return nil, err
	}

	e := &entry{origin: raw.Origin}
	if id == IDDeliveries {
		e.deliveries, err = ParseDeliveries(raw)
	} else {
		e.rows, err = ParsePhaseRows(spec, raw)
	}
	if err != nil {
		c.log.Error("dataset rejected", "dataset", id, "origin", raw.Origin, "err", err)
		return nil, err
	}
	c.log.Debug("dataset loaded",
		"dataset", id,
		"origin", raw.Origin,
		"rows", len(raw.Records),
		"elapsed", time.Since(start),
	)
	return e, nil
}
