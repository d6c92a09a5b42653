package syncer

import (
	"context"

	"github.com/MrJamesThe3rd/pocketbook/internal/finance"
	"github.com/MrJamesThe3rd/pocketbook/internal/merge"
)

// lane runs one collection through a cycle.
type lane interface {
	collection() string
	pull(ctx context.Context, scope string, since int64) error
	merge()
	push(ctx context.Context, scope string, since int64) error
	stats() CollectionStats
}

// CollectionStats counts the rows a cycle moved for one collection.
type CollectionStats struct {
	Collection string `json:"collection"`
	Pulled     int    `json:"pulled"`
	Pushed     int    `json:"pushed"`
}

type collection[T finance.Entity, R any] struct {
	name    string
	working []T
	rows    []R
	pushed  int

	changedSince func(ctx context.Context, scope string, since int64) ([]R, error)
	upsert       func(ctx context.Context, scope string, rows []R) error
	toLocal      func(R) T
	toRow        func(T) R
}

func (c *collection[T, R]) collection() string {
	return c.name
}

func (c *collection[T, R]) pull(ctx context.Context, scope string, since int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows, err := c.changedSince(ctx, scope, since)
	if err != nil {
		return err
	}

	c.rows = rows

	return nil
}

// merge folds the pulled rows into the working set. A collection whose pull
// failed has no rows and keeps its local copy.
func (c *collection[T, R]) merge() {
	if len(c.rows) == 0 {
		return
	}

	c.working = merge.Merge(c.working, c.rows, c.toLocal)
}

// push sends records modified after since. Records without a canonical id are
// never sent.
func (c *collection[T, R]) push(ctx context.Context, scope string, since int64) error {
	var rows []R

	for _, v := range c.working {
		if v.LastModified() <= since || !finance.IsCanonicalID(v.EntityID()) {
			continue
		}

		rows = append(rows, c.toRow(v))
	}

	if len(rows) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.upsert(ctx, scope, rows); err != nil {
		return err
	}

	c.pushed = len(rows)

	return nil
}

func (c *collection[T, R]) stats() CollectionStats {
	return CollectionStats{Collection: c.name, Pulled: len(c.rows), Pushed: c.pushed}
}
