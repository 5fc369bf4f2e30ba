package treewalk

import (
	"golang.org/x/sync/errgroup"
)

// Pool runs the action calls of one parallel batch.
//
// Go may block until a slot is free. Wait is the batch barrier: it returns
// once every submitted function has finished. *errgroup.Group satisfies Pool.
type Pool interface {
	Go(fn func() error)
	Wait() error
}

// newGroupPool returns an errgroup bounded to limit concurrent functions.
//
// The functions submitted by the walker never return errors (action errors go
// to the batch sink), so the group never cancels siblings.
func newGroupPool(limit int) Pool {
	var group errgroup.Group

	group.SetLimit(limit)

	return &group
}
