package datastore

import (
	"context"
	"errors"
)

// ErrNoSuchEntity is returned when a kind/id pair does not exist.
var ErrNoSuchEntity = errors.New("datastore: no such entity")

// Document is one stored entity: an auto-assigned integer id plus an
// opaque JSON body. The store does not interpret Data.
type Document struct {
	ID   int64
	Data []byte
}

// Store is a key-value document store grouped by kind. Ids are assigned
// from a per-kind sequence and are never reused. List returns every
// document of a kind in ascending id order; callers do their own
// filtering and pagination on top of that.
type Store interface {
	NextID(ctx context.Context, kind string) (int64, error)
	Put(ctx context.Context, kind string, id int64, data []byte) error
	Get(ctx context.Context, kind string, id int64) (*Document, error)
	Delete(ctx context.Context, kind string, id int64) error
	List(ctx context.Context, kind string) ([]*Document, error)
}
