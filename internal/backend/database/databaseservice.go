package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no pair matches the requested id.
var ErrNotFound = errors.New("pair not found")

// ErrDuplicateID is returned when a pair is created with an id already in use.
var ErrDuplicateID = errors.New("pair id already exists")

type DatabaseService interface {
	// CreateDatabase ensures the schema exists. It is safe to call on every startup.
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error

	// CreatePair inserts a new pair. Returns ErrDuplicateID if pair.ID is taken.
	CreatePair(ctx context.Context, pair *ImagePair) error
	GetAllPairs(ctx context.Context) ([]*ImagePair, error)
	GetPairByID(ctx context.Context, id string) (*ImagePair, error)
	// UpdatePair replaces img1, img2 and similarity of the pair with pair.ID
	// in a single conditional statement. Returns ErrNotFound if nothing matched.
	UpdatePair(ctx context.Context, pair *ImagePair) error
	DeletePair(ctx context.Context, id string) error
	CountPairs(ctx context.Context) (int, error)
}
