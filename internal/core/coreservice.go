package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/similarity-game/internal/backend/database"
)

var (
	// ErrPairNotFound is returned when an id does not resolve to a stored pair.
	ErrPairNotFound = errors.New("pair not found")
	// ErrStorageUnavailable wraps every storage fault other than a missing pair.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// PairInput holds the caller supplied fields of a pair.
type PairInput struct {
	Img1       string
	Img2       string
	Similarity int
}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	generateID      database.IDGenerator
}

// NewCoreService opens the configured database and wires it with a random
// UUID generator.
func NewCoreService(ctx context.Context, config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewCoreServiceWith(config, databaseService, database.NewUUIDGenerator()), nil
}

// NewCoreServiceWith builds a CoreService around an existing storage handle
// and id generator.
func NewCoreServiceWith(config *ServiceConfig, databaseService database.DatabaseService, generateID database.IDGenerator) *CoreService {
	return &CoreService{
		config:          config,
		databaseService: databaseService,
		generateID:      generateID,
	}
}

func (service *CoreService) CreatePair(ctx context.Context, input PairInput) (*database.ImagePair, error) {
	id, err := service.generateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pair id: %w", err)
	}

	pair := &database.ImagePair{
		ID:         id,
		Img1:       input.Img1,
		Img2:       input.Img2,
		Similarity: input.Similarity,
	}
	if err := service.databaseService.CreatePair(ctx, pair); err != nil {
		return nil, translateStorageError("create pair", err)
	}
	return pair, nil
}

// ListPairs returns every stored pair in storage order. The result is never nil.
func (service *CoreService) ListPairs(ctx context.Context) ([]*database.ImagePair, error) {
	pairs, err := service.databaseService.GetAllPairs(ctx)
	if err != nil {
		return nil, translateStorageError("list pairs", err)
	}
	if pairs == nil {
		pairs = []*database.ImagePair{}
	}
	return pairs, nil
}

func (service *CoreService) GetPair(ctx context.Context, id string) (*database.ImagePair, error) {
	pair, err := service.databaseService.GetPairByID(ctx, id)
	if err != nil {
		return nil, translateStorageError("get pair", err)
	}
	return pair, nil
}

// UpdatePair replaces all mutable fields of the pair. The id is kept.
func (service *CoreService) UpdatePair(ctx context.Context, id string, input PairInput) (*database.ImagePair, error) {
	pair := &database.ImagePair{
		ID:         id,
		Img1:       input.Img1,
		Img2:       input.Img2,
		Similarity: input.Similarity,
	}
	if err := service.databaseService.UpdatePair(ctx, pair); err != nil {
		return nil, translateStorageError("update pair", err)
	}
	return pair, nil
}

func (service *CoreService) DeletePair(ctx context.Context, id string) error {
	if err := service.databaseService.DeletePair(ctx, id); err != nil {
		return translateStorageError("delete pair", err)
	}
	return nil
}

// SeedPairs inserts the given pairs if, and only if, the store is empty.
// It returns the number of inserted pairs.
func (service *CoreService) SeedPairs(ctx context.Context, seeds []PairInput) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	count, err := service.databaseService.CountPairs(ctx)
	if err != nil {
		return 0, translateStorageError("count pairs", err)
	}
	if count > 0 {
		slog.Info("store already contains pairs, skipping seed", "count", count)
		return 0, nil
	}

	for i, seed := range seeds {
		if _, err := service.CreatePair(ctx, seed); err != nil {
			return i, err
		}
	}
	slog.Info("seeded pairs", "count", len(seeds))
	return len(seeds), nil
}

// ConfiguredSeedPairs converts the seed entries of the configuration.
func (service *CoreService) ConfiguredSeedPairs() []PairInput {
	seeds := make([]PairInput, 0, len(service.config.SeedPairs))
	for _, seed := range service.config.SeedPairs {
		seeds = append(seeds, PairInput{
			Img1:       seed.Img1,
			Img2:       seed.Img2,
			Similarity: seed.Similarity,
		})
	}
	return seeds
}

func (service *CoreService) IsHealthy(ctx context.Context) bool {
	return service.databaseService.DoesDatabaseExist(ctx)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

func translateStorageError(operation string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrPairNotFound
	}
	slog.Error("storage operation failed", "operation", operation, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, operation, err)
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx,
		config.Database.Type,
		config.Database.ConnectionString,
		database.Options{KeyPrefix: config.Database.KeyPrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}
