package database

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// runDatabaseContract exercises the behaviour every DatabaseService
// implementation has to provide.
func runDatabaseContract(t *testing.T, newDB func(t *testing.T) DatabaseService) {
	t.Helper()

	t.Run("CreateThenGet", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		want := &ImagePair{ID: "p1", Img1: "a.png", Img2: "b.png", Similarity: 7}
		if err := ds.CreatePair(ctx, want); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}

		got, err := ds.GetPairByID(ctx, "p1")
		if err != nil {
			t.Fatalf("GetPairByID error: %v", err)
		}
		if *got != *want {
			t.Fatalf("GetPairByID = %+v, want %+v", got, want)
		}
	})

	t.Run("CreateDuplicateID", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		original := &ImagePair{ID: "dup", Img1: "a", Img2: "b", Similarity: 1}
		if err := ds.CreatePair(ctx, original); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}
		err := ds.CreatePair(ctx, &ImagePair{ID: "dup", Img1: "c", Img2: "d", Similarity: 2})
		if !errors.Is(err, ErrDuplicateID) {
			t.Fatalf("second CreatePair error = %v, want ErrDuplicateID", err)
		}

		got, err := ds.GetPairByID(ctx, "dup")
		if err != nil {
			t.Fatalf("GetPairByID error: %v", err)
		}
		if *got != *original {
			t.Fatalf("duplicate create overwrote pair: got %+v, want %+v", got, original)
		}
		count, err := ds.CountPairs(ctx)
		if err != nil {
			t.Fatalf("CountPairs error: %v", err)
		}
		if count != 1 {
			t.Fatalf("CountPairs = %d, want 1", count)
		}
	})

	t.Run("GetUnknown", func(t *testing.T) {
		ds := newDB(t)
		_, err := ds.GetPairByID(context.Background(), "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetPairByID(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateReplacesAllFields", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		if err := ds.CreatePair(ctx, &ImagePair{ID: "p1", Img1: "a", Img2: "b", Similarity: 1}); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}
		updated := &ImagePair{ID: "p1", Img1: "c", Img2: "d", Similarity: -40}
		if err := ds.UpdatePair(ctx, updated); err != nil {
			t.Fatalf("UpdatePair error: %v", err)
		}

		got, err := ds.GetPairByID(ctx, "p1")
		if err != nil {
			t.Fatalf("GetPairByID error: %v", err)
		}
		if *got != *updated {
			t.Fatalf("GetPairByID after update = %+v, want %+v", got, updated)
		}
	})

	t.Run("UpdateWithSameValues", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		pair := &ImagePair{ID: "p1", Img1: "a", Img2: "b", Similarity: 1}
		if err := ds.CreatePair(ctx, pair); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}
		if err := ds.UpdatePair(ctx, pair); err != nil {
			t.Fatalf("UpdatePair with unchanged values error: %v", err)
		}
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		err := ds.UpdatePair(ctx, &ImagePair{ID: "missing", Img1: "a", Img2: "b", Similarity: 1})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("UpdatePair(missing) error = %v, want ErrNotFound", err)
		}
		count, err := ds.CountPairs(ctx)
		if err != nil {
			t.Fatalf("CountPairs error: %v", err)
		}
		if count != 0 {
			t.Fatalf("UpdatePair(missing) created a record, count = %d", count)
		}
	})

	t.Run("DeleteIsFinal", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		if err := ds.CreatePair(ctx, &ImagePair{ID: "p1", Img1: "a", Img2: "b", Similarity: 1}); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}
		if err := ds.DeletePair(ctx, "p1"); err != nil {
			t.Fatalf("DeletePair error: %v", err)
		}

		if _, err := ds.GetPairByID(ctx, "p1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPairByID after delete error = %v, want ErrNotFound", err)
		}
		if err := ds.UpdatePair(ctx, &ImagePair{ID: "p1", Img1: "x", Img2: "y"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdatePair after delete error = %v, want ErrNotFound", err)
		}
		if err := ds.DeletePair(ctx, "p1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second DeletePair error = %v, want ErrNotFound", err)
		}

		pairs, err := ds.GetAllPairs(ctx)
		if err != nil {
			t.Fatalf("GetAllPairs error: %v", err)
		}
		if len(pairs) != 0 {
			t.Errorf("expected no pairs after delete, got %d", len(pairs))
		}
	})

	t.Run("ListIsComplete", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		pairs, err := ds.GetAllPairs(ctx)
		if err != nil {
			t.Fatalf("GetAllPairs on empty store error: %v", err)
		}
		if pairs == nil || len(pairs) != 0 {
			t.Fatalf("GetAllPairs on empty store = %v, want empty non-nil slice", pairs)
		}

		want := []ImagePair{
			{ID: "A", Img1: "a1", Img2: "a2", Similarity: 10},
			{ID: "B", Img1: "b1", Img2: "b2", Similarity: 20},
			{ID: "C", Img1: "c1", Img2: "c2", Similarity: 30},
		}
		for i := range want {
			if err := ds.CreatePair(ctx, &want[i]); err != nil {
				t.Fatalf("CreatePair(%s) error: %v", want[i].ID, err)
			}
		}

		pairs, err = ds.GetAllPairs(ctx)
		if err != nil {
			t.Fatalf("GetAllPairs error: %v", err)
		}
		if len(pairs) != len(want) {
			t.Fatalf("expected %d pairs, got %d", len(want), len(pairs))
		}
		// no ordering guarantee
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].ID < pairs[j].ID })
		for i := range want {
			if *pairs[i] != want[i] {
				t.Errorf("pair[%d] = %+v, want %+v", i, pairs[i], want[i])
			}
		}

		count, err := ds.CountPairs(ctx)
		if err != nil {
			t.Fatalf("CountPairs error: %v", err)
		}
		if count != len(want) {
			t.Errorf("CountPairs = %d, want %d", count, len(want))
		}
	})

	t.Run("SchemaCreationIsIdempotent", func(t *testing.T) {
		ds := newDB(t)
		ctx := context.Background()

		if err := ds.CreatePair(ctx, &ImagePair{ID: "keep", Img1: "a", Img2: "b", Similarity: 3}); err != nil {
			t.Fatalf("CreatePair error: %v", err)
		}
		if err := ds.CreateDatabase(ctx); err != nil {
			t.Fatalf("second CreateDatabase error: %v", err)
		}
		if _, err := ds.GetPairByID(ctx, "keep"); err != nil {
			t.Fatalf("pair lost after repeated CreateDatabase: %v", err)
		}
		if !ds.DoesDatabaseExist(ctx) {
			t.Fatalf("expected DoesDatabaseExist to return true")
		}
	})
}
