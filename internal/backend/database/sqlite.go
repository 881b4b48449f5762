package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	if err := ensureDatabaseDirectory(connectionString); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer and every ":memory:" connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

// ensureDatabaseDirectory creates the parent directory of a file backed database.
func ensureDatabaseDirectory(connectionString string) error {
	if connectionString == "" || strings.HasPrefix(connectionString, ":memory:") || strings.HasPrefix(connectionString, "file:") {
		return nil
	}
	path, _, _ := strings.Cut(connectionString, "?")
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS image_pairs (
		id TEXT PRIMARY KEY,
		img1 TEXT NOT NULL,
		img2 TEXT NOT NULL,
		similarity INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.PingContext(ctx)
	return err == nil
}

func (s *SQLiteDatabase) CreatePair(ctx context.Context, pair *ImagePair) error {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO image_pairs (id, img1, img2, similarity) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
		pair.ID, pair.Img1, pair.Img2, pair.Similarity)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *SQLiteDatabase) GetAllPairs(ctx context.Context) ([]*ImagePair, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, img1, img2, similarity FROM image_pairs")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	pairs := make([]*ImagePair, 0)
	for rows.Next() {
		var pair ImagePair
		if err := rows.Scan(&pair.ID, &pair.Img1, &pair.Img2, &pair.Similarity); err != nil {
			return nil, err
		}
		pairs = append(pairs, &pair)
	}
	return pairs, rows.Err()
}

func (s *SQLiteDatabase) GetPairByID(ctx context.Context, id string) (*ImagePair, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, img1, img2, similarity FROM image_pairs WHERE id = ?", id)
	var pair ImagePair
	if err := row.Scan(&pair.ID, &pair.Img1, &pair.Img2, &pair.Similarity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pair, nil
}

func (s *SQLiteDatabase) UpdatePair(ctx context.Context, pair *ImagePair) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE image_pairs SET img1 = ?, img2 = ?, similarity = ? WHERE id = ?",
		pair.Img1, pair.Img2, pair.Similarity, pair.ID)
	if err != nil {
		return err
	}
	return requireAffectedRow(result)
}

func (s *SQLiteDatabase) DeletePair(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM image_pairs WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffectedRow(result)
}

func (s *SQLiteDatabase) CountPairs(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM image_pairs").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func requireAffectedRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
