// ScreenScout - Semantic Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/screenscout

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/screenscout/internal/config"
	"github.com/tomtom215/screenscout/internal/logging"
	"github.com/tomtom215/screenscout/internal/metrics"
	"github.com/tomtom215/screenscout/internal/models"
)

const movieColumns = "id, title, overview, poster_path, release_date, vote_average"

// Store wraps the SQLite movie catalog and provides the read paths used
// by the recommendation pipeline, the listing endpoint, and ingestion.
type Store struct {
	db  *sql.DB
	cfg *config.CatalogConfig
}

// New opens the catalog database and ensures the movies table exists.
func New(cfg *config.CatalogConfig) (*Store, error) {
	db, err := sql.Open(DriverName, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", cfg.Path, err)
	}

	// A single connection avoids SQLite lock contention and keeps
	// in-memory databases coherent (each new connection to :memory:
	// would otherwise see its own empty database).
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db, cfg: cfg}

	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Str("driver", DriverName).
		Str("build_mode", BuildMode).
		Msg("Catalog store opened")

	return s, nil
}

// ensureSchema creates the movies table when the catalog file is new.
// An empty catalog serves empty listings instead of failing queries.
func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT,
			poster_path TEXT,
			release_date TEXT,
			vote_average REAL
		)
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the catalog connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("catalog connection is nil")
	}
	return s.db.PingContext(ctx)
}

// TitlesByIDs returns the titles for the given catalog ids, in input-id
// order. Missing ids are skipped. Callers on the recommendation path
// treat any failure as an empty result, so errors are returned for
// logging but never abort a request.
func (s *Store) TitlesByIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT id, title FROM movies WHERE id IN (%s)", placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordCatalogQuery("titles_by_ids", time.Since(start), err)
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]string, len(ids))
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			metrics.RecordCatalogQuery("titles_by_ids", time.Since(start), err)
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		byID[id] = title
	}
	if err := rows.Err(); err != nil {
		metrics.RecordCatalogQuery("titles_by_ids", time.Since(start), err)
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if title, ok := byID[id]; ok {
			titles = append(titles, title)
		}
	}

	metrics.RecordCatalogQuery("titles_by_ids", time.Since(start), nil)
	return titles, nil
}

// ListMovies returns one page of the catalog ordered by vote average
// descending, plus the total row count for pagination metadata.
func (s *Store) ListMovies(ctx context.Context, page, limit int) ([]models.Movie, int, error) {
	start := time.Now()

	total, err := s.CountMovies(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(
		"SELECT %s FROM movies ORDER BY vote_average DESC LIMIT ? OFFSET ?",
		movieColumns,
	)

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		metrics.RecordCatalogQuery("list", time.Since(start), err)
		return nil, 0, fmt.Errorf("query movies page: %w", err)
	}
	defer rows.Close()

	movies := make([]models.Movie, 0, limit)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			metrics.RecordCatalogQuery("list", time.Since(start), err)
			return nil, 0, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordCatalogQuery("list", time.Since(start), err)
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	metrics.RecordCatalogQuery("list", time.Since(start), nil)
	return movies, total, nil
}

// CountMovies returns the total number of catalog rows.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	start := time.Now()

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&total)
	metrics.RecordCatalogQuery("count", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}

// Movies streams every catalog row to fn in id order. Iteration stops
// at the first fn error, which is returned to the caller. Used by the
// ingestion job to batch the catalog without loading it into memory.
func (s *Store) Movies(ctx context.Context, fn func(models.Movie) error) error {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM movies ORDER BY id", movieColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordCatalogQuery("iterate", time.Since(start), err)
		return fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			metrics.RecordCatalogQuery("iterate", time.Since(start), err)
			return fmt.Errorf("scan movie row: %w", err)
		}
		if err := fn(movie); err != nil {
			metrics.RecordCatalogQuery("iterate", time.Since(start), err)
			return err
		}
	}
	if err := rows.Err(); err != nil {
		metrics.RecordCatalogQuery("iterate", time.Since(start), err)
		return fmt.Errorf("rows iteration: %w", err)
	}

	metrics.RecordCatalogQuery("iterate", time.Since(start), nil)
	return nil
}

// scanMovie scans the movieColumns selection into a Movie.
// Nullable columns map to Go zero values; downstream poster resolution
// treats an empty poster_path as "no poster".
func scanMovie(rows *sql.Rows) (models.Movie, error) {
	var (
		m           models.Movie
		overview    sql.NullString
		posterPath  sql.NullString
		releaseDate sql.NullString
		voteAverage sql.NullFloat64
	)
	if err := rows.Scan(&m.ID, &m.Title, &overview, &posterPath, &releaseDate, &voteAverage); err != nil {
		return models.Movie{}, err
	}
	m.Overview = overview.String
	m.PosterPath = posterPath.String
	m.ReleaseDate = releaseDate.String
	m.VoteAverage = voteAverage.Float64
	return m, nil
}
