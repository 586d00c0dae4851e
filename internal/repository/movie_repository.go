// Package repository contains data access logic separated from HTTP
// handlers.  This file implements CRUD and lookup operations for movies.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/quangdng/cinema-ticket-booking/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, genre, duration, rating, status, release_date, poster_url, description, created_at, updated_at`

func scanMovie(row interface{ Scan(...any) error }) (model.Movie, error) {
	var m model.Movie
	var poster, desc sql.NullString
	err := row.Scan(&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating, &m.Status,
		&m.ReleaseDate, &poster, &desc, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return model.Movie{}, err
	}
	if poster.Valid {
		p := poster.String
		m.PosterURL = &p
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	return m, nil
}

// List returns movies ordered by release date descending.  When status is
// non-empty, only movies with that status are returned ("all" and "" are
// equivalent).
func (r *MovieRepo) List(ctx context.Context, status string) ([]model.Movie, error) {
	q := `SELECT ` + movieColumns + ` FROM movies`
	var args []any
	if status != "" && status != "all" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY release_date DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a movie by its ID.  Returns ErrMovieNotFound when no
// matching row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Create inserts a movie and populates its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, genre, duration, rating, status, release_date, poster_url, description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.Duration, m.Rating,
		m.Status, m.ReleaseDate, m.PosterURL, m.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update rewrites all mutable movie fields.  Returns ErrMovieNotFound
// when the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, genre = ?, duration = ?, rating = ?, status = ?,
	               release_date = ?, poster_url = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.Duration, m.Rating,
		m.Status, m.ReleaseDate, m.PosterURL, m.Description, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or identical values; distinguish with an existence probe.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// UpdateStatus changes only the status column (showing/coming_soon/ended).
func (r *MovieRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE movies SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a movie.  When showtimes still reference it, the foreign
// key rejection is mapped to ErrConflict so the handler can answer 409.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1451") { // FK constraint
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
