package model

import "time"

// Movie statuses drive the homepage filter: only "showing" movies are
// bookable, "coming_soon" ones are advertised, "ended" ones are archived.
const (
	MovieStatusShowing    = "showing"
	MovieStatusComingSoon = "coming_soon"
	MovieStatusEnded      = "ended"
)

// Movie represents a film in the catalogue.  It corresponds to a row in
// the `movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title of the movie.
//  Genre       – genre label (free text).
//  Duration    – runtime in minutes.
//  Rating      – audience rating on a 0–10 scale.
//  Status      – showing | coming_soon | ended.
//  ReleaseDate – theatrical release date.
//  PosterURL   – optional poster image URL.
//  Description – optional synopsis.
//  CreatedAt   – timestamp when the movie was created.
//  UpdatedAt   – timestamp of last update.
type Movie struct {
	ID          uint64    `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	Genre       string    `json:"genre"`        // movies.genre
	Duration    uint32    `json:"duration"`     // movies.duration (minutes)
	Rating      float64   `json:"rating"`       // movies.rating (0–10)
	Status      string    `json:"status"`       // movies.status
	ReleaseDate time.Time `json:"release_date"` // movies.release_date
	PosterURL   *string   `json:"poster_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
