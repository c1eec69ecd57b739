package models

import (
	"encoding/json"
	"moviecatalog/proj/internal/domain/fields"
	"time"
)

type Movie struct {
	ID                  int                `json:"id" db:"id"`
	Name                string             `json:"name" db:"name"`
	VideoFile           string             `json:"video_file" db:"video_file"`
	SampleVideoFile     string             `json:"sample_video_file" db:"sample_video_file"`
	ProductionDate      string             `json:"production_date" db:"production_date"` // Release year, e.g. "2014"
	UploadedDate        time.Time          `json:"uploaded_date" db:"uploaded_date"`
	Synopsis            string             `json:"synopsis" db:"synopsis"`
	RunningTime         fields.RunningTime `json:"running_time" db:"running_time"`
	ViewCount           int                `json:"view_count" db:"view_count"`
	LogoImagePath       string             `json:"logo_image_path" db:"logo_image_path"`
	HorizontalImagePath string             `json:"horizontal_image_path" db:"horizontal_image_path"`
	VerticalImage       string             `json:"vertical_image" db:"vertical_image"`
	CircleImage         string             `json:"circle_image" db:"circle_image"`
	Degree              string             `json:"degree" db:"degree"` // Age rating
	Directors           string             `json:"directors" db:"directors"`
	Actors              string             `json:"actors" db:"actors"`
	Feature             string             `json:"feature" db:"feature"`
	Author              string             `json:"author" db:"author"`
	Genres              []int              `json:"genre" db:"genre"` // Genre ids in ascending order
}

type Genre struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// GenreMovies is a genre together with every movie tagged with it.
type GenreMovies struct {
	Genre  Genre
	Movies []Movie
}

type LikeDislikeMark struct {
	ID            int              `json:"id" db:"id"`
	SubUserID     int              `json:"sub_user" db:"sub_user_id"`
	MovieID       int              `json:"movie_id" db:"movie_id"`
	Marked        bool             `json:"marked" db:"marked"`
	LikeOrDislike fields.LikeState `json:"like_or_dislike" db:"like_or_dislike"`
	Movie         *Movie           `json:"movie,omitempty" db:"-"`
}

type PlaybackProgress struct {
	ID           int             `json:"id" db:"id"`
	SubUserID    int             `json:"sub_user" db:"sub_user_id"`
	MovieID      int             `json:"movie_id" db:"movie_id"`
	ToBeContinue fields.Progress `json:"to_be_continue" db:"to_be_continue"`
}

// Home is the landing page payload.
// It's encoded as an array: the featured movie first, then one {"<genre name>": [...]} object per genre.
type Home struct {
	Featured Movie
	ByGenre  []GenreMovies
}

func (h Home) MarshalJSON() ([]byte, error) {
	sections := make([]any, 0, len(h.ByGenre)+1)
	sections = append(sections, h.Featured)
	for _, g := range h.ByGenre {
		movies := g.Movies
		if movies == nil {
			movies = []Movie{}
		}
		sections = append(sections, map[string][]Movie{g.Genre.Name: movies})
	}
	return json.Marshal(sections)
}

type SimilarMovie struct {
	Movie
	Marked bool `json:"marked"`
}

// MovieDetail is a movie augmented with the state of a particular viewer.
type MovieDetail struct {
	Movie
	Marked        bool             `json:"marked"`
	Like          fields.LikeState `json:"like"`
	MatchRate     int              `json:"match_rate"`
	TotalMinute   int              `json:"total_minute"`
	ToBeContinue  *fields.Progress `json:"to_be_continue"`
	RemainingTime *int             `json:"remaining_time"`
	CanIStore     bool             `json:"can_i_store"`
	SimilarMovies []SimilarMovie   `json:"similar_movies"`
}

// MovieCreatedEvent is published to the broker once a movie is stored.
type MovieCreatedEvent struct {
	MovieID   int       `json:"movie_id"`
	Name      string    `json:"name"`
	Genres    []int     `json:"genre"`
	CreatedAt time.Time `json:"created_at"`
}
