package models

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"
	"moviecatalog/proj/internal/storage/postgres"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = `m.id, m.name, m.video_file, m.sample_video_file, m.production_date, m.uploaded_date,
	m.synopsis, m.running_time, m.view_count, m.logo_image_path, m.horizontal_image_path,
	m.vertical_image, m.circle_image, m.degree, m.directors, m.actors, m.feature, m.author,
	COALESCE(
		(SELECT array_agg(mg.genre_id ORDER BY mg.genre_id) FROM movies_genres mg WHERE mg.movie_id = m.id),
		'{}'
	) AS genre`

type MovieModel struct {
	DB *pgxpool.Pool
}

func (m *MovieModel) Get(ctx context.Context, id int) (*models.Movie, error) {
	rows, err := m.DB.Query(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.id = $1`, id)
	if err != nil {
		return nil, err
	}
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &movie, nil
}

func (m *MovieModel) GetMany(ctx context.Context, ids []int) ([]models.Movie, error) {
	rows, _ := m.DB.Query(ctx, `SELECT `+movieColumns+` FROM movies m WHERE m.id = ANY($1) ORDER BY m.id`, ids)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	created := *movie
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			`INSERT INTO movies (
				name, video_file, sample_video_file, production_date, synopsis, running_time, view_count,
				logo_image_path, horizontal_image_path, vertical_image, circle_image,
				degree, directors, actors, feature, author
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id, uploaded_date`,
			movie.Name, movie.VideoFile, movie.SampleVideoFile, movie.ProductionDate, movie.Synopsis,
			movie.RunningTime, movie.ViewCount, movie.LogoImagePath, movie.HorizontalImagePath,
			movie.VerticalImage, movie.CircleImage, movie.Degree, movie.Directors, movie.Actors,
			movie.Feature, movie.Author,
		).Scan(&created.ID, &created.UploadedDate)
		if err != nil {
			return err
		}
		if len(movie.Genres) == 0 {
			return nil
		}
		_, err = tx.Exec(
			ctx,
			`INSERT INTO movies_genres (movie_id, genre_id) SELECT $1, unnest($2::int[])`,
			created.ID,
			movie.Genres,
		)
		return err
	})
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) {
			switch pgxErr.Code {
			case postgres.ErrConflictCode:
				return nil, storage.ErrConflict
			case postgres.ErrForeignKeyCode:
				return nil, storage.ErrInvalidReference
			}
		}
		return nil, err
	}
	created.Genres = slices.Clone(movie.Genres)
	slices.Sort(created.Genres)
	return &created, nil
}

type countedMovie struct {
	Count int
	models.Movie
}

func collectCounted(rows pgx.Rows) ([]models.Movie, int, error) {
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[countedMovie])
	if err != nil {
		return nil, 0, err
	}
	if len(outputRows) == 0 {
		return []models.Movie{}, 0, nil
	}
	movies := make([]models.Movie, 0, len(outputRows))
	for _, row := range outputRows {
		movies = append(movies, row.Movie)
	}
	return movies, outputRows[0].Count, nil
}

func (m *MovieModel) List(ctx context.Context, filters filters.Filters) ([]models.Movie, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER(), `+movieColumns+` FROM movies m
	ORDER BY m.%s %s, m.id ASC
	LIMIT $1 OFFSET $2
	`, filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(ctx, query, filters.Limit(), filters.Offset())
	return collectCounted(rows)
}

func (m *MovieModel) ListIDs(ctx context.Context) ([]int, error) {
	rows, _ := m.DB.Query(ctx, `SELECT id FROM movies ORDER BY id`)
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// ListByGenreName returns movies having at least one genre whose name contains kind, ignoring case.
func (m *MovieModel) ListByGenreName(ctx context.Context, kind string, filters filters.Filters) ([]models.Movie, int, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT count(*) OVER(), `+movieColumns+` FROM movies m
		WHERE EXISTS (
			SELECT 1 FROM movies_genres mg JOIN genres g ON g.id = mg.genre_id
			WHERE mg.movie_id = m.id AND g.name ILIKE $1
		)
		ORDER BY m.id ASC
		LIMIT $2 OFFSET $3`,
		postgres.ContainsPattern(kind),
		filters.Limit(),
		filters.Offset(),
	)
	return collectCounted(rows)
}

func (m *MovieModel) ListSimilar(ctx context.Context, genreID int, excludeID int, limit int) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT `+movieColumns+` FROM movies m
		JOIN movies_genres sg ON sg.movie_id = m.id
		WHERE sg.genre_id = $1 AND m.id <> $2
		ORDER BY m.id ASC
		LIMIT $3`,
		genreID,
		excludeID,
		limit,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
}

func (m *MovieModel) ListGroupedByGenre(ctx context.Context) ([]models.GenreMovies, error) {
	rows, _ := m.DB.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	type row struct {
		GenreID int `db:"genre_id"`
		models.Movie
	}
	rows, _ = m.DB.Query(
		ctx,
		`SELECT gm.genre_id, `+movieColumns+` FROM movies_genres gm
		JOIN movies m ON m.id = gm.movie_id
		ORDER BY gm.genre_id, m.id`,
	)
	tagged, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, err
	}
	byGenre := make(map[int][]models.Movie, len(genres))
	for _, r := range tagged {
		byGenre[r.GenreID] = append(byGenre[r.GenreID], r.Movie)
	}
	grouped := make([]models.GenreMovies, 0, len(genres))
	for _, g := range genres {
		movies := byGenre[g.ID]
		if movies == nil {
			movies = []models.Movie{}
		}
		grouped = append(grouped, models.GenreMovies{Genre: g, Movies: movies})
	}
	return grouped, nil
}
