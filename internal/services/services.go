package services

import (
	"log/slog"
	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/services/genres"
	"moviecatalog/proj/internal/services/movies"
	"moviecatalog/proj/internal/storage/postgres"
	pgmodels "moviecatalog/proj/internal/storage/postgres/models"
)

type Services struct {
	Movies *movies.MovieService
	Genres *genres.GenreService
}

type Storages struct {
	Movies  movies.MoviesStorage
	Viewers movies.ViewerStorage
	Genres  genres.GenresStorage
}

func PostgresStorages(db *postgres.PostgresDB) Storages {
	models := pgmodels.New(db)
	return Storages{Movies: models.Movie, Viewers: models.Viewer, Genres: models.Genre}
}

// Deps are the optional collaborators of the services, nil values disable the matching feature.
type Deps struct {
	Cache        genres.Cache
	Publisher    movies.EventPublisher
	TaskExecutor movies.TaskExecutor
	Random       movies.Random
}

func New(log *slog.Logger, cfg *config.Config, storages Storages, deps Deps) *Services {
	random := deps.Random
	if random == nil {
		random = movies.DefaultRandom{}
	}
	return &Services{
		Movies: movies.New(
			log,
			storages.Movies,
			storages.Viewers,
			deps.Publisher,
			deps.TaskExecutor,
			random,
		),
		Genres: genres.New(log, storages.Genres, deps.Cache, cfg.Cache.TTL),
	}
}
