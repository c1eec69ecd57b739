package genres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/metrics"
	"moviecatalog/proj/internal/storage"
	"time"
)

const cacheKey = "genres"

type GenresStorage interface {
	List(ctx context.Context) ([]models.Genre, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type GenreService struct {
	log      *slog.Logger
	storage  GenresStorage
	cache    Cache
	cacheTTL time.Duration
}

// New builds a GenreService. Genres are static reference data, so the whole list
// is kept in cache for cacheTTL when cache isn't nil.
func New(log *slog.Logger, storage GenresStorage, cache Cache, cacheTTL time.Duration) *GenreService {
	return &GenreService{
		log:      log,
		storage:  storage,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (s *GenreService) List(ctx context.Context, f filters.Filters) ([]models.Genre, filters.Metadata, error) {
	const op = "genres.GenreService.List"
	log := s.log.With("op", op, "page", f.Page)
	all, err := s.all(ctx, log)
	if err != nil {
		return nil, filters.Metadata{}, err
	}
	return filters.Paginate(all, f), filters.CalculateMetadata(len(all), f.Page, f.PageSize), nil
}

func (s *GenreService) all(ctx context.Context, log *slog.Logger) ([]models.Genre, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var genres []models.Genre
			if err := json.Unmarshal(data, &genres); err == nil {
				metrics.RecordCacheLookup(cacheKey, true)
				return genres, nil
			}
			log.Warn("corrupted genres cache entry")
		case !errors.Is(err, storage.ErrNotFound):
			log.Warn("genres cache unavailable", "errMsg", err.Error())
		}
		metrics.RecordCacheLookup(cacheKey, false)
	}
	genres, err := s.storage.List(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	if s.cache != nil {
		data, err := json.Marshal(genres)
		if err == nil {
			err = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
		if err != nil {
			log.Warn("Error caching genres", "errMsg", err.Error())
		}
	}
	return genres, nil
}
