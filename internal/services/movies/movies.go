package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/metrics"
	"moviecatalog/proj/internal/storage"
	"slices"
	"time"
)

const (
	MinMatchRate     = 70
	MaxMatchRate     = 97
	SimilarMoviesMax = 6

	publishTimeout = 5 * time.Second
)

type MoviesStorage interface {
	Get(ctx context.Context, id int) (*models.Movie, error)
	GetMany(ctx context.Context, ids []int) ([]models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	List(ctx context.Context, filters filters.Filters) ([]models.Movie, int, error)
	ListIDs(ctx context.Context) ([]int, error)
	ListByGenreName(ctx context.Context, kind string, filters filters.Filters) ([]models.Movie, int, error)
	ListSimilar(ctx context.Context, genreID int, excludeID int, limit int) ([]models.Movie, error)
	ListGroupedByGenre(ctx context.Context) ([]models.GenreMovies, error)
}

type ViewerStorage interface {
	SubUserExists(ctx context.Context, subUserID int) (bool, error)
	GetMark(ctx context.Context, subUserID, movieID int) (*models.LikeDislikeMark, error)
	ListMarked(ctx context.Context, subUserID int) ([]models.LikeDislikeMark, error)
	MarkedMovies(ctx context.Context, subUserID int, movieIDs []int) (map[int]bool, error)
	GetProgress(ctx context.Context, subUserID, movieID int) (*models.PlaybackProgress, error)
}

type EventPublisher interface {
	PublishMovieCreated(ctx context.Context, event models.MovieCreatedEvent) error
}

type TaskExecutor interface {
	Add(task func()) error
}

// Random is satisfied by *rand.Rand from math/rand/v2.
type Random interface {
	IntN(n int) int
}

// DefaultRandom draws from the top level math/rand/v2 source, which is safe for concurrent use.
type DefaultRandom struct{}

func (DefaultRandom) IntN(n int) int {
	return rand.IntN(n)
}

type MovieService struct {
	log          *slog.Logger
	storage      MoviesStorage
	viewers      ViewerStorage
	publisher    EventPublisher
	taskExecutor TaskExecutor
	rand         Random
}

// New builds a MovieService. publisher may be nil, then no events are sent.
func New(
	log *slog.Logger,
	storage MoviesStorage,
	viewers ViewerStorage,
	publisher EventPublisher,
	taskExecutor TaskExecutor,
	random Random,
) *MovieService {
	return &MovieService{
		log:          log,
		storage:      storage,
		viewers:      viewers,
		publisher:    publisher,
		taskExecutor: taskExecutor,
		rand:         random,
	}
}

func (s *MovieService) Get(ctx context.Context, id int) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "name", movie.Name, "genres", movie.Genres)
	toCreate := *movie
	toCreate.Genres = slices.Compact(slices.Sorted(slices.Values(movie.Genres)))
	created, err := s.storage.Insert(ctx, &toCreate)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidReference):
			log.Info("unknown genre")
			return nil, ErrGenreNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	s.notifyCreated(log, created)
	return created, nil
}

func (s *MovieService) notifyCreated(log *slog.Logger, movie *models.Movie) {
	if s.publisher == nil {
		return
	}
	event := models.MovieCreatedEvent{
		MovieID:   movie.ID,
		Name:      movie.Name,
		Genres:    movie.Genres,
		CreatedAt: movie.UploadedDate,
	}
	err := s.taskExecutor.Add(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		err := s.publisher.PublishMovieCreated(ctx, event)
		metrics.RecordEventPublished("movie.created", err)
		if err != nil {
			log.Error("Error publishing movie created event", "errMsg", err.Error())
		}
	})
	if err != nil {
		log.Warn("movie created event dropped", "reason", err.Error())
	}
}

func (s *MovieService) List(ctx context.Context, f filters.Filters) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op, "page", f.Page, "sort", f.Sort)
	movies, total, err := s.storage.List(ctx, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return movies, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// ListByGenre returns distinct movies with a genre whose name contains kind, ignoring case.
func (s *MovieService) ListByGenre(ctx context.Context, kind string, f filters.Filters) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.ListByGenre"
	log := s.log.With("op", op, "kind", kind, "page", f.Page)
	movies, total, err := s.storage.ListByGenreName(ctx, kind, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return movies, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

// Home picks a featured movie uniformly at random and lists the movies of every genre.
func (s *MovieService) Home(ctx context.Context) (*models.Home, error) {
	const op = "movies.MovieService.Home"
	log := s.log.With("op", op)
	ids, err := s.storage.ListIDs(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(ids) == 0 {
		log.Info("catalog is empty")
		return nil, ErrMovieNotFound
	}
	featured, err := s.Get(ctx, ids[s.rand.IntN(len(ids))])
	if err != nil {
		return nil, err
	}
	byGenre, err := s.storage.ListGroupedByGenre(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return &models.Home{Featured: *featured, ByGenre: byGenre}, nil
}

func (s *MovieService) ListMarked(ctx context.Context, subUserID int) ([]models.LikeDislikeMark, error) {
	const op = "movies.MovieService.ListMarked"
	log := s.log.With("op", op, "sub_user_id", subUserID)
	exists, err := s.viewers.SubUserExists(ctx, subUserID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if !exists {
		log.Info("sub user not found")
		return nil, ErrSubUserNotFound
	}
	marks, err := s.viewers.ListMarked(ctx, subUserID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(marks) == 0 {
		return []models.LikeDislikeMark{}, nil
	}
	ids := make([]int, 0, len(marks))
	for _, mark := range marks {
		ids = append(ids, mark.MovieID)
	}
	movies, err := s.storage.GetMany(ctx, ids)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	byID := make(map[int]*models.Movie, len(movies))
	for i := range movies {
		byID[movies[i].ID] = &movies[i]
	}
	for i := range marks {
		marks[i].Movie = byID[marks[i].MovieID]
	}
	return marks, nil
}

// Detail returns the movie augmented with the state of the viewer identified by subUserID.
func (s *MovieService) Detail(ctx context.Context, movieID, subUserID int) (*models.MovieDetail, error) {
	const op = "movies.MovieService.Detail"
	log := s.log.With("op", op, "movie_id", movieID, "sub_user_id", subUserID)
	movie, err := s.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	detail := &models.MovieDetail{Movie: *movie, Like: fields.LikeNone}

	mark, err := s.viewers.GetMark(ctx, subUserID, movieID)
	switch {
	case err == nil:
		detail.Marked = mark.Marked
		detail.Like = mark.LikeOrDislike
	case !errors.Is(err, storage.ErrNotFound):
		log.Error(err.Error())
		return nil, err
	}

	detail.MatchRate = MinMatchRate + s.rand.IntN(MaxMatchRate-MinMatchRate+1)

	detail.TotalMinute, err = movie.RunningTime.Minutes()
	if err != nil {
		log.Error("Error parsing running time", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	progress, err := s.viewers.GetProgress(ctx, subUserID, movieID)
	switch {
	case err == nil:
		spent, err := progress.ToBeContinue.SpentMinutes()
		if err != nil {
			log.Error("Error parsing playback progress", "errMsg", err.Error())
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		remaining := detail.TotalMinute - spent
		detail.ToBeContinue = &progress.ToBeContinue
		detail.RemainingTime = &remaining
	case !errors.Is(err, storage.ErrNotFound):
		log.Error(err.Error())
		return nil, err
	}

	detail.CanIStore, err = fields.CanStore(movie.ProductionDate)
	if err != nil {
		log.Error("Error parsing production date", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail.SimilarMovies, err = s.similar(ctx, movie, subUserID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return detail, nil
}

// similar lists movies sharing the lowest id genre of movie, flagged with the viewer's marks.
func (s *MovieService) similar(ctx context.Context, movie *models.Movie, subUserID int) ([]models.SimilarMovie, error) {
	if len(movie.Genres) == 0 {
		return []models.SimilarMovie{}, nil
	}
	genreID := slices.Min(movie.Genres)
	movies, err := s.storage.ListSimilar(ctx, genreID, movie.ID, SimilarMoviesMax)
	if err != nil {
		return nil, err
	}
	if len(movies) > SimilarMoviesMax {
		movies = movies[:SimilarMoviesMax]
	}
	similar := make([]models.SimilarMovie, 0, len(movies))
	if len(movies) == 0 {
		return similar, nil
	}
	ids := make([]int, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	marked, err := s.viewers.MarkedMovies(ctx, subUserID, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range movies {
		if m.ID == movie.ID {
			continue
		}
		similar = append(similar, models.SimilarMovie{Movie: m, Marked: marked[m.ID]})
	}
	return similar, nil
}
