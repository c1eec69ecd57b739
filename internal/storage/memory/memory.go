// Package memory implements the catalog storage interfaces in process.
// It mirrors the ordering and matching rules of the postgres models and backs service and handler tests.
package memory

import (
	"context"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"
	"slices"
	"strings"
	"sync"
	"time"
)

type Storage struct {
	mu       sync.RWMutex
	nextID   int
	movies   map[int]models.Movie
	genres   []models.Genre
	subUsers map[int]bool
	marks    []models.LikeDislikeMark
	progress []models.PlaybackProgress
}

func New() *Storage {
	return &Storage{
		nextID:   1,
		movies:   make(map[int]models.Movie),
		subUsers: make(map[int]bool),
	}
}

// AddMovie stores movie as is, keeping its id when set.
func (s *Storage) AddMovie(movie models.Movie) models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if movie.ID == 0 {
		movie.ID = s.nextID
	}
	s.nextID = max(s.nextID, movie.ID+1)
	movie.Genres = slices.Clone(movie.Genres)
	slices.Sort(movie.Genres)
	s.movies[movie.ID] = movie
	return movie
}

func (s *Storage) AddGenre(genre models.Genre) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genres = append(s.genres, genre)
	slices.SortFunc(s.genres, func(a, b models.Genre) int { return a.ID - b.ID })
}

func (s *Storage) AddSubUser(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subUsers[id] = true
}

func (s *Storage) AddMark(mark models.LikeDislikeMark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mark.ID == 0 {
		mark.ID = len(s.marks) + 1
	}
	s.marks = append(s.marks, mark)
	slices.SortFunc(s.marks, func(a, b models.LikeDislikeMark) int { return a.ID - b.ID })
}

func (s *Storage) AddProgress(progress models.PlaybackProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if progress.ID == 0 {
		progress.ID = len(s.progress) + 1
	}
	s.progress = append(s.progress, progress)
	slices.SortFunc(s.progress, func(a, b models.PlaybackProgress) int { return a.ID - b.ID })
}

func (s *Storage) Get(ctx context.Context, id int) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movie, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &movie, nil
}

func (s *Storage) GetMany(ctx context.Context, ids []int) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movies := []models.Movie{}
	for _, m := range s.sortedMovies() {
		if slices.Contains(ids, m.ID) {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

func (s *Storage) Insert(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	s.mu.RLock()
	for _, genreID := range movie.Genres {
		if !slices.ContainsFunc(s.genres, func(g models.Genre) bool { return g.ID == genreID }) {
			s.mu.RUnlock()
			return nil, storage.ErrInvalidReference
		}
	}
	s.mu.RUnlock()
	created := *movie
	created.ID = 0
	created.UploadedDate = time.Now().UTC()
	created = s.AddMovie(created)
	return &created, nil
}

func (s *Storage) sortedMovies() []models.Movie {
	movies := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, m)
	}
	slices.SortFunc(movies, func(a, b models.Movie) int { return a.ID - b.ID })
	return movies
}

func (s *Storage) List(ctx context.Context, f filters.Filters) ([]models.Movie, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movies := s.sortedMovies()
	column, desc := f.SortColumn(), f.SortDirection() == filters.DescSort
	slices.SortStableFunc(movies, func(a, b models.Movie) int {
		c := compareBy(column, a, b)
		if desc {
			c = -c
		}
		return c
	})
	return filters.Paginate(movies, f), len(movies), nil
}

func compareBy(column string, a, b models.Movie) int {
	switch column {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "production_date":
		return strings.Compare(a.ProductionDate, b.ProductionDate)
	case "view_count":
		return a.ViewCount - b.ViewCount
	case "uploaded_date":
		return a.UploadedDate.Compare(b.UploadedDate)
	default:
		return a.ID - b.ID
	}
}

func (s *Storage) ListIDs(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.movies))
	for _, m := range s.sortedMovies() {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (s *Storage) genreName(id int) (string, bool) {
	for _, g := range s.genres {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}

func (s *Storage) ListByGenreName(ctx context.Context, kind string, f filters.Filters) ([]models.Movie, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kind = strings.ToLower(kind)
	var matched []models.Movie
	for _, m := range s.sortedMovies() {
		for _, genreID := range m.Genres {
			name, ok := s.genreName(genreID)
			if ok && strings.Contains(strings.ToLower(name), kind) {
				matched = append(matched, m)
				break
			}
		}
	}
	return filters.Paginate(matched, f), len(matched), nil
}

func (s *Storage) ListSimilar(ctx context.Context, genreID int, excludeID int, limit int) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	similar := []models.Movie{}
	for _, m := range s.sortedMovies() {
		if len(similar) == limit {
			break
		}
		if m.ID != excludeID && slices.Contains(m.Genres, genreID) {
			similar = append(similar, m)
		}
	}
	return similar, nil
}

func (s *Storage) ListGroupedByGenre(ctx context.Context) ([]models.GenreMovies, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movies := s.sortedMovies()
	grouped := make([]models.GenreMovies, 0, len(s.genres))
	for _, g := range s.genres {
		tagged := []models.Movie{}
		for _, m := range movies {
			if slices.Contains(m.Genres, g.ID) {
				tagged = append(tagged, m)
			}
		}
		grouped = append(grouped, models.GenreMovies{Genre: g, Movies: tagged})
	}
	return grouped, nil
}

// GenreStore exposes the genres of a Storage under the genres storage contract.
type GenreStore struct {
	s *Storage
}

func (s *Storage) Genres() *GenreStore {
	return &GenreStore{s: s}
}

func (g *GenreStore) List(ctx context.Context) ([]models.Genre, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	return slices.Clone(g.s.genres), nil
}

func (s *Storage) SubUserExists(ctx context.Context, subUserID int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subUsers[subUserID], nil
}

func (s *Storage) GetMark(ctx context.Context, subUserID, movieID int) (*models.LikeDislikeMark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mark := range s.marks {
		if mark.SubUserID == subUserID && mark.MovieID == movieID {
			return &mark, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Storage) ListMarked(ctx context.Context, subUserID int) ([]models.LikeDislikeMark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marked := []models.LikeDislikeMark{}
	for _, mark := range s.marks {
		if mark.SubUserID == subUserID && mark.Marked {
			marked = append(marked, mark)
		}
	}
	return marked, nil
}

func (s *Storage) MarkedMovies(ctx context.Context, subUserID int, movieIDs []int) (map[int]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marked := make(map[int]bool, len(movieIDs))
	for _, mark := range s.marks {
		if mark.SubUserID != subUserID || !slices.Contains(movieIDs, mark.MovieID) {
			continue
		}
		if _, seen := marked[mark.MovieID]; !seen {
			marked[mark.MovieID] = mark.Marked
		}
	}
	return marked, nil
}

func (s *Storage) GetProgress(ctx context.Context, subUserID, movieID int) (*models.PlaybackProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.progress {
		if p.SubUserID == subUserID && p.MovieID == movieID {
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}
