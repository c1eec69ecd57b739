package movies

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage/memory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewerID = 7

type fixedRand int

func (r fixedRand) IntN(n int) int {
	return min(int(r), n-1)
}

type syncExecutor struct{}

func (syncExecutor) Add(task func()) error {
	task()
	return nil
}

type fakePublisher struct {
	events []models.MovieCreatedEvent
	err    error
}

func (p *fakePublisher) PublishMovieCreated(ctx context.Context, event models.MovieCreatedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newCatalog() *memory.Storage {
	s := memory.New()
	s.AddGenre(models.Genre{ID: 1, Name: "액션"})
	s.AddGenre(models.Genre{ID: 2, Name: "SF 액션"})
	s.AddGenre(models.Genre{ID: 3, Name: "다큐"})
	s.AddGenre(models.Genre{ID: 4, Name: "Comedy"})
	s.AddMovie(models.Movie{ID: 1, Name: "movie 1", RunningTime: "2시간 15분", ProductionDate: "2014", Genres: []int{2, 1}})
	for id := 2; id <= 8; id++ {
		s.AddMovie(models.Movie{ID: id, Name: "movie", RunningTime: "1시간 40분", ProductionDate: "2020", Genres: []int{1}})
	}
	s.AddMovie(models.Movie{ID: 9, Name: "comedy", RunningTime: "1시간 30분", ProductionDate: "2015", Genres: []int{4}})
	s.AddMovie(models.Movie{ID: 10, Name: "broken", RunningTime: "135분", ProductionDate: "2010", Genres: []int{4}})
	s.AddMovie(models.Movie{ID: 11, Name: "no genre", RunningTime: "0시간 50분", ProductionDate: "2001"})

	s.AddSubUser(viewerID)
	s.AddSubUser(8)
	s.AddMark(models.LikeDislikeMark{ID: 1, SubUserID: viewerID, MovieID: 1, Marked: true, LikeOrDislike: fields.Like})
	s.AddMark(models.LikeDislikeMark{ID: 2, SubUserID: viewerID, MovieID: 2, Marked: true})
	s.AddMark(models.LikeDislikeMark{ID: 3, SubUserID: viewerID, MovieID: 3, Marked: false, LikeOrDislike: fields.Dislike})
	s.AddMark(models.LikeDislikeMark{ID: 10, SubUserID: viewerID, MovieID: 1, Marked: false, LikeOrDislike: fields.Dislike})
	s.AddProgress(models.PlaybackProgress{SubUserID: viewerID, MovieID: 1, ToBeContinue: "1:05"})
	return s
}

func newService(s *memory.Storage, r Random, publisher EventPublisher) *MovieService {
	return New(slog.Default(), s, s, publisher, syncExecutor{}, r)
}

func TestDetail(t *testing.T) {
	service := newService(newCatalog(), fixedRand(5), nil)
	detail, err := service.Detail(context.Background(), 1, viewerID)
	require.NoError(t, err)

	assert.Equal(t, 1, detail.ID)
	assert.True(t, detail.Marked)
	assert.Equal(t, fields.Like, detail.Like)
	assert.Equal(t, MinMatchRate+5, detail.MatchRate)
	assert.Equal(t, 135, detail.TotalMinute)
	require.NotNil(t, detail.ToBeContinue)
	assert.Equal(t, fields.Progress("1:05"), *detail.ToBeContinue)
	require.NotNil(t, detail.RemainingTime)
	assert.Equal(t, 135-65, *detail.RemainingTime)
	assert.True(t, detail.CanIStore)

	require.Len(t, detail.SimilarMovies, SimilarMoviesMax)
	ids := make([]int, 0, len(detail.SimilarMovies))
	for _, m := range detail.SimilarMovies {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7}, ids)
	assert.True(t, detail.SimilarMovies[0].Marked)
	assert.False(t, detail.SimilarMovies[1].Marked)
	assert.False(t, detail.SimilarMovies[2].Marked)
}

func TestDetailWithoutViewerRecords(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	detail, err := service.Detail(context.Background(), 9, 8)
	require.NoError(t, err)
	assert.False(t, detail.Marked)
	assert.Equal(t, fields.LikeNone, detail.Like)
	assert.Nil(t, detail.ToBeContinue)
	assert.Nil(t, detail.RemainingTime)
	assert.False(t, detail.CanIStore)
	assert.Equal(t, 90, detail.TotalMinute)
	assert.NotNil(t, detail.SimilarMovies)
	for _, m := range detail.SimilarMovies {
		assert.NotEqual(t, 9, m.ID)
		assert.False(t, m.Marked)
	}
}

func TestDetailMovieWithoutGenre(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	detail, err := service.Detail(context.Background(), 11, viewerID)
	require.NoError(t, err)
	assert.Empty(t, detail.SimilarMovies)
	assert.NotNil(t, detail.SimilarMovies)
}

func TestDetailErrors(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	_, err := service.Detail(context.Background(), 404, viewerID)
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = service.Detail(context.Background(), 10, viewerID)
	assert.ErrorIs(t, err, fields.ErrInvalidRunningTime)
}

func TestDetailMatchRateBounds(t *testing.T) {
	service := newService(newCatalog(), rand.New(rand.NewPCG(1, 2)), nil)
	for i := 0; i < 300; i++ {
		detail, err := service.Detail(context.Background(), 2, viewerID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, detail.MatchRate, MinMatchRate)
		assert.LessOrEqual(t, detail.MatchRate, MaxMatchRate)
	}
}

func TestHome(t *testing.T) {
	service := newService(newCatalog(), fixedRand(2), nil)
	home, err := service.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, home.Featured.ID)
	require.Len(t, home.ByGenre, 4)
	assert.Len(t, home.ByGenre[0].Movies, 8)
	assert.Len(t, home.ByGenre[1].Movies, 1)
	assert.Equal(t, "다큐", home.ByGenre[2].Genre.Name)
	assert.NotNil(t, home.ByGenre[2].Movies)
	assert.Empty(t, home.ByGenre[2].Movies)
}

func TestHomeEmptyCatalog(t *testing.T) {
	service := newService(memory.New(), fixedRand(0), nil)
	_, err := service.Home(context.Background())
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestListByGenre(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	movies, meta, err := service.ListByGenre(context.Background(), "액션", filters.Filters{Page: 1, PageSize: 20})
	require.NoError(t, err)
	// movie 1 has two matching genres but is listed once
	assert.Len(t, movies, 8)
	assert.Equal(t, 8, meta.TotalRecords)

	movies, _, err = service.ListByGenre(context.Background(), "comED", filters.Filters{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	movies, meta, err = service.ListByGenre(context.Background(), "호러", filters.Filters{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, movies)
	assert.Equal(t, filters.Metadata{}, meta)
}

func TestList(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	movies, meta, err := service.List(context.Background(), filters.Filters{
		Page: 2, PageSize: 4, Sort: "-id", SortSafelist: filters.MovieSortSafelist,
	})
	require.NoError(t, err)
	require.Len(t, movies, 4)
	assert.Equal(t, 7, movies[0].ID)
	assert.Equal(t, 11, meta.TotalRecords)
	assert.Equal(t, 3, meta.LastPage)
}

func TestListMarked(t *testing.T) {
	service := newService(newCatalog(), fixedRand(0), nil)
	marks, err := service.ListMarked(context.Background(), viewerID)
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, 1, marks[0].MovieID)
	assert.Equal(t, 2, marks[1].MovieID)
	for _, mark := range marks {
		assert.True(t, mark.Marked)
		require.NotNil(t, mark.Movie)
		assert.Equal(t, mark.MovieID, mark.Movie.ID)
	}

	marks, err = service.ListMarked(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, marks)

	_, err = service.ListMarked(context.Background(), 999)
	assert.ErrorIs(t, err, ErrSubUserNotFound)
}

func TestCreate(t *testing.T) {
	publisher := &fakePublisher{}
	s := newCatalog()
	service := newService(s, fixedRand(0), publisher)
	created, err := service.Create(context.Background(), &models.Movie{
		Name:           "new",
		RunningTime:    "1시간 0분",
		ProductionDate: "2024",
		Genres:         []int{3, 1, 3},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []int{1, 3}, created.Genres)
	assert.False(t, created.UploadedDate.IsZero())

	stored, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Name)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, created.ID, publisher.events[0].MovieID)
}

func TestCreatePublishFailureIsNotFatal(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	service := newService(newCatalog(), fixedRand(0), publisher)
	_, err := service.Create(context.Background(), &models.Movie{Name: "new", RunningTime: "1시간 0분", ProductionDate: "2024"})
	assert.NoError(t, err)
}

func TestCreateUnknownGenre(t *testing.T) {
	publisher := &fakePublisher{}
	service := newService(newCatalog(), fixedRand(0), publisher)
	_, err := service.Create(context.Background(), &models.Movie{Name: "new", Genres: []int{42}})
	assert.ErrorIs(t, err, ErrGenreNotFound)
	assert.Empty(t, publisher.events)
}
