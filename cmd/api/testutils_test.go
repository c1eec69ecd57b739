package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"moviecatalog/proj/internal/api/tasks"
	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/services"
	"moviecatalog/proj/internal/storage/memory"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type firstRand struct{}

func (firstRand) IntN(n int) int { return 0 }

func newTestConfig() *config.Config {
	return &config.Config{
		AppSecret:  testSecret,
		Pagination: config.Pagination{PageSize: 20, MaxPageSize: 100},
		Limiter:    config.Limiter{Rps: 2, Burst: 2},
		Server:     config.Server{ShutdownTimeout: time.Second},
	}
}

func NewTestApplication(t *testing.T, cfg *config.Config, storage *memory.Storage) *Application {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig()
	}
	if storage == nil {
		storage = memory.New()
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bgTasks := tasks.New(log, 1, 10)
	bgTasks.Run()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		bgTasks.Shutdown(ctx)
	})
	svc := services.New(
		log,
		cfg,
		services.Storages{Movies: storage, Viewers: storage, Genres: storage.Genres()},
		services.Deps{TaskExecutor: bgTasks, Random: firstRand{}},
	)
	return NewApplication(cfg, log, svc, bgTasks)
}

func newTestCatalog() *memory.Storage {
	s := memory.New()
	s.AddGenre(models.Genre{ID: 1, Name: "액션"})
	s.AddGenre(models.Genre{ID: 2, Name: "코미디"})
	s.AddGenre(models.Genre{ID: 3, Name: "다큐"})
	s.AddMovie(models.Movie{ID: 1, Name: "범죄도시", RunningTime: "1시간 46분", ProductionDate: "2017", Genres: []int{1}})
	s.AddMovie(models.Movie{ID: 2, Name: "극한직업", RunningTime: "1시간 51분", ProductionDate: "2019", Genres: []int{1, 2}})
	s.AddMovie(models.Movie{ID: 3, Name: "올드보이", RunningTime: "2시간 0분", ProductionDate: "2003", Genres: []int{1}})
	s.AddSubUser(5)
	s.AddMark(models.LikeDislikeMark{SubUserID: 5, MovieID: 2, Marked: true, LikeOrDislike: fields.Like})
	s.AddMark(models.LikeDislikeMark{SubUserID: 5, MovieID: 3, Marked: false})
	s.AddProgress(models.PlaybackProgress{SubUserID: 5, MovieID: 3, ToBeContinue: "30:10"})
	return s
}

type testResponse struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string, headers ...string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var resp testResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func decodeData(t *testing.T, resp testResponse, key string, dst any) {
	t.Helper()
	raw, ok := resp.Data[key]
	require.True(t, ok, "missing data key %q", key)
	require.NoError(t, json.Unmarshal(raw, dst))
}
