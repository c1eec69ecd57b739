package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownDrainsTasks(t *testing.T) {
	app := NewTestApplication(t, nil, nil)
	done := make(chan struct{})
	require.NoError(t, app.bgTasks.Add(func() { close(done) }))

	require.NoError(t, app.shutdown(&http.Server{}))
	select {
	case <-done:
	default:
		t.Fatal("queued task wasn't executed before shutdown returned")
	}
	assert.True(t, app.bgTasks.IsEmpty())
}

func TestServerErrorDebug(t *testing.T) {
	cfg := newTestConfig()
	cfg.Debug = true
	app := NewTestApplication(t, cfg, nil)
	rec := httptest.NewRecorder()
	app.Http.ServerError(rec, httptest.NewRequest(http.MethodGet, "/", nil), assert.AnError, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), `"stack"`)
}
