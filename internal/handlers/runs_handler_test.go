package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
	"alfredoptarigan/declic-pro/internal/repositories"
	"alfredoptarigan/declic-pro/internal/services"
)

type fakeRunRepo struct {
	runs      []models.AnalysisRun
	lastLimit int
}

func (f *fakeRunRepo) Create(ctx context.Context, run *models.AnalysisRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRunRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, repositories.ErrRunNotFound
}

func (f *fakeRunRepo) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	f.lastLimit = limit
	return f.runs, nil
}

func (f *fakeRunRepo) CountByStatusSince(ctx context.Context, since time.Time) (map[models.RunStatus]int64, error) {
	counts := map[models.RunStatus]int64{}
	for _, run := range f.runs {
		counts[run.Status]++
	}
	return counts, nil
}

func newRunsApp(t *testing.T, repo *fakeRunRepo) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.app = NewApp(Dependencies{
		Analyzer:    env.analyzer,
		Generator:   &fakeGenerator{configured: true},
		Mailer:      env.mailer,
		Exporter:    services.NewPDFExporter(),
		Sealer:      env.sealer,
		Runs:        repo,
		Log:         logger.NewNoOpLogger(),
		MaxFileSize: 1 << 20,
	})
	return env
}

func TestRunsEndpoints(t *testing.T) {
	known := uuid.New()
	repo := &fakeRunRepo{runs: []models.AnalysisRun{
		{ID: known, Status: models.RunSucceeded, FileFormat: "pdf", Attempts: 1},
		{ID: uuid.New(), Status: models.RunFailed, FailureKind: "malformed_response", Attempts: 1},
	}}
	env := newRunsApp(t, repo)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"list", "/api/v1/runs", http.StatusOK},
		{"list with limit", "/api/v1/runs?limit=5", http.StatusOK},
		{"bad limit", "/api/v1/runs?limit=abc", http.StatusBadRequest},
		{"stats", "/api/v1/runs/stats", http.StatusOK},
		{"known run", "/api/v1/runs/" + known.String(), http.StatusOK},
		{"unknown run", "/api/v1/runs/" + uuid.New().String(), http.StatusNotFound},
		{"bad id", "/api/v1/runs/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRunsLimitIsCapped(t *testing.T) {
	repo := &fakeRunRepo{}
	env := newRunsApp(t, repo)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=1000", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, maxRunsLimit, repo.lastLimit)
}

func TestRunStatsCounts(t *testing.T) {
	repo := &fakeRunRepo{runs: []models.AnalysisRun{
		{ID: uuid.New(), Status: models.RunSucceeded},
		{ID: uuid.New(), Status: models.RunSucceeded},
		{ID: uuid.New(), Status: models.RunFailed},
	}}
	env := newRunsApp(t, repo)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/runs/stats", nil), -1)
	require.NoError(t, err)

	var body struct {
		Counts map[string]int64 `json:"counts"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(2), body.Counts["succeeded"])
	assert.Equal(t, int64(1), body.Counts["failed"])
}
