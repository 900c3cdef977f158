package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/model"
	"github.com/flightops/skymarshal/pkg/queue"
	"github.com/flightops/skymarshal/pkg/store"
	"github.com/flightops/skymarshal/test/util"
)

// newTestStoreClient spins up a disposable Postgres and runs the real
// migration path through store.NewClient.
func newTestStoreClient(t *testing.T) *store.Client {
	ctx := context.Background()
	inst := util.StartPostgres(t)

	sc, err := store.NewClient(ctx, store.Config{
		Host: inst.Host, Port: inst.Port, User: inst.User, Password: inst.Password,
		Database: inst.Database, SSLMode: "disable",
		MaxOpenConns: 10, MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Close() })
	return sc
}

type noopExecutor struct{}

func (noopExecutor) Execute(ctx context.Context, job queue.Job) queue.ExecutionResult {
	return queue.ExecutionResult{Status: config.RequestStatusComplete}
}

func newTestServer(t *testing.T) (*Server, *store.Client) {
	sc := newTestStoreClient(t)
	pool := queue.NewWorkerPool(1, 4, 0, noopExecutor{})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	pool.Start(ctx)
	return NewServer(sc, pool, time.Hour), sc
}

func TestInvokeHandlerAcceptsAndPersistsRequest(t *testing.T) {
	srv, sc := newTestServer(t)

	body, _ := json.Marshal(InvokeRequest{Prompt: "Flight EY123 delayed due to maintenance"})
	req := httptest.NewRequest(http.MethodPost, "/invoke", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.NotEmpty(t, resp.RequestID)

	record, err := sc.GetRequest(context.Background(), resp.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "Flight EY123 delayed due to maintenance", record.Prompt)
}

func TestInvokeHandlerRejectsEmptyPrompt(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(InvokeRequest{Prompt: ""})
	req := httptest.NewRequest(http.MethodPost, "/invoke", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusHandlerReturnsNotFoundForUnknownRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/status/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusHandlerReflectsPersistedStatus(t *testing.T) {
	srv, sc := newTestServer(t)

	now := time.Now().UTC()
	require.NoError(t, sc.CreateRequest(context.Background(), &model.RequestRecord{
		RequestID: "req-known",
		Status:    config.RequestStatusProcessing,
		Prompt:    "Flight EY123 delayed",
		CreatedAt: now,
		UpdatedAt: now,
		TTL:       now.Add(time.Hour),
	}))

	req := httptest.NewRequest(http.MethodGet, "/status/req-known", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, config.RequestStatusProcessing, resp.Status)
}
