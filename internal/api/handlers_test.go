package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ArsenAbrahamyann/trainerService/internal/auth"
	"github.com/ArsenAbrahamyann/trainerService/internal/domain"
	"github.com/ArsenAbrahamyann/trainerService/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, *store.InMemoryStore) {
	t.Helper()
	workloads := store.NewInMemoryStore()
	return NewHandler(domain.NewService(workloads)), workloads
}

func withClaims(r *http.Request, scopes ...string) *http.Request {
	claims := &auth.Claims{Subject: "gateway", Scopes: make(map[string]struct{})}
	for _, scope := range scopes {
		claims.Scopes[scope] = struct{}{}
	}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

func TestGetWorkloadReturnsRecord(t *testing.T) {
	handler, workloads := newTestHandler(t)
	require.NoError(t, workloads.Save(context.Background(), &domain.WorkloadRecord{
		TrainerUsername: "trainer1",
		FirstName:       "Jane",
		LastName:        "Doe",
		IsActive:        true,
		MonthlyTotals:   map[int]map[int]int{2025: {2: 10}},
	}))

	req := withClaims(httptest.NewRequest(http.MethodGet, "/trainer-workload/trainer1", nil), auth.ScopeWorkloadRead)
	rec := httptest.NewRecorder()
	handler.workloadByUsername(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view WorkloadView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "trainer1", view.TrainerUsername)
	require.Equal(t, map[int]map[int]int{2025: {2: 10}}, view.Workload)
}

func TestGetWorkloadUnknownTrainerIs404(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/trainer-workload/ghost", nil), auth.ScopeWorkloadRead)
	rec := httptest.NewRecorder()
	handler.workloadByUsername(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWorkloadRequiresClaims(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/trainer-workload/trainer1", nil)
	rec := httptest.NewRecorder()
	handler.workloadByUsername(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetWorkloadRequiresReadScope(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := withClaims(httptest.NewRequest(http.MethodGet, "/trainer-workload/trainer1", nil), "other:scope")
	rec := httptest.NewRecorder()
	handler.workloadByUsername(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateWorkloadAppliesDelta(t *testing.T) {
	handler, workloads := newTestHandler(t)

	body := `{"trainerUsername":"trainer1","firstName":"Jane","lastName":"Doe","isActive":true,` +
		`"trainingDate":"2025-02-01T09:00:00Z","trainingDuration":10,"actionType":"ADD"}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/trainer-workload/update", strings.NewReader(body)), auth.ScopeWorkloadWrite)
	rec := httptest.NewRecorder()
	handler.updateWorkload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := workloads.FindByUsername(context.Background(), "trainer1")
	require.NoError(t, err)
	require.Equal(t, 10, stored.MonthlyTotals[2025][2])
}

func TestUpdateWorkloadRejectsInvalidAction(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"trainerUsername":"trainer1","actionType":"UPSERT"}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/trainer-workload/update", strings.NewReader(body)), auth.ScopeWorkloadWrite)
	rec := httptest.NewRecorder()
	handler.updateWorkload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateWorkloadRequiresWriteScope(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := `{"trainerUsername":"trainer1","actionType":"ADD"}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/trainer-workload/update", strings.NewReader(body)), auth.ScopeWorkloadRead)
	rec := httptest.NewRecorder()
	handler.updateWorkload(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
