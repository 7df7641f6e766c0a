package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hospitalops/hospital-api/internal/config"
	"github.com/hospitalops/hospital-api/internal/handler"
	bedHandler "github.com/hospitalops/hospital-api/internal/handler/bed"
	healthHandler "github.com/hospitalops/hospital-api/internal/handler/health"
	hospitalHandler "github.com/hospitalops/hospital-api/internal/handler/hospital"
	inventoryHandler "github.com/hospitalops/hospital-api/internal/handler/inventory"
	patientHandler "github.com/hospitalops/hospital-api/internal/handler/patient"
	staffHandler "github.com/hospitalops/hospital-api/internal/handler/staff"
	"github.com/hospitalops/hospital-api/internal/middleware"
	"github.com/hospitalops/hospital-api/internal/router"
	"github.com/hospitalops/hospital-api/internal/service/assignment"
	authService "github.com/hospitalops/hospital-api/internal/service/auth"
	bedService "github.com/hospitalops/hospital-api/internal/service/bed"
	dashboardService "github.com/hospitalops/hospital-api/internal/service/dashboard"
	hospitalService "github.com/hospitalops/hospital-api/internal/service/hospital"
	inventoryService "github.com/hospitalops/hospital-api/internal/service/inventory"
	patientService "github.com/hospitalops/hospital-api/internal/service/patient"
	staffService "github.com/hospitalops/hospital-api/internal/service/staff"
	"github.com/hospitalops/hospital-api/pkg/logger"
	"github.com/hospitalops/hospital-api/pkg/validator"
)

var registerValidations sync.Once

// testEnv is a fully wired API served over in-memory repositories.
type testEnv struct {
	server *httptest.Server
	outbox *memOutboxRepo
	staff  *memStaffRepo
}

type envOptions struct {
	requireAuth bool
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	registerValidations.Do(func() {
		require.NoError(t, validator.RegisterCustom())
	})

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})

	bedRepo := newMemBedRepo()
	patientRepo := newMemPatientRepo()
	hospitalRepo := newMemHospitalRepo()
	staffRepo := newMemStaffRepo()
	inventoryRepo := newMemInventoryRepo()
	outboxRepo := newMemOutboxRepo()

	bedSvc := bedService.NewService(bedRepo, log)
	patientSvc := patientService.NewService(patientRepo, log)
	hospitalSvc := hospitalService.NewService(hospitalRepo)
	staffSvc := staffService.NewService(staffRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	authSvc := authService.NewService(staffRepo, config.JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	coordinator := assignment.NewCoordinator(bedSvc, patientSvc, log)
	dashboardSvc := dashboardService.NewService(hospitalRepo, bedSvc, patientSvc, staffRepo, inventoryRepo, log)

	emitter := handler.NewEmitter(outboxRepo, log)

	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		healthHandler.NewHandler(nil),
		staffHandler.NewHandler(staffSvc, authSvc, dashboardSvc),
		router.Config{
			RateLimit:   rate.Inf,
			RateBurst:   0,
			RequireAuth: opts.requireAuth,
			Logger:      log,
		},
		bedHandler.NewHandler(bedSvc, emitter),
		patientHandler.NewHandler(patientSvc, coordinator, emitter),
		hospitalHandler.NewHandler(hospitalSvc, dashboardSvc),
		inventoryHandler.NewHandler(inventorySvc, dashboardSvc),
	)
	r.Setup()

	server := httptest.NewServer(r.Engine())
	t.Cleanup(server.Close)

	return &testEnv{server: server, outbox: outboxRepo, staff: staffRepo}
}

// apiResponse mirrors the envelope every endpoint responds with.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) (int, apiResponse) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+"/api/v1"+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

func decode(t *testing.T, raw json.RawMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, out))
}
