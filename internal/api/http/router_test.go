package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/handypro/internal/api/http"
	"github.com/spec-kit/handypro/internal/api/http/handlers"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/observability"
	"github.com/spec-kit/handypro/internal/repository/memory"
	"github.com/spec-kit/handypro/internal/service"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-pass"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()

	technicians := service.NewTechnicianService(service.TechnicianDependencies{
		Store: store, Dispatcher: dispatcher, Metrics: metrics, Logger: logger, BcryptCost: 4,
	})
	reviews := service.NewReviewService(service.ReviewDependencies{
		Store: store, Dispatcher: dispatcher, Metrics: metrics, Logger: logger,
	})
	team := service.NewTeamService(service.TeamDependencies{
		Store: store, MaxEditors: 1, BcryptCost: 4, Logger: logger,
	})
	_, err := team.EnsureAdmin(context.Background(), adminUsername, adminPassword)
	require.NoError(t, err)
	settings := service.NewSettingsService(store)
	authService := service.NewAuthService(store, auth.NewTokenManager("test-secret", 5))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("handypro", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, team),
		Technicians:    handlers.NewTechniciansHandler(technicians, reviews, service.NewListingService(store)),
		Admin:          handlers.NewAdminHandler(technicians, reviews, service.NewStatsService(store)),
		Team:           handlers.NewTeamHandler(team),
		Settings:       handlers.NewSettingsHandler(settings),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users, store.Technicians),
		Metrics:        metrics.Handler(),
	})
	return app
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]int  `json:"meta"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out apiResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"login": username, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	data := decode[struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}](t, resp.Data)
	require.NotEmpty(t, data.Auth.Token)
	return data.Auth.Token
}

type technicianBody struct {
	ID                 string `json:"id"`
	RegistrationStatus string `json:"registration_status"`
}

func registerTechnician(t *testing.T, app *fiber.App, name, email string) technicianBody {
	t.Helper()
	status, resp := doRequest(t, app, http.MethodPost, "/technicians/register", "", map[string]any{
		"full_name":             name,
		"login_email":           email,
		"commune":               "Kenya",
		"skills":                []string{"Plomberie"},
		"password":              "secret",
		"password_confirmation": "secret",
	})
	require.Equal(t, http.StatusCreated, status)
	return decode[technicianBody](t, resp.Data)
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)
	status, _ := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestRegistrationApprovalAndReviewFlow(t *testing.T) {
	app := newTestApp(t)
	tech := registerTechnician(t, app, "Jean Kabila", "jean@example.com")
	assert.Equal(t, "PENDING", tech.RegistrationStatus)

	status, resp := doRequest(t, app, http.MethodGet, "/technicians", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]technicianBody](t, resp.Data))

	status, _ = doRequest(t, app, http.MethodGet, "/technicians/"+tech.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	adminToken := login(t, app, adminUsername, adminPassword)
	status, resp = doRequest(t, app, http.MethodPut, "/admin/technicians/"+tech.ID+"/status", adminToken,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", decode[technicianBody](t, resp.Data).RegistrationStatus)

	status, resp = doRequest(t, app, http.MethodGet, "/technicians?skill=Plomberie", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]technicianBody](t, resp.Data), 1)
	assert.Equal(t, 1, resp.Meta["total"])

	status, resp = doRequest(t, app, http.MethodPost, "/technicians/"+tech.ID+"/reviews", "", map[string]any{
		"author_name": "Marie", "author_phone": "+243000", "rating": 4, "comment": "Rapide",
	})
	require.Equal(t, http.StatusCreated, status)
	review := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, resp.Data)
	assert.Equal(t, "PENDING", review.Status)

	status, _ = doRequest(t, app, http.MethodPut, "/admin/reviews/"+review.ID+"/status", adminToken,
		map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, status)

	status, resp = doRequest(t, app, http.MethodPut, "/admin/reviews/"+review.ID+"/status", adminToken,
		map[string]string{"status": "REJECTED"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	status, resp = doRequest(t, app, http.MethodGet, "/technicians/"+tech.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[struct {
		AverageRating *float64 `json:"average_rating"`
		ReviewCount   int      `json:"review_count"`
		Reviews       []struct {
			AuthorName  string `json:"author_name"`
			AuthorPhone string `json:"author_phone"`
		} `json:"reviews"`
	}](t, resp.Data)
	require.NotNil(t, profile.AverageRating)
	assert.Equal(t, 4.0, *profile.AverageRating)
	assert.Equal(t, 1, profile.ReviewCount)
	require.Len(t, profile.Reviews, 1)
	assert.Empty(t, profile.Reviews[0].AuthorPhone)

	status, resp = doRequest(t, app, http.MethodGet, "/admin/technicians/"+tech.ID+"/history", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, resp.Data), 1)
}

func TestProfileUpdateIgnoresStatusAndResetsToPending(t *testing.T) {
	app := newTestApp(t)
	tech := registerTechnician(t, app, "Paul Mwamba", "paul@example.com")
	adminToken := login(t, app, adminUsername, adminPassword)
	status, _ := doRequest(t, app, http.MethodPut, "/admin/technicians/"+tech.ID+"/status", adminToken,
		map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, status)

	techToken := login(t, app, "paul@example.com", "secret")
	status, resp := doRequest(t, app, http.MethodPut, "/me/profile", techToken, map[string]any{
		"short_description":   "Plombier depuis 10 ans",
		"registration_status": "APPROVED",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING", decode[technicianBody](t, resp.Data).RegistrationStatus)

	status, resp = doRequest(t, app, http.MethodGet, "/technicians", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]technicianBody](t, resp.Data))
}

func TestRegistrationValidationErrorsAreRendered(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, http.MethodPost, "/technicians/register", "", map[string]any{
		"full_name": "",
		"commune":   "Kenya",
		"password":  "a",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "full_name")
	assert.Contains(t, resp.Error.Details, "contact_1")
	assert.Contains(t, resp.Error.Details, "password_confirmation")
}

func TestAccessControl(t *testing.T) {
	app := newTestApp(t)

	status, resp := doRequest(t, app, http.MethodGet, "/admin/technicians", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	adminToken := login(t, app, adminUsername, adminPassword)
	status, _ = doRequest(t, app, http.MethodPost, "/admin/editors", adminToken,
		map[string]string{"username": "editor", "password": "editor-pass"})
	require.Equal(t, http.StatusCreated, status)

	status, resp = doRequest(t, app, http.MethodPost, "/admin/editors", adminToken,
		map[string]string{"username": "second", "password": "pass"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CAPACITY_REACHED", resp.Error.Code)

	editorToken := login(t, app, "editor", "editor-pass")
	status, _ = doRequest(t, app, http.MethodGet, "/admin/technicians", editorToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, resp = doRequest(t, app, http.MethodGet, "/admin/editors", editorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	status, _ = doRequest(t, app, http.MethodGet, "/admin/stats", editorToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodPut, "/admin/settings", editorToken, map[string]any{"app_name": "x"})
	assert.Equal(t, http.StatusForbidden, status)

	registerTechnician(t, app, "Alain Banza", "alain@example.com")
	techToken := login(t, app, "alain@example.com", "secret")
	status, _ = doRequest(t, app, http.MethodGet, "/admin/technicians", techToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodGet, "/me/profile", editorToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestLoginRejectsUnknownCredentials(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"login": adminUsername, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestSettingsDefaultsAndAdminUpdate(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, http.MethodGet, "/settings", "", nil)
	require.Equal(t, http.StatusOK, status)
	settings := decode[struct {
		AppName string   `json:"app_name"`
		Skills  []string `json:"skills"`
	}](t, resp.Data)
	assert.Equal(t, "Lubumbashi Handy-Pro Connect", settings.AppName)
	assert.NotEmpty(t, settings.Skills)

	adminToken := login(t, app, adminUsername, adminPassword)
	status, resp = doRequest(t, app, http.MethodPut, "/admin/settings", adminToken, map[string]any{
		"communes": []string{"Ruashi", "Annexe", "Ruashi"},
	})
	require.Equal(t, http.StatusOK, status)
	updated := decode[struct {
		Communes []string `json:"communes"`
	}](t, resp.Data)
	assert.Equal(t, []string{"Annexe", "Ruashi"}, updated.Communes)
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	doRequest(t, app, http.MethodGet, "/health/live", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestMetricsSurviveErrorResponses(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/technicians/missing-1", "/technicians/missing-2", "/technicians/missing-3", "/nope-1", "/nope-2"} {
		status, _ := doRequest(t, app, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusNotFound, status)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `route="/technicians/:id"`)
	assert.Contains(t, string(body), `route="unmatched"`)
	assert.NotContains(t, string(body), "missing-1")
}

func TestListingWithHugePageIsEmpty(t *testing.T) {
	app := newTestApp(t)
	status, resp := doRequest(t, app, http.MethodGet, "/technicians?page=9223372036854775807", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]technicianBody](t, resp.Data))
}
