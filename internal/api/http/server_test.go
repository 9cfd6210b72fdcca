package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/orgwise/orgchart-service/internal/auth"
	"github.com/orgwise/orgchart-service/internal/observability"
	"github.com/orgwise/orgchart-service/internal/persistence/memory"
	"github.com/orgwise/orgchart-service/internal/service"
)

type testServer struct {
	app    *fiber.App
	editor string
	viewer string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, zap.NewNop())
}

func newTestServerWithLogger(t *testing.T, logger *zap.Logger) *testServer {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", 5)
	editor, _, err := tokens.GenerateToken("editor", auth.AccessEditor)
	require.NoError(t, err)
	viewer, _, err := tokens.GenerateToken("viewer", auth.AccessViewer)
	require.NoError(t, err)

	org := service.NewOrgService(service.OrgDependencies{Store: memory.NewStore().Repositories()})
	app := NewApp(ServerDependencies{
		ServiceName:    "orgchart-test",
		Version:        "test",
		Org:            org,
		AuthMiddleware: auth.NewAuthMiddleware(tokens, false),
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		RequestTimeout: 5 * time.Second,
	})
	return &testServer{app: app, editor: editor, viewer: viewer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	}
	return resp.StatusCode, payload
}

func errorCode(payload map[string]any) string {
	e, _ := payload["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodGet, "/api/persons", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = s.do(t, nethttp.MethodPost, "/api/persons", s.viewer, map[string]any{"name": "Alice"})
	assert.Equal(t, nethttp.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestOrgChartFlow(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, nethttp.MethodPost, "/api/persons", s.editor, map[string]any{"name": "Alice", "hire_date": "2023-01-09"})
	require.Equal(t, nethttp.StatusCreated, status)
	status, _ = s.do(t, nethttp.MethodPost, "/api/functions", s.editor, map[string]any{"name": "Engineering"})
	require.Equal(t, nethttp.StatusCreated, status)
	status, _ = s.do(t, nethttp.MethodPost, "/api/functions", s.editor, map[string]any{"name": "Platform Team", "reports_to": "Engineering"})
	require.Equal(t, nethttp.StatusCreated, status)

	status, body := s.do(t, nethttp.MethodPost, "/api/roles", s.editor, map[string]any{
		"person_name":   "Alice",
		"function_name": "Platform Team",
		"percentage":    0.5,
		"start_date":    "2024-01-01",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["success"])
	assert.NotNil(t, data["id"])

	status, body = s.do(t, nethttp.MethodGet, "/api/functions/Platform%20Team/details", s.viewer, nil)
	require.Equal(t, nethttp.StatusOK, status)
	details := body["data"].(map[string]any)
	assert.Equal(t, float64(1), details["headcount"])

	status, body = s.do(t, nethttp.MethodPost, "/api/functions/Engineering/move", s.editor, map[string]any{"new_parent": "Platform Team"})
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = s.do(t, nethttp.MethodDelete, "/api/functions/Engineering", s.editor, nil)
	assert.Equal(t, nethttp.StatusConflict, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, float64(1), errBody["details"].(map[string]any)["sub_functions"])

	status, body = s.do(t, nethttp.MethodGet, "/api/stats", s.viewer, nil)
	require.Equal(t, nethttp.StatusOK, status)
	stats := body["data"].(map[string]any)
	assert.Equal(t, float64(1), stats["total_roles"])

	status, body = s.do(t, nethttp.MethodGet, "/api/org-chart", s.viewer, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, _ = s.do(t, nethttp.MethodPost, "/api/persons/Alice/terminate", s.editor, nil)
	require.Equal(t, nethttp.StatusOK, status)

	status, body = s.do(t, nethttp.MethodGet, "/api/persons/Alice", s.viewer, nil)
	require.Equal(t, nethttp.StatusOK, status)
	person := body["data"].(map[string]any)
	assert.Equal(t, "TERMINATED", person["status"])
	assert.Equal(t, "2023-01-09", person["hire_date"])
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, nethttp.MethodPost, "/api/persons", s.editor, map[string]any{"name": "Bob", "hire_date": "yesterday"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, nethttp.MethodGet, "/api/roles/abc", s.viewer, nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, nethttp.MethodGet, "/api/persons/Nobody", s.viewer, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestEndRoleTwiceOverHTTP(t *testing.T) {
	s := newTestServer(t)

	s.do(t, nethttp.MethodPost, "/api/persons", s.editor, map[string]any{"name": "Carol"})
	s.do(t, nethttp.MethodPost, "/api/functions", s.editor, map[string]any{"name": "Ops"})
	_, body := s.do(t, nethttp.MethodPost, "/api/roles", s.editor, map[string]any{"person_name": "Carol", "function_name": "Ops"})
	id := body["data"].(map[string]any)["id"].(float64)
	path := "/api/roles/" + strconv.FormatInt(int64(id), 10) + "/end"

	status, body := s.do(t, nethttp.MethodPost, path, s.editor, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["success"])

	status, body = s.do(t, nethttp.MethodPost, path, s.editor, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, false, body["data"].(map[string]any)["success"])
}

func TestForbiddenWritesAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestServerWithLogger(t, zap.New(core))

	status, body := s.do(t, nethttp.MethodPost, "/api/persons", s.viewer, map[string]any{"name": "Mallory"})
	assert.Equal(t, nethttp.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	denied := logs.FilterMessage("access denied").All()
	require.Len(t, denied, 1)
	assert.Equal(t, "/api/persons", denied[0].ContextMap()["path"])

	status, _ = s.do(t, nethttp.MethodGet, "/api/persons", s.viewer, nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, logs.FilterMessage("access denied").All(), 1)
}
