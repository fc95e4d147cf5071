package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/service"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

type envelope struct {
	Data  json.RawMessage    `json:"data"`
	Meta  map[string]any     `json:"meta"`
	Error *internal.AppError `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func setupRouter(t *testing.T, opts RouterOptions) *testServer {
	gin.SetMode(gin.TestMode)
	logger := internal.NewNopLogger()
	repos, err := storage.NewFileRepositories(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	app := NewApplication(repos, tokens, logger)
	provider := auth.NewTokenProvider(tokens, repos.Users, logger)
	return &testServer{t: t, router: NewRouter(app, provider, opts)}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) register(email string) string {
	code, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"first_name": "Grace", "last_name": "Hopper", "email": email, "password": "cobol-1959",
	})
	require.Equal(s.t, http.StatusCreated, code)
	var res service.AuthResult
	require.NoError(s.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(s.t, res.Token)
	return res.Token
}

func TestHealthAndAuth(t *testing.T) {
	s := setupRouter(t, RouterOptions{})

	code, _ := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)

	code, _ = s.do(http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token := s.register("grace@navy.mil")
	code, env = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me internal.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "grace@navy.mil", me.Email)
	assert.Empty(t, me.PasswordHash)

	code, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"first_name": "Grace", "last_name": "Hopper", "email": "grace@navy.mil", "password": "cobol-1959",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "grace@navy.mil", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodPut, "/api/auth/recalculate-level", token, nil)
	require.Equal(t, http.StatusOK, code)
	var rec service.LevelReconciliation
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, 1, rec.NewLevel)
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	s := setupRouter(t, RouterOptions{})
	token := s.register("grace@navy.mil")
	other := s.register("ada@uni.edu")
	target := time.Now().AddDate(0, 0, 20).Format(internal.DateLayout)

	code, env := s.do(http.MethodPost, "/api/goals", token, map[string]any{
		"title": "Daily steps", "category": "Steps", "target_value": 10000, "current_value": 2000,
		"unit": "steps", "target_date": target,
	})
	require.Equal(t, http.StatusCreated, code)
	var created service.GoalResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created.Goal.ID

	code, env = s.do(http.MethodPost, "/api/goals", token, map[string]any{
		"title": "Bad", "category": "Juggling", "target_value": 1, "unit": "x", "target_date": target,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)

	code, _ = s.do(http.MethodGet, "/api/goals/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/goals/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPut, "/api/goals/"+id+"/progress", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPut, "/api/goals/"+id+"/progress", token, map[string]any{"add_to_value": 8000})
	require.Equal(t, http.StatusOK, code)
	var done service.GoalResult
	require.NoError(t, json.Unmarshal(env.Data, &done))
	assert.Equal(t, internal.StatusCompleted, done.Goal.Status)
	require.NotNil(t, done.Points)
	assert.Equal(t, done.Goal.Points, done.Points.TotalPoints)
	assert.Equal(t, "Steps Champion", done.Points.BadgeAwarded)

	code, _ = s.do(http.MethodPut, "/api/goals/"+id+"/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/goals/completed", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Meta["count"])

	code, env = s.do(http.MethodGet, "/api/goals/stats", token, nil)
	require.Equal(t, http.StatusOK, code)
	var stats service.GoalStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.Completed)

	code, env = s.do(http.MethodDelete, "/api/goals/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	var deleted struct {
		Points *service.PointsResult `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	require.NotNil(t, deleted.Points)
	assert.Equal(t, 0, deleted.Points.TotalPoints)

	code, env = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me internal.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, 0, me.Points)
	assert.Equal(t, []string{"Steps Champion"}, me.Badges)
}

func TestFitnessLogOverHTTP(t *testing.T) {
	s := setupRouter(t, RouterOptions{})
	token := s.register("grace@navy.mil")

	code, env := s.do(http.MethodPost, "/api/fitness/log", token, map[string]any{"steps": 10000})
	require.Equal(t, http.StatusCreated, code)
	var log internal.FitnessLog
	require.NoError(t, json.Unmarshal(env.Data, &log))
	assert.Equal(t, 100, log.LifestyleScore)

	code, _ = s.do(http.MethodPost, "/api/fitness/log", token, map[string]any{"mood": "Good"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/fitness/log", token, map[string]any{"stress_level": 42})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodPost, "/api/fitness/log", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/fitness/log/today", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &log))
	require.NotNil(t, log.Steps)
	assert.Equal(t, internal.MoodGood, log.Mood)

	code, env = s.do(http.MethodGet, "/api/fitness/log/all?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Meta["total"])

	code, _ = s.do(http.MethodGet, "/api/fitness/log/range?startDate=2025-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/fitness/stats/week", token, nil)
	require.Equal(t, http.StatusOK, code)
	var weekly service.WeeklyStats
	require.NoError(t, json.Unmarshal(env.Data, &weekly))
	assert.Equal(t, 1, weekly.TotalDays)

	code, _ = s.do(http.MethodGet, "/api/fitness/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, "/api/fitness/log/"+log.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/fitness/log/today", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRateLimitAndMetrics(t *testing.T) {
	s := setupRouter(t, RouterOptions{Limiter: NewRateLimiter(0.001, 2), Metrics: true})

	code, _ := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, env := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, code)
	require.NotNil(t, env.Error)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	l := NewRateLimiter(1, 1)
	l.limiter("10.0.0.1")
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	l.limiter("10.0.0.2")

	l.evict(time.Minute)
	assert.NotContains(t, l.visitors, "10.0.0.1")
	assert.Contains(t, l.visitors, "10.0.0.2")
}
