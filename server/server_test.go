package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dicemath/config"
	"dicemath/engine"
	"dicemath/game"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	cfg := config.Default()
	srv := New(cfg, game.NewGenerator(game.WithSeed(1), game.WithFaces(1)))
	return srv, srv.Router()
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestHandleHealth(t *testing.T) {
	_, router := setupTestServer(t)

	w := do(t, router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleSolve(t *testing.T) {
	_, router := setupTestServer(t)

	t.Run("solvable puzzle", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/solve", `{"dice":[1,1,1,1,1],"target":5}`)

		require.Equal(t, http.StatusOK, w.Code)
		got := decode[map[string]any](t, w)
		require.Equal(t, true, got["found"])
		require.Equal(t, "((1 + 1) + (1 + (1 + 1)))", got["expression"])
		require.Len(t, got["tokens"], 9, "Five operands and four operators")
	})

	t.Run("unsolvable puzzle", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/solve", `{"dice":[1,1,1,1,1],"target":100}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"found":false,"tokens":[]}`, w.Body.String())
	})

	t.Run("zero target is a valid target", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/solve", `{"dice":[2,2,1,1,1],"target":0}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, true, decode[map[string]any](t, w)["found"])
	})

	t.Run("invalid bodies", func(t *testing.T) {
		for _, body := range []string{
			`{"dice":[1,2,3,4],"target":5}`,
			`{"dice":[1,2,3,4,5]}`,
			`{"target":5}`,
			`not json`,
		} {
			w := do(t, router, http.MethodPost, "/v1/solve", body)
			require.Equal(t, http.StatusBadRequest, w.Code, "body %s should be rejected", body)
		}
	})

	t.Run("abandoned request", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/v1/solve",
			strings.NewReader(`{"dice":[1,2,3,4,5],"target":1}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestHandleTokenize(t *testing.T) {
	_, router := setupTestServer(t)

	w := do(t, router, http.MethodPost, "/v1/tokenize", `{"expression":"(1 + 2)"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"tokens":[
		{"kind":"operand","value":1,"id":1},
		{"kind":"operator","value":"+","id":2},
		{"kind":"operand","value":2,"id":3}
	]}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/v1/tokenize", `{"expression":""}`)
	require.JSONEq(t, `{"tokens":[]}`, w.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	srv, router := setupTestServer(t)

	w := do(t, router, http.MethodPost, "/v1/sessions", `{"mode":"custom","target":3}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[SessionResponse](t, w)
	require.NotEmpty(t, created.ID)
	require.Equal(t, engine.Playing, created.Status)
	require.Equal(t, game.Puzzle{Dice: []int{1, 1, 1, 1, 1}, Target: 3}, created.Puzzle)
	base := "/v1/sessions/" + created.ID

	w = do(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, created, decode[SessionResponse](t, w))

	w = do(t, router, http.MethodGet, base+"/hint", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decode[HintResponse](t, w).Hint, "=3")

	w = do(t, router, http.MethodPost, base+"/answer", `{"expression":"1+1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	wrong := decode[AnswerResponse](t, w)
	require.False(t, wrong.Verdict.Correct)
	require.Equal(t, "Result is 2, not 3", wrong.Session.Message)

	w = do(t, router, http.MethodPost, base+"/answer", `{"expression":"1+x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodPost, base+"/answer", `{"expression":"(1+1)+1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	won := decode[AnswerResponse](t, w)
	require.True(t, won.Verdict.Correct)
	require.Equal(t, engine.Won, won.Session.Status)

	w = do(t, router, http.MethodPost, base+"/answer", `{"expression":"1+1+1"}`)
	require.Equal(t, http.StatusConflict, w.Code, "Won sessions should reject answers")

	w = do(t, router, http.MethodPost, base+"/roll", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, engine.Playing, decode[SessionResponse](t, w).Status)

	w = do(t, router, http.MethodDelete, base, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	_, ok := srv.getSession(created.ID)
	require.False(t, ok, "Deleted sessions should be forgotten")

	w = do(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSession(t *testing.T) {
	_, router := setupTestServer(t)

	t.Run("unsolvable custom target has no hint", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/sessions", `{"mode":"custom","target":100}`)
		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[SessionResponse](t, w)
		require.False(t, created.HasSolution)

		w = do(t, router, http.MethodGet, "/v1/sessions/"+created.ID+"/hint", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("default custom target", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/sessions", `{"mode":"custom"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, 24, decode[SessionResponse](t, w).Puzzle.Target)
	})

	t.Run("empty body rolls a random puzzle", func(t *testing.T) {
		srv := New(config.Default(), game.NewGenerator(game.WithSeed(4)))

		w := do(t, srv.Router(), http.MethodPost, "/v1/sessions", "")

		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[SessionResponse](t, w)
		require.Equal(t, engine.RandomMode, created.Mode)
		require.True(t, created.HasSolution)
	})

	t.Run("unknown mode", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/v1/sessions", `{"mode":"blitz"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		for _, path := range []string{"/v1/sessions/nope", "/v1/sessions/nope/hint"} {
			w := do(t, router, http.MethodGet, path, "")
			require.Equal(t, http.StatusNotFound, w.Code)
		}
		w := do(t, router, http.MethodPost, "/v1/sessions/nope/roll", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionStore(t *testing.T) {
	create := func(t *testing.T, router *gin.Engine) string {
		t.Helper()
		w := do(t, router, http.MethodPost, "/v1/sessions", `{"mode":"custom","target":3}`)
		require.Equal(t, http.StatusCreated, w.Code)
		return decode[SessionResponse](t, w).ID
	}

	t.Run("idle sessions expire", func(t *testing.T) {
		srv, router := setupTestServer(t)
		clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		srv.now = func() time.Time { return clock }

		idle := create(t, router)
		active := create(t, router)

		clock = clock.Add(srv.config.Server.SessionTTL / 2)
		require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/v1/sessions/"+active, "").Code)

		clock = clock.Add(srv.config.Server.SessionTTL/2 + time.Second)
		require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/v1/sessions/"+idle, "").Code,
			"Untouched sessions should be dropped after the TTL")
		require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/v1/sessions/"+active, "").Code,
			"Reading a session should keep it alive")
	})

	t.Run("expired sessions are swept on create", func(t *testing.T) {
		srv, router := setupTestServer(t)
		clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		srv.now = func() time.Time { return clock }

		create(t, router)
		create(t, router)
		clock = clock.Add(srv.config.Server.SessionTTL + time.Second)
		create(t, router)

		require.Len(t, srv.sessions, 1)
	})

	t.Run("full store evicts the least recently used session", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.MaxSessions = 2
		srv := New(cfg, game.NewGenerator(game.WithSeed(1), game.WithFaces(1)))
		router := srv.Router()
		clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		srv.now = func() time.Time { return clock }

		first := create(t, router)
		clock = clock.Add(time.Second)
		second := create(t, router)
		clock = clock.Add(time.Second)
		do(t, router, http.MethodGet, "/v1/sessions/"+first, "")
		clock = clock.Add(time.Second)
		third := create(t, router)

		require.Len(t, srv.sessions, 2)
		require.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/v1/sessions/"+second, "").Code)
		require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/v1/sessions/"+first, "").Code)
		require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/v1/sessions/"+third, "").Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	_, router := setupTestServer(t)
	do(t, router, http.MethodPost, "/v1/solve", `{"dice":[1,1,1,1,1],"target":5}`)

	w := do(t, router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "dicemath_solves_total")
}
