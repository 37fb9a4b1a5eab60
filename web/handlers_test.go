package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"chat-room/auth"
	"chat-room/repositories"
	"chat-room/runtime"
	"chat-room/search"
	"chat-room/services"
)

type testEnv struct {
	handlers *Handlers
	auth     services.IAuthService
	store    *runtime.MessageStore
	bus      *runtime.Bus
	index    *search.Index
	cancel   context.CancelFunc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	issuer := auth.NewTokenIssuer([]byte("test-secret-test-secret"), time.Hour)
	authService := services.NewAuthService(repositories.NewUserRepository(db), issuer)

	store := runtime.NewMessageStore()
	bus := runtime.NewBus(log, 16)
	chatService := services.NewChatService(log, store, bus, nil)
	coordinator := runtime.NewCoordinator(log, runtime.NewRegistry(), bus, chatService)

	index, err := search.NewIndex(log)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, index.Close()) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &testEnv{
		handlers: NewHandlers(log, ctx, authService, issuer, coordinator, index),
		auth:     authService,
		store:    store,
		bus:      bus,
		index:    index,
		cancel:   cancel,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	handler(recorder, request)
	return recorder
}

func decodeReply(t *testing.T, recorder *httptest.ResponseRecorder) statusReply {
	t.Helper()
	var reply statusReply
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &reply))
	return reply
}

func TestHandlers_Register(t *testing.T) {
	req := require.New(t)

	t.Run("Should register a new account", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := postJSON(t, env.handlers.Register, `{"username":"alice","password":"Correct-Horse-7"}`)

		// Then
		req.Equal(http.StatusOK, recorder.Code)
		reply := decodeReply(t, recorder)
		req.Equal("success", reply.Status)
		req.Equal("User registered successfully", reply.Message)
		req.NotEmpty(reply.Token)
	})

	t.Run("Should refuse a taken username", func(t *testing.T) {
		// Given
		env := newTestEnv(t)
		postJSON(t, env.handlers.Register, `{"username":"alice","password":"Correct-Horse-7"}`)

		// When
		recorder := postJSON(t, env.handlers.Register, `{"username":"alice","password":"Other-Password-3"}`)

		// Then
		req.Equal(http.StatusBadRequest, recorder.Code)
		req.Equal("Username already exists", decodeReply(t, recorder).Message)
	})

	t.Run("Should refuse malformed credentials", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := postJSON(t, env.handlers.Register, `{"username":"a!","password":"short"}`)

		// Then
		req.Equal(http.StatusBadRequest, recorder.Code)
		req.Equal("Invalid username or password format", decodeReply(t, recorder).Message)
	})

	t.Run("Should refuse a low-complexity password", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := postJSON(t, env.handlers.Register, `{"username":"alice","password":"passwordpassword"}`)

		// Then
		req.Equal(http.StatusBadRequest, recorder.Code)
		req.Equal("Invalid username or password format", decodeReply(t, recorder).Message)
	})

	t.Run("Should refuse a broken body", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := postJSON(t, env.handlers.Register, `{"username":`)

		// Then
		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandlers_Login(t *testing.T) {
	req := require.New(t)

	t.Run("Should log in a registered account", func(t *testing.T) {
		// Given
		env := newTestEnv(t)
		postJSON(t, env.handlers.Register, `{"username":"alice","password":"Correct-Horse-7"}`)

		// When
		recorder := postJSON(t, env.handlers.Login, `{"username":"alice","password":"Correct-Horse-7"}`)

		// Then
		req.Equal(http.StatusOK, recorder.Code)
		reply := decodeReply(t, recorder)
		req.Equal("Login successful", reply.Message)
		req.NotEmpty(reply.Token)
	})

	t.Run("Should answer 404 for an unknown user", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := postJSON(t, env.handlers.Login, `{"username":"nobody","password":"whatever pass"}`)

		// Then
		req.Equal(http.StatusNotFound, recorder.Code)
		req.Equal("User not found", decodeReply(t, recorder).Message)
	})

	t.Run("Should answer 401 for a wrong password", func(t *testing.T) {
		// Given
		env := newTestEnv(t)
		postJSON(t, env.handlers.Register, `{"username":"alice","password":"Correct-Horse-7"}`)

		// When
		recorder := postJSON(t, env.handlers.Login, `{"username":"alice","password":"wrong password"}`)

		// Then
		req.Equal(http.StatusUnauthorized, recorder.Code)
		req.Equal("Invalid password", decodeReply(t, recorder).Message)
	})
}

func TestHandlers_Search(t *testing.T) {
	req := require.New(t)

	t.Run("Should return matching live messages", func(t *testing.T) {
		// Given
		env := newTestEnv(t)
		req.NoError(env.index.Upsert("m1", "alice", "the deployment finished"))
		req.NoError(env.index.Upsert("m2", "bob", "lunch anyone"))

		// When
		recorder := httptest.NewRecorder()
		env.handlers.Search(recorder, httptest.NewRequest(http.MethodGet, "/search?q=deployment", nil))

		// Then
		req.Equal(http.StatusOK, recorder.Code)
		var results []searchResult
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &results))
		req.Len(results, 1)
		req.Equal("m1", results[0].ID)
		req.Equal("alice", results[0].Username)
	})

	t.Run("Should clamp an oversized limit parameter", func(t *testing.T) {
		// Given
		env := newTestEnv(t)
		req.NoError(env.index.Upsert("m1", "alice", "the deployment finished"))

		// When
		recorder := httptest.NewRecorder()
		env.handlers.Search(recorder, httptest.NewRequest(http.MethodGet, "/search?q=deployment&limit=100000000", nil))

		// Then the request is served with a bounded top-N
		req.Equal(http.StatusOK, recorder.Code)
		var results []searchResult
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &results))
		req.Len(results, 1)
	})

	t.Run("Should require the q parameter", func(t *testing.T) {
		// Given
		env := newTestEnv(t)

		// When
		recorder := httptest.NewRecorder()
		env.handlers.Search(recorder, httptest.NewRequest(http.MethodGet, "/search", nil))

		// Then
		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandlers_Health(t *testing.T) {
	// Given
	env := newTestEnv(t)

	// When
	recorder := httptest.NewRecorder()
	env.handlers.Health(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// Then
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "ok", recorder.Body.String())
}
