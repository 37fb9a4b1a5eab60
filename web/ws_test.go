package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type wireFrame struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

func newChatServer(t *testing.T, env *testEnv) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat", env.handlers.Chat)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func dialChat(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame wireFrame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func TestChat_Authentication(t *testing.T) {
	req := require.New(t)

	env := newTestEnv(t)
	server := newChatServer(t, env)
	_, err := env.auth.Register("alice", "Correct-Horse-7")
	req.NoError(err)

	t.Run("Should refuse an upgrade without credentials", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat"
		_, response, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("Should refuse a bad token", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat?token=garbage"
		_, response, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("Should refuse wrong query credentials", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat?username=alice&password=nope"
		_, response, err := websocket.DefaultDialer.Dial(url, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("Should accept a login token", func(t *testing.T) {
		token, err := env.auth.Login("alice", "Correct-Horse-7")
		require.NoError(t, err)
		conn := dialChat(t, server, "token="+string(token))

		send(t, conn, `{"type":"message","content":"hello"}`)
		frame := readFrame(t, conn)
		require.Equal(t, "message", frame.Type)
		require.Equal(t, "alice", frame.Username)
	})
}

func TestChat_Room(t *testing.T) {
	req := require.New(t)

	// Given two authenticated participants
	env := newTestEnv(t)
	server := newChatServer(t, env)
	_, err := env.auth.Register("alice", "Correct-Horse-7")
	req.NoError(err)
	_, err = env.auth.Register("bob", "Battery-Staple-9")
	req.NoError(err)

	aliceToken, err := env.auth.Login("alice", "Correct-Horse-7")
	req.NoError(err)
	alice := dialChat(t, server, "token="+string(aliceToken))
	// Bob connects the way the original web client did
	bob := dialChat(t, server, "username=bob&password=Battery-Staple-9")

	// When Alice posts
	send(t, alice, `{"type":"message","content":"hello room"}`)

	// Then both participants receive the broadcast
	posted := readFrame(t, alice)
	req.Equal("message", posted.Type)
	req.Equal("alice", posted.Username)
	req.Equal("hello room", posted.Content)
	req.NotEmpty(posted.ID)
	req.Equal(posted, readFrame(t, bob))

	// When Bob tries to edit Alice's message nothing is broadcast,
	// and his own next message arrives as the next frame for everyone
	send(t, bob, `{"type":"edit","id":"`+posted.ID+`","content":"hijacked"}`)
	send(t, bob, `{"type":"message","content":"sorry"}`)
	next := readFrame(t, alice)
	req.Equal("message", next.Type)
	req.Equal("bob", next.Username)
	req.Equal("sorry", next.Content)
	req.Equal(next, readFrame(t, bob))

	// When Alice edits and deletes her own message everyone sees it
	send(t, alice, `{"type":"edit","id":"`+posted.ID+`","content":"hello everyone"}`)
	edited := readFrame(t, bob)
	req.Equal(wireFrame{Type: "edit", ID: posted.ID, Content: "hello everyone"}, edited)

	send(t, alice, `{"type":"delete","id":"`+posted.ID+`"}`)
	deleted := readFrame(t, bob)
	req.Equal(wireFrame{Type: "delete", ID: posted.ID}, deleted)
}
