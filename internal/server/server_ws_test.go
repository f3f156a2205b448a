package server

import (
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"truth-be-told/internal/config"

	"github.com/gorilla/websocket"
)

func TestWebsocketJoinRoom(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostID := createUser(t, ts, "ada", "Ada")
	createRoom(t, ts, "ABC123", hostID)

	conn := dialWS(t, ts)
	defer conn.Close()

	sendWS(t, conn, map[string]any{
		"type":   "join_room",
		"roomId": "ABC123",
		"userId": hostID,
	})

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "user_joined" {
		t.Fatalf("expected user_joined, got %v", event["type"])
	}
	if uint(event["userId"].(float64)) != hostID {
		t.Fatalf("expected userId %d, got %v", hostID, event["userId"])
	}
}

func TestWebsocketJoinUnknownRoom(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	userID := createUser(t, ts, "ada", "Ada")
	conn := dialWS(t, ts)
	defer conn.Close()

	sendWS(t, conn, map[string]any{
		"type":   "join_room",
		"roomId": "ZZZ999",
		"userId": userID,
	})

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "error" {
		t.Fatalf("expected error, got %v", event["type"])
	}
}

func TestWebsocketUnknownMessageType(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn := dialWS(t, ts)
	defer conn.Close()

	sendWS(t, conn, map[string]any{"type": "dance"})

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "error" {
		t.Fatalf("expected error, got %v", event["type"])
	}
}

func TestWebsocketPlayerJoinedBroadcast(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostID := createUser(t, ts, "ada", "Ada")
	userID := createUser(t, ts, "grace", "Grace")
	createRoom(t, ts, "ABC123", hostID)

	conn := dialWS(t, ts)
	defer conn.Close()
	bindWS(t, conn, "ABC123", hostID)

	joinRoom(t, ts, "ABC123", userID)

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "player_joined" {
		t.Fatalf("expected player_joined, got %v", event["type"])
	}
	player := event["player"].(map[string]any)
	if player["username"] != "grace" {
		t.Fatalf("expected username grace, got %v", player["username"])
	}
}

func TestWebsocketBroadcastIsolatedPerRoom(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostA := createUser(t, ts, "ada", "Ada")
	hostB := createUser(t, ts, "grace", "Grace")
	joiner := createUser(t, ts, "alan", "Alan")
	createRoom(t, ts, "AAA111", hostA)
	createRoom(t, ts, "BBB222", hostB)

	connA := dialWS(t, ts)
	defer connA.Close()
	bindWS(t, connA, "AAA111", hostA)

	connB := dialWS(t, ts)
	defer connB.Close()
	bindWS(t, connB, "BBB222", hostB)

	joinRoom(t, ts, "AAA111", joiner)

	event := readWSEvent(t, connA, 5*time.Second)
	if event["type"] != "player_joined" {
		t.Fatalf("expected player_joined in room AAA111, got %v", event["type"])
	}
	expectNoWSEvent(t, connB, 350*time.Millisecond)
}

func TestWebsocketGameStartedBroadcast(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostID := createUser(t, ts, "ada", "Ada")
	userID := createUser(t, ts, "grace", "Grace")
	createRoom(t, ts, "ABC123", hostID)
	joinRoom(t, ts, "ABC123", userID)

	conn := dialWS(t, ts)
	defer conn.Close()
	bindWS(t, conn, "ABC123", userID)

	startGame(t, ts, "ABC123", hostID)

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "game_started" {
		t.Fatalf("expected game_started, got %v", event["type"])
	}
	if uint(event["currentPlayerId"].(float64)) != hostID {
		t.Fatalf("expected currentPlayerId %d, got %v", hostID, event["currentPlayerId"])
	}
}

func TestWebsocketNewSubmissionHidesActualType(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostID := createUser(t, ts, "ada", "Ada")
	userID := createUser(t, ts, "grace", "Grace")
	createRoom(t, ts, "ABC123", hostID)
	joinRoom(t, ts, "ABC123", userID)
	startGame(t, ts, "ABC123", hostID)

	conn := dialWS(t, ts)
	defer conn.Close()
	bindWS(t, conn, "ABC123", userID)

	submitPhrase(t, ts, "ABC123", hostID, 1, "I once sang karaoke badly", "fabrication")

	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "new_submission" {
		t.Fatalf("expected new_submission, got %v", event["type"])
	}
	submission := event["submission"].(map[string]any)
	if submission["phrase"] != "I once sang karaoke badly" {
		t.Fatalf("expected phrase, got %v", submission["phrase"])
	}
	if uint(submission["playerId"].(float64)) != hostID {
		t.Fatalf("expected playerId %d, got %v", hostID, submission["playerId"])
	}
	if _, leaked := submission["actualType"]; leaked {
		t.Fatal("new_submission must not carry actualType")
	}
	if _, leaked := submission["actual_type"]; leaked {
		t.Fatal("new_submission must not carry actual_type")
	}
}

func TestWebsocketVoteNotBroadcast(t *testing.T) {
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	hostID := createUser(t, ts, "ada", "Ada")
	userID := createUser(t, ts, "grace", "Grace")
	createRoom(t, ts, "ABC123", hostID)
	joinRoom(t, ts, "ABC123", userID)
	startGame(t, ts, "ABC123", hostID)
	submissionID := submitPhrase(t, ts, "ABC123", hostID, 1, "I once sang karaoke badly", "truth")

	conn := dialWS(t, ts)
	defer conn.Close()
	bindWS(t, conn, "ABC123", hostID)

	castVote(t, ts, submissionID, userID, "truth")

	expectNoWSEvent(t, conn, 350*time.Millisecond)
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	return conn
}

func sendWS(t *testing.T, conn *websocket.Conn, message map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(message); err != nil {
		t.Fatalf("write websocket message: %v", err)
	}
}

// bindWS joins the connection into a room and consumes the resulting
// user_joined echo so later reads see only fresh broadcasts.
func bindWS(t *testing.T, conn *websocket.Conn, roomID string, userID uint) {
	t.Helper()
	sendWS(t, conn, map[string]any{
		"type":   "join_room",
		"roomId": roomID,
		"userId": userID,
	})
	event := readWSEvent(t, conn, 5*time.Second)
	if event["type"] != "user_joined" {
		t.Fatalf("expected user_joined after join_room, got %v", event["type"])
	}
}

func readWSEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var event map[string]any
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode websocket message: %v", err)
	}
	return event
}

func expectNoWSEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no websocket message within %s", timeout)
	} else {
		netErr, ok := err.(net.Error)
		if !ok || !netErr.Timeout() {
			t.Fatalf("expected websocket timeout, got %v", err)
		}
	}
}
