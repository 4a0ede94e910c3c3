package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"heroworld/internal/engine"
)

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://example.com", true},
		{"https://evil.test", false},
		{"::not a url", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "http://example.com/api/sessions/x/stream", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := sameOrigin(req); got != tt.want {
			t.Errorf("sameOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

// readUntil reads messages until one of type want arrives
func readUntil(t *testing.T, conn *websocket.Conn, want string, match func(StreamMessage) bool) StreamMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() waiting for %q: %v", want, err)
		}
		if msg.Type == want && (match == nil || match(msg)) {
			return msg
		}
	}
}

func TestStreamFruitCatch(t *testing.T) {
	api := newTestAPI(t, 5)
	_, token := api.newPlayer(t)

	var sess sessionReply
	api.do(t, http.MethodPost, "/api/games/fruit_catch/sessions", token, nil, &sess)
	base := "/api/sessions/" + sess.ID
	api.do(t, http.MethodPost, base+"/difficulty", token, difficultyRequest{Difficulty: "easy"}, nil)
	if code := api.do(t, http.MethodPost, base+"/level", token, levelRequest{Level: 1}, nil); code != http.StatusOK {
		t.Fatalf("level status = %d", code)
	}

	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + base + "/stream"
	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v (response %v)", err, resp)
	}
	defer conn.Close()

	first := readUntil(t, conn, "frame", nil)
	if first.View == nil || first.View.Snapshot.State != engine.StateInRound || first.View.Snapshot.Field == nil {
		t.Fatalf("first frame = %+v, want an in-round field", first.View)
	}

	steer := engine.Action{Kind: engine.ActionSteer, X: 30}
	if err := conn.WriteJSON(StreamMessage{Type: "act", Action: &steer}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	readUntil(t, conn, "result", nil)
	readUntil(t, conn, "frame", func(m StreamMessage) bool {
		return m.View.Snapshot.Field != nil && m.View.Snapshot.Field.Player == 30
	})

	pad := 0
	if err := conn.WriteJSON(StreamMessage{Type: "press", Pad: &pad}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if msg := readUntil(t, conn, "error", nil); msg.Error == "" {
		t.Error("press on a continuous game returned an empty error")
	}

	if code := api.do(t, http.MethodDelete, base, token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	readUntil(t, conn, "closed", nil)
}

func TestStreamRequiresPlayer(t *testing.T) {
	api := newTestAPI(t, 5)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/missing/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() without token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Dial() response = %v, want %d", resp, http.StatusUnauthorized)
	}
}
