package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfiles struct {
	p   *data.UserProfile
	err error
}

func (s stubProfiles) Load() (*data.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.p == nil {
		return nil, data.ErrNoProfile
	}
	return s.p, nil
}

// fakeReplier emits chunks and then returns err.
type fakeReplier struct {
	chunks []string
	err    error

	mu     sync.Mutex
	system string
	msgs   []WireMessage
}

func (f *fakeReplier) Name() string { return "fake" }

func (f *fakeReplier) StreamReply(ctx context.Context, system string, msgs []WireMessage, emit func(string) error) error {
	f.mu.Lock()
	f.system = system
	f.msgs = msgs
	f.mu.Unlock()
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeReplier) lastSystem() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.system
}

func postChat(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, routeChat, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleChatRejectsBadRequests(t *testing.T) {
	replier := &fakeReplier{chunks: []string{"unused"}}
	h := NewServer("", replier, nil).Handler()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `{"messages":`, "invalid JSON body"},
		{"no messages", `{"messages":[]}`, "messages must not be empty"},
		{"bad role", `{"messages":[{"role":"system","content":"x"}]}`, "invalid role"},
		{"last from assistant", `{"messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"yo"}]}`, "last message must come from the user"},
		{"blank question", `{"messages":[{"role":"user","content":"  "}]}`, "must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.want)
		})
	}
}

func TestValidateChatRequestLimit(t *testing.T) {
	msgs := make([]WireMessage, maxChatMessages+1)
	for i := range msgs {
		msgs[i] = WireMessage{Role: RoleUser, Content: "x"}
	}
	assert.Error(t, validateChatRequest(ChatRequest{Messages: msgs}))
	assert.NoError(t, validateChatRequest(ChatRequest{Messages: msgs[:maxChatMessages]}))
}

func TestHandleChatStreamsPlainText(t *testing.T) {
	replier := &fakeReplier{chunks: []string{"Keep ", "your ", "back ", "straight."}}
	profiles := stubProfiles{p: &data.UserProfile{Name: "Sam", Goal: "strength"}}
	h := NewServer("", replier, profiles).Handler()

	w := postChat(t, h, `{"messages":[{"role":"user","content":"deadlift tips?"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, chatContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "Keep your back straight.", w.Body.String())
	assert.Contains(t, replier.lastSystem(), "Name: Sam")
	assert.Contains(t, replier.lastSystem(), "Goal: Get stronger")
}

func TestHandleChatEmptyReply(t *testing.T) {
	h := NewServer("", &fakeReplier{}, nil).Handler()
	w := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleChatFailureBeforeFirstByte(t *testing.T) {
	h := NewServer("", &fakeReplier{err: errors.New("upstream 429")}, nil).Handler()
	w := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "reply generation failed")
}

func TestHandleChatEmptyChunksDoNotCommitHeaders(t *testing.T) {
	h := NewServer("", &fakeReplier{chunks: []string{"", ""}, err: errors.New("upstream 500")}, nil).Handler()
	w := postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "reply generation failed")

	h = NewServer("", &fakeReplier{chunks: []string{"", "Rest ", "", "well."}}, nil).Handler()
	w = postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rest well.", w.Body.String())
}

func TestHandleChatFailureMidStreamAbortsConnection(t *testing.T) {
	replier := &fakeReplier{chunks: []string{"Start with ", "three sets "}, err: errors.New("upstream went away")}
	srv := httptest.NewServer(NewServer("", replier, nil).Handler())
	defer srv.Close()

	body, _ := json.Marshal(ChatRequest{Messages: []WireMessage{{Role: RoleUser, Content: "plan?"}}})
	resp, err := http.Post(srv.URL+routeChat, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = io.ReadAll(resp.Body)
	assert.Error(t, err, "a truncated reply must not look complete")

	// The chat client turns the broken stream into a failed turn.
	a := NewAssembler(nil, NewHTTPTransport(srv.URL+routeChat, time.Second), nil)
	turn, err := a.Submit(context.Background(), "plan?")
	require.NoError(t, err)
	assert.Equal(t, TurnFailed, turn.State)
	assert.Equal(t, ApologyText, turn.Content)
}

func TestHealthAndMetrics(t *testing.T) {
	h := NewServer("", &fakeReplier{chunks: []string{"ok"}}, nil).Handler()
	postChat(t, h, `{"messages":[{"role":"user","content":"hi"}]}`)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, routeHealth, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "fake", health["backend"])

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, routeMetrics, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitbot_chat_replies_total")
	assert.Contains(t, w.Body.String(), "fitbot_http_requests_total")
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer("127.0.0.1:0", &fakeReplier{}, nil)

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
