package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// abortingCoach streams head and then drops the connection.
func abortingCoach(head string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(head))
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
}

func askOptionsFor(srv *httptest.Server, out *bytes.Buffer, output string) askOptions {
	return askOptions{
		question:  "How do I squat?",
		settings:  data.ChatSettings{Endpoint: srv.URL + "/api/chat", HeaderTimeout: 5 * time.Second},
		output:    output,
		out:       out,
		termWidth: 80,
	}
}

func TestAskMidStreamAbortLeavesOnlyTheApology(t *testing.T) {
	srv := abortingCoach("Squats are ")
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "reply.txt")
	var out bytes.Buffer
	err := askQuestion(context.Background(), askOptionsFor(srv, &out, output))
	require.Error(t, err)
	assert.Equal(t, service.ApologyText, err.Error())

	// Piped stdout cannot be taken back; the line is only terminated.
	assert.Equal(t, "Squats are \n", out.String())

	saved, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, service.ApologyText+"\n", string(saved))
}

func TestAskMidStreamAbortErasesTerminalText(t *testing.T) {
	srv := abortingCoach("Squats are ")
	defer srv.Close()

	var out bytes.Buffer
	opts := askOptionsFor(srv, &out, "")
	opts.tty = true
	err := askQuestion(context.Background(), opts)
	require.Error(t, err)

	got := out.String()
	require.True(t, strings.HasPrefix(got, "Squats are "))
	erase := strings.TrimPrefix(got, "Squats are ")
	assert.Contains(t, erase, "\x1b[2K")
	assert.True(t, strings.HasSuffix(erase, "\r"))
	assert.NotContains(t, got, service.ApologyText)
}

func TestAskStreamsCompleteReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, chunk := range []string{"Sit back, ", "chest up."} {
			w.Write([]byte(chunk))
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	output := filepath.Join(t.TempDir(), "reply.txt")
	var out bytes.Buffer
	require.NoError(t, askQuestion(context.Background(), askOptionsFor(srv, &out, output)))
	assert.Equal(t, "Sit back, chest up.\n", out.String())

	saved, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Sit back, chest up.\n", string(saved))
}

func TestRowsAbove(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  int
	}{
		{"Squats are ", 80, 0},
		{"line one\nline two", 80, 1},
		{"ends with newline\n", 80, 1},
		{strings.Repeat("x", 25), 10, 2},
		{strings.Repeat("x", 20), 10, 1},
		{strings.Repeat("x", 25), 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rowsAbove(tt.text, tt.width), "rowsAbove(%q, %d)", tt.text, tt.width)
	}
}
