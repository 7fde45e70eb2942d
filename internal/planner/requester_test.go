package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mixmateai/mixmate/config"
	"github.com/mixmateai/mixmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama serves the two endpoints the client uses.
type fakeOllama struct {
	healthStatus int
	chatStatus   int
	content      string
	rawBody      string
	delay        time.Duration

	received chatRequest
	chats    int
}

func (f *fakeOllama) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(f.healthStatus)
		_, _ = w.Write([]byte("Ollama is running"))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		f.chats++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.received))

		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.chatStatus != 0 && f.chatStatus != http.StatusOK {
			w.WriteHeader(f.chatStatus)
			_, _ = w.Write([]byte("model not loaded"))
			return
		}
		if f.rawBody != "" {
			_, _ = w.Write([]byte(f.rawBody))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   f.received.Model,
			"message": map[string]string{"role": "assistant", "content": f.content},
			"done":    true,
		})
	})
	return mux
}

func newTestRequester(t *testing.T, fake *fakeOllama, cfg config.OllamaConfig) *Requester {
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	return NewRequester(NewOllamaClient(cfg))
}

func TestRequestPlan(t *testing.T) {
	fake := &fakeOllama{
		healthStatus: http.StatusOK,
		content:      "```json\n" + validPlan + "\n```",
	}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	plan, err := requester.RequestPlan(context.Background(), "mix Believer into Kesariya")

	require.NoError(t, err)
	assert.Equal(t, []string{"Believer.mp3", "Kesariya.mp3"}, plan.Songs)
	assert.Equal(t, 1500, plan.CrossfadeMs)

	assert.Equal(t, "mistral", fake.received.Model)
	assert.False(t, fake.received.Stream)
	assert.Equal(t, "json", fake.received.Format)
	require.Len(t, fake.received.Messages, 2)
	assert.Equal(t, "system", fake.received.Messages[0].Role)
	assert.Contains(t, fake.received.Messages[0].Content, `"crossfade_ms"`)
	assert.Equal(t, "user", fake.received.Messages[1].Role)
	assert.Equal(t, "mix Believer into Kesariya", fake.received.Messages[1].Content)
}

func TestRequestPlanDefaultsCrossfade(t *testing.T) {
	fake := &fakeOllama{
		healthStatus: http.StatusOK,
		content:      `{"songs":["a.mp3","b.mp3"],"segments":[[0,20000],[10000,40000]]}`,
	}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	plan, err := requester.RequestPlan(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCrossfadeMs, plan.CrossfadeMs)
}

func TestRequestPlanUnhealthyModel(t *testing.T) {
	fake := &fakeOllama{healthStatus: http.StatusInternalServerError}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	plan, err := requester.RequestPlan(context.Background(), "anything")

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Equal(t, 0, fake.chats, "generation must not be attempted when the probe fails")
}

func TestRequestPlanUnreachableModel(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	requester := NewRequester(NewOllamaClient(config.OllamaConfig{BaseURL: url, Model: "mistral"}))

	_, err := requester.RequestPlan(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestRequestPlanChatFailure(t *testing.T) {
	fake := &fakeOllama{healthStatus: http.StatusOK, chatStatus: http.StatusNotFound}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	_, err := requester.RequestPlan(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestRequestPlanChatTimeout(t *testing.T) {
	fake := &fakeOllama{healthStatus: http.StatusOK, content: validPlan, delay: 200 * time.Millisecond}
	requester := newTestRequester(t, fake, config.OllamaConfig{RequestTimeout: 20 * time.Millisecond})

	_, err := requester.RequestPlan(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestRequestPlanMalformedEnvelope(t *testing.T) {
	fake := &fakeOllama{healthStatus: http.StatusOK, rawBody: `{"done":true}`}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	_, err := requester.RequestPlan(context.Background(), "anything")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRequestPlanInvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"prose", "Sure! Here is your mashup.", ErrMalformedResponse},
		{"mismatch", `{"songs":["a.mp3","b.mp3"],"segments":[[0,1000]]}`, domain.ErrPlanLengthMismatch},
		{"shape", `{"songs":"a.mp3","segments":[]}`, domain.ErrInvalidPlanShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOllama{healthStatus: http.StatusOK, content: tt.content}
			requester := newTestRequester(t, fake, config.OllamaConfig{})

			plan, err := requester.RequestPlan(context.Background(), "anything")

			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckLiveness(t *testing.T) {
	fake := &fakeOllama{healthStatus: http.StatusOK}
	requester := newTestRequester(t, fake, config.OllamaConfig{})

	assert.NoError(t, requester.CheckLiveness(context.Background()))
}
