package tone_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apresai/ikigen/internal/tone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RewriteFirstPerson(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req tone.AdjustRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Your ikigai is to inspire others.", req.IkigaiText)
		assert.Equal(t, "My Purpose", req.HeaderText)
		assert.Equal(t, tone.TargetFirstPerson, req.TargetVoice)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tone.AdjustResponse{
			AdjustedText: "My ikigai is to inspire others.",
			OriginalText: req.IkigaiText,
			HeaderText:   req.HeaderText,
			WasAdjusted:  true,
		})
	}))
	defer server.Close()

	c := tone.NewClient(server.URL, server.Client())
	got, err := c.RewriteFirstPerson(context.Background(), "Your ikigai is to inspire others.", "My Purpose")

	require.NoError(t, err)
	assert.Equal(t, "My ikigai is to inspire others.", got)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Failed to adjust tone"}`, http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"missing text", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"wasAdjusted":true}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := tone.NewClient(server.URL, server.Client())
			_, err := c.RewriteFirstPerson(context.Background(), "Your path.", "My Purpose")
			assert.Error(t, err)
		})
	}
}

func TestClient_WithEnhancerFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	e := tone.NewEnhancer(tone.NewClient(server.URL, server.Client()), 0, nil)
	got, err := e.Adjust(context.Background(), "Your ikigai is to help communities rediscover wonder.", "My Purpose")

	require.NoError(t, err)
	assert.Equal(t, "Your ikigai is to help communities rediscover wonder.", got.AdjustedText)
	assert.False(t, got.WasAdjusted)
}
