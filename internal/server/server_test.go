package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
	"github.com/apresai/ikigen/internal/server"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

type genFunc func(insight.Prompt) (string, error)

func (f genFunc) Complete(_ context.Context, p insight.Prompt) (string, error) { return f(p) }

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

type fakeS3 struct{ key string }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = *in.Key
	return &s3.PutObjectOutput{}, nil
}

type testEnv struct {
	srv   *httptest.Server
	store reflection.Store
	s3    *fakeS3
}

// newTestEnv always picks the first header ("✨ My Ikigai ✨") and CTA.
func newTestEnv(t *testing.T, gen insight.Generator, rewriter tone.Rewriter) *testEnv {
	t.Helper()

	var svc *insight.Service
	if gen != nil {
		svc = insight.NewService(gen, nil, nil)
		svc.SetRetry(1, 0)
	} else {
		svc = insight.NewService(nil, nil, nil)
	}
	if rewriter == nil && gen != nil {
		rewriter = svc
	}
	enh := tone.NewEnhancer(rewriter, time.Second, nil)

	store, err := reflection.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s3c := &fakeS3{}

	s := server.NewWithDeps(server.Config{SiteURL: "https://ikigen.example"}, server.Deps{
		Insight:  svc,
		Enhancer: enh,
		Composer: share.NewComposer(share.NewSelector(share.DefaultTemplates(), fixedRand(0)), enh, nil),
		Store:    store,
		Exporter: reflection.NewExporter(s3c, "bucket", "https://cdn.example"),
	}, nil)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{srv: ts, store: store, s3: s3c}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	resp, body := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestInsightEndpoint(t *testing.T) {
	gen := genFunc(func(p insight.Prompt) (string, error) {
		if strings.Contains(p.User, "quota please") {
			return "", &insight.StatusError{StatusCode: 429, Body: "quota"}
		}
		return "You find joy in making.", nil
	})
	env := newTestEnv(t, gen, nil)

	resp, body := env.do(t, http.MethodPost, "/api/insight", insight.Request{Input: "I build furniture", Context: insight.ContextLove})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "You find joy in making.", body["summary"])

	resp, body = env.do(t, http.MethodPost, "/api/insight", insight.Request{Input: " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "input text is required", body["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/insight", insight.Request{Input: "quota please"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestInsightEndpointNotConfigured(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	resp, body := env.do(t, http.MethodPost, "/api/insight", insight.Request{Input: "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "insight generation is not configured", body["error"])
}

func TestInsightEndpointBadJSON(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	resp, err := http.Post(env.srv.URL+"/api/insight", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToneAdjustEndpoint(t *testing.T) {
	gen := genFunc(func(p insight.Prompt) (string, error) {
		if strings.Contains(p.User, "fail") {
			return "", errors.New("upstream down")
		}
		return "I hold space for others.", nil
	})
	env := newTestEnv(t, gen, nil)

	resp, body := env.do(t, http.MethodPost, "/api/tone-adjust", tone.AdjustRequest{
		IkigaiText:  "You hold space for others.",
		HeaderText:  "✨ My Ikigai ✨",
		TargetVoice: tone.TargetFirstPerson,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "I hold space for others.", body["adjustedText"])
	assert.Equal(t, "You hold space for others.", body["originalText"])
	assert.Equal(t, "✨ My Ikigai ✨", body["headerText"])
	assert.Equal(t, true, body["wasAdjusted"])

	resp, body = env.do(t, http.MethodPost, "/api/tone-adjust", tone.AdjustRequest{HeaderText: "My Why"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ikigaiText is required", body["error"])

	resp, _ = env.do(t, http.MethodPost, "/api/tone-adjust", tone.AdjustRequest{IkigaiText: "fail", HeaderText: "My Why"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestToneClientAgainstServer(t *testing.T) {
	gen := genFunc(func(insight.Prompt) (string, error) { return "I am a lighthouse.", nil })
	env := newTestEnv(t, gen, nil)

	client := tone.NewClient(env.srv.URL+"/api/tone-adjust", nil)
	enh := tone.NewEnhancer(client, time.Second, nil)
	res, err := enh.Adjust(context.Background(), "You are a lighthouse.", "💡 What Drives Me")
	require.NoError(t, err)
	assert.True(t, res.WasAdjusted)
	assert.Equal(t, "I am a lighthouse.", res.AdjustedText)
}

func TestShareEndpoint(t *testing.T) {
	gen := genFunc(func(insight.Prompt) (string, error) { return `"I turn noise into music."`, nil })
	env := newTestEnv(t, gen, nil)

	resp, body := env.do(t, http.MethodPost, "/api/share", server.ShareRequest{Insight: "You turn noise into music."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cta := share.DefaultTemplates().CallsToAction[0]
	assert.Equal(t, "✨ My Ikigai ✨\n\n*I turn noise into music.*\n\n"+cta, body["post"])
	assert.Equal(t, true, body["wasAdjusted"])
	assert.Equal(t, "https://www.linkedin.com/sharing/share-offsite/?url=https%3A%2F%2Fikigen.example", body["shareUrl"])
}

func TestShareEndpointRuleFallback(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp, body := env.do(t, http.MethodPost, "/api/share", server.ShareRequest{Insight: "Your craft is your compass."})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["post"], "*My craft is my compass.*")
	assert.Equal(t, true, body["wasAdjusted"])
}

func TestStepsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	resp, err := http.Get(env.srv.URL + "/api/steps")
	require.NoError(t, err)
	defer resp.Body.Close()

	var steps []reflection.Step
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&steps))
	assert.Len(t, steps, 4)
	assert.Equal(t, reflection.StepLove, steps[0].ID)
}
