package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/reflection"
	"github.com/apresai/ikigen/internal/server"
)

func reflectionGen() genFunc {
	return func(p insight.Prompt) (string, error) {
		switch {
		case p.JSON:
			return `{"ikigai": "You help people find their footing.", "meaning": "m", "suggestions": ["mentor"]}`, nil
		case strings.Contains(p.System, "first person"):
			return "I help people find their footing.", nil
		default:
			return "A step insight.", nil
		}
	}
}

func TestReflectionFlow(t *testing.T) {
	env := newTestEnv(t, reflectionGen(), nil)

	resp, body := env.do(t, http.MethodPost, "/api/reflections", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	base := "/api/reflections/" + id

	resp, body = env.do(t, http.MethodPost, base+"/summary", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "must be answered")

	for _, step := range reflection.Steps {
		resp, body = env.do(t, http.MethodPut, base+"/steps/"+string(step.ID), server.StepRequest{Answer: "answer for " + string(step.ID)})
		require.Equal(t, http.StatusOK, resp.StatusCode, step.ID)
		assert.Equal(t, "A step insight.", body["insight"])
	}

	resp, body = env.do(t, http.MethodPost, base+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "You help people find their footing.", body["summary"])
	assert.NotNil(t, body["structured"])

	resp, body = env.do(t, http.MethodPost, base+"/share", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["post"], "*I help people find their footing.*")

	resp, body = env.do(t, http.MethodPost, base+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://cdn.example/reflections/"+id+".json", body["url"])
	assert.Equal(t, "reflections/"+id+".json", env.s3.key)

	resp, body = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "answer for love", data["love"])
	assert.Equal(t, "A step insight.", body["insights"].(map[string]any)["goodAt"])

	resp, _ = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetStepWithoutInsight(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, body := env.do(t, http.MethodPost, "/api/reflections", nil)
	base := "/api/reflections/" + body["id"].(string)

	resp, body := env.do(t, http.MethodPut, base+"/steps/love?insight=false", server.StepRequest{Answer: "climbing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "insight")

	// Generation is not configured, but the answer is still saved.
	resp, _ = env.do(t, http.MethodPut, base+"/steps/goodAt", server.StepRequest{Answer: "patience"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, body = env.do(t, http.MethodGet, base, nil)
	data := body["data"].(map[string]any)
	assert.Equal(t, "climbing", data["love"])
	assert.Equal(t, "patience", data["goodAt"])
}

func TestReflectionErrors(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	_, body := env.do(t, http.MethodPost, "/api/reflections", nil)
	base := "/api/reflections/" + body["id"].(string)

	resp, _ := env.do(t, http.MethodPut, base+"/steps/hobbies", server.StepRequest{Answer: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/reflections/01ARZ3NDEKTSV4RRFFQ69G5FAV", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, base+"/share", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "reflection has no summary yet", body["error"])
}

func TestReflectionRoutesDisabledWithoutStore(t *testing.T) {
	s := server.NewWithDeps(server.Config{}, server.Deps{}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/reflections", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
