package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "capturebox/internal/platform/errors"
	phttp "capturebox/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Name string `json:"name" validate:"required"`
}

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	root := phttp.AdaptChi(chi.NewRouter())
	MountAPIV1(root, CommonStack(StackOptions{}), func(api Router) {
		MountUnder(api, "/things", nil, func(r Router) {
			Get(r, "/{id}", func(r *http.Request) (any, error) {
				if Param(r, "id") == "missing" {
					return nil, perr.NotFoundf("thing %s", Param(r, "id"))
				}
				return map[string]string{"id": Param(r, "id")}, nil
			})
			PostJSON(r, "/", func(_ *http.Request, in echoIn) (any, error) {
				return Created(in), nil
			})
			Delete(r, "/{id}", func(*http.Request) (any, error) { return NoContent(), nil })
		})
	})
	return root.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env Envelope
	if rec.Code != http.StatusNoContent {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	h := newAPI(t)
	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/api/v1/things/7", "", http.StatusOK},
		{http.MethodGet, "/api/v1/things/7/", "", http.StatusOK},
		{http.MethodGet, "/api/v1/things/missing", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/things", `{"name":"x"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/things", `{}`, http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/things/7", "", http.StatusNoContent},
	}
	for _, tc := range cases {
		rec, env := do(t, h, tc.method, tc.path, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s %s: status %d want %d body %s", tc.method, tc.path, rec.Code, tc.status, rec.Body.String())
		}
		if tc.status != http.StatusNoContent && env.StatusCode != tc.status {
			t.Fatalf("%s %s: envelope status %d", tc.method, tc.path, env.StatusCode)
		}
	}
}

func TestCommonStack_RejectsNonJSONBodies(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/things", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newAPI(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status %d", rec.Code)
	}
}
