package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"capturebox/internal/app"
	"capturebox/internal/platform/config"
	phttp "capturebox/internal/platform/net/http"
	classify "capturebox/internal/services/classify/domain"
	trackers "capturebox/internal/services/trackers/domain"
	trackersrepo "capturebox/internal/services/trackers/repo"

	"github.com/go-chi/chi/v5"
)

type fixedPort string

func (p fixedPort) Classify(context.Context, classify.Request) ([]byte, error) { return []byte(p), nil }

func newServer(t *testing.T) http.Handler {
	t.Helper()
	mem := trackersrepo.NewMemory(
		trackers.Tracker{ID: "inbox", ContextType: "system", Document: "# Inbox\n"},
		trackers.Tracker{ID: "personal", ContextType: "personal", Document: "# Personal\n"},
		trackers.Tracker{ID: "review", ContextType: "system", Document: "# Review\n"},
	)
	reply := fixedPort(`{"primary_tracker":"personal","confidence":0.9,"item_type":"action",
		"items":[{"tracker":"personal","item_type":"action","description":"Call the dentist"}]}`)
	a, err := app.New(context.Background(), config.New(), app.WithInference(reply), app.WithTrackerStore(mem))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	root := phttp.AdaptChi(chi.NewRouter())
	mods := Mount(root, Options{Config: config.New().Prefix("CORE_API_"), App: a, EnableSwagger: true})
	if len(mods) != 4 || mods[0].Name() != "meta" {
		t.Fatalf("mounted %d modules", len(mods))
	}
	return root.Mux()
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func TestMount_Meta(t *testing.T) {
	h := newServer(t)

	code, _ := do(t, h, http.MethodGet, "/api/v1/meta/health", "")
	if code != http.StatusOK {
		t.Fatalf("health status %d", code)
	}

	code, body := do(t, h, http.MethodGet, "/api/v1/meta/ready", "")
	var env struct {
		Data struct {
			Status   string `json:"status"`
			Trackers int    `json:"trackers"`
			Checks   []struct {
				Name, Status string
			} `json:"checks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if code != http.StatusOK || env.Data.Status != "ok" || env.Data.Trackers != 3 {
		t.Fatalf("ready = %d %+v", code, env.Data)
	}
	for _, c := range env.Data.Checks {
		if c.Status != "skipped" {
			t.Fatalf("disabled backend %s reported %s", c.Name, c.Status)
		}
	}

	if code, _ := do(t, h, http.MethodGet, "/api/v1/meta/version", ""); code != http.StatusOK {
		t.Fatalf("version status %d", code)
	}
}

func TestMount_CaptureAndDocs(t *testing.T) {
	h := newServer(t)

	code, body := do(t, h, http.MethodPost, "/api/v1/capture", `{"text":"Call the dentist tomorrow"}`)
	if code != http.StatusOK || !strings.Contains(string(body), `"primary_tracker":"personal"`) {
		t.Fatalf("capture = %d %s", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/v1/trackers/personal", "")
	if code != http.StatusOK || !strings.Contains(string(body), "#action Call the dentist") {
		t.Fatalf("tracker = %d %s", code, body)
	}

	code, body = do(t, h, http.MethodGet, "/api/docs/doc.json", "")
	if code != http.StatusOK {
		t.Fatalf("docs status %d", code)
	}
	for _, p := range []string{"/capture", "/review/{id}/actions", "/meta/ready", "/trackers"} {
		if !strings.Contains(string(body), `"`+p+`"`) {
			t.Fatalf("doc missing %s", p)
		}
	}
}
