package module

import (
	"context"
	"testing"
	"time"

	"capturebox/internal/adapters/inference/gemini"
	"capturebox/internal/platform/config"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/classify/domain"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("CORE_CLASSIFY_CONFIDENCE_THRESHOLD", "0.55")
	t.Setenv("CORE_CLASSIFY_TIMEOUT", "3s")
	t.Setenv("CORE_CLASSIFY_FAIL_OPEN", "false")

	o := FromConfig(config.New())
	if o.Threshold != 0.55 || o.Timeout != 3*time.Second || o.FailOpen {
		t.Fatalf("options = %+v", o)
	}
	if o.InboxID != "inbox" || o.Model != gemini.DefaultModel || o.APIKey != "" {
		t.Fatalf("defaults = %+v", o)
	}
}

func TestNew_OfflineWithoutKey(t *testing.T) {
	t.Parallel()

	port, err := NewPort(context.Background(), Options{})
	if err != nil {
		t.Fatalf("NewPort: %v", err)
	}
	if _, ok := port.(gemini.Offline); !ok {
		t.Fatalf("port = %T, want offline", port)
	}

	svc, err := New(context.Background(), Options{FailOpen: false}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = svc.Classify(context.Background(), domain.Input{Text: "x"}, nil)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("offline classify err = %v", err)
	}
}
