package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestReady(t *testing.T) {
	t.Parallel()

	three := func() int { return 3 }
	cases := []struct {
		name   string
		deps   Deps
		status string
		checks int
	}{
		{"backends off", Deps{Trackers: three}, "ok", 2},
		{"backends up", Deps{PG: pinger{}, CH: pinger{}, Trackers: three}, "ok", 2},
		{"pg down", Deps{PG: pinger{err: errors.New("refused")}, Trackers: three}, "fail", 2},
		{"no trackers", Deps{Trackers: func() int { return 0 }}, "fail", 3},
	}
	for _, tc := range cases {
		h := &handlers{deps: tc.deps}
		out, err := h.ready(httptest.NewRequest("GET", "/meta/ready", nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		got := out.(ReadyResponse)
		if got.Status != tc.status || len(got.Checks) != tc.checks {
			t.Fatalf("%s: ready = %+v", tc.name, got)
		}
	}
}

func TestHealthAndService(t *testing.T) {
	t.Parallel()

	h := &handlers{deps: Deps{ServiceName: "capturebox-api", StartedAt: time.Now().Add(-time.Minute)}}
	out, _ := h.health(httptest.NewRequest("GET", "/meta/health", nil))
	if hr := out.(HealthResponse); !hr.OK || hr.Service != "capturebox-api" {
		t.Fatalf("health = %+v", hr)
	}
	out, _ = h.service(httptest.NewRequest("GET", "/meta/service", nil))
	if sr := out.(ServiceResponse); sr.Uptime < 59 {
		t.Fatalf("uptime = %d", sr.Uptime)
	}
}
