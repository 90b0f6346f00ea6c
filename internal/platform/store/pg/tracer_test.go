package pg

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"capturebox/internal/platform/logger"
	kit "capturebox/internal/platform/testkit"
)

func TestTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "error", Format: "json", Writer: &buf})
	tr := Tracer(log)

	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT\n   1", ElapsedUS: 1500})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "UPDATE x", Err: errors.New("deadlock")})

	out := buf.String()
	kit.MustContain(t, out, `"sql":"SELECT 1"`)
	kit.MustContain(t, out, `"elapsed_ms":1.5`)
	kit.MustContain(t, out, `"level":"warn"`)
	kit.MustContain(t, out, `"component":"pg"`)
}

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://nope"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(Config{URL: "postgres://u:p@localhost:5432/db", MaxConns: 7, AppName: "capturebox-api"})
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}
	if pc.MaxConns != 7 || pc.ConnConfig.RuntimeParams["application_name"] != "capturebox-api" {
		t.Fatalf("pool config = %d %v", pc.MaxConns, pc.ConnConfig.RuntimeParams)
	}
}
