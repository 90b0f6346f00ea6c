package logger

import (
	"bytes"
	"context"
	"testing"

	kit "capturebox/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"DEBUG":     zerolog.DebugLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"":          zerolog.InfoLevel,
		" garbage ": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{
		Level:        "debug",
		Format:       "json",
		Service:      "capturebox",
		Component:    "capture",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})
	l.Info().Str("tracker", "work").Msg("committed")

	out := buf.String()
	for _, want := range []string{`"service":"capturebox"`, `"component":"capture"`, `"build":"test"`, `"tracker":"work"`, `"message":"committed"`} {
		kit.MustContain(t, out, want)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "json", Writer: &buf})
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}
}

func TestC_ContextTags(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: "json", Writer: &buf})

	ctx := WithRequest(context.Background(), "req-1")
	ctx = WithCapture(ctx, "cap-9")
	ctx = WithTracker(ctx, "")
	C(ctx).Info().Msg("tagged")
	Named("review").Info().Msg("named")
	For(WithTracker(ctx, "work"), "trackers").Info().Msg("scoped")

	out := buf.String()
	if len(out) == 0 {
		t.Skip("root logger was initialised elsewhere")
	}
	kit.MustContain(t, out, `"request_id":"req-1"`)
	kit.MustContain(t, out, `"capture_id":"cap-9"`)
	kit.MustContain(t, out, `"component":"review"`)
	kit.MustContain(t, out, `"tracker":"work","component":"trackers"`)
	if first, _, _ := bytes.Cut(buf.Bytes(), []byte("\n")); bytes.Contains(first, []byte(`"tracker"`)) {
		t.Fatalf("empty tracker tag should be omitted: %s", first)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if opt.Service != "capturebox" {
		t.Fatalf("default service = %q", opt.Service)
	}
}
