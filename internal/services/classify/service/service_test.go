package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"capturebox/internal/core/entry"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/classify/domain"
	trackers "capturebox/internal/services/trackers/domain"
)

var at = time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)

var known = map[string]trackers.ContextEntry{
	"inbox":    {DisplayName: "Inbox"},
	"review":   {DisplayName: "Review"},
	"personal": {DisplayName: "Personal", ContextType: "life"},
	"work":     {DisplayName: "Work", ContextType: "job"},
}

type fakePort struct {
	reply string
	err   error
	panic any
	got   domain.Request
}

func (f *fakePort) Classify(_ context.Context, req domain.Request) ([]byte, error) {
	f.got = req
	if f.panic != nil {
		panic(f.panic)
	}
	return []byte(f.reply), f.err
}

func classify(t *testing.T, cfg Config, reply string, in domain.Input) domain.Result {
	t.Helper()
	if in.Timestamp.IsZero() {
		in.Timestamp = at
	}
	res, err := New(&fakePort{reply: reply}, cfg).Classify(context.Background(), in, known)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	return res
}

func TestClassify_ValidReply(t *testing.T) {
	t.Parallel()

	res := classify(t, Config{Threshold: DefaultThreshold}, `{
		"primary_tracker": "personal",
		"confidence": 0.92,
		"item_type": "action",
		"priority": "high",
		"keywords": ["dentist"],
		"reasoning": "health appointment",
		"items": [{
			"tracker": "personal",
			"item_type": "action",
			"priority": "high",
			"description": "Call the dentist",
			"due_date": "2026-10-17",
			"time_sensitive": true
		}]
	}`, domain.Input{Text: "call the dentist tomorrow"})

	if res.PrimaryTracker != "personal" || res.Confidence != 0.92 || res.RequiresReview || res.Fallback {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Items) != 1 {
		t.Fatalf("items = %+v", res.Items)
	}
	it := res.Items[0]
	if it.CanonicalText != "- [ ] #action Call the dentist #personal ⏫ 📅 2026-10-17" {
		t.Fatalf("canonical = %q", it.CanonicalText)
	}
	if !it.TimeSensitive || it.DueDate.Format("2006-01-02") != "2026-10-17" {
		t.Fatalf("item = %+v", it)
	}
}

func TestClassify_Coercion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		reply string
		check func(t *testing.T, r domain.Result)
	}{
		{"confidence clamped high", `{"primary_tracker":"work","confidence":7}`, func(t *testing.T, r domain.Result) {
			if r.Confidence != 1 {
				t.Fatalf("confidence = %v", r.Confidence)
			}
		}},
		{"confidence clamped low", `{"primary_tracker":"work","confidence":-3}`, func(t *testing.T, r domain.Result) {
			if r.Confidence != 0 || !r.RequiresReview {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"confidence missing", `{"primary_tracker":"work"}`, func(t *testing.T, r domain.Result) {
			if r.Confidence != 0.5 || !r.RequiresReview {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"confidence percent string", `{"primary_tracker":"work","confidence":"85%"}`, func(t *testing.T, r domain.Result) {
			if r.Confidence != 0.85 || r.RequiresReview {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"synonyms", `{"primary_tracker":"work","confidence":0.9,"item_type":"todo","priority":"urgent"}`, func(t *testing.T, r domain.Result) {
			if r.ItemType != entry.Action || r.Priority != entry.Critical || r.Items[0].ItemType != entry.Action {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"unknown labels", `{"primary_tracker":"work","confidence":0.9,"item_type":"banana","priority":"whenever"}`, func(t *testing.T, r domain.Result) {
			if r.ItemType != entry.Review || r.Priority != entry.Medium {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"camel case keys", `{"primaryTracker":"Work","confidence":0.8,"itemType":"reference","requiresReview":true}`, func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "work" || r.ItemType != entry.Reference || !r.RequiresReview {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"fenced json", "```json\n{\"primary_tracker\":\"personal\",\"confidence\":0.9}\n```", func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "personal" || r.Fallback {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"prose around json", "Sure! {\"primary_tracker\":\"work\",\"confidence\":0.9} hope that helps", func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "work" {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"unknown primary uses item tracker", `{"primary_tracker":"nope","confidence":0.9,"items":[{"tracker":"personal","description":"x"}]}`, func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "personal" {
				t.Fatalf("primary = %q", r.PrimaryTracker)
			}
		}},
		{"unknown everything goes to inbox", `{"primary_tracker":"nope","confidence":0.9,"items":[{"tracker":"also-nope","description":"x"}]}`, func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "inbox" || r.Items[0].Tracker != "inbox" {
				t.Fatalf("result = %+v", r)
			}
		}},
		{"item inherits top level", `{"primary_tracker":"work","confidence":0.9,"item_type":"someday","priority":"low","items":[{"description":"learn rust"}]}`, func(t *testing.T, r domain.Result) {
			it := r.Items[0]
			if it.ItemType != entry.Someday || it.Priority != entry.Low || it.Tracker != "work" {
				t.Fatalf("item = %+v", it)
			}
		}},
		{"invalid item type is review", `{"primary_tracker":"work","confidence":0.9,"item_type":"action","items":[{"item_type":"??","description":"x"}]}`, func(t *testing.T, r domain.Result) {
			if r.Items[0].ItemType != entry.Review {
				t.Fatalf("item = %+v", r.Items[0])
			}
		}},
		{"tags normalized and first wins", `{"primary_tracker":"work","confidence":0.9,"items":[{"item_type":"action","description":"ship it","tags":"#Deep Work, later"}]}`, func(t *testing.T, r domain.Result) {
			it := r.Items[0]
			if strings.Join(it.Tags, ",") != "deep-work,later" || !strings.Contains(it.CanonicalText, "#deep-work") {
				t.Fatalf("item = %+v", it)
			}
		}},
		{"completed tasks filtered", `{"primary_tracker":"work","confidence":0.9,"completed_tasks":[{"tracker":"work","description":"deploy"},{"tracker":"ghost","description":"x"},{"tracker":"work","description":" "}]}`, func(t *testing.T, r domain.Result) {
			if len(r.CompletedTasks) != 1 || r.CompletedTasks[0] != (domain.Completion{Tracker: "work", Description: "deploy"}) {
				t.Fatalf("completed = %+v", r.CompletedTasks)
			}
		}},
		{"wrong field types", `{"primary_tracker":42,"confidence":"high","items":"nope","keywords":7}`, func(t *testing.T, r domain.Result) {
			if r.PrimaryTracker != "inbox" || r.Confidence != 0.5 || len(r.Items) != 1 || r.Keywords != nil {
				t.Fatalf("result = %+v", r)
			}
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.check(t, classify(t, Config{Threshold: DefaultThreshold}, tc.reply, domain.Input{Text: "some capture"}))
		})
	}
}

func TestClassify_SynthesizesItem(t *testing.T) {
	t.Parallel()

	res := classify(t, Config{Threshold: DefaultThreshold}, `{"primary_tracker":"personal","confidence":0.9,"item_type":"activity"}`,
		domain.Input{Text: "  ran   5k  "})
	if len(res.Items) != 1 {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Items[0].CanonicalText != "- [2026-10-16 09:30] ran 5k" || res.Items[0].Tracker != "personal" {
		t.Fatalf("item = %+v", res.Items[0])
	}
}

func TestClassify_ForceContext(t *testing.T) {
	t.Parallel()

	res := classify(t, Config{Threshold: DefaultThreshold}, `{"primary_tracker":"personal","confidence":0.9,"items":[
		{"tracker":"personal","item_type":"action","description":"a"},
		{"tracker":"inbox","item_type":"action","description":"b"}]}`,
		domain.Input{Text: "a and b", ForceContext: "WORK"})

	if res.PrimaryTracker != "work" {
		t.Fatalf("primary = %q", res.PrimaryTracker)
	}
	for _, it := range res.Items {
		if it.Tracker != "work" {
			t.Fatalf("item not forced: %+v", it)
		}
	}
}

func TestClassify_Threshold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		threshold float64
		reply     string
		want      bool
	}{
		{"below default", DefaultThreshold, `{"primary_tracker":"work","confidence":0.6}`, true},
		{"above lowered", 0.5, `{"primary_tracker":"work","confidence":0.6}`, false},
		{"at threshold", 0.6, `{"primary_tracker":"work","confidence":0.6}`, false},
		{"zero never reviews", 0, `{"primary_tracker":"work","confidence":0.3}`, false},
		{"zero keeps explicit flag", 0, `{"primary_tracker":"work","confidence":0.3,"requires_review":true}`, true},
		{"out of range uses default", 1.5, `{"primary_tracker":"work","confidence":0.6}`, true},
		{"negative uses default", -1, `{"primary_tracker":"work","confidence":0.8}`, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(t, Config{Threshold: tc.threshold}, tc.reply, domain.Input{Text: "x"}).RequiresReview; got != tc.want {
				t.Fatalf("requiresReview = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassify_FailOpen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		port *fakePort
	}{
		{"port error", &fakePort{err: errors.New("quota exceeded")}},
		{"panic", &fakePort{panic: "nil map"}},
		{"bad json", &fakePort{reply: "I cannot help with that"}},
		{"array reply", &fakePort{reply: "[1,2]"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := New(tc.port, Config{FailOpen: true})
			res, err := svc.Classify(context.Background(), domain.Input{Text: "buy milk", Timestamp: at}, known)
			if err != nil {
				t.Fatalf("fail-open returned error: %v", err)
			}
			if !res.Fallback || !res.RequiresReview || res.Confidence != FallbackConfidence || res.Error == "" {
				t.Fatalf("result = %+v", res)
			}
			if res.PrimaryTracker != "inbox" || len(res.Items) != 1 {
				t.Fatalf("result = %+v", res)
			}
			if res.Items[0].CanonicalText != "- [ ] #review buy milk [2026-10-16] (confidence: 10%)" {
				t.Fatalf("canonical = %q", res.Items[0].CanonicalText)
			}
		})
	}
}

func TestClassify_FailOpenKeepsForcedTracker(t *testing.T) {
	t.Parallel()

	svc := New(&fakePort{err: errors.New("down")}, Config{FailOpen: true})
	res, err := svc.Classify(context.Background(), domain.Input{Text: "x", ForceContext: "work", Timestamp: at}, known)
	if err != nil || res.PrimaryTracker != "work" {
		t.Fatalf("res = %+v err = %v", res, err)
	}
}

func TestClassify_FailClosed(t *testing.T) {
	t.Parallel()

	svc := New(&fakePort{err: errors.New("down")}, Config{})
	if _, err := svc.Classify(context.Background(), domain.Input{Text: "x"}, known); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	svc = New(&fakePort{panic: "boom"}, Config{})
	if _, err := svc.Classify(context.Background(), domain.Input{Text: "x"}, known); !perr.IsCode(err, perr.ErrorCodePanic) {
		t.Fatalf("panic err = %v", err)
	}
}

func TestClassify_SendsContextAndTimestamp(t *testing.T) {
	t.Parallel()

	port := &fakePort{reply: `{}`}
	svc := New(port, Config{})
	svc.now = func() time.Time { return at }
	if _, err := svc.Classify(context.Background(), domain.Input{Text: "hello"}, known); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !port.got.Timestamp.Equal(at) || len(port.got.Trackers) != len(known) {
		t.Fatalf("request = %+v", port.got)
	}
}
