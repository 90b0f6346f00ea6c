package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/testkit"
	"capturebox/internal/services/trackers/domain"
)

const personalDoc = `---
id: personal
name: Personal
context_type: personal
keywords: [home, health]
---
# Personal

## Action Items

- [ ] #action Buy milk #personal
`

func TestFS_ReadParsesFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testkit.WriteFile(t, dir, "personal.md", personalDoc)
	testkit.WriteFile(t, dir, "notes.txt", "ignored")
	testkit.WriteFile(t, dir, "Bad Name.md", "ignored, invalid id")

	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ts, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ts) != 1 {
		t.Fatalf("List = %+v", ts)
	}
	got := ts[0]
	if got.ID != "personal" || got.FriendlyName != "Personal" || got.ContextType != "personal" ||
		strings.Join(got.Keywords, ",") != "home,health" || got.Version == 0 {
		t.Fatalf("tracker = %+v", got)
	}
	if got.Document != personalDoc {
		t.Fatalf("document changed on read")
	}
}

func TestFS_WriteRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	if err := s.Write(ctx, domain.Tracker{ID: "work", FriendlyName: "Work", ContextType: "work"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	body := testkit.ReadFile(t, filepath.Join(dir, "work.md"))
	testkit.MustContain(t, body, "id: work")
	testkit.MustContain(t, body, "# Work\n")

	if err := s.Write(ctx, domain.Tracker{ID: "work"}); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("second create err = %v", err)
	}

	cur, err := s.Read(ctx, "work")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	stale := cur
	stale.Version--
	if err := s.Write(ctx, stale); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("stale write err = %v", err)
	}
	cur.Document += "\n## Notes & Context\n\nhello\n"
	if err := s.Write(ctx, cur); err != nil {
		t.Fatalf("update: %v", err)
	}
	testkit.MustContain(t, testkit.ReadFile(t, filepath.Join(dir, "work.md")), "hello")

	if _, err := s.Read(ctx, "nope"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing err = %v", err)
	}
	if _, err := s.Read(ctx, "../etc/passwd"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("traversal err = %v", err)
	}

	ents, _ := os.ReadDir(dir)
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestMemory_VersionRules(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemory(domain.Tracker{ID: "inbox", Document: "# Inbox\n"})

	cur, err := s.Read(ctx, "inbox")
	if err != nil || cur.Version != 1 {
		t.Fatalf("Read = %+v, %v", cur, err)
	}
	cur.Document = "# Inbox\n\n## Review Queue\n\n- x\n"
	if err := s.Write(ctx, cur); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(ctx, cur); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("replayed write err = %v", err)
	}
	if err := s.Write(ctx, domain.Tracker{ID: "inbox"}); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("create over existing err = %v", err)
	}
	if err := s.Write(ctx, domain.Tracker{ID: "fresh", FriendlyName: "Fresh"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh, _ := s.Read(ctx, "fresh")
	testkit.MustContain(t, fresh.Document, "# Fresh")

	ts, _ := s.List(ctx)
	if len(ts) != 2 || ts[0].ID != "fresh" || ts[1].ID != "inbox" {
		t.Fatalf("List order = %+v", ts)
	}
}

func TestReadMeta_Unclosed(t *testing.T) {
	t.Parallel()

	if _, err := fromDocument("x", "---\nid: x\n# no close\n"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
	tr, err := fromDocument("plain", "# Plain\n")
	if err != nil || tr.ID != "plain" {
		t.Fatalf("no frontmatter: %+v %v", tr, err)
	}
}

func TestParseSeed(t *testing.T) {
	t.Parallel()

	ts, err := ParseSeed([]byte(`
trackers:
  - id: personal
    name: Personal
    context_type: personal
    keywords: [home]
  - id: inbox
    name: Inbox
    context_type: system
`))
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(ts) != 2 || ts[0].FriendlyName != "Personal" || ts[1].ContextType != "system" {
		t.Fatalf("seed = %+v", ts)
	}

	bad := []string{
		"trackers:\n  - id: Bad Id\n",
		"trackers:\n  - id: a\n  - id: a\n",
		"trackers: [",
	}
	for _, b := range bad {
		if _, err := ParseSeed([]byte(b)); err == nil {
			t.Fatalf("accepted %q", b)
		}
	}
}
