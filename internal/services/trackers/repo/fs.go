package repo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/trackers/domain"
)

var validID = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// FS stores one <id>.md file per tracker in a directory. Version is the
// file's modification time in nanoseconds.
type FS struct {
	dir string
}

// NewFS creates dir when missing
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "tracker dir %s", dir)
	}
	return &FS{dir: dir}, nil
}

func (s *FS) path(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", perr.InvalidArgf("invalid tracker id %q", id)
	}
	return filepath.Join(s.dir, id+".md"), nil
}

// List reads every tracker file, ordered by id
func (s *FS) List(ctx context.Context) ([]domain.Tracker, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list %s", s.dir)
	}
	var out []domain.Tracker
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := s.Read(ctx, strings.TrimSuffix(name, ".md"))
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Read loads one tracker file
func (s *FS) Read(_ context.Context, id string) (domain.Tracker, error) {
	p, err := s.path(id)
	if err != nil {
		return domain.Tracker{}, err
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Tracker{}, perr.NotFoundf("tracker %s", id)
	}
	if err != nil {
		return domain.Tracker{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read tracker %s", id)
	}
	st, err := os.Stat(p)
	if err != nil {
		return domain.Tracker{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "stat tracker %s", id)
	}
	t, err := fromDocument(id, string(raw))
	if err != nil {
		return domain.Tracker{}, err
	}
	// the file name is authoritative
	t.ID = id
	t.Version = st.ModTime().UnixNano()
	return t, nil
}

// Write replaces the tracker file through a temp file and rename.
// Version 0 creates; any other version must match the file on disk.
func (s *FS) Write(_ context.Context, t domain.Tracker) error {
	p, err := s.path(t.ID)
	if err != nil {
		return err
	}
	st, statErr := os.Stat(p)
	switch {
	case t.Version == 0 && statErr == nil:
		return perr.Conflictf("tracker %s already exists", t.ID)
	case t.Version != 0 && statErr != nil:
		return perr.Conflictf("tracker %s vanished", t.ID)
	case t.Version != 0 && st.ModTime().UnixNano() != t.Version:
		return perr.Conflictf("tracker %s changed since read", t.ID)
	}

	body, err := Render(t)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+t.ID+"-*.tmp")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write tracker %s", t.ID)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(body); err != nil {
		_ = tmp.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write tracker %s", t.ID)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "sync tracker %s", t.ID)
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "close tracker %s", t.ID)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rename tracker %s", t.ID)
	}
	return nil
}
