package repo

import (
	"bytes"
	"strings"

	perr "capturebox/internal/platform/errors"
	"capturebox/internal/services/trackers/domain"

	"gopkg.in/yaml.v3"
)

// meta is the YAML frontmatter block heading a tracker document
type meta struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name,omitempty"`
	ContextType string   `yaml:"context_type,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// readMeta decodes the frontmatter of doc, ok is false when it has none
func readMeta(doc string) (meta, bool, error) {
	var m meta
	b := []byte(strings.ReplaceAll(doc, "\r\n", "\n"))
	if !bytes.HasPrefix(b, []byte("---\n")) {
		return m, false, nil
	}
	parts := bytes.SplitN(b[4:], []byte("\n---"), 2)
	if len(parts) != 2 {
		return m, false, perr.Validationf("frontmatter is not closed")
	}
	if err := yaml.Unmarshal(parts[0], &m); err != nil {
		return m, false, perr.Wrap(err, perr.ErrorCodeValidation, "frontmatter")
	}
	return m, true, nil
}

// fromDocument fills tracker metadata from doc's frontmatter, keeping
// fallbackID when the block names none
func fromDocument(fallbackID, doc string) (domain.Tracker, error) {
	t := domain.Tracker{ID: fallbackID, Document: doc}
	m, ok, err := readMeta(doc)
	if err != nil || !ok {
		return t, err
	}
	if m.ID != "" {
		t.ID = m.ID
	}
	t.FriendlyName, t.ContextType, t.Keywords = m.Name, m.ContextType, m.Keywords
	return t, nil
}

// Render returns t.Document, or a fresh document with frontmatter and a
// title when t has none yet
func Render(t domain.Tracker) (string, error) {
	if strings.TrimSpace(t.Document) != "" {
		return t.Document, nil
	}
	out, err := yaml.Marshal(meta{ID: t.ID, Name: t.FriendlyName, ContextType: t.ContextType, Keywords: t.Keywords})
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "frontmatter")
	}
	return "---\n" + string(out) + "---\n# " + t.Name() + "\n", nil
}
