// Package domain holds the tracker types and ports
package domain

// Tracker is one sectioned markdown document plus the metadata the
// classifier sees. Document is the full text, header block included.
type Tracker struct {
	ID           string   `json:"id"           yaml:"id"`
	FriendlyName string   `json:"friendly_name" yaml:"name"`
	ContextType  string   `json:"context_type" yaml:"context_type"`
	Keywords     []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Document     string   `json:"-"            yaml:"document,omitempty"`

	// Version is the optimistic lock token of stores that keep one
	Version int64 `json:"version" yaml:"-"`
}

// Name returns the friendly name, falling back to the id
func (t Tracker) Name() string {
	if t.FriendlyName != "" {
		return t.FriendlyName
	}
	return t.ID
}

// ContextEntry is what the classifier is told about one tracker
type ContextEntry struct {
	DisplayName    string   `json:"display_name"`
	ContextType    string   `json:"context_type"`
	SampleKeywords []string `json:"sample_keywords,omitempty"`
	RecentEntries  []string `json:"recent_entries,omitempty"`
}

// Summary is the list view of a tracker
type Summary struct {
	ID           string         `json:"id"`
	FriendlyName string         `json:"friendly_name"`
	ContextType  string         `json:"context_type"`
	Keywords     []string       `json:"keywords,omitempty"`
	Sections     map[string]int `json:"sections"`
}

// Well known tracker ids used by the fallback chains
const (
	ReviewID = "review"
	InboxID  = "inbox"
	SystemID = "system"
)
