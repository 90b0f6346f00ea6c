package entry

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Validation is the outcome of checking a rendered entry against its shape
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
}

const tagPattern = `#[a-z0-9_/][a-z0-9_/-]*`

var shapes = map[ItemType]*regexp.Regexp{
	Action: regexp.MustCompile(`^- \[[ x]\] #action (.+?) ` + tagPattern +
		`(?: (?:🔺|⏫|🔽))?(?: 📅 (\d{4}-\d{2}-\d{2}))?(?: ✅ (\d{4}-\d{2}-\d{2}))?$`),
	Activity:  regexp.MustCompile(`^- \[(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\] (.+)$`),
	Reference: regexp.MustCompile(`^- \*\*(.+?)\*\*:(?: .+?)? \[(\d{4}-\d{2}-\d{2})\]$`),
	Someday:   regexp.MustCompile(`^- \[[ x]\] #someday (.+?) \[(\d{4}-\d{2}-\d{2})\] ` + tagPattern + `$`),
	Review:    regexp.MustCompile(`^- \[[ x]\] #review (.+?) \[(\d{4}-\d{2}-\d{2})\] \(confidence: (\d{1,3})%\)$`),
}

// Validate checks that text is a well formed canonical entry for t
func Validate(text string, t ItemType) Validation {
	var issues []string
	add := func(s string) { issues = append(issues, s) }

	switch {
	case strings.TrimSpace(text) == "":
		add("entry is empty")
	case strings.ContainsAny(text, "\r\n"):
		add("entry spans multiple lines")
	case !t.Valid():
		add("unknown item type " + strconv.Quote(string(t)))
	}
	if len(issues) > 0 {
		return Validation{IsValid: false, Issues: issues}
	}

	m := shapes[t].FindStringSubmatch(text)
	if m == nil {
		add("does not match the " + string(t) + " entry shape")
		return Validation{IsValid: false, Issues: issues}
	}

	switch t {
	case Action:
		if strings.TrimSpace(m[1]) == "" {
			add("missing description")
		}
		for _, d := range m[2:] {
			if d != "" && !isDate(d) {
				add("invalid date " + d)
			}
		}
	case Activity:
		if _, err := time.Parse(stampLayout, m[1]); err != nil {
			add("invalid timestamp " + m[1])
		}
	case Reference:
		if strings.TrimSpace(m[1]) == "" {
			add("missing title")
		}
		if !isDate(m[2]) {
			add("invalid date " + m[2])
		}
	case Someday:
		if !isDate(m[2]) {
			add("invalid date " + m[2])
		}
	case Review:
		if !isDate(m[2]) {
			add("invalid date " + m[2])
		}
		if n, _ := strconv.Atoi(m[3]); n > 100 {
			add("confidence above 100%")
		}
	}
	return Validation{IsValid: len(issues) == 0, Issues: issues}
}
