package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	perr "capturebox/internal/platform/errors"
)

// reply is the untrusted payload decoded loosely
type reply map[string]any

// decodeReply unwraps fenced or prose wrapped JSON and decodes an object
func decodeReply(raw []byte) (reply, error) {
	b := bytes.TrimSpace(raw)
	if bytes.HasPrefix(b, []byte("```")) {
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			b = b[i+1:]
		}
		b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	}
	if i, j := bytes.IndexByte(b, '{'), bytes.LastIndexByte(b, '}'); i >= 0 && j > i {
		b = b[i : j+1]
	}
	var r reply
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "classification reply")
	}
	if r == nil {
		return nil, perr.JSONErrf("classification reply is not an object")
	}
	return r, nil
}

// camel turns snake_case into camelCase
func camel(k string) string {
	parts := strings.Split(k, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// get reads a snake_case key, falling back to its camelCase spelling
func (r reply) get(key string) (any, bool) {
	if v, ok := r[key]; ok && v != nil {
		return v, true
	}
	v, ok := r[camel(key)]
	return v, ok && v != nil
}

func (r reply) str(key string) string {
	v, _ := r.get(key)
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

func (r reply) num(key string) (float64, bool) {
	v, _ := r.get(key)
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(x), "%")), 64)
		if err != nil {
			return 0, false
		}
		if strings.HasSuffix(strings.TrimSpace(x), "%") {
			p /= 100
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r reply) flag(key string) bool {
	v, _ := r.get(key)
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "1":
			return true
		}
	case float64:
		return x != 0
	}
	return false
}

func (r reply) strs(key string) []string {
	v, _ := r.get(key)
	var out []string
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(x, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func (r reply) objs(key string) []reply {
	v, _ := r.get(key)
	arr, _ := v.([]any)
	out := make([]reply, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, reply(m))
		}
	}
	return out
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"}

func (r reply) date(key string, loc *time.Location) (time.Time, bool) {
	s := r.str(key)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
