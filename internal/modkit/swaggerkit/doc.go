// Package swaggerkit serves Swagger UI over an OpenAPI document assembled
// from the routes each module describes
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// Route describes one endpoint for the served document
type Route struct {
	Method  string
	Path    string
	Tag     string
	Summary string
	// Query lists accepted query parameters
	Query []string
	// Body marks routes that take a JSON request body
	Body bool
}

// Info heads the document
type Info struct {
	Title   string
	Version string
	BaseURL string
}

var paramNames = strings.NewReplacer("{", "", "}", "")

// Document renders routes as an OpenAPI 3.0.3 document
func Document(info Info, routes []Route) map[string]any {
	paths := map[string]any{}
	sorted := append([]Route(nil), routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, rt := range sorted {
		node, ok := paths[rt.Path].(map[string]any)
		if !ok {
			node = map[string]any{}
			paths[rt.Path] = node
		}
		node[strings.ToLower(rt.Method)] = operation(rt)
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": info.Title, "version": info.Version},
		"servers": []any{map[string]any{"url": info.BaseURL}},
		"paths":   paths,
		"components": map[string]any{
			"schemas": map[string]any{"Envelope": envelopeSchema},
		},
	}
}

func operation(rt Route) map[string]any {
	var params []any
	for _, seg := range strings.Split(rt.Path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params = append(params, param(paramNames.Replace(seg), "path", true))
		}
	}
	for _, q := range rt.Query {
		params = append(params, param(q, "query", false))
	}

	ref := map[string]any{"$ref": "#/components/schemas/Envelope"}
	reply := func(desc string) map[string]any {
		return map[string]any{
			"description": desc,
			"content":     map[string]any{"application/json": map[string]any{"schema": ref}},
		}
	}
	op := map[string]any{
		"summary": rt.Summary,
		"responses": map[string]any{
			"200": reply("OK"),
			"400": reply("Bad Request"),
			"500": reply("Internal Server Error"),
		},
	}
	if rt.Tag != "" {
		op["tags"] = []any{rt.Tag}
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if rt.Body {
		op["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": map[string]any{"type": "object"}},
			},
		}
	}
	return op
}

func param(name, in string, required bool) map[string]any {
	return map[string]any{
		"name":     name,
		"in":       in,
		"required": required,
		"schema":   map[string]any{"type": "string"},
	}
}

var envelopeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "string"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
		"data":        map[string]any{},
	},
	"required": []any{"status_code", "status"},
}

func serveDocJSON(doc map[string]any) http.HandlerFunc {
	raw, err := json.Marshal(doc)
	return func(w http.ResponseWriter, _ *http.Request) {
		if err != nil {
			http.Error(w, "doc encode error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(raw)
	}
}
