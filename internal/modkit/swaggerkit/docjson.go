// Package swaggerkit serves the OpenAPI document and Swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"textguard/internal/platform/config"
	perr "textguard/internal/platform/errors"

	docs "textguard/internal/services/api/docs"
)

// SpecMutator edits the decoded document before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// seam
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a mutator; modules call it from their constructors
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// defaultErrors are attached to every operation that does not document them
var defaultErrors = []struct {
	status string
	code   perr.ErrorCode
	msg    string
}{
	{"400", perr.ErrorCodeValidation, "text is a required field"},
	{"401", perr.ErrorCodeUnauthorized, "missing bearer token"},
	{"500", perr.ErrorCodePanic, "internal error"},
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		decorate(spec, config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""))
		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// decorate pins the version the UI renders, sets the server and title and
// fills in the error envelope
func decorate(spec map[string]any, titleSuffix string) {
	// the bundled UI cannot render 3.1
	delete(spec, "swagger")
	if v, _ := spec["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": "/api/v1"}}
	}
	if info, ok := spec["info"].(map[string]any); ok && titleSuffix != "" {
		if title, ok := info["title"].(string); ok {
			info["title"] = title + " " + titleSuffix
		}
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema()
	}
	for _, d := range defaultErrors {
		status := perr.HTTPStatusCode(d.code)
		resp := errorResponse(http.StatusText(status), status, d.code, d.msg)
		eachOperation(spec, func(op map[string]any) {
			responses := child(op, "responses")
			if _, ok := responses[d.status]; !ok {
				responses[d.status] = resp
			}
		})
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func eachOperation(spec map[string]any, fn func(op map[string]any)) {
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		methods, _ := p.(map[string]any)
		for _, op := range methods {
			if o, ok := op.(map[string]any); ok {
				fn(o)
			}
		}
	}
}

func errorSchema() map[string]any {
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "integer", "format": "int32"}
	return map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": num,
			"status":      str,
			"code":        num,
			"error":       str,
			"field":       str,
			"request_id":  str,
		},
		"required": []any{"status_code", "status"},
	}
}

func errorResponse(desc string, status int, code perr.ErrorCode, msg string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      desc,
					"code":        int(code),
					"error":       msg,
					"request_id":  "host/abc-000001",
				},
			},
		},
	}
}
