// Package resourcetest holds helpers for exercising handlers over HTTP in tests.
package resourcetest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kuic/mq"
)

// Do sends a JSON request to h and decodes the JSON response body.
// A string body is sent verbatim.
func Do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, out
}

// Object returns payload[key] as a JSON object, failing the test otherwise.
func Object(t *testing.T, payload map[string]any, key string) map[string]any {
	t.Helper()
	obj, ok := payload[key].(map[string]any)
	if !ok {
		t.Fatalf("payload[%q] = %#v, want object", key, payload[key])
	}
	return obj
}

// List returns payload[key] as a JSON array of objects.
func List(t *testing.T, payload map[string]any, key string) []map[string]any {
	t.Helper()
	raw, ok := payload[key].([]any)
	if !ok {
		t.Fatalf("payload[%q] = %#v, want array", key, payload[key])
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		obj, _ := item.(map[string]any)
		out = append(out, obj)
	}
	return out
}

// ID returns the _id of a decoded document.
func ID(t *testing.T, doc map[string]any) string {
	t.Helper()
	id, ok := doc["_id"].(string)
	if !ok || id == "" {
		t.Fatalf("document has no _id: %#v", doc)
	}
	return id
}

// Recorder is a Publisher that keeps every change.
type Recorder struct {
	mu      sync.Mutex
	Changes []mq.Change
}

func (r *Recorder) Publish(_ context.Context, c mq.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Changes = append(r.Changes, c)
	return nil
}

// Methods lists the recorded change methods in order.
func (r *Recorder) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		out = append(out, c.Method)
	}
	return out
}
