package emma

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/matryer/is"
)

type call struct {
	method string
	path   string
	body   any
}

// fakeAdapter satisfies api.Adapter for tests that exercise the object model
// without a network. Unconfigured paths answer like a 404 would.
type fakeAdapter struct {
	responses map[string]json.RawMessage
	calls     []call
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{responses: map[string]json.RawMessage{}}
}

func (f *fakeAdapter) respond(method, path, body string) {
	f.responses[method+" "+path] = json.RawMessage(body)
}

func (f *fakeAdapter) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return f.handle("GET", path, nil)
}

func (f *fakeAdapter) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.handle("POST", path, body)
}

func (f *fakeAdapter) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.handle("PUT", path, body)
}

func (f *fakeAdapter) Delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return f.handle("DELETE", path, nil)
}

func (f *fakeAdapter) handle(method, path string, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, call{method: method, path: path, body: body})

	raw, ok := f.responses[method+" "+path]
	if !ok {
		return nil, nil
	}

	return raw, nil
}

func (f *fakeAdapter) countCalls(method, path string) int {
	count := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			count++
		}
	}
	return count
}

func (f *fakeAdapter) lastBody(method, path string) map[string]any {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method && f.calls[i].path == path {
			body, _ := f.calls[i].body.(map[string]any)
			return body
		}
	}
	return nil
}

// setupAccount wires an account whose field collection recognizes first_name
// and last_name as export shortcuts.
func setupAccount(t *testing.T) (*is.I, *fakeAdapter, *Account) {
	is := is.New(t)

	adapter := newFakeAdapter()
	adapter.respond("GET", "/fields", `[
		{"field_id": 1, "shortcut_name": "first_name", "display_name": "First Name", "field_type": "text"},
		{"field_id": 2, "shortcut_name": "last_name", "display_name": "Last Name", "field_type": "text"}
	]`)

	return is, adapter, NewWithAdapter(adapter)
}
