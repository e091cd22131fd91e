package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/myemma/emma-go/internal/pkg/application/relay"
	"github.com/myemma/emma-go/internal/pkg/infrastructure/router"
)

const policy string = `
package emma.authz

default allow = false

allow = response {
	input.token == "supersecret"
	response := {
		"account": input.account,
	}
}
`

type fakeRelay struct {
	handled []string
	err     error
}

func (f *fakeRelay) Handle(ctx context.Context, accountID, eventName string, data json.RawMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.handled = append(f.handled, accountID+"/"+eventName)
	return "event-1", nil
}

func setupServer(t *testing.T, app relay.Relay) (*is.I, *httptest.Server) {
	is := is.New(t)

	r := router.New("webhook-relay")
	err := RegisterHandlers(context.Background(), r, strings.NewReader(policy), app)
	is.NoErr(err)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return is, server
}

func postEvent(is *is.I, server *httptest.Server, token, body string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, server.URL+"/webhooks/emma", bytes.NewBufferString(body))
	is.NoErr(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	return resp
}

func TestReceiveEventStoresAndResponds(t *testing.T) {
	app := &fakeRelay{}
	is, server := setupServer(t, app)

	resp := postEvent(is, server, "supersecret", `{"event_name":"member_signup","account_id":"1234","data":{"email":"a@b.com"}}`)

	is.Equal(resp.StatusCode, http.StatusCreated)
	is.Equal(app.handled, []string{"1234/member_signup"})
}

func TestReceiveEventRejectsBadToken(t *testing.T) {
	app := &fakeRelay{}
	is, server := setupServer(t, app)

	resp := postEvent(is, server, "wrongtoken", `{"event_name":"member_signup","account_id":"1234"}`)

	is.Equal(resp.StatusCode, http.StatusUnauthorized)
	is.Equal(len(app.handled), 0)
}

func TestReceiveEventRejectsMalformedBody(t *testing.T) {
	app := &fakeRelay{}
	is, server := setupServer(t, app)

	resp := postEvent(is, server, "supersecret", `{"event_name":""}`)

	is.Equal(resp.StatusCode, http.StatusBadRequest)
	is.Equal(len(app.handled), 0)
}

func TestReceiveEventAcknowledgesUnacceptedEvents(t *testing.T) {
	app := &fakeRelay{err: relay.ErrEventNotAccepted}
	is, server := setupServer(t, app)

	resp := postEvent(is, server, "supersecret", `{"event_name":"member_signup","account_id":"9999"}`)

	is.Equal(resp.StatusCode, http.StatusNoContent)
}
