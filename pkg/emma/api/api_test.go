package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	emmaerrors "github.com/myemma/emma-go/pkg/emma/errors"

	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var anyInput = expects.AnyInput
var method = expects.RequestMethod
var path = expects.RequestPath
var body = expects.RequestBody

func TestGet(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodGet),
			path("/1234/members/5/groups"),
			BasicAuth("pub", "priv"),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`[{"group_name":"VIP","group_id":1}]`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	result, err := a.Get(context.Background(), "/members/5/groups", nil)

	is.NoErr(err)
	is.Equal(string(result), `[{"group_name":"VIP","group_id":1}]`)
}

func TestGetEncodesParams(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			path("/1234/members"),
			QueryParamEquals("deleted", "true"),
		),
		Returns(
			response.Code(http.StatusOK),
			response.Body([]byte(`[]`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	params := url.Values{}
	params.Set("deleted", "true")

	_, err := a.Get(context.Background(), "/members", params)
	is.NoErr(err)
}

func TestGetTranslatesNotFoundToNil(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(response.Code(http.StatusNotFound)),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	result, err := a.Get(context.Background(), "/members/99", nil)

	is.NoErr(err)
	is.True(result == nil)
}

func TestGetFailsOnServerError(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(is, anyInput()),
		Returns(
			response.Code(http.StatusInternalServerError),
			response.Body([]byte(`{"error":"boom"}`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	_, err := a.Get(context.Background(), "/members", nil)

	is.True(errors.Is(err, emmaerrors.ErrRequestFailed))

	rfe := &emmaerrors.RequestFailedError{}
	is.True(errors.As(err, &rfe))
	is.Equal(rfe.StatusCode, http.StatusInternalServerError)
	is.Equal(string(rfe.Body), `{"error":"boom"}`)
}

func TestPostSendsJSONBody(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPost),
			path("/1234/members/add"),
			body(`{"email":"a@b.com"}`),
		),
		Returns(
			response.ContentType("application/json"),
			response.Code(http.StatusOK),
			response.Body([]byte(`{"added":true,"member_id":55,"status":"a"}`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	result, err := a.Post(context.Background(), "/members/add", map[string]any{"email": "a@b.com"})

	is.NoErr(err)
	is.True(result != nil)
	is.Equal(s.RequestCount(), 1)
}

func TestPutWithoutBody(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPut),
			path("/1234/members/email/optout/a@b.com"),
			body(""),
		),
		Returns(
			response.Code(http.StatusOK),
			response.Body([]byte(`true`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	result, err := a.Put(context.Background(), "/members/email/optout/a@b.com", nil)

	is.NoErr(err)
	is.Equal(string(result), "true")
}

func TestDelete(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodDelete),
			path("/1234/members/55"),
		),
		Returns(
			response.Code(http.StatusOK),
			response.Body([]byte(`true`)),
		),
	)
	defer s.Close()

	a := New("1234", "pub", "priv", BaseURL(s.URL()))

	result, err := a.Delete(context.Background(), "/members/55", nil)

	is.NoErr(err)
	is.Equal(string(result), "true")
}

func BasicAuth(username, password string) func(*is.I, *http.Request) {
	return func(is *is.I, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		is.True(ok) // request should carry basic credentials
		is.Equal(user, username)
		is.Equal(pass, password)
	}
}

func QueryParamEquals(name, value string) func(*is.I, *http.Request) {
	return func(is *is.I, r *http.Request) {
		is.True(r.URL.Query().Has(name))         // query param should exist
		is.Equal(r.URL.Query().Get(name), value) // query param should match
	}
}
