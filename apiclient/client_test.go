package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/eregister/console/apiclient"
	"github.com/stretchr/testify/require"
)

func TestTokenSourceInjectsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	source := apiclient.TokenSourceFunc(func(context.Context) string { return "abc123" })
	c := apiclient.New(srv.URL, source)

	var out struct{}
	require.NoError(t, c.Get(context.Background(), "profile", &out))
	require.Equal(t, "Bearer abc123", gotAuth)
}

func TestMissingTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.NoToken)
	require.NoError(t, c.Get(context.Background(), "course", nil))
	require.Empty(t, gotAuth)
}

func TestWithBearerOverridesSource(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	source := apiclient.TokenSourceFunc(func(context.Context) string { return "stale" })
	c := apiclient.New(srv.URL, source)

	require.NoError(t, c.Get(context.Background(), "profile", nil, apiclient.WithBearer("fresh")))
	require.Equal(t, "Bearer fresh", gotAuth)
}

func TestServiceErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.NoToken)
	err := c.Post(context.Background(), "auth", map[string]string{}, nil)

	require.Error(t, err)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.Equal(t, "invalid credentials", apiclient.UserMessage(err))
}

func TestServiceErrorFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>proxy error</html>`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.NoToken)
	err := c.Get(context.Background(), "course/1", nil)

	require.Error(t, err)
	require.Equal(t, apiclient.FallbackMessage, apiclient.UserMessage(err))
}

func TestCancelledRequestIsDistinguishable(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := apiclient.New(srv.URL, apiclient.NoToken)

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()
	err := c.Get(ctx, "course", nil)

	require.Error(t, err)
	require.True(t, apiclient.IsCanceled(err))
}

func TestWithQueryEncodesParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, apiclient.NoToken)
	q := url.Values{}
	q.Set("search", "intro")
	q.Set("page", "1")

	require.NoError(t, c.Get(context.Background(), "course", nil, apiclient.WithQuery(q)))
	require.Equal(t, "intro", gotQuery.Get("search"))
	require.Equal(t, "1", gotQuery.Get("page"))
}
