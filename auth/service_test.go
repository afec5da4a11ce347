package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/auth"
	"github.com/eregister/console/users"
	"github.com/stretchr/testify/require"
)

func TestLoginFetchesProfileWithFreshToken(t *testing.T) {
	var profileAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			var creds auth.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, "staff@example.com", creds.Email)
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
		case "/profile":
			profileAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(users.Account{ID: 1, Name: "Jane", Email: "staff@example.com"})
		}
	}))
	defer srv.Close()

	svc := auth.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	res, err := svc.Login(context.Background(), "staff@example.com", "password123")

	require.NoError(t, err)
	require.Equal(t, "tok-1", res.Token)
	require.NotNil(t, res.User)
	require.Equal(t, "Jane", res.User.Name)
	require.Equal(t, "Bearer tok-1", profileAuth)
}

func TestLoginFailureReturnsServiceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	svc := auth.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	res, err := svc.Login(context.Background(), "staff@example.com", "wrong")

	require.Nil(t, res)
	require.Error(t, err)
	require.Equal(t, "invalid credentials", apiclient.UserMessage(err))
}

func TestFailedProfileFetchKeepsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-2"})
		case "/profile":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"profile store down"}`))
		}
	}))
	defer srv.Close()

	svc := auth.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	res, err := svc.Login(context.Background(), "staff@example.com", "password123")

	// Authenticated with a token but no profile: a valid session state.
	require.NoError(t, err)
	require.Equal(t, "tok-2", res.Token)
	require.Nil(t, res.User)
	require.Error(t, res.ProfileErr)
	require.Equal(t, "profile store down", apiclient.UserMessage(res.ProfileErr))
}

func TestCredentialsValidation(t *testing.T) {
	errs := auth.Credentials{}.Validate()
	require.True(t, errs.Has("email"))
	require.True(t, errs.Has("password"))

	errs = auth.Credentials{Email: "not-an-email", Password: "x"}.Validate()
	require.True(t, errs.Has("email"))
	require.False(t, errs.Has("password"))

	errs = auth.Credentials{Email: "staff@example.com", Password: "x"}.Validate()
	require.False(t, errs.Any())
}
