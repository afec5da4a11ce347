package courses_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/courses"
	"github.com/eregister/console/dates"
	"github.com/eregister/console/pagination"
	"github.com/stretchr/testify/require"
)

func TestCreateSendsCalendarDates(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/course", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	require.NoError(t, svc.Create(context.Background(), validForm()))

	// Timezone stripped, local midnight.
	require.Equal(t, "2025-03-01T00:00:00.000", body["enrollmentStart"])
	require.Equal(t, "2025-06-30T00:00:00.000", body["teachingEnd"])
}

func TestGetDecodesServiceDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/course/42", r.URL.Path)
		w.Write([]byte(`{
			"id": 42,
			"name": "Algorithms",
			"description": "Sorting and searching.",
			"enrollmentStart": "2025-01-01T00:00:00.000Z",
			"enrollmentEnd": "2025-01-10T00:00:00.000Z",
			"teachingStart": "2025-02-01T00:00:00.000Z",
			"teachingEnd": "2025-05-01T00:00:00.000Z",
			"createdByUserId": 3
		}`))
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	c, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), c.ID)
	require.Equal(t, dates.New(2025, time.February, 1), c.TeachingStart)
	require.Equal(t, int64(3), c.CreatedByUserID)
}

func TestCreateThenGetPreservesOrderingInvariant(t *testing.T) {
	var stored map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			stored["id"] = 1
			json.NewEncoder(w).Encode(stored)
		}
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	require.NoError(t, svc.Create(context.Background(), validForm()))

	c, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, c.EnrollmentStart.Before(c.EnrollmentEnd))
	require.True(t, c.EnrollmentEnd.Before(c.TeachingStart))
	require.True(t, c.TeachingStart.Before(c.TeachingEnd))
}

func TestDeleteIssuesExactlyOneCall(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	require.NoError(t, svc.Delete(context.Background(), 42))
	require.Equal(t, []string{"DELETE /course/42"}, calls)
}

func TestListCarriesQueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "intro", r.URL.Query().Get("search"))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(pagination.Page[courses.Course]{Page: 1, PageSize: 50, Total: 0})
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	q := pagination.DefaultQuery()
	q.Search = "intro"
	_, err := svc.List(context.Background(), q)
	require.NoError(t, err)
}

func TestServiceErrorSurfacesTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"course not found"}`))
	}))
	defer srv.Close()

	svc := courses.NewService(apiclient.New(srv.URL, apiclient.NoToken))
	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	require.Equal(t, "course not found", apiclient.UserMessage(err))
}
