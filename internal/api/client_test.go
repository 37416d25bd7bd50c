package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestBearerHeaderFollowsTokenSource(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	token := ""
	client := New(srv.URL, time.Second, func() string { return token }, testLogger())

	_, err := client.Villages(context.Background())
	require.NoError(t, err)

	token = "abc123"
	_, err = client.Villages(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0], "no header without a session")
	assert.Equal(t, "Bearer abc123", seen[1])
}

func TestErrorStatusSurfacesAsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Insufficient role"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, func() string { return "tok" }, testLogger())
	err := client.VerifyPrivilege(context.Background())

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusForbidden, serr.Code)
	assert.Contains(t, serr.Body, "Insufficient role")
}

func TestWeatherLookupFormatsQuery(t *testing.T) {
	var path, query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.RawQuery
		_, _ = w.Write([]byte("Partly cloudy +29°C\n"))
	}))
	defer srv.Close()

	wc := NewWeatherClient(srv.URL, "Malaysia", time.Second)
	text, err := wc.Lookup(context.Background(), "Kampung Seri Aman")
	require.NoError(t, err)

	assert.Equal(t, "Partly cloudy +29°C", text, "trailing whitespace is trimmed")
	assert.Equal(t, "/Kampung Seri Aman, Malaysia", path)
	assert.Equal(t, "format=%C+%t", query)
}

func TestWeatherLookupErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	wc := NewWeatherClient(srv.URL, "Malaysia", time.Second)
	_, err := wc.Lookup(context.Background(), "Kampung Seri Aman")
	assert.Error(t, err)
}
