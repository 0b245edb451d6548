package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/users/internal/errs"
)

func TestGoogleSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"g1","email":"g@example.com","name":"Grace","family_name":"Hopper"}`))
	}))
	defer srv.Close()

	p, err := NewFetcher(time.Second).Google(context.Background(), srv.URL, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "g@example.com", p.Email())
	assert.Equal(t, "Grace", p.Name)
	assert.Equal(t, "Hopper", p.FamilyName)
}

func TestFacebookSendsQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "first_name,last_name,gender,email,name", q.Get("fields"))
		assert.Equal(t, "tok-456", q.Get("access_token"))
		w.Write([]byte(`{"id":"f1","email":"f@example.com","first_name":"Ada","last_name":"Lovelace","gender":"female"}`))
	}))
	defer srv.Close()

	p, err := NewFetcher(time.Second).Facebook(context.Background(), srv.URL, "tok-456")
	require.NoError(t, err)
	assert.Equal(t, "f@example.com", p.Email())
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
}

func TestFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second).Google(context.Background(), srv.URL, "bad")
	require.Error(t, err)
	var uerr *errs.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "google", uerr.Provider)
}

func TestFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := NewFetcher(10 * time.Millisecond)

	_, err := f.Facebook(context.Background(), srv.URL, "tok")
	var uerr *errs.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "facebook", uerr.Provider)

	_, err = f.Google(context.Background(), srv.URL, "tok")
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "google", uerr.Provider)
}
