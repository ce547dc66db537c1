package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-123"

// fakeServer mimics the REST API closely enough for the client.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		if c.Username == "taken" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Registration failed"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		if c.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": testToken})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /tyres", authed(func(w http.ResponseWriter, r *http.Request) {
		var in TyreInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, Tyre{ID: 7, Brand: in.Brand, Model: in.Model, Size: in.Size})
	}))
	mux.HandleFunc("GET /tyres", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Tyre{{ID: 7, Brand: "Michelin", Model: "Pilot", Size: "225/45R17", UserID: 1}})
	}))
	mux.HandleFunc("PUT /tyres/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var in TyreInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if r.PathValue("id") != "7" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation error: id: must be a positive integer"})
			return
		}
		writeJSON(w, http.StatusOK, Tyre{ID: 7, Brand: in.Brand, Model: in.Model, Size: in.Size})
	}))
	mux.HandleFunc("DELETE /tyres/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Tyre deleted successfully"})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_RegisterLoginAndCRUD(t *testing.T) {
	srv := fakeServer(t)
	c := NewClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", []byte("pw")))
	assert.False(t, c.LoggedIn())

	require.NoError(t, c.Login(ctx, "alice", []byte("pw")))
	assert.True(t, c.LoggedIn())

	created, err := c.CreateTyre(ctx, TyreInput{Brand: "Michelin", Model: "Pilot", Size: "225/45R17"})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(&Tyre{ID: 7, Brand: "Michelin", Model: "Pilot", Size: "225/45R17"}, created))

	list, err := c.ListTyres(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]Tyre{{ID: 7, Brand: "Michelin", Model: "Pilot", Size: "225/45R17", UserID: 1}}, list))

	updated, err := c.UpdateTyre(ctx, 7, TyreInput{Brand: "Pirelli", Model: "P Zero", Size: "245/40R18"})
	require.NoError(t, err)
	assert.Equal(t, "Pirelli", updated.Brand)

	require.NoError(t, c.DeleteTyre(ctx, 7))

	c.Logout()
	assert.False(t, c.LoggedIn())
}

func TestClient_Errors(t *testing.T) {
	srv := fakeServer(t)
	ctx := context.Background()

	t.Run("register failure carries server message", func(t *testing.T) {
		c := NewClient(srv.URL, time.Second)
		err := c.Register(ctx, "taken", []byte("pw"))
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "Registration failed", apiErr.Message)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		c := NewClient(srv.URL, time.Second)
		err := c.Login(ctx, "alice", []byte("nope"))
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.False(t, c.LoggedIn())
	})

	t.Run("tyre call without login is rejected locally", func(t *testing.T) {
		c := NewClient(srv.URL, time.Second)
		_, err := c.ListTyres(ctx)
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("stale token is unauthorized", func(t *testing.T) {
		c := NewClient(srv.URL, time.Second)
		c.setToken("stale")
		_, err := c.ListTyres(ctx)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("validation message is surfaced", func(t *testing.T) {
		c := NewClient(srv.URL, time.Second)
		c.setToken(testToken)
		_, err := c.UpdateTyre(ctx, 8, TyreInput{Brand: "a", Model: "b", Size: "c"})
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Contains(t, apiErr.Error(), "validation error")
	})
}

func TestClient_Ping(t *testing.T) {
	srv := fakeServer(t)
	c := NewClient(srv.URL, time.Second)
	require.NoError(t, c.Ping(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
	}))
	defer down.Close()
	assert.ErrorIs(t, NewClient(down.URL, time.Second).Ping(context.Background()), ErrUnavailable)

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	err := NewClient(url, time.Second).Ping(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "server returned 404 Not Found", (&Error{Status: 404}).Error())
	assert.Equal(t, "server returned 500: boom", (&Error{Status: 500, Message: "boom"}).Error())
	assert.False(t, errors.Is(&Error{Status: 500}, ErrUnauthorized))
}
