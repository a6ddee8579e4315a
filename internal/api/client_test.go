package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, func() string { return "test-token" })
}

func TestListEvaluations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/evaluations", r.URL.Path)
		assert.Equal(t, "bo@x.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		io.WriteString(w, `[{"fileUrl":"https://x/1.pdf"},{"fileName":"Second","fileUrl":"https://x/2.pdf"}]`)
	})

	evals, err := c.ListEvaluations(context.Background(), "bo@x.com")
	require.NoError(t, err)
	require.Len(t, evals, 2)
	assert.Nil(t, evals[0].FileName)
	assert.Equal(t, "https://x/1.pdf", evals[0].FileURL)
	require.NotNil(t, evals[1].FileName)
	assert.Equal(t, "Second", *evals[1].FileName)
}

func TestUpdateName_ReturnsServerConfirmedUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/u1/name", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])
		// server may normalize the submitted value
		io.WriteString(w, `{"user":{"id":"u1","email":"bo@x.com","name":"Ada L.","score":40}}`)
	})

	u, err := c.UpdateName(context.Background(), "u1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", u.Name)
	assert.Equal(t, float64(40), u.Score)
}

func TestUploadPicture_MultipartField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/profilePicture", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("profilePicture")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "me.png", hdr.Filename)
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(b))
		io.WriteString(w, `{"user":{"id":"u1","email":"bo@x.com","name":"Bo","profilePicture":"https://cdn/x.png"}}`)
	})

	u, err := c.UploadPicture(context.Background(), "u1", "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, u.ProfilePicture)
	assert.Equal(t, "https://cdn/x.png", *u.ProfilePicture)
}

func TestStatusError_CarriesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"unsupported image type"}`)
	})

	_, err := c.UpdateName(context.Background(), "u1", "Ada")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "unsupported image type", se.Message)
}

func TestStatusError_PlainTextBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "disk full")
	})

	_, err := c.ListEvaluations(context.Background(), "bo@x.com")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "disk full", se.Message)
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		// no bearer required for login
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `{"token":"tok-1","user":{"id":"u1","email":"bo@x.com","name":"Bo"}}`)
	})

	tok, u, err := c.SignIn(context.Background(), "bo@x.com", "Bo")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, "u1", u.ID)
}
