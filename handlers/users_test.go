package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/stubstore"
	"github.com/DawnFalls/getSuitedV1/internal/tokens"
	"github.com/DawnFalls/getSuitedV1/pkg/middleware"
)

const testSecret = "handlers-test-secret-32-bytes-xxxx"

type memAvatars struct{ lastKey string }

func (a *memAvatars) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	a.lastKey = key
	io.Copy(io.Discard, r)
	return "https://cdn/" + key, nil
}

func newStub(t *testing.T) (*gin.Engine, stubstore.Repository, *models.User, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := stubstore.NewMemoryRepo()
	u, err := repo.Upsert(context.Background(), &models.User{Email: "bo@x.com", Name: "Bo", Score: 40})
	require.NoError(t, err)
	tok, err := tokens.Generate(testSecret, u, time.Minute)
	require.NoError(t, err)

	g := gin.New()
	root := g.Group("/")
	NewAuthHandler(AuthConfig{JWTSecret: testSecret, TokenTTL: time.Minute}, repo).Register(root)

	authed := g.Group("/", middleware.Auth(func(raw string) (map[string]interface{}, error) {
		return tokens.Verify(testSecret, raw)
	}))
	NewUsersHandler(repo, &memAvatars{}).Register(authed)

	return g, repo, u, tok
}

func do(g *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesTokenAndUser(t *testing.T) {
	g, _, _, _ := newStub(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"new@x.com","name":"New"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(g, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "new@x.com", out.User.Email)
	assert.NotEmpty(t, out.User.ID)
}

func TestUsers_RequireBearer(t *testing.T) {
	g, _, u, _ := newStub(t)

	req := httptest.NewRequest(http.MethodGet, "/users/evaluations?email=bo@x.com", nil)
	require.Equal(t, http.StatusUnauthorized, do(g, req).Code)

	req = httptest.NewRequest(http.MethodPatch, "/users/"+u.ID+"/name", strings.NewReader(`{"name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusUnauthorized, do(g, req).Code)
}

func TestListEvaluations(t *testing.T) {
	g, repo, _, tok := newStub(t)
	name := "Second"
	require.NoError(t, repo.AddEvaluation(context.Background(), "bo@x.com", models.Evaluation{FileURL: "https://x/1.pdf"}))
	require.NoError(t, repo.AddEvaluation(context.Background(), "bo@x.com", models.Evaluation{FileName: &name, FileURL: "https://x/2.pdf"}))

	req := httptest.NewRequest(http.MethodGet, "/users/evaluations?email=bo@x.com", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := do(g, req)
	require.Equal(t, http.StatusOK, w.Code)

	var evals []models.Evaluation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &evals))
	require.Len(t, evals, 2)
	assert.Nil(t, evals[0].FileName)
}

func TestListEvaluations_EmptyIsArray(t *testing.T) {
	g, _, _, tok := newStub(t)

	req := httptest.NewRequest(http.MethodGet, "/users/evaluations?email=bo@x.com", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := do(g, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUpdateName_RoundTrip(t *testing.T) {
	g, _, u, tok := newStub(t)

	req := httptest.NewRequest(http.MethodPatch, "/users/"+u.ID+"/name", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w := do(g, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Ada", out.User.Name)
}

func TestUpdateName_UnknownUser(t *testing.T) {
	g, _, _, tok := newStub(t)

	req := httptest.NewRequest(http.MethodPatch, "/users/nope/name", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusNotFound, do(g, req).Code)
}

func TestUpdatePicture_MultipartRoundTrip(t *testing.T) {
	g, _, u, tok := newStub(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profilePicture", "me.png")
	require.NoError(t, err)
	part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users/"+u.ID+"/profilePicture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w := do(g, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.User.ProfilePicture)
	assert.True(t, strings.HasPrefix(*out.User.ProfilePicture, "https://cdn/"+u.ID))
}

func TestUpdatePicture_MissingFileField(t *testing.T) {
	g, _, u, tok := newStub(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/users/"+u.ID+"/profilePicture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusBadRequest, do(g, req).Code)
}
