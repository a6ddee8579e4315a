package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DawnFalls/getSuitedV1/internal/models"
)

// StatusError reports a non-2xx backend response. Message carries the
// server-provided body text when the server sent one, so commit failures can
// surface it to the user.
type StatusError struct {
	Code    int
	Message string
}

// StatusMessage exposes the server-provided text for callers that render
// failure notices without depending on this package's concrete type.
func (e *StatusError) StatusMessage() string { return e.Message }

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// Client talks to the getSuited backend. The credential supplier is called
// per request so a token refreshed mid-session is picked up without
// rebuilding the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	credential func() string
}

func NewClient(baseURL string, timeout time.Duration, credential func() string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		credential: credential,
	}
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.credential())
	req.Header.Set("X-Request-ID", uuid.NewString())
	return c.httpClient.Do(req)
}

// checkStatus consumes the body of a non-2xx response into a StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(b))
	// unwrap the common {"error": "..."} shape
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

// ListEvaluations fetches the evaluation artifacts for the given email.
func (c *Client) ListEvaluations(ctx context.Context, email string) ([]models.Evaluation, error) {
	u := c.baseURL + "/users/evaluations?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var evals []models.Evaluation
	if err := json.NewDecoder(resp.Body).Decode(&evals); err != nil {
		return nil, fmt.Errorf("decode evaluations: %w", err)
	}
	return evals, nil
}

// userEnvelope matches the backend's {"user": {...}} mutation responses.
type userEnvelope struct {
	User models.User `json:"user"`
}

// UpdateName commits a new display name and returns the server-confirmed
// user record.
func (c *Client) UpdateName(ctx context.Context, id, name string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	u := c.baseURL + "/users/" + url.PathEscape(id) + "/name"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("update name: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &env.User, nil
}

// UploadPicture uploads a new avatar as a multipart form (field
// "profilePicture") and returns the server-confirmed user record.
func (c *Client) UploadPicture(ctx context.Context, id, filename string, r io.Reader) (*models.User, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profilePicture", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read picture: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	u := c.baseURL + "/users/" + url.PathEscape(id) + "/profilePicture"
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("upload picture: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &env.User, nil
}

// SignIn authenticates against the dev login endpoint and returns the token
// and user record the backend issued. Production credential issuance happens
// outside this client.
func (c *Client) SignIn(ctx context.Context, email, name string) (string, *models.User, error) {
	body, err := json.Marshal(map[string]string{"email": email, "name": name})
	if err != nil {
		return "", nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", nil, err
	}
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	return out.Token, &out.User, nil
}
