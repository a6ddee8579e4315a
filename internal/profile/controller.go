package profile

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
	"github.com/DawnFalls/getSuitedV1/pkg/metrics"
)

// Mode is the profile page's edit state. The two editors are mutually
// exclusive and Uploading blocks further file selection, so illegal
// combinations cannot be represented.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditingName
	ModeEditingPicture
	ModeUploading
)

func (m Mode) String() string {
	switch m {
	case ModeEditingName:
		return "editing-name"
	case ModeEditingPicture:
		return "editing-picture"
	case ModeUploading:
		return "uploading"
	}
	return "viewing"
}

var (
	// ErrInvalidInput reports an empty file selection; the caller stays in
	// its current mode and no request is issued.
	ErrInvalidInput = errors.New("profile: no file selected")
	// ErrInvalidMode reports an operation invoked outside the mode it is
	// valid in, including any commit or upload armed while one is already
	// in flight.
	ErrInvalidMode = errors.New("profile: operation not valid in current mode")
	// ErrNoSession reports a mutation attempted while signed out.
	ErrNoSession = errors.New("profile: no active session")
)

// Notice is a blocking, user-facing failure notification. At most one is
// pending at a time; the UI must dismiss it before further edits.
type Notice struct {
	Message string
}

// Updater is the transport dependency; satisfied by api.Client.
type Updater interface {
	UpdateName(ctx context.Context, id, name string) (*models.User, error)
	UploadPicture(ctx context.Context, id, filename string, r io.Reader) (*models.User, error)
}

// Sessions is the session-store dependency; satisfied by session.Manager.
type Sessions interface {
	Current() (*models.User, string, bool)
	Save(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

// Controller owns the name-edit state machine and the picture upload
// pipeline. Commits write the server-confirmed identity through the session
// store before leaving the committing state, so any re-render triggered by
// the store notification reads the new record.
//
// Methods are safe for concurrent use. The blocking calls (CommitName,
// SelectFile) mark the controller busy before touching the network, so a
// second commit armed while one is in flight fails with ErrInvalidMode
// instead of racing it; there is a single writer at a time.
type Controller struct {
	api      Updater
	sessions Sessions

	mu     sync.Mutex
	mode   Mode
	draft  string
	busy   bool
	notice *Notice
}

func NewController(api Updater, sessions Sessions) *Controller {
	return &Controller{api: api, sessions: sessions}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Notice returns the pending failure notification, if any.
func (c *Controller) Notice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the pending notification.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// BeginNameEdit enters name editing with the draft initialized from the
// current identity. Entering from picture editing cancels that edit; the
// two modes are never active together.
func (c *Controller) BeginNameEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeUploading || c.busy {
		return ErrInvalidMode
	}
	u, _, ok := c.sessions.Current()
	if !ok {
		return ErrNoSession
	}
	c.mode = ModeEditingName
	c.draft = u.Name
	return nil
}

// UpdateDraft replaces the draft text. Valid only while editing the name;
// the server is the authority on validation, so any text (including empty)
// may reach commit.
func (c *Controller) UpdateDraft(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeEditingName || c.busy {
		return ErrInvalidMode
	}
	c.draft = text
	return nil
}

// CancelNameEdit discards the draft without a network call.
func (c *Controller) CancelNameEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeEditingName || c.busy {
		return ErrInvalidMode
	}
	c.mode = ModeViewing
	c.draft = ""
	return nil
}

// CommitName sends the draft to the backend. On success the returned,
// server-confirmed identity becomes canonical and is persisted before the
// controller returns to viewing. On failure the draft is discarded, a
// blocking notice is recorded and no retry is attempted.
func (c *Controller) CommitName(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeEditingName || c.busy {
		c.mu.Unlock()
		return ErrInvalidMode
	}
	u, _, ok := c.sessions.Current()
	if !ok {
		c.mode = ModeViewing
		c.draft = ""
		c.mu.Unlock()
		return ErrNoSession
	}
	draft := c.draft
	c.busy = true
	c.mu.Unlock()

	updated, err := c.api.UpdateName(ctx, u.ID, draft)

	c.mu.Lock()
	c.busy = false
	c.mode = ModeViewing
	c.draft = ""
	if err != nil {
		c.fail("name", "Failed to update name", err)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if err := c.sessions.Save(ctx, updated); err != nil {
		c.mu.Lock()
		c.fail("name", "Failed to store updated profile", err)
		c.mu.Unlock()
		return err
	}
	metrics.ProfileCommits.WithLabelValues("name", "ok").Inc()
	return nil
}

// BeginPictureEdit enters picture editing, cancelling a name edit in
// progress.
func (c *Controller) BeginPictureEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeUploading || c.busy {
		return ErrInvalidMode
	}
	if _, _, ok := c.sessions.Current(); !ok {
		return ErrNoSession
	}
	c.mode = ModeEditingPicture
	c.draft = ""
	return nil
}

// CancelPictureEdit leaves picture editing without a network call.
func (c *Controller) CancelPictureEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeEditingPicture || c.busy {
		return ErrInvalidMode
	}
	c.mode = ModeViewing
	return nil
}

// SelectFile uploads the chosen file. An empty selection is rejected with
// ErrInvalidInput and no state change. On success, the identity is updated
// only when the returned picture URL differs from the known one; only the
// ProfilePicture field changes. On failure the identity is untouched and a
// blocking notice is recorded.
func (c *Controller) SelectFile(ctx context.Context, filename string, r io.Reader) error {
	c.mu.Lock()
	if c.mode != ModeEditingPicture || c.busy {
		c.mu.Unlock()
		return ErrInvalidMode
	}
	if r == nil || filename == "" {
		c.mu.Unlock()
		return ErrInvalidInput
	}
	u, _, ok := c.sessions.Current()
	if !ok {
		c.mode = ModeViewing
		c.mu.Unlock()
		return ErrNoSession
	}
	// transition before the network call so a concurrent selection
	// observes Uploading and is rejected
	c.mode = ModeUploading
	c.busy = true
	c.mu.Unlock()

	updated, err := c.api.UploadPicture(ctx, u.ID, filename, r)

	c.mu.Lock()
	c.busy = false
	c.mode = ModeViewing
	if err != nil {
		c.fail("picture", "Failed to upload profile picture", err)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if updated.PictureURL() != u.PictureURL() {
		merged := u.WithPicture(updated.PictureURL())
		if err := c.sessions.Save(ctx, merged); err != nil {
			c.mu.Lock()
			c.fail("picture", "Failed to store updated profile", err)
			c.mu.Unlock()
			return err
		}
	}
	metrics.ProfileCommits.WithLabelValues("picture", "ok").Inc()
	return nil
}

// SignOut clears the persisted session and resets the edit state.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.mode = ModeViewing
	c.draft = ""
	c.notice = nil
	c.mu.Unlock()
	return c.sessions.Clear(ctx)
}

// fail records a blocking notice, preferring the server-provided message
// when the transport surfaced one. Callers hold c.mu.
func (c *Controller) fail(op, fallback string, err error) {
	metrics.ProfileCommits.WithLabelValues(op, "error").Inc()
	logger.Errorf("profile: %s commit failed: %v", op, err)
	msg := fallback
	var se interface{ StatusMessage() string }
	if errors.As(err, &se) && se.StatusMessage() != "" {
		msg = fallback + ": " + se.StatusMessage()
	}
	c.notice = &Notice{Message: msg}
}
