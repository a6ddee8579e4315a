package stubstore

import (
	"context"
	"errors"

	"github.com/DawnFalls/getSuitedV1/internal/models"
)

var ErrNotFound = errors.New("user not found")

// Repository defines persistence operations for the stub backend's users
// and their evaluation artifacts. Lookups return (nil, nil) for absent users
// except where ErrNotFound is documented.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
	// SetName and SetPicture return the updated record or ErrNotFound.
	SetName(ctx context.Context, id, name string) (*models.User, error)
	SetPicture(ctx context.Context, id, url string) (*models.User, error)
	Evaluations(ctx context.Context, email string) ([]models.Evaluation, error)
	AddEvaluation(ctx context.Context, email string, e models.Evaluation) error
}
