package identity

import (
	"context"
	"errors"

	"github.com/Akki1725/socially/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// Directory resolves a user id to its public profile. The chat service
// never writes user data; profiles belong to the rest of the app.
type Directory interface {
	Lookup(ctx context.Context, userID string) (*models.UserProfile, error)
}
