// Package users exposes the read-only user lookup consumed by other
// services.
package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

// ErrBadID indicates an identifier that does not parse as a store id.
var ErrBadID = errors.New("users: malformed user id")

// Repository is the persistence surface the lookup needs.
type Repository interface {
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*identity.User, error)
}

// Service resolves users by identifier.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches a user by its hex identifier and returns the REST view.
func (s *Service) Get(ctx context.Context, id string) (identity.UserView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return identity.UserView{}, ErrBadID
	}
	user, err := s.repo.FindUserByID(ctx, oid)
	if err != nil {
		return identity.UserView{}, err
	}
	return user.View(), nil
}
