package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

type stubRepo struct {
	users   map[primitive.ObjectID]*identity.User
	findErr error
}

func (s *stubRepo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*identity.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.users[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return user, nil
}

func newUsersRouter(repo Repository) http.Handler {
	handler := NewHandler(slog.New(slog.DiscardHandler), NewService(repo))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func getUser(router http.Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/"+id+"/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestGetUserFound(t *testing.T) {
	id := primitive.NewObjectID()
	user := &identity.User{
		ID:        id,
		Username:  "alice",
		Email:     "alice@example.com",
		IsActive:  true,
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	router := newUsersRouter(&stubRepo{users: map[primitive.ObjectID]*identity.User{id: user}})

	res := getUser(router, id.Hex())
	require.Equal(t, http.StatusOK, res.Code)

	var view identity.UserView
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &view))
	assert.Equal(t, id.Hex(), view.ID)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "2024-05-01T00:00:00Z", view.CreatedAt)
}

func TestGetUserMalformedID(t *testing.T) {
	router := newUsersRouter(&stubRepo{})

	for _, id := range []string{"not-an-id", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		res := getUser(router, id)
		assert.Equal(t, http.StatusBadRequest, res.Code, "id %q", id)
	}
}

func TestGetUserNotFound(t *testing.T) {
	router := newUsersRouter(&stubRepo{users: map[primitive.ObjectID]*identity.User{}})

	res := getUser(router, primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestGetUserReadFailurePresentedAsNotFound(t *testing.T) {
	router := newUsersRouter(&stubRepo{findErr: errors.New("connection reset")})

	res := getUser(router, primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, res.Code)
}
