package identity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserView(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	lastLogin := created.Add(48 * time.Hour)
	token := "some-token"

	user := User{
		ID:           id,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "deadbeef",
		FirstName:    "Alice",
		LastName:     "Lidell",
		IsActive:     true,
		IsSuperuser:  false,
		Token:        &token,
		CreatedAt:    created,
		LastLogin:    &lastLogin,
	}

	view := user.View()
	assert.Equal(t, id.Hex(), view.ID)
	assert.Len(t, view.ID, 24)
	assert.Equal(t, "2024-05-01T12:30:00Z", view.CreatedAt)
	require.NotNil(t, view.LastLogin)
	assert.Equal(t, "2024-05-03T12:30:00Z", *view.LastLogin)
	assert.Equal(t, &token, view.Token)
}

func TestUserViewOptionalFieldsAbsent(t *testing.T) {
	user := User{
		ID:        primitive.NewObjectID(),
		Username:  "bob",
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(user.View())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.NotContains(t, decoded, "token")
	assert.NotContains(t, decoded, "last_login")
}

func TestUserViewHidesPasswordHash(t *testing.T) {
	user := User{
		ID:           primitive.NewObjectID(),
		Username:     "alice",
		PasswordHash: "super-secret-hash",
		CreatedAt:    time.Now(),
	}

	payload, err := json.Marshal(user.View())
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "super-secret-hash")
}

func TestGroupView(t *testing.T) {
	permA := primitive.NewObjectID()
	permB := primitive.NewObjectID()
	group := Group{
		ID:          primitive.NewObjectID(),
		Name:        "editors",
		Permissions: []primitive.ObjectID{permA, permB},
		Actions:     Actions{Read: true, Write: true},
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	view := group.View()
	assert.Equal(t, []string{permA.Hex(), permB.Hex()}, view.Permissions, "permission order must be preserved")
	assert.Equal(t, "2024-01-02T03:04:05Z", view.CreatedAt)
	assert.True(t, view.Actions.Read)
	assert.True(t, view.Actions.Write)
	assert.False(t, view.Actions.Delete)
}

func TestPermissionAndMicroServiceViews(t *testing.T) {
	perm := Permission{ID: primitive.NewObjectID(), Name: "orders:read", CreatedAt: time.Now().UTC()}
	assert.Equal(t, perm.ID.Hex(), perm.View().ID)
	assert.Equal(t, "orders:read", perm.View().Name)

	ms := MicroService{
		ID:        primitive.NewObjectID(),
		Name:      "orders",
		Host:      "orders.internal:8443",
		BaseRoute: "/api/orders",
		CreatedAt: time.Now().UTC(),
	}
	view := ms.View()
	assert.Equal(t, ms.ID.Hex(), view.ID)
	assert.Equal(t, "orders.internal:8443", view.Host)
	assert.Equal(t, "/api/orders", view.BaseRoute)
}
