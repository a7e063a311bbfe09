// Package identity owns the persisted RBAC data model: users, permissions,
// permission groups, registered microservices and their relation records.
package identity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account document.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	IsActive     bool               `bson:"is_active"`
	IsSuperuser  bool               `bson:"is_superuser"`
	Token        *string            `bson:"token,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	LastLogin    *time.Time         `bson:"last_login,omitempty"`
}

// Permission names a single capability a microservice may require.
type Permission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Actions is the capability triple applied to a group as a whole.
type Actions struct {
	Read   bool `bson:"read" json:"read"`
	Write  bool `bson:"write" json:"write"`
	Delete bool `bson:"delete" json:"delete"`
}

// Group bundles permissions under a name with a shared action set.
type Group struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Permissions []primitive.ObjectID `bson:"permissions"`
	Actions     Actions              `bson:"actions"`
	CreatedAt   time.Time            `bson:"created_at"`
}

// MicroService is a registered downstream service.
type MicroService struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Host      string             `bson:"host"`
	BaseRoute string             `bson:"base_route"`
	CreatedAt time.Time          `bson:"created_at"`
}

// UsersGroup relates a user to a permission group. Pure association.
type UsersGroup struct {
	User  primitive.ObjectID `bson:"user"`
	Group primitive.ObjectID `bson:"group"`
}

// MicroServicePermission relates a microservice to a permission it requires.
type MicroServicePermission struct {
	MicroService primitive.ObjectID `bson:"micro_service"`
	Permission   primitive.ObjectID `bson:"permission"`
}
