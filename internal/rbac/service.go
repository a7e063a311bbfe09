// Package rbac exposes the administrative surface for permissions, groups
// and registered microservices.
package rbac

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

// ErrBadID indicates an identifier that does not parse as a store id.
var ErrBadID = errors.New("rbac: malformed id")

// ErrNameRequired indicates a missing natural key on a create operation.
var ErrNameRequired = errors.New("rbac: name required")

// Store is the persistence surface rbac operations need.
type Store interface {
	CreatePermission(ctx context.Context, name string) (*identity.Permission, error)
	ListPermissions(ctx context.Context) ([]identity.Permission, error)
	CreateGroup(ctx context.Context, name string, permissionIDs []primitive.ObjectID, actions identity.Actions) (*identity.Group, error)
	GetGroupByName(ctx context.Context, name string) (*identity.Group, error)
	CreateMicroService(ctx context.Context, name, host, baseRoute string) (*identity.MicroService, error)
	AddUserToGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	RemoveUserFromGroup(ctx context.Context, userID, groupID primitive.ObjectID) error
	GroupsForUser(ctx context.Context, userID primitive.ObjectID) ([]identity.Group, error)
	GrantPermission(ctx context.Context, microServiceID, permissionID primitive.ObjectID) error
	RevokePermission(ctx context.Context, microServiceID, permissionID primitive.ObjectID) error
	PermissionsForMicroService(ctx context.Context, microServiceID primitive.ObjectID) ([]identity.Permission, error)
}

// Service orchestrates RBAC administrative operations.
type Service struct {
	store Store
}

// NewService constructs a Service backed by the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreatePermission inserts a new named permission.
func (s *Service) CreatePermission(ctx context.Context, name string) (identity.PermissionView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return identity.PermissionView{}, ErrNameRequired
	}
	perm, err := s.store.CreatePermission(ctx, name)
	if err != nil {
		return identity.PermissionView{}, err
	}
	return perm.View(), nil
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]identity.PermissionView, error) {
	perms, err := s.store.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]identity.PermissionView, len(perms))
	for i := range perms {
		views[i] = perms[i].View()
	}
	return views, nil
}

// CreateGroup inserts a new permission group.
func (s *Service) CreateGroup(ctx context.Context, name string, permissionIDs []string, actions identity.Actions) (identity.GroupView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return identity.GroupView{}, ErrNameRequired
	}
	ids, err := parseIDs(permissionIDs)
	if err != nil {
		return identity.GroupView{}, err
	}
	group, err := s.store.CreateGroup(ctx, name, ids, actions)
	if err != nil {
		return identity.GroupView{}, err
	}
	return group.View(), nil
}

// RegisterMicroService records a downstream service.
func (s *Service) RegisterMicroService(ctx context.Context, name, host, baseRoute string) (identity.MicroServiceView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return identity.MicroServiceView{}, ErrNameRequired
	}
	ms, err := s.store.CreateMicroService(ctx, name, host, baseRoute)
	if err != nil {
		return identity.MicroServiceView{}, err
	}
	return ms.View(), nil
}

// AssignUserToGroup creates the user/group association. The group is
// addressed by name, its natural key.
func (s *Service) AssignUserToGroup(ctx context.Context, groupName, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrBadID
	}
	group, err := s.store.GetGroupByName(ctx, groupName)
	if err != nil {
		return err
	}
	return s.store.AddUserToGroup(ctx, uid, group.ID)
}

// RemoveUserFromGroup deletes the user/group association.
func (s *Service) RemoveUserFromGroup(ctx context.Context, groupName, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrBadID
	}
	group, err := s.store.GetGroupByName(ctx, groupName)
	if err != nil {
		return err
	}
	return s.store.RemoveUserFromGroup(ctx, uid, group.ID)
}

// GroupsForUser resolves a user's group memberships.
func (s *Service) GroupsForUser(ctx context.Context, userID string) ([]identity.GroupView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrBadID
	}
	groups, err := s.store.GroupsForUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	views := make([]identity.GroupView, len(groups))
	for i := range groups {
		views[i] = groups[i].View()
	}
	return views, nil
}

// GrantPermission associates a permission with a microservice.
func (s *Service) GrantPermission(ctx context.Context, microServiceID, permissionID string) error {
	msID, permID, err := parsePair(microServiceID, permissionID)
	if err != nil {
		return err
	}
	return s.store.GrantPermission(ctx, msID, permID)
}

// RevokePermission removes a permission from a microservice.
func (s *Service) RevokePermission(ctx context.Context, microServiceID, permissionID string) error {
	msID, permID, err := parsePair(microServiceID, permissionID)
	if err != nil {
		return err
	}
	return s.store.RevokePermission(ctx, msID, permID)
}

// MicroServicePermissions resolves the permissions granted to a service.
func (s *Service) MicroServicePermissions(ctx context.Context, microServiceID string) ([]identity.PermissionView, error) {
	msID, err := primitive.ObjectIDFromHex(microServiceID)
	if err != nil {
		return nil, ErrBadID
	}
	perms, err := s.store.PermissionsForMicroService(ctx, msID)
	if err != nil {
		return nil, err
	}
	views := make([]identity.PermissionView, len(perms))
	for i := range perms {
		views[i] = perms[i].View()
	}
	return views, nil
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(raw))
	for i, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, ErrBadID
		}
		ids[i] = id
	}
	return ids, nil
}

func parsePair(a, b string) (primitive.ObjectID, primitive.ObjectID, error) {
	first, err := primitive.ObjectIDFromHex(a)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrBadID
	}
	second, err := primitive.ObjectIDFromHex(b)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrBadID
	}
	return first, second, nil
}
