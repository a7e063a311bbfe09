package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names owned by this service.
const (
	CollectionUsers                   = "users"
	CollectionPermissions             = "permissions"
	CollectionGroups                  = "groups"
	CollectionMicroServices           = "micro_services"
	CollectionUsersGroups             = "users_groups"
	CollectionMicroServicePermissions = "micro_service_permission"
)

var (
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("identity: not found")
	// ErrDuplicate indicates a natural-key or association collision.
	ErrDuplicate = errors.New("identity: duplicate")
)

// Store provides typed access to the six record collections.
type Store struct {
	users         *mongo.Collection
	permissions   *mongo.Collection
	groups        *mongo.Collection
	microServices *mongo.Collection
	usersGroups   *mongo.Collection
	msPermissions *mongo.Collection
}

// NewStore constructs a Store over an established database handle.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		users:         db.Collection(CollectionUsers),
		permissions:   db.Collection(CollectionPermissions),
		groups:        db.Collection(CollectionGroups),
		microServices: db.Collection(CollectionMicroServices),
		usersGroups:   db.Collection(CollectionUsersGroups),
		msPermissions: db.Collection(CollectionMicroServicePermissions),
	}
}

// FindUserByUsername fetches a user by its natural key.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, storeErr("find user by username", err)
	}
	return &user, nil
}

// FindUserByID fetches a user by its identifier.
func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, storeErr("find user by id", err)
	}
	return &user, nil
}

// InsertUser stores a new user record. The creation timestamp is set here
// and never mutated afterwards.
func (s *Store) InsertUser(ctx context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return storeErr("insert user", err)
	}
	return nil
}

// SetSessionToken writes the issued token onto the user record and stamps
// the login time. A single atomic document mutation.
func (s *Store) SetSessionToken(ctx context.Context, username, token string) error {
	update := bson.M{"$set": bson.M{
		"token":      token,
		"last_login": time.Now().UTC(),
	}}
	res, err := s.users.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return storeErr("set session token", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePermission stores a new named permission.
func (s *Store) CreatePermission(ctx context.Context, name string) (*Permission, error) {
	perm := Permission{
		ID:        primitive.NewObjectID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.permissions.InsertOne(ctx, perm); err != nil {
		return nil, storeErr("create permission", err)
	}
	return &perm, nil
}

// ListPermissions returns all permissions ordered by name.
func (s *Store) ListPermissions(ctx context.Context) ([]Permission, error) {
	cursor, err := s.permissions.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("list permissions", err)
	}
	var perms []Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, storeErr("decode permissions", err)
	}
	return perms, nil
}

// CreateGroup stores a new permission group.
func (s *Store) CreateGroup(ctx context.Context, name string, permissionIDs []primitive.ObjectID, actions Actions) (*Group, error) {
	if permissionIDs == nil {
		permissionIDs = []primitive.ObjectID{}
	}
	group := Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Permissions: permissionIDs,
		Actions:     actions,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.groups.InsertOne(ctx, group); err != nil {
		return nil, storeErr("create group", err)
	}
	return &group, nil
}

// GetGroupByName fetches a group by its natural key.
func (s *Store) GetGroupByName(ctx context.Context, name string) (*Group, error) {
	var group Group
	if err := s.groups.FindOne(ctx, bson.M{"name": name}).Decode(&group); err != nil {
		return nil, storeErr("get group by name", err)
	}
	return &group, nil
}

// CreateMicroService registers a downstream service.
func (s *Store) CreateMicroService(ctx context.Context, name, host, baseRoute string) (*MicroService, error) {
	ms := MicroService{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Host:      host,
		BaseRoute: baseRoute,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.microServices.InsertOne(ctx, ms); err != nil {
		return nil, storeErr("create microservice", err)
	}
	return &ms, nil
}

// AddUserToGroup creates the user/group association.
func (s *Store) AddUserToGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	rel := UsersGroup{User: userID, Group: groupID}
	if _, err := s.usersGroups.InsertOne(ctx, rel); err != nil {
		return storeErr("add user to group", err)
	}
	return nil
}

// RemoveUserFromGroup deletes the user/group association as a whole.
func (s *Store) RemoveUserFromGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	filter := bson.M{"user": userID, "group": groupID}
	res, err := s.usersGroups.DeleteOne(ctx, filter)
	if err != nil {
		return storeErr("remove user from group", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GroupsForUser resolves the groups a user belongs to.
func (s *Store) GroupsForUser(ctx context.Context, userID primitive.ObjectID) ([]Group, error) {
	cursor, err := s.usersGroups.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, storeErr("find user groups", err)
	}
	var rels []UsersGroup
	if err := cursor.All(ctx, &rels); err != nil {
		return nil, storeErr("decode user groups", err)
	}
	if len(rels) == 0 {
		return []Group{}, nil
	}
	ids := make([]primitive.ObjectID, len(rels))
	for i, rel := range rels {
		ids[i] = rel.Group
	}
	groupCursor, err := s.groups.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storeErr("find groups", err)
	}
	var groups []Group
	if err := groupCursor.All(ctx, &groups); err != nil {
		return nil, storeErr("decode groups", err)
	}
	return groups, nil
}

// GrantPermission creates the microservice/permission association.
func (s *Store) GrantPermission(ctx context.Context, microServiceID, permissionID primitive.ObjectID) error {
	rel := MicroServicePermission{MicroService: microServiceID, Permission: permissionID}
	if _, err := s.msPermissions.InsertOne(ctx, rel); err != nil {
		return storeErr("grant permission", err)
	}
	return nil
}

// RevokePermission deletes the microservice/permission association.
func (s *Store) RevokePermission(ctx context.Context, microServiceID, permissionID primitive.ObjectID) error {
	filter := bson.M{"micro_service": microServiceID, "permission": permissionID}
	res, err := s.msPermissions.DeleteOne(ctx, filter)
	if err != nil {
		return storeErr("revoke permission", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PermissionsForMicroService resolves the permissions granted to a service.
func (s *Store) PermissionsForMicroService(ctx context.Context, microServiceID primitive.ObjectID) ([]Permission, error) {
	cursor, err := s.msPermissions.Find(ctx, bson.M{"micro_service": microServiceID})
	if err != nil {
		return nil, storeErr("find microservice permissions", err)
	}
	var rels []MicroServicePermission
	if err := cursor.All(ctx, &rels); err != nil {
		return nil, storeErr("decode microservice permissions", err)
	}
	if len(rels) == 0 {
		return []Permission{}, nil
	}
	ids := make([]primitive.ObjectID, len(rels))
	for i, rel := range rels {
		ids[i] = rel.Permission
	}
	permCursor, err := s.permissions.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storeErr("find permissions", err)
	}
	var perms []Permission
	if err := permCursor.All(ctx, &perms); err != nil {
		return nil, storeErr("decode permissions", err)
	}
	return perms, nil
}

// storeErr maps driver errors onto the package sentinels.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return fmt.Errorf("identity: %s: %w", op, err)
	}
}
