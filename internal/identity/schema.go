package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migrator brings an arbitrary, possibly-empty database up to the schema
// this service requires. Safe to re-run on every startup: existing
// collections are skipped and recreating an identical index is a no-op in
// the server.
type Migrator struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewMigrator constructs a Migrator over an established database handle.
func NewMigrator(db *mongo.Database, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

// index describes one index to declare on a collection.
type index struct {
	keys   bson.D
	unique bool
}

// requiredCollections is the full collection set this service owns.
func requiredCollections() []string {
	return []string{
		CollectionUsers,
		CollectionPermissions,
		CollectionGroups,
		CollectionMicroServices,
		CollectionUsersGroups,
		CollectionMicroServicePermissions,
	}
}

// missingCollections returns required collections absent from existing.
func missingCollections(existing []string) []string {
	present := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		present[name] = struct{}{}
	}
	var missing []string
	for _, name := range requiredCollections() {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// collectionIndexes declares the index set per collection. Unique indexes
// enforce the natural-key invariants at the storage layer; the compound
// non-unique ones back the documented lookup patterns.
func collectionIndexes() map[string][]index {
	return map[string][]index{
		CollectionUsers: {
			{keys: bson.D{{Key: "username", Value: 1}}, unique: true},
			{keys: bson.D{{Key: "username", Value: 1}, {Key: "is_active", Value: -1}}},
			{keys: bson.D{{Key: "username", Value: 1}, {Key: "token", Value: 1}}},
			{keys: bson.D{{Key: "username", Value: 1}, {Key: "is_superuser", Value: -1}}},
			{keys: bson.D{{Key: "is_active", Value: 1}, {Key: "is_superuser", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionPermissions: {
			{keys: bson.D{{Key: "name", Value: 1}}, unique: true},
		},
		CollectionGroups: {
			{keys: bson.D{{Key: "name", Value: 1}}, unique: true},
			{keys: bson.D{{Key: "name", Value: 1}, {Key: "permissions", Value: 1}}},
		},
		CollectionMicroServices: {
			{keys: bson.D{{Key: "name", Value: 1}}, unique: true},
		},
		CollectionUsersGroups: {
			{keys: bson.D{{Key: "user", Value: 1}}},
			{keys: bson.D{{Key: "group", Value: 1}}},
			{keys: bson.D{{Key: "user", Value: 1}, {Key: "group", Value: 1}}, unique: true},
		},
		CollectionMicroServicePermissions: {
			{keys: bson.D{{Key: "micro_service", Value: 1}}},
			{keys: bson.D{{Key: "micro_service", Value: 1}, {Key: "permission", Value: 1}}, unique: true},
		},
	}
}

// Migrate ensures all collections exist and carry the required indexes.
// Collection enumeration and creation failures abort startup; index
// creation failures are logged and skipped so a pre-existing index with
// different options cannot block the service.
func (m *Migrator) Migrate(ctx context.Context) error {
	m.logger.Debug("verifying collections")

	existing, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("identity: list collections: %w", err)
	}

	for _, name := range missingCollections(existing) {
		if err := m.db.CreateCollection(ctx, name); err != nil {
			// Another instance may have raced us here.
			if isNamespaceExists(err) {
				m.logger.Debug("collection already exists", slog.String("collection", name))
				continue
			}
			return fmt.Errorf("identity: create collection %s: %w", name, err)
		}
		m.logger.Info("collection created", slog.String("collection", name))
	}

	for name, indexes := range collectionIndexes() {
		models := make([]mongo.IndexModel, len(indexes))
		for i, idx := range indexes {
			model := mongo.IndexModel{Keys: idx.keys}
			if idx.unique {
				model.Options = options.Index().SetUnique(true)
			}
			models[i] = model
		}
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			m.logger.Warn("index creation failed",
				slog.String("collection", name),
				slog.Any("error", err))
			continue
		}
		m.logger.Info("indexes created", slog.String("collection", name))
	}

	return nil
}

// namespaceExistsCode is the server error for creating an existing collection.
const namespaceExistsCode = 48

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == namespaceExistsCode
	}
	return false
}
