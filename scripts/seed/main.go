// Command seed bootstraps a superuser account so a fresh deployment has a
// login to start from. Safe to re-run: an existing username is left alone.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ease-mdlwr/ease-mdlwr/internal/auth"
	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/db"
)

func main() {
	uri := getenv("MONGO_URI", "mongodb://127.0.0.1:27017")
	dbName := getenv("MONGO_DB", "ease_mdlwr")
	username := getenv("SEED_USERNAME", "admin")
	email := getenv("SEED_EMAIL", "admin@ease-mdlwr.local")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal("SEED_PASSWORD must be set")
	}

	ctx := context.Background()
	client, err := db.Connect(ctx, uri)
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	store := identity.NewStore(client.Database(dbName))

	if _, err := store.FindUserByUsername(ctx, username); err == nil {
		fmt.Printf("user %s already exists, nothing to do\n", username)
		return
	} else if !errors.Is(err, identity.ErrNotFound) {
		log.Fatalf("lookup %s: %v", username, err)
	}

	user := &identity.User{
		Username:     username,
		Email:        email,
		PasswordHash: auth.HashPassword(password),
		FirstName:    "Admin",
		LastName:     "User",
		IsActive:     true,
		IsSuperuser:  true,
	}
	if err := store.InsertUser(ctx, user); err != nil {
		log.Fatalf("insert %s: %v", username, err)
	}
	fmt.Printf("→ created superuser %s (%s)\n", username, user.ID.Hex())
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
