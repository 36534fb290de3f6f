// Command seed provisions a manager account directly against MongoDB.
// The API has no endpoint to elevate a member to the manager role, so
// deployments run this once per manager:
//
//	go run ./cmd/seed -email mia@example.com -name Mia -password secret
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/askloop/askloop-backend/internal/database"
	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/users"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		email    = flag.String("email", "", "manager email (required)")
		name     = flag.String("name", "", "manager display name (required)")
		password = flag.String("password", "", "manager password (required)")
	)
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Fatal("MONGODB_URI is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "askloop"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, uri, 10*time.Second)
	if err != nil {
		log.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo := users.NewMongoRepository(client.Database(dbName).Collection("users"))

	normalized := strings.TrimSpace(strings.ToLower(*email))
	if existing, err := repo.GetByEmail(ctx, normalized); err != nil {
		log.Fatalf("lookup failed: %v", err)
	} else if existing != nil {
		log.Fatalf("user %s already exists (role=%d)", normalized, existing.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u, err := repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(*name),
		Email:        normalized,
		PasswordHash: string(hash),
		Role:         models.RoleManager,
	})
	if err != nil {
		log.Fatalf("create manager: %v", err)
	}
	log.Printf("manager %s created (id=%s)", u.Email, u.ID.Hex())
}
