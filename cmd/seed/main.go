// seed inserts a test user and a batch of animals into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkurmanbek/pet-adoption-api/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedUsername = "seed-keeper"
	seedPassword = "seed-password-1"
)

type animalSpec struct {
	species string
	age     int
}

var animals = []animalSpec{
	{"cat", 2},
	{"cat", 7},
	{"dog", 4},
	{"dog", 1},
	{"parrot", 12},
	{"hamster", 0},
	{"rabbit", 3},
	{"turtle", 45},
	{"ferret", 5},
	{"goat", 9},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	if err := postgres.Migrate(dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	// Upsert the test user so re-runs stay idempotent.
	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (username, hashed_password)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedUsername, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	var inserted int
	for _, spec := range animals {
		_, err := pool.Exec(ctx,
			`INSERT INTO animals (species, age) VALUES ($1, $2)`,
			spec.species, spec.age,
		)
		if err != nil {
			log.Fatalf("insert animal %s: %v", spec.species, err)
		}
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:     %s / %s (id=%d)\n", seedUsername, seedPassword, userID)
	fmt.Printf("  Animals:  %d inserted\n", inserted)
}
