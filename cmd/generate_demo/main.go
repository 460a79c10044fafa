// Command generate_demo creates a demo database with sample user accounts.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/cakesweet/storefront/internal/auth"
	"github.com/cakesweet/storefront/internal/database"
	"github.com/cakesweet/storefront/internal/database/users"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB)

	createDemoUsers(repo)

	log.Println("Demo database generated successfully!")
}

type demoUser struct {
	username string
	password string
	// legacy accounts are stored with the old MD5 digest so the
	// migration-on-login path can be demonstrated
	legacy bool
}

func createDemoUsers(repo *users.Repository) {
	accounts := []demoUser{
		{username: "admin", password: "pastel123"},
		{username: "maria", password: "tresleches"},
		// Pre-migration account: logs in once with the old digest, then
		// gets upgraded to bcrypt automatically.
		{username: "abuela", password: "concha2016", legacy: true},
	}

	for _, account := range accounts {
		var hash string
		var err error

		if account.legacy {
			hash = auth.LegacyDigest(account.password)
		} else {
			hash, err = auth.HashPassword(account.password, 10)
			if err != nil {
				log.Printf("Failed to hash password for %s: %v", account.username, err)
				continue
			}
		}

		user, err := repo.CreateUser(account.username, hash)
		if err != nil {
			log.Printf("Failed to create user %s: %v", account.username, err)
			continue
		}

		kind := "bcrypt"
		if account.legacy {
			kind = "legacy md5"
		}
		log.Printf("Created user %q (id %d, %s hash, password %q)", user.Username, user.ID, kind, account.password)
	}
}
