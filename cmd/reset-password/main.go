package main

import (
	"flag"
	"log"

	"devmarket/internal/config"
	"devmarket/internal/repository"
	"devmarket/pkg/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	identifier := flag.String("user", "", "username or email of the account")
	newPassword := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *identifier == "" || len(*newPassword) < 6 {
		flag.Usage()
		log.Fatal("both -user and a -password of at least 6 characters are required")
	}

	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	userRepo := repository.NewUserRepo(db)

	// 3. Find User
	user, err := userRepo.FindByIdentifier(*identifier)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *identifier, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// 5. Update and end any open session
	if err := userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}
	if err := userRepo.UpdateTokenVersion(user.ID, uuid.NewString()); err != nil {
		log.Fatalf("Failed to revoke session: %v", err)
	}

	log.Printf("Password for %s has been reset", user.Username)
}
