package main

import (
	"flag"
	"fmt"
	"log"

	"flower-shop-platform/internal/config"
	"flower-shop-platform/internal/database"
	"flower-shop-platform/internal/repositories"
)

func main() {
	var (
		email    = flag.String("email", "", "Email address for the new account")
		name     = flag.String("name", "", "Display name for the new account")
		password = flag.String("password", "", "Password for the new account")
	)
	flag.Parse()

	if *email == "" || *name == "" || *password == "" {
		log.Fatal("Usage: go run cmd/create-user/main.go -email <email> -name <name> -password <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db.DB)

	user, err := userRepo.Create(*email, *name, *password)
	if err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("User created successfully with ID %d (%s)\n", user.ID, user.Email)
}
