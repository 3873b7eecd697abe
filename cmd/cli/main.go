package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alextreichler/dinedash/internal/config"
	"github.com/alextreichler/dinedash/internal/models"
	"github.com/alextreichler/dinedash/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := addUserCmd.String("username", "", "Username for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	role := addUserCmd.String("role", "Server", "Role: Admin or Server")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-user' or 'seed' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(*username, *password, models.Role(*role))
	case "seed":
		seed()
	default:
		fmt.Println("expected 'add-user' or 'seed' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure the schema exists if running the cli before the server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func createUser(username, password string, role models.Role) {
	if role != models.RoleAdmin && role != models.RoleServer {
		log.Fatalf("Role must be %s or %s", models.RoleAdmin, models.RoleServer)
	}

	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if _, err := db.CreateUser(username, string(hashedPassword), role); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' (%s) created successfully.\n", username, role)
}

func seed() {
	db := openStore()
	if err := db.Seed(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("Database seeded.")
}
