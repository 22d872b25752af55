// User manager CLI for Bamboo Blogs
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/config"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/database"
	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	log.Printf("Bamboo Blogs User Manager (version: %s)", config.AppVersion)
	var (
		createUser = flag.Bool("create", false, "Create a new user")
		listUsers  = flag.Bool("list", false, "List all users")
		deleteUser = flag.Bool("delete", false, "Delete a user")
		updateUser = flag.Bool("update", false, "Update a user's password")
		promote    = flag.Bool("promote", false, "Grant admin role to user")
		demote     = flag.Bool("demote", false, "Revoke admin role from user")
		email      = flag.String("email", "", "Email for user operations")
		display    = flag.String("display", "", "Display name for user creation")
		admin      = flag.Bool("admin", false, "Create user with admin role")
		dbPath     = flag.String("db", "", "Path to sqlite database file (default: data/bamboo-blogs.sq3)")
	)
	flag.Parse()

	if !*createUser && !*listUsers && !*deleteUser && !*updateUser && !*promote && !*demote {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -create -email john@example.com -display \"John Doe\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -update -email john@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -promote -email john@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -delete -email john@example.com\n", os.Args[0])
		os.Exit(1)
	}

	dbconfig := database.DefaultDBConfig()
	if *dbPath != "" {
		dbconfig.MainDB = *dbPath
	}
	db, err := database.OpenDatabase(dbconfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Shutdown()

	switch {
	case *createUser:
		if *email == "" {
			log.Fatal("Email is required for user creation")
		}
		if err := createNewUser(db, *email, *display, *admin); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

	case *listUsers:
		if err := listAllUsers(db); err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}

	case *deleteUser:
		if *email == "" {
			log.Fatal("Email is required for user deletion")
		}
		if err := deleteExistingUser(db, *email); err != nil {
			log.Fatalf("Failed to delete user: %v", err)
		}

	case *updateUser:
		if *email == "" {
			log.Fatal("Email is required for user update")
		}
		if err := updateUserPassword(db, *email); err != nil {
			log.Fatalf("Failed to update user: %v", err)
		}

	case *promote:
		if *email == "" {
			log.Fatal("Email is required to promote a user")
		}
		if err := setAdminRole(db, *email, true); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}

	case *demote:
		if *email == "" {
			log.Fatal("Email is required to demote a user")
		}
		if err := setAdminRole(db, *email, false); err != nil {
			log.Fatalf("Failed to demote user: %v", err)
		}
	}
}

func createNewUser(db *database.Database, email, displayName string, isAdmin bool) error {
	// Check if user already exists
	if _, err := db.GetUserByEmail(email); err == nil {
		return fmt.Errorf("email '%s' already exists", email)
	}

	if displayName == "" {
		displayName = email
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		IsAdmin:      isAdmin,
	}
	if err := db.InsertUser(user); err != nil {
		return err
	}

	fmt.Printf("Created user '%s' (id %d, admin=%t)\n", email, user.ID, isAdmin)
	return nil
}

func listAllUsers(db *database.Database) error {
	users, err := db.ListUsers()
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %-35s %-25s %-6s %s\n", "ID", "EMAIL", "DISPLAY NAME", "ADMIN", "CREATED")
	for _, u := range users {
		fmt.Printf("%-5d %-35s %-25s %-6t %s\n",
			u.ID, u.Email, u.DisplayName, u.IsAdmin, u.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\n%d user(s)\n", len(users))
	return nil
}

func deleteExistingUser(db *database.Database, email string) error {
	user, err := db.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("user '%s' not found", email)
	}

	fmt.Printf("Delete user '%s' (id %d)? Type the email to confirm: ", user.Email, user.ID)
	var confirm string
	if _, err := fmt.Scanln(&confirm); err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if confirm != email {
		return fmt.Errorf("confirmation did not match, aborting")
	}

	if err := db.DeleteUser(user.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted user '%s'\n", email)
	return nil
}

func updateUserPassword(db *database.Database, email string) error {
	user, err := db.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("user '%s' not found", email)
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.UpdateUserPassword(user.ID, string(hash)); err != nil {
		return err
	}
	fmt.Printf("Updated password for '%s'\n", email)
	return nil
}

func setAdminRole(db *database.Database, email string, isAdmin bool) error {
	user, err := db.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("user '%s' not found", email)
	}

	if err := db.SetUserAdmin(user.ID, isAdmin); err != nil {
		return err
	}
	fmt.Printf("Set admin=%t for '%s'\n", isAdmin, email)
	return nil
}

// promptPassword reads and confirms a password without echoing it
func promptPassword() ([]byte, error) {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("failed to read password confirmation: %w", err)
	}
	fmt.Println()

	if string(password) != string(confirmPassword) {
		return nil, fmt.Errorf("passwords do not match")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters long")
	}
	return password, nil
}
