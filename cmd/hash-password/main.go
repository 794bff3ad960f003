package main

import (
	"fmt"
	"syscall"

	"github.com/lectern/courseport-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// hash-password generates the bcrypt hash for the shared instructor
// credential. Put the output in INSTRUCTOR_PASSWORD_HASH.
func main() {
	cfg := config.Load()

	fmt.Print("Enter Instructor Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()

	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword(bytePassword, cfg.BcryptCost)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("\nINSTRUCTOR_PASSWORD_HASH=" + string(hash))
}
