package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// randomSecret returns n random bytes hex-encoded
func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func main() {
	fmt.Println("===========================================")
	fmt.Println("JWT Secret Generator for SwiftBus")
	fmt.Println("===========================================")
	fmt.Println()

	// 256-bit each; access and refresh must differ
	accessSecret, err := randomSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate access secret: %v", err)
	}
	refreshSecret, err := randomSecret(32)
	if err != nil {
		log.Fatalf("Failed to generate refresh secret: %v", err)
	}

	fmt.Println("Secrets generated successfully!")
	fmt.Println()
	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Println()
	fmt.Println("Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
