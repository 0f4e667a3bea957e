// Command issue-token prints a bearer token for local testing
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"nyaymitra-backend/handlers"
	"nyaymitra-backend/logger"
)

func main() {
	logger.Setup(logger.Config{Level: "info", Pretty: true})

	user := flag.String("user", "test-user", "user id placed in the token subject")
	role := flag.String("role", "", "optional role, e.g. admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	token, err := handlers.NewIdentity(secret).GenerateToken(*user, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}

	fmt.Printf("✅ Token for %s\n", *user)
	fmt.Println(token)
}
