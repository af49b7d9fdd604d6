package main

import (
	"flag"
	"fmt"
	"log"

	"totocalcio/internal/auth"
	"totocalcio/internal/config"
)

// admintoken mints a bearer token for the admin API.
func main() {
	operator := flag.String("operator", "admin", "name recorded in the token")
	ttl := flag.Duration("ttl", auth.DefaultTokenTTL, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	auth.InitJWT(cfg.App.JWTSecret)

	token, err := auth.GenerateToken(*operator, *ttl)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
