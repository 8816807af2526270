package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/ftoscano/user-directory/internal/config"
	"github.com/ftoscano/user-directory/internal/logging"
	"github.com/ftoscano/user-directory/internal/server"
	"github.com/ftoscano/user-directory/internal/token"
	"github.com/ftoscano/user-directory/internal/user"
)

// main wires dependencies (dependency injection) and starts the HTTP server.
func main() {
	_ = godotenv.Load()

	log := logging.NewDefault()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "invalid configuration", "err", err)
		os.Exit(1)
	}

	tokens, err := token.NewManager(token.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.TokenTTL(),
	})
	if err != nil {
		log.Error(ctx, "token manager init failed", "err", err)
		os.Exit(1)
	}

	store := user.NewInMemoryStore(seedUsers())

	app := server.New(log, tokens, store)

	log.Info(ctx, "starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

// seedUsers pre-populates the directory so login works on a fresh process;
// the collection lives for the process lifetime only.
func seedUsers() []user.User {
	return []user.User{
		{FirstName: "Mario", LastName: "Rossi", Email: "mario.rossi@test.it", PhoneNumber: "+393331112233"},
		{FirstName: "Martina", LastName: "Bianchi", Email: "martina.bianchi@test.it", PhoneNumber: "+393334455667"},
		{FirstName: "Luca", LastName: "Verdi", Email: "luca.verdi@test.it", PhoneNumber: "+393339988776"},
	}
}
