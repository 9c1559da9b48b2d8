package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Agrawal-Rajat/techno-club-backend/config"
	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
)

// Seeds a superadmin plus one admin per club for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	upsert := func(email, name string, role entity.Role, club entity.Club) {
		var id string
		err := db.QueryRow(`
			INSERT INTO users (email, password_hash, name, role, club)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role, club = EXCLUDED.club
			RETURNING id
		`, email, hash, name, string(role), string(club)).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", email, err)
		}
		fmt.Printf("seeded: id=%s email=%s role=%s club=%s password=%s\n", id, email, role, club, password)
	}

	upsert("superadmin@technoclubs.local", "Super Admin", entity.RoleSuperAdmin, entity.ClubNone)
	for _, club := range entity.Clubs() {
		email := fmt.Sprintf("%s.admin@technoclubs.local", club)
		upsert(email, string(club)+" Admin", entity.RoleAdmin, club)
	}
}
