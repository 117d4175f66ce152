// Command devtoken issues signed access tokens for local development, standing
// in for the external identity provider.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/identity"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/shared"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/auth"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/config"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		role          string
		userID        string
		residentID    string
		rt, rw        string
		registerAdmin bool
	)
	flag.StringVar(&role, "role", "resident", "Role of the principal (admin, resident)")
	flag.StringVar(&userID, "user", "", "User ID (default: random)")
	flag.StringVar(&residentID, "resident", "", "Resident ID, required for residents")
	flag.StringVar(&rt, "rt", "", "RT number, e.g. 003")
	flag.StringVar(&rw, "rw", "", "RW number, e.g. 007")
	flag.BoolVar(&registerAdmin, "register-admin", false, "Record the admin for the neighborhood so payment notices reach them")
	flag.Parse()

	if err := run(role, userID, residentID, shared.Neighborhood{RT: rt, RW: rw}, registerAdmin); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(role, userID, residentID string, hood shared.Neighborhood, registerAdmin bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to mint tokens in production")
	}

	p := identity.Principal{Role: identity.Role(role), Neighborhood: hood, UserID: uuid.New()}
	if userID != "" {
		if p.UserID, err = uuid.Parse(userID); err != nil {
			return fmt.Errorf("invalid user ID: %w", err)
		}
	}
	if residentID != "" {
		id, err := uuid.Parse(residentID)
		if err != nil {
			return fmt.Errorf("invalid resident ID: %w", err)
		}
		p.ResidentID = &id
	}

	issued, err := auth.NewJWTService(cfg.JWT).Issue(p)
	if err != nil {
		return err
	}

	if registerAdmin && p.IsAdmin() {
		db, err := persistence.NewDatabase(&cfg.Database, zap.NewNop(), "silent")
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() { _ = db.Close() }()
		if err := persistence.NewGormResidentRepository(db.DB).AssignAdmin(context.Background(), p.Neighborhood, p.UserID); err != nil {
			return fmt.Errorf("register admin: %w", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"user_id":      p.UserID,
		"role":         p.Role,
		"rt":           p.Neighborhood.RT,
		"rw":           p.Neighborhood.RW,
		"resident_id":  p.ResidentID,
		"access_token": issued.AccessToken,
		"token_type":   issued.TokenType,
		"expires_at":   issued.ExpiresAt,
	})
}
