// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (+4915100000001) already exists.
//
// The dev device is trusted. SendOTP for the dev phone with device fingerprint
// "dev-device-001" and the device token printed by seed (authcli -device-token)
// signs in without an OTP.
package main

import (
	"context"
	"log"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/config"
	"github.com/Snehil208001/Gr-nZimmer/internal/db"
	devicedomain "github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
	devicerepo "github.com/Snehil208001/Gr-nZimmer/internal/device/repository"
	identitydomain "github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
	identityrepo "github.com/Snehil208001/Gr-nZimmer/internal/identity/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
	userdomain "github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
	userrepo "github.com/Snehil208001/Gr-nZimmer/internal/user/repository"
)

const (
	devUserID      = "dev-user-001"
	devUserPhone   = "+4915100000001"
	devUserName    = "Dev Gardener"
	devIdentityID  = "dev-identity-001"
	devDeviceID    = "dev-device-001"
	devFingerprint = "dev-device-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	identities := identityrepo.NewPostgresRepository(conn)
	devices := devicerepo.NewPostgresRepository(conn)

	existing, err := users.GetByPhone(ctx, devUserPhone)
	if err != nil {
		log.Fatalf("seed: lookup dev user: %v", err)
	}
	if existing != nil {
		log.Printf("seed: dev user %s already exists, nothing to do", devUserPhone)
		return
	}

	now := time.Now().UTC()
	if err := users.Create(ctx, &userdomain.User{
		ID:            devUserID,
		Phone:         devUserPhone,
		PhoneVerified: true,
		Name:          devUserName,
		Status:        userdomain.UserStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		log.Fatalf("seed: create user: %v", err)
	}
	if err := identities.Create(ctx, &identitydomain.Identity{
		ID:         devIdentityID,
		UserID:     devUserID,
		Provider:   identitydomain.IdentityProviderPhone,
		ProviderID: devUserPhone,
		CreatedAt:  now,
	}); err != nil {
		log.Fatalf("seed: create identity: %v", err)
	}
	deviceToken, tokenHash, err := security.NewDeviceToken()
	if err != nil {
		log.Fatalf("seed: device token: %v", err)
	}
	if err := devices.Create(ctx, &devicedomain.Device{
		ID:             devDeviceID,
		UserID:         devUserID,
		Fingerprint:    devFingerprint,
		Trusted:        true,
		TrustTokenHash: tokenHash,
		CreatedAt:      now,
	}); err != nil {
		log.Fatalf("seed: create device: %v", err)
	}
	log.Printf("seed: created dev user %s with trusted device %s", devUserPhone, devFingerprint)
	log.Printf("seed: device token for %s: %s", devFingerprint, deviceToken)
}
