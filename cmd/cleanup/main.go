// Command cleanup removes refresh-token rows past their retention window:
// expired tokens older than -keep-expired-days and revoked tokens created
// before -keep-revoked-days. It is meant to run as a scheduled task; the
// live request path never deletes rows, so the audit trail of rotations
// survives until this sweep.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/lobami/campaign-analytics/internal/config"
	"github.com/lobami/campaign-analytics/internal/logging"
	"github.com/lobami/campaign-analytics/internal/repo"
)

func main() {
	keepExpiredDays := flag.Int("keep-expired-days", 30, "keep expired tokens this many days before deleting")
	keepRevokedDays := flag.Int("keep-revoked-days", 7, "keep revoked tokens this many days before deleting")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	tokenRepo := repo.NewTokenRepo(db)

	now := time.Now()

	expired, err := tokenRepo.DeleteExpiredBefore(now.AddDate(0, 0, -*keepExpiredDays))
	if err != nil {
		log.Fatalf("cleanup expired tokens: %v", err)
	}
	if expired > 0 {
		logger.Info("cleanup_expired_tokens", "deleted", expired)
	}

	revoked, err := tokenRepo.DeleteRevokedBefore(now.AddDate(0, 0, -*keepRevokedDays))
	if err != nil {
		log.Fatalf("cleanup revoked tokens: %v", err)
	}
	if revoked > 0 {
		logger.Info("cleanup_revoked_tokens", "deleted", revoked)
	}

	logger.Info("cleanup_done", "total_deleted", expired+revoked)
}
