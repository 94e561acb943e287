package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/models"
)

// ErrTokenSpent reports that a rotation lost the race: the predecessor was
// already revoked by the time the transaction tried to claim it.
var ErrTokenSpent = errors.New("refresh token already spent")

// TokenRepo is the refresh-token store.
type TokenRepo struct{ DB *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{DB: db} }

func (r *TokenRepo) Store(rt *models.RefreshToken) error {
	return r.DB.Create(rt).Error
}

func (r *TokenRepo) Find(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke marks a token revoked. Reports whether a live token was hit;
// unknown or already-revoked tokens are a no-op.
func (r *TokenRepo) Revoke(token string) (bool, error) {
	res := r.DB.Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", token, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Rotate atomically revokes the old token and inserts its successor. The
// guarded update is the compare-and-swap that makes a refresh token
// redeemable exactly once: of two concurrent rotations, one sees zero rows
// affected and gets ErrTokenSpent.
func (r *TokenRepo) Rotate(oldToken string, successor *models.RefreshToken) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token = ? AND revoked = ?", oldToken, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenSpent
		}
		return tx.Create(successor).Error
	})
}

// DeleteExpiredBefore removes rows whose expiry is older than the cutoff.
// Maintenance only; the live path never deletes rows.
func (r *TokenRepo) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Where("expires_at < ?", cutoff).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

// DeleteRevokedBefore removes revoked rows created before the cutoff.
func (r *TokenRepo) DeleteRevokedBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Where("revoked = ? AND created_at < ?", true, cutoff).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
