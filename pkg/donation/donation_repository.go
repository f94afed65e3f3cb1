package donation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/entities"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		GetFeed(ctx context.Context, now time.Time) ([]*entities.Donation, error)
		GetFeedNearby(ctx context.Context, lat, lng float64, now time.Time) ([]*DonationWithDistance, error)
		GetDonationsByDonator(ctx context.Context, donatorID string) ([]*entities.Donation, error)
		GetDonationsByClaimant(ctx context.Context, claimantID string) ([]*entities.Donation, error)
		ClaimDonation(ctx context.Context, id string, claimantID uuid.UUID, claimedAt time.Time) (int64, error)
		CompleteDonation(ctx context.Context, id string) error
		ReleaseDonation(ctx context.Context, id string) error
		DeleteDonation(ctx context.Context, id string, donatorID string) (int64, error)
		CountDonations(ctx context.Context) (total int64, completed int64, err error)
		CountDistinctClaimants(ctx context.Context) (int64, error)
		AvgCompletionSeconds(ctx context.Context) (float64, error)
		GetCompletedQuantities(ctx context.Context) ([]string, error)
	}

	// DonationWithDistance is a feed row annotated with the great-circle
	// distance (meters) from the viewer.
	DonationWithDistance struct {
		entities.Donation
		Distance float64 `json:"distance"`
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donator").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetFeed(ctx context.Context, now time.Time) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donator").
		Where("status = ? AND expires_at >= ?", "available", now).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) GetFeedNearby(ctx context.Context, lat, lng float64, now time.Time) ([]*DonationWithDistance, error) {
	var donations []*DonationWithDistance

	// Using PostgreSQL's earthdistance extension for location-based queries
	// Make sure you've installed the extension with:
	// CREATE EXTENSION IF NOT EXISTS "earthdistance" CASCADE;
	// CREATE EXTENSION IF NOT EXISTS "cube";
	query := `
		SELECT *,
		       earth_distance(ll_to_earth(?, ?), ll_to_earth(latitude, longitude)) as distance
		FROM donations
		WHERE status = 'available' AND expires_at >= ?
		ORDER BY distance ASC
	`

	if err := r.db.WithContext(ctx).Raw(query, lat, lng, now).Scan(&donations).Error; err != nil {
		return nil, err
	}

	// Eager-load the donor for each row
	for i, item := range donations {
		if err := r.db.WithContext(ctx).Model(&item.Donation).Association("Donator").Find(&item.Donator); err != nil {
			continue
		}
		donations[i] = item
	}

	return donations, nil
}

func (r *donationRepository) GetDonationsByDonator(ctx context.Context, donatorID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donator").
		Where("donator_id = ?", donatorID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) GetDonationsByClaimant(ctx context.Context, claimantID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donator").
		Where("claimed_by_id = ?", claimantID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// ClaimDonation is a single conditional update: the status guard rides on the
// UPDATE itself so two concurrent claims cannot both succeed. The caller
// inspects the affected-row count.
func (r *donationRepository) ClaimDonation(ctx context.Context, id string, claimantID uuid.UUID, claimedAt time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND status = ?", id, "available").
		Updates(map[string]interface{}{
			"status":        "claimed",
			"claimed_by_id": claimantID,
			"claimed_at":    claimedAt,
		})
	return tx.RowsAffected, tx.Error
}

func (r *donationRepository) CompleteDonation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Update("status", "completed").Error
}

func (r *donationRepository) ReleaseDonation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        "available",
			"claimed_by_id": nil,
			"claimed_at":    nil,
		}).Error
}

// DeleteDonation scopes the delete to the owning donor; a zero row count
// covers both "no such donation" and "not yours".
func (r *donationRepository) DeleteDonation(ctx context.Context, id string, donatorID string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND donator_id = ?", id, donatorID).
		Delete(&entities.Donation{})
	return tx.RowsAffected, tx.Error
}

func (r *donationRepository) CountDonations(ctx context.Context) (int64, int64, error) {
	var total, completed int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ?", "completed").
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}

func (r *donationRepository) CountDistinctClaimants(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("claimed_by_id IS NOT NULL").
		Distinct("claimed_by_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *donationRepository) AvgCompletionSeconds(ctx context.Context) (float64, error) {
	var result struct {
		AvgSeconds float64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at))), 0) as avg_seconds").
		Where("status = ?", "completed").
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.AvgSeconds, nil
}

func (r *donationRepository) GetCompletedQuantities(ctx context.Context) ([]string, error) {
	var quantities []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ?", "completed").
		Pluck("quantity", &quantities).Error; err != nil {
		return nil, err
	}
	return quantities, nil
}
