package donation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/entities"
	"github.com/manjeet0006/FoodShare/internal/utils/mailing"
	"github.com/manjeet0006/FoodShare/internal/utils/storage"
	"github.com/manjeet0006/FoodShare/pkg/user"
)

const (
	statsCacheKey = "foodshare:stats:global"
	statsCacheTTL = 60 * time.Second
)

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.CreateDonationRequest, userID string) (*domain.Donation, error)
		GetFeed(ctx context.Context, lat, lng *float64) ([]*domain.Donation, error)
		GetMyDonations(ctx context.Context, userID string, role string) ([]*domain.Donation, error)
		GetDonationByID(ctx context.Context, id string) (*domain.Donation, error)
		UpdateDonationStatus(ctx context.Context, req domain.UpdateDonationStatusRequest, donationID, userID, role string) (*domain.Donation, error)
		CancelClaim(ctx context.Context, donationID, userID string) (*domain.Donation, error)
		DeleteDonation(ctx context.Context, donationID, userID string) error
		GetGlobalStats(ctx context.Context) (*domain.GlobalStats, error)
	}

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		s3                 storage.AwsS3
		rdb                *redis.Client
	}
)

func NewDonationService(donationRepository DonationRepository, userRepository user.UserRepository, s3 storage.AwsS3, rdb *redis.Client) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		s3:                 s3,
		rdb:                rdb,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.CreateDonationRequest, userID string) (*domain.Donation, error) {
	donatorUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		return nil, domain.ErrInvalidExpirationDate
	}

	donationID := uuid.New()

	var imageURL string
	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("donation-%s", donationID.String()),
			req.Image,
			"donations",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	// The owner and the initial status come from the token, never from the
	// request body.
	donation := &entities.Donation{
		ID:            donationID,
		DonatorID:     donatorUUID,
		Title:         req.Title,
		Description:   req.Description,
		FoodType:      req.FoodType,
		Quantity:      req.Quantity,
		City:          req.City,
		PickupAddress: req.PickupAddress,
		ExpiresAt:     expiresAt,
		ImageURL:      imageURL,
		Status:        domain.DonationStatusAvailable,
		Longitude:     req.Longitude,
		Latitude:      req.Latitude,
	}

	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	return toDomainDonation(donation, nil), nil
}

func (s *donationService) GetFeed(ctx context.Context, lat, lng *float64) ([]*domain.Donation, error) {
	if lat != nil && lng != nil {
		nearby, err := s.donationRepository.GetFeedNearby(ctx, *lat, *lng, time.Now())
		if err == nil {
			result := make([]*domain.Donation, 0, len(nearby))
			for _, row := range nearby {
				distance := row.Distance
				result = append(result, toDomainDonation(&row.Donation, &distance))
			}
			return result, nil
		}
		// The geo path degrades, it never breaks browsing.
		log.Printf("geo feed query failed, falling back to recency ordering: %v", err)
	}

	donations, err := s.donationRepository.GetFeed(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainDonation(d, nil))
	}
	return result, nil
}

func (s *donationService) GetMyDonations(ctx context.Context, userID string, role string) ([]*domain.Donation, error) {
	var (
		donations []*entities.Donation
		err       error
	)

	if role == domain.RoleDonor {
		donations, err = s.donationRepository.GetDonationsByDonator(ctx, userID)
	} else {
		donations, err = s.donationRepository.GetDonationsByClaimant(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainDonation(d, nil))
	}
	return result, nil
}

func (s *donationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		// A malformed id is indistinguishable from a missing one.
		return nil, domain.ErrDonationNotFound
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return toDomainDonation(donation, nil), nil
}

func (s *donationService) UpdateDonationStatus(ctx context.Context, req domain.UpdateDonationStatusRequest, donationID, userID, role string) (*domain.Donation, error) {
	if _, err := uuid.Parse(donationID); err != nil {
		return nil, domain.ErrDonationNotFound
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	switch req.Status {
	case domain.DonationStatusClaimed:
		if role != domain.RoleReceiver {
			return nil, domain.ErrOnlyReceiverCanClaim
		}

		claimantUUID, err := uuid.Parse(userID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}

		rows, err := s.donationRepository.ClaimDonation(ctx, donationID, claimantUUID, time.Now())
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, domain.ErrDonationNotAvailable
		}

		// Best effort: the claim stands whether or not the donor gets the
		// email.
		go s.notifyDonorClaimed(donation, userID)

	case domain.DonationStatusCompleted:
		if donation.DonatorID.String() != userID {
			return nil, domain.ErrOnlyDonorCanComplete
		}

		if err := s.donationRepository.CompleteDonation(ctx, donationID); err != nil {
			return nil, err
		}

	default:
		return nil, domain.ErrInvalidDonationStatus
	}

	updated, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return toDomainDonation(updated, nil), nil
}

// CancelClaim reverts a claimed donation to the pool. Releasing a donation
// that is already available is a no-op; a completed donation stays completed.
func (s *donationService) CancelClaim(ctx context.Context, donationID, userID string) (*domain.Donation, error) {
	if _, err := uuid.Parse(donationID); err != nil {
		return nil, domain.ErrDonationNotFound
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	isDonor := donation.DonatorID.String() == userID
	isClaimant := donation.ClaimedByID != nil && donation.ClaimedByID.String() == userID
	if !isDonor && !isClaimant {
		return nil, domain.ErrNotDonationParty
	}

	if donation.Status == domain.DonationStatusCompleted {
		return nil, domain.ErrDonationCompleted
	}
	if donation.Status == domain.DonationStatusAvailable {
		return toDomainDonation(donation, nil), nil
	}

	if err := s.donationRepository.ReleaseDonation(ctx, donationID); err != nil {
		return nil, err
	}

	updated, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return toDomainDonation(updated, nil), nil
}

func (s *donationService) DeleteDonation(ctx context.Context, donationID, userID string) error {
	if _, err := uuid.Parse(donationID); err != nil {
		return domain.ErrDonationNotFound
	}

	rows, err := s.donationRepository.DeleteDonation(ctx, donationID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrDonationNotFound
	}
	return nil
}

func (s *donationService) GetGlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, statsCacheKey).Result()
		if err == nil {
			stats := new(domain.GlobalStats)
			if err := json.Unmarshal([]byte(cached), stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("stats cache read failed: %v", err)
		}
	}

	stats, err := s.computeGlobalStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				log.Printf("stats cache write failed: %v", err)
			}
		}
	}

	return stats, nil
}

func (s *donationService) computeGlobalStats(ctx context.Context) (*domain.GlobalStats, error) {
	total, completed, err := s.donationRepository.CountDonations(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.GlobalStats{}
	if total == 0 {
		return stats, nil
	}

	claimants, err := s.donationRepository.CountDistinctClaimants(ctx)
	if err != nil {
		return nil, err
	}
	stats.NGOCount = int(claimants)

	quantities, err := s.donationRepository.GetCompletedQuantities(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range quantities {
		stats.TotalWeight += parseQuantityMagnitude(q)
	}

	if completed > 0 {
		avgSeconds, err := s.donationRepository.AvgCompletionSeconds(ctx)
		if err != nil {
			return nil, err
		}
		stats.AvgMinutes = int(math.Round(avgSeconds / 60))
	}

	stats.SuccessRate = int(math.Round(float64(completed) / float64(total) * 100))
	return stats, nil
}

func (s *donationService) notifyDonorClaimed(donation *entities.Donation, claimantID string) {
	ctx := context.Background()

	donor, err := s.userRepository.GetUserByID(ctx, donation.DonatorID.String())
	if err != nil {
		log.Printf("claim notification skipped, donor lookup failed: %v", err)
		return
	}
	claimant, err := s.userRepository.GetUserByID(ctx, claimantID)
	if err != nil {
		log.Printf("claim notification skipped, claimant lookup failed: %v", err)
		return
	}

	claimantName := claimant.FullName
	if claimant.OrganizationName != "" {
		claimantName = fmt.Sprintf("%s (%s)", claimant.FullName, claimant.OrganizationName)
	}

	subject := fmt.Sprintf("Your donation %q has been claimed", donation.Title)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has claimed your donation <b>%s</b>. You can coordinate the pickup in the app messages.</p>",
		donor.FullName, claimantName, donation.Title,
	)
	if err := mailing.SendMail(donor.Email, subject, body); err != nil {
		log.Printf("claim notification mail failed: %v", err)
	}
}

func parseExpiresAt(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// parseQuantityMagnitude extracts the leading numeric magnitude of a free-text
// quantity ("10 kg" -> 10, "5.5" -> 5.5). Anything without one counts as 0.
func parseQuantityMagnitude(quantity string) float64 {
	i := 0
	for i < len(quantity) && (quantity[i] == ' ' || quantity[i] == '\t') {
		i++
	}
	start := i
	dotSeen := false
	for i < len(quantity) {
		c := quantity[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && !dotSeen {
			dotSeen = true
			i++
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(quantity[start:i], 64)
	if err != nil {
		return 0
	}
	return value
}

func toDomainDonation(donation *entities.Donation, distance *float64) *domain.Donation {
	result := &domain.Donation{
		ID:            donation.ID.String(),
		DonatorID:     donation.DonatorID.String(),
		Title:         donation.Title,
		Description:   donation.Description,
		FoodType:      donation.FoodType,
		Quantity:      donation.Quantity,
		City:          donation.City,
		PickupAddress: donation.PickupAddress,
		ExpiresAt:     donation.ExpiresAt,
		ImageURL:      donation.ImageURL,
		Location: domain.GeoPoint{
			Type:        "Point",
			Coordinates: [2]float64{donation.Longitude, donation.Latitude},
		},
		Distance:  distance,
		Status:    donation.Status,
		ClaimedAt: donation.ClaimedAt,
		CreatedAt: donation.CreatedAt,
		UpdatedAt: donation.UpdatedAt,
	}

	if donation.ClaimedByID != nil {
		result.ClaimedBy = donation.ClaimedByID.String()
	}
	if donation.Donator != nil {
		result.Donator = &domain.PublicUser{
			ID:               donation.Donator.ID.String(),
			FullName:         donation.Donator.FullName,
			OrganizationName: donation.Donator.OrganizationName,
		}
	}
	return result
}
