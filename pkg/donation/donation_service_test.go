package donation

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/entities"
)

type fakeDonationRepository struct {
	donations map[string]*entities.Donation

	feed      []*entities.Donation
	nearby    []*DonationWithDistance
	nearbyErr error

	claimRows  int64
	claimErr   error
	deleteRows int64

	total      int64
	completed  int64
	claimants  int64
	avgSeconds float64
	quantities []string

	created      []*entities.Donation
	releasedIDs  []string
	completedIDs []string
	feedCalls    int
	nearbyCalls  int
	getCalls     int
	deleteCalls  int
}

func newFakeDonationRepository() *fakeDonationRepository {
	return &fakeDonationRepository{donations: make(map[string]*entities.Donation)}
}

func (f *fakeDonationRepository) CreateDonation(_ context.Context, donation *entities.Donation) error {
	f.created = append(f.created, donation)
	f.donations[donation.ID.String()] = donation
	return nil
}

func (f *fakeDonationRepository) GetDonationByID(_ context.Context, id string) (*entities.Donation, error) {
	f.getCalls++
	donation, ok := f.donations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return donation, nil
}

func (f *fakeDonationRepository) GetFeed(_ context.Context, _ time.Time) ([]*entities.Donation, error) {
	f.feedCalls++
	return f.feed, nil
}

func (f *fakeDonationRepository) GetFeedNearby(_ context.Context, _, _ float64, _ time.Time) ([]*DonationWithDistance, error) {
	f.nearbyCalls++
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	return f.nearby, nil
}

func (f *fakeDonationRepository) GetDonationsByDonator(_ context.Context, donatorID string) ([]*entities.Donation, error) {
	var result []*entities.Donation
	for _, d := range f.donations {
		if d.DonatorID.String() == donatorID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeDonationRepository) GetDonationsByClaimant(_ context.Context, claimantID string) ([]*entities.Donation, error) {
	var result []*entities.Donation
	for _, d := range f.donations {
		if d.ClaimedByID != nil && d.ClaimedByID.String() == claimantID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeDonationRepository) ClaimDonation(_ context.Context, id string, claimantID uuid.UUID, claimedAt time.Time) (int64, error) {
	if f.claimErr != nil {
		return 0, f.claimErr
	}
	if f.claimRows > 0 {
		if donation, ok := f.donations[id]; ok {
			donation.Status = domain.DonationStatusClaimed
			donation.ClaimedByID = &claimantID
			donation.ClaimedAt = &claimedAt
		}
	}
	return f.claimRows, nil
}

func (f *fakeDonationRepository) CompleteDonation(_ context.Context, id string) error {
	f.completedIDs = append(f.completedIDs, id)
	if donation, ok := f.donations[id]; ok {
		donation.Status = domain.DonationStatusCompleted
	}
	return nil
}

func (f *fakeDonationRepository) ReleaseDonation(_ context.Context, id string) error {
	f.releasedIDs = append(f.releasedIDs, id)
	if donation, ok := f.donations[id]; ok {
		donation.Status = domain.DonationStatusAvailable
		donation.ClaimedByID = nil
		donation.ClaimedAt = nil
	}
	return nil
}

func (f *fakeDonationRepository) DeleteDonation(_ context.Context, _ string, _ string) (int64, error) {
	f.deleteCalls++
	return f.deleteRows, nil
}

func (f *fakeDonationRepository) CountDonations(_ context.Context) (int64, int64, error) {
	return f.total, f.completed, nil
}

func (f *fakeDonationRepository) CountDistinctClaimants(_ context.Context) (int64, error) {
	return f.claimants, nil
}

func (f *fakeDonationRepository) AvgCompletionSeconds(_ context.Context) (float64, error) {
	return f.avgSeconds, nil
}

func (f *fakeDonationRepository) GetCompletedQuantities(_ context.Context) ([]string, error) {
	return f.quantities, nil
}

type fakeUserRepository struct{}

func (fakeUserRepository) CreateUser(_ context.Context, _ *entities.User) error { return nil }
func (fakeUserRepository) GetUserByID(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeUserRepository) GetUserByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeUserRepository) GetUsersByIDs(_ context.Context, _ []string) ([]*entities.User, error) {
	return nil, nil
}
func (fakeUserRepository) CheckEmailExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (fakeUserRepository) UpdateUser(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

type fakeStorage struct {
	uploads int
}

func (f *fakeStorage) UploadFile(name string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	f.uploads++
	return dir + "/" + name, nil
}

func (f *fakeStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

func newTestService(repo *fakeDonationRepository) DonationService {
	return NewDonationService(repo, fakeUserRepository{}, &fakeStorage{}, nil)
}

func seedDonation(repo *fakeDonationRepository, donatorID uuid.UUID, status string) *entities.Donation {
	donation := &entities.Donation{
		ID:        uuid.New(),
		DonatorID: donatorID,
		Title:     "Leftover bread",
		Quantity:  "10 kg",
		Status:    status,
		Longitude: 106.8,
		Latitude:  -6.2,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	repo.donations[donation.ID.String()] = donation
	return donation
}

func TestCreateDonationForcesOwnerAndStatus(t *testing.T) {
	repo := newFakeDonationRepository()
	service := newTestService(repo)
	donatorID := uuid.New()

	result, err := service.CreateDonation(context.Background(), domain.CreateDonationRequest{
		Title:         "Rice boxes",
		Description:   "20 boxes from an event",
		FoodType:      "cooked",
		Quantity:      "20 boxes",
		City:          "Jakarta",
		PickupAddress: "Jl. Sudirman 1",
		ExpiresAt:     "2026-09-15",
		Longitude:     106.8,
		Latitude:      -6.2,
	}, donatorID.String())
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, donatorID, repo.created[0].DonatorID)
	assert.Equal(t, domain.DonationStatusAvailable, repo.created[0].Status)
	assert.Equal(t, domain.DonationStatusAvailable, result.Status)
	assert.Empty(t, result.ImageURL)
}

func TestCreateDonationRejectsBadExpiration(t *testing.T) {
	service := newTestService(newFakeDonationRepository())

	_, err := service.CreateDonation(context.Background(), domain.CreateDonationRequest{
		Title:     "Rice boxes",
		Quantity:  "20 boxes",
		ExpiresAt: "next tuesday",
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidExpirationDate)
}

func TestCreateDonationAcceptsRFC3339Expiration(t *testing.T) {
	repo := newFakeDonationRepository()
	service := newTestService(repo)

	_, err := service.CreateDonation(context.Background(), domain.CreateDonationRequest{
		Title:     "Rice boxes",
		Quantity:  "20 boxes",
		ExpiresAt: "2026-09-15T18:00:00Z",
	}, uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, 2026, repo.created[0].ExpiresAt.Year())
}

func TestGetFeedWithoutCoordinates(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.feed = []*entities.Donation{
		seedDonation(repo, uuid.New(), domain.DonationStatusAvailable),
	}
	service := newTestService(repo)

	result, err := service.GetFeed(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Distance)
	assert.Zero(t, repo.nearbyCalls)
}

func TestGetFeedWithCoordinatesAnnotatesDistance(t *testing.T) {
	repo := newFakeDonationRepository()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	repo.nearby = []*DonationWithDistance{{Donation: *donation, Distance: 1523.4}}
	service := newTestService(repo)

	lat, lng := -6.2, 106.8
	result, err := service.GetFeed(context.Background(), &lat, &lng)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Distance)
	assert.InDelta(t, 1523.4, *result[0].Distance, 0.001)
}

func TestGetFeedKeepsNearestFirstOrder(t *testing.T) {
	repo := newFakeDonationRepository()
	near := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	far := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	repo.nearby = []*DonationWithDistance{
		{Donation: *near, Distance: 10},
		{Donation: *far, Distance: 1000},
	}
	service := newTestService(repo)

	lat, lng := 0.0, 0.0
	result, err := service.GetFeed(context.Background(), &lat, &lng)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, near.ID.String(), result[0].ID)
	assert.InDelta(t, 10, *result[0].Distance, 0.001)
	assert.Equal(t, far.ID.String(), result[1].ID)
	assert.InDelta(t, 1000, *result[1].Distance, 0.001)
}

func TestGetFeedFallsBackWhenGeoQueryFails(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.nearbyErr = errors.New("earthdistance extension missing")
	repo.feed = []*entities.Donation{
		seedDonation(repo, uuid.New(), domain.DonationStatusAvailable),
	}
	service := newTestService(repo)

	lat, lng := -6.2, 106.8
	result, err := service.GetFeed(context.Background(), &lat, &lng)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Distance)
	assert.Equal(t, 1, repo.nearbyCalls)
	assert.Equal(t, 1, repo.feedCalls)
}

func TestGetDonationPreservesCoordinateOrder(t *testing.T) {
	repo := newFakeDonationRepository()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	service := newTestService(repo)

	result, err := service.GetDonationByID(context.Background(), donation.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Point", result.Location.Type)
	assert.Equal(t, donation.Longitude, result.Location.Coordinates[0])
	assert.Equal(t, donation.Latitude, result.Location.Coordinates[1])
}

func TestGetDonationByIDMalformedIDIsNotFound(t *testing.T) {
	service := newTestService(newFakeDonationRepository())

	_, err := service.GetDonationByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestClaimDonation(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.claimRows = 1
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	service := newTestService(repo)
	claimant := uuid.New()

	result, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusClaimed},
		donation.ID.String(), claimant.String(), domain.RoleReceiver,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusClaimed, result.Status)
	assert.Equal(t, claimant.String(), result.ClaimedBy)
	assert.NotNil(t, result.ClaimedAt)
}

func TestClaimDonationRequiresReceiverRole(t *testing.T) {
	repo := newFakeDonationRepository()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusAvailable)
	service := newTestService(repo)

	_, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusClaimed},
		donation.ID.String(), uuid.New().String(), domain.RoleDonor,
	)
	assert.ErrorIs(t, err, domain.ErrOnlyReceiverCanClaim)
}

func TestClaimDonationLostRaceIsConflict(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.claimRows = 0
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusClaimed)
	service := newTestService(repo)

	_, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusClaimed},
		donation.ID.String(), uuid.New().String(), domain.RoleReceiver,
	)
	assert.ErrorIs(t, err, domain.ErrDonationNotAvailable)
}

func TestCompleteDonationRequiresDonator(t *testing.T) {
	repo := newFakeDonationRepository()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusClaimed)
	service := newTestService(repo)

	_, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusCompleted},
		donation.ID.String(), uuid.New().String(), domain.RoleDonor,
	)
	assert.ErrorIs(t, err, domain.ErrOnlyDonorCanComplete)
	assert.Empty(t, repo.completedIDs)
}

func TestCompleteDonation(t *testing.T) {
	repo := newFakeDonationRepository()
	donatorID := uuid.New()
	donation := seedDonation(repo, donatorID, domain.DonationStatusClaimed)
	service := newTestService(repo)

	result, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusCompleted},
		donation.ID.String(), donatorID.String(), domain.RoleDonor,
	)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, result.Status)
}

func TestUpdateDonationStatusUnknownDonation(t *testing.T) {
	service := newTestService(newFakeDonationRepository())

	_, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusClaimed},
		uuid.New().String(), uuid.New().String(), domain.RoleReceiver,
	)
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestUpdateDonationStatusMalformedIDIsNotFound(t *testing.T) {
	repo := newFakeDonationRepository()
	service := newTestService(repo)

	_, err := service.UpdateDonationStatus(
		context.Background(),
		domain.UpdateDonationStatusRequest{Status: domain.DonationStatusClaimed},
		"not-a-uuid", uuid.New().String(), domain.RoleReceiver,
	)
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	// the malformed id never reaches the database
	assert.Zero(t, repo.getCalls)
}

func TestCancelClaimByClaimant(t *testing.T) {
	repo := newFakeDonationRepository()
	claimant := uuid.New()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusClaimed)
	donation.ClaimedByID = &claimant
	service := newTestService(repo)

	result, err := service.CancelClaim(context.Background(), donation.ID.String(), claimant.String())
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusAvailable, result.Status)
	assert.Empty(t, result.ClaimedBy)
	assert.Equal(t, []string{donation.ID.String()}, repo.releasedIDs)
}

func TestCancelClaimByDonor(t *testing.T) {
	repo := newFakeDonationRepository()
	donatorID := uuid.New()
	claimant := uuid.New()
	donation := seedDonation(repo, donatorID, domain.DonationStatusClaimed)
	donation.ClaimedByID = &claimant
	service := newTestService(repo)

	result, err := service.CancelClaim(context.Background(), donation.ID.String(), donatorID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusAvailable, result.Status)
}

func TestCancelClaimByStrangerForbidden(t *testing.T) {
	repo := newFakeDonationRepository()
	claimant := uuid.New()
	donation := seedDonation(repo, uuid.New(), domain.DonationStatusClaimed)
	donation.ClaimedByID = &claimant
	service := newTestService(repo)

	_, err := service.CancelClaim(context.Background(), donation.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotDonationParty)
	assert.Empty(t, repo.releasedIDs)
}

func TestCancelClaimOnAvailableDonationIsNoop(t *testing.T) {
	repo := newFakeDonationRepository()
	donatorID := uuid.New()
	donation := seedDonation(repo, donatorID, domain.DonationStatusAvailable)
	service := newTestService(repo)

	result, err := service.CancelClaim(context.Background(), donation.ID.String(), donatorID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusAvailable, result.Status)
	assert.Empty(t, repo.releasedIDs)
}

func TestCancelClaimOnCompletedDonationConflicts(t *testing.T) {
	repo := newFakeDonationRepository()
	donatorID := uuid.New()
	donation := seedDonation(repo, donatorID, domain.DonationStatusCompleted)
	service := newTestService(repo)

	_, err := service.CancelClaim(context.Background(), donation.ID.String(), donatorID.String())
	assert.ErrorIs(t, err, domain.ErrDonationCompleted)
}

func TestCancelClaimMalformedIDIsNotFound(t *testing.T) {
	repo := newFakeDonationRepository()
	service := newTestService(repo)

	_, err := service.CancelClaim(context.Background(), "not-a-uuid", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	assert.Zero(t, repo.getCalls)
}

func TestDeleteDonationMalformedIDIsNotFound(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.deleteRows = 1
	service := newTestService(repo)

	err := service.DeleteDonation(context.Background(), "not-a-uuid", uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteDonationNotOwned(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.deleteRows = 0
	service := newTestService(repo)

	err := service.DeleteDonation(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestDeleteDonationOwned(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.deleteRows = 1
	service := newTestService(repo)

	err := service.DeleteDonation(context.Background(), uuid.New().String(), uuid.New().String())
	assert.NoError(t, err)
}

func TestGlobalStatsWithNoDonations(t *testing.T) {
	service := newTestService(newFakeDonationRepository())

	stats, err := service.GetGlobalStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalWeight)
	assert.Zero(t, stats.NGOCount)
	assert.Zero(t, stats.AvgMinutes)
	assert.Zero(t, stats.SuccessRate)
}

func TestGlobalStats(t *testing.T) {
	repo := newFakeDonationRepository()
	repo.total = 4
	repo.completed = 2
	repo.claimants = 2
	repo.quantities = []string{"10 kg", "about some rice", "5"}
	repo.avgSeconds = 5400
	service := newTestService(repo)

	stats, err := service.GetGlobalStats(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 15, stats.TotalWeight, 0.001)
	assert.Equal(t, 2, stats.NGOCount)
	assert.Equal(t, 90, stats.AvgMinutes)
	assert.Equal(t, 50, stats.SuccessRate)
}

func TestParseQuantityMagnitude(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10 kg", 10},
		{"5.5 liters", 5.5},
		{"  3 boxes", 3},
		{"a dozen eggs", 0},
		{"", 0},
		{"7", 7},
		{"2.5.1 kg", 2.5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseQuantityMagnitude(tc.in), "quantity %q", tc.in)
	}
}
