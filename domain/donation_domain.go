package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	DonationStatusAvailable = "available"
	DonationStatusClaimed   = "claimed"
	DonationStatusCompleted = "completed"
)

var (
	MessageSuccessCreateDonation = "donation created successfully"
	MessageSuccessGetFeed        = "donation feed retrieved successfully"
	MessageSuccessGetDonations   = "donations retrieved successfully"
	MessageSuccessUpdateDonation = "donation updated successfully"
	MessageSuccessCancelClaim    = "order returned to donation pool"
	MessageSuccessDeleteDonation = "donation deleted permanently"
	MessageSuccessGetStats       = "global statistics retrieved successfully"

	MessageFailedCreateDonation = "failed to create donation"
	MessageFailedGetFeed        = "failed to retrieve donation feed"
	MessageFailedGetDonations   = "failed to retrieve donations"
	MessageFailedUpdateDonation = "failed to update donation"
	MessageFailedCancelClaim    = "failed to cancel claim"
	MessageFailedDeleteDonation = "failed to delete donation"
	MessageFailedGetStats       = "failed to retrieve global statistics"

	ErrDonationNotFound      = errors.New("donation not found")
	ErrDonationNotAvailable  = errors.New("this item is no longer available")
	ErrDonationCompleted     = errors.New("donation is already completed")
	ErrOnlyReceiverCanClaim  = errors.New("only receivers can claim donations")
	ErrOnlyDonorCanComplete  = errors.New("only the original donor can mark this as completed")
	ErrNotDonationParty      = errors.New("not authorized for this donation")
	ErrInvalidDonationStatus = errors.New("invalid donation status")
	ErrInvalidExpirationDate = errors.New("invalid expiration date")
)

type (
	// GeoPoint follows the GeoJSON convention: coordinates are
	// [longitude, latitude], longitude first.
	GeoPoint struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}

	CreateDonationRequest struct {
		Title         string                `form:"title" validate:"required"`
		Description   string                `form:"description" validate:"omitempty"`
		FoodType      string                `form:"food_type" validate:"required"`
		Quantity      string                `form:"quantity" validate:"required"`
		City          string                `form:"city" validate:"required"`
		PickupAddress string                `form:"pickup_address" validate:"required"`
		ExpiresAt     string                `form:"expires_at" validate:"required"`
		Longitude     float64               `form:"longitude"`
		Latitude      float64               `form:"latitude"`
		Image         *multipart.FileHeader `form:"image"`
	}

	UpdateDonationStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=claimed completed"`
	}

	Donation struct {
		ID            string      `json:"id"`
		DonatorID     string      `json:"donator_id"`
		Donator       *PublicUser `json:"donator,omitempty"`
		Title         string      `json:"title"`
		Description   string      `json:"description,omitempty"`
		FoodType      string      `json:"food_type"`
		Quantity      string      `json:"quantity"`
		City          string      `json:"city"`
		PickupAddress string      `json:"pickup_address"`
		ExpiresAt     time.Time   `json:"expires_at"`
		ImageURL      string      `json:"image_url,omitempty"`
		Location      GeoPoint    `json:"location"`
		Distance      *float64    `json:"distance,omitempty"` // meters from the viewer, geo feed only
		Status        string      `json:"status"`
		ClaimedBy     string      `json:"claimed_by,omitempty"`
		ClaimedAt     *time.Time  `json:"claimed_at,omitempty"`
		CreatedAt     time.Time   `json:"created_at"`
		UpdatedAt     time.Time   `json:"updated_at"`
	}

	// GlobalStats field names match the public stats endpoint contract.
	GlobalStats struct {
		TotalWeight float64 `json:"totalWeight"`
		NGOCount    int     `json:"ngoCount"`
		AvgMinutes  int     `json:"avgMinutes"`
		SuccessRate int     `json:"successRate"`
	}
)
