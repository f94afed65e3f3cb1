package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/internal/api/presenters"
	"github.com/manjeet0006/FoodShare/pkg/donation"
)

type (
	DonationHandler interface {
		CreateDonation(c *fiber.Ctx) error
		GetFeed(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		GetDonationByID(c *fiber.Ctx) error
		UpdateDonationStatus(c *fiber.Ctx) error
		CancelClaim(c *fiber.Ctx) error
		DeleteDonation(c *fiber.Ctx) error
		GetGlobalStats(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image, _ = c.FormFile("image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	res, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidExpirationDate) || errors.Is(err, domain.ErrParseUUID) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

// GetFeed is public. A missing or malformed coordinate pair only forfeits
// proximity ordering.
func (h *donationHandler) GetFeed(c *fiber.Ctx) error {
	var lat, lng *float64
	if latValue, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		if lngValue, err := strconv.ParseFloat(c.Query("lng"), 64); err == nil {
			lat, lng = &latValue, &lngValue
		}
	}

	res, err := h.donationService.GetFeed(c.Context(), lat, lng)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetFeed, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetFeed)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	res, err := h.donationService.GetMyDonations(c.Context(), userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationByID(c *fiber.Ctx) error {
	res, err := h.donationService.GetDonationByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDonationNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetDonations, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) UpdateDonationStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	req := new(domain.UpdateDonationStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
	}

	res, err := h.donationService.UpdateDonationStatus(c.Context(), *req, c.Params("id"), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDonationNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUpdateDonation, err)
		case errors.Is(err, domain.ErrOnlyReceiverCanClaim), errors.Is(err, domain.ErrOnlyDonorCanComplete):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateDonation, err)
		case errors.Is(err, domain.ErrDonationNotAvailable):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedUpdateDonation, err)
		case errors.Is(err, domain.ErrInvalidDonationStatus), errors.Is(err, domain.ErrParseUUID):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDonation)
}

func (h *donationHandler) CancelClaim(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.donationService.CancelClaim(c.Context(), c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDonationNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedCancelClaim, err)
		case errors.Is(err, domain.ErrNotDonationParty):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedCancelClaim, err)
		case errors.Is(err, domain.ErrDonationCompleted):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedCancelClaim, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCancelClaim, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCancelClaim)
}

func (h *donationHandler) DeleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.donationService.DeleteDonation(c.Context(), c.Params("id"), userID); err != nil {
		if errors.Is(err, domain.ErrDonationNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteDonation, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedDeleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDonation)
}

func (h *donationHandler) GetGlobalStats(c *fiber.Ctx) error {
	res, err := h.donationService.GetGlobalStats(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetStats)
}
