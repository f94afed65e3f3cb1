package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister         = "account registered successfully"
	MessageSuccessLogin            = "login successful"
	MessageSuccessGetProfile       = "profile retrieved successfully"
	MessageSuccessUpdateProfile    = "profile updated successfully"
	MessageSuccessGetPublicProfile = "user retrieved successfully"

	MessageFailedRegister         = "failed to register account"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetProfile       = "failed to retrieve profile"
	MessageFailedUpdateProfile    = "failed to update profile"
	MessageFailedGetPublicProfile = "failed to retrieve user"

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("user not found")
)

type (
	RegisterRequest struct {
		Email            string `json:"email" validate:"required,email"`
		Password         string `json:"password" validate:"required,min=6"`
		FullName         string `json:"full_name" validate:"required"`
		OrganizationName string `json:"organization_name" validate:"omitempty"`
		Phone            string `json:"phone" validate:"omitempty"`
		Address          string `json:"address" validate:"omitempty"`
		Role             string `json:"role" validate:"required,oneof=donor receiver"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UpdateProfileRequest struct {
		FullName         string `json:"full_name" validate:"omitempty"`
		OrganizationName string `json:"organization_name" validate:"omitempty"`
		Phone            string `json:"phone" validate:"omitempty"`
		Address          string `json:"address" validate:"omitempty"`
	}

	User struct {
		ID               string    `json:"id"`
		Email            string    `json:"email"`
		FullName         string    `json:"full_name"`
		OrganizationName string    `json:"organization_name,omitempty"`
		Role             string    `json:"role"`
		Phone            string    `json:"phone,omitempty"`
		Address          string    `json:"address,omitempty"`
		CreatedAt        time.Time `json:"created_at"`
	}

	// PublicUser is the cross-party view of an account: only what the
	// counterpart in a transaction is allowed to see.
	PublicUser struct {
		ID               string `json:"id"`
		FullName         string `json:"full_name"`
		OrganizationName string `json:"organization_name,omitempty"`
	}

	AuthResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)
