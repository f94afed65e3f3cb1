package domain

import "errors"

const (
	RoleDonor    = "donor"
	RoleReceiver = "receiver"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenInvalid   = errors.New("token is not valid")
	ErrTokenExpired   = errors.New("token expired")
	ErrUserNotAllowed = errors.New("user not allowed")
)
