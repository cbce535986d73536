package repository

import "errors"

// Login-time rejections. The error text doubles as the user-visible reason
// in login_failed / contact_error payloads.
var (
	ErrInvalidName = errors.New("username is required")
	ErrNameTaken   = errors.New("username already taken")
)

// Contact-management rejections.
var (
	ErrSelfContact     = errors.New("cannot add yourself")
	ErrUnknownContact  = errors.New("user not found")
	ErrAlreadyContact  = errors.New("contact already added")
	ErrContactNotFound = errors.New("contact not found")
)
