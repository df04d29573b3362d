package service

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrOwnerNotFound is returned when a place is created for a missing user.
	ErrOwnerNotFound = errors.New("owner does not exist")

	// ErrUploadFailed wraps the per-part errors of a media upload.
	ErrUploadFailed = errors.New("failed to upload image(s)")
)
