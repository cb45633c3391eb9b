package service

import "errors"

// Service layer errors for better error handling
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotOwner        = errors.New("project belongs to another user")

	// ErrSlugExhausted means every allocation attempt lost the slug race.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)
