package domain

import "errors"

var (
	ErrImageNotFound      = errors.New("image not found")
	ErrMarkerNotFound     = errors.New("marker not found")
	ErrNoImageSelected    = errors.New("no image selected")
	ErrImageAlreadyLoaded = errors.New("image already loaded")
	ErrLoadFailed         = errors.New("load image")
	ErrInvalidMarker      = errors.New("invalid marker")
	ErrOutsideImage       = errors.New("point is outside the image")
	ErrEmptyTitle         = errors.New("title is required")
	ErrEmptyMessage       = errors.New("message text is required")
	ErrEmptyDisplayName   = errors.New("display name is required")
	ErrPreferenceNotFound = errors.New("preference not found")
	ErrNoOpenPanel        = errors.New("no marker panel is open")
)
