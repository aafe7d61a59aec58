package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

type MarkerID string

// Marker is one annotated point. X and Y are fractions of the image width and
// height, origin top-left.
type Marker struct {
	ID    MarkerID
	X     float64
	Y     float64
	Title string
}

func (m Marker) Validate() error {
	if strings.TrimSpace(string(m.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidMarker)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidMarker)
	}
	if !InUnitRange(m.X) || !InUnitRange(m.Y) {
		return fmt.Errorf("%w: coordinates (%v, %v) outside the unit square", ErrInvalidMarker, m.X, m.Y)
	}

	return nil
}

// InUnitRange reports whether v is a finite value in [0, 1].
func InUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// NewMarker is the payload sent to the gateway when a user places a marker.
type NewMarker struct {
	Title       string  `validate:"required,max=255"`
	Description string  `validate:"omitempty"`
	X           float64 `validate:"gte=0,lte=1"`
	Y           float64 `validate:"gte=0,lte=1"`
	User        string  `validate:"required,max=80"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims user-entered text fields.
func (m NewMarker) Normalize() NewMarker {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	m.User = strings.TrimSpace(m.User)
	return m
}

func (m NewMarker) Validate() error {
	err := validate.Struct(m.Normalize())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMarker, err)
	}

	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Title" && fe.Tag() == "required":
		return ErrEmptyTitle
	case fe.Field() == "User" && fe.Tag() == "required":
		return ErrEmptyDisplayName
	case fe.Field() == "X" || fe.Field() == "Y":
		return fmt.Errorf("%w: (%v, %v)", ErrOutsideImage, m.X, m.Y)
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidMarker, strings.ToLower(fe.Field()), fe.Tag())
	}
}
