package application

import (
	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
)

type AddMarkerCommand struct {
	ImageID     domain.ImageID
	Point       geometry.Point
	Title       string
	Description string
}

type PostChatCommand struct {
	MarkerID domain.MarkerID
	Text     string
}
