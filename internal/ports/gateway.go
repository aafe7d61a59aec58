package ports

import (
	"context"

	"github.com/bnema/zoommark/internal/domain"
)

// MarkerGateway is the part of the remote API a marker panel talks to.
type MarkerGateway interface {
	GetMarkerDetail(ctx context.Context, id domain.MarkerID) (domain.MarkerDetail, error)
	PostChatMessage(ctx context.Context, id domain.MarkerID, user, text string) (domain.ChatMessage, error)
}

type Gateway interface {
	MarkerGateway
	ListImages(ctx context.Context) ([]domain.ImageSummary, error)
	GetImage(ctx context.Context, id domain.ImageID) (domain.Image, error)
	PostMarker(ctx context.Context, imageID domain.ImageID, marker domain.NewMarker) (domain.Marker, error)
}
