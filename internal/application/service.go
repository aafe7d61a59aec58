package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/geometry"
	"github.com/bnema/zoommark/internal/markers"
	"github.com/bnema/zoommark/internal/panel"
	"github.com/bnema/zoommark/internal/ports"
)

// Service runs one-shot operations against the remote API, outside of an
// interactive viewer session.
type Service struct {
	gateway ports.Gateway
	names   panel.NameSource
	logger  *zap.Logger
}

func NewService(gateway ports.Gateway, names panel.NameSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		gateway: gateway,
		names:   names,
		logger:  logger,
	}
}

// ShowImage fetches an image and places its well-formed markers through t.
func (s *Service) ShowImage(ctx context.Context, id domain.ImageID, t geometry.Transform) (ImageOverview, error) {
	if strings.TrimSpace(string(id)) == "" {
		return ImageOverview{}, domain.ErrNoImageSelected
	}

	image, err := s.gateway.GetImage(ctx, id)
	if err != nil {
		return ImageOverview{}, fmt.Errorf("%w %s: %w", domain.ErrLoadFailed, id, err)
	}

	store := markers.NewStore()
	rejected := store.Load(image.Markers)
	logRejected(s.logger, id, rejected)

	overview := ImageOverview{Image: image, Rejected: len(rejected)}
	for _, m := range store.All() {
		overview.Markers = append(overview.Markers, PlacedMarker{
			Marker: m,
			Screen: geometry.ToScreen(geometry.Point{X: m.X, Y: m.Y}, t),
		})
	}
	return overview, nil
}

func (s *Service) ShowMarker(ctx context.Context, id domain.MarkerID) (domain.MarkerDetail, error) {
	detail, err := s.gateway.GetMarkerDetail(ctx, id)
	if err != nil {
		return domain.MarkerDetail{}, fmt.Errorf("get marker detail: %w", err)
	}
	return detail, nil
}

// AddMarker validates cmd and creates the marker on the server. Nothing is
// sent when the title is blank or the point is outside the image.
func (s *Service) AddMarker(ctx context.Context, cmd AddMarkerCommand) (domain.Marker, error) {
	input := domain.NewMarker{
		Title:       cmd.Title,
		Description: cmd.Description,
		X:           cmd.Point.X,
		Y:           cmd.Point.Y,
	}.Normalize()
	if input.Title == "" {
		return domain.Marker{}, domain.ErrEmptyTitle
	}
	if !cmd.Point.InImage() {
		return domain.Marker{}, domain.ErrOutsideImage
	}

	name, err := s.requireName(ctx)
	if err != nil {
		return domain.Marker{}, err
	}
	input.User = name
	if err := input.Validate(); err != nil {
		return domain.Marker{}, err
	}

	created, err := s.gateway.PostMarker(ctx, cmd.ImageID, input)
	if err != nil {
		return domain.Marker{}, fmt.Errorf("post marker: %w", err)
	}
	return created, nil
}

func (s *Service) PostChat(ctx context.Context, cmd PostChatCommand) (domain.ChatMessage, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return domain.ChatMessage{}, domain.ErrEmptyMessage
	}

	name, err := s.requireName(ctx)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	msg, err := s.gateway.PostChatMessage(ctx, cmd.MarkerID, name, text)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("post chat message: %w", err)
	}
	return msg, nil
}

func (s *Service) requireName(ctx context.Context) (string, error) {
	if s.names == nil {
		return "", domain.ErrEmptyDisplayName
	}
	name, ok, err := s.names.Ensure(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrEmptyDisplayName
	}
	return name, nil
}

func logRejected(logger *zap.Logger, id domain.ImageID, rejected []domain.Marker) {
	for _, m := range rejected {
		logger.Warn("skip malformed marker",
			zap.String("image_id", string(id)),
			zap.String("marker_id", string(m.ID)),
			zap.Error(m.Validate()),
		)
	}
}
