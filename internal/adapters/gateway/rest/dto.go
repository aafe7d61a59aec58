package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/bnema/zoommark/internal/domain"
)

// flexibleID accepts both JSON numbers and strings. The backend emits
// integer primary keys; other deployments use slugs.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = flexibleID(n.String())
	return nil
}

type imageSummaryDTO struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	Thumbnail string     `json:"thumbnail"`
}

type markerDTO struct {
	ID    flexibleID `json:"id"`
	X     *float64   `json:"x"`
	Y     *float64   `json:"y"`
	Title string     `json:"title"`
}

type imageDTO struct {
	ID         flexibleID  `json:"id"`
	Name       string      `json:"name"`
	TileSource string      `json:"tileSource"`
	Markers    []markerDTO `json:"markers"`
}

type chatMessageDTO struct {
	User string `json:"user"`
	Text string `json:"text"`
}

type markerDetailDTO struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Chat        []chatMessageDTO `json:"chat"`
}

type newMarkerDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	User        string  `json:"user"`
}

func (d imageSummaryDTO) toDomain() domain.ImageSummary {
	return domain.ImageSummary{
		ID:        domain.ImageID(d.ID),
		Name:      d.Name,
		Thumbnail: d.Thumbnail,
	}
}

// toDomain maps a missing coordinate to NaN so the marker fails validation
// instead of landing at the origin.
func (d markerDTO) toDomain() domain.Marker {
	return domain.Marker{
		ID:    domain.MarkerID(d.ID),
		X:     coordinate(d.X),
		Y:     coordinate(d.Y),
		Title: d.Title,
	}
}

func (d imageDTO) toDomain(fallbackID domain.ImageID) domain.Image {
	id := domain.ImageID(d.ID)
	if id == "" {
		id = fallbackID
	}

	image := domain.Image{
		ID:         id,
		Name:       d.Name,
		TileSource: d.TileSource,
		Markers:    make([]domain.Marker, 0, len(d.Markers)),
	}
	for _, m := range d.Markers {
		image.Markers = append(image.Markers, m.toDomain())
	}
	return image
}

func (d markerDetailDTO) toDomain() domain.MarkerDetail {
	detail := domain.MarkerDetail{
		Title:       d.Title,
		Description: d.Description,
		Chat:        make([]domain.ChatMessage, 0, len(d.Chat)),
	}
	for _, msg := range d.Chat {
		detail.Chat = append(detail.Chat, domain.ChatMessage{User: msg.User, Text: msg.Text})
	}
	return detail
}

func coordinate(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
