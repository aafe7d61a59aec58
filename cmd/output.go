package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
)

type galleryEntryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Link      string `json:"link"`
}

type markerJSON struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	ScreenX float64 `json:"screen_x"`
	ScreenY float64 `json:"screen_y"`
}

type imageJSON struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	TileSource string       `json:"tile_source"`
	Markers    []markerJSON `json:"markers"`
	Rejected   int          `json:"rejected"`
}

type chatMessageJSON struct {
	User string `json:"user"`
	Text string `json:"text"`
}

type markerDetailJSON struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Chat        []chatMessageJSON `json:"chat"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}

func galleryOutput(entries []application.GalleryEntry) []galleryEntryJSON {
	out := make([]galleryEntryJSON, 0, len(entries))
	for _, entry := range entries {
		out = append(out, galleryEntryJSON{
			ID:        string(entry.Image.ID),
			Name:      entry.Image.Name,
			Thumbnail: entry.Image.Thumbnail,
			Link:      entry.Link,
		})
	}
	return out
}

func imageOutput(overview application.ImageOverview) imageJSON {
	out := imageJSON{
		ID:         string(overview.Image.ID),
		Name:       overview.Image.Name,
		TileSource: overview.Image.TileSource,
		Markers:    make([]markerJSON, 0, len(overview.Markers)),
		Rejected:   overview.Rejected,
	}
	for _, placed := range overview.Markers {
		out.Markers = append(out.Markers, markerJSON{
			ID:      string(placed.Marker.ID),
			Title:   placed.Marker.Title,
			X:       placed.Marker.X,
			Y:       placed.Marker.Y,
			ScreenX: placed.Screen.X,
			ScreenY: placed.Screen.Y,
		})
	}
	return out
}

func markerDetailOutput(id domain.MarkerID, detail domain.MarkerDetail) markerDetailJSON {
	out := markerDetailJSON{
		ID:          string(id),
		Title:       detail.Title,
		Description: detail.Description,
		Chat:        make([]chatMessageJSON, 0, len(detail.Chat)),
	}
	for _, msg := range detail.Chat {
		out.Chat = append(out.Chat, chatMessageJSON{User: msg.User, Text: msg.Text})
	}
	return out
}
