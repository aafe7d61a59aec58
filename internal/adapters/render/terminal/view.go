package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/zoommark/internal/application"
	"github.com/bnema/zoommark/internal/domain"
)

const emptyGalleryMessage = "No images available yet."

func RenderGallery(entries []application.GalleryEntry) (string, error) {
	return render(func(s styles) string { return galleryView(entries, s) })
}

func RenderImage(overview application.ImageOverview) (string, error) {
	return render(func(s styles) string { return imageView(overview, s) })
}

func RenderMarkerDetail(id domain.MarkerID, detail domain.MarkerDetail) (string, error) {
	return render(func(s styles) string { return markerDetailView(id, detail, s) })
}

func galleryView(entries []application.GalleryEntry, s styles) string {
	lines := []string{
		s.title.Render("Gallery"),
		s.header.Render(fmt.Sprintf("images: %d", len(entries))),
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render(emptyGalleryMessage))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		parts := []string{
			s.name.Render(imageTitle(entry.Image.Name, entry.Image.ID)),
			s.link.Render(entry.Link),
		}
		if entry.Image.Thumbnail != "" {
			parts = append(parts, s.meta.Render("thumbnail: "+entry.Image.Thumbnail))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func imageView(overview application.ImageOverview, s styles) string {
	lines := []string{
		s.title.Render(imageTitle(overview.Image.Name, overview.Image.ID)),
		s.header.Render("tiles: " + overview.Image.TileSource),
		s.header.Render(fmt.Sprintf("markers: %d", len(overview.Markers))),
	}
	if overview.Rejected > 0 {
		lines = append(lines, s.warning.Render(fmt.Sprintf("skipped %d malformed marker(s)", overview.Rejected)))
	}

	if len(overview.Markers) == 0 {
		lines = append(lines, s.empty.Render("No markers yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, placed := range overview.Markers {
		lines = append(lines, markerLine(placed, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func markerLine(placed application.PlacedMarker, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.marker.Render("● "+string(placed.Marker.ID)),
		" ",
		s.detail.Render(placed.Marker.Title),
		" ",
		s.meta.Render(fmt.Sprintf("(%.4f, %.4f) -> (%.0f, %.0f)px",
			placed.Marker.X, placed.Marker.Y, placed.Screen.X, placed.Screen.Y)),
	)
}

func markerDetailView(id domain.MarkerID, detail domain.MarkerDetail, s styles) string {
	lines := []string{s.title.Render(detail.Title)}
	if id != "" {
		lines = append(lines, s.header.Render("marker: "+string(id)))
	}
	if strings.TrimSpace(detail.Description) != "" {
		lines = append(lines, s.detail.Render(detail.Description))
	}
	lines = append(lines, s.section.Render(chatView(detail.Chat, s)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func chatView(chat []domain.ChatMessage, s styles) string {
	if len(chat) == 0 {
		return s.empty.Render("No messages yet.")
	}

	lines := make([]string, 0, len(chat))
	for _, msg := range chat {
		lines = append(lines, s.user.Render(msg.User+":")+" "+s.detail.Render(msg.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func imageTitle(name string, id domain.ImageID) string {
	if strings.TrimSpace(name) == "" {
		return string(id)
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
