package domain

type ImageID string

type ImageSummary struct {
	ID        ImageID
	Name      string
	Thumbnail string
}

type Image struct {
	ID   ImageID
	Name string
	// TileSource is the deep-zoom descriptor reference handed to the rendering surface.
	TileSource string
	Markers    []Marker
}
