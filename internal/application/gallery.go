package application

import (
	"context"
	"fmt"

	"github.com/bnema/zoommark/internal/domain"
)

type ImageLister interface {
	ListImages(ctx context.Context) ([]domain.ImageSummary, error)
}

type Gallery struct {
	images ImageLister
}

func NewGallery(images ImageLister) *Gallery {
	return &Gallery{images: images}
}

func (g *Gallery) List(ctx context.Context) ([]GalleryEntry, error) {
	images, err := g.images.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	entries := make([]GalleryEntry, 0, len(images))
	for _, image := range images {
		entries = append(entries, GalleryEntry{Image: image, Link: ViewerLink(image.ID)})
	}
	return entries, nil
}
