package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports/mocks"
)

var gallery = []domain.ImageSummary{{ID: "andromeda", Name: "Andromeda"}}

func TestListImagesIsCached(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockGateway(t)
	next.On("ListImages", mock.Anything).Return(gallery, nil).Once()
	gateway := New(next, time.Minute)

	for i := 0; i < 3; i++ {
		images, err := gateway.ListImages(context.Background())
		require.NoError(t, err)
		assert.Equal(t, gallery, images)
	}
}

func TestListImagesCacheReturnsCopies(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockGateway(t)
	next.On("ListImages", mock.Anything).Return([]domain.ImageSummary{{ID: "andromeda", Name: "Andromeda"}}, nil).Once()
	gateway := New(next, time.Minute)

	first, err := gateway.ListImages(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := gateway.ListImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Andromeda", second[0].Name)
}

func TestListImagesErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockGateway(t)
	next.On("ListImages", mock.Anything).Return(nil, errors.New("down")).Once()
	next.On("ListImages", mock.Anything).Return(gallery, nil).Once()
	gateway := New(next, time.Minute)

	_, err := gateway.ListImages(context.Background())
	require.Error(t, err)

	images, err := gateway.ListImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gallery, images)
}

func TestInvalidateRefetches(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockGateway(t)
	next.On("ListImages", mock.Anything).Return(gallery, nil).Twice()
	gateway := New(next, time.Minute)

	_, err := gateway.ListImages(context.Background())
	require.NoError(t, err)
	gateway.Invalidate()
	_, err = gateway.ListImages(context.Background())
	require.NoError(t, err)
}

func TestMarkerCallsPassThrough(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockGateway(t)
	detail := domain.MarkerDetail{Title: "Dust lane"}
	next.On("GetMarkerDetail", mock.Anything, domain.MarkerID("g1")).Return(detail, nil).Twice()
	gateway := New(next, time.Minute)

	for i := 0; i < 2; i++ {
		got, err := gateway.GetMarkerDetail(context.Background(), "g1")
		require.NoError(t, err)
		assert.Equal(t, detail, got)
	}
}

func TestPostMarkerDropsCachedGallery(t *testing.T) {
	t.Parallel()

	input := domain.NewMarker{Title: "Core", X: 0.25, Y: 0.75, User: "ada"}
	created := domain.Marker{ID: "m99", X: 0.25, Y: 0.75, Title: "Core"}

	next := mocks.NewMockGateway(t)
	next.On("ListImages", mock.Anything).Return(gallery, nil).Twice()
	next.On("PostMarker", mock.Anything, domain.ImageID("andromeda"), input).Return(created, nil).Once()
	next.On("PostMarker", mock.Anything, domain.ImageID("orion"), input).Return(domain.Marker{}, errors.New("boom")).Once()
	gateway := New(next, time.Minute)

	_, err := gateway.ListImages(context.Background())
	require.NoError(t, err)

	got, err := gateway.PostMarker(context.Background(), "andromeda", input)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = gateway.ListImages(context.Background())
	require.NoError(t, err)

	_, err = gateway.PostMarker(context.Background(), "orion", input)
	require.Error(t, err)

	// A failed create keeps the cache, so no third ListImages call.
	_, err = gateway.ListImages(context.Background())
	require.NoError(t, err)
}
