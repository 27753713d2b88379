package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"games_storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceService_Load(t *testing.T) {
	genres := []models.Genre{{GenreID: 1, Name: "Action"}}
	platforms := []models.Platform{{PlatformID: 2, Name: "PC"}}

	t.Run("cached after first load", func(t *testing.T) {
		api := &MockReferenceAPI{}
		api.On("GetGenres").Return(genres, nil).Once()
		api.On("GetPlatforms").Return(platforms, nil).Once()

		s := NewReferenceService(api, discardLogger(), time.Minute)

		for i := 0; i < 3; i++ {
			ref, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "Action", ref.GenreName(1))
			assert.Equal(t, "PC", ref.PlatformName(2))
		}
		api.AssertExpectations(t)
	})

	t.Run("failure is not cached", func(t *testing.T) {
		api := &MockReferenceAPI{}
		api.On("GetGenres").Return(nil, errors.New("connection refused")).Once()
		api.On("GetGenres").Return(genres, nil).Once()
		api.On("GetPlatforms").Return(platforms, nil)

		s := NewReferenceService(api, discardLogger(), time.Minute)

		_, err := s.Load(context.Background())
		assert.Error(t, err)

		ref, err := s.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, ref.Genres, 1)
	})
}
