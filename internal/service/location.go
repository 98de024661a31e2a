package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// LocationService manages shelf locations.
type LocationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLocationService creates a new location service.
func NewLocationService(store store.Store, logger *slog.Logger) *LocationService {
	return &LocationService{
		store:  store,
		logger: logger,
	}
}

// LocationRequest contains the data for creating or renaming a location.
type LocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateLocation adds a shelf location to the user's catalog.
func (s *LocationService) CreateLocation(ctx context.Context, userID string, req LocationRequest) (*domain.Location, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	locationID, err := id.Generate("loc")
	if err != nil {
		return nil, fmt.Errorf("generate location ID: %w", err)
	}

	loc := domain.NewLocation(locationID, userID, req.Name)
	loc.Description = req.Description

	if err := s.store.CreateLocation(ctx, loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	return loc, nil
}

// GetLocation returns a single location owned by the user.
func (s *LocationService) GetLocation(ctx context.Context, locationID, userID string) (*domain.Location, error) {
	loc, err := s.store.GetLocation(ctx, locationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("location not found")
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// ListLocations returns all of the user's locations with book counts.
func (s *LocationService) ListLocations(ctx context.Context, userID string) ([]*domain.Location, error) {
	locations, err := s.store.ListLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

// UpdateLocation renames a location or changes its description.
func (s *LocationService) UpdateLocation(ctx context.Context, locationID, userID string, req LocationRequest) (*domain.Location, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	loc, err := s.store.GetLocation(ctx, locationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("location not found")
		}
		return nil, fmt.Errorf("get location: %w", err)
	}

	loc.Name = req.Name
	loc.Description = req.Description

	if err := s.store.UpdateLocation(ctx, loc); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	return loc, nil
}

// DeleteLocation removes a location. Books shelved there are detached,
// not deleted.
func (s *LocationService) DeleteLocation(ctx context.Context, locationID, userID string) error {
	if err := s.store.DeleteLocation(ctx, locationID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("location not found")
		}
		return fmt.Errorf("delete location: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Location deleted", "user_id", userID, "location_id", locationID)
	}

	return nil
}
