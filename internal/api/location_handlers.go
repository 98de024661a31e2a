package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerLocationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLocations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations",
		Summary:     "List locations",
		Description: "Returns the user's shelf locations with book counts",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLocations)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLocation",
		Method:      http.MethodPost,
		Path:        "/api/v1/locations",
		Summary:     "Create location",
		Description: "Creates a new shelf location",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLocation",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Get location",
		Description: "Returns a shelf location by ID",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLocation",
		Method:      http.MethodPut,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Update location",
		Description: "Replaces a shelf location's name and description",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLocation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLocation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/locations/{id}",
		Summary:     "Delete location",
		Description: "Deletes a shelf location, detaching its books",
		Tags:        []string{"Locations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLocation)
}

// === DTOs ===

// ListLocationsInput has no parameters; auth comes from context.
type ListLocationsInput struct{}

// LocationResponse contains shelf location data in API responses.
type LocationResponse struct {
	ID          string    `json:"id" doc:"Location ID"`
	Name        string    `json:"name" doc:"Location name"`
	Description string    `json:"description,omitempty" doc:"Optional description"`
	BookCount   int       `json:"book_count,omitempty" doc:"Number of books at this location"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
}

// ListLocationsResponse contains the user's shelf locations.
type ListLocationsResponse struct {
	Locations []LocationResponse `json:"locations" doc:"Shelf locations ordered by name"`
}

// ListLocationsOutput wraps the location list for Huma.
type ListLocationsOutput struct {
	Body ListLocationsResponse
}

// LocationRequest is the request body for creating or updating a location.
type LocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Location name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Optional description"`
}

// CreateLocationInput wraps the create request for Huma.
type CreateLocationInput struct {
	Body LocationRequest
}

// LocationOutput wraps a single location response for Huma.
type LocationOutput struct {
	Body LocationResponse
}

// GetLocationInput contains parameters for getting a location.
type GetLocationInput struct {
	ID string `path:"id" doc:"Location ID"`
}

// UpdateLocationInput wraps the update request for Huma.
type UpdateLocationInput struct {
	ID   string `path:"id" doc:"Location ID"`
	Body LocationRequest
}

// === Handlers ===

func (s *Server) handleListLocations(ctx context.Context, _ *ListLocationsInput) (*ListLocationsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	locations, err := s.services.Location.ListLocations(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]LocationResponse, len(locations))
	for i, loc := range locations {
		resp[i] = mapLocationResponse(loc)
	}

	return &ListLocationsOutput{Body: ListLocationsResponse{Locations: resp}}, nil
}

func (s *Server) handleCreateLocation(ctx context.Context, input *CreateLocationInput) (*LocationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := s.services.Location.CreateLocation(ctx, userID, service.LocationRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleGetLocation(ctx context.Context, input *GetLocationInput) (*LocationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := s.services.Location.GetLocation(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleUpdateLocation(ctx context.Context, input *UpdateLocationInput) (*LocationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := s.services.Location.UpdateLocation(ctx, input.ID, userID, service.LocationRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &LocationOutput{Body: mapLocationResponse(loc)}, nil
}

func (s *Server) handleDeleteLocation(ctx context.Context, input *GetLocationInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Location.DeleteLocation(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Location deleted"}}, nil
}

// === Helpers ===

func mapLocationResponse(loc *domain.Location) LocationResponse {
	return LocationResponse{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		BookCount:   loc.BookCount,
		CreatedAt:   loc.CreatedAt,
	}
}
