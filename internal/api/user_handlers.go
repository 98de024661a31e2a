package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Applies a partial update to the profile, including public visibility toggles",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me/password",
		Summary:     "Change password",
		Description: "Verifies the current password and replaces it, revoking other sessions",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "List sessions",
		Description: "Returns the user's active sessions",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "revokeAllSessions",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me/sessions",
		Summary:     "Revoke all sessions",
		Description: "Revokes every session the user has, including the current one",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRevokeAllSessions)
}

// === DTOs ===

// GetCurrentUserInput has no parameters; auth comes from context.
type GetCurrentUserInput struct{}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// UpdateUserRequest is the request body for profile updates.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100" doc:"Display name"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,max=500" doc:"Avatar image URL"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000" doc:"Profile bio"`

	IsLibraryPublic     *bool `json:"is_library_public,omitempty" doc:"Master switch for the public catalog"`
	ShowTagsPublic      *bool `json:"show_tags_public,omitempty" doc:"Show tags in the public view"`
	ShowNotesPublic     *bool `json:"show_notes_public,omitempty" doc:"Show notes in the public view"`
	ShowConditionPublic *bool `json:"show_condition_public,omitempty" doc:"Show condition in the public view"`
}

// UpdateUserInput wraps the update request for Huma.
type UpdateUserInput struct {
	Body UpdateUserRequest
}

// ChangePasswordRequest is the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required" doc:"Current password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024" doc:"New password"`
}

// ChangePasswordInput wraps the password change request for Huma.
type ChangePasswordInput struct {
	Body ChangePasswordRequest
}

// SessionResponse contains session data in API responses.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	CreatedAt  time.Time `json:"created_at" doc:"Session creation time"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last activity time"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Expiry time"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Client IP at creation"`
	UserAgent  string    `json:"user_agent,omitempty" doc:"Client user agent"`
	Current    bool      `json:"current" doc:"Whether this is the session behind the current token"`
}

// ListSessionsResponse contains the user's active sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Active sessions"`
}

// ListSessionsOutput wraps the session list for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *GetCurrentUserInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateCurrentUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.UpdateProfile(ctx, userID, domain.UserPatch{
		DisplayName:         input.Body.DisplayName,
		AvatarURL:           input.Body.AvatarURL,
		Bio:                 input.Body.Bio,
		IsLibraryPublic:     input.Body.IsLibraryPublic,
		ShowTagsPublic:      input.Body.ShowTagsPublic,
		ShowNotesPublic:     input.Body.ShowNotesPublic,
		ShowConditionPublic: input.Body.ShowConditionPublic,
	})
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.User.ChangePassword(ctx, userID, GetSessionID(ctx), service.ChangePasswordRequest{
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Password changed"}}, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *GetCurrentUserInput) (*ListSessionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	current := GetSessionID(ctx)
	resp := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		resp[i] = SessionResponse{
			ID:         sess.ID,
			CreatedAt:  sess.CreatedAt,
			LastSeenAt: sess.LastSeenAt,
			ExpiresAt:  sess.ExpiresAt,
			IPAddress:  sess.IPAddress,
			UserAgent:  sess.UserAgent,
			Current:    sess.ID == current,
		}
	}

	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: resp}}, nil
}

func (s *Server) handleRevokeAllSessions(ctx context.Context, _ *GetCurrentUserInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Session.DeleteAllUserSessions(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "All sessions revoked"}}, nil
}

// === Helpers ===

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		Email:               user.Email,
		Username:            user.Username,
		DisplayName:         user.DisplayName,
		AvatarURL:           user.AvatarURL,
		Bio:                 user.Bio,
		IsLibraryPublic:     user.IsLibraryPublic,
		ShowTagsPublic:      user.ShowTagsPublic,
		ShowNotesPublic:     user.ShowNotesPublic,
		ShowConditionPublic: user.ShowConditionPublic,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
		LastLoginAt:         user.LastLoginAt,
	}
}
