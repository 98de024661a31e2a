package domain

import "time"

// User represents an authenticated user account in the system.
type User struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string     `json:"display_name"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Bio          string     `json:"bio,omitempty"`

	// Public catalog settings. IsLibraryPublic is the master switch; the
	// Show* toggles control which fields the public projection exposes.
	IsLibraryPublic     bool `json:"is_library_public"`
	ShowTagsPublic      bool `json:"show_tags_public"`
	ShowNotesPublic     bool `json:"show_notes_public"`
	ShowConditionPublic bool `json:"show_condition_public"`

	LastLoginAt time.Time `json:"last_login_at"`
}

// NewUser creates a user with default visibility settings.
// Tags and condition are shown by default when the library is made public;
// notes stay private until explicitly enabled.
func NewUser(id, email, username string) *User {
	now := time.Now()
	return &User{
		ID:                  id,
		CreatedAt:           now,
		UpdatedAt:           now,
		Email:               email,
		Username:            username,
		ShowTagsPublic:      true,
		ShowNotesPublic:     false,
		ShowConditionPublic: true,
	}
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// IsDeleted reports whether the account has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// UserPatch describes a partial update to a user profile.
// Nil fields are left unchanged.
type UserPatch struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`

	IsLibraryPublic     *bool `json:"is_library_public,omitempty"`
	ShowTagsPublic      *bool `json:"show_tags_public,omitempty"`
	ShowNotesPublic     *bool `json:"show_notes_public,omitempty"`
	ShowConditionPublic *bool `json:"show_condition_public,omitempty"`
}

// Apply copies the non-nil patch fields onto the user.
func (p *UserPatch) Apply(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.IsLibraryPublic != nil {
		u.IsLibraryPublic = *p.IsLibraryPublic
	}
	if p.ShowTagsPublic != nil {
		u.ShowTagsPublic = *p.ShowTagsPublic
	}
	if p.ShowNotesPublic != nil {
		u.ShowNotesPublic = *p.ShowNotesPublic
	}
	if p.ShowConditionPublic != nil {
		u.ShowConditionPublic = *p.ShowConditionPublic
	}
}

// Session represents an active user session with a refresh token.
// Each device gets its own session - you can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	UserAgent        string    `json:"user_agent,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
