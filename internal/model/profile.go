package model

import "time"

// Profile is the per-user record holding display data and the role.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest is used for self-edits. Role is deliberately absent.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,max=2048"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin instructor staff rider"`
}
