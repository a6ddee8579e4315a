package models

import "time"

// User is the authenticated user's profile record as the backend returns it.
// ProfilePicture is nil when the user has not uploaded one; renderers fall
// back to the default avatar.
type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Email          string    `bson:"email" json:"email"`
	Name           string    `bson:"name" json:"name"`
	ProfilePicture *string   `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Score          float64   `bson:"score" json:"score"`
	CreatedAt      time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// WithPicture returns a copy of u with only ProfilePicture replaced.
// Identity updates are whole-record replacements, so merges happen on
// copies rather than in place.
func (u User) WithPicture(url string) *User {
	u.ProfilePicture = &url
	return &u
}

// PictureURL returns the stored picture URL or "" when none is set.
func (u *User) PictureURL() string {
	if u == nil || u.ProfilePicture == nil {
		return ""
	}
	return *u.ProfilePicture
}
