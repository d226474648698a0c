package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthProvider identifies the external identity provider a user signed in with
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "google"
)

// User represents an account in the users collection. Sign-in is handled by
// an external identity provider; this service only stores the profile and
// the current bearer token.
type User struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Email       string        `json:"email" bson:"email"`
	Name        string        `json:"name" bson:"name"`
	Image       string        `json:"image,omitempty" bson:"image,omitempty"`
	Provider    AuthProvider  `json:"provider" bson:"provider"`
	CardCount   int           `json:"card_count" bson:"cardCount"`
	IsActive    bool          `json:"is_active" bson:"isActive"`
	AccessToken string        `json:"-" bson:"accessToken,omitempty"` // unset on logout, never serialized to clients
	CreatedAt   time.Time     `json:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updatedAt"`
}

// CollectionName returns the collection name for the User model
func (User) CollectionName() string {
	return "users"
}

// NewUser creates a new User instance with timestamps set
func NewUser(email, name, image string, provider AuthProvider) *User {
	now := time.Now()
	if provider == "" {
		provider = ProviderGoogle
	}
	return &User{
		Email:     email,
		Name:      name,
		Image:     image,
		Provider:  provider,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasLiveToken returns true if the user currently holds a bearer token
func (u *User) HasLiveToken() bool {
	return u.AccessToken != ""
}
