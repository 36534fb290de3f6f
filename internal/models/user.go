package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the numeric role enum carried in user documents and access-token
// claims (0 = member, 1 = manager). The numbers are part of the wire format.
type Role int

const (
	RoleMember  Role = 0
	RoleManager Role = 1
)

// User represents an application user. The password hash is never serialized
// to JSON responses.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicProfile is the projection of a user attached to enriched responses
// (question/answer/insight authors).
type PublicProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}
