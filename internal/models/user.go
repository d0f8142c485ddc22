package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the application authorization tier, distinct from the
// roles/groups Azure AD puts into tokens.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleReader Role = "reader"
)

// ParseRole validates a role string coming from the API.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleWriter, RoleReader:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q: must be one of admin, writer, reader", s)
}

// User represents a registered application user keyed by the Azure AD
// object id of the token subject.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AzureOID  string             `bson:"azureOid" json:"azureOid"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Role      Role               `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}
