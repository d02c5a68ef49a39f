package account

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchemaVersion is bumped whenever the stored user shape changes.
const SchemaVersion = 1

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultCountry = "United States"
)

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SchemaVersion int                `bson:"schemaVersion" json:"schemaVersion"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	Role          string             `bson:"role" json:"role"`
	EmailVerified bool               `bson:"emailVerified" json:"emailVerified"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address       *Address           `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate carries the optional fields of an account update. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Name    *string  `json:"name"`
	Phone   *string  `json:"phone"`
	Address *Address `json:"address"`
}
