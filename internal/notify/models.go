package notify

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const StatusUnresolved = "unresolved"

// FailedAttempt records a checkout whose payment was captured but whose
// order could not be finalised, kept for manual review.
type FailedAttempt struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PayPalOrderID string             `bson:"paypalOrderId" json:"paypalOrderId"`
	OrderID       string             `bson:"orderId,omitempty" json:"orderId,omitempty"`
	OrderNumber   string             `bson:"orderNumber,omitempty" json:"orderNumber,omitempty"`
	UserEmail     string             `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Error         string             `bson:"error" json:"error"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Report struct {
	PayPalOrderID string
	OrderID       string
	OrderNumber   string
	UserEmail     string
	Error         string
	Timestamp     time.Time
}
