package order

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodPayPal     PaymentMethod = "paypal"
	MethodCreditCard PaymentMethod = "credit_card"
	MethodStripe     PaymentMethod = "stripe"
)

type Item struct {
	ID          string  `bson:"_id" json:"_id"`
	ProductID   int     `bson:"productId" json:"productId"`
	ProductName string  `bson:"productName" json:"productName"`
	Name        string  `bson:"name" json:"name"`
	SizeID      string  `bson:"sizeId,omitempty" json:"sizeId,omitempty"`
	SizeName    string  `bson:"sizeName,omitempty" json:"sizeName,omitempty"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Image       string  `bson:"image" json:"image"`
}

type Address struct {
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

type Order struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"_id"`
	OrderNumber        string                 `bson:"orderNumber" json:"orderNumber"`
	UserEmail          string                 `bson:"userEmail" json:"userEmail"`
	Items              []Item                 `bson:"items" json:"items"`
	Subtotal           float64                `bson:"subtotal" json:"subtotal"`
	Tax                float64                `bson:"tax" json:"tax"`
	Total              float64                `bson:"total" json:"total"`
	PaymentStatus      PaymentStatus          `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      PaymentMethod          `bson:"paymentMethod" json:"paymentMethod"`
	PaymentID          string                 `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	PaymentDetails     map[string]interface{} `bson:"paymentDetails,omitempty" json:"paymentDetails,omitempty"`
	Status             Status                 `bson:"status" json:"status"`
	ShippingAddress    *Address               `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	TrackingNumber     string                 `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	DeliveredAt        *time.Time             `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CancelledAt        *time.Time             `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CancellationReason string                 `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// ItemInput is a cart line as submitted by the client at checkout.
type ItemInput struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	SizeID      string  `json:"sizeId"`
	SizeName    string  `json:"sizeName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	Limit      int   `json:"limit"`
}

type Page struct {
	Data       []Order    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
