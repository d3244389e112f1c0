package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidProductID reports a wire identifier that is not a 24-character
// hex ObjectID. Callers must keep it distinct from "not found" so a
// malformed id maps to a client error rather than a 404.
var ErrInvalidProductID = errors.New("invalid product id")

// Product is a catalog product. The store assigns ID on insert; CreatedAt
// is written once and survives every update.
type Product struct {
	ID          primitive.ObjectID
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int64
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseProductID decodes the wire form of a product identifier into the
// store-native ObjectID.
func ParseProductID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidProductID
	}
	return id, nil
}

// ProductResponse is the wire representation of a product: hex id,
// decimal-preserving price string, ISO-8601 UTC timestamps.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    int64  `json:"quantity"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// wireTimeLayout is ISO-8601 UTC with millisecond precision, the store's
// native timestamp resolution.
const wireTimeLayout = "2006-01-02T15:04:05.000Z"

// Response shapes the product for the HTTP surface.
func (p *Product) Response() ProductResponse {
	return ProductResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt.UTC().Format(wireTimeLayout),
		UpdatedAt:   p.UpdatedAt.UTC().Format(wireTimeLayout),
	}
}
