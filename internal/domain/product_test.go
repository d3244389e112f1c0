package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProperty_ObjectIDRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a store-assigned id parses back from its hex form", prop.ForAll(
		func(_ int) bool {
			id := primitive.NewObjectID()
			parsed, err := ParseProductID(id.Hex())
			return err == nil && parsed == id
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestProperty_MalformedIDsAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("strings that are not 24 hex characters fail with ErrInvalidProductID", prop.ForAll(
		func(raw string) bool {
			if isObjectIDHex(raw) {
				return true
			}
			_, err := ParseProductID(raw)
			return errors.Is(err, ErrInvalidProductID)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func isObjectIDHex(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func TestParseProductID_MalformedInputs(t *testing.T) {
	cases := []string{
		"",
		"not-a-valid-id",
		"123",
		"zzzzzzzzzzzzzzzzzzzzzzzz",             // right length, not hex
		"5f8d0d55b54764421b7156c",              // 23 chars
		"5f8d0d55b54764421b7156c3a",            // 25 chars
		"5f8d0d55 b54764421b7156c",             // embedded space
	}

	for _, raw := range cases {
		if _, err := ParseProductID(raw); !errors.Is(err, ErrInvalidProductID) {
			t.Errorf("ParseProductID(%q) = %v, want ErrInvalidProductID", raw, err)
		}
	}
}

func TestProductResponse_WireFormat(t *testing.T) {
	id := primitive.NewObjectID()
	createdAt := time.Date(2024, 3, 5, 12, 30, 45, 123_000_000, time.UTC)
	updatedAt := time.Date(2024, 3, 6, 8, 15, 0, 7_000_000, time.UTC)

	product := &Product{
		ID:          id,
		Name:        "Laptop",
		Description: "A fast laptop",
		Price:       decimal.RequireFromString("999.99"),
		Quantity:    50,
		Category:    "Electronics",
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}

	resp := product.Response()

	if resp.ID != id.Hex() {
		t.Errorf("ID = %q, want %q", resp.ID, id.Hex())
	}
	if resp.Price != "999.99" {
		t.Errorf("Price = %q, want %q", resp.Price, "999.99")
	}
	if resp.CreatedAt != "2024-03-05T12:30:45.123Z" {
		t.Errorf("CreatedAt = %q, want %q", resp.CreatedAt, "2024-03-05T12:30:45.123Z")
	}
	if resp.UpdatedAt != "2024-03-06T08:15:00.007Z" {
		t.Errorf("UpdatedAt = %q, want %q", resp.UpdatedAt, "2024-03-06T08:15:00.007Z")
	}
	if resp.Quantity != 50 {
		t.Errorf("Quantity = %d, want 50", resp.Quantity)
	}
}

func TestProductResponse_PriceAlwaysHasTwoDecimalPlaces(t *testing.T) {
	product := &Product{
		ID:    primitive.NewObjectID(),
		Name:  "Widget",
		Price: decimal.RequireFromString("10"),
	}

	if got := product.Response().Price; got != "10.00" {
		t.Errorf("Price = %q, want %q", got, "10.00")
	}
}
