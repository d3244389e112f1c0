package repository

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"product-catalog/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testClient *mongo.Client

func setupTestStore() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return container.Terminate, err
	}

	testClient, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return container.Terminate, err
	}

	return container.Terminate, nil
}

func TestMain(m *testing.M) {
	terminate, err := setupTestStore()
	if err != nil {
		log.Fatalf("could not start mongodb container: %v", err)
	}

	code := m.Run()

	if terminate != nil {
		if err := terminate(context.Background()); err != nil {
			log.Fatalf("could not terminate mongodb container: %v", err)
		}
	}
	os.Exit(code)
}

// testRepository returns a repository over a fresh collection so tests do
// not observe each other's documents.
func testRepository(t *testing.T) ProductRepository {
	t.Helper()
	collection := testClient.Database("testdb").Collection("products_" + t.Name())
	t.Cleanup(func() {
		_ = collection.Drop(context.Background())
	})
	return NewProductRepository(collection)
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Product{
		Name:        "Laptop",
		Description: "A fast laptop",
		Price:       decimal.RequireFromString("999.99"),
		Quantity:    50,
		Category:    "Electronics",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductLifecycle(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	product := sampleProduct()

	id, err := repo.Insert(ctx, product)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id.IsZero() {
		t.Fatal("expected a store-assigned id")
	}

	found, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != product.Name || found.Quantity != product.Quantity || found.Category != product.Category {
		t.Errorf("retrieved product differs: %+v", found)
	}
	if !found.Price.Equal(product.Price) {
		t.Errorf("Price = %s, want %s", found.Price, product.Price)
	}
	if !found.CreatedAt.Equal(product.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", found.CreatedAt, product.CreatedAt)
	}

	replacement := sampleProduct()
	replacement.Name = "Gaming Laptop"
	replacement.Price = decimal.RequireFromString("1299.99")
	replacement.CreatedAt = found.CreatedAt
	replacement.UpdatedAt = found.UpdatedAt.Add(time.Second)

	if err := repo.Replace(ctx, id, replacement); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	replaced, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID after replace failed: %v", err)
	}
	if replaced.ID != id {
		t.Errorf("id changed across replace: %s -> %s", id.Hex(), replaced.ID.Hex())
	}
	if replaced.Name != "Gaming Laptop" {
		t.Errorf("Name = %q, want %q", replaced.Name, "Gaming Laptop")
	}
	if !replaced.CreatedAt.Equal(found.CreatedAt) {
		t.Errorf("CreatedAt changed across replace: %v -> %v", found.CreatedAt, replaced.CreatedAt)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, id); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("FindByID after delete = %v, want ErrProductNotFound", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("second Delete = %v, want ErrProductNotFound", err)
	}
}

func TestFindByID_MissingDocument(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReplace_MissingDocument(t *testing.T) {
	repo := testRepository(t)

	err := repo.Replace(context.Background(), primitive.NewObjectID(), sampleProduct())
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestFindAll(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		product := sampleProduct()
		product.Name = "Product " + strconv.Itoa(i)
		if _, err := repo.Insert(ctx, product); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	products, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("len = %d, want 3", len(products))
	}
}

func TestProperty_InsertThenFindPreservesAttributes(t *testing.T) {
	repo := testRepository(t)

	properties := gopter.NewProperties(nil)

	properties.Property("inserting and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, category string, quantity int64, cents int64) bool {
			ctx := context.Background()

			product := sampleProduct()
			product.Name = name
			product.Description = description
			product.Category = category
			product.Quantity = quantity
			product.Price = decimal.New(cents, -2)

			id, err := repo.Insert(ctx, product)
			if err != nil {
				t.Logf("FAIL: Insert: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, id)
			if err != nil {
				t.Logf("FAIL: FindByID: %v", err)
				return false
			}

			if retrieved.Name != name || retrieved.Description != description || retrieved.Category != category {
				t.Logf("FAIL: text fields differ: %+v", retrieved)
				return false
			}
			if retrieved.Quantity != quantity {
				t.Logf("FAIL: Quantity %d != %d", retrieved.Quantity, quantity)
				return false
			}
			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price %s != %s", retrieved.Price, product.Price)
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t)
}
