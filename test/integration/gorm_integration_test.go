package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"invoiceflow-be/internal/entity"
	"invoiceflow-be/internal/repository/specification"
	"invoiceflow-be/internal/repository/unitofwork"
	"invoiceflow-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.InvoiceRepository())
	assert.NotNil(t, uow.WebhookDeliveryRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Invoice Repository", func(t *testing.T) {
		count, err := uow.InvoiceRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Invoice count: %d", count)
	})

	t.Run("Check Sequence Counter", func(t *testing.T) {
		ctx := context.Background()
		period := time.Now().Format("200601")

		first, err := uow.SequenceRepository().Next(ctx, "TST", period)
		assert.NoError(t, err)
		second, err := uow.SequenceRepository().Next(ctx, "TST", period)
		assert.NoError(t, err)
		assert.Equal(t, first+1, second)
	})

	t.Run("Check Transactional Invoice Creation", func(t *testing.T) {
		ctx := context.Background()

		customer := &entity.Customer{
			Id:       uuid.New(),
			FullName: "Integration Test Customer",
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			Status:   "active",
		}
		provider := &entity.ServiceProvider{
			Id:          uuid.New(),
			CompanyName: "Integration Test Provider",
			Email:       "provider-integration-" + uuid.New().String() + "@example.com",
			Status:      "active",
		}

		err := uow.CustomerRepository().Create(ctx, customer)
		assert.NoError(t, err)
		err = uow.ProviderRepository().Create(ctx, provider)
		assert.NoError(t, err)

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		invoiceId := uuid.New()
		now := time.Now()
		invoice := &entity.Invoice{
			Id:            invoiceId,
			InvoiceNumber: "INV-TEST-" + uuid.New().String()[:8],
			CustomerId:    customer.Id,
			ProviderId:    provider.Id,
			Amount:        decimal.RequireFromString("100.00"),
			TaxAmount:     decimal.RequireFromString("10.00"),
			TotalAmount:   decimal.RequireFromString("110.00"),
			Status:        entity.InvoiceStatusPending,
			IssueDate:     now,
			DueDate:       now.Add(7 * 24 * time.Hour),
		}

		err = uow.InvoiceRepository().Create(ctx, invoice)
		assert.NoError(t, err)

		// Row lock path used by reconciliation
		locked, err := uow.InvoiceRepository().FindOneForUpdate(ctx, invoiceId)
		assert.NoError(t, err)
		assert.Equal(t, entity.InvoiceStatusPending, locked.Status)

		err = uow.Commit()
		assert.NoError(t, err)

		// Visible outside the transaction
		found, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
		assert.NoError(t, err)
		assert.True(t, found.TotalAmount.Equal(invoice.TotalAmount))

		t.Log("Successfully created Invoice in Transaction")
	})
}
