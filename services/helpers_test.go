package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/freshfold/laundry-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fixedNow is the clock used by service tests
var fixedNow = time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "Failed to connect to test database")

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LaundryService{}, &models.LaundryOrder{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, auth0ID, name, role string) models.User {
	user := models.User{
		Auth0ID: auth0ID,
		Name:    name,
		Email:   auth0ID + "@example.com",
		Role:    role,
		Phone:   "555-0100",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestService(t *testing.T, db *gorm.DB, name string, pricing models.PricingType, price string) models.LaundryService {
	amount := decimal.RequireFromString(price)
	service := models.LaundryService{
		Name:            name,
		Description:     name + " service",
		PricingType:     pricing,
		TurnaroundHours: 24,
		IsActive:        true,
	}
	if pricing == models.PricingPerKg {
		service.PricePerKg = &amount
	} else {
		service.PricePerPiece = &amount
	}
	require.NoError(t, db.Create(&service).Error)
	return service
}

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func at(t time.Time) *time.Time {
	return &t
}

func validOrderInput(serviceID uint, quantity string) CreateOrderInput {
	return CreateOrderInput{
		LaundryServiceID: serviceID,
		Quantity:         dec(quantity),
		PickupDate:       at(fixedNow.Add(24 * time.Hour)),
		DeliveryDate:     at(fixedNow.Add(72 * time.Hour)),
		PickupAddress:    "12 Elm Street",
		DeliveryAddress:  "12 Elm Street",
	}
}

// newFileHeader builds a multipart file header the way gin hands it to a handler
func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	headers := req.MultipartForm.File["image"]
	require.Len(t, headers, 1)
	return headers[0]
}
