package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"agromart/internal/handlers"
	"agromart/internal/middleware"
	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a Fiber app backed by an in-memory SQLite database with
// all handlers and services wired, mirroring the production wiring minus
// the message queue.
func setupApp() (*fiber.App, *services.AuthService, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.Product{}, &models.Order{}); err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	accountRepo := repositories.NewGORMAccountRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(accountRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, nil) // nil MQ client

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return app, authService, nil
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerAndLogin(t *testing.T, app *fiber.App, email string, role models.Role) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"role":     string(role),
		"name":     "Test " + email,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

func loginAdmin(t *testing.T, app *fiber.App, authService *services.AuthService, email string) string {
	t.Helper()
	// Admin accounts are bootstrapped, never self-registered.
	admin := &models.Account{Email: email, Role: models.RoleAdmin, Name: "Administrator"}
	assert.NoError(t, authService.Register(admin, "adminpass", ""))

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "adminpass",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	return loginResp["token"]
}

var testShippingBody = map[string]string{
	"full_name":   "Ann Farmer",
	"email":       "ann@example.com",
	"phone":       "5550001234",
	"address":     "12 Orchard Lane",
	"city":        "Springfield",
	"state":       "IL",
	"postal_code": "62701",
}

func TestAuthRegisterLoginAndRecovery(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	// Register with a security question
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":             "recover@example.com",
		"password":          "password123",
		"name":              "Recovering User",
		"security_question": "First tractor model?",
		"security_answer":   "old red one",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Duplicate registration conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "recover@example.com",
		"password": "password123",
		"name":     "Recovering User",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong security answer is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email":           "recover@example.com",
		"security_answer": "blue one",
		"new_password":    "newpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Correct answer resets the password
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email":           "recover@example.com",
		"security_answer": "old red one",
		"new_password":    "newpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Old password no longer works, new one does
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "recover@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "recover@example.com",
		"password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMarketplaceFlow(t *testing.T) {
	app, authService, err := setupApp()
	assert.NoError(t, err)

	sellerToken := registerAndLogin(t, app, "seller-flow@example.com", models.RoleSeller)
	otherSellerToken := registerAndLogin(t, app, "other-seller-flow@example.com", models.RoleSeller)
	buyerToken := registerAndLogin(t, app, "buyer-flow@example.com", models.RoleBuyer)
	adminToken := loginAdmin(t, app, authService, "admin-flow@example.com")

	// Seller lists a product
	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", sellerToken, map[string]interface{}{
		"name":        "Organic Wheat Seed",
		"description": "25kg bag",
		"price":       50.0,
		"stock":       10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var product models.Product
	decodeBody(t, resp, &product)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, models.InStock, product.Availability)

	// Buyers cannot list products
	resp = doJSON(t, app, http.MethodPost, "/api/v1/products", buyerToken, map[string]interface{}{
		"name":  "Not Allowed",
		"price": 1.0,
		"stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Buyer places an order; the tampered client price must be ignored
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2, "price": 0.01},
		},
		"shipping":       testShippingBody,
		"payment_method": "cod",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, 100.0, order.TotalAmount)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, models.PaymentPending, order.Payment.Status)

	// Stock was decremented
	resp = doJSON(t, app, http.MethodGet, "/api/v1/products/"+product.ID, buyerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var after models.Product
	decodeBody(t, resp, &after)
	assert.Equal(t, 8, after.Stock)

	// Buyer sees only their own orders
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", buyerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var buyerOrders []models.Order
	decodeBody(t, resp, &buyerOrders)
	assert.Len(t, buyerOrders, 1)
	assert.Equal(t, order.ID, buyerOrders[0].ID)

	// Selling seller sees the scoped view with the recomputed total
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/seller", sellerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var feed services.SellerOrderFeed
	decodeBody(t, resp, &feed)
	assert.Len(t, feed.Orders, 1)
	assert.Equal(t, 100.0, feed.Orders[0].SellerTotal)
	assert.Equal(t, 100.0, feed.TotalRevenue)

	// An unrelated seller sees nothing
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/seller", otherSellerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var emptyFeed services.SellerOrderFeed
	decodeBody(t, resp, &emptyFeed)
	assert.Empty(t, emptyFeed.Orders)

	// A stranger buyer cannot read the order, and learns nothing
	strangerToken := registerAndLogin(t, app, "stranger-flow@example.com", models.RoleBuyer)
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The selling seller confirms the order
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", sellerToken, map[string]string{
		"status": "Confirmed",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var confirmed models.Order
	decodeBody(t, resp, &confirmed)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, models.PaymentPending, confirmed.Payment.Status) // COD completes on delivery

	// Re-requesting the current status is rejected
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", sellerToken, map[string]string{
		"status": "Confirmed",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Skipping Shipped is rejected
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", sellerToken, map[string]string{
		"status": "Delivered",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The unrelated seller is denied
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", otherSellerToken, map[string]string{
		"status": "Shipped",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin drives the order to delivery; COD payment completes
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "Shipped",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", adminToken, map[string]string{
		"status": "Delivered",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var delivered models.Order
	decodeBody(t, resp, &delivered)
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.Equal(t, models.PaymentCompleted, delivered.Payment.Status)

	// Admin listing carries aggregate statistics
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var adminFeed services.AdminOrderFeed
	decodeBody(t, resp, &adminFeed)
	assert.GreaterOrEqual(t, adminFeed.Stats.TotalOrders, 1)
	assert.GreaterOrEqual(t, adminFeed.Stats.CountsByStatus[models.StatusDelivered], 1)

	// Sellers get neither listing shape from the generic endpoint
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderValidation(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	buyerToken := registerAndLogin(t, app, "validation-buyer@example.com", models.RoleBuyer)

	// No items
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders", buyerToken, map[string]interface{}{
		"items":          []map[string]interface{}{},
		"shipping":       testShippingBody,
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing shipping fields
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "11111111-1111-1111-1111-111111111111", "quantity": 1},
		},
		"shipping":       map[string]string{"full_name": "Ann"},
		"payment_method": "card",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unsupported payment method
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", buyerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "11111111-1111-1111-1111-111111111111", "quantity": 1},
		},
		"shipping":       testShippingBody,
		"payment_method": "barter",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestEndpointsWithoutAuth(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders", "not-a-token", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
