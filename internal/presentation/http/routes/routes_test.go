package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buzzcafe/billing-api/internal/application/service"
	"github.com/buzzcafe/billing-api/internal/config"
	"github.com/buzzcafe/billing-api/internal/infrastructure/database"
	"github.com/buzzcafe/billing-api/internal/infrastructure/repository"
	"github.com/buzzcafe/billing-api/internal/presentation/http/handler"
	"github.com/buzzcafe/billing-api/pkg/email"
	"github.com/buzzcafe/billing-api/pkg/oauth"
	"github.com/buzzcafe/billing-api/pkg/printer"
	"github.com/buzzcafe/billing-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: "billing-api-test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	cartStore := service.NewCartStore()
	invoiceFeed := service.NewInvoiceFeed()

	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager,
		email.NewEmailService(email.EmailConfig{}))
	menuService := service.NewMenuService(menuRepo)
	cartService := service.NewCartService(cartStore, menuRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, settingsRepo, cartStore, invoiceFeed)
	analyticsService := service.NewAnalyticsService(invoiceRepo)
	exportService := service.NewExportService(analyticsService, settingsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	printerService := service.NewPrinterService(printer.NewNullPrinter(), invoiceService, "none", 32)

	oauthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{})

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(authService, oauthService),
		Menu:      handler.NewMenuHandler(menuService),
		Cart:      handler.NewCartHandler(cartService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, printerService, exportService),
		Dashboard: handler.NewDashboardHandler(analyticsService, exportService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	return Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	envelope := &apiEnvelope{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		if err := json.Unmarshal(w.Body.Bytes(), envelope); err != nil {
			t.Fatalf("decode response %s %s: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, envelope
}

func registerAndLogin(t *testing.T, router *gin.Engine, emailAddr string) string {
	t.Helper()

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"first_name": "Asha",
		"last_name":  "Rao",
		"email":      emailAddr,
		"password":   "s3cret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    emailAddr,
		"password": "s3cret-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	var data struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.AccessToken == "" {
		t.Fatal("login returned no access token")
	}
	return data.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health returned %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := setupTestServer(t)

	for _, path := range []string{"/api/v1/menu", "/api/v1/cart", "/api/v1/invoices", "/api/v1/dashboard"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token, got %d", path, w.Code)
		}
	}
}

func TestBillingFlow(t *testing.T) {
	router := setupTestServer(t)
	token := registerAndLogin(t, router, "asha@example.com")

	// Create a menu item
	w, env := doJSON(t, router, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name":     "Masala Dosa",
		"price":    150.0,
		"category": "South Indian",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item returned %d: %s", w.Code, w.Body.String())
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode menu item: %v", err)
	}

	// Add it to the cart twice
	for i := 0; i < 2; i++ {
		w, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
			"menu_item_id": item.ID,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("add to cart returned %d: %s", w.Code, w.Body.String())
		}
	}

	// A dine-in save without a table number fails the gate
	w, env = doJSON(t, router, http.MethodPost, "/api/v1/invoices", token, gin.H{
		"customer_name":  "Ravi",
		"invoice_type":   "Dine In",
		"payment_method": "Cash",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for dine-in without table, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.Errors) == 0 {
		t.Fatal("expected field errors in the validation response")
	}

	// The failed save must not touch the cart
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/cart", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get cart returned %d", w.Code)
	}
	var cart struct {
		Lines []json.RawMessage `json:"lines"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected cart to survive the failed save, got %d lines", len(cart.Lines))
	}

	// A complete save succeeds and points at the new invoice
	w, env = doJSON(t, router, http.MethodPost, "/api/v1/invoices", token, gin.H{
		"customer_name":  "Ravi",
		"invoice_type":   "Dine In",
		"table_number":   "T4",
		"payment_method": "Cash",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("save invoice returned %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Location") == "" {
		t.Fatal("expected a Location header on the created invoice")
	}
	var saved struct {
		Invoice struct {
			ID    string  `json:"id"`
			Total float64 `json:"total"`
		} `json:"invoice"`
	}
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		t.Fatalf("decode saved invoice: %v", err)
	}
	if saved.Invoice.Total != 300.00 {
		t.Fatalf("expected total 300.00, got %v", saved.Invoice.Total)
	}

	// The successful save clears the cart
	w, env = doJSON(t, router, http.MethodGet, "/api/v1/cart", token, nil)
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart after save, got %d lines", len(cart.Lines))
	}

	// The invoice is retrievable and the receipt PDF downloads
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/invoices/"+saved.Invoice.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get invoice returned %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+saved.Invoice.ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("receipt pdf returned %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Content-Disposition") == "" {
		t.Fatal("expected a Content-Disposition header on the PDF download")
	}
}

func TestDashboardAndExports(t *testing.T) {
	router := setupTestServer(t)
	token := registerAndLogin(t, router, "asha@example.com")

	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d: %s", w.Code, w.Body.String())
	}

	for path, contentType := range map[string]string{
		"/api/v1/dashboard/export/csv": "text/csv",
		"/api/v1/dashboard/export/pdf": "application/pdf",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d: %s", path, rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != contentType {
			t.Fatalf("%s returned content type %s, want %s", path, got, contentType)
		}
	}

	// Malformed date bounds are rejected up front
	w, _ = doJSON(t, router, http.MethodGet, "/api/v1/dashboard?start_date=not-a-date", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad date, got %d", w.Code)
	}
}

func TestSettingsUpdateIsAdminOnly(t *testing.T) {
	router := setupTestServer(t)
	token := registerAndLogin(t, router, "staff@example.com")

	// Everyone can read
	w, _ := doJSON(t, router, http.MethodGet, "/api/v1/settings", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get settings returned %d", w.Code)
	}

	// Staff accounts cannot write
	w, _ = doJSON(t, router, http.MethodPut, "/api/v1/settings", token, gin.H{
		"shop_name": "New Name",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff settings update, got %d", w.Code)
	}
}

func TestInvoiceSaveIdempotencyReplay(t *testing.T) {
	router := setupTestServer(t)
	token := registerAndLogin(t, router, "asha@example.com")

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name":  "Tea",
		"price": 15.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item returned %d", w.Code)
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode menu item: %v", err)
	}
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
		"menu_item_id": item.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add to cart returned %d", w.Code)
	}

	body, _ := json.Marshal(gin.H{
		"customer_name":  "Ravi",
		"invoice_type":   "Takeaway",
		"payment_method": "Cash",
	})
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "save-once")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("first save returned %d: %s", first.Code, first.Body.String())
	}

	// The cart is empty now; without the replay this retry would fail
	// validation. Instead the cached response comes back.
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("replayed save returned %d: %s", second.Code, second.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("expected the replay marker header")
	}
	if second.Body.String() != first.Body.String() {
		t.Fatal("replayed response should match the original")
	}
}

func TestInvoiceListPagination(t *testing.T) {
	router := setupTestServer(t)
	token := registerAndLogin(t, router, "asha@example.com")

	w, env := doJSON(t, router, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name":  "Tea",
		"price": 15.0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item returned %d", w.Code)
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode menu item: %v", err)
	}

	for i := 0; i < 3; i++ {
		w, _ = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", token, gin.H{
			"menu_item_id": item.ID,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("add to cart returned %d", w.Code)
		}
		w, _ = doJSON(t, router, http.MethodPost, "/api/v1/invoices", token, gin.H{
			"customer_name":  fmt.Sprintf("Customer %d", i),
			"invoice_type":   "Takeaway",
			"payment_method": "Online",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("save invoice %d returned %d: %s", i, w.Code, w.Body.String())
		}
	}

	w, env = doJSON(t, router, http.MethodGet, "/api/v1/invoices?page=1&per_page=2", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list invoices returned %d", w.Code)
	}
	var list struct {
		Items      []json.RawMessage `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 2 || list.Pagination.Total != 3 {
		t.Fatalf("expected 2 of 3 invoices, got %d of %d", len(list.Items), list.Pagination.Total)
	}
}
