package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"majalah/internal/handlers"
	"majalah/internal/middleware"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/internal/services"
	"majalah/pkg/mailer"
	"majalah/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services. An admin account is seeded since admins are not
// self-assignable through sign-up.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Each test gets its own named in-memory database
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Magazine{},
		&models.PublishRequest{},
		&models.Subscription{},
		&models.Comment{},
		&models.ActivityLog{},
	)
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	magazineRepo := repositories.NewGORMMagazineRepository(db)
	subscriptionRepo := repositories.NewGORMSubscriptionRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	activityRepo := repositories.NewGORMActivityRepository(db)

	seedAdminForTest(t, userRepo)

	uploads, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	mail := mailer.Noop{}
	activityService := services.NewActivityService(activityRepo, nil) // nil for RabbitMQ client
	authService := services.NewAuthService(userRepo, jwtSecret)
	magazineService := services.NewMagazineService(magazineRepo, userRepo, activityService)
	publishRequestService := services.NewPublishRequestService(magazineRepo, userRepo, mail)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, magazineRepo, userRepo, mail, activityService)
	commentService := services.NewCommentService(commentRepo, userRepo)

	userHandler := handlers.NewUserHandler(authService, uploads)
	magazineHandler := handlers.NewMagazineHandler(magazineService, subscriptionService, uploads)
	publishRequestHandler := handlers.NewPublishRequestHandler(publishRequestService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	commentHandler := handlers.NewCommentHandler(commentService)

	app := fiber.New()
	auth := middleware.AuthRequired(authService)
	userHandler.RegisterRoutes(app, auth)
	magazineHandler.RegisterRoutes(app, auth)
	publishRequestHandler.RegisterRoutes(app, auth)
	subscriptionHandler.RegisterRoutes(app, auth)
	commentHandler.RegisterRoutes(app, auth)

	return app
}

// seedAdminForTest creates the admin account used by the review tests.
func seedAdminForTest(t *testing.T, userRepo repositories.UserRepository) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(&models.User{
		Email:    "admin@example.com",
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Name:     "Root Admin",
	}))
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func doMultipart(t *testing.T, app *fiber.App, method, target, token string, fields map[string]string) (int, map[string]interface{}) {
	t.Helper()
	buf, contentType := multipartBody(t, fields)
	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// signUp registers a user through the API and returns their token.
func signUp(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, resp := doMultipart(t, app, http.MethodPost, "/users/signUp", "", map[string]string{
		"email":    email,
		"password": "password123",
		"role":     role,
		"name":     "Test " + role,
	})
	require.Equal(t, http.StatusCreated, status)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, resp := doJSON(t, app, http.MethodPost, "/users/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "adminpass",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func field(t *testing.T, m map[string]interface{}, keys ...string) interface{} {
	t.Helper()
	var cur interface{} = m
	for _, k := range keys {
		obj, ok := cur.(map[string]interface{})
		require.True(t, ok, "expected object at %q", k)
		cur = obj[k]
	}
	return cur
}

func TestUserSignUpAndLogin(t *testing.T) {
	app := setupApp(t)

	// Sign-up issues a token and hides the password
	status, resp := doMultipart(t, app, http.MethodPost, "/users/signUp", "", map[string]string{
		"email":    "reader@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", resp["message"])
	assert.Equal(t, models.RoleSubscriber, field(t, resp, "user", "role")) // default role
	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, user, "password")

	// Duplicate email conflicts
	status, _ = doMultipart(t, app, http.MethodPost, "/users/signUp", "", map[string]string{
		"email":    "reader@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Invalid payload fails validation
	status, _ = doMultipart(t, app, http.MethodPost, "/users/signUp", "", map[string]string{
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Login round-trip
	status, resp = doJSON(t, app, http.MethodPost, "/users/login", "", map[string]string{
		"email":    "reader@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	token, _ := resp["token"].(string)
	assert.NotEmpty(t, token)

	// Wrong password
	status, _ = doJSON(t, app, http.MethodPost, "/users/login", "", map[string]string{
		"email":    "reader@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Profile requires the token
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	profileResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, profileResp.StatusCode)
	profileResp.Body.Close()

	status, resp = doJSON(t, app, http.MethodGet, "/users/profile", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "reader@example.com", field(t, resp, "user", "email"))
}

func TestPublishWorkflow(t *testing.T) {
	app := setupApp(t)
	publisherToken := signUp(t, app, "pub@example.com", "publisher")
	adminToken := loginAdmin(t, app)

	// Submit a magazine: created alongside a PENDING request
	status, resp := doMultipart(t, app, http.MethodPost, "/magazines/submit", publisherToken, map[string]string{
		"title":    "Go Monthly",
		"category": "tech",
		"content":  "A deep dive into concurrency",
		"price":    "9.99",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PENDING", field(t, resp, "request", "status"))
	magazineID, _ := field(t, resp, "magazine", "id").(string)
	requestID, _ := field(t, resp, "request", "id").(string)
	require.NotEmpty(t, magazineID)
	require.NotEmpty(t, requestID)

	// A submission without a title is rejected
	status, _ = doMultipart(t, app, http.MethodPost, "/magazines/submit", publisherToken, map[string]string{
		"category": "tech",
		"content":  "no title",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Subscribers may not submit
	subscriberToken := signUp(t, app, "reader@example.com", "subscriber")
	status, _ = doMultipart(t, app, http.MethodPost, "/magazines/submit", subscriberToken, map[string]string{
		"title":    "Nope",
		"category": "tech",
		"content":  "x",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// The publisher sees their own request; review listing is admin-only
	status, resp = doJSON(t, app, http.MethodGet, "/magazines/viewRequests", publisherToken, nil)
	assert.Equal(t, http.StatusOK, status)
	requests, _ := resp["requests"].([]interface{})
	assert.Len(t, requests, 1)

	status, _ = doJSON(t, app, http.MethodGet, "/publishRequests/", publisherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, resp = doJSON(t, app, http.MethodGet, "/publishRequests/?status=pending", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	requests, _ = resp["requests"].([]interface{})
	assert.Len(t, requests, 1)

	// Title and price-range filters narrow the admin listing
	status, resp = doJSON(t, app, http.MethodGet, "/publishRequests/?title=go%20monthly&minPrice=5&maxPrice=20", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	requests, _ = resp["requests"].([]interface{})
	assert.Len(t, requests, 1)
	status, resp = doJSON(t, app, http.MethodGet, "/publishRequests/?minPrice=100", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
	requests, _ = resp["requests"].([]interface{})
	assert.Empty(t, requests)
	status, _ = doJSON(t, app, http.MethodGet, "/publishRequests/?maxPrice=cheap", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Rejecting without a reason fails, with a reason it sticks
	status, _ = doJSON(t, app, http.MethodPut, "/publishRequests/"+requestID+"/reject", adminToken, map[string]string{"reason": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = doJSON(t, app, http.MethodPut, "/publishRequests/"+requestID+"/reject", adminToken, map[string]string{"reason": "too thin"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "REJECTED", field(t, resp, "request", "status"))
	assert.Equal(t, "too thin", field(t, resp, "request", "rejection_note"))

	// Editing is only possible while pending
	status, _ = doMultipart(t, app, http.MethodPut, "/magazines/update/"+requestID, publisherToken, map[string]string{
		"title": "Go Weekly",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Approving after rejection clears the note
	status, resp = doJSON(t, app, http.MethodPut, "/publishRequests/"+requestID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", field(t, resp, "request", "status"))
	_, hasNote := resp["request"].(map[string]interface{})["rejection_note"]
	assert.False(t, hasNote)

	// The approved magazine is publicly visible with its review state
	status, resp = doJSON(t, app, http.MethodGet, "/magazines/viewMagazine/"+magazineID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APPROVED", field(t, resp, "magazine", "request", "status"))
	assert.Equal(t, "Go Monthly", field(t, resp, "magazine", "title"))

	// And shows up in the approved catalogue
	status, resp = doJSON(t, app, http.MethodGet, "/magazines/approved", subscriberToken, nil)
	assert.Equal(t, http.StatusOK, status)
	catalogue, _ := resp["magazines"].([]interface{})
	assert.Len(t, catalogue, 1)
}

func TestSubscriptionEndpoints(t *testing.T) {
	app := setupApp(t)
	publisherToken := signUp(t, app, "pub@example.com", "publisher")
	subscriberToken := signUp(t, app, "reader@example.com", "subscriber")
	adminToken := loginAdmin(t, app)

	status, resp := doMultipart(t, app, http.MethodPost, "/magazines/submit", publisherToken, map[string]string{
		"title":    "Go Monthly",
		"category": "tech",
		"content":  "x",
	})
	require.Equal(t, http.StatusCreated, status)
	magazineID, _ := field(t, resp, "magazine", "id").(string)
	requestID, _ := field(t, resp, "request", "id").(string)

	// Subscribing to a pending magazine conflicts
	status, _ = doJSON(t, app, http.MethodPost, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodPut, "/publishRequests/"+requestID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusCreated, status)

	// The pair is unique
	status, _ = doJSON(t, app, http.MethodPost, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusConflict, status)

	// The public subscriber listing counts one
	status, resp = doJSON(t, app, http.MethodGet, "/magazines/subscriptions/"+magazineID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp["count"])

	status, _ = doJSON(t, app, http.MethodDelete, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusNotFound, status)

	// Unsubscribing frees the pair: subscribing again must succeed
	status, _ = doJSON(t, app, http.MethodPost, "/subscription/", subscriberToken, map[string]string{"magazine_id": magazineID})
	assert.Equal(t, http.StatusCreated, status)

	status, resp = doJSON(t, app, http.MethodGet, "/magazines/subscriptions/"+magazineID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp["count"])
}

func TestCommentEndpoints(t *testing.T) {
	app := setupApp(t)
	publisherToken := signUp(t, app, "pub@example.com", "publisher")
	subscriberToken := signUp(t, app, "reader@example.com", "subscriber")
	adminToken := loginAdmin(t, app)

	status, resp := doMultipart(t, app, http.MethodPost, "/magazines/submit", publisherToken, map[string]string{
		"title":    "Go Monthly",
		"category": "tech",
		"content":  "x",
	})
	require.Equal(t, http.StatusCreated, status)
	magazineID, _ := field(t, resp, "magazine", "id").(string)

	status, resp = doJSON(t, app, http.MethodPost, "/comments/comment", subscriberToken, map[string]string{
		"magazine_id": magazineID,
		"content":     "looking forward to this",
	})
	require.Equal(t, http.StatusCreated, status)
	commentID, _ := field(t, resp, "comment", "id").(string)
	require.NotEmpty(t, commentID)

	// Listing annotates the author
	status, resp = doJSON(t, app, http.MethodGet, "/comments/"+magazineID, subscriberToken, nil)
	assert.Equal(t, http.StatusOK, status)
	comments, _ := resp["comments"].([]interface{})
	require.Len(t, comments, 1)
	first, _ := comments[0].(map[string]interface{})
	assert.Equal(t, "Test subscriber", field(t, first, "author", "name"))

	// Only the author (or an admin) edits
	status, _ = doJSON(t, app, http.MethodPut, "/comments/"+commentID, publisherToken, map[string]string{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodPut, "/comments/"+commentID, subscriberToken, map[string]string{"content": "edited"})
	assert.Equal(t, http.StatusOK, status)

	// Deletion is author-only, with an admin override route
	status, _ = doJSON(t, app, http.MethodDelete, "/comments/"+commentID, publisherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/comments/admin/"+commentID, subscriberToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/comments/admin/"+commentID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMagazineDeletion(t *testing.T) {
	app := setupApp(t)
	publisherToken := signUp(t, app, "pub@example.com", "publisher")
	otherToken := signUp(t, app, "other@example.com", "publisher")

	status, resp := doMultipart(t, app, http.MethodPost, "/magazines/submit", publisherToken, map[string]string{
		"title":    "Go Monthly",
		"category": "tech",
		"content":  "x",
	})
	require.Equal(t, http.StatusCreated, status)
	magazineID, _ := field(t, resp, "magazine", "id").(string)

	// Another publisher may not delete it
	status, _ = doJSON(t, app, http.MethodDelete, "/magazines/delete/"+magazineID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/magazines/delete/"+magazineID, publisherToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Magazine and request are both gone
	status, _ = doJSON(t, app, http.MethodGet, "/magazines/viewMagazine/"+magazineID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, resp = doJSON(t, app, http.MethodGet, "/magazines/viewRequests", publisherToken, nil)
	assert.Equal(t, http.StatusOK, status)
	requests, _ := resp["requests"].([]interface{})
	assert.Empty(t, requests)
}
