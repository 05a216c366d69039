package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"microblog/cache"
	"microblog/config"
	"microblog/database"
	"microblog/handlers"
	"microblog/middleware"
	"microblog/models"
	"microblog/routes"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testConfig = &config.Config{
	JWTSecret: "test-secret-key",
}

func init() {
	handlers.InitAuthHandlers(testConfig)
	middleware.InitMiddleware(testConfig)
}

// setupTestDB points database.DB at a fresh in-memory SQLite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))

	database.DB = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
}

// setupTestCache backs the cache package with a miniredis instance.
// Tests that don't call this run with a nil client, which disables
// caching entirely.
func setupTestCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())
	t.Cleanup(func() {
		cache.Close()
		cache.Client = nil
	})
	return mr
}

// setupTestApp creates a Fiber app with the full route table registered.
func setupTestApp() *fiber.App {
	app := fiber.New()
	routes.Setup(app)
	return app
}

// performRequest sends a JSON request through the app, attaching a
// bearer token when given.
func performRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// createTestUser inserts a user with a bcrypt-hashed password directly
// into the store.
func createTestUser(t *testing.T, username, email, password string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func createTestPost(t *testing.T, author models.User, title, content string, published bool) models.Post {
	t.Helper()

	post := models.Post{
		Title:     title,
		Content:   content,
		Published: published,
		AuthorID:  author.ID,
	}
	require.NoError(t, database.DB.Create(&post).Error)
	return post
}

func createTestComment(t *testing.T, post models.Post, user models.User, content string) models.Comment {
	t.Helper()

	comment := models.Comment{
		Content:  content,
		PostID:   post.ID,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	require.NoError(t, database.DB.Create(&comment).Error)
	return comment
}

// tokenFor mints a valid bearer token for the user, matching the shape
// issued by the login handler.
func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(testConfig.JWTSecret))
	require.NoError(t, err)
	return token
}
