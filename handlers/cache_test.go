package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"microblog/database"
	"microblog/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getFeed(t *testing.T, app *fiber.App) []models.Post {
	t.Helper()
	resp := performRequest(t, app, http.MethodGet, "/posts", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var posts []models.Post
	decodeBody(t, resp, &posts)
	return posts
}

// TestGetAllPosts_CacheAside proves the feed is actually served from
// Redis between reads: a write that bypasses the handlers stays
// invisible until a handler mutation drops the key.
func TestGetAllPosts_CacheAside(t *testing.T) {
	setupTestDB(t)
	setupTestCache(t)
	app := setupTestApp()

	author := createTestUser(t, "author", "author@example.com", "password123")
	post := createTestPost(t, author, "Cached", "Body", true)

	// Prime the cache
	require.Len(t, getFeed(t, app), 1)

	// Direct DB write, no invalidation: the cached feed still wins
	createTestPost(t, author, "Hidden", "Body", true)
	assert.Len(t, getFeed(t, app), 1)

	// A handler mutation invalidates; the next read sees both posts
	resp := performRequest(t, app, http.MethodPut, fmt.Sprintf("/posts/%d", post.ID),
		map[string]any{"title": "Renamed"}, tokenFor(t, author))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	feed := getFeed(t, app)
	require.Len(t, feed, 2)
	titles := []string{feed[0].Title, feed[1].Title}
	assert.Contains(t, titles, "Renamed")
	assert.Contains(t, titles, "Hidden")
}

// Comment mutations invalidate the feed too, since comments are
// embedded in the cached posts.
func TestGetAllPosts_CacheInvalidatedByCommentWrites(t *testing.T) {
	setupTestDB(t)
	setupTestCache(t)
	app := setupTestApp()

	author := createTestUser(t, "author", "author@example.com", "password123")
	post := createTestPost(t, author, "Post", "Body", true)

	// Prime the cache with a commentless feed
	feed := getFeed(t, app)
	require.Len(t, feed, 1)
	require.Empty(t, feed[0].Comments)

	resp := performRequest(t, app, http.MethodPost, "/comments",
		map[string]any{"content": "Fresh", "postId": post.ID}, tokenFor(t, author))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	feed = getFeed(t, app)
	require.Len(t, feed, 1)
	require.Len(t, feed[0].Comments, 1)
	assert.Equal(t, "Fresh", feed[0].Comments[0].Content)

	var comment models.Comment
	require.NoError(t, database.DB.Where("post_id = ?", post.ID).First(&comment).Error)

	resp = performRequest(t, app, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID),
		nil, tokenFor(t, author))
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	feed = getFeed(t, app)
	require.Len(t, feed, 1)
	assert.Empty(t, feed[0].Comments)
}

// Deleting a post through the handler must not leave it in the cached
// feed.
func TestDeletePost_InvalidatesFeed(t *testing.T) {
	setupTestDB(t)
	setupTestCache(t)
	app := setupTestApp()

	author := createTestUser(t, "author", "author@example.com", "password123")
	post := createTestPost(t, author, "Doomed", "Body", true)

	require.Len(t, getFeed(t, app), 1)

	resp := performRequest(t, app, http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID),
		nil, tokenFor(t, author))
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Empty(t, getFeed(t, app))
}
