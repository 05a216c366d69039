package handlers

import (
	"strconv"
	"time"

	"microblog/cache"
	"microblog/database"
	"microblog/models"

	"github.com/gofiber/fiber/v2"
)

const (
	postsCacheKey = "posts:all"
	postsCacheTTL = 60 * time.Second
)

type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
	AuthorID  *uint  `json:"authorId"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

// GetAllPosts handles GET /posts. The feed is read-mostly, so it goes
// through the Redis cache-aside helper; every post mutation below
// invalidates the key.
func GetAllPosts(c *fiber.Ctx) error {
	var posts []models.Post

	err := cache.CacheAside(c.Context(), postsCacheKey, &posts, postsCacheTTL, func() error {
		return database.DB.Preload("Comments").Order("created_at desc").Find(&posts).Error
	})
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to fetch posts", err))
	}

	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
func GetPost(c *fiber.Ctx) error {
	id := c.Params("id")

	var post models.Post
	if err := database.DB.Preload("Comments").First(&post, "id = ?", id).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Post"))
	}

	return c.JSON(post)
}

// CreatePost handles POST /posts. Published is a pointer so an explicit
// false still passes the presence check.
func CreatePost(c *fiber.Ctx) error {
	req := new(CreatePostRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" || req.Published == nil || req.AuthorID == nil {
		return models.RespondWithError(c, models.NewValidationError(
			"Missing required fields: title, content, published, and authorId are required"))
	}

	var author models.User
	if err := database.DB.First(&author, *req.AuthorID).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Author"))
	}

	post := models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: *req.Published,
		AuthorID:  author.ID,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to create post", err))
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /posts/:id. Only the owning author may update;
// absent fields are left untouched.
func UpdatePost(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("No valid user detected"))
	}

	postID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid post ID"))
	}

	var post models.Post
	if err := database.DB.First(&post, postID).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Post"))
	}

	if post.AuthorID != userID {
		return models.RespondWithError(c,
			models.NewForbiddenError("You cannot update someone else's post"))
	}

	req := new(UpdatePostRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := database.DB.Save(&post).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to update post", err))
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.JSON(post)
}

// DeletePost handles DELETE /posts/:id. A post with comments is never
// deleted; the caller must remove the comments first.
func DeletePost(c *fiber.Ctx) error {
	id := c.Params("id")

	var post models.Post
	if err := database.DB.First(&post, "id = ?", id).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Post"))
	}

	var commentCount int64
	if err := database.DB.Model(&models.Comment{}).
		Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete post", err))
	}

	if commentCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"warning": "You cannot delete this post because it has related comments",
			"post_id": post.ID,
		})
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete post", err))
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.SendStatus(fiber.StatusNoContent)
}
