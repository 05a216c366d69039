package handlers

import (
	"log"

	"microblog/cache"
	"microblog/database"
	"microblog/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
	PostID  *uint  `json:"postId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// GetAllComments handles GET /comments with an optional postId filter.
// Author fields come from the live User relation, falling back to
// placeholders when the user cannot be resolved.
func GetAllComments(c *fiber.Ctx) error {
	var comments []models.Comment

	query := database.DB.Preload("User")
	if postID := c.Query("postId"); postID != "" {
		query = query.Where("post_id = ?", postID)
	}

	if err := query.Find(&comments).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to fetch comments", err))
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		view := models.CommentView{
			ID:        comment.ID,
			Content:   comment.Content,
			PostID:    comment.PostID,
			CreatedAt: comment.CreatedAt,
			Username:  "Anonymous",
			Email:     "No Email",
		}
		if comment.User.ID != 0 {
			view.Username = comment.User.Username
			view.Email = comment.User.Email
		}
		views = append(views, view)
	}

	return c.JSON(views)
}

// GetComment handles GET /comments/:id
func GetComment(c *fiber.Ctx) error {
	id := c.Params("id")

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", id).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Comment"))
	}

	return c.JSON(comment)
}

// CreateComment handles POST /comments. The comment snapshots the
// author's current username/email so list views don't need a join.
func CreateComment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c,
			models.NewValidationError("Missing required fields"))
	}

	req := new(CreateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if req.Content == "" || req.PostID == nil {
		return models.RespondWithError(c,
			models.NewValidationError("Missing required fields"))
	}

	var post models.Post
	if err := database.DB.First(&post, *req.PostID).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Post"))
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("User"))
	}

	comment := models.Comment{
		Content:  req.Content,
		PostID:   post.ID,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to create comment", err))
	}

	// Load user data for the response. The comment already carries the
	// username/email snapshot, so a failed reload only costs the nested
	// user object.
	if err := database.DB.Preload("User").First(&comment, comment.ID).Error; err != nil {
		log.Printf("Failed to reload comment %d with user: %v", comment.ID, err)
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /comments/:id. Comments carry no ownership
// check: any authenticated caller may edit any comment.
func UpdateComment(c *fiber.Ctx) error {
	id := c.Params("id")

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", id).Error; err != nil {
		return models.RespondWithError(c, models.NewNotFoundError("Comment"))
	}

	req := new(UpdateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	if req.Content == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Content is required"))
	}

	comment.Content = req.Content
	if err := database.DB.Save(&comment).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to update comment", err))
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.JSON(comment)
}

// DeleteComment handles DELETE /comments/:id. No ownership check, and
// deleting an absent comment is a no-op.
func DeleteComment(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := database.DB.Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete comment", err))
	}

	cache.Invalidate(c.Context(), postsCacheKey)

	return c.SendStatus(fiber.StatusNoContent)
}
