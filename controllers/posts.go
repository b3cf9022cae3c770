package controllers

import (
	"net/http"
	"strconv"

	models "Abuze/models/postgres"
	"Abuze/pkg/logger"
	"Abuze/services/progression"
	"Abuze/services/storage"
	"Abuze/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxPostImageBytes = 5 << 20

// @Summary Create a post
// @Description Publishes a post with optional image. Posting grants the author XP.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param content formData string true "Post text"
// @Param image formData file false "Attached image"
// @Success 200 {object} object{post=object}
// @Failure 400 {object} object{error=string}
// @Router /auth/posts [post]
// @Security ApiKeyAuth
func CreatePost(db *gorm.DB, blobs *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		content := utils.CleanText(c.PostForm("content"))
		if content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Post content can't be empty"})
			return
		}

		var imageURL string
		if file, err := c.FormFile("image"); err == nil {
			if file.Size > maxPostImageBytes {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large"})
				return
			}
			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading upload"})
				return
			}
			defer src.Close()

			imageURL, err = blobs.Save(storage.BucketPostImages, file.Filename, src)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing image"})
				return
			}
		}

		post := models.Post{
			Author:   user.ProfileUsername,
			Content:  content,
			ImageURL: imageURL,
		}
		if err := db.Create(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post"})
			return
		}

		if err := progression.GrantXP(db, user.ProfileUsername, progression.XPPostCreated); err != nil {
			logger.Warn("xp grant failed after post creation",
				"username", user.ProfileUsername, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"post": gin.H{
			"id":         post.ID,
			"author":     post.Author,
			"content":    post.Content,
			"image_url":  post.ImageURL,
			"created_at": post.CreatedAt,
		}})
	}
}

// @Summary List posts
// @Description Newest-first feed with author cards and like/comment counts
// @Tags posts
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Success 200 {object} object{posts=[]object}
// @Router /auth/posts [get]
// @Security ApiKeyAuth
func ListPosts(db *gorm.DB) gin.HandlerFunc {
	const pageSize = 20
	return func(c *gin.Context) {
		if _, ok := getAuthUser(c, db); !ok {
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		var posts []models.Post
		if err := db.Preload("AuthorProfile").Preload("Likes").Preload("Comments").
			Order("created_at DESC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&posts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing posts"})
			return
		}

		results := make([]gin.H, 0, len(posts))
		for i := range posts {
			info := progression.LevelInfo(posts[i].AuthorProfile.XP)
			results = append(results, gin.H{
				"id":         posts[i].ID,
				"content":    posts[i].Content,
				"image_url":  posts[i].ImageURL,
				"created_at": posts[i].CreatedAt,
				"likes":      len(posts[i].Likes),
				"comments":   len(posts[i].Comments),
				"author": gin.H{
					"username":   posts[i].Author,
					"avatar_url": posts[i].AuthorProfile.AvatarURL,
					"level":      info.Level,
					"frame_tier": progression.FrameTier(info.Level),
				},
			})
		}
		c.JSON(http.StatusOK, gin.H{"posts": results})
	}
}

// @Summary Like a post
// @Description Likes a post once per user. The post's author is granted XP, but not for self-likes.
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/posts/{id}/like [post]
// @Security ApiKeyAuth
func LikePost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		post, ok := findPost(c, db)
		if !ok {
			return
		}

		like := models.PostLike{PostID: post.ID, Username: user.ProfileUsername}
		if err := db.Create(&like).Error; err != nil {
			// The composite primary key turns a second like into a conflict
			c.JSON(http.StatusConflict, gin.H{"error": "You already liked this post"})
			return
		}

		if post.Author != user.ProfileUsername {
			if err := progression.GrantXP(db, post.Author, progression.XPLikeReceived); err != nil {
				logger.Warn("xp grant failed after like",
					"username", post.Author, "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Post liked"})
	}
}

// @Summary Comment on a post
// @Description Adds a comment. The post's author is granted XP, but not for self-comments.
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post id"
// @Param body formData string true "Comment text"
// @Success 200 {object} object{comment=object}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/posts/{id}/comments [post]
// @Security ApiKeyAuth
func CommentPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		post, ok := findPost(c, db)
		if !ok {
			return
		}

		body := utils.CleanText(c.PostForm("body"))
		if body == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment can't be empty"})
			return
		}

		comment := models.PostComment{
			PostID: post.ID,
			Author: user.ProfileUsername,
			Body:   body,
		}
		if err := db.Create(&comment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating comment"})
			return
		}

		if post.Author != user.ProfileUsername {
			if err := progression.GrantXP(db, post.Author, progression.XPCommentReceived); err != nil {
				logger.Warn("xp grant failed after comment",
					"username", post.Author, "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"comment": gin.H{
			"id":         comment.ID,
			"post_id":    comment.PostID,
			"author":     comment.Author,
			"body":       comment.Body,
			"created_at": comment.CreatedAt,
		}})
	}
}

// @Summary List comments on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} object{comments=[]object}
// @Failure 404 {object} object{error=string}
// @Router /auth/posts/{id}/comments [get]
// @Security ApiKeyAuth
func ListComments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := getAuthUser(c, db); !ok {
			return
		}

		post, ok := findPost(c, db)
		if !ok {
			return
		}

		var comments []models.PostComment
		if err := db.Preload("AuthorProfile").Where("post_id = ?", post.ID).
			Order("created_at ASC").Find(&comments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing comments"})
			return
		}

		results := make([]gin.H, 0, len(comments))
		for i := range comments {
			results = append(results, gin.H{
				"id":         comments[i].ID,
				"author":     comments[i].Author,
				"avatar_url": comments[i].AuthorProfile.AvatarURL,
				"body":       comments[i].Body,
				"created_at": comments[i].CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"comments": results})
	}
}

func findPost(c *gin.Context, db *gorm.DB) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return nil, false
	}

	var post models.Post
	if err := db.First(&post, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return nil, false
	}
	return &post, true
}
