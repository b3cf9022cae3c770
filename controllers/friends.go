package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	models "Abuze/models/postgres"
	apperr "Abuze/pkg/errors"
	"Abuze/services/friends"
	"Abuze/services/progression"
	"Abuze/services/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Send a friend request
// @Description Creates a pending request to another user. At most one live request may exist per pair, in either direction.
// @Tags friends
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Recipient username"
// @Success 200 {object} object{message=string,request_id=int}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/friends/requests [post]
// @Security ApiKeyAuth
func SendFriendRequest(db *gorm.DB) gin.HandlerFunc {
	svc := friends.New(friends.NewPostgresStore(db))
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		recipient := strings.TrimSpace(c.PostForm("username"))
		if recipient == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient username is required"})
			return
		}

		var target models.Profile
		if err := db.Where("username = ?", recipient).First(&target).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		req, err := svc.SendRequest(c.Request.Context(), user.ProfileUsername, target.Username)
		if err != nil {
			switch {
			case errors.Is(err, friends.ErrSelfRequest):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, friends.ErrDuplicateRequest):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending friend request"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend request sent", "request_id": req.ID})
	}
}

// @Summary List incoming friend requests
// @Description Pending requests addressed to the authenticated user, with each sender's public card
// @Tags friends
// @Produce json
// @Success 200 {object} object{requests=[]object}
// @Router /auth/friends/requests [get]
// @Security ApiKeyAuth
func GetFriendRequests(db *gorm.DB) gin.HandlerFunc {
	svc := friends.New(friends.NewPostgresStore(db))
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		pending, err := svc.Incoming(c.Request.Context(), user.ProfileUsername)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing friend requests"})
			return
		}

		results := make([]gin.H, 0, len(pending))
		for i := range pending {
			results = append(results, gin.H{
				"id":         pending[i].ID,
				"created_at": pending[i].CreatedAt,
				"sender":     profileView(&pending[i].SenderProfile),
			})
		}
		c.JSON(http.StatusOK, gin.H{"requests": results})
	}
}

// @Summary Accept a friend request
// @Description Accepts a pending request addressed to the authenticated user
// @Tags friends
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/requests/{id}/accept [post]
// @Security ApiKeyAuth
func AcceptFriendRequest(db *gorm.DB) gin.HandlerFunc {
	svc := friends.New(friends.NewPostgresStore(db))
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		id, ok := requestIDOwnedBy(c, db, user.ProfileUsername)
		if !ok {
			return
		}

		if err := svc.Accept(c.Request.Context(), id); err != nil {
			respondFriendRequestErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
	}
}

// @Summary Decline a friend request
// @Description Deletes a pending request addressed to the authenticated user. The pair may send again later.
// @Tags friends
// @Produce json
// @Param id path int true "Request id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/requests/{id} [delete]
// @Security ApiKeyAuth
func DeclineFriendRequest(db *gorm.DB) gin.HandlerFunc {
	svc := friends.New(friends.NewPostgresStore(db))
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		id, ok := requestIDOwnedBy(c, db, user.ProfileUsername)
		if !ok {
			return
		}

		if err := svc.Decline(c.Request.Context(), id); err != nil {
			respondFriendRequestErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Friend request declined"})
	}
}

// @Summary List friends
// @Description The authenticated user's friends with level, frame tier and live online status
// @Tags friends
// @Produce json
// @Success 200 {object} object{friends=[]object}
// @Router /auth/friends [get]
// @Security ApiKeyAuth
func ListFriends(db *gorm.DB, redisClient *redis.RedisClient) gin.HandlerFunc {
	svc := friends.New(friends.NewPostgresStore(db))
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		list, err := svc.Friends(c.Request.Context(), user.ProfileUsername)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing friends"})
			return
		}

		results := make([]gin.H, 0, len(list))
		for i := range list {
			online, err := redisClient.IsOnline(list[i].Username)
			if err != nil {
				online = false
			}
			info := progression.LevelInfo(list[i].XP)
			results = append(results, gin.H{
				"username":   list[i].Username,
				"avatar_url": list[i].AvatarURL,
				"level":      info.Level,
				"frame_tier": progression.FrameTier(info.Level),
				"verified":   list[i].Verified,
				"online":     online,
			})
		}
		c.JSON(http.StatusOK, gin.H{"friends": results})
	}
}

// requestIDOwnedBy parses the :id param and checks the request is addressed
// to username. Writes the error response itself on failure.
func requestIDOwnedBy(c *gin.Context, db *gorm.DB, username string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return 0, false
	}
	id := uint(raw)

	var req models.FriendRequest
	if err := db.First(&req, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found"})
		return 0, false
	}
	if req.Recipient != username {
		c.JSON(http.StatusForbidden, gin.H{"error": "This request is not addressed to you"})
		return 0, false
	}
	return id, true
}

func respondFriendRequestErr(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) && appErr.Code == apperr.ErrCodeNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating friend request"})
}
