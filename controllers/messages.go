package controllers

import (
	"net/http"

	"Abuze/services/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Get conversation history
// @Description All messages between the authenticated user and another user, oldest first. Live delivery happens over the socket; this is the initial load.
// @Tags messages
// @Produce json
// @Param username path string true "Conversation partner"
// @Success 200 {object} object{messages=[]object}
// @Failure 401 {object} object{error=string}
// @Router /auth/messages/{username} [get]
// @Security ApiKeyAuth
func GetConversation(db *gorm.DB) gin.HandlerFunc {
	store := chat.NewPostgresStore(db, nil)
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		peer := c.Param("username")
		history, err := store.History(c.Request.Context(), user.ProfileUsername, peer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching messages"})
			return
		}

		results := make([]gin.H, 0, len(history))
		for _, msg := range history {
			results = append(results, gin.H{
				"id":        msg.ID,
				"sender":    msg.Sender,
				"recipient": msg.Recipient,
				"body":      msg.Body,
				"sent_at":   msg.SentAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"messages": results})
	}
}
