package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	models "Abuze/models/postgres"
	"Abuze/services/progression"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// profileView is the public shape of a profile. Level, progress and frame
// tier are derived from stored XP on every read, never persisted.
func profileView(p *models.Profile) gin.H {
	info := progression.LevelInfo(p.XP)

	var killers []string
	if len(p.FavoriteKillers) > 0 {
		_ = json.Unmarshal(p.FavoriteKillers, &killers)
	}

	return gin.H{
		"username":         p.Username,
		"avatar_url":       p.AvatarURL,
		"xp":               p.XP,
		"level":            info.Level,
		"level_progress":   info.Progress,
		"frame_tier":       progression.FrameTier(info.Level),
		"role":             p.Role,
		"verified":         p.Verified,
		"steam_hours":      p.SteamHours,
		"favorite_killers": killers,
		"member_since":     p.CreatedAt,
	}
}

// @Summary Get a public profile
// @Description Returns the public profile of any user, with level and frame tier computed from XP
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{profile=object}
// @Failure 404 {object} object{error=string}
// @Router /users/{username} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")

		var profile models.Profile
		if err := db.Where("username = ?", username).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"profile": profileView(&profile)})
	}
}

// @Summary Search users
// @Description Case-insensitive substring search over usernames
// @Tags users
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} object{users=[]object}
// @Failure 400 {object} object{error=string}
// @Router /users [get]
func SearchUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		term := strings.TrimSpace(c.Query("q"))
		if term == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Search term can't be empty"})
			return
		}

		var profiles []models.Profile
		if err := db.Where("username ILIKE ?", "%"+term+"%").
			Order("username ASC").Limit(25).Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching users"})
			return
		}

		results := make([]gin.H, 0, len(profiles))
		for i := range profiles {
			info := progression.LevelInfo(profiles[i].XP)
			results = append(results, gin.H{
				"username":   profiles[i].Username,
				"avatar_url": profiles[i].AvatarURL,
				"level":      info.Level,
				"frame_tier": progression.FrameTier(info.Level),
				"verified":   profiles[i].Verified,
			})
		}
		c.JSON(http.StatusOK, gin.H{"users": results})
	}
}
