package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	models "Abuze/models/postgres"
	"Abuze/services/steam"
	"Abuze/services/storage"
	"Abuze/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 2 MiB is plenty for an avatar
const maxAvatarBytes = 2 << 20

// @Summary Get own profile
// @Description Returns the authenticated user's profile plus the account email
// @Tags profile
// @Produce json
// @Success 200 {object} object{email=string,profile=object}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetUserPrivateInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		var profile models.Profile
		if err := db.Where("username = ?", user.ProfileUsername).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"email":   user.Email,
			"profile": profileView(&profile),
		})
	}
}

type updateProfileRequest struct {
	FavoriteKillers *[]string `json:"favorite_killers"`
	Role            *string   `json:"role"`
	TargetUsername  string    `json:"username"`
}

// @Summary Update profile
// @Description Updates the favorite killers list. Admins may additionally change any profile's role.
// @Tags profile
// @Accept json
// @Produce json
// @Success 200 {object} object{profile=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/me [patch]
// @Security ApiKeyAuth
func UpdateUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		var own models.Profile
		if err := db.Where("username = ?", user.ProfileUsername).First(&own).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}

		target := &own
		if req.TargetUsername != "" && req.TargetUsername != own.Username {
			if own.Role != models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can edit other profiles"})
				return
			}
			var other models.Profile
			if err := db.Where("username = ?", req.TargetUsername).First(&other).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			target = &other
		}

		updates := map[string]interface{}{}

		if req.FavoriteKillers != nil {
			killers := make([]string, 0, len(*req.FavoriteKillers))
			for _, k := range *req.FavoriteKillers {
				if clean := utils.CleanText(k); clean != "" {
					killers = append(killers, clean)
				}
			}
			raw, err := json.Marshal(killers)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error encoding killers list"})
				return
			}
			updates["favorite_killers"] = datatypes.JSON(raw)
		}

		if req.Role != nil {
			if own.Role != models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can change roles"})
				return
			}
			role := *req.Role
			if role != models.RoleStandard && role != models.RoleBeta && role != models.RoleAdmin {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
				return
			}
			updates["role"] = role
		}

		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}

		if err := db.Model(&models.Profile{}).Where("username = ?", target.Username).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}

		var updated models.Profile
		db.Where("username = ?", target.Username).First(&updated)
		c.JSON(http.StatusOK, gin.H{"profile": profileView(&updated)})
	}
}

// @Summary Upload avatar
// @Description Stores the uploaded image and points the profile's avatar at its public URL
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} object{avatar_url=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/me/avatar [post]
// @Security ApiKeyAuth
func UploadAvatar(db *gorm.DB, blobs *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
			return
		}
		if file.Size > maxAvatarBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar is too large"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error reading upload"})
			return
		}
		defer src.Close()

		url, err := blobs.Save(storage.BucketAvatars, file.Filename, src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error storing avatar"})
			return
		}

		if err := db.Model(&models.Profile{}).Where("username = ?", user.ProfileUsername).
			UpdateColumn("avatar_url", url).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"avatar_url": url})
	}
}

// @Summary Link Steam account
// @Description Stores the Steam ID, fetches Dead by Daylight hours and marks the profile verified
// @Tags profile
// @Accept x-www-form-urlencoded
// @Produce json
// @Param steam_id formData string true "SteamID64"
// @Success 200 {object} object{steam_hours=int,verified=bool}
// @Failure 400 {object} object{error=string}
// @Router /auth/me/steam [post]
// @Security ApiKeyAuth
func LinkSteam(db *gorm.DB, steamClient *steam.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		steamID := strings.TrimSpace(c.PostForm("steam_id"))
		if steamID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "steam_id is required"})
			return
		}

		hours, err := steamClient.Hours(c.Request.Context(), steamID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the Steam API"})
			return
		}

		updates := map[string]interface{}{
			"steam_id":    steamID,
			"steam_hours": hours,
			"verified":    true,
		}
		if err := db.Model(&models.Profile{}).Where("username = ?", user.ProfileUsername).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"steam_hours": hours, "verified": true})
	}
}

// @Summary Refresh Steam hours
// @Description Re-fetches Dead by Daylight hours for an already linked account
// @Tags profile
// @Produce json
// @Success 200 {object} object{steam_hours=int}
// @Failure 400 {object} object{error=string}
// @Router /auth/me/steam/refresh [post]
// @Security ApiKeyAuth
func RefreshSteamHours(db *gorm.DB, steamClient *steam.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthUser(c, db)
		if !ok {
			return
		}

		var profile models.Profile
		if err := db.Where("username = ?", user.ProfileUsername).First(&profile).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		if profile.SteamID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No Steam account linked"})
			return
		}

		hours, err := steamClient.Hours(c.Request.Context(), profile.SteamID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the Steam API"})
			return
		}

		if err := db.Model(&models.Profile{}).Where("username = ?", profile.Username).
			UpdateColumn("steam_hours", hours).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"steam_hours": hours})
	}
}
