package routes

import (
	"Abuze/controllers"
	"Abuze/middleware"
	"Abuze/services/redis"
	"Abuze/services/steam"
	"Abuze/services/storage"
	utils "Abuze/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	blobs *storage.Store, steamClient *steam.Client) {

	// utils global
	router.Use(utils.RequestLogger())
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Uploaded blobs (avatars, post images)
	router.Static("/files", blobs.Root())

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/users", controllers.SearchUsers(db))

	api.GET("/users/:username", controllers.GetUserPublicInfo(db))

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.PATCH("/me", controllers.UpdateUserInfo(db))

		authentication.POST("/me/avatar", controllers.UploadAvatar(db, blobs))

		authentication.POST("/me/steam", controllers.LinkSteam(db, steamClient))

		authentication.POST("/me/steam/refresh", controllers.RefreshSteamHours(db, steamClient))

		authentication.GET("/friends", controllers.ListFriends(db, redisClient))

		authentication.POST("/friends/requests", controllers.SendFriendRequest(db))

		authentication.GET("/friends/requests", controllers.GetFriendRequests(db))

		authentication.POST("/friends/requests/:id/accept", controllers.AcceptFriendRequest(db))

		authentication.DELETE("/friends/requests/:id", controllers.DeclineFriendRequest(db))

		authentication.GET("/messages/:username", controllers.GetConversation(db))

		authentication.POST("/posts", controllers.CreatePost(db, blobs))

		authentication.GET("/posts", controllers.ListPosts(db))

		authentication.POST("/posts/:id/like", controllers.LikePost(db))

		authentication.POST("/posts/:id/comments", controllers.CommentPost(db))

		authentication.GET("/posts/:id/comments", controllers.ListComments(db))
	}
}
