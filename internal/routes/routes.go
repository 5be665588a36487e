package routes

import (
	"github.com/deartime/deartime-backend/internal/handler"
	"github.com/deartime/deartime-backend/internal/middleware"
	"github.com/deartime/deartime-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	friendHandler *handler.FriendHandler,
	letterHandler *handler.LetterHandler,
	capsuleHandler *handler.CapsuleHandler,
	photoHandler *handler.PhotoHandler,
	albumHandler *handler.AlbumHandler,
	notificationHandler *handler.NotificationHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/nickname-check", authHandler.CheckNickname)

	// Current user (인증 필요)
	users := api.Group("/users", middleware.JWTAuth(jwtManager))
	users.GET("/me", authHandler.GetMe)
	users.PATCH("/me", authHandler.UpdateMe)

	// Relationship graph
	friends := api.Group("/friends", middleware.JWTAuth(jwtManager))
	{
		friends.POST("", friendHandler.SendRequest)
		friends.GET("", friendHandler.List)
		friends.GET("/search", friendHandler.Search)
		friends.GET("/proxies", friendHandler.ListProxies)

		// 상태 변경은 PUT 하나로 수락/거절/차단 분기
		friends.PUT("/:friendId", friendHandler.UpdateStatus)
		friends.DELETE("/:friendId", friendHandler.Unfriend)
		friends.GET("/:friendId/status", friendHandler.GetStatus)

		// Proxy delegation (친구에게만 위임 가능)
		friends.PUT("/:friendId/proxy", friendHandler.SetProxy)
		friends.DELETE("/:friendId/proxy", friendHandler.RemoveProxy)
	}

	// Letters
	letters := api.Group("/letters", middleware.JWTAuth(jwtManager))
	{
		letters.POST("", letterHandler.Send)
		letters.GET("/received", letterHandler.GetReceived)
		letters.GET("/sent", letterHandler.GetSent)
		letters.GET("/bookmarks", letterHandler.GetBookmarked)
		letters.GET("/conversation/:friendId", letterHandler.GetConversation)
		letters.GET("/:letterId", letterHandler.GetDetail)
		letters.POST("/:letterId/bookmark", letterHandler.ToggleBookmark)
		letters.DELETE("/:letterId", letterHandler.Delete)
	}

	// Time capsules
	capsules := api.Group("/capsules", middleware.JWTAuth(jwtManager))
	{
		capsules.POST("", capsuleHandler.Create)
		capsules.GET("", capsuleHandler.List)
		capsules.GET("/:capsuleId", capsuleHandler.Get)
		capsules.DELETE("/:capsuleId", capsuleHandler.Delete)
	}

	// Gallery photos
	photos := api.Group("/photos", middleware.JWTAuth(jwtManager))
	{
		photos.POST("", photoHandler.Upload)
		photos.GET("", photoHandler.List)
		photos.PUT("/:photoId/caption", photoHandler.UpdateCaption)
		photos.DELETE("/:photoId", photoHandler.Delete)
	}

	// Albums
	albums := api.Group("/albums", middleware.JWTAuth(jwtManager))
	{
		albums.POST("", albumHandler.Create)
		albums.GET("", albumHandler.List)
		albums.PUT("/:albumId/title", albumHandler.UpdateTitle)
		albums.DELETE("/:albumId", albumHandler.Delete)
		albums.POST("/:albumId/photos", albumHandler.AddPhotos)
		albums.GET("/:albumId/photos", albumHandler.ListPhotos)
		albums.DELETE("/:albumId/photos/:photoId", albumHandler.RemovePhoto)
	}

	// Notifications
	notifications := api.Group("/notifications", middleware.JWTAuth(jwtManager))
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.PUT("/:notificationId/read", notificationHandler.MarkAsRead)
	}
}
