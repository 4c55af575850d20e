package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		api.GET("/listings", handler.GetListings)
		api.GET("/listings/:id", handler.GetListing)

		api.GET("/wishlist", handler.GetWishlist)
		api.POST("/wishlist", handler.AddToWishlist)
		api.DELETE("/wishlist/:id", handler.RemoveFromWishlist)

		api.POST("/session/login", handler.Login)
		api.POST("/session/logout", handler.Logout)

		api.POST("/notifications", handler.CreateNotification)
		api.POST("/devices", handler.RegisterDevice)

		api.POST("/admin/listings", handler.UpsertListings)
	}
}
