package cart

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	carts := r.Group("/cart")
	{
		carts.GET("", handler.Detail)
		carts.DELETE("", handler.Clear)

		carts.POST("/items", handler.AddItem)
		carts.PATCH("/items/:itemId", handler.UpdateQuantity)
		carts.DELETE("/items/:itemId", handler.RemoveItem)

		carts.POST("/promo", handler.ApplyPromo)
		carts.DELETE("/promo", handler.RemovePromo)
	}
}
