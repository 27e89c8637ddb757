package checkout

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	co := r.Group("/checkout")
	{
		co.GET("", handler.Detail)
		co.PUT("/address", handler.UpdateAddress)
		co.POST("/address/submit", handler.SubmitAddress)
		co.GET("/shipping-rates", handler.ShippingRates)
		co.POST("/shipping-rate", handler.SelectRate)
		co.POST("/tax", handler.CalculateTax)
		co.POST("/step", handler.GoToStep)
		co.POST("/back", handler.GoBack)
		co.POST("/order", handler.SubmitOrder)
		co.POST("/reset", handler.Reset)
	}
}
