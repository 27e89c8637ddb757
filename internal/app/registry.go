package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-storefront/internal/auth"
	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/checkout"
	"go-storefront/internal/commerce"
	"go-storefront/internal/middleware"
	"go-storefront/internal/session"
)

func registerModules(router *gin.Engine, manager *session.Manager, catalogClient commerce.Client, logger *zap.Logger) {
	// --- Services ---
	catalogService := catalog.NewService(catalog.Deps{Client: catalogClient, Logger: logger})

	// --- Session resolvers ---
	cartFor := func(c *gin.Context) *cart.Store {
		return middleware.SessionFromContext(c).Cart
	}
	authFor := func(c *gin.Context) *auth.Store {
		return middleware.SessionFromContext(c).Auth
	}
	checkoutFor := func(c *gin.Context) (*checkout.Flow, *cart.Store) {
		sess := middleware.SessionFromContext(c)
		return sess.Checkout, sess.Cart
	}

	// --- Handlers ---
	cartHandler := cart.NewHandler(catalogService, cartFor)
	checkoutHandler := checkout.NewHandler(checkoutFor)
	authHandler := auth.NewHandler(authFor)
	catalogHandler := catalog.NewHandler(catalogService)

	// --- Middleware & Routes ---
	router.Use(middleware.RequestIDMiddleware())

	api := router.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(manager))
	{
		cart.RegisterRoutes(api, cartHandler)
		checkout.RegisterRoutes(api, checkoutHandler)
		auth.RegisterRoutes(api, authHandler)
		catalog.RegisterRoutes(api, catalogHandler)
	}
}
