package httptransport

import (
	"log/slog"

	"github.com/dkurmanbek/pet-adoption-api/internal/auth"
	"github.com/dkurmanbek/pet-adoption-api/internal/transport/http/handler"
	"github.com/dkurmanbek/pet-adoption-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, tokens *auth.TokenManager, authHandler *handler.AuthHandler, animalHandler *handler.AnimalHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/me", authMW, authHandler.Me)
	authGroup.POST("/adopt_animal/:user_id/:animal_id", authMW, authHandler.AdoptAnimal)
	authGroup.POST("/release_animal/:user_id/:animal_id", authMW, authHandler.ReleaseAnimal)

	animals := r.Group("/animals")
	animals.GET("", animalHandler.List)
	animals.GET("/:id", animalHandler.GetByID)
	animals.POST("", authMW, animalHandler.Create)
	animals.PATCH("/:id", authMW, animalHandler.Update)
	animals.DELETE("/:id", authMW, animalHandler.Delete)

	return r
}
