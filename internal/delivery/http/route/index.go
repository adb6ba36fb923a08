package route

import (
	"database/sql"

	"barter-market/internal/config"
	httpHandler "barter-market/internal/delivery/http/handler"
	"barter-market/internal/delivery/http/middleware"
	mongorepo "barter-market/internal/repository/mongodb"
	repo "barter-market/internal/repository/postgresql"
	service "barter-market/internal/service/postgresql"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Deps struct {
	DB      *sql.DB
	Dialect repo.Dialect

	// Mongo is optional. LogRepo, when set, is used instead of building one
	// from Mongo.
	Mongo   *mongo.Client
	MongoDB string
	LogRepo mongorepo.LogRepository

	JWT    config.JWTConfig
	Logger *zap.Logger
}

func SetupRoute(app *gin.Engine, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logRepo := deps.LogRepo
	if logRepo == nil && deps.Mongo != nil {
		logRepo = mongorepo.NewLogRepository(deps.Mongo, deps.MongoDB)
	}
	if logRepo == nil {
		logger.Warn("mongo not configured; proposal history and notifications are disabled")
	}

	userRepo := repo.NewUserRepository(deps.DB, deps.Dialect)
	adRepo := repo.NewAdRepository(deps.DB, deps.Dialect)
	proposalRepo := repo.NewProposalRepository(deps.DB, deps.Dialect)

	authService := service.NewAuthService(userRepo, deps.JWT)
	adService := service.NewAdService(adRepo)
	proposalService := service.NewProposalService(proposalRepo, adRepo, logRepo, logger.Named("proposals"))

	authHandler := httpHandler.NewAuthHandler(authService)
	adHandler := httpHandler.NewAdHandler(adService)
	proposalHandler := httpHandler.NewProposalHandler(proposalService)
	healthHandler := httpHandler.NewHealthHandler(deps.DB, deps.Mongo)

	requireAuth := middleware.AuthRequired(deps.JWT, userRepo)

	app.GET("/healthz", healthHandler.Check)

	auth := app.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", requireAuth, authHandler.Profile)

	app.GET("/", adHandler.List)

	authed := app.Group("/", requireAuth)
	authed.GET("/create/", adHandler.CreateForm)
	authed.POST("/create/", adHandler.Create)
	authed.GET("/ad/:id/edit/", adHandler.EditForm)
	authed.POST("/ad/:id/edit/", adHandler.Update)
	authed.GET("/ad/:id/delete/", adHandler.DeleteConfirm)
	authed.POST("/ad/:id/delete/", adHandler.Delete)
	authed.GET("/ad/:id/propose/", proposalHandler.ProposeForm)
	authed.POST("/ad/:id/propose/", proposalHandler.Propose)
	authed.GET("/proposals/", proposalHandler.List)
	authed.POST("/proposals/:id/status/:status/", proposalHandler.UpdateStatus)
}
