package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db    *sql.DB
	mongo *mongo.Client // nil when Mongo is not configured
}

func NewHealthHandler(db *sql.DB, mongoClient *mongo.Client) *HealthHandler {
	return &HealthHandler{db: db, mongo: mongoClient}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok"}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if h.mongo != nil {
		status["mongo"] = "ok"
		if err := h.mongo.Ping(ctx, nil); err != nil {
			status["mongo"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, status)
}
