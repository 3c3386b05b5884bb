package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DBPinger probes a gorm connection.
type DBPinger struct {
	DB *gorm.DB
}

func (p DBPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// HealthCheck pings every dependency. "db" is required; any other failing
// dependency only marks the service degraded.
func HealthCheck(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		response := gin.H{
			"status":  "ok",
			"message": "Service is healthy",
		}
		code := http.StatusOK

		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				response[name] = "error: " + err.Error()
				if name == "db" {
					response["status"] = "error"
					response["message"] = "Database is unreachable"
					code = http.StatusInternalServerError
				} else if code == http.StatusOK {
					response["status"] = "degraded"
				}
				continue
			}
			response[name] = "ok"
		}

		c.JSON(code, response)
	}
}
