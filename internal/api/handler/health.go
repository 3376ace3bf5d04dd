package handler

import (
	"net/http"

	"github.com/Rohangit/ilab-test/internal/api/response"
	"github.com/Rohangit/ilab-test/internal/repository/postgres"
	"github.com/Rohangit/ilab-test/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store connectivity
func ReadyCheck(db *postgres.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "redis not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
