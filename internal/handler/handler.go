package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatgate/chatgate/internal/config"
	"github.com/chatgate/chatgate/internal/database"
	"github.com/chatgate/chatgate/internal/logger"
	"github.com/chatgate/chatgate/internal/model"
	"github.com/chatgate/chatgate/internal/service"
)

// SecurityService is the gate surface the handlers depend on
type SecurityService interface {
	Enable(ctx context.Context, userID, password string, hint *string, meta service.RequestMeta) error
	Verify(ctx context.Context, userID, password string, meta service.RequestMeta) (*service.VerifyResult, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string, meta service.RequestMeta) error
	Disable(ctx context.Context, userID, password string, meta service.RequestMeta) error
	Status(ctx context.Context, userID string) (*model.SecurityProfile, error)
	Log(ctx context.Context, userID string, limit, offset int) ([]model.SecurityEvent, error)
}

// Handler holds all HTTP handlers
type Handler struct {
	db          *database.Postgres
	rdb         *database.Redis
	log         *logger.Logger
	cfg         *config.Config
	securitySvc SecurityService
}

// New creates a new Handler instance
func New(db *database.Postgres, rdb *database.Redis, log *logger.Logger, cfg *config.Config, securitySvc SecurityService) *Handler {
	return &Handler{
		db:          db,
		rdb:         rdb,
		log:         log,
		cfg:         cfg,
		securitySvc: securitySvc,
	}
}

// JSON helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

