package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/configs"
	"github.com/RadicalxChange/lanna-edges/internal/httputil"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
)

// Depreciate triggers the decay job. Exposed as GET with a shared secret so
// an external scheduler can hit it with a plain request.
func (h *Handler) Depreciate(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(configs.AppConfig.Decay.Secret)) != 1 {
		httputil.WriteError(w, http.StatusForbidden, "unauthorized")
		return
	}

	count, err := h.decay.Run(r.Context())
	if err != nil {
		logger.Log.Error("depreciation failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, struct {
		Updated int64  `json:"updated"`
		Message string `json:"message"`
	}{
		Updated: count,
		Message: fmt.Sprintf("successfully updated value_creation for %d accounts", count),
	})
}
