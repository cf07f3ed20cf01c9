package handlers

import (
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/internal/apperrors"
	"github.com/Henrique-Moreno/sistema-de-veiculos-matheus/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps an application error onto its HTTP status. Persistence
// failures are logged with their cause but surfaced generically.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindPersistence && logger.Log != nil {
		logger.Log.Error("operation failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr),
		)
	}
	c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
}
