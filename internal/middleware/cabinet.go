package middleware

import (
	"context"
	"net/http"

	"arcqueue/internal/cabinets"
	"arcqueue/internal/models"
	"arcqueue/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	CabinetIDKey = "cabinetID"
	CabinetKey   = "cabinet"
)

type cabinetDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (models.Cabinet, error)
}

// ResolveCabinet parses the :cabinet_id path parameter and checks that the
// cabinet exists before any queue handler runs.
func ResolveCabinet(directory cabinetDirectory, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("cabinet_id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "INVALID_CABINET_ID",
				Message: "invalid cabinet identifier",
				Details: err.Error(),
			})
			return
		}

		cabinet, err := directory.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, cabinets.ErrCabinetNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, response.ErrorResponse{
					Code:    "CABINET_NOT_FOUND",
					Message: "cabinet not found",
				})
				return
			}
			logger.WithError(err).WithField("cabinet_id", id).Error("cabinet lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "INTERNAL",
				Message: "failed to look up cabinet",
			})
			return
		}

		c.Set(CabinetIDKey, id)
		c.Set(CabinetKey, cabinet)
		c.Next()
	}
}
