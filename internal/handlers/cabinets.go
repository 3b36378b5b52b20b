package handlers

import (
	"context"
	"net/http"
	"strconv"

	"arcqueue/internal/cabinets"
	"arcqueue/internal/middleware"
	"arcqueue/internal/models"
	"arcqueue/internal/queue"
	"arcqueue/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type queueService interface {
	Join(ctx context.Context, cabinetID uuid.UUID, name string) error
	Leave(ctx context.Context, cabinetID uuid.UUID, name string) error
	Advance(ctx context.Context, cabinetID uuid.UUID, n int) ([]models.QueueEntry, error)
	Postpone(ctx context.Context, cabinetID uuid.UUID, name string) error
	ListQueue(ctx context.Context, cabinetID uuid.UUID) ([]models.QueueEntry, error)
	ListUpcoming(ctx context.Context, cabinetID uuid.UUID, n int) ([]models.QueueEntry, error)
	QueueStats(ctx context.Context, cabinetID uuid.UUID) (queue.Stats, error)
}

type gameDirectory interface {
	Game(ctx context.Context, id uuid.UUID) (models.Game, error)
}

type CabinetHandler struct {
	queue     queueService
	directory gameDirectory
	logger    *logrus.Logger
}

func NewCabinetHandler(queue queueService, directory gameDirectory, logger *logrus.Logger) *CabinetHandler {
	return &CabinetHandler{
		queue:     queue,
		directory: directory,
		logger:    logger,
	}
}

type NameRequest struct {
	Name string `json:"name" form:"name" binding:"required" example:"alice"`
}

type NextRequest struct {
	N int `json:"n" form:"n" example:"2"`
}

// Cabinet godoc
// @Summary		Cabinet info
// @Description	Returns the cabinet record
// @Tags			cabinets
// @Produce		json
// @Param			cabinet_id	path		string	true	"Cabinet UUID"
// @Success		200			{object}	response.Envelope
// @Failure		400			{object}	response.ErrorResponse	"INVALID_CABINET_ID"
// @Failure		404			{object}	response.ErrorResponse	"CABINET_NOT_FOUND"
// @Router			/v1/cabinets/{cabinet_id} [get]
func (h *CabinetHandler) Cabinet(c *gin.Context) {
	cabinet := c.MustGet(middleware.CabinetKey).(models.Cabinet)
	c.JSON(http.StatusOK, response.Success(cabinet))
}

// Info godoc
// @Summary		Cabinet game
// @Description	Returns the game installed in the cabinet
// @Tags			cabinets
// @Produce		json
// @Param			cabinet_id	path		string	true	"Cabinet UUID"
// @Success		200			{object}	response.Envelope
// @Failure		404			{object}	response.ErrorResponse	"CABINET_NOT_FOUND"
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/info [get]
func (h *CabinetHandler) Info(c *gin.Context) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	game, err := h.directory.Game(c.Request.Context(), cabinetID)
	if err != nil {
		if errors.Is(err, cabinets.ErrCabinetNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "GAME_NOT_FOUND",
				Message: "game not found",
			})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(game))
}

// Players godoc
// @Summary		Queue of a cabinet
// @Description	Lists every waiting player in serving order
// @Tags			queue
// @Produce		json
// @Param			cabinet_id	path		string	true	"Cabinet UUID"
// @Success		200			{object}	response.PlayersResponse
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/players [get]
func (h *CabinetHandler) Players(c *gin.Context) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	entries, err := h.queue.ListQueue(c.Request.Context(), cabinetID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(players(entries)))
}

// Upcoming godoc
// @Summary		Upcoming players
// @Description	Lists the next n players without removing them
// @Tags			queue
// @Produce		json
// @Param			cabinet_id	path		string	true	"Cabinet UUID"
// @Param			n			query		int		true	"Number of players"
// @Success		200			{object}	response.PlayersResponse
// @Failure		400			{object}	response.ErrorResponse	"INVALID_ARGUMENT"
// @Router			/v1/cabinets/{cabinet_id}/upcoming [get]
func (h *CabinetHandler) Upcoming(c *gin.Context) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	n, err := strconv.Atoi(c.Query("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    queue.KindInvalidArgument,
			Message: "query parameter n must be an integer",
			Details: err.Error(),
		})
		return
	}

	entries, err := h.queue.ListUpcoming(c.Request.Context(), cabinetID, n)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(players(entries)))
}

// Stats godoc
// @Summary		Queue statistics
// @Description	Current queue length and number of players served so far
// @Tags			queue
// @Produce		json
// @Param			cabinet_id	path		string	true	"Cabinet UUID"
// @Success		200			{object}	response.Envelope
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/stats [get]
func (h *CabinetHandler) Stats(c *gin.Context) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	stats, err := h.queue.QueueStats(c.Request.Context(), cabinetID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(stats))
}

// Next godoc
// @Summary		Serve next players
// @Description	Removes the next n players from the queue and returns them
// @Tags			queue
// @Accept			json,x-www-form-urlencoded
// @Produce		json
// @Param			cabinet_id	path		string		true	"Cabinet UUID"
// @Param			request		body		NextRequest	true	"Number of players to serve"
// @Success		200			{object}	response.PlayersResponse
// @Failure		400			{object}	response.ErrorResponse	"INVALID_ARGUMENT, VALIDATION_ERROR"
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/next [post]
func (h *CabinetHandler) Next(c *gin.Context) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	var req NextRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalid(c, err)
		return
	}

	served, err := h.queue.Advance(c.Request.Context(), cabinetID, req.N)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(players(served)))
}

// Join godoc
// @Summary		Join the queue
// @Description	Appends a player to the tail of the cabinet's queue
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			cabinet_id	path		string		true	"Cabinet UUID"
// @Param			request		body		NameRequest	true	"Player name"
// @Success		200			{object}	response.Envelope
// @Failure		400			{object}	response.ErrorResponse	"ALREADY_QUEUED, VALIDATION_ERROR"
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/join [post]
func (h *CabinetHandler) Join(c *gin.Context) {
	h.byName(c, h.queue.Join)
}

// Leave godoc
// @Summary		Leave the queue
// @Description	Removes a player and moves everyone behind them up by one
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			cabinet_id	path		string		true	"Cabinet UUID"
// @Param			request		body		NameRequest	true	"Player name"
// @Success		200			{object}	response.Envelope
// @Failure		400			{object}	response.ErrorResponse	"NOT_QUEUED, VALIDATION_ERROR"
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/leave [delete]
func (h *CabinetHandler) Leave(c *gin.Context) {
	h.byName(c, h.queue.Leave)
}

// Postpone godoc
// @Summary		Postpone a turn
// @Description	Swaps a player with the one right behind them
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			cabinet_id	path		string		true	"Cabinet UUID"
// @Param			request		body		NameRequest	true	"Player name"
// @Success		200			{object}	response.Envelope
// @Failure		400			{object}	response.ErrorResponse	"NOT_QUEUED, ALREADY_LAST, VALIDATION_ERROR"
// @Failure		500			{object}	response.ErrorResponse	"INTERNAL"
// @Router			/v1/cabinets/{cabinet_id}/postpone [post]
func (h *CabinetHandler) Postpone(c *gin.Context) {
	h.byName(c, h.queue.Postpone)
}

func (h *CabinetHandler) byName(c *gin.Context, op func(ctx context.Context, cabinetID uuid.UUID, name string) error) {
	cabinetID := c.MustGet(middleware.CabinetIDKey).(uuid.UUID)

	var req NameRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalid(c, err)
		return
	}

	if err := op(c.Request.Context(), cabinetID, req.Name); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(nil))
}

func (h *CabinetHandler) invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "invalid request body",
		Details: err.Error(),
	})
}

// fail maps queue errors onto HTTP statuses. Precondition failures are the
// client's problem; everything else is logged and hidden behind a 5xx.
func (h *CabinetHandler) fail(c *gin.Context, err error) {
	kind := queue.KindOf(err)

	var status int
	switch kind {
	case queue.KindInvalidArgument, queue.KindAlreadyQueued, queue.KindNotQueued, queue.KindAlreadyLast:
		status = http.StatusBadRequest
	case queue.KindNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("queue operation failed")
		c.JSON(status, response.ErrorResponse{
			Code:    kind,
			Message: "an unspecified internal error occurred",
		})
		return
	}

	c.JSON(status, response.ErrorResponse{
		Code:    kind,
		Message: err.Error(),
	})
}

func players(entries []models.QueueEntry) []response.Player {
	out := make([]response.Player, 0, len(entries))
	for _, entry := range entries {
		out = append(out, response.Player{
			Position:     entry.Position,
			Name:         entry.Name,
			AssocCabinet: entry.CabinetID.String(),
			JoinedAt:     entry.JoinedAt,
		})
	}
	return out
}
