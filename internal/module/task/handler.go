package task

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/module/ledger"
	"github.com/pictora/server/internal/shared/response"
	"github.com/pictora/server/internal/utils/requestctx"
)

// Handler serves task submission and status endpoints.
type Handler struct {
	orchestrator *Orchestrator
	poller       Poller
	log          *zap.Logger
}

// NewHandler creates a task handler.
func NewHandler(orchestrator *Orchestrator, poller Poller, log *zap.Logger) *Handler {
	return &Handler{orchestrator: orchestrator, poller: poller, log: log}
}

var validationCodes = map[error]string{
	ErrMissingUserID:      "MISSING_USER_ID",
	ErrInvalidTaskType:    "INVALID_TASK_TYPE",
	ErrMissingPrompt:      "MISSING_PROMPT",
	ErrMissingImages:      "MISSING_IMAGES",
	ErrNotEnoughImages:    "MISSING_IMAGES",
	ErrMissingStyleIndex:  "MISSING_STYLE_INDEX",
	ErrMissingStyleRefURL: "MISSING_STYLE_REF_URL",
}

// CreateTask handles POST /tasks.
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = requestctx.UserID(c.Request.Context())
	}

	result, err := h.orchestrator.Submit(c.Request.Context(), req.normalize())
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	if result.TaskID != "" {
		response.Success(c, AsyncTaskResponse{
			TaskID:    result.TaskID,
			RequestID: result.RequestID,
			Message:   "task created",
		})
		return
	}
	response.Success(c, SyncTaskResponse{
		ResultURL:    result.ResultURL,
		ResponseData: result.Raw,
		Message:      "task completed",
	})
}

func (h *Handler) writeSubmitError(c *gin.Context, err error) {
	for sentinel, code := range validationCodes {
		if errors.Is(err, sentinel) {
			response.Fail(c, http.StatusBadRequest, code, err.Error())
			return
		}
	}

	var shortfall *InsufficientBalanceError
	if errors.As(err, &shortfall) {
		response.FailWithData(c, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE", err.Error(),
			BalanceShortfall{
				CurrentBalance: shortfall.CurrentBalance,
				RequiredAmount: shortfall.RequiredAmount,
			})
		return
	}
	if errors.Is(err, ledger.ErrUserNotFound) {
		response.Fail(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
		return
	}
	if errors.Is(err, ErrMissingAPIKey) {
		response.Fail(c, http.StatusInternalServerError, "MISSING_API_KEY", err.Error())
		return
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		response.Fail(c, http.StatusServiceUnavailable, "VENDOR_UNAVAILABLE", "vendor temporarily unavailable")
		return
	}
	if ve, ok := IsVendorError(err); ok {
		msg := ve.Message
		if msg == "" {
			msg = "vendor request failed"
		}
		response.Fail(c, http.StatusBadGateway, "VENDOR_ERROR", msg)
		return
	}

	h.log.Error("task submission failed", zap.Error(err))
	response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// QueryTask handles GET /tasks/:id. The same handler backs the authed
// and the tokenless route; a status query neither charges nor mutates.
func (h *Handler) QueryTask(c *gin.Context) {
	result, err := h.poller.Query(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingTaskID):
			response.Fail(c, http.StatusBadRequest, "MISSING_TASK_ID", err.Error())
		case errors.Is(err, ErrMissingAPIKey):
			response.Fail(c, http.StatusInternalServerError, "MISSING_API_KEY", err.Error())
		default:
			if ve, ok := IsVendorError(err); ok && ve.StatusCode == http.StatusNotFound {
				response.Fail(c, http.StatusNotFound, "TASK_NOT_FOUND", "task not found")
				return
			}
			h.log.Error("task query failed", zap.String("task_id", c.Param("id")), zap.Error(err))
			response.Fail(c, http.StatusBadGateway, "VENDOR_ERROR", "vendor request failed")
		}
		return
	}
	response.Success(c, result)
}
