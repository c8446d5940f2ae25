package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/response"
)

// Handler serves balance and transaction endpoints.
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler creates a ledger handler.
func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrMissingUserID, Status: http.StatusBadRequest, Code: "MISSING_USER_ID"},
	{Err: ErrUserNotFound, Status: http.StatusNotFound, Code: "USER_NOT_FOUND"},
	{Err: ErrInvalidAmount, Status: http.StatusBadRequest, Code: "INVALID_AMOUNT"},
	{Err: ErrInsufficientBalance, Status: http.StatusPaymentRequired, Code: "INSUFFICIENT_BALANCE"},
}

// GetBalance handles GET /users/:uid/balance.
func (h *Handler) GetBalance(c *gin.Context) {
	uid := c.Param("uid")
	balance, err := h.svc.GetBalance(c.Request.Context(), uid)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Success(c, BalanceResponse{UID: uid, Balance: balance})
}

// ListTransactions handles GET /users/:uid/transactions.
func (h *Handler) ListTransactions(c *gin.Context) {
	uid := c.Param("uid")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, total, err := h.svc.ListTransactions(c.Request.Context(), uid, limit, offset)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}

	items := make([]TransactionItem, 0, len(entries))
	for _, t := range entries {
		items = append(items, toTransactionItem(t))
	}
	response.Success(c, TransactionListResponse{
		Items:   items,
		Total:   total,
		HasMore: int64(offset+len(items)) < total,
	})
}

// Credit handles POST /admin/transactions.
func (h *Handler) Credit(c *gin.Context) {
	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	txType := req.Type
	switch txType {
	case "":
		txType = TypeBonus
	case TypePurchase, TypeRefund, TypeBonus:
	default:
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "unsupported transaction type")
		return
	}

	entry, err := h.svc.Credit(c.Request.Context(), req.UID, req.Amount, txType, req.Description, req.RelatedID, nil)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Created(c, toTransactionItem(*entry))
}
