package task

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pictora/server/internal/module/ledger"
	"github.com/pictora/server/internal/utils/metrics"
)

// InsufficientBalanceError rejects a submission before dispatch and
// carries the figures the client needs to top up.
type InsufficientBalanceError struct {
	CurrentBalance int64
	RequiredAmount int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.CurrentBalance, e.RequiredAmount)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ledger.ErrInsufficientBalance
}

var descriptions = map[TaskType]string{
	TypeImageToImage:      "AI image edit",
	TypeImageToVideo:      "AI image to video",
	TypeVideoEffect:       "AI video effect",
	TypeStyleRepaint:      "AI style repaint",
	TypeMultiImageCompose: "AI multi-image compose",
}

// Orchestrator runs the billing-gated dispatch sequence: validate,
// check balance, dispatch, then debit. The debit comes last so a
// vendor failure never charges the user.
type Orchestrator struct {
	ledger     ledger.Service
	dispatcher Dispatcher
	log        *zap.Logger
}

// NewOrchestrator creates the orchestrator.
func NewOrchestrator(ledgerSvc ledger.Service, dispatcher Dispatcher, log *zap.Logger) *Orchestrator {
	return &Orchestrator{ledger: ledgerSvc, dispatcher: dispatcher, log: log}
}

// Submit validates req, gates it on the user's balance, dispatches it
// and charges the price. A zero or negative price skips both the
// balance check and the debit. A debit failure after a successful
// dispatch is logged and swallowed: the vendor is already working, so
// the client still gets its task handle.
func (o *Orchestrator) Submit(ctx context.Context, req *Request) (*DispatchResult, error) {
	vr, err := Build(req)
	if err != nil {
		return nil, err
	}

	if req.Price > 0 {
		// Identity only matters once coins are at stake; free tasks
		// dispatch with or without a user id.
		if req.UserID == "" {
			return nil, ErrMissingUserID
		}
		ok, balance, err := o.ledger.CheckSufficient(ctx, req.UserID, req.Price)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InsufficientBalanceError{CurrentBalance: balance, RequiredAmount: req.Price}
		}
	}

	result, err := o.dispatcher.Dispatch(ctx, vr)
	if err != nil {
		return nil, err
	}

	if req.Price > 0 {
		o.debit(ctx, req, result)
	}
	return result, nil
}

func (o *Orchestrator) debit(ctx context.Context, req *Request, result *DispatchResult) {
	relatedID := result.TaskID
	if relatedID == "" {
		relatedID = result.RequestID
	}
	metadata := ledger.JSONMap{
		"task_type": string(req.TaskType),
		"prompt":    req.Prompt,
	}
	if result.TaskID != "" {
		metadata["task_id"] = result.TaskID
	}

	_, err := o.ledger.Debit(ctx, req.UserID, req.Price, descriptions[req.TaskType], relatedID, metadata)
	if err != nil {
		soft := &ledger.SoftError{UID: req.UserID, Amount: req.Price, Err: err}
		metrics.DebitFailuresTotal.Inc()
		o.log.Error("post-dispatch debit failed",
			zap.String("uid", req.UserID),
			zap.String("task_type", string(req.TaskType)),
			zap.String("task_id", result.TaskID),
			zap.Error(soft),
		)
		return
	}
	metrics.CoinsDebitedTotal.WithLabelValues(string(req.TaskType)).Add(float64(req.Price))
}

// IsValidationError reports whether err is one of the request
// validation sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidTaskType, ErrMissingPrompt, ErrMissingImages, ErrNotEnoughImages,
		ErrMissingStyleIndex, ErrMissingStyleRefURL, ErrMissingUserID,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
