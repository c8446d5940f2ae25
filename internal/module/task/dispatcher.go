package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/config"
	"github.com/pictora/server/internal/utils/metrics"
)

// Dispatcher submits a built vendor request upstream. One attempt, no
// retries; a failed dispatch is reported to the client as a vendor
// error and never charged.
type Dispatcher interface {
	Dispatch(ctx context.Context, vr *VendorRequest) (*DispatchResult, error)
}

// newHTTPClient tunes the transport for bursty outbound vendor calls.
// Per-request deadlines come from the vendor request, not the client.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

type vendorDispatcher struct {
	cfg      config.VendorConfig
	client   *http.Client
	breakers map[VendorFamily]*gobreaker.CircuitBreaker[*DispatchResult]
	log      *zap.Logger
}

// NewDispatcher creates the HTTP dispatcher with one circuit breaker
// per vendor family.
func NewDispatcher(cfg config.VendorConfig, log *zap.Logger) Dispatcher {
	d := &vendorDispatcher{
		cfg:      cfg,
		client:   newHTTPClient(),
		breakers: make(map[VendorFamily]*gobreaker.CircuitBreaker[*DispatchResult]),
		log:      log,
	}
	for _, family := range []VendorFamily{FamilyDashScope, FamilyArk} {
		d.breakers[family] = gobreaker.NewCircuitBreaker[*DispatchResult](gobreaker.Settings{
			Name:    string(family),
			Timeout: cfg.CircuitTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("vendor circuit state changed",
					zap.String("vendor", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}
	return d
}

func (d *vendorDispatcher) Dispatch(ctx context.Context, vr *VendorRequest) (*DispatchResult, error) {
	start := time.Now()
	result, err := d.breakers[vr.Family].Execute(func() (*DispatchResult, error) {
		return d.dispatch(ctx, vr)
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.VendorRequestsTotal.WithLabelValues(string(vr.Family), string(vr.TaskType), outcome).Inc()
	metrics.VendorRequestDuration.WithLabelValues(string(vr.Family)).Observe(time.Since(start).Seconds())

	if err != nil {
		d.log.Warn("vendor dispatch failed",
			zap.String("vendor", string(vr.Family)),
			zap.String("task_type", string(vr.TaskType)),
			zap.String("model", vr.Model),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

func (d *vendorDispatcher) dispatch(ctx context.Context, vr *VendorRequest) (*DispatchResult, error) {
	baseURL, apiKey := d.cfg.DashScopeBaseURL, d.cfg.DashScopeAPIKey
	if vr.Family == FamilyArk {
		baseURL, apiKey = d.cfg.ArkBaseURL, d.cfg.ArkAPIKey
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(vr.Body)
	if err != nil {
		return nil, fmt.Errorf("encode vendor request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, vr.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+vr.Path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build vendor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	if vr.Mode == ModeAsync {
		req.Header.Set("X-DashScope-Async", "enable")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &VendorError{Family: vr.Family, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &VendorError{Family: vr.Family, StatusCode: resp.StatusCode, Message: "read vendor response: " + err.Error()}
	}

	if vr.Family == FamilyArk {
		return parseArkResponse(resp.StatusCode, raw)
	}
	return parseDashScopeResponse(resp.StatusCode, raw)
}

type dashScopeSubmitResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Output    struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
	} `json:"output"`
}

func parseDashScopeResponse(statusCode int, raw []byte) (*DispatchResult, error) {
	var body dashScopeSubmitResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &VendorError{Family: FamilyDashScope, StatusCode: statusCode, Message: "malformed vendor response"}
	}
	if statusCode != http.StatusOK || body.Code != "" {
		return nil, &VendorError{
			Family:     FamilyDashScope,
			StatusCode: statusCode,
			Code:       body.Code,
			Message:    body.Message,
		}
	}
	if body.Output.TaskID == "" {
		return nil, &VendorError{Family: FamilyDashScope, StatusCode: statusCode, Message: "vendor response missing task id"}
	}
	return &DispatchResult{
		TaskID:    body.Output.TaskID,
		RequestID: body.RequestID,
		Raw:       raw,
	}, nil
}

type arkImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func parseArkResponse(statusCode int, raw []byte) (*DispatchResult, error) {
	var body arkImageResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &VendorError{Family: FamilyArk, StatusCode: statusCode, Message: "malformed vendor response"}
	}
	if statusCode != http.StatusOK || body.Error != nil {
		ve := &VendorError{Family: FamilyArk, StatusCode: statusCode}
		if body.Error != nil {
			ve.Code = body.Error.Code
			ve.Message = body.Error.Message
		}
		return nil, ve
	}
	if len(body.Data) == 0 || body.Data[0].URL == "" {
		return nil, &VendorError{Family: FamilyArk, StatusCode: statusCode, Message: "vendor response missing result url"}
	}
	return &DispatchResult{
		ResultURL: body.Data[0].URL,
		Raw:       raw,
	}, nil
}
