package task

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/config"
)

const pathQueryTask = "/api/v1/tasks/"

// Poller queries the status of queued tasks. It never touches the
// ledger: billing happened at dispatch time.
type Poller interface {
	Query(ctx context.Context, taskID string) (*PollResult, error)
}

type dashScopePoller struct {
	cfg    config.VendorConfig
	client *http.Client
	log    *zap.Logger
}

// NewPoller creates the task status poller.
func NewPoller(cfg config.VendorConfig, log *zap.Logger) Poller {
	return &dashScopePoller{
		cfg:    cfg,
		client: newHTTPClient(),
		log:    log,
	}
}

type dashScopeQueryResponse struct {
	RequestID string          `json:"request_id"`
	Usage     json.RawMessage `json:"usage"`
	Output    struct {
		TaskID        string `json:"task_id"`
		TaskStatus    string `json:"task_status"`
		SubmitTime    string `json:"submit_time"`
		ScheduledTime string `json:"scheduled_time"`
		EndTime       string `json:"end_time"`
		Code          string `json:"code"`
		Message       string `json:"message"`
		VideoURL      string `json:"video_url"`
		ImageURL      string `json:"image_url"`
		Results       []struct {
			URL        string `json:"url"`
			OrigPrompt string `json:"orig_prompt"`
			Code       string `json:"code"`
			Message    string `json:"message"`
		} `json:"results"`
	} `json:"output"`
}

func (p *dashScopePoller) Query(ctx context.Context, taskID string) (*PollResult, error) {
	if taskID == "" {
		return nil, ErrMissingTaskID
	}
	if p.cfg.DashScopeAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, singleImageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.DashScopeBaseURL+pathQueryTask+taskID, nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.DashScopeAPIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &VendorError{Family: FamilyDashScope, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &VendorError{Family: FamilyDashScope, StatusCode: resp.StatusCode, Message: "read vendor response: " + err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &body)
		return nil, &VendorError{
			Family:     FamilyDashScope,
			StatusCode: resp.StatusCode,
			Code:       body.Code,
			Message:    body.Message,
		}
	}

	var body dashScopeQueryResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &VendorError{Family: FamilyDashScope, StatusCode: resp.StatusCode, Message: "malformed vendor response"}
	}

	result := &PollResult{
		TaskID:        body.Output.TaskID,
		RequestID:     body.RequestID,
		Status:        normalizeStatus(body.Output.TaskStatus),
		ErrorCode:     body.Output.Code,
		ErrorMessage:  body.Output.Message,
		SubmitTime:    body.Output.SubmitTime,
		ScheduledTime: body.Output.ScheduledTime,
		EndTime:       body.Output.EndTime,
		Usage:         body.Usage,
		QueriedAt:     time.Now(),
	}
	if result.TaskID == "" {
		result.TaskID = taskID
	}
	if result.Status == StatusSucceeded {
		result.Results = normalizeResults(&body)
	}
	p.log.Debug("task queried",
		zap.String("task_id", result.TaskID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// normalizeStatus maps the vendor lifecycle onto ours. Anything the
// vendor adds later degrades to UNKNOWN instead of failing the query.
func normalizeStatus(vendor string) Status {
	switch vendor {
	case "PENDING":
		return StatusPending
	case "RUNNING":
		return StatusRunning
	case "SUCCEEDED":
		return StatusSucceeded
	case "FAILED":
		return StatusFailed
	}
	return StatusUnknown
}

// normalizeResults flattens the vendor's output variants into one
// ordered list. Image tasks report a results array, video tasks a
// single video_url, style repaint a bare image_url; per-item failures
// inside a results array carry a code instead of a url and are
// skipped.
func normalizeResults(body *dashScopeQueryResponse) []Result {
	if len(body.Output.Results) > 0 {
		results := make([]Result, 0, len(body.Output.Results))
		for _, r := range body.Output.Results {
			if r.URL == "" {
				continue
			}
			results = append(results, Result{OrigPrompt: r.OrigPrompt, URL: r.URL})
		}
		return results
	}
	if body.Output.VideoURL != "" {
		return []Result{{URL: body.Output.VideoURL}}
	}
	if body.Output.ImageURL != "" {
		return []Result{{URL: body.Output.ImageURL}}
	}
	return nil
}
