package task

import (
	"encoding/json"
	"time"
)

// TaskType identifies one of the supported generation task types.
type TaskType string

// Supported task types.
const (
	TypeImageToImage      TaskType = "image_to_image"
	TypeImageToVideo      TaskType = "image_to_video"
	TypeVideoEffect       TaskType = "video_effect"
	TypeStyleRepaint      TaskType = "style_repaint"
	TypeMultiImageCompose TaskType = "multi_image_compose"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TypeImageToImage, TypeImageToVideo, TypeVideoEffect, TypeStyleRepaint, TypeMultiImageCompose:
		return true
	}
	return false
}

// VendorFamily identifies which upstream serves a request.
type VendorFamily string

// Vendor families.
const (
	FamilyDashScope VendorFamily = "dashscope"
	FamilyArk       VendorFamily = "ark"
)

// DispatchMode distinguishes queued tasks from inline results.
type DispatchMode string

// Dispatch modes.
const (
	ModeAsync DispatchMode = "async"
	ModeSync  DispatchMode = "sync"
)

// Params are the optional generation knobs a client may set. Zero
// values mean "use the vendor default"; the builder fills the defaults
// each task type requires. Seed and compose size are pinned by the
// builder and deliberately absent here.
type Params struct {
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Watermark      bool   `json:"watermark,omitempty"`
	AudioURL       string `json:"audioUrl,omitempty"`
	Resolution     string `json:"resolution,omitempty"`
	Template       string `json:"template,omitempty"`
	StyleIndex     *int   `json:"styleIndex,omitempty"`
	StyleRefURL    string `json:"styleRefUrl,omitempty"`
	SequentialMode string `json:"sequentialImageGeneration,omitempty"`
}

// Request is a validated task submission. VideoURL is the alternative
// source input for video effects when no image is given.
type Request struct {
	UserID         string
	TaskType       TaskType
	Prompt         string
	NegativePrompt string
	Images         []string
	VideoURL       string
	Price          int64
	Params         Params
}

// VendorRequest is the fully built upstream call: which family and
// endpoint to hit, the body to send, and how long to wait.
type VendorRequest struct {
	Family   VendorFamily
	Mode     DispatchMode
	Path     string
	Model    string
	Body     any
	Timeout  time.Duration
	TaskType TaskType
}

// DispatchResult is the vendor's answer to a dispatch. Async requests
// carry TaskID and RequestID; sync requests carry ResultURL and the
// raw vendor payload.
type DispatchResult struct {
	TaskID    string
	RequestID string
	ResultURL string
	Raw       json.RawMessage
}

// Status is the lifecycle state of a queued task.
type Status string

// Task statuses.
const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusUnknown   Status = "UNKNOWN"
)

// Terminal reports whether the status will never change again.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Result is one normalized output artifact.
type Result struct {
	OrigPrompt string `json:"origPrompt,omitempty"`
	URL        string `json:"url"`
}

// PollResult is the normalized answer to a status query. Usage is the
// vendor's accounting blob, passed through untouched.
type PollResult struct {
	TaskID        string          `json:"taskId"`
	RequestID     string          `json:"requestId,omitempty"`
	Status        Status          `json:"status"`
	Results       []Result        `json:"results,omitempty"`
	ErrorCode     string          `json:"errorCode,omitempty"`
	ErrorMessage  string          `json:"errorMessage,omitempty"`
	SubmitTime    string          `json:"submitTime,omitempty"`
	ScheduledTime string          `json:"scheduledTime,omitempty"`
	EndTime       string          `json:"endTime,omitempty"`
	Usage         json.RawMessage `json:"usage,omitempty"`
	QueriedAt     time.Time       `json:"queriedAt"`
}
