package task

import "encoding/json"

// StringList accepts either a JSON string or an array of strings, so a
// client sending a single image does not have to wrap it.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(many)
	return nil
}

// CreateTaskRequest is the client payload for a task submission.
// AudioURL and VideoURL ride at the top level the way clients send
// them; normalize folds them into the request the builder sees.
type CreateTaskRequest struct {
	UserID         string     `json:"userId"`
	TaskType       string     `json:"taskType" binding:"required"`
	Prompt         string     `json:"prompt"`
	NegativePrompt string     `json:"negativePrompt"`
	Images         StringList `json:"images"`
	VideoURL       string     `json:"videoUrl"`
	AudioURL       string     `json:"audioUrl"`
	Price          int64      `json:"price"`
	Params         Params     `json:"params"`
}

// normalize converts the wire payload into the internal request shape.
func (r *CreateTaskRequest) normalize() *Request {
	params := r.Params
	if params.AudioURL == "" {
		params.AudioURL = r.AudioURL
	}
	return &Request{
		UserID:         r.UserID,
		TaskType:       TaskType(r.TaskType),
		Prompt:         r.Prompt,
		NegativePrompt: r.NegativePrompt,
		Images:         []string(r.Images),
		VideoURL:       r.VideoURL,
		Price:          r.Price,
		Params:         params,
	}
}

// AsyncTaskResponse is the success payload for queued task types.
type AsyncTaskResponse struct {
	TaskID    string `json:"taskId"`
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// SyncTaskResponse is the success payload for inline task types.
type SyncTaskResponse struct {
	ResultURL    string          `json:"resultUrl"`
	ResponseData json.RawMessage `json:"responseData,omitempty"`
	Message      string          `json:"message"`
}

// BalanceShortfall is the failure data for an insufficient balance.
type BalanceShortfall struct {
	CurrentBalance int64 `json:"currentBalance"`
	RequiredAmount int64 `json:"requiredAmount"`
}
