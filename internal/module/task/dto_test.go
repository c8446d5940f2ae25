package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskRequestAcceptsSingleImageString(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{
		"taskType": "image_to_image",
		"prompt": "aurora sky",
		"images": "https://cdn.example.com/a.jpg"
	}`), &req)
	require.NoError(t, err)
	assert.Equal(t, StringList{"https://cdn.example.com/a.jpg"}, req.Images)
}

func TestCreateTaskRequestAcceptsImageArray(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{
		"taskType": "multi_image_compose",
		"images": ["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"]
	}`), &req)
	require.NoError(t, err)
	assert.Equal(t, StringList{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, req.Images)
}

func TestCreateTaskRequestRejectsBadImages(t *testing.T) {
	var req CreateTaskRequest
	err := json.Unmarshal([]byte(`{"taskType": "image_to_image", "images": 7}`), &req)
	assert.Error(t, err)
}

func TestNormalizeFoldsTopLevelMedia(t *testing.T) {
	var wire CreateTaskRequest
	err := json.Unmarshal([]byte(`{
		"taskType": "image_to_video",
		"prompt": "make it move",
		"images": "https://cdn.example.com/a.jpg",
		"videoUrl": "https://cdn.example.com/clip.mp4",
		"audioUrl": "https://cdn.example.com/voice.mp3"
	}`), &wire)
	require.NoError(t, err)

	req := wire.normalize()
	assert.Equal(t, TypeImageToVideo, req.TaskType)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, req.Images)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", req.VideoURL)
	assert.Equal(t, "https://cdn.example.com/voice.mp3", req.Params.AudioURL)
}

func TestNormalizeKeepsNestedAudioURL(t *testing.T) {
	wire := CreateTaskRequest{
		TaskType: "image_to_video",
		AudioURL: "https://cdn.example.com/top.mp3",
		Params:   Params{AudioURL: "https://cdn.example.com/nested.mp3"},
	}

	req := wire.normalize()
	assert.Equal(t, "https://cdn.example.com/nested.mp3", req.Params.AudioURL)
}
