package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest(taskType TaskType) *Request {
	req := &Request{
		UserID:   "user-1",
		TaskType: taskType,
		Prompt:   "replace the sky with aurora",
		Images:   []string{"https://cdn.example.com/a.jpg"},
		Price:    10,
	}
	if taskType == TypeMultiImageCompose {
		req.Images = append(req.Images, "https://cdn.example.com/b.jpg")
	}
	if taskType == TypeStyleRepaint {
		idx := 3
		req.Params.StyleIndex = &idx
	}
	return req
}

func TestBuildImageEditDefaults(t *testing.T) {
	vr, err := Build(validRequest(TypeImageToImage))
	require.NoError(t, err)

	assert.Equal(t, FamilyDashScope, vr.Family)
	assert.Equal(t, ModeAsync, vr.Mode)
	assert.Equal(t, pathImageSynthesis, vr.Path)
	assert.Equal(t, singleImageTimeout, vr.Timeout)

	body, ok := vr.Body.(dashScopeRequest)
	require.True(t, ok)
	assert.Equal(t, modelImageEdit, body.Model)
	assert.Equal(t, "replace the sky with aurora", body.Input.Prompt)
	require.NotNil(t, body.Parameters)
	assert.Equal(t, 1, body.Parameters.N)
	require.NotNil(t, body.Parameters.Seed)
	assert.Equal(t, int64(-1), *body.Parameters.Seed)
}

func TestBuildImageEditKeepsClientKnobs(t *testing.T) {
	req := validRequest(TypeImageToImage)
	req.Params = Params{N: 3, Size: "1024*1024", Watermark: true}
	req.NegativePrompt = "blurry"

	vr, err := Build(req)
	require.NoError(t, err)

	body := vr.Body.(dashScopeRequest)
	assert.Equal(t, "blurry", body.Input.NegativePrompt)
	assert.Equal(t, 3, body.Parameters.N)
	assert.Equal(t, "1024*1024", body.Parameters.Size)
	assert.True(t, body.Parameters.Watermark)

	// Seed and prompt rewriting are pinned regardless of client input.
	require.NotNil(t, body.Parameters.Seed)
	assert.Equal(t, fixedSeed, *body.Parameters.Seed)
	require.NotNil(t, body.Parameters.PromptExtend)
	assert.False(t, *body.Parameters.PromptExtend)
}

func TestBuildImageToVideoUsesFirstImage(t *testing.T) {
	req := validRequest(TypeImageToVideo)
	req.Images = []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}
	req.Params.AudioURL = "https://cdn.example.com/a.mp3"
	req.Params.Resolution = "1080P"

	vr, err := Build(req)
	require.NoError(t, err)

	assert.Equal(t, pathVideoSynthesis, vr.Path)
	body := vr.Body.(dashScopeRequest)
	assert.Equal(t, modelImageToVideo, body.Model)
	assert.Equal(t, "https://cdn.example.com/a.jpg", body.Input.ImgURL)
	assert.Empty(t, body.Input.Images)
	assert.Equal(t, "https://cdn.example.com/a.mp3", body.Input.AudioURL)
	assert.Equal(t, "1080P", body.Parameters.Resolution)
}

func TestBuildVideoEffectDefaults(t *testing.T) {
	req := validRequest(TypeVideoEffect)
	req.Prompt = ""

	vr, err := Build(req)
	require.NoError(t, err)

	body := vr.Body.(dashScopeRequest)
	assert.Equal(t, modelVideoEffect, body.Model)
	assert.Equal(t, defaultEffect, body.Input.Template)
	assert.Equal(t, "https://cdn.example.com/a.jpg", body.Input.ImgURL)
	assert.Empty(t, body.Input.VideoURL)
	assert.Equal(t, "720P", body.Parameters.Resolution)
}

func TestBuildVideoEffectFromVideoURL(t *testing.T) {
	req := validRequest(TypeVideoEffect)
	req.Images = nil
	req.VideoURL = "https://cdn.example.com/clip.mp4"

	vr, err := Build(req)
	require.NoError(t, err)

	body := vr.Body.(dashScopeRequest)
	assert.Empty(t, body.Input.ImgURL)
	assert.Equal(t, "https://cdn.example.com/clip.mp4", body.Input.VideoURL)
}

func TestBuildVideoEffectNeedsSource(t *testing.T) {
	req := validRequest(TypeVideoEffect)
	req.Images = nil
	req.VideoURL = ""

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrMissingImages)
}

func TestBuildStyleRepaint(t *testing.T) {
	req := validRequest(TypeStyleRepaint)
	req.Prompt = ""

	vr, err := Build(req)
	require.NoError(t, err)

	assert.Equal(t, pathStyleRepaint, vr.Path)
	body := vr.Body.(dashScopeRequest)
	assert.Equal(t, modelStyleRepaint, body.Model)
	assert.Equal(t, "https://cdn.example.com/a.jpg", body.Input.ImageURL)
	require.NotNil(t, body.Input.StyleIndex)
	assert.Equal(t, 3, *body.Input.StyleIndex)
	assert.Nil(t, body.Parameters)
}

func TestBuildStyleRepaintCustomStyle(t *testing.T) {
	req := validRequest(TypeStyleRepaint)
	idx := -1
	req.Params.StyleIndex = &idx

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrMissingStyleRefURL)

	req.Params.StyleRefURL = "https://cdn.example.com/style.jpg"
	vr, err := Build(req)
	require.NoError(t, err)
	body := vr.Body.(dashScopeRequest)
	assert.Equal(t, "https://cdn.example.com/style.jpg", body.Input.StyleRefURL)
}

func TestBuildMultiCompose(t *testing.T) {
	vr, err := Build(validRequest(TypeMultiImageCompose))
	require.NoError(t, err)

	assert.Equal(t, FamilyArk, vr.Family)
	assert.Equal(t, ModeSync, vr.Mode)
	assert.Equal(t, pathArkImages, vr.Path)
	assert.Equal(t, multiComposeTimeout, vr.Timeout)

	body, ok := vr.Body.(arkImageRequest)
	require.True(t, ok)
	assert.Equal(t, modelMultiCompose, body.Model)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, body.Image)
	assert.Equal(t, fixedComposeSize, body.Size)
	assert.Equal(t, defaultSequential, body.SequentialMode)
	assert.Equal(t, "url", body.ResponseFormat)
	assert.False(t, body.Stream)
}

func TestBuildMultiComposePreservesImageOrder(t *testing.T) {
	req := validRequest(TypeMultiImageCompose)
	req.Images = []string{
		"https://cdn.example.com/third.jpg",
		"https://cdn.example.com/first.jpg",
		"https://cdn.example.com/second.jpg",
	}
	// Compose size is pinned; clients cannot pick another one.
	req.Params.Size = "4k"
	req.Params.SequentialMode = "auto"

	vr, err := Build(req)
	require.NoError(t, err)

	body := vr.Body.(arkImageRequest)
	assert.Equal(t, req.Images, body.Image)
	assert.Equal(t, fixedComposeSize, body.Size)
	assert.Equal(t, "auto", body.SequentialMode)
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"unknown type", func(r *Request) { r.TaskType = "text_to_speech" }, ErrInvalidTaskType},
		{"empty type", func(r *Request) { r.TaskType = ""; r.UserID = "" }, ErrInvalidTaskType},
		{"missing prompt", func(r *Request) { r.Prompt = "" }, ErrMissingPrompt},
		{"missing images", func(r *Request) { r.Images = nil }, ErrMissingImages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(TypeImageToImage)
			tt.mutate(req)
			_, err := Build(req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildMultiComposeNeedsTwoImages(t *testing.T) {
	req := validRequest(TypeMultiImageCompose)
	req.Images = req.Images[:1]

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrNotEnoughImages)
}

func TestBuildStyleRepaintNeedsIndex(t *testing.T) {
	req := validRequest(TypeStyleRepaint)
	req.Params.StyleIndex = nil

	_, err := Build(req)
	assert.ErrorIs(t, err, ErrMissingStyleIndex)
}
