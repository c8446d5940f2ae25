package task

import "time"

// Vendor models per task type.
const (
	modelImageEdit    = "wan2.5-i2i-preview"
	modelImageToVideo = "wan2.5-i2v-preview"
	modelVideoEffect  = "wanx2.1-i2v-turbo"
	modelStyleRepaint = "wanx-style-repaint-v1"
	modelMultiCompose = "doubao-seedream-4-5-251128"
)

// Vendor endpoint paths.
const (
	pathImageSynthesis = "/api/v1/services/aigc/image2image/image-synthesis"
	pathVideoSynthesis = "/api/v1/services/aigc/video-generation/video-synthesis"
	pathStyleRepaint   = "/api/v1/services/aigc/image-generation/generation"
	pathArkImages      = "/api/v3/images/generations"
)

// Defaults applied when the client leaves a knob unset. Seed and the
// compose size are pinned, not defaults: clients cannot override them.
const (
	fixedSeed           = int64(-1)
	fixedComposeSize    = "2k"
	defaultN            = 1
	defaultResolution   = "720P"
	defaultEffect       = "flying"
	defaultSequential   = "disabled"
	singleImageTimeout  = 30 * time.Second
	multiComposeTimeout = 60 * time.Second
)

type dashScopeInput struct {
	Prompt         string   `json:"prompt,omitempty"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Images         []string `json:"images,omitempty"`
	ImgURL         string   `json:"img_url,omitempty"`
	VideoURL       string   `json:"video_url,omitempty"`
	AudioURL       string   `json:"audio_url,omitempty"`
	Template       string   `json:"template,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	StyleIndex     *int     `json:"style_index,omitempty"`
	StyleRefURL    string   `json:"style_ref_url,omitempty"`
}

type dashScopeParameters struct {
	N            int    `json:"n,omitempty"`
	Size         string `json:"size,omitempty"`
	Seed         *int64 `json:"seed,omitempty"`
	PromptExtend *bool  `json:"prompt_extend,omitempty"`
	Watermark    bool   `json:"watermark"`
	Resolution   string `json:"resolution,omitempty"`
}

type dashScopeRequest struct {
	Model      string               `json:"model"`
	Input      dashScopeInput       `json:"input"`
	Parameters *dashScopeParameters `json:"parameters,omitempty"`
}

type arkImageRequest struct {
	Model          string   `json:"model"`
	Prompt         string   `json:"prompt"`
	Image          []string `json:"image"`
	Size           string   `json:"size,omitempty"`
	SequentialMode string   `json:"sequential_image_generation,omitempty"`
	ResponseFormat string   `json:"response_format,omitempty"`
	Stream         bool     `json:"stream"`
	Watermark      bool     `json:"watermark"`
}

// Build validates req and maps it onto the vendor call for its task
// type. It is pure: no network, no clock beyond the fixed timeouts.
// User identity is not checked here; that belongs to the balance flow,
// which only runs for priced tasks.
func Build(req *Request) (*VendorRequest, error) {
	if !req.TaskType.Valid() {
		return nil, ErrInvalidTaskType
	}

	switch req.TaskType {
	case TypeImageToImage:
		return buildImageEdit(req)
	case TypeImageToVideo:
		return buildImageToVideo(req)
	case TypeVideoEffect:
		return buildVideoEffect(req)
	case TypeStyleRepaint:
		return buildStyleRepaint(req)
	case TypeMultiImageCompose:
		return buildMultiCompose(req)
	}
	return nil, ErrInvalidTaskType
}

func buildImageEdit(req *Request) (*VendorRequest, error) {
	if req.Prompt == "" {
		return nil, ErrMissingPrompt
	}
	if len(req.Images) == 0 {
		return nil, ErrMissingImages
	}

	n := req.Params.N
	if n <= 0 {
		n = defaultN
	}
	// Seed is pinned and prompt rewriting stays off so identical
	// submissions map to identical vendor calls.
	seed := fixedSeed
	promptExtend := false

	return &VendorRequest{
		Family:   FamilyDashScope,
		Mode:     ModeAsync,
		Path:     pathImageSynthesis,
		Model:    modelImageEdit,
		Timeout:  singleImageTimeout,
		TaskType: req.TaskType,
		Body: dashScopeRequest{
			Model: modelImageEdit,
			Input: dashScopeInput{
				Prompt:         req.Prompt,
				NegativePrompt: req.NegativePrompt,
				Images:         req.Images,
			},
			Parameters: &dashScopeParameters{
				N:            n,
				Size:         req.Params.Size,
				Seed:         &seed,
				PromptExtend: &promptExtend,
				Watermark:    req.Params.Watermark,
			},
		},
	}, nil
}

func buildImageToVideo(req *Request) (*VendorRequest, error) {
	if req.Prompt == "" {
		return nil, ErrMissingPrompt
	}
	if len(req.Images) == 0 {
		return nil, ErrMissingImages
	}

	return &VendorRequest{
		Family:   FamilyDashScope,
		Mode:     ModeAsync,
		Path:     pathVideoSynthesis,
		Model:    modelImageToVideo,
		Timeout:  singleImageTimeout,
		TaskType: req.TaskType,
		Body: dashScopeRequest{
			Model: modelImageToVideo,
			Input: dashScopeInput{
				Prompt:   req.Prompt,
				ImgURL:   req.Images[0],
				AudioURL: req.Params.AudioURL,
			},
			Parameters: &dashScopeParameters{
				Resolution: req.Params.Resolution,
				Watermark:  req.Params.Watermark,
			},
		},
	}, nil
}

func buildVideoEffect(req *Request) (*VendorRequest, error) {
	// Either an image or a source video drives the effect.
	if len(req.Images) == 0 && req.VideoURL == "" {
		return nil, ErrMissingImages
	}

	template := req.Params.Template
	if template == "" {
		template = defaultEffect
	}
	resolution := req.Params.Resolution
	if resolution == "" {
		resolution = defaultResolution
	}

	input := dashScopeInput{Template: template}
	if len(req.Images) > 0 {
		input.ImgURL = req.Images[0]
	} else {
		input.VideoURL = req.VideoURL
	}

	return &VendorRequest{
		Family:   FamilyDashScope,
		Mode:     ModeAsync,
		Path:     pathVideoSynthesis,
		Model:    modelVideoEffect,
		Timeout:  singleImageTimeout,
		TaskType: req.TaskType,
		Body: dashScopeRequest{
			Model: modelVideoEffect,
			Input: input,
			Parameters: &dashScopeParameters{
				Resolution: resolution,
				Watermark:  req.Params.Watermark,
			},
		},
	}, nil
}

func buildStyleRepaint(req *Request) (*VendorRequest, error) {
	if len(req.Images) == 0 {
		return nil, ErrMissingImages
	}
	if req.Params.StyleIndex == nil {
		return nil, ErrMissingStyleIndex
	}
	// style_index -1 selects a caller-supplied reference style.
	if *req.Params.StyleIndex == -1 && req.Params.StyleRefURL == "" {
		return nil, ErrMissingStyleRefURL
	}

	return &VendorRequest{
		Family:   FamilyDashScope,
		Mode:     ModeAsync,
		Path:     pathStyleRepaint,
		Model:    modelStyleRepaint,
		Timeout:  singleImageTimeout,
		TaskType: req.TaskType,
		Body: dashScopeRequest{
			Model: modelStyleRepaint,
			Input: dashScopeInput{
				ImageURL:    req.Images[0],
				StyleIndex:  req.Params.StyleIndex,
				StyleRefURL: req.Params.StyleRefURL,
			},
		},
	}, nil
}

func buildMultiCompose(req *Request) (*VendorRequest, error) {
	if req.Prompt == "" {
		return nil, ErrMissingPrompt
	}
	if len(req.Images) < 2 {
		return nil, ErrNotEnoughImages
	}

	sequential := req.Params.SequentialMode
	if sequential == "" {
		sequential = defaultSequential
	}

	return &VendorRequest{
		Family:   FamilyArk,
		Mode:     ModeSync,
		Path:     pathArkImages,
		Model:    modelMultiCompose,
		Timeout:  multiComposeTimeout,
		TaskType: req.TaskType,
		Body: arkImageRequest{
			Model:          modelMultiCompose,
			Prompt:         req.Prompt,
			Image:          req.Images,
			Size:           fixedComposeSize,
			SequentialMode: sequential,
			ResponseFormat: "url",
			Stream:         false,
			Watermark:      req.Params.Watermark,
		},
	}, nil
}
