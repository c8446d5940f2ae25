package category

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/response"
)

// Handler serves category taxonomy endpoints.
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler creates a category handler.
func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: "CATEGORY_NOT_FOUND"},
	{Err: ErrDuplicate, Status: http.StatusConflict, Code: "CATEGORY_EXISTS"},
	{Err: ErrInvalidKind, Status: http.StatusBadRequest, Code: "INVALID_KIND"},
	{Err: ErrMissingCode, Status: http.StatusBadRequest, Code: "MISSING_CODE"},
	{Err: ErrMissingName, Status: http.StatusBadRequest, Code: "MISSING_NAME"},
}

type payload struct {
	Kind       string `json:"kind"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	IconURL    string `json:"iconUrl"`
	SortWeight int    `json:"sortWeight"`
	Enabled    *bool  `json:"enabled"`
}

// List handles GET /categories. Disabled entries stay hidden unless
// the caller asks for them.
func (h *Handler) List(c *gin.Context) {
	enabledOnly := c.DefaultQuery("all", "false") != "true"
	configs, err := h.svc.List(c.Request.Context(), c.Query("kind"), enabledOnly)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	if configs == nil {
		configs = []Config{}
	}
	response.Success(c, configs)
}

// Create handles POST /categories.
func (h *Handler) Create(c *gin.Context) {
	var p payload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	cfg := &Config{
		Kind:       p.Kind,
		Code:       p.Code,
		Name:       p.Name,
		IconURL:    p.IconURL,
		SortWeight: p.SortWeight,
		Enabled:    true,
	}
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}

	if err := h.svc.Create(c.Request.Context(), cfg); err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Created(c, cfg)
}

// Update handles PUT /categories/:categoryId.
func (h *Handler) Update(c *gin.Context) {
	var p payload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	cfg := &Config{
		CategoryID: c.Param("categoryId"),
		Name:       p.Name,
		IconURL:    p.IconURL,
		SortWeight: p.SortWeight,
		Enabled:    true,
	}
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}

	if err := h.svc.Update(c.Request.Context(), cfg); err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Success(c, cfg)
}
