package album

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/response"
)

// Handler serves album catalog endpoints.
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler creates an album handler.
func NewHandler(svc Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

var errorMappings = []response.ErrorMapping{
	{Err: ErrNotFound, Status: http.StatusNotFound, Code: "ALBUM_NOT_FOUND"},
	{Err: ErrMissingTitle, Status: http.StatusBadRequest, Code: "MISSING_TITLE"},
	{Err: ErrInvalidID, Status: http.StatusBadRequest, Code: "INVALID_ALBUM_ID"},
}

type albumPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	CoverURL      string   `json:"coverUrl"`
	PromptText    string   `json:"promptText"`
	FunctionType  string   `json:"functionType"`
	ThemeStyles   []string `json:"themeStyles"`
	ActivityTags  []string `json:"activityTags"`
	TemplateList  []string `json:"templateList"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice"`
	StyleIndex    *int     `json:"styleIndex"`
	StyleRefURL   string   `json:"styleRefUrl"`
	Published     bool     `json:"published"`
	SortWeight    int      `json:"sortWeight"`
}

func (p *albumPayload) toModel() *Album {
	return &Album{
		Title:         p.Title,
		Description:   p.Description,
		CoverURL:      p.CoverURL,
		PromptText:    p.PromptText,
		FunctionType:  p.FunctionType,
		ThemeStyles:   pq.StringArray(p.ThemeStyles),
		ActivityTags:  pq.StringArray(p.ActivityTags),
		TemplateList:  pq.StringArray(p.TemplateList),
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		StyleIndex:    p.StyleIndex,
		StyleRefURL:   p.StyleRefURL,
		Published:     p.Published,
		SortWeight:    p.SortWeight,
	}
}

// ListResponse is the payload for an album listing.
type ListResponse struct {
	Items   []Album `json:"items"`
	Total   int64   `json:"total"`
	HasMore bool    `json:"hasMore"`
}

// List handles GET /albums. Unpublished albums stay hidden on the
// public route.
func (h *Handler) List(c *gin.Context) {
	h.list(c, false)
}

// ListAll handles GET /admin/albums and includes drafts.
func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) list(c *gin.Context, includeDrafts bool) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ListFilter{
		FunctionType:  c.Query("functionType"),
		ThemeStyle:    c.Query("themeStyle"),
		ActivityTag:   c.Query("activityTag"),
		SortBy:        c.Query("sortBy"),
		IncludeDrafts: includeDrafts,
		Limit:         limit,
		Offset:        offset,
	}

	albums, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	if albums == nil {
		albums = []Album{}
	}
	response.Success(c, ListResponse{
		Items:   albums,
		Total:   total,
		HasMore: int64(filter.Offset+len(albums)) < total,
	})
}

// Get handles GET /albums/:id.
func (h *Handler) Get(c *gin.Context) {
	album, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Success(c, album)
}

// Create handles POST /albums.
func (h *Handler) Create(c *gin.Context) {
	var payload albumPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	album := payload.toModel()
	if err := h.svc.Create(c.Request.Context(), album); err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Created(c, album)
}

// Update handles PUT /albums/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_ALBUM_ID", "invalid album id")
		return
	}
	var payload albumPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	album := payload.toModel()
	album.ID = id
	if err := h.svc.Update(c.Request.Context(), album); err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Success(c, album)
}

// Delete handles DELETE /albums/:id.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, h.log, err, errorMappings)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
