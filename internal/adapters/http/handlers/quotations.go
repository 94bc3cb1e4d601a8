package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/dto"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/middleware"
	"github.com/brchinacargo-glitch/BRCcSis/internal/app"
	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// QuotationHandler exposes the quotation lifecycle. Every route expects the
// Actor middleware upstream.
type QuotationHandler struct {
	service *app.QuotationService
}

// NewQuotationHandler creates a quotation handler.
func NewQuotationHandler(service *app.QuotationService) *QuotationHandler {
	return &QuotationHandler{service: service}
}

// RegisterQuotationRoutes mounts /quotations and /operators on rg.
func (h *QuotationHandler) RegisterQuotationRoutes(rg *gin.RouterGroup) {
	q := rg.Group("/quotations")
	q.POST("", h.Create)
	q.GET("", h.list(h.service.List))
	q.GET("/available", h.list(h.service.Available))
	q.GET("/mine/operations", h.list(h.service.MyOperations))
	q.GET("/mine/requests", h.list(h.service.MyRequests))
	q.GET("/stats", h.Stats)
	q.GET("/:id", h.Get)
	q.GET("/:id/history", h.History)

	q.POST("/:id/accept", h.AcceptByOperator)
	q.POST("/:id/response", h.SendResponse)
	q.POST("/:id/consultant-accept", h.AcceptByConsultant)
	q.POST("/:id/consultant-negate", h.NegateByConsultant)
	q.POST("/:id/finalize", h.Finalize)
	q.POST("/:id/reassign", h.Reassign)

	rg.GET("/operators", h.Operators)
}

// Create handles POST /api/v1/quotations.
//
// @Summary Request a freight quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Success 201 {object} dto.QuotationResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.service.CanCreate(c.Request.Context(), actorID); err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.CreateQuotationRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	r, err := req.ToDomain()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	q, err := h.service.Create(c.Request.Context(), actorID, r)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+strconv.FormatInt(q.ID, 10))
	c.JSON(http.StatusCreated, dto.NewQuotationResponse(&q))
}

// Get handles GET /api/v1/quotations/:id.
func (h *QuotationHandler) Get(c *gin.Context) {
	actorID, id, ok := actorAndID(c)
	if !ok {
		return
	}

	q, err := h.service.Get(c.Request.Context(), actorID, id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuotationResponse(&q))
}

// History handles GET /api/v1/quotations/:id/history, newest entry first.
func (h *QuotationHandler) History(c *gin.Context) {
	actorID, id, ok := actorAndID(c)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), actorID, id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.HistoryEntryResponse, 0)
	for e, err := range entries {
		if err != nil {
			dto.HandleError(c, err)
			return
		}
		items = append(items, dto.NewHistoryEntryResponse(&e))
	}

	c.JSON(http.StatusOK, dto.ListResponse[dto.HistoryEntryResponse]{Items: items, Count: len(items)})
}

// Stats handles GET /api/v1/quotations/stats. It accepts the listing filters.
func (h *QuotationHandler) Stats(c *gin.Context) {
	actorID, filter, ok := actorAndFilter(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actorID, filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// Operators handles GET /api/v1/operators, the reassignment targets.
func (h *QuotationHandler) Operators(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	users, err := h.service.Operators(c.Request.Context(), actorID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(users, dto.NewOperatorResponse))
}

type listFunc func(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationPage, error)

// list adapts one of the service's listing views into a paginated endpoint.
func (h *QuotationHandler) list(fetch listFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, filter, ok := actorAndFilter(c)
		if !ok {
			return
		}

		page, err := fetch(c.Request.Context(), actorID, filter)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.NewPageResponse(page.Items, page.Total, page.Page, page.PerPage, dto.NewQuotationResponse))
	}
}

// AcceptByOperator handles POST /api/v1/quotations/:id/accept.
func (h *QuotationHandler) AcceptByOperator(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.NotesRequest) (domain.Quotation, error) {
		return h.service.AcceptByOperator(ctx, actorID, id, domain.AcceptByOperator{Notes: req.Observacoes})
	})
}

// SendResponse handles POST /api/v1/quotations/:id/response.
func (h *QuotationHandler) SendResponse(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.SendResponseRequest) (domain.Quotation, error) {
		return h.service.SendResponse(ctx, actorID, id, req.ToDomain())
	})
}

// AcceptByConsultant handles POST /api/v1/quotations/:id/consultant-accept.
func (h *QuotationHandler) AcceptByConsultant(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.NotesRequest) (domain.Quotation, error) {
		return h.service.AcceptByConsultant(ctx, actorID, id, domain.AcceptByConsultant{Notes: req.Observacoes})
	})
}

// NegateByConsultant handles POST /api/v1/quotations/:id/consultant-negate.
func (h *QuotationHandler) NegateByConsultant(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.NotesRequest) (domain.Quotation, error) {
		return h.service.NegateByConsultant(ctx, actorID, id, domain.NegateByConsultant{Notes: req.Observacoes})
	})
}

// Finalize handles POST /api/v1/quotations/:id/finalize.
func (h *QuotationHandler) Finalize(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.NotesRequest) (domain.Quotation, error) {
		return h.service.Finalize(ctx, actorID, id, domain.Finalize{Notes: req.Observacoes})
	})
}

// Reassign handles POST /api/v1/quotations/:id/reassign.
func (h *QuotationHandler) Reassign(c *gin.Context) {
	transition(c, func(ctx context.Context, actorID, id int64, req *dto.ReassignRequest) (domain.Quotation, error) {
		return h.service.Reassign(ctx, actorID, id, req.ToDomain())
	})
}

// transition binds the action body, runs fn and renders the updated quotation.
func transition[Req any](c *gin.Context, fn func(ctx context.Context, actorID, id int64, req *Req) (domain.Quotation, error)) {
	actorID, id, ok := actorAndID(c)
	if !ok {
		return
	}

	var req Req
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	q, err := fn(c.Request.Context(), actorID, id, &req)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuotationResponse(&q))
}

func requireActor(c *gin.Context) (int64, bool) {
	id, ok := middleware.GetActorID(c)
	if !ok {
		dto.HandleErrorCode(c, dto.ErrorCodeUnauthorized, "actor identity is required")
		return 0, false
	}

	return id, true
}

func actorAndID(c *gin.Context) (actorID, id int64, ok bool) {
	if actorID, ok = requireActor(c); !ok {
		return 0, 0, false
	}

	id, ok = pathID(c)

	return actorID, id, ok
}

func actorAndFilter(c *gin.Context) (int64, ports.QuotationFilter, bool) {
	actorID, ok := requireActor(c)
	if !ok {
		return 0, ports.QuotationFilter{}, false
	}

	var q dto.ListQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleBindingError(c, err)
		return 0, ports.QuotationFilter{}, false
	}

	filter, err := q.ToFilter()
	if err != nil {
		dto.HandleError(c, err)
		return 0, ports.QuotationFilter{}, false
	}

	return actorID, filter, true
}

// pathID parses :id. Anything but a positive integer is a 400.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "id must be a positive integer")
		return 0, false
	}

	return id, true
}
