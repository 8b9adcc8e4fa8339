package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/config"
	"github.com/dentara/api/internal/domain/submission"
	"github.com/dentara/api/internal/middleware"
	"github.com/dentara/api/internal/platform"
	"github.com/dentara/api/internal/repository"
	"github.com/dentara/api/internal/service"
)

type SubmissionHandler struct {
	cfg      *config.Config
	auditSvc *service.AuditService
	log      *zap.Logger
}

func NewSubmissionHandler(cfg *config.Config, auditSvc *service.AuditService, log *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{cfg: cfg, auditSvc: auditSvc, log: log}
}

func (h *SubmissionHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/camp-submissions", h.Create)
	rg.GET("/camp-submissions", h.List)
	rg.GET("/camp-submissions/:id", h.Get)
	rg.PATCH("/camp-submissions/:id", h.Update)
	rg.DELETE("/camp-submissions/:id", h.Delete)
}

func (h *SubmissionHandler) newService(c *gin.Context) *service.SubmissionService {
	client := platform.New(h.cfg.Platform, middleware.Authorization(c), h.log)
	return service.NewSubmissionService(repository.NewSubmissionRepository(client), h.auditSvc, h.log)
}

func (h *SubmissionHandler) actor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:    middleware.UserID(c),
		RequestID: middleware.GetRequestID(c),
		IP:        c.ClientIP(),
	}
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var row submission.Row
	if !bindJSON(c, &row) {
		return
	}

	created, err := h.newService(c).Create(c.Request.Context(), &row, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *SubmissionHandler) List(c *gin.Context) {
	q := submission.ListQuery{
		Limit:  parseQueryInt(c, "limit", 0),
		Offset: parseQueryInt(c, "offset", 0),
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
	}

	res, err := h.newService(c).List(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, res)
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	row, err := h.newService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, row)
}

func (h *SubmissionHandler) Update(c *gin.Context) {
	var patch map[string]any
	if !bindJSON(c, &patch) {
		return
	}

	row, err := h.newService(c).Update(c.Request.Context(), c.Param("id"), patch, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, row)
}

func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.newService(c).Delete(c.Request.Context(), c.Param("id"), h.actor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Submission deleted successfully"})
}
