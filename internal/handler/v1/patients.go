// Package v1 exposes the HTTP surface. Handlers construct their service
// stack per request around a platform client bound to the caller's bearer
// token, so no handler state is shared between tenants.
package v1

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/config"
	"github.com/dentara/api/internal/intake"
	"github.com/dentara/api/internal/middleware"
	"github.com/dentara/api/internal/photo"
	"github.com/dentara/api/internal/platform"
	"github.com/dentara/api/internal/repository"
	"github.com/dentara/api/internal/service"
	"github.com/dentara/api/pkg/metrics"
)

type PatientHandler struct {
	cfg       *config.Config
	auditSvc  *service.AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewPatientHandler(cfg *config.Config, auditSvc *service.AuditService, collector *metrics.Collector, log *zap.Logger) *PatientHandler {
	return &PatientHandler{cfg: cfg, auditSvc: auditSvc, collector: collector, log: log}
}

func (h *PatientHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/patients", h.Create)
	rg.GET("/patients", h.List)
	rg.GET("/patients/:id", h.Get)
	rg.PATCH("/patients/:id", h.Update)
	rg.DELETE("/patients/:id", h.Delete)
	rg.PUT("/patients/:id/photo", h.UpdatePhoto)
}

func (h *PatientHandler) newService(c *gin.Context) *service.PatientService {
	client := platform.New(h.cfg.Platform, middleware.Authorization(c), h.log).WithCollector(h.collector)
	resolver := photo.NewResolver(h.cfg.Storage.Bucket, h.cfg.Storage.SignTTLSeconds, client, h.collector, h.log)
	return service.NewPatientService(
		repository.NewPatientRepository(client),
		client,
		resolver,
		h.auditSvc,
		h.collector,
		h.log,
		h.cfg.Storage.Bucket,
		h.cfg.Storage.SignConcurrency,
	)
}

func (h *PatientHandler) actor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:    middleware.UserID(c),
		RequestID: middleware.GetRequestID(c),
		IP:        c.ClientIP(),
	}
}

// Create accepts either a JSON submission body or a multipart form with a
// "payload" JSON part and an optional "photo" image part.
func (h *PatientHandler) Create(c *gin.Context) {
	var sub intake.Submission
	upload, ok := h.decodeBody(c, &sub)
	if !ok {
		return
	}

	row, err := h.newService(c).Create(c.Request.Context(), &sub, upload, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, row)
}

func (h *PatientHandler) List(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 100)
	offset := parseQueryInt(c, "offset", 0)

	rows, err := h.newService(c).List(c.Request.Context(), limit, offset, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *PatientHandler) Get(c *gin.Context) {
	row, meta, err := h.newService(c).Get(c.Request.Context(), c.Param("id"), h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"patient": row, "meta": meta})
}

func (h *PatientHandler) Update(c *gin.Context) {
	var payload intake.ProfilePayload
	upload, ok := h.decodeBody(c, &payload)
	if !ok {
		return
	}

	row, err := h.newService(c).Update(c.Request.Context(), c.Param("id"), &payload, upload, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, row)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	if err := h.newService(c).Delete(c.Request.Context(), c.Param("id"), h.actor(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Patient deleted successfully"})
}

// UpdatePhoto replaces just the photo: a JSON body with photoUrl, or a
// multipart form with a "photo" image part.
func (h *PatientHandler) UpdatePhoto(c *gin.Context) {
	var body struct {
		PhotoURL *string `json:"photoUrl"`
	}
	upload, ok := h.decodeBody(c, &body)
	if !ok {
		return
	}

	row, err := h.newService(c).UpdatePhoto(c.Request.Context(), c.Param("id"), body.PhotoURL, upload, h.actor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, row)
}

// decodeBody handles the dual body encoding shared by the patient
// endpoints. For multipart requests the JSON document rides in the
// "payload" part and the image in the "photo" part; otherwise the whole
// body is the JSON document. ok is false after a response was written.
func (h *PatientHandler) decodeBody(c *gin.Context, out any) (*service.PhotoUpload, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if c.Request.ContentLength == 0 {
			return nil, true
		}
		return nil, bindJSON(c, out)
	}

	if raw := c.PostForm("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			respondError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
			return nil, false
		}
	}

	header, err := c.FormFile("photo")
	if err != nil {
		// No file part; the form may still carry a payload.
		return nil, true
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		respondError(c, http.StatusBadRequest, "Only image uploads are allowed")
		return nil, false
	}
	if header.Size > h.cfg.Storage.MaxUploadBytes {
		respondError(c, http.StatusBadRequest, "image exceeds the upload size limit")
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable photo upload")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Storage.MaxUploadBytes+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable photo upload")
		return nil, false
	}
	if int64(len(data)) > h.cfg.Storage.MaxUploadBytes {
		respondError(c, http.StatusBadRequest, "image exceeds the upload size limit")
		return nil, false
	}

	return &service.PhotoUpload{Data: data, ContentType: contentType}, true
}
