package policy

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/credpolicy-api/internal/audit"
	"github.com/jwalitptl/credpolicy-api/internal/handler"
	"github.com/jwalitptl/credpolicy-api/internal/hook"
	"github.com/jwalitptl/credpolicy-api/internal/middleware"
	"github.com/jwalitptl/credpolicy-api/internal/policy"
	apperrors "github.com/jwalitptl/credpolicy-api/pkg/errors"
	"github.com/jwalitptl/credpolicy-api/pkg/metrics"
)

const (
	checkCredential = "credential"
	checkRequest    = "request"
)

type Handler struct {
	registry *hook.Registry
	auditor  *audit.Recorder
	metrics  *metrics.Metrics
}

func NewHandler(registry *hook.Registry, auditor *audit.Recorder, m *metrics.Metrics) *Handler {
	return &Handler{
		registry: registry,
		auditor:  auditor,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	p := r.Group("/policy")
	{
		p.POST("/credentials/check", h.CheckCredential)
		p.POST("/requests/check", h.CheckRequest)
	}
}

type checkCredentialRequest struct {
	Username  string     `json:"username" binding:"required"`
	Secret    string     `json:"secret" binding:"required"`
	Kind      string     `json:"kind" binding:"required,secretkind"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type checkRequestRequest struct {
	Kind    string            `json:"kind" binding:"required"`
	Options map[string]string `json:"options"`
}

type verdict struct {
	Allowed bool   `json:"allowed"`
	Code    string `json:"code,omitempty"`
}

// CheckCredential validates a new or changed credential before the caller
// persists it. A rejection must abort the caller's transaction.
func (h *Handler) CheckCredential(c *gin.Context) {
	var req checkCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sub := policy.CredentialSubmission{
		Username:  req.Username,
		Secret:    req.Secret,
		Kind:      policy.SecretKind(req.Kind),
		ExpiresAt: req.ExpiresAt,
	}

	start := time.Now()
	err := h.registry.CheckCredential(c.Request.Context(), sub)
	h.observe(checkCredential, start, err)

	if err != nil {
		h.respondError(c, checkCredential, req.Username, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(verdict{Allowed: true}))
}

// CheckRequest gates an attribute-change request before the caller executes
// it. Only the presence of the expiration option is judged here; its value
// is validated on the credential-check path.
func (h *Handler) CheckRequest(c *gin.Context) {
	var req checkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	change := policy.AttributeChangeRequest{
		Kind:    policy.RequestKind(req.Kind),
		Options: req.Options,
	}

	start := time.Now()
	err := h.registry.CheckRequest(c.Request.Context(), change)
	h.observe(checkRequest, start, err)

	if err != nil {
		h.respondError(c, checkRequest, "", err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(verdict{Allowed: true}))
}

func (h *Handler) respondError(c *gin.Context, check, username string, err error) {
	pe, ok := policy.AsError(err)
	if !ok {
		// Checker infrastructure failure, not a policy decision. The error
		// middleware turns this into a 500 without leaking the cause.
		c.Error(apperrors.Internal(err))
		return
	}

	h.auditor.Rejection(c.Request.Context(), check, username, c.GetString(middleware.ContextRequestID), pe)

	resp := handler.NewErrorResponse(pe.Message)
	resp.Data = verdict{Allowed: false, Code: pe.Code.String()}
	c.JSON(pe.StatusCode(), resp)
}

func (h *Handler) observe(check string, start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.CheckDuration.WithLabelValues(check).Observe(time.Since(start).Seconds())

	outcome := "allowed"
	if err != nil {
		if _, ok := policy.AsError(err); ok {
			outcome = "rejected"
		} else {
			outcome = "error"
		}
	}
	h.metrics.ChecksTotal.WithLabelValues(check, outcome).Inc()
}
