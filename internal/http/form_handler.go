package http

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/ratelimiter"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

// FormSubmitNamespace is the rate limit namespace of forms.submit, keyed by client IP
const FormSubmitNamespace = "forms.submit"

// FormHandler serves the public form submission endpoint
type FormHandler struct {
	service        domain.FormService
	limiter        ratelimiter.Limiter
	retryAfter     time.Duration
	trustedProxies []*net.IPNet
	logger         logger.Logger
}

// NewFormHandler creates the handler. Forwarding headers are only honoured from trustedProxies.
func NewFormHandler(service domain.FormService, limiter ratelimiter.Limiter, retryAfter time.Duration, trustedProxies []*net.IPNet, logger logger.Logger) *FormHandler {
	return &FormHandler{
		service:        service,
		limiter:        limiter,
		retryAfter:     retryAfter,
		trustedProxies: trustedProxies,
		logger:         logger,
	}
}

func (h *FormHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/forms.submit", h.handleSubmit)
}

func (h *FormHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ip := clientIP(r, h.trustedProxies)
	if !h.allow(r, ip) {
		tracing.RecordRateLimitRejected(r.Context())
		if h.retryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(h.retryAfter.Round(time.Second).Seconds())))
		}
		WriteJSONError(w, "Too many submissions, please try again later", http.StatusTooManyRequests)
		return
	}

	var req domain.SubmitFormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Submit(r.Context(), &req, ip)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to submit form")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// allow fails open when the limiter backend is unavailable
func (h *FormHandler) allow(r *http.Request, ip string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, err := h.limiter.Allow(r.Context(), FormSubmitNamespace, ip)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"ip":    ip,
			"error": err.Error(),
		}).Warn("Rate limiter unavailable, allowing form submission")
		return true
	}
	if !allowed {
		h.logger.WithField("ip", ip).Warn("Form submission rate limited")
	}
	return allowed
}
