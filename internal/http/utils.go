package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// maxRequestBodySize bounds every JSON body read by the API
const maxRequestBodySize = 1 << 20

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a size limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service errors to status codes. Validation errors are 400,
// missing entities 404, anything else 500 with the generic fallback message.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error, fallback string) {
	switch {
	case domain.IsValidationError(err):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case domain.IsNotFound(err):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	default:
		log.WithField("error", err.Error()).Error(fallback)
		WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}

// writeRunError reports a failed workflow run. An action failure carries the
// execution id so the caller can look the execution up.
func writeRunError(w http.ResponseWriter, log logger.Logger, err error, result *domain.RunResult) {
	var actionErr *domain.ActionError
	if !errors.As(err, &actionErr) {
		writeServiceError(w, log, err, "Failed to execute workflow")
		return
	}

	executionID := actionErr.ExecutionID
	if executionID == "" && result != nil {
		executionID = result.ExecutionID
	}
	log.WithFields(map[string]interface{}{
		"execution_id": executionID,
		"action_index": actionErr.Index,
		"action_type":  string(actionErr.Type),
		"error":        err.Error(),
	}).Warn("Workflow execution failed")

	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error":        "Workflow execution failed",
		"details":      err.Error(),
		"execution_id": executionID,
	})
}

// ParseTrustedProxies turns CIDRs or bare IPs into networks; a bare IP becomes a single-host network
func ParseTrustedProxies(entries []string) ([]*net.IPNet, error) {
	networks := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		if _, network, err := net.ParseCIDR(entry); err == nil {
			networks = append(networks, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy: %s", entry)
		}
		bits := 8 * net.IPv6len
		if ip4 := ip.To4(); ip4 != nil {
			ip, bits = ip4, 8*net.IPv4len
		}
		networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return networks, nil
}

func isTrustedProxy(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP returns the peer address unless the peer is a trusted proxy. Behind a trusted
// proxy, X-Forwarded-For is walked from the right and the first untrusted hop wins, with
// X-Real-IP as a fallback when the header carries no usable hop.
func clientIP(r *http.Request, trusted []*net.IPNet) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if len(trusted) == 0 || !isTrustedProxy(net.ParseIP(peer), trusted) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := net.ParseIP(strings.TrimSpace(hops[i]))
			if hop == nil {
				// A malformed hop ends the trusted chain
				break
			}
			if !isTrustedProxy(hop, trusted) {
				return hop.String()
			}
		}
	}
	if realIP := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); realIP != nil {
		return realIP.String()
	}
	return peer
}
