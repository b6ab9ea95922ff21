package http

import (
	"encoding/json"
	"net/http"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/http/middleware"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// WorkflowHandler serves workflow administration, manual execution and the inactivity scan
type WorkflowHandler struct {
	service      domain.WorkflowService
	runner       domain.WorkflowRunner
	scanner      domain.InactivityScanner
	logger       logger.Logger
	getJWTSecret func() ([]byte, error)
}

func NewWorkflowHandler(
	service domain.WorkflowService,
	runner domain.WorkflowRunner,
	scanner domain.InactivityScanner,
	getJWTSecret func() ([]byte, error),
	logger logger.Logger,
) *WorkflowHandler {
	return &WorkflowHandler{
		service:      service,
		runner:       runner,
		scanner:      scanner,
		logger:       logger,
		getJWTSecret: getJWTSecret,
	}
}

func (h *WorkflowHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := middleware.NewAuthMiddleware(h.getJWTSecret).RequireAuth()

	mux.Handle("/api/workflows.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/workflows.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/workflows.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/workflows.update", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("/api/workflows.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/workflows.activate", requireAuth(http.HandlerFunc(h.handleActivate)))
	mux.Handle("/api/workflows.pause", requireAuth(http.HandlerFunc(h.handlePause)))

	mux.Handle("/api/workflows.execute", requireAuth(http.HandlerFunc(h.handleExecute)))
	mux.Handle("/api/workflows.scanInactivity", requireAuth(http.HandlerFunc(h.handleScanInactivity)))

	mux.Handle("/api/workflows.executions", requireAuth(http.HandlerFunc(h.handleListExecutions)))
	mux.Handle("/api/workflowExecutions.get", requireAuth(http.HandlerFunc(h.handleGetExecution)))
}

func (h *WorkflowHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CreateWorkflowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	workflow, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create workflow")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *WorkflowHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.WorkflowIDRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	workflow, err := h.service.Get(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *WorkflowHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListWorkflowsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	workflows, err := h.service.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list workflows")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflows": workflows,
		"total":     len(workflows),
	})
}

func (h *WorkflowHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.UpdateWorkflowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	workflow, err := h.service.Update(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *WorkflowHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIDRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), req.ID); err != nil {
		writeServiceError(w, h.logger, err, "Failed to delete workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *WorkflowHandler) handleActivate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIDRequest(w, r)
	if !ok {
		return
	}

	workflow, err := h.service.Activate(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to activate workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *WorkflowHandler) handlePause(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeIDRequest(w, r)
	if !ok {
		return
	}

	workflow, err := h.service.Pause(r.Context(), req.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to pause workflow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"workflow": workflow,
	})
}

func (h *WorkflowHandler) decodeIDRequest(w http.ResponseWriter, r *http.Request) (*domain.WorkflowIDRequest, bool) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req domain.WorkflowIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// handleExecute runs an active workflow now, for an optional contact
func (h *WorkflowHandler) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ExecuteWorkflowRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	triggerData := req.TriggerData
	if len(triggerData) == 0 {
		triggerData = json.RawMessage(`{"type":"manual"}`)
	}

	result, err := h.runner.Run(r.Context(), domain.RunRequest{
		WorkflowID:  req.WorkflowID,
		ContactID:   req.ContactID,
		TriggerData: triggerData,
	})
	if err != nil {
		writeRunError(w, h.logger, err, result)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"execution_id":      result.ExecutionID,
		"actions_completed": result.ActionsCompleted,
		"status":            result.Status,
	})
}

func (h *WorkflowHandler) handleScanInactivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.scanner.Scan(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to scan inactive contacts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"workflows_scanned":  result.WorkflowsScanned,
		"contacts_triggered": result.ContactsTriggered,
		"contacts_skipped":   result.ContactsSkipped,
		"failures":           result.Failures,
	})
}

func (h *WorkflowHandler) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListExecutionsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	executions, total, err := h.service.ListExecutions(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list executions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"executions": executions,
		"total":      total,
	})
}

func (h *WorkflowHandler) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	execution, err := h.service.GetExecution(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get execution")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"execution": execution,
	})
}
