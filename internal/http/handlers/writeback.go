package handlers

import (
	"encoding/json"
	"net/http"

	"volunteerhub/internal/checklist"
)

// MilestonesCreate records a new participant milestone.
func (a *App) MilestonesCreate(w http.ResponseWriter, r *http.Request) {
	var payload checklist.MilestonePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id, err := a.Engine.CreateMilestone(r.Context(), payload)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"recordId": id})
}

// MilestonesUpdate edits an existing milestone record.
func (a *App) MilestonesUpdate(w http.ResponseWriter, r *http.Request) {
	var update checklist.RecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Engine.UpdateMilestone(r.Context(), pathID(r, "recordID"), update); err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "updated"})
}

// FormResponsesCreate records a new form response.
func (a *App) FormResponsesCreate(w http.ResponseWriter, r *http.Request) {
	var payload checklist.FormResponsePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id, err := a.Engine.CreateFormResponse(r.Context(), payload)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"responseId": id})
}

// FormResponsesUpdate edits an existing form response.
func (a *App) FormResponsesUpdate(w http.ResponseWriter, r *http.Request) {
	var update checklist.RecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Engine.UpdateFormResponse(r.Context(), pathID(r, "responseID"), update); err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CertificationsUpdate edits an existing certification record.
func (a *App) CertificationsUpdate(w http.ResponseWriter, r *http.Request) {
	var update checklist.RecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Engine.UpdateCertification(r.Context(), pathID(r, "certificationID"), update); err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Reassign moves a volunteer from their current group membership into a new
// group and role in a single call.
func (a *App) Reassign(w http.ResponseWriter, r *http.Request) {
	var req checklist.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id, err := a.Engine.Reassign(r.Context(), req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"membershipId": id})
}

// AuditRecent lists the most recent write-back audit entries. Requires the
// optional audit database to be configured.
func (a *App) AuditRecent(w http.ResponseWriter, r *http.Request) {
	if a.Audit == nil {
		a.error(w, http.StatusNotFound, "not_found", "audit log not configured")
		return
	}
	limit := int(queryID(r, "limit"))
	entries, err := a.Audit.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("audit list failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"entries": entries})
}
