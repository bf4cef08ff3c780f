package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"volunteerhub/internal/checklist"
)

// RosterInProcess lists volunteers currently working through onboarding.
func (a *App) RosterInProcess(w http.ResponseWriter, r *http.Request) {
	a.roster(w, r, checklist.RosterInProcess)
}

// RosterApproved lists approved volunteers not still in an onboarding group.
func (a *App) RosterApproved(w http.ResponseWriter, r *http.Request) {
	a.roster(w, r, checklist.RosterApproved)
}

func (a *App) roster(w http.ResponseWriter, r *http.Request, kind checklist.RosterKind) {
	cards, err := a.Engine.GetRoster(r.Context(), kind)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"volunteers": cards})
}

// VolunteerDetail resolves one volunteer's full checklist view. Participant
// and membership identifiers ride as query parameters because the record
// store keys the categories differently.
func (a *App) VolunteerDetail(w http.ResponseWriter, r *http.Request) {
	contactID := pathID(r, "contactID")
	participantID := queryID(r, "participant")
	membershipID := queryID(r, "membership")

	detail, err := a.Engine.GetVolunteerDetail(r.Context(), contactID, participantID, membershipID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, detail)
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

func queryID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return id
}
