package checklist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/middleware"
	"volunteerhub/internal/providers/caspio"
)

// maxPhotoBytes caps contact photo uploads.
const maxPhotoBytes = 5 << 20

// Write-back operations are independent, single-record actions. They never
// touch the read path: the next roster read recomputes everything from
// current source records, so a write followed by a read needs no cache
// invalidation.

// MilestonePayload creates a new participant milestone. The program ID is
// filled from configuration.
type MilestonePayload struct {
	ParticipantID    int64        `json:"participantId"`
	MilestoneID      int64        `json:"milestoneId"`
	DateAccomplished *domain.Date `json:"dateAccomplished,omitempty"`
	Notes            string       `json:"notes,omitempty"`
}

// CreateMilestone writes a milestone record and returns its new identity.
func (e *Engine) CreateMilestone(ctx context.Context, p MilestonePayload) (int64, error) {
	var missing []string
	if p.ParticipantID == 0 {
		missing = append(missing, "participantId")
	}
	if p.MilestoneID == 0 {
		missing = append(missing, "milestoneId")
	}
	if len(missing) > 0 {
		return 0, domain.NewValidationError(missing...)
	}

	row := map[string]any{
		"Participant_ID": p.ParticipantID,
		"Milestone_ID":   p.MilestoneID,
	}
	if e.cfg.ProgramID != 0 {
		row["Program_ID"] = e.cfg.ProgramID
	}
	if p.DateAccomplished.Set() {
		row["Date_Accomplished"] = p.DateAccomplished
	}
	if p.Notes != "" {
		row["Notes"] = p.Notes
	}

	created, err := createOne[domain.Milestone](ctx, e.store, tableMilestones, row)
	if err != nil {
		return 0, err
	}
	e.recordAudit(ctx, "milestone.create", tableMilestones, created.RecordID, "")
	return created.RecordID, nil
}

// FormResponsePayload creates a new form response for a contact.
type FormResponsePayload struct {
	ContactID     int64        `json:"contactId"`
	FormID        int64        `json:"formId"`
	DateSubmitted *domain.Date `json:"dateSubmitted,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

// CreateFormResponse writes a form response and returns its new identity.
func (e *Engine) CreateFormResponse(ctx context.Context, p FormResponsePayload) (int64, error) {
	var missing []string
	if p.ContactID == 0 {
		missing = append(missing, "contactId")
	}
	if p.FormID == 0 {
		missing = append(missing, "formId")
	}
	if len(missing) > 0 {
		return 0, domain.NewValidationError(missing...)
	}

	row := map[string]any{
		"Contact_ID": p.ContactID,
		"Form_ID":    p.FormID,
	}
	if p.DateSubmitted.Set() {
		row["Date_Submitted"] = p.DateSubmitted
	}
	if p.Notes != "" {
		row["Notes"] = p.Notes
	}

	created, err := createOne[domain.FormResponse](ctx, e.store, tableFormResponses, row)
	if err != nil {
		return 0, err
	}
	e.recordAudit(ctx, "form_response.create", tableFormResponses, created.ResponseID, "")
	return created.ResponseID, nil
}

// RecordUpdate carries the editable fields shared by milestone,
// certification and form-response updates. Nil pointers leave the upstream
// value untouched.
type RecordUpdate struct {
	Date    *domain.Date `json:"date,omitempty"`
	Expires *domain.Date `json:"expires,omitempty"`
	Passed  *bool        `json:"passed,omitempty"`
	Notes   *string      `json:"notes,omitempty"`
}

// UpdateMilestone edits a milestone's accomplishment date and notes.
func (e *Engine) UpdateMilestone(ctx context.Context, recordID int64, u RecordUpdate) error {
	fields := map[string]any{}
	if u.Date != nil {
		fields["Date_Accomplished"] = u.Date
	}
	if u.Notes != nil {
		fields["Notes"] = *u.Notes
	}
	if err := e.updateOne(ctx, tableMilestones, "Record_ID", recordID, fields); err != nil {
		return err
	}
	e.recordAudit(ctx, "milestone.update", tableMilestones, recordID, "")
	return nil
}

// UpdateCertification edits a certification's completion, pass flag,
// expiration and notes.
func (e *Engine) UpdateCertification(ctx context.Context, certificationID int64, u RecordUpdate) error {
	fields := map[string]any{}
	if u.Date != nil {
		fields["Date_Completed"] = u.Date
	}
	if u.Expires != nil {
		fields["Date_Expires"] = u.Expires
	}
	if u.Passed != nil {
		fields["Passed"] = *u.Passed
	}
	if u.Notes != nil {
		fields["Notes"] = *u.Notes
	}
	if err := e.updateOne(ctx, tableCertifications, "Certification_ID", certificationID, fields); err != nil {
		return err
	}
	e.recordAudit(ctx, "certification.update", tableCertifications, certificationID, "")
	return nil
}

// UpdateFormResponse edits a form response's submission date and notes.
func (e *Engine) UpdateFormResponse(ctx context.Context, responseID int64, u RecordUpdate) error {
	fields := map[string]any{}
	if u.Date != nil {
		fields["Date_Submitted"] = u.Date
	}
	if u.Expires != nil {
		fields["Date_Expires"] = u.Expires
	}
	if u.Notes != nil {
		fields["Notes"] = *u.Notes
	}
	if err := e.updateOne(ctx, tableFormResponses, "Response_ID", responseID, fields); err != nil {
		return err
	}
	e.recordAudit(ctx, "form_response.update", tableFormResponses, responseID, "")
	return nil
}

// DocumentCategory names the record kinds that accept file attachments.
type DocumentCategory string

const (
	DocMilestone     DocumentCategory = "milestones"
	DocCertification DocumentCategory = "certifications"
	DocFormResponse  DocumentCategory = "form-responses"
)

func (c DocumentCategory) table() (string, string, bool) {
	switch c {
	case DocMilestone:
		return tableMilestones, attachmentField, true
	case DocCertification:
		return tableCertifications, attachmentField, true
	case DocFormResponse:
		return tableFormResponses, attachmentField, true
	}
	return "", "", false
}

// UploadDocument attaches supporting files to a milestone, certification or
// form-response record.
func (e *Engine) UploadDocument(ctx context.Context, category DocumentCategory, recordID int64, files []caspio.File) error {
	table, field, ok := category.table()
	if !ok {
		return domain.NewValidationError("category")
	}
	if recordID == 0 {
		return domain.NewValidationError("recordId")
	}
	if len(files) == 0 {
		return domain.NewValidationError("files")
	}
	if err := e.store.Attach(ctx, table, recordID, field, files); err != nil {
		return err
	}
	e.recordAudit(ctx, "document.upload", table, recordID, fmt.Sprintf("%d file(s)", len(files)))
	return nil
}

// UploadContactPhoto replaces a contact's photo. Uploads beyond
// maxPhotoBytes are rejected before any upstream call.
func (e *Engine) UploadContactPhoto(ctx context.Context, contactID int64, photo caspio.File) error {
	if contactID == 0 {
		return domain.NewValidationError("contactId")
	}
	if len(photo.Data) == 0 {
		return domain.NewValidationError("photo")
	}
	if len(photo.Data) > maxPhotoBytes {
		return domain.NewValidationError("photo too large")
	}
	if err := e.store.Attach(ctx, tableContacts, contactID, contactPhotoField, []caspio.File{photo}); err != nil {
		return err
	}
	e.recordAudit(ctx, "contact.photo", tableContacts, contactID, photo.Name)
	return nil
}

// ReassignRequest moves a volunteer from their current membership to a new
// group and role (typically onboarding → approved serving group). All four
// identifiers are required; supplying a subset is a validation failure and
// no upstream call is made.
type ReassignRequest struct {
	CurrentMembershipID int64 `json:"currentMembershipId"`
	ParticipantID       int64 `json:"participantId"`
	TargetGroupID       int64 `json:"targetGroupId"`
	TargetRoleID        int64 `json:"targetRoleId"`
}

// Reassign ends the current membership and opens the target one, returning
// the new membership's identity.
func (e *Engine) Reassign(ctx context.Context, req ReassignRequest) (int64, error) {
	var missing []string
	if req.CurrentMembershipID == 0 {
		missing = append(missing, "currentMembershipId")
	}
	if req.ParticipantID == 0 {
		missing = append(missing, "participantId")
	}
	if req.TargetGroupID == 0 {
		missing = append(missing, "targetGroupId")
	}
	if req.TargetRoleID == 0 {
		missing = append(missing, "targetRoleId")
	}
	if len(missing) > 0 {
		return 0, domain.NewValidationError(missing...)
	}

	now := domain.NewDate(e.now())
	where := fmt.Sprintf("Membership_ID=%d", req.CurrentMembershipID)
	affected, err := e.store.Update(ctx, tableMemberships, where, map[string]any{"End_Date": now})
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, domain.ErrNotFound
	}

	row := map[string]any{
		"Participant_ID": req.ParticipantID,
		"Group_ID":       req.TargetGroupID,
		"Role_ID":        req.TargetRoleID,
		"Start_Date":     now,
	}
	created, err := createOne[domain.GroupMembership](ctx, e.store, tableMemberships, row)
	if err != nil {
		return 0, err
	}
	e.recordAudit(ctx, "membership.reassign", tableMemberships, created.MembershipID,
		fmt.Sprintf("from membership %d", req.CurrentMembershipID))
	return created.MembershipID, nil
}

// createOne inserts a single row and decodes the created record.
func createOne[T any](ctx context.Context, store Store, table string, row map[string]any) (*T, error) {
	rows, err := store.Create(ctx, table, []map[string]any{row})
	if err != nil {
		return nil, err
	}
	recs, err := caspio.DecodeRows[T](rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: create returned no rows", domain.ErrUpstreamFailure)
	}
	return &recs[0], nil
}

// updateOne applies fields to a single record by primary key.
func (e *Engine) updateOne(ctx context.Context, table, idField string, id int64, fields map[string]any) error {
	if id == 0 {
		return domain.NewValidationError("recordId")
	}
	if len(fields) == 0 {
		return domain.NewValidationError("no fields to update")
	}
	where := fmt.Sprintf("%s=%d", idField, id)
	affected, err := e.store.Update(ctx, table, where, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// recordAudit appends a best-effort audit entry; failures are logged, never
// surfaced to the caller.
func (e *Engine) recordAudit(ctx context.Context, action, table string, recordID int64, detail string) {
	if e.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		RequestID: middleware.RequestIDFromContext(ctx),
		Detail:    detail,
		CreatedAt: e.now(),
	}
	if err := e.audit.Record(ctx, entry); err != nil {
		e.logger.Warn().Err(err).Str("action", action).Msg("write-back audit entry failed")
	}
}
