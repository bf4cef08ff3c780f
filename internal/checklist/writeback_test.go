package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/providers/caspio"
)

func TestCreateMilestone(t *testing.T) {
	store := &fakeStore{
		createFn: func(table string, rows any) ([]json.RawMessage, error) {
			return mustRows(t, domain.Milestone{RecordID: 777, MilestoneID: 8, ParticipantID: 10}), nil
		},
	}
	engine := newTestEngine(t, store)

	id, err := engine.CreateMilestone(context.Background(), MilestonePayload{
		ParticipantID:    10,
		MilestoneID:      8,
		DateAccomplished: day(-1),
	})
	if err != nil {
		t.Fatalf("CreateMilestone: %v", err)
	}
	if id != 777 {
		t.Fatalf("record id = %d, want 777", id)
	}
	if len(store.creates) != 1 || store.creates[0].table != tableMilestones {
		t.Fatalf("unexpected create calls: %+v", store.creates)
	}
	rows := store.creates[0].rows.([]map[string]any)
	if rows[0]["Program_ID"] != testCfg.ProgramID {
		t.Fatalf("program id not stamped onto milestone: %+v", rows[0])
	}
}

func TestCreateMilestoneValidation(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)
	_, err := engine.CreateMilestone(context.Background(), MilestonePayload{MilestoneID: 8})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.callCount() != 0 {
		t.Fatalf("invalid payload reached the store")
	}
}

func TestCreateFormResponse(t *testing.T) {
	store := &fakeStore{
		createFn: func(table string, rows any) ([]json.RawMessage, error) {
			return mustRows(t, domain.FormResponse{ResponseID: 901, FormID: 31, ContactID: 100}), nil
		},
	}
	engine := newTestEngine(t, store)
	id, err := engine.CreateFormResponse(context.Background(), FormResponsePayload{
		ContactID:     100,
		FormID:        31,
		DateSubmitted: day(0),
	})
	if err != nil {
		t.Fatalf("CreateFormResponse: %v", err)
	}
	if id != 901 {
		t.Fatalf("response id = %d, want 901", id)
	}
}

func TestUpdateMilestone(t *testing.T) {
	store := &fakeStore{
		updateFn: func(table, where string, fields any) (int, error) {
			return 1, nil
		},
	}
	engine := newTestEngine(t, store)
	notes := "reference letter received"
	if err := engine.UpdateMilestone(context.Background(), 501, RecordUpdate{Date: day(-2), Notes: &notes}); err != nil {
		t.Fatalf("UpdateMilestone: %v", err)
	}
	call := store.updates[0]
	if call.table != tableMilestones || call.where != "Record_ID=501" {
		t.Fatalf("unexpected update target: %+v", call)
	}
	fields := call.fields.(map[string]any)
	if _, ok := fields["Date_Accomplished"]; !ok {
		t.Fatalf("date not mapped: %+v", fields)
	}
	if fields["Notes"] != notes {
		t.Fatalf("notes not mapped: %+v", fields)
	}
}

func TestUpdateMissingRecordIsNotFound(t *testing.T) {
	store := &fakeStore{
		updateFn: func(table, where string, fields any) (int, error) {
			return 0, nil
		},
	}
	engine := newTestEngine(t, store)
	err := engine.UpdateCertification(context.Background(), 999, RecordUpdate{Date: day(0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateWithNoFieldsIsValidation(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)
	err := engine.UpdateFormResponse(context.Background(), 900, RecordUpdate{})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.callCount() != 0 {
		t.Fatalf("empty update reached the store")
	}
}

func TestUploadDocumentRouting(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)
	files := []caspio.File{{Name: "letter.pdf", ContentType: "application/pdf", Data: []byte("pdf")}}

	if err := engine.UploadDocument(context.Background(), DocCertification, 600, files); err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	call := store.attaches[0]
	if call.table != tableCertifications || call.field != attachmentField || call.recordID != 600 {
		t.Fatalf("unexpected attach call: %+v", call)
	}
}

func TestUploadDocumentUnknownCategory(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)
	err := engine.UploadDocument(context.Background(), DocumentCategory("contacts"), 1, []caspio.File{{Name: "x", Data: []byte("x")}})
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.callCount() != 0 {
		t.Fatalf("unknown category reached the store")
	}
}

func TestUploadContactPhotoTooLarge(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)
	big := caspio.File{Name: "huge.jpg", Data: make([]byte, maxPhotoBytes+1)}
	err := engine.UploadContactPhoto(context.Background(), 100, big)
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.callCount() != 0 {
		t.Fatalf("oversized photo reached the store")
	}
}

func TestReassign(t *testing.T) {
	store := &fakeStore{
		updateFn: func(table, where string, fields any) (int, error) {
			return 1, nil
		},
		createFn: func(table string, rows any) ([]json.RawMessage, error) {
			return mustRows(t, domain.GroupMembership{MembershipID: 55, ParticipantID: 10, GroupID: 300, RoleID: 12}), nil
		},
	}
	engine := newTestEngine(t, store)

	id, err := engine.Reassign(context.Background(), ReassignRequest{
		CurrentMembershipID: 1,
		ParticipantID:       10,
		TargetGroupID:       300,
		TargetRoleID:        12,
	})
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if id != 55 {
		t.Fatalf("new membership id = %d, want 55", id)
	}
	if store.updates[0].where != "Membership_ID=1" {
		t.Fatalf("current membership not targeted: %+v", store.updates[0])
	}
	if _, ok := store.updates[0].fields.(map[string]any)["End_Date"]; !ok {
		t.Fatalf("current membership not closed: %+v", store.updates[0].fields)
	}
	created := store.creates[0].rows.([]map[string]any)[0]
	if created["Group_ID"] != int64(300) || created["Role_ID"] != int64(12) {
		t.Fatalf("target membership wrong: %+v", created)
	}
}

func TestReassignRequiresAllFourIdentifiers(t *testing.T) {
	store := &fakeStore{}
	engine := newTestEngine(t, store)

	_, err := engine.Reassign(context.Background(), ReassignRequest{
		CurrentMembershipID: 1,
		TargetGroupID:       300,
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation error", err)
	}
	want := []string{"participantId", "targetRoleId"}
	if strings.Join(verr.Fields, ",") != strings.Join(want, ",") {
		t.Fatalf("fields = %v, want %v", verr.Fields, want)
	}
	if store.callCount() != 0 {
		t.Fatalf("partial reassignment reached the store")
	}
}

func TestReassignMissingCurrentMembership(t *testing.T) {
	store := &fakeStore{
		updateFn: func(table, where string, fields any) (int, error) {
			return 0, nil
		},
	}
	engine := newTestEngine(t, store)
	_, err := engine.Reassign(context.Background(), ReassignRequest{
		CurrentMembershipID: 404,
		ParticipantID:       10,
		TargetGroupID:       300,
		TargetRoleID:        12,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if len(store.creates) != 0 {
		t.Fatalf("new membership created despite missing current one")
	}
}
