package checklist

import (
	"reflect"
	"testing"
	"time"

	"volunteerhub/internal/domain"
)

var testCfg = Config{
	ProcessingGroupIDs:     []int64{104},
	ApprovedRoleIDs:        []int64{12},
	ApplicationFormID:      31,
	ChildProtectionFormID:  44,
	InterviewMilestoneID:   7,
	ReferenceMilestoneID:   8,
	MandatedReporterTypeID: 3,
	ProgramID:              2,
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func day(offset int) *domain.Date {
	return domain.DateOf(testNow.AddDate(0, 0, offset))
}

func statusByKey(items []domain.ChecklistItem) map[domain.ItemKey]domain.ChecklistItem {
	m := make(map[domain.ItemKey]domain.ChecklistItem, len(items))
	for _, it := range items {
		m[it.Key] = it
	}
	return m
}

func TestResolveChecklistEmpty(t *testing.T) {
	items := resolveChecklist(testCfg, volunteerRecords{}, testNow, nil)
	if len(items) != len(domain.ItemOrder) {
		t.Fatalf("got %d items, want %d", len(items), len(domain.ItemOrder))
	}
	for i, item := range items {
		if item.Key != domain.ItemOrder[i] {
			t.Fatalf("item %d key = %q, want %q", i, item.Key, domain.ItemOrder[i])
		}
		if item.Status != domain.StatusNotStarted {
			t.Fatalf("item %q status = %q, want not_started", item.Key, item.Status)
		}
		if item.Completed {
			t.Fatalf("item %q unexpectedly completed", item.Key)
		}
		if item.Label == "" {
			t.Fatalf("item %q has no label", item.Key)
		}
	}
}

func TestResolveChecklistScenario(t *testing.T) {
	recs := volunteerRecords{
		forms: []domain.FormResponse{
			{ResponseID: 900, FormID: 31, ContactID: 1, DateSubmitted: day(-60)},
		},
		milestones: []domain.Milestone{
			{RecordID: 501, MilestoneID: 7, ParticipantID: 10, DateAccomplished: day(-40)},
			{RecordID: 502, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-30)},
			{RecordID: 503, MilestoneID: 8, ParticipantID: 10},
		},
		checks: []domain.BackgroundCheck{
			{CheckID: 700, ContactID: 1, DateStarted: day(-20), DateSubmitted: day(-18)},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	byKey := statusByKey(items)

	if got := byKey[domain.ItemApplication]; got.Status != domain.StatusComplete || !got.Completed {
		t.Fatalf("application = %+v, want complete", got)
	}
	if got := byKey[domain.ItemInterview]; got.Status != domain.StatusComplete || got.RecordID != 501 {
		t.Fatalf("interview = %+v, want complete backed by record 501", got)
	}
	if got := byKey[domain.ItemReference1]; got.Status != domain.StatusComplete || got.RecordID != 502 {
		t.Fatalf("reference_1 = %+v, want complete backed by record 502", got)
	}
	// A placeholder reference row without a date occupies the next slot but
	// does not satisfy it.
	if got := byKey[domain.ItemReference2]; got.Status != domain.StatusNotStarted || got.RecordID != 503 {
		t.Fatalf("reference_2 = %+v, want not_started backed by record 503", got)
	}
	if got := byKey[domain.ItemReference3]; got.Status != domain.StatusNotStarted || got.RecordID != 0 {
		t.Fatalf("reference_3 = %+v, want empty not_started", got)
	}
	if got := byKey[domain.ItemBackgroundCheck]; got.Status != domain.StatusInProgress {
		t.Fatalf("background_check = %+v, want in_progress", got)
	}
	if got := byKey[domain.ItemMandatedReporter]; got.Status != domain.StatusNotStarted {
		t.Fatalf("mandated_reporter = %+v, want not_started", got)
	}

	card := assembleCard(domain.VolunteerInfo{ContactID: 1, ParticipantID: 10}, items)
	if card.CompletedCount != 3 {
		t.Fatalf("completedCount = %d, want 3", card.CompletedCount)
	}
	if card.TotalCount != 8 {
		t.Fatalf("totalCount = %d, want 8", card.TotalCount)
	}
}

func TestResolveChecklistCountsEveryCompleteItem(t *testing.T) {
	recs := volunteerRecords{
		forms: []domain.FormResponse{
			{ResponseID: 900, FormID: 31, ContactID: 1, DateSubmitted: day(-7)},
		},
		milestones: []domain.Milestone{
			{RecordID: 501, MilestoneID: 7, ParticipantID: 10, DateAccomplished: day(0)},
			{RecordID: 502, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-12)},
			{RecordID: 503, MilestoneID: 8, ParticipantID: 10},
		},
		certs: []domain.Certification{
			{CertificationID: 600, ParticipantID: 10, TypeID: 3, DateCompleted: day(-320), DateExpires: day(45)},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	byKey := statusByKey(items)

	wantStatus := map[domain.ItemKey]domain.Status{
		domain.ItemApplication:      domain.StatusComplete,
		domain.ItemInterview:        domain.StatusComplete,
		domain.ItemReference1:       domain.StatusComplete,
		domain.ItemReference2:       domain.StatusNotStarted,
		domain.ItemReference3:       domain.StatusNotStarted,
		domain.ItemBackgroundCheck:  domain.StatusNotStarted,
		domain.ItemMandatedReporter: domain.StatusComplete,
		domain.ItemChildProtection:  domain.StatusNotStarted,
	}
	for key, want := range wantStatus {
		if got := byKey[key].Status; got != want {
			t.Fatalf("%s status = %q, want %q", key, got, want)
		}
	}

	// Four items are plain complete (the certification expires 45 days out,
	// beyond the expiring window), and the count includes every one of them.
	card := assembleCard(domain.VolunteerInfo{ContactID: 1, ParticipantID: 10}, items)
	if card.CompletedCount != 4 {
		t.Fatalf("completedCount = %d, want 4", card.CompletedCount)
	}
	if card.TotalCount != 8 {
		t.Fatalf("totalCount = %d, want 8", card.TotalCount)
	}
}

func TestResolveChecklistIsPure(t *testing.T) {
	recs := volunteerRecords{
		forms: []domain.FormResponse{
			{ResponseID: 900, FormID: 31, ContactID: 1, DateSubmitted: day(-5), DateExpires: day(20)},
		},
		certs: []domain.Certification{
			{CertificationID: 600, ParticipantID: 10, TypeID: 3, DateCompleted: day(-300), DateExpires: day(65)},
		},
	}
	first := resolveChecklist(testCfg, recs, testNow, nil)
	second := resolveChecklist(testCfg, recs, testNow, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated resolution diverged:\n%+v\n%+v", first, second)
	}
}

func TestApplyExpiryWindows(t *testing.T) {
	tests := []struct {
		name          string
		expires       *domain.Date
		wantStatus    domain.Status
		wantCompleted bool
	}{
		{"no expiry", nil, domain.StatusComplete, true},
		{"expires in 40 days", day(40), domain.StatusComplete, true},
		{"expires in 10 days", day(10), domain.StatusExpiringSoon, true},
		{"expires in 30 days", day(30), domain.StatusComplete, true},
		{"expired yesterday", day(-1), domain.StatusExpired, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := domain.ChecklistItem{}
			applyExpiry(&item, tc.expires, testNow)
			if item.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", item.Status, tc.wantStatus)
			}
			if item.Completed != tc.wantCompleted {
				t.Fatalf("completed = %v, want %v", item.Completed, tc.wantCompleted)
			}
		})
	}
}

func TestResolveBackgroundCheck(t *testing.T) {
	tests := []struct {
		name       string
		check      *domain.BackgroundCheck
		wantStatus domain.Status
		wantDetail string
	}{
		{"none", nil, domain.StatusNotStarted, ""},
		{
			"started only",
			&domain.BackgroundCheck{CheckID: 1, DateStarted: day(-3)},
			domain.StatusInProgress, "",
		},
		{
			"submitted",
			&domain.BackgroundCheck{CheckID: 1, DateStarted: day(-3), DateSubmitted: day(-2)},
			domain.StatusInProgress, "",
		},
		{
			"returned without clear",
			&domain.BackgroundCheck{CheckID: 1, DateReturned: day(-1)},
			domain.StatusComplete, "returned without all-clear; review manually",
		},
		{
			"all clear",
			&domain.BackgroundCheck{CheckID: 1, AllClear: true, DateReturned: day(-1), DateExpires: day(400)},
			domain.StatusComplete, "",
		},
		{
			"all clear expiring",
			&domain.BackgroundCheck{CheckID: 1, AllClear: true, DateReturned: day(-340), DateExpires: day(25)},
			domain.StatusExpiringSoon, "",
		},
		{
			"all clear expired",
			&domain.BackgroundCheck{CheckID: 1, AllClear: true, DateReturned: day(-400), DateExpires: day(-35)},
			domain.StatusExpired, "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := resolveBackgroundCheck(tc.check, testNow)
			if item.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", item.Status, tc.wantStatus)
			}
			if item.Detail != tc.wantDetail {
				t.Fatalf("detail = %q, want %q", item.Detail, tc.wantDetail)
			}
		})
	}
}

func TestReturnedWithoutClearNeverExpires(t *testing.T) {
	check := &domain.BackgroundCheck{CheckID: 1, DateReturned: day(-400), DateExpires: day(-35)}
	item := resolveBackgroundCheck(check, testNow)
	if item.Status != domain.StatusComplete || !item.Completed {
		t.Fatalf("got %+v, want manual-review complete regardless of expiry", item)
	}
}

func TestLatestBackgroundCheckWins(t *testing.T) {
	recs := volunteerRecords{
		checks: []domain.BackgroundCheck{
			{CheckID: 1, ContactID: 1, AllClear: true, DateStarted: day(-700), DateReturned: day(-690), DateExpires: day(-335)},
			{CheckID: 2, ContactID: 1, DateStarted: day(-5), DateSubmitted: day(-4)},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	got := statusByKey(items)[domain.ItemBackgroundCheck]
	if got.Status != domain.StatusInProgress || got.RecordID != 2 {
		t.Fatalf("got %+v, want in_progress from the newer check", got)
	}
}

func TestResolveCertification(t *testing.T) {
	tests := []struct {
		name       string
		cert       *domain.Certification
		wantStatus domain.Status
	}{
		{"none", nil, domain.StatusNotStarted},
		{"unfinished record", &domain.Certification{CertificationID: 1}, domain.StatusInProgress},
		{"passed without date", &domain.Certification{CertificationID: 1, Passed: true}, domain.StatusComplete},
		{"completed no expiry", &domain.Certification{CertificationID: 1, DateCompleted: day(-10)}, domain.StatusComplete},
		{"completed expiring", &domain.Certification{CertificationID: 1, DateCompleted: day(-350), DateExpires: day(15)}, domain.StatusExpiringSoon},
		{"completed expired", &domain.Certification{CertificationID: 1, DateCompleted: day(-400), DateExpires: day(-35)}, domain.StatusExpired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := resolveCertification(tc.cert, testNow)
			if item.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", item.Status, tc.wantStatus)
			}
		})
	}
}

func TestReferenceSlotOrdering(t *testing.T) {
	recs := volunteerRecords{
		milestones: []domain.Milestone{
			{RecordID: 1, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-30)},
			{RecordID: 2, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-10)},
			{RecordID: 3, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-20)},
			{RecordID: 4, MilestoneID: 8, ParticipantID: 10},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	byKey := statusByKey(items)

	// Slots fill most-recent first; the undated record never outranks a
	// dated one.
	if got := byKey[domain.ItemReference1].RecordID; got != 2 {
		t.Fatalf("slot 1 record = %d, want 2", got)
	}
	if got := byKey[domain.ItemReference2].RecordID; got != 3 {
		t.Fatalf("slot 2 record = %d, want 3", got)
	}
	if got := byKey[domain.ItemReference3].RecordID; got != 1 {
		t.Fatalf("slot 3 record = %d, want 1", got)
	}
}

func TestReferenceSlotTieBreaksOnRecordID(t *testing.T) {
	recs := volunteerRecords{
		milestones: []domain.Milestone{
			{RecordID: 11, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-10)},
			{RecordID: 12, MilestoneID: 8, ParticipantID: 10, DateAccomplished: day(-10)},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	byKey := statusByKey(items)
	if got := byKey[domain.ItemReference1].RecordID; got != 12 {
		t.Fatalf("slot 1 record = %d, want 12", got)
	}
	if got := byKey[domain.ItemReference2].RecordID; got != 11 {
		t.Fatalf("slot 2 record = %d, want 11", got)
	}
}

func TestNewerFormResponseWins(t *testing.T) {
	recs := volunteerRecords{
		forms: []domain.FormResponse{
			{ResponseID: 1, FormID: 31, ContactID: 1, DateSubmitted: day(-500), DateExpires: day(-135)},
			{ResponseID: 2, FormID: 31, ContactID: 1, DateSubmitted: day(-3)},
		},
	}
	items := resolveChecklist(testCfg, recs, testNow, nil)
	got := statusByKey(items)[domain.ItemApplication]
	if got.Status != domain.StatusComplete || got.RecordID != 2 {
		t.Fatalf("got %+v, want complete from response 2", got)
	}
}

func TestUnconfiguredCategoryDegradesToNotStarted(t *testing.T) {
	cfg := testCfg
	cfg.ApplicationFormID = 0
	recs := volunteerRecords{
		forms: []domain.FormResponse{
			{ResponseID: 1, FormID: 31, ContactID: 1, DateSubmitted: day(-3)},
		},
	}
	items := resolveChecklist(cfg, recs, testNow, nil)
	got := statusByKey(items)[domain.ItemApplication]
	if got.Status != domain.StatusNotStarted {
		t.Fatalf("status = %q, want not_started for unconfigured form", got.Status)
	}
}

func TestLabelOverlay(t *testing.T) {
	labels := map[domain.ItemKey]string{
		domain.ItemInterview: "Volunteer Interview",
	}
	items := resolveChecklist(testCfg, volunteerRecords{}, testNow, labels)
	byKey := statusByKey(items)
	if got := byKey[domain.ItemInterview].Label; got != "Volunteer Interview" {
		t.Fatalf("interview label = %q, want overlay", got)
	}
	if got := byKey[domain.ItemApplication].Label; got != "Application" {
		t.Fatalf("application label = %q, want default", got)
	}
}
