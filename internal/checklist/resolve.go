package checklist

import (
	"sort"
	"time"

	"volunteerhub/internal/domain"
)

// expiringWindow is the lookahead inside which a satisfied requirement is
// downgraded to expiring_soon.
const expiringWindow = 30 * 24 * time.Hour

// volunteerRecords is one volunteer's slice of every fetched category.
type volunteerRecords struct {
	forms      []domain.FormResponse
	milestones []domain.Milestone
	checks     []domain.BackgroundCheck
	certs      []domain.Certification
}

// itemLabels maps requirement keys to display labels. The engine overlays
// upstream definition names where available; these are the fallbacks.
var defaultLabels = map[domain.ItemKey]string{
	domain.ItemApplication:      "Application",
	domain.ItemInterview:        "Interview",
	domain.ItemReference1:       "Reference 1",
	domain.ItemReference2:       "Reference 2",
	domain.ItemReference3:       "Reference 3",
	domain.ItemBackgroundCheck:  "Background Check",
	domain.ItemMandatedReporter: "Mandated Reporter Training",
	domain.ItemChildProtection:  "Child Protection Policy",
}

// resolveChecklist is the status state machine. It is a pure function of the
// volunteer's current records and the caller-supplied now: no state is read
// or stored, so repeated calls with identical input yield identical output.
// Every requirement key yields exactly one item, in fixed order.
func resolveChecklist(cfg Config, recs volunteerRecords, now time.Time, labels map[domain.ItemKey]string) []domain.ChecklistItem {
	interview := milestonesFor(recs.milestones, cfg.InterviewMilestoneID)
	references := milestonesFor(recs.milestones, cfg.ReferenceMilestoneID)

	items := make([]domain.ChecklistItem, 0, len(domain.ItemOrder))
	for _, key := range domain.ItemOrder {
		var item domain.ChecklistItem
		switch key {
		case domain.ItemApplication:
			item = resolveForm(cfg.ApplicationFormID, recs.forms, now)
		case domain.ItemChildProtection:
			item = resolveForm(cfg.ChildProtectionFormID, recs.forms, now)
		case domain.ItemInterview:
			item = resolveMilestone(milestoneAt(interview, 0))
		case domain.ItemReference1:
			item = resolveMilestone(milestoneAt(references, 0))
		case domain.ItemReference2:
			item = resolveMilestone(milestoneAt(references, 1))
		case domain.ItemReference3:
			item = resolveMilestone(milestoneAt(references, 2))
		case domain.ItemBackgroundCheck:
			item = resolveBackgroundCheck(latestBackgroundCheck(recs.checks), now)
		case domain.ItemMandatedReporter:
			item = resolveCertification(latestCertification(recs.certs), now)
		}
		item.Key = key
		if label, ok := labels[key]; ok && label != "" {
			item.Label = label
		} else {
			item.Label = defaultLabels[key]
		}
		items = append(items, item)
	}
	return items
}

// resolveForm marks a form item complete when any response exists for the
// configured form, subject to expiration when the response carries one.
func resolveForm(formID int64, forms []domain.FormResponse, now time.Time) domain.ChecklistItem {
	if formID == 0 {
		return notStarted()
	}
	var latest *domain.FormResponse
	for i := range forms {
		f := &forms[i]
		if f.FormID != formID {
			continue
		}
		if latest == nil || moreRecentForm(f, latest) {
			latest = f
		}
	}
	if latest == nil {
		return notStarted()
	}
	item := domain.ChecklistItem{
		Date:     latest.DateSubmitted,
		RecordID: latest.ResponseID,
	}
	applyExpiry(&item, latest.DateExpires, now)
	return item
}

func moreRecentForm(a, b *domain.FormResponse) bool {
	as, bs := dateOrZero(a.DateSubmitted), dateOrZero(b.DateSubmitted)
	if !as.Equal(bs) {
		return as.After(bs)
	}
	return a.ResponseID > b.ResponseID
}

// milestonesFor selects and orders one milestone category most-recent
// first. Undated records sort after dated ones; ties break on record ID so
// slot assignment stays deterministic across reads. Reference slots 1..3
// are positional in this ordering — there is no per-record slot number
// upstream, and the surfaced RecordID lets a UI notice when slots move.
func milestonesFor(ms []domain.Milestone, milestoneID int64) []domain.Milestone {
	if milestoneID == 0 {
		return nil
	}
	out := make([]domain.Milestone, 0, len(ms))
	for _, m := range ms {
		if m.MilestoneID == milestoneID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dateOrZero(out[i].DateAccomplished), dateOrZero(out[j].DateAccomplished)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].RecordID > out[j].RecordID
	})
	return out
}

func milestoneAt(ms []domain.Milestone, idx int) *domain.Milestone {
	if idx >= len(ms) {
		return nil
	}
	return &ms[idx]
}

// resolveMilestone: complete once Date_Accomplished is set, otherwise the
// requirement has not been satisfied even if a placeholder record exists.
func resolveMilestone(m *domain.Milestone) domain.ChecklistItem {
	if m == nil {
		return notStarted()
	}
	if !m.DateAccomplished.Set() {
		return domain.ChecklistItem{Status: domain.StatusNotStarted, RecordID: m.RecordID}
	}
	return domain.ChecklistItem{
		Completed: true,
		Status:    domain.StatusComplete,
		Date:      m.DateAccomplished,
		RecordID:  m.RecordID,
	}
}

func latestBackgroundCheck(checks []domain.BackgroundCheck) *domain.BackgroundCheck {
	var latest *domain.BackgroundCheck
	for i := range checks {
		c := &checks[i]
		if latest == nil || moreRecentCheck(c, latest) {
			latest = c
		}
	}
	return latest
}

func moreRecentCheck(a, b *domain.BackgroundCheck) bool {
	as, bs := dateOrZero(a.DateStarted), dateOrZero(b.DateStarted)
	if !as.Equal(bs) {
		return as.After(bs)
	}
	return a.CheckID > b.CheckID
}

// resolveBackgroundCheck walks the vendor pipeline of the most recent check:
// cleared results expire like any other satisfied requirement; a returned
// but not cleared result counts complete but is flagged for manual review
// and never expires; submitted or merely started checks are in progress.
func resolveBackgroundCheck(check *domain.BackgroundCheck, now time.Time) domain.ChecklistItem {
	if check == nil {
		return notStarted()
	}
	item := domain.ChecklistItem{RecordID: check.CheckID}
	switch {
	case check.AllClear:
		item.Date = check.DateReturned
		applyExpiry(&item, check.DateExpires, now)
	case check.DateReturned.Set():
		item.Completed = true
		item.Status = domain.StatusComplete
		item.Date = check.DateReturned
		item.Detail = "returned without all-clear; review manually"
	case check.DateSubmitted.Set():
		item.Status = domain.StatusInProgress
		item.Date = check.DateSubmitted
	case check.DateStarted.Set():
		item.Status = domain.StatusInProgress
		item.Date = check.DateStarted
	default:
		item.Status = domain.StatusNotStarted
	}
	return item
}

func latestCertification(certs []domain.Certification) *domain.Certification {
	var latest *domain.Certification
	for i := range certs {
		c := &certs[i]
		if latest == nil || moreRecentCert(c, latest) {
			latest = c
		}
	}
	return latest
}

func moreRecentCert(a, b *domain.Certification) bool {
	as, bs := dateOrZero(a.DateCompleted), dateOrZero(b.DateCompleted)
	if !as.Equal(bs) {
		return as.After(bs)
	}
	return a.CertificationID > b.CertificationID
}

// resolveCertification: completed or passed certifications are satisfied
// subject to expiration; a record that exists but is not finished means the
// training is underway.
func resolveCertification(cert *domain.Certification, now time.Time) domain.ChecklistItem {
	if cert == nil {
		return notStarted()
	}
	item := domain.ChecklistItem{RecordID: cert.CertificationID}
	if cert.DateCompleted.Set() || cert.Passed {
		item.Date = cert.DateCompleted
		applyExpiry(&item, cert.DateExpires, now)
		return item
	}
	item.Status = domain.StatusInProgress
	return item
}

// applyExpiry finalizes an otherwise-satisfied item against its expiration
// date: already past means expired, inside the lookahead window means
// expiring_soon, otherwise plain complete. Expired items are no longer
// satisfying the checklist even though they once were.
func applyExpiry(item *domain.ChecklistItem, expires *domain.Date, now time.Time) {
	if !expires.Set() {
		item.Completed = true
		item.Status = domain.StatusComplete
		return
	}
	item.Expires = expires
	soon := now.Add(expiringWindow)
	switch {
	case expires.Before(now):
		item.Completed = false
		item.Status = domain.StatusExpired
	case expires.Before(soon):
		item.Completed = true
		item.Status = domain.StatusExpiringSoon
	default:
		item.Completed = true
		item.Status = domain.StatusComplete
	}
}

func notStarted() domain.ChecklistItem {
	return domain.ChecklistItem{Status: domain.StatusNotStarted}
}

func dateOrZero(d *domain.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
