package checklist

import (
	"volunteerhub/internal/domain"
)

// assembleCard pairs a volunteer's identity with their resolved checklist.
// CompletedCount counts only plain complete items; expiring, expired and
// presumed states stay in the denominator but never the numerator.
func assembleCard(info domain.VolunteerInfo, items []domain.ChecklistItem) domain.VolunteerCard {
	completed := 0
	for _, item := range items {
		if item.Status.Satisfied() {
			completed++
		}
	}
	return domain.VolunteerCard{
		VolunteerInfo:  info,
		Checklist:      items,
		CompletedCount: completed,
		TotalCount:     len(items),
	}
}

// assembleDetail adds the raw latest records behind each checklist item so
// callers can edit notes and attach files without re-querying.
func assembleDetail(card domain.VolunteerCard, recs volunteerRecords, cfg Config) domain.VolunteerDetail {
	return domain.VolunteerDetail{
		VolunteerCard:   card,
		BackgroundCheck: latestBackgroundCheck(recs.checks),
		Certification:   latestCertification(recs.certs),
		FormResponses:   recs.forms,
		Milestones:      recs.milestones,
		WriteBack:       cfg.WriteBack(),
	}
}
