package checklist

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"volunteerhub/internal/domain"
)

// RosterKind selects which onboarding cohort a roster read covers.
type RosterKind string

const (
	RosterInProcess RosterKind = "in_process"
	RosterApproved  RosterKind = "approved"
)

// ParseRosterKind accepts the URL spellings used by the API layer.
func ParseRosterKind(s string) (RosterKind, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case string(RosterInProcess):
		return RosterInProcess, true
	case string(RosterApproved):
		return RosterApproved, true
	}
	return "", false
}

// activeMemberships keeps memberships whose end date is unset or not yet
// past at the given instant.
func activeMemberships(ms []domain.GroupMembership, now time.Time) []domain.GroupMembership {
	out := make([]domain.GroupMembership, 0, len(ms))
	for _, m := range ms {
		if m.Active(now) {
			out = append(out, m)
		}
	}
	return out
}

// dedupeByParticipant collapses simultaneous role memberships to one entry
// per participant. First seen wins; ordering is whatever the source records
// provided.
func dedupeByParticipant(ms []domain.GroupMembership) []domain.GroupMembership {
	seen := make(map[int64]struct{}, len(ms))
	out := make([]domain.GroupMembership, 0, len(ms))
	for _, m := range ms {
		if _, ok := seen[m.ParticipantID]; ok {
			continue
		}
		seen[m.ParticipantID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// excludeParticipants drops memberships whose participant appears in the
// exclusion set (used to subtract the in-process cohort from the approved
// roster).
func excludeParticipants(ms []domain.GroupMembership, drop map[int64]struct{}) []domain.GroupMembership {
	out := make([]domain.GroupMembership, 0, len(ms))
	for _, m := range ms {
		if _, ok := drop[m.ParticipantID]; ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

func participantSet(ms []domain.GroupMembership) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ms))
	for _, m := range ms {
		set[m.ParticipantID] = struct{}{}
	}
	return set
}

// joinVolunteers resolves membership rows through participants to contacts
// and produces the roster's identity projections, sorted by last name.
// Volunteers whose contact data cannot be resolved are silently skipped —
// the upstream tolerates dangling participant rows and so must we.
func joinVolunteers(ms []domain.GroupMembership, participants []domain.Participant, contacts []domain.Contact) []domain.VolunteerInfo {
	contactByParticipant := make(map[int64]int64, len(participants))
	for _, p := range participants {
		contactByParticipant[p.ParticipantID] = p.ContactID
	}
	contactByID := make(map[int64]domain.Contact, len(contacts))
	for _, c := range contacts {
		contactByID[c.ContactID] = c
	}

	out := make([]domain.VolunteerInfo, 0, len(ms))
	for _, m := range ms {
		contactID, ok := contactByParticipant[m.ParticipantID]
		if !ok {
			continue
		}
		contact, ok := contactByID[contactID]
		if !ok {
			continue
		}
		out = append(out, domain.VolunteerInfo{
			ContactID:     contact.ContactID,
			ParticipantID: m.ParticipantID,
			MembershipID:  m.MembershipID,
			FirstName:     displayCase(contact.FirstName),
			Nickname:      displayCase(contact.Nickname),
			LastName:      displayCase(contact.LastName),
			PhotoURL:      contact.PhotoURL,
			MemberSince:   m.StartDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastName < out[j].LastName
	})
	return out
}

var titleCaser = cases.Title(language.English)

// displayCase repairs all-lower or all-upper data entry ("smith", "SMITH")
// without touching intentionally mixed-case names ("McDonald", "deWitt").
func displayCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s == strings.ToLower(s) || s == strings.ToUpper(s) {
		return titleCaser.String(strings.ToLower(s))
	}
	return s
}
