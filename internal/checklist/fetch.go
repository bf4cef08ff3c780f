package checklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/providers/caspio"
)

// fetchBatchSize caps the number of IDs in one IN(...) predicate. The
// record store rejects overlong query URLs, so key sets are chunked and
// fetched one batch at a time; a single failed batch fails the whole fetch.
const fetchBatchSize = 100

var (
	contactFields       = []string{"Contact_ID", "First_Name", "Nickname", "Last_Name", "Email", "Photo"}
	participantFields   = []string{"Participant_ID", "Contact_ID"}
	membershipFields    = []string{"Membership_ID", "Participant_ID", "Group_ID", "Role_ID", "Start_Date", "End_Date"}
	formResponseFields  = []string{"Response_ID", "Form_ID", "Contact_ID", "Date_Submitted", "Date_Expires", "Notes"}
	milestoneFields     = []string{"Record_ID", "Milestone_ID", "Participant_ID", "Program_ID", "Date_Accomplished", "Notes"}
	backgroundFields    = []string{"Check_ID", "Contact_ID", "All_Clear", "Date_Started", "Date_Submitted", "Date_Returned", "Date_Expires", "Notes"}
	certificationFields = []string{"Certification_ID", "Participant_ID", "Type_ID", "Date_Completed", "Passed", "Date_Expires", "Notes"}
)

// fetchBatched pulls every row of table whose keyField matches one of keys,
// issuing one query per batch and concatenating results. Keys are deduped
// first so the union carries no duplicate rows. An empty key set
// short-circuits without querying.
func fetchBatched[T any](ctx context.Context, store Store, table, keyField string, keys []int64, extraWhere string, fields []string) ([]T, error) {
	keys = dedupeIDs(keys)
	if len(keys) == 0 {
		return nil, nil
	}
	var out []T
	for start := 0; start < len(keys); start += fetchBatchSize {
		end := start + fetchBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		where := inPredicate(keyField, keys[start:end])
		if extraWhere != "" {
			where += " AND " + extraWhere
		}
		rows, err := store.Fetch(ctx, table, caspio.Query{Where: where, Fields: fields})
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		recs, err := caspio.DecodeRows[T](rows)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}

func fetchFormResponses(ctx context.Context, store Store, formIDs, contactIDs []int64) ([]domain.FormResponse, error) {
	if len(formIDs) == 0 {
		return nil, nil
	}
	extra := inPredicate("Form_ID", formIDs)
	return fetchBatched[domain.FormResponse](ctx, store, tableFormResponses, "Contact_ID", contactIDs, extra, formResponseFields)
}

func fetchMilestones(ctx context.Context, store Store, milestoneIDs, participantIDs []int64) ([]domain.Milestone, error) {
	if len(milestoneIDs) == 0 {
		return nil, nil
	}
	extra := inPredicate("Milestone_ID", milestoneIDs)
	return fetchBatched[domain.Milestone](ctx, store, tableMilestones, "Participant_ID", participantIDs, extra, milestoneFields)
}

func fetchBackgroundChecks(ctx context.Context, store Store, contactIDs []int64) ([]domain.BackgroundCheck, error) {
	return fetchBatched[domain.BackgroundCheck](ctx, store, tableBackgroundChecks, "Contact_ID", contactIDs, "", backgroundFields)
}

func fetchCertifications(ctx context.Context, store Store, typeID int64, participantIDs []int64) ([]domain.Certification, error) {
	if typeID == 0 {
		return nil, nil
	}
	extra := fmt.Sprintf("Type_ID=%d", typeID)
	return fetchBatched[domain.Certification](ctx, store, tableCertifications, "Participant_ID", participantIDs, extra, certificationFields)
}

func fetchParticipants(ctx context.Context, store Store, participantIDs []int64) ([]domain.Participant, error) {
	return fetchBatched[domain.Participant](ctx, store, tableParticipants, "Participant_ID", participantIDs, "", participantFields)
}

func fetchContacts(ctx context.Context, store Store, contactIDs []int64) ([]domain.Contact, error) {
	return fetchBatched[domain.Contact](ctx, store, tableContacts, "Contact_ID", contactIDs, "", contactFields)
}

// fetchMembershipsBy loads memberships keyed by group or role. Cohort ID
// sets are small, so this is a single query rather than a batched one.
func fetchMembershipsBy(ctx context.Context, store Store, keyField string, ids []int64) ([]domain.GroupMembership, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := store.Fetch(ctx, tableMemberships, caspio.Query{
		Where:  inPredicate(keyField, ids),
		Fields: membershipFields,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tableMemberships, err)
	}
	return caspio.DecodeRows[domain.GroupMembership](rows)
}

// inPredicate renders "Field IN (1,2,3)" for the upstream query language.
func inPredicate(field string, ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return field + " IN (" + strings.Join(parts, ",") + ")"
}

// dedupeIDs drops zero and repeated IDs, preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
