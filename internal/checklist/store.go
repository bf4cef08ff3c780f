package checklist

import (
	"context"
	"encoding/json"

	"volunteerhub/internal/providers/caspio"
)

// Store is the subset of the record store client the engine depends on.
// Tests substitute an in-memory fake; production wires *caspio.Client.
type Store interface {
	Fetch(ctx context.Context, table string, q caspio.Query) ([]json.RawMessage, error)
	Create(ctx context.Context, table string, rows any) ([]json.RawMessage, error)
	Update(ctx context.Context, table string, where string, fields any) (int, error)
	Attach(ctx context.Context, table string, recordID int64, field string, files []caspio.File) error
}

// Upstream table names. The record store has no relational joins, so every
// cross-table relationship here is reconstructed in memory by the engine.
const (
	tableContacts         = "Contacts"
	tableParticipants     = "Participants"
	tableMemberships      = "Group_Memberships"
	tableFormResponses    = "Form_Responses"
	tableMilestones       = "Participant_Milestones"
	tableBackgroundChecks = "Background_Checks"
	tableCertifications   = "Certifications"
	tableMilestoneDefs    = "Milestone_Definitions"
	tableCertTypeDefs     = "Certification_Types"
)

// Attachment field carrying uploaded files on writable record kinds.
const (
	attachmentField   = "Documents"
	contactPhotoField = "Photo"
)
