package domain

// VolunteerInfo is the identity projection shown on roster cards. It is
// recomputed on every roster fetch and never persisted.
type VolunteerInfo struct {
	ContactID     int64  `json:"contactId"`
	ParticipantID int64  `json:"participantId"`
	MembershipID  int64  `json:"membershipId"`
	FirstName     string `json:"firstName"`
	Nickname      string `json:"nickname,omitempty"`
	LastName      string `json:"lastName"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	MemberSince   *Date  `json:"memberSince,omitempty"`
}

// DisplayName prefers the nickname over the legal first name.
func (v VolunteerInfo) DisplayName() string {
	first := v.FirstName
	if v.Nickname != "" {
		first = v.Nickname
	}
	if first == "" {
		return v.LastName
	}
	return first + " " + v.LastName
}

// ChecklistItem is one onboarding requirement and its derived status.
// RecordID identifies the backing source record so a UI can detect slot
// reassignment between reads (references are positional).
type ChecklistItem struct {
	Key       ItemKey `json:"key"`
	Label     string  `json:"label"`
	Completed bool    `json:"completed"`
	Date      *Date   `json:"date,omitempty"`
	Expires   *Date   `json:"expires,omitempty"`
	Status    Status  `json:"status"`
	Detail    string  `json:"detail,omitempty"`
	RecordID  int64   `json:"recordId,omitempty"`
}

// VolunteerCard is the roster summary: identity plus the full checklist and
// derived completion counts.
type VolunteerCard struct {
	VolunteerInfo
	Checklist      []ChecklistItem `json:"checklist"`
	CompletedCount int             `json:"completedCount"`
	TotalCount     int             `json:"totalCount"`
}

// WriteBackConfig tells callers which external IDs write-back actions for
// this volunteer should target.
type WriteBackConfig struct {
	ProgramID             int64 `json:"programId"`
	InterviewMilestoneID  int64 `json:"interviewMilestoneId"`
	ReferenceMilestoneID  int64 `json:"referenceMilestoneId"`
	ApplicationFormID     int64 `json:"applicationFormId"`
	ChildProtectionFormID int64 `json:"childProtectionFormId"`
	CertificationTypeID   int64 `json:"certificationTypeId"`
}

// VolunteerDetail extends the card with the raw latest records behind each
// checklist item so callers can render and edit notes and attachments.
type VolunteerDetail struct {
	VolunteerCard
	BackgroundCheck *BackgroundCheck `json:"backgroundCheck,omitempty"`
	Certification   *Certification   `json:"certification,omitempty"`
	FormResponses   []FormResponse   `json:"formResponses,omitempty"`
	Milestones      []Milestone      `json:"milestones,omitempty"`
	WriteBack       WriteBackConfig  `json:"writeBackConfig"`
}
