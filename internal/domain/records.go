package domain

import "time"

// Source records mirror the tables owned by the external record store. JSON
// tags follow the upstream column names; this package never renames them so
// fetch field lists and decoded rows stay aligned.

// Contact is the person-level identity record.
type Contact struct {
	ContactID int64  `json:"Contact_ID"`
	FirstName string `json:"First_Name"`
	Nickname  string `json:"Nickname"`
	LastName  string `json:"Last_Name"`
	Email     string `json:"Email"`
	PhotoURL  string `json:"Photo"`
}

// Participant scopes a contact into the volunteer program. One contact maps
// to at most one participant in this domain.
type Participant struct {
	ParticipantID int64 `json:"Participant_ID"`
	ContactID     int64 `json:"Contact_ID"`
}

// GroupMembership is a time-bounded association of a participant with a
// group and role. A nil EndDate means the membership is still open.
type GroupMembership struct {
	MembershipID  int64 `json:"Membership_ID"`
	ParticipantID int64 `json:"Participant_ID"`
	GroupID       int64 `json:"Group_ID"`
	RoleID        int64 `json:"Role_ID"`
	StartDate     *Date `json:"Start_Date"`
	EndDate       *Date `json:"End_Date"`
}

// Active reports whether the membership is open at the given instant.
func (m GroupMembership) Active(now time.Time) bool {
	return m.EndDate == nil || m.EndDate.IsZero() || !m.EndDate.Before(now)
}

// FormResponse is a submitted application or policy acknowledgement form.
type FormResponse struct {
	ResponseID    int64  `json:"Response_ID"`
	FormID        int64  `json:"Form_ID"`
	ContactID     int64  `json:"Contact_ID"`
	DateSubmitted *Date  `json:"Date_Submitted"`
	DateExpires   *Date  `json:"Date_Expires"`
	Notes         string `json:"Notes"`
}

// Milestone is a dated achievement record (interview passed, reference
// received) keyed by participant and milestone type.
type Milestone struct {
	RecordID         int64  `json:"Record_ID"`
	MilestoneID      int64  `json:"Milestone_ID"`
	ParticipantID    int64  `json:"Participant_ID"`
	ProgramID        int64  `json:"Program_ID"`
	DateAccomplished *Date  `json:"Date_Accomplished"`
	Notes            string `json:"Notes"`
}

// BackgroundCheck tracks one vendor screening for a contact.
type BackgroundCheck struct {
	CheckID       int64  `json:"Check_ID"`
	ContactID     int64  `json:"Contact_ID"`
	AllClear      bool   `json:"All_Clear"`
	DateStarted   *Date  `json:"Date_Started"`
	DateSubmitted *Date  `json:"Date_Submitted"`
	DateReturned  *Date  `json:"Date_Returned"`
	DateExpires   *Date  `json:"Date_Expires"`
	Notes         string `json:"Notes"`
}

// Certification is a training record (e.g. mandated reporter) keyed by
// participant and certification type.
type Certification struct {
	CertificationID int64  `json:"Certification_ID"`
	ParticipantID   int64  `json:"Participant_ID"`
	TypeID          int64  `json:"Type_ID"`
	DateCompleted   *Date  `json:"Date_Completed"`
	Passed          bool   `json:"Passed"`
	DateExpires     *Date  `json:"Date_Expires"`
	Notes           string `json:"Notes"`
}
