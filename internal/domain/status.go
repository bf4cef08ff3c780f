package domain

// Status enumerates the derived completion states of a checklist item.
//
// The resolver recomputes the status from the latest source records on every
// read; nothing is persisted. StatusPresumedComplete is part of the fixed
// status vocabulary consumed by UIs but is not currently produced by the
// resolver.
type Status string

const (
	StatusNotStarted       Status = "not_started"
	StatusInProgress       Status = "in_progress"
	StatusComplete         Status = "complete"
	StatusExpiringSoon     Status = "expiring_soon"
	StatusExpired          Status = "expired"
	StatusPresumedComplete Status = "presumed_complete"
)

// Satisfied reports whether the status counts toward a volunteer's
// completed total. Expiring, expired and presumed states intentionally do
// not.
func (s Status) Satisfied() bool {
	return s == StatusComplete
}

// ItemKey identifies one onboarding requirement. The set is fixed and the
// assembler emits items in this order.
type ItemKey string

const (
	ItemApplication      ItemKey = "application"
	ItemInterview        ItemKey = "interview"
	ItemReference1       ItemKey = "reference_1"
	ItemReference2       ItemKey = "reference_2"
	ItemReference3       ItemKey = "reference_3"
	ItemBackgroundCheck  ItemKey = "background_check"
	ItemMandatedReporter ItemKey = "mandated_reporter"
	ItemChildProtection  ItemKey = "child_protection"
)

// ItemOrder is the stable presentation order of checklist requirements.
var ItemOrder = []ItemKey{
	ItemApplication,
	ItemInterview,
	ItemReference1,
	ItemReference2,
	ItemReference3,
	ItemBackgroundCheck,
	ItemMandatedReporter,
	ItemChildProtection,
}
