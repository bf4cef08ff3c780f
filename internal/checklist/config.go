package checklist

import (
	"encoding/json"
	"fmt"
	"os"

	"volunteerhub/internal/domain"
)

// Config names the external record IDs each checklist step is keyed by.
// The values come from the record store's own administration screens and are
// deployment-specific, so they load from a JSON file rather than code.
//
// Group and role IDs are required: without them no roster can be resolved.
// Any other zero value degrades just that category to "no records" (the
// engine logs a warning and the affected items resolve to not_started).
type Config struct {
	ProcessingGroupIDs     []int64 `json:"processing_group_ids"`
	ApprovedRoleIDs        []int64 `json:"approved_role_ids"`
	ApplicationFormID      int64   `json:"application_form_id"`
	ChildProtectionFormID  int64   `json:"child_protection_form_id"`
	InterviewMilestoneID   int64   `json:"interview_milestone_id"`
	ReferenceMilestoneID   int64   `json:"reference_milestone_id"`
	MandatedReporterTypeID int64   `json:"mandated_reporter_type_id"`
	ProgramID              int64   `json:"program_id"`
}

// LoadConfig reads and validates a checklist configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("checklist config: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("checklist config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate enforces the identifiers the engine cannot run without.
func (c Config) Validate() error {
	if len(c.ProcessingGroupIDs) == 0 {
		return fmt.Errorf("checklist config: processing_group_ids is required")
	}
	if len(c.ApprovedRoleIDs) == 0 {
		return fmt.Errorf("checklist config: approved_role_ids is required")
	}
	return nil
}

// FormIDs returns the configured form categories, skipping unset ones.
func (c Config) FormIDs() []int64 {
	return nonZero(c.ApplicationFormID, c.ChildProtectionFormID)
}

// MilestoneIDs returns the configured milestone categories, skipping unset ones.
func (c Config) MilestoneIDs() []int64 {
	return nonZero(c.InterviewMilestoneID, c.ReferenceMilestoneID)
}

// WriteBack exposes the IDs write-back actions should target for a detail view.
func (c Config) WriteBack() domain.WriteBackConfig {
	return domain.WriteBackConfig{
		ProgramID:             c.ProgramID,
		InterviewMilestoneID:  c.InterviewMilestoneID,
		ReferenceMilestoneID:  c.ReferenceMilestoneID,
		ApplicationFormID:     c.ApplicationFormID,
		ChildProtectionFormID: c.ChildProtectionFormID,
		CertificationTypeID:   c.MandatedReporterTypeID,
	}
}

func nonZero(ids ...int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}
