package checklist

import (
	"context"
	"sync"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/infra"
	"volunteerhub/internal/providers/caspio"
)

type milestoneDef struct {
	MilestoneID int64  `json:"Milestone_ID"`
	Name        string `json:"Name"`
}

type certTypeDef struct {
	TypeID int64  `json:"Type_ID"`
	Name   string `json:"Name"`
}

// labelCache memoizes the slow-changing definition tables (milestone and
// certification type names) for the lifetime of an engine instance. The
// maps are populated once and read-only afterwards; a failed population is
// retried on the next read, and losing a duplicate concurrent load is
// harmless.
type labelCache struct {
	mu         sync.Mutex
	loaded     bool
	milestones map[int64]string
	certTypes  map[int64]string
}

// itemLabels returns per-key display labels for the configured checklist,
// overlaying upstream definition names onto the built-in defaults.
func (c *labelCache) itemLabels(ctx context.Context, store Store, cfg Config, logger infra.Logger) map[domain.ItemKey]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		if err := c.populate(ctx, store); err != nil {
			logger.Warn().Err(err).Msg("checklist: definition tables unavailable, using default labels")
		} else {
			c.loaded = true
		}
	}

	labels := make(map[domain.ItemKey]string, 2)
	if name := c.milestones[cfg.InterviewMilestoneID]; name != "" {
		labels[domain.ItemInterview] = name
	}
	if name := c.certTypes[cfg.MandatedReporterTypeID]; name != "" {
		labels[domain.ItemMandatedReporter] = name
	}
	return labels
}

func (c *labelCache) populate(ctx context.Context, store Store) error {
	msRows, err := store.Fetch(ctx, tableMilestoneDefs, caspio.Query{Fields: []string{"Milestone_ID", "Name"}})
	if err != nil {
		return err
	}
	msDefs, err := caspio.DecodeRows[milestoneDef](msRows)
	if err != nil {
		return err
	}
	ctRows, err := store.Fetch(ctx, tableCertTypeDefs, caspio.Query{Fields: []string{"Type_ID", "Name"}})
	if err != nil {
		return err
	}
	ctDefs, err := caspio.DecodeRows[certTypeDef](ctRows)
	if err != nil {
		return err
	}

	c.milestones = make(map[int64]string, len(msDefs))
	for _, d := range msDefs {
		c.milestones[d.MilestoneID] = d.Name
	}
	c.certTypes = make(map[int64]string, len(ctDefs))
	for _, d := range ctDefs {
		c.certTypes[d.TypeID] = d.Name
	}
	return nil
}
