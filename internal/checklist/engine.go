package checklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"volunteerhub/internal/domain"
	"volunteerhub/internal/infra"
)

// Engine is the long-lived checklist aggregation component. It owns no
// mutable roster state: every read fetches fresh records and recomputes
// statuses, so reads are idempotent and self-healing with respect to
// concurrent upstream edits. Only the definition-table label cache persists
// across reads.
type Engine struct {
	store  Store
	cfg    Config
	logger infra.Logger
	audit  domain.AuditRepository
	labels *labelCache
	now    func() time.Time
}

// Options configures an Engine.
type Options struct {
	Store  Store
	Config Config
	Logger *infra.Logger
	Audit  domain.AuditRepository // optional write-back audit log
	Now    func() time.Time       // test hook; defaults to time.Now
}

// New validates the configuration and builds an engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("checklist: store is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logger := infra.Logger(zerolog.New(io.Discard))
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:  opts.Store,
		cfg:    opts.Config,
		logger: logger,
		audit:  opts.Audit,
		labels: &labelCache{},
		now:    now,
	}, nil
}

// GetRoster returns one card per volunteer in the requested cohort, sorted
// by last name. An upstream failure fails the whole read; no partial roster
// is ever returned.
func (e *Engine) GetRoster(ctx context.Context, kind RosterKind) ([]domain.VolunteerCard, error) {
	now := e.now()

	members, err := e.rosterMemberships(ctx, kind, now)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.VolunteerCard{}, nil
	}

	volunteers, err := e.resolveIdentities(ctx, members)
	if err != nil {
		return nil, err
	}
	if len(volunteers) == 0 {
		return []domain.VolunteerCard{}, nil
	}

	contactIDs := make([]int64, 0, len(volunteers))
	participantIDs := make([]int64, 0, len(volunteers))
	for _, v := range volunteers {
		contactIDs = append(contactIDs, v.ContactID)
		participantIDs = append(participantIDs, v.ParticipantID)
	}

	bundle, err := e.fetchCategories(ctx, contactIDs, participantIDs)
	if err != nil {
		return nil, err
	}
	labels := e.labels.itemLabels(ctx, e.store, e.cfg, e.logger)

	cards := make([]domain.VolunteerCard, 0, len(volunteers))
	for _, v := range volunteers {
		recs := bundle.slice(v.ContactID, v.ParticipantID)
		items := resolveChecklist(e.cfg, recs, now, labels)
		cards = append(cards, assembleCard(v, items))
	}
	e.logger.Debug().Str("roster", string(kind)).Int("volunteers", len(cards)).Msg("roster assembled")
	return cards, nil
}

// GetVolunteerDetail resolves one volunteer's full detail view. It returns
// domain.ErrNotFound when the contact no longer resolves upstream.
func (e *Engine) GetVolunteerDetail(ctx context.Context, contactID, participantID, membershipID int64) (*domain.VolunteerDetail, error) {
	var missing []string
	if contactID == 0 {
		missing = append(missing, "contactId")
	}
	if participantID == 0 {
		missing = append(missing, "participantId")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}
	now := e.now()

	contacts, err := fetchContacts(ctx, e.store, []int64{contactID})
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, domain.ErrNotFound
	}
	contact := contacts[0]

	var memberSince *domain.Date
	if membershipID != 0 {
		ms, err := fetchMembershipsBy(ctx, e.store, "Membership_ID", []int64{membershipID})
		if err != nil {
			return nil, err
		}
		if len(ms) > 0 {
			memberSince = ms[0].StartDate
		}
	}

	bundle, err := e.fetchCategories(ctx, []int64{contactID}, []int64{participantID})
	if err != nil {
		return nil, err
	}
	labels := e.labels.itemLabels(ctx, e.store, e.cfg, e.logger)

	info := domain.VolunteerInfo{
		ContactID:     contact.ContactID,
		ParticipantID: participantID,
		MembershipID:  membershipID,
		FirstName:     displayCase(contact.FirstName),
		Nickname:      displayCase(contact.Nickname),
		LastName:      displayCase(contact.LastName),
		PhotoURL:      contact.PhotoURL,
		MemberSince:   memberSince,
	}
	recs := bundle.slice(contactID, participantID)
	items := resolveChecklist(e.cfg, recs, now, labels)
	detail := assembleDetail(assembleCard(info, items), recs, e.cfg)
	return &detail, nil
}

// rosterMemberships resolves the cohort membership rows for a roster kind.
func (e *Engine) rosterMemberships(ctx context.Context, kind RosterKind, now time.Time) ([]domain.GroupMembership, error) {
	switch kind {
	case RosterInProcess:
		ms, err := fetchMembershipsBy(ctx, e.store, "Group_ID", e.cfg.ProcessingGroupIDs)
		if err != nil {
			return nil, err
		}
		return dedupeByParticipant(activeMemberships(ms, now)), nil

	case RosterApproved:
		approved, err := fetchMembershipsBy(ctx, e.store, "Role_ID", e.cfg.ApprovedRoleIDs)
		if err != nil {
			return nil, err
		}
		inProcess, err := fetchMembershipsBy(ctx, e.store, "Group_ID", e.cfg.ProcessingGroupIDs)
		if err != nil {
			return nil, err
		}
		drop := participantSet(activeMemberships(inProcess, now))
		active := excludeParticipants(activeMemberships(approved, now), drop)
		return dedupeByParticipant(active), nil

	default:
		return nil, fmt.Errorf("checklist: unknown roster kind %q", kind)
	}
}

// resolveIdentities joins membership rows through participants to contacts.
func (e *Engine) resolveIdentities(ctx context.Context, members []domain.GroupMembership) ([]domain.VolunteerInfo, error) {
	participantIDs := make([]int64, 0, len(members))
	for _, m := range members {
		participantIDs = append(participantIDs, m.ParticipantID)
	}
	participants, err := fetchParticipants(ctx, e.store, participantIDs)
	if err != nil {
		return nil, err
	}
	contactIDs := make([]int64, 0, len(participants))
	for _, p := range participants {
		contactIDs = append(contactIDs, p.ContactID)
	}
	contacts, err := fetchContacts(ctx, e.store, contactIDs)
	if err != nil {
		return nil, err
	}
	return joinVolunteers(members, participants, contacts), nil
}

// categoryBundle holds one consistent snapshot of every record category for
// a roster read, indexed for per-volunteer slicing.
type categoryBundle struct {
	forms      []domain.FormResponse
	milestones []domain.Milestone
	checks     []domain.BackgroundCheck
	certs      []domain.Certification
}

// fetchCategories fans out the four category fetchers concurrently. The
// categories have no data dependency on each other; any single failure
// fails the read.
func (e *Engine) fetchCategories(ctx context.Context, contactIDs, participantIDs []int64) (*categoryBundle, error) {
	e.warnUnconfigured()

	bundle := &categoryBundle{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bundle.forms, err = fetchFormResponses(gctx, e.store, e.cfg.FormIDs(), contactIDs)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.milestones, err = fetchMilestones(gctx, e.store, e.cfg.MilestoneIDs(), participantIDs)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.checks, err = fetchBackgroundChecks(gctx, e.store, contactIDs)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.certs, err = fetchCertifications(gctx, e.store, e.cfg.MandatedReporterTypeID, participantIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// slice extracts one volunteer's records from the shared snapshot.
func (b *categoryBundle) slice(contactID, participantID int64) volunteerRecords {
	var recs volunteerRecords
	for _, f := range b.forms {
		if f.ContactID == contactID {
			recs.forms = append(recs.forms, f)
		}
	}
	for _, m := range b.milestones {
		if m.ParticipantID == participantID {
			recs.milestones = append(recs.milestones, m)
		}
	}
	for _, c := range b.checks {
		if c.ContactID == contactID {
			recs.checks = append(recs.checks, c)
		}
	}
	for _, c := range b.certs {
		if c.ParticipantID == participantID {
			recs.certs = append(recs.certs, c)
		}
	}
	return recs
}

// warnUnconfigured logs once per read for categories that will silently
// resolve to empty. Operator-visible only; the read itself proceeds.
func (e *Engine) warnUnconfigured() {
	if e.cfg.ApplicationFormID == 0 {
		e.logger.Warn().Msg("checklist: application form id unconfigured, items degrade to not_started")
	}
	if e.cfg.ChildProtectionFormID == 0 {
		e.logger.Warn().Msg("checklist: child protection form id unconfigured, items degrade to not_started")
	}
	if e.cfg.InterviewMilestoneID == 0 {
		e.logger.Warn().Msg("checklist: interview milestone id unconfigured, items degrade to not_started")
	}
	if e.cfg.ReferenceMilestoneID == 0 {
		e.logger.Warn().Msg("checklist: reference milestone id unconfigured, items degrade to not_started")
	}
	if e.cfg.MandatedReporterTypeID == 0 {
		e.logger.Warn().Msg("checklist: mandated reporter type id unconfigured, items degrade to not_started")
	}
}
