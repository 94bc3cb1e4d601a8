package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// A lifecycle action runs through fixed stages inside one unit of work:
//
//  1. LOAD     - resolve the actor and lock the quotation row
//  2. CHECK    - capability, ownership, source status, payload
//  3. RESOLVE  - look up entities named by the payload (company, new operator)
//  4. APPLY    - mutate the aggregate in memory
//  5. ARCHIVE  - persist the aggregate, the history entry and the audit row
//
// Nothing is written before ARCHIVE, and ARCHIVE writes only through the unit
// of work, so a failure at any stage leaves no observable change once the
// caller rolls back.

// Stage names a step of a lifecycle action.
type Stage string

// Lifecycle stages.
const (
	StageLoad    Stage = "load"
	StageCheck   Stage = "check"
	StageResolve Stage = "resolve"
	StageApply   Stage = "apply"
	StageArchive Stage = "archive"
)

// StageError records where an action stopped. The domain error stays reachable
// through errors.Is and errors.As.
type StageError struct {
	Stage  Stage
	Action domain.ActionName
	Cause  error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Stage, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// FailedStage extracts the stage from an action error.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}

	return "", false
}

func stageErr(stage Stage, action domain.ActionName, err error) error {
	return &StageError{Stage: stage, Action: action, Cause: err}
}

// Outcome is a committed-or-committable result handed back to the caller.
type Outcome struct {
	Quotation  domain.Quotation
	Transition domain.Transition
}

// EngineConfig wires the engine's read-only collaborators.
type EngineConfig struct {
	Users     ports.UserDirectory
	Companies ports.CompanyDirectory
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Engine applies lifecycle actions inside a unit of work supplied by the caller.
// It never begins, commits or rolls back on its own.
type Engine struct {
	users     ports.UserDirectory
	companies ports.CompanyDirectory
	clock     func() time.Time
	logger    *slog.Logger
}

// NewEngine creates an engine. Users and Companies are required.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Users == nil {
		panic("app: EngineConfig.Users is required")
	}
	if cfg.Companies == nil {
		panic("app: EngineConfig.Companies is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		users:     cfg.Users,
		companies: cfg.Companies,
		clock:     clock,
		logger:    logger.With(slog.String("component", "app.Engine")),
	}
}

// Create validates the request and inserts a REQUESTED quotation owned by the actor.
func (e *Engine) Create(ctx context.Context, uow ports.UnitOfWork, actorID int64, req domain.Request) (Outcome, error) {
	const action = domain.ActionCreate

	actor, err := e.actor(ctx, actorID)
	if err != nil {
		return Outcome{}, stageErr(StageLoad, action, err)
	}

	q, tr, err := domain.NewQuotation(actor, req, e.clock().UTC())
	if err != nil {
		return Outcome{}, stageErr(StageCheck, action, err)
	}

	if err := uow.Quotations().Insert(ctx, &q); err != nil {
		return Outcome{}, stageErr(StageArchive, action, fmt.Errorf("inserting quotation: %w", err))
	}
	tr.QuotationID = q.ID
	tr.Notes = "Cotação criada"

	if err := e.archive(ctx, uow, actor, q, tr); err != nil {
		return Outcome{}, stageErr(StageArchive, action, err)
	}

	logging.FromContextOr(ctx, e.logger).InfoContext(ctx, "quotation created",
		slog.Int64("quotation_id", q.ID),
		slog.String("number", q.Number),
		slog.String("modality", q.Request.Modality.String()),
	)

	return Outcome{Quotation: q, Transition: tr}, nil
}

// Apply runs an action against an existing quotation.
func (e *Engine) Apply(
	ctx context.Context,
	uow ports.UnitOfWork,
	actorID, quotationID int64,
	action domain.Action,
) (Outcome, error) {
	if action == nil {
		return Outcome{}, stageErr(StageCheck, "", domain.NewValidationError("action", "is required"))
	}
	name := action.Name()

	actor, err := e.actor(ctx, actorID)
	if err != nil {
		return Outcome{}, stageErr(StageLoad, name, err)
	}

	q, err := uow.Quotations().GetForUpdate(ctx, quotationID)
	if err != nil {
		return Outcome{}, stageErr(StageLoad, name, err)
	}

	if err := domain.Check(&q, actor, action); err != nil {
		return Outcome{}, stageErr(StageCheck, name, err)
	}

	refs, err := e.resolve(ctx, action)
	if err != nil {
		return Outcome{}, stageErr(StageResolve, name, err)
	}

	tr, err := domain.Apply(&q, actor, action, refs, e.clock().UTC())
	if err != nil {
		return Outcome{}, stageErr(StageApply, name, err)
	}

	if err := uow.Quotations().Update(ctx, q); err != nil {
		return Outcome{}, stageErr(StageArchive, name, fmt.Errorf("updating quotation: %w", err))
	}
	if err := e.archive(ctx, uow, actor, q, tr); err != nil {
		return Outcome{}, stageErr(StageArchive, name, err)
	}

	logging.FromContextOr(ctx, e.logger).InfoContext(ctx, "quotation transition applied",
		slog.Int64("quotation_id", q.ID),
		slog.String("action", string(name)),
		slog.String("from", tr.From.String()),
		slog.String("to", tr.To.String()),
		slog.Int64("actor_id", actor.ID),
	)

	return Outcome{Quotation: q, Transition: tr}, nil
}

// actor loads the acting user. An unknown id is an authorization failure, not a missing resource.
func (e *Engine) actor(ctx context.Context, id int64) (domain.User, error) {
	u, err := e.users.GetUser(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, domain.NewPermissionDeniedError("act", "unknown user")
		}

		return domain.User{}, fmt.Errorf("loading actor: %w", err)
	}

	return u, nil
}

func (e *Engine) resolve(ctx context.Context, action domain.Action) (domain.Refs, error) {
	var refs domain.Refs

	switch a := action.(type) {
	case domain.SendResponse:
		c, err := e.companies.GetCompany(ctx, a.ProviderCompanyID)
		if err != nil {
			return refs, fmt.Errorf("loading provider company: %w", err)
		}
		refs.Company = &c
	case domain.Reassign:
		u, err := e.users.GetUser(ctx, a.OperatorID)
		if err != nil {
			return refs, fmt.Errorf("loading new operator: %w", err)
		}
		refs.Operator = &u
	}

	return refs, nil
}

func (e *Engine) archive(ctx context.Context, uow ports.UnitOfWork, actor domain.User, q domain.Quotation, tr domain.Transition) error {
	if _, err := uow.History().Record(ctx, tr.HistoryEntry()); err != nil {
		return fmt.Errorf("recording history: %w", err)
	}

	details := fmt.Sprintf("%s: %s -> %s", q.Number, tr.From, tr.To)
	if !tr.From.Valid() {
		details = fmt.Sprintf("%s: created as %s", q.Number, tr.To)
	}
	if tr.Action == domain.ActionReassign && q.OperatorID != nil {
		details = fmt.Sprintf("%s: operator set to %d", q.Number, *q.OperatorID)
	}

	err := uow.Audit().RecordAudit(ctx, domain.AuditEntry{
		UserID:     actor.ID,
		Action:     string(tr.Action),
		Resource:   "quotation",
		ResourceID: strconv.FormatInt(q.ID, 10),
		Details:    details,
		CreatedAt:  tr.At,
	})
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}

	return nil
}
