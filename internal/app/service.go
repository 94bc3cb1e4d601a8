// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Open and close the unit of work around every lifecycle action
//   - Resolve actors and referenced entities through directories
//   - Dispatch notifications after commit, logging failures instead of surfacing them
//   - Scope reads to what the viewer may see
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - SQL or Redis commands (that's persistence and notify adapters)
//   - Transition rules (that's the domain layer)
package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/metrics"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// QuotationServiceConfig wires the quotation service.
type QuotationServiceConfig struct {
	Transactor ports.Transactor
	Quotations ports.QuotationReader
	History    ports.HistoryReader
	Users      ports.UserDirectory
	Companies  ports.CompanyDirectory

	// Dispatcher is optional. Without it transitions commit silently.
	Dispatcher ports.NotificationDispatcher

	// Metrics is optional.
	Metrics *metrics.Recorder

	Clock  func() time.Time
	Logger *slog.Logger
}

// QuotationService exposes one operation per lifecycle action plus scoped reads.
//
// Example usage:
//
//	svc := app.NewQuotationService(app.QuotationServiceConfig{
//	    Transactor: store, Quotations: store, History: store,
//	    Users: store, Companies: store, Dispatcher: dispatcher,
//	})
//	q, err := svc.AcceptByOperator(ctx, operatorID, quotationID, domain.AcceptByOperator{})
type QuotationService struct {
	tx         ports.Transactor
	quotations ports.QuotationReader
	history    ports.HistoryReader
	users      ports.UserDirectory
	dispatcher ports.NotificationDispatcher
	engine     *Engine
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewQuotationService creates the service. Every port except Dispatcher and Metrics is required.
func NewQuotationService(cfg QuotationServiceConfig) *QuotationService {
	if cfg.Transactor == nil || cfg.Quotations == nil || cfg.History == nil {
		panic("app: QuotationServiceConfig requires Transactor, Quotations and History")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuotationService{
		tx:         cfg.Transactor,
		quotations: cfg.Quotations,
		history:    cfg.History,
		users:      cfg.Users,
		dispatcher: cfg.Dispatcher,
		engine: NewEngine(EngineConfig{
			Users:     cfg.Users,
			Companies: cfg.Companies,
			Clock:     cfg.Clock,
			Logger:    logger,
		}),
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("component", "app.QuotationService")),
	}
}

// Create opens a new quotation on behalf of the actor.
func (s *QuotationService) Create(ctx context.Context, actorID int64, req domain.Request) (domain.Quotation, error) {
	out, err := s.run(ctx, domain.ActionCreate, func(uow ports.UnitOfWork) (Outcome, error) {
		return s.engine.Create(ctx, uow, actorID, req)
	})
	if err != nil {
		return domain.Quotation{}, err
	}

	return out.Quotation, nil
}

// AcceptByOperator claims a REQUESTED quotation for the acting operator.
func (s *QuotationService) AcceptByOperator(ctx context.Context, actorID, id int64, a domain.AcceptByOperator) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

// SendResponse records the operator's price and lead time.
func (s *QuotationService) SendResponse(ctx context.Context, actorID, id int64, a domain.SendResponse) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

// AcceptByConsultant accepts the operator's answer.
func (s *QuotationService) AcceptByConsultant(ctx context.Context, actorID, id int64, a domain.AcceptByConsultant) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

// NegateByConsultant refuses the operator's answer.
func (s *QuotationService) NegateByConsultant(ctx context.Context, actorID, id int64, a domain.NegateByConsultant) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

// Finalize closes a decided quotation.
func (s *QuotationService) Finalize(ctx context.Context, actorID, id int64, a domain.Finalize) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

// Reassign hands the quotation to another operator-tier user.
func (s *QuotationService) Reassign(ctx context.Context, actorID, id int64, a domain.Reassign) (domain.Quotation, error) {
	return s.transition(ctx, actorID, id, a)
}

func (s *QuotationService) transition(ctx context.Context, actorID, id int64, a domain.Action) (domain.Quotation, error) {
	var name domain.ActionName
	if a != nil {
		name = a.Name()
	}

	out, err := s.run(ctx, name, func(uow ports.UnitOfWork) (Outcome, error) {
		return s.engine.Apply(ctx, uow, actorID, id, a)
	})
	if err != nil {
		return domain.Quotation{}, err
	}

	return out.Quotation, nil
}

// run owns the unit of work: begin, delegate, commit or roll back, then notify.
func (s *QuotationService) run(
	ctx context.Context,
	action domain.ActionName,
	fn func(ports.UnitOfWork) (Outcome, error),
) (Outcome, error) {
	logger := logging.FromContextOr(ctx, s.logger).With(slog.String("action", string(action)))
	start := time.Now()

	out, err := s.inUnitOfWork(ctx, fn)
	s.metrics.ObserveTransition(string(action), OutcomeLabel(err), time.Since(start))

	if err != nil {
		level := slog.LevelWarn
		if domain.IsStorage(err) || !isBusinessError(err) {
			level = slog.LevelError
		}
		stage, _ := FailedStage(err)
		logger.Log(ctx, level, "quotation action rejected",
			slog.String("stage", string(stage)),
			slog.Any("error", err),
		)

		return Outcome{}, err
	}

	s.dispatch(ctx, out)

	return out, nil
}

func (s *QuotationService) inUnitOfWork(ctx context.Context, fn func(ports.UnitOfWork) (Outcome, error)) (Outcome, error) {
	uow, err := s.tx.Begin(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("beginning unit of work: %w", err)
	}

	out, err := fn(uow)
	if err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			return Outcome{}, errors.Join(err, rbErr)
		}

		return Outcome{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return Outcome{}, fmt.Errorf("committing unit of work: %w", err)
	}

	return out, nil
}

// dispatch notifies the transition audience. Failures are logged and counted only.
func (s *QuotationService) dispatch(ctx context.Context, out Outcome) {
	tr := out.Transition
	if s.dispatcher == nil || tr.Audience == domain.AudienceNone {
		return
	}

	logger := logging.FromContextOr(ctx, s.logger).With(
		slog.Int64("quotation_id", out.Quotation.ID),
		slog.String("category", string(tr.Category)),
	)

	recipients, parties, err := Parallel2(ctx,
		func(ctx context.Context) ([]int64, error) { return s.recipients(ctx, out) },
		func(ctx context.Context) (domain.Parties, error) { return s.parties(ctx, out.Quotation) },
	)
	if err != nil {
		s.metrics.NotificationFailed(string(tr.Category))
		logger.WarnContext(ctx, "resolving notification audience failed", slog.Any("error", err))

		return
	}
	if len(recipients) == 0 {
		return
	}

	err = s.dispatcher.Notify(ctx, ports.Notice{
		Recipients: recipients,
		Transition: tr,
		Quotation:  out.Quotation,
		Parties:    parties,
	})
	if err != nil {
		s.metrics.NotificationFailed(string(tr.Category))
		logger.WarnContext(ctx, "notification dispatch failed", slog.Any("error", err))

		return
	}

	s.metrics.NotificationsSent(string(tr.Category), len(recipients))
}

func (s *QuotationService) recipients(ctx context.Context, out Outcome) ([]int64, error) {
	if out.Transition.Audience != domain.AudienceAllOperators {
		return domain.Recipients(out.Transition.Audience, &out.Quotation), nil
	}

	operators, err := s.users.ListActiveUsers(ctx, domain.RoleOperator)
	if err != nil {
		return nil, fmt.Errorf("listing active operators: %w", err)
	}

	ids := make([]int64, 0, len(operators))
	for _, u := range operators {
		ids = append(ids, u.ID)
	}

	return ids, nil
}

func (s *QuotationService) parties(ctx context.Context, q domain.Quotation) (domain.Parties, error) {
	ids := []int64{q.ConsultantID}
	if q.OperatorID != nil {
		ids = append(ids, *q.OperatorID)
	}

	loads := make([]func(context.Context) (domain.User, error), len(ids))
	for i, id := range ids {
		loads[i] = func(ctx context.Context) (domain.User, error) {
			return s.users.GetUser(ctx, id)
		}
	}

	users, err := Parallel(ctx, loads...)
	if err != nil {
		return domain.Parties{}, fmt.Errorf("loading quotation parties: %w", err)
	}

	p := domain.Parties{ConsultantName: users[0].Name}
	if len(users) > 1 {
		p.OperatorName = users[1].Name
	}

	return p, nil
}

// Get returns one quotation the viewer may see.
func (s *QuotationService) Get(ctx context.Context, viewerID, id int64) (domain.Quotation, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return domain.Quotation{}, err
	}

	q, err := s.quotations.GetQuotation(ctx, id)
	if err != nil {
		return domain.Quotation{}, fmt.Errorf("getting quotation: %w", err)
	}
	if !domain.CanView(viewer, &q) {
		return domain.Quotation{}, domain.NewPermissionDeniedError("view_quotation", "quotation belongs to another consultant")
	}

	return q, nil
}

// List returns quotations matching the filter. Consultants only ever see their own,
// and for them the consultant and operator filters are ignored.
func (s *QuotationService) List(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return ports.QuotationPage{}, err
	}

	filter, err = scopeFilter(viewer, filter)
	if err != nil {
		return ports.QuotationPage{}, err
	}

	page, err := s.quotations.ListQuotations(ctx, filter.Normalize())
	if err != nil {
		return ports.QuotationPage{}, fmt.Errorf("listing quotations: %w", err)
	}

	return page, nil
}

// Available lists REQUESTED quotations waiting for an operator.
func (s *QuotationService) Available(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return ports.QuotationPage{}, err
	}
	if err := domain.Authorize(viewer, domain.CapAcceptQuotation); err != nil {
		return ports.QuotationPage{}, err
	}

	filter.Statuses = []domain.Status{domain.StatusRequested}
	filter.ConsultantID, filter.OperatorID, filter.AssignedOnly = nil, nil, false

	page, err := s.quotations.ListQuotations(ctx, filter.Normalize())
	if err != nil {
		return ports.QuotationPage{}, fmt.Errorf("listing available quotations: %w", err)
	}

	return page, nil
}

// MyOperations lists quotations assigned to the operator. Privileged viewers see every assigned quotation.
func (s *QuotationService) MyOperations(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return ports.QuotationPage{}, err
	}
	if err := domain.Authorize(viewer, domain.CapAcceptQuotation); err != nil {
		return ports.QuotationPage{}, err
	}

	filter.ConsultantID = nil
	if viewer.Role.IsPrivileged() {
		filter.OperatorID = nil
		filter.AssignedOnly = true
	} else {
		id := viewer.ID
		filter.OperatorID = &id
	}

	page, err := s.quotations.ListQuotations(ctx, filter.Normalize())
	if err != nil {
		return ports.QuotationPage{}, fmt.Errorf("listing operations: %w", err)
	}

	return page, nil
}

// MyRequests lists the consultant's own quotations. Other roles see every request.
func (s *QuotationService) MyRequests(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationPage, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return ports.QuotationPage{}, err
	}

	filter.OperatorID, filter.AssignedOnly = nil, false
	if viewer.Role == domain.RoleConsultant {
		id := viewer.ID
		filter.ConsultantID = &id
	}

	return s.List(ctx, viewerID, filter)
}

// Stats counts quotations per status and modality with the same scoping as List.
func (s *QuotationService) Stats(ctx context.Context, viewerID int64, filter ports.QuotationFilter) (ports.QuotationStats, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return ports.QuotationStats{}, err
	}

	filter, err = scopeFilter(viewer, filter)
	if err != nil {
		return ports.QuotationStats{}, err
	}

	stats, err := s.quotations.QuotationStats(ctx, filter.Normalize())
	if err != nil {
		return ports.QuotationStats{}, fmt.Errorf("counting quotations: %w", err)
	}

	return stats, nil
}

// History returns the quotation's ledger, newest first.
func (s *QuotationService) History(ctx context.Context, viewerID, id int64) (iter.Seq2[domain.HistoryEntry, error], error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	q, err := s.quotations.GetQuotation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting quotation: %w", err)
	}
	if !domain.CanViewHistory(viewer, &q) {
		return nil, domain.NewPermissionDeniedError("view_history", "viewer is not a party to the quotation")
	}

	return s.history.HistoryFor(ctx, id), nil
}

// CanCreate reports whether the actor may open quotations. Transports call it
// before checking a request body so an unauthorized caller gets
// PermissionDenied rather than field errors. Create checks again.
func (s *QuotationService) CanCreate(ctx context.Context, actorID int64) error {
	u, err := s.users.GetUser(ctx, actorID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewPermissionDeniedError(string(domain.CapCreateQuotation), "unknown user")
		}

		return fmt.Errorf("loading actor: %w", err)
	}

	return domain.Authorize(u, domain.CapCreateQuotation)
}

// Operators lists the users a quotation can be reassigned to.
func (s *QuotationService) Operators(ctx context.Context, viewerID int64) ([]domain.User, error) {
	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(viewer, domain.CapReassignQuotation); err != nil {
		return nil, err
	}

	users, err := s.users.ListActiveUsers(ctx, domain.RoleOperator, domain.RoleManager, domain.RoleAdministrator)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}

	return users, nil
}

func (s *QuotationService) viewer(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.User{}, domain.NewPermissionDeniedError("view_quotations", "unknown user")
		}

		return domain.User{}, fmt.Errorf("loading viewer: %w", err)
	}
	if err := domain.Authorize(u, domain.CapViewQuotations); err != nil {
		return domain.User{}, err
	}

	return u, nil
}

func scopeFilter(viewer domain.User, filter ports.QuotationFilter) (ports.QuotationFilter, error) {
	switch domain.ScopeOf(viewer.Role, domain.CapViewQuotations) {
	case domain.ScopeAll:
		return filter, nil
	case domain.ScopeOwn:
		id := viewer.ID
		filter.ConsultantID = &id
		filter.OperatorID = nil

		return filter, nil
	default:
		return filter, domain.NewPermissionDeniedError("view_quotations", "role cannot list quotations")
	}
}

// OutcomeLabel classifies an action result for metrics.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsPermissionDenied(err):
		return "permission_denied"
	case domain.IsConflictingState(err):
		return "conflicting_state"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsStorage(err):
		return "storage"
	default:
		return "error"
	}
}

func isBusinessError(err error) bool {
	return domain.IsPermissionDenied(err) || domain.IsConflictingState(err) ||
		domain.IsValidation(err) || domain.IsNotFound(err)
}
