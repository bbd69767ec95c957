package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrDuplicateFolio    = errors.New("folio already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation error")
	ErrInvalidQuoteID    = errors.New("invalid quote id")
	ErrForbidden         = errors.New("forbidden")
)

// DefaultDeletionDelay is the pause between the rejection write and the hard delete,
// so live subscribers get to see the rejected state.
const DefaultDeletionDelay = time.Second

// InvalidTransitionError reports a status change not present in entities.StatusTransitions.
// It matches ErrInvalidTransition with errors.Is.
type InvalidTransitionError struct {
	From entities.QuoteStatus
	To   entities.QuoteStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// CreateQuoteInput is the distributor submission.
type CreateQuoteInput struct {
	Folio         string
	Items         []entities.RawQuoteLine
	Creator       entities.Actor
	Meta          entities.QuoteMeta
	InitialStatus entities.QuoteStatus
}

// DeletionResult describes the outcome of RejectAndDelete.
type DeletionResult struct {
	QuoteID    string    `json:"quote_id"`
	Folio      string    `json:"folio"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
	Deleted    bool      `json:"deleted"`
}

// IQuoteUseCase exposes the quote lifecycle.
//
//   - distributor submission => CreateQuote()
//   - generic, table-checked status change => TransitionStatus()
//   - analyst shortcuts (bypass the table) => ApproveAsAnalyst(), RejectAndDelete()
//   - analyst panel reads => GetByID(), ListQuotes(), WatchQuotes()
//
// Permission checks (CanAnalystModify/CanAnalystDelete) are the caller's job.

type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, in CreateQuoteInput) (entities.Quote, error)
	TransitionStatus(ctx context.Context, quoteID string, newStatus entities.QuoteStatus, actor entities.Actor, notes string) (entities.Quote, error)
	ApproveAsAnalyst(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error)
	RejectAndDelete(ctx context.Context, quoteID string, actor entities.Actor, reason string) (DeletionResult, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	ListQuotes(ctx context.Context, query QuoteQuery) ([]entities.Quote, error)
	WatchQuotes(ctx context.Context, filter entities.QuoteFilter, onChange func([]entities.Quote)) (func(), error)
}

type QuoteUseCase struct {
	repo          interfaces.IQuoteRepository
	observer      interfaces.IQuoteObserver
	deletionDelay time.Duration
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

type QuoteUseCaseOption func(*QuoteUseCase)

func WithDeletionDelay(d time.Duration) QuoteUseCaseOption {
	return func(u *QuoteUseCase) {
		if d >= 0 {
			u.deletionDelay = d
		}
	}
}

func WithObserver(o interfaces.IQuoteObserver) QuoteUseCaseOption {
	return func(u *QuoteUseCase) {
		if o != nil {
			u.observer = o
		}
	}
}

func NewQuoteUseCase(repo interfaces.IQuoteRepository, opts ...QuoteUseCaseOption) *QuoteUseCase {
	u := &QuoteUseCase{repo: repo, observer: noopObserver{}, deletionDelay: DefaultDeletionDelay}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, in CreateQuoteInput) (entities.Quote, error) {
	folio := strings.TrimSpace(in.Folio)
	if folio == "" {
		return entities.Quote{}, fmt.Errorf("%w: folio is required", ErrValidation)
	}
	status := in.InitialStatus
	if status == "" {
		status = entities.QuoteStatusDraft
	}
	if !status.IsValid() {
		return entities.Quote{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	// Soft uniqueness: a concurrent create with the same folio can pass this check too.
	exists, err := u.repo.FolioExists(ctx, folio)
	if err != nil {
		return entities.Quote{}, err
	}
	if exists {
		return entities.Quote{}, fmt.Errorf("%w: %q", ErrDuplicateFolio, folio)
	}

	items, total := entities.CalculateQuoteLines(in.Items)
	creatorName := in.Creator.Name()
	if creatorName == "" {
		creatorName = "Proveedor"
	}

	now := time.Now().UTC()
	q := entities.Quote{
		ID:              uuid.NewString(),
		Folio:           folio,
		Status:          status,
		Items:           items,
		Total:           total,
		Meta:            in.Meta,
		CreatedByUserID: in.Creator.UID,
		CreatedByName:   creatorName,
		CreatedByEmail:  in.Creator.Email,
		StatusHistory: []entities.StatusHistoryEntry{{
			Status:    status,
			Timestamp: now,
			UserID:    in.Creator.UID,
			UserName:  creatorName,
			Notes:     "created",
			Source:    entities.HistorySourceCreation,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Printf("[quote][usecase] create failed folio=%s err=%v", folio, err)
		return entities.Quote{}, err
	}
	log.Printf("[quote][usecase] created quote_id=%s folio=%s status=%s lines=%d total=%.2f", created.ID, created.Folio, created.Status, len(created.Items), created.Total)
	u.observer.QuoteCreated(created.Status)
	return created, nil
}

func (u *QuoteUseCase) TransitionStatus(ctx context.Context, quoteID string, newStatus entities.QuoteStatus, actor entities.Actor, notes string) (entities.Quote, error) {
	current, err := u.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if !current.Status.CanTransitionTo(newStatus) {
		return entities.Quote{}, &InvalidTransitionError{From: current.Status, To: newStatus}
	}
	return u.applyStatus(ctx, current, newStatus, actor, strings.TrimSpace(notes), "")
}

// ApproveAsAnalyst sets the quote to approved regardless of the transition table.
func (u *QuoteUseCase) ApproveAsAnalyst(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error) {
	current, err := u.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	return u.applyStatus(ctx, current, entities.QuoteStatusApproved, actor, "approved by analyst", entities.HistorySourceAnalystApproval)
}

// RejectAndDelete marks the quote rejected, waits the deletion delay and deletes it.
//
// The two writes are not atomic. If the delete fails (or ctx ends during the wait) the
// quote stays rejected and the error is returned with Deleted=false.
func (u *QuoteUseCase) RejectAndDelete(ctx context.Context, quoteID string, actor entities.Actor, reason string) (DeletionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return DeletionResult{}, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	current, err := u.GetByID(ctx, quoteID)
	if err != nil {
		return DeletionResult{}, err
	}
	rejected, err := u.applyStatus(ctx, current, entities.QuoteStatusRejected, actor, reason, entities.HistorySourceAnalystRejection)
	if err != nil {
		return DeletionResult{}, err
	}

	result := DeletionResult{
		QuoteID:    rejected.ID,
		Folio:      rejected.Folio,
		Reason:     reason,
		RejectedAt: rejected.UpdatedAt,
	}

	if u.deletionDelay > 0 {
		timer := time.NewTimer(u.deletionDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("[quote][usecase] reject-and-delete interrupted quote_id=%s err=%v", rejected.ID, ctx.Err())
			return result, ctx.Err()
		case <-timer.C:
		}
	}

	if err := u.repo.Delete(ctx, rejected.ID); err != nil {
		log.Printf("[quote][usecase] delete after rejection failed quote_id=%s err=%v", rejected.ID, err)
		return result, err
	}
	result.Deleted = true
	log.Printf("[quote][usecase] rejected and deleted quote_id=%s folio=%s by=%s", rejected.ID, rejected.Folio, actor.UID)
	u.observer.QuoteDeleted(entities.QuoteStatusRejected)
	return result, nil
}

func (u *QuoteUseCase) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrInvalidQuoteID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func (u *QuoteUseCase) ListQuotes(ctx context.Context, query QuoteQuery) ([]entities.Quote, error) {
	quotes, err := u.repo.List(ctx, query.Filter)
	if err != nil {
		return nil, err
	}
	return FilterQuotes(quotes, query), nil
}

func (u *QuoteUseCase) WatchQuotes(ctx context.Context, filter entities.QuoteFilter, onChange func([]entities.Quote)) (func(), error) {
	if onChange == nil {
		return nil, fmt.Errorf("%w: onChange callback is required", ErrValidation)
	}
	return u.repo.Subscribe(ctx, filter, onChange)
}

func (u *QuoteUseCase) applyStatus(ctx context.Context, current entities.Quote, to entities.QuoteStatus, actor entities.Actor, notes, source string) (entities.Quote, error) {
	now := time.Now().UTC()
	change := entities.StatusChange{
		Status: to,
		At:     now,
		Entry: entities.StatusHistoryEntry{
			Status:    to,
			Timestamp: now,
			UserID:    actor.UID,
			UserName:  actor.Name(),
			Notes:     notes,
			Source:    source,
		},
	}

	updated, err := u.repo.UpdateStatus(ctx, current.ID, change)
	if err != nil {
		log.Printf("[quote][usecase] status update failed quote_id=%s from=%s to=%s err=%v", current.ID, current.Status, to, err)
		return entities.Quote{}, err
	}
	if updated.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	log.Printf("[quote][usecase] status changed quote_id=%s from=%s to=%s by=%s source=%s", updated.ID, current.Status, to, actor.UID, source)
	u.observer.QuoteTransitioned(current.Status, to, source)
	return updated, nil
}

type noopObserver struct{}

func (noopObserver) QuoteCreated(entities.QuoteStatus) {}
func (noopObserver) QuoteTransitioned(entities.QuoteStatus, entities.QuoteStatus, string) {}
func (noopObserver) QuoteDeleted(entities.QuoteStatus) {}
