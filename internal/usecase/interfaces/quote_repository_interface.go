package interfaces

import (
	"context"
	"loncheras_plus/internal/domain/entities"
)

// IQuoteStore abstracts DynamoDB persistence for Quote documents.
//
// The lifecycle must be able to:
//   - pre-check folio usage before inserting (soft uniqueness, not transactional)
//   - read a quote by id (zero value when missing)
//   - apply a partial status update (status, history append, stamp, updated_at)
//   - hard delete a quote
//   - list quotes by field equality, newest first

type IQuoteStore interface {
	FolioExists(ctx context.Context, folio string) (bool, error)
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	UpdateStatus(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.QuoteFilter) ([]entities.Quote, error)
}

// IQuoteRepository is an IQuoteStore that also pushes live snapshots.
//
// Subscribe delivers the current snapshot for filter and a new one after every write.
// The returned function stops delivery.
type IQuoteRepository interface {
	IQuoteStore
	Subscribe(ctx context.Context, filter entities.QuoteFilter, onChange func([]entities.Quote)) (func(), error)
}
