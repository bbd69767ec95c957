package interfaces

import "loncheras_plus/internal/domain/entities"

// IQuoteObserver receives lifecycle events after they are persisted (metrics).
type IQuoteObserver interface {
	QuoteCreated(status entities.QuoteStatus)
	QuoteTransitioned(from, to entities.QuoteStatus, source string)
	QuoteDeleted(status entities.QuoteStatus)
}
