package repository

import (
	"context"
	"log"
	"sync"

	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"
)

type feedSubscriber struct {
	filter   entities.QuoteFilter
	onChange func([]entities.Quote)

	mu        sync.Mutex
	delivered uint64
}

// deliver hands snapshot to the subscriber unless a snapshot taken after a later
// write was already delivered.
func (s *feedSubscriber) deliver(version uint64, snapshot []entities.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version < s.delivered {
		return
	}
	s.delivered = version
	s.onChange(snapshot)
}

// QuoteFeed adds live subscriptions on top of an IQuoteStore.
//
// Every successful Create, UpdateStatus or Delete made through the feed re-lists each
// subscriber's filter and hands it the fresh snapshot. Writes made by other processes
// are not observed. Callbacks run on the writer's goroutine, one at a time per
// subscriber, and must not block.

type QuoteFeed struct {
	interfaces.IQuoteStore

	mu      sync.Mutex
	nextID  int
	version uint64
	subs    map[int]*feedSubscriber
}

var _ interfaces.IQuoteRepository = (*QuoteFeed)(nil)

func NewQuoteFeed(store interfaces.IQuoteStore) *QuoteFeed {
	return &QuoteFeed{IQuoteStore: store, subs: make(map[int]*feedSubscriber)}
}

// Subscribe registers the subscriber and then delivers the current snapshot before
// returning, so a write landing in between is not lost. Delivery stops when the
// returned function is called or ctx is done.
func (f *QuoteFeed) Subscribe(ctx context.Context, filter entities.QuoteFilter, onChange func([]entities.Quote)) (func(), error) {
	sub := &feedSubscriber{filter: filter, onChange: onChange}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	version := f.version
	f.subs[id] = sub
	f.mu.Unlock()

	remove := func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}

	snapshot, err := f.IQuoteStore.List(ctx, filter)
	if err != nil {
		remove()
		return nil, err
	}
	sub.deliver(version, snapshot)

	stopAfter := context.AfterFunc(ctx, remove)
	var once sync.Once
	return func() {
		once.Do(func() {
			stopAfter()
			remove()
		})
	}, nil
}

func (f *QuoteFeed) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	created, err := f.IQuoteStore.Create(ctx, q)
	if err != nil {
		return created, err
	}
	f.publish(ctx)
	return created, nil
}

func (f *QuoteFeed) UpdateStatus(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
	updated, err := f.IQuoteStore.UpdateStatus(ctx, id, change)
	if err != nil || updated.ID == "" {
		return updated, err
	}
	f.publish(ctx)
	return updated, nil
}

func (f *QuoteFeed) Delete(ctx context.Context, id string) error {
	if err := f.IQuoteStore.Delete(ctx, id); err != nil {
		return err
	}
	f.publish(ctx)
	return nil
}

// Subscribers returns the number of active subscriptions.
func (f *QuoteFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *QuoteFeed) publish(ctx context.Context) {
	f.mu.Lock()
	f.version++
	version := f.version
	subs := make([]*feedSubscriber, 0, len(f.subs))
	for _, s := range f.subs {
		subs = append(subs, s)
	}
	f.mu.Unlock()

	// The write already happened; a cancelled request must not starve subscribers.
	ctx = context.WithoutCancel(ctx)
	for _, s := range subs {
		snapshot, err := f.IQuoteStore.List(ctx, s.filter)
		if err != nil {
			log.Printf("[quote][feed] snapshot failed status=%s created_by=%s err=%v", s.filter.Status, s.filter.CreatedByUserID, err)
			continue
		}
		s.deliver(version, snapshot)
	}
}
