package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"loncheras_plus/internal/domain/entities"
	mock_interfaces "loncheras_plus/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var (
	distributor = entities.Actor{UID: "dist-1", Email: "dist@loncheras.mx", DisplayName: "Distribuidora Sur", Role: entities.RoleDistributor}
	analyst     = entities.Actor{UID: "an-1", Email: "ana@loncheras.mx", DisplayName: "Ana", Role: entities.RoleAnalyst}
)

// applyChange mimics the repository contract for UpdateStatus.
func applyChange(base entities.Quote) func(context.Context, string, entities.StatusChange) (entities.Quote, error) {
	return func(_ context.Context, _ string, change entities.StatusChange) (entities.Quote, error) {
		return change.Apply(base), nil
	}
}

func TestQuoteUseCase_CreateQuote(t *testing.T) {
	t.Run("blank folio", func(t *testing.T) {
		uc := NewQuoteUseCase(nil)
		_, err := uc.CreateQuote(context.Background(), CreateQuoteInput{Folio: "  "})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown initial status", func(t *testing.T) {
		uc := NewQuoteUseCase(nil)
		_, err := uc.CreateQuote(context.Background(), CreateQuoteInput{Folio: "Q-1", InitialStatus: "archived"})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("duplicate folio", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().FolioExists(gomock.Any(), "Q-1").Return(true, nil)

		_, err := uc.CreateQuote(context.Background(), CreateQuoteInput{Folio: "Q-1", Creator: distributor})
		if !errors.Is(err, ErrDuplicateFolio) {
			t.Fatalf("expected ErrDuplicateFolio, got %v", err)
		}
	})

	t.Run("folio lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().FolioExists(gomock.Any(), "Q-1").Return(false, errors.New("db"))

		_, err := uc.CreateQuote(context.Background(), CreateQuoteInput{Folio: "Q-1"})
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("create success as draft", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		obs := mock_interfaces.NewMockIQuoteObserver(ctrl)
		uc := NewQuoteUseCase(repo, WithObserver(obs))

		repo.EXPECT().FolioExists(gomock.Any(), "Q-1").Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Quote{})).DoAndReturn(
			func(_ context.Context, q entities.Quote) (entities.Quote, error) {
				if q.ID == "" || q.Folio != "Q-1" || q.Status != entities.QuoteStatusDraft {
					t.Fatalf("unexpected quote: %+v", q)
				}
				if q.CreatedAt.IsZero() || !q.CreatedAt.Equal(q.UpdatedAt) {
					t.Fatalf("expected equal timestamps")
				}
				return q, nil
			},
		)
		obs.EXPECT().QuoteCreated(entities.QuoteStatusDraft)

		res, err := uc.CreateQuote(context.Background(), CreateQuoteInput{
			Folio:   " Q-1 ",
			Creator: distributor,
			Items:   []entities.RawQuoteLine{{Name: "Jugo", Quantity: "3", UnitPrice: "2000"}},
		})
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if res.Total != 6000 || len(res.Items) != 1 || res.Items[0].Subtotal != 6000 {
			t.Fatalf("unexpected totals: %+v", res)
		}
		if len(res.StatusHistory) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(res.StatusHistory))
		}
		h := res.StatusHistory[0]
		if h.Source != entities.HistorySourceCreation || h.Status != entities.QuoteStatusDraft || h.UserID != "dist-1" || h.UserName != "Distribuidora Sur" {
			t.Fatalf("unexpected history entry: %+v", h)
		}
		if res.CreatedByEmail != "dist@loncheras.mx" {
			t.Fatalf("unexpected creator email %q", res.CreatedByEmail)
		}
	})

	t.Run("creator without name falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().FolioExists(gomock.Any(), "Q-2").Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q entities.Quote) (entities.Quote, error) { return q, nil },
		)

		res, err := uc.CreateQuote(context.Background(), CreateQuoteInput{
			Folio:         "Q-2",
			Creator:       entities.Actor{UID: "x"},
			InitialStatus: entities.QuoteStatusSent,
		})
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if res.CreatedByName != "Proveedor" || res.Status != entities.QuoteStatusSent {
			t.Fatalf("unexpected quote: %+v", res)
		}
	})

	t.Run("repo create error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().FolioExists(gomock.Any(), "Q-1").Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("put"))

		_, err := uc.CreateQuote(context.Background(), CreateQuoteInput{Folio: "Q-1"})
		if err == nil || err.Error() != "put" {
			t.Fatalf("expected put error, got %v", err)
		}
	})
}

func TestQuoteUseCase_TransitionStatus(t *testing.T) {
	draft := entities.Quote{ID: "q-1", Folio: "Q-1", Status: entities.QuoteStatusDraft, Total: 6000,
		StatusHistory: []entities.StatusHistoryEntry{{Status: entities.QuoteStatusDraft}}}

	t.Run("invalid id", func(t *testing.T) {
		uc := NewQuoteUseCase(nil)
		_, err := uc.TransitionStatus(context.Background(), " ", entities.QuoteStatusSent, distributor, "")
		if !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, nil)

		_, err := uc.TransitionStatus(context.Background(), "q-1", entities.QuoteStatusSent, distributor, "")
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("draft to viewed is rejected without writing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(draft, nil)

		_, err := uc.TransitionStatus(context.Background(), "q-1", entities.QuoteStatusViewed, distributor, "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		var te *InvalidTransitionError
		if !errors.As(err, &te) || te.From != entities.QuoteStatusDraft || te.To != entities.QuoteStatusViewed {
			t.Fatalf("expected InvalidTransitionError draft->viewed, got %v", err)
		}
	})

	t.Run("draft to sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		obs := mock_interfaces.NewMockIQuoteObserver(ctrl)
		uc := NewQuoteUseCase(repo, WithObserver(obs))

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(draft, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(
			func(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
				if change.Status != entities.QuoteStatusSent || change.Entry.Notes != "listo" || change.Entry.Source != "" {
					t.Fatalf("unexpected change: %+v", change)
				}
				if change.Entry.UserID != "dist-1" || change.Entry.UserName != "Distribuidora Sur" {
					t.Fatalf("unexpected actor on entry: %+v", change.Entry)
				}
				return applyChange(draft)(ctx, id, change)
			},
		)
		obs.EXPECT().QuoteTransitioned(entities.QuoteStatusDraft, entities.QuoteStatusSent, "")

		res, err := uc.TransitionStatus(context.Background(), "q-1", entities.QuoteStatusSent, distributor, " listo ")
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if res.Status != entities.QuoteStatusSent || len(res.StatusHistory) != 2 {
			t.Fatalf("unexpected quote: %+v", res)
		}
		if res.Total != 6000 || res.Folio != "Q-1" {
			t.Fatalf("non-status fields changed: %+v", res)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		cancelled := draft
		cancelled.Status = entities.QuoteStatusCancelled
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(cancelled, nil).Times(len(entities.AllQuoteStatuses))

		for _, s := range entities.AllQuoteStatuses {
			_, err := uc.TransitionStatus(context.Background(), "q-1", s, analyst, "")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition for %s, got %v", s, err)
			}
		}
	})

	t.Run("update vanishes mid flight", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(draft, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).Return(entities.Quote{}, nil)

		_, err := uc.TransitionStatus(context.Background(), "q-1", entities.QuoteStatusSent, distributor, "")
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}

func TestQuoteUseCase_ApproveAsAnalyst(t *testing.T) {
	t.Run("approve then sent is invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		draft := entities.Quote{ID: "q-1", Folio: "Q-1", Status: entities.QuoteStatusDraft, Total: 6000,
			StatusHistory: []entities.StatusHistoryEntry{{Status: entities.QuoteStatusDraft, Source: entities.HistorySourceCreation}}}

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(draft, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(applyChange(draft))

		approved, err := uc.ApproveAsAnalyst(context.Background(), "q-1", analyst)
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if approved.Status != entities.QuoteStatusApproved || len(approved.StatusHistory) != 2 {
			t.Fatalf("unexpected quote: %+v", approved)
		}
		last := approved.StatusHistory[1]
		if last.Source != entities.HistorySourceAnalystApproval || last.UserID != "an-1" || last.Notes == "" {
			t.Fatalf("unexpected history entry: %+v", last)
		}
		if approved.ApprovedAt == nil {
			t.Fatalf("expected approved_at stamp")
		}

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(approved, nil)
		_, err = uc.TransitionStatus(context.Background(), "q-1", entities.QuoteStatusSent, analyst, "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	for _, from := range []entities.QuoteStatus{entities.QuoteStatusCancelled, entities.QuoteStatusRejected, entities.QuoteStatusExpired} {
		t.Run("bypasses transition table from "+string(from), func(t *testing.T) {
			if from.CanTransitionTo(entities.QuoteStatusApproved) {
				t.Fatalf("%s -> approved must be outside the transition table", from)
			}
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
			uc := NewQuoteUseCase(repo)

			current := entities.Quote{
				ID:            "q-2",
				Status:        from,
				StatusHistory: []entities.StatusHistoryEntry{{Status: from}},
			}
			repo.EXPECT().GetByID(gomock.Any(), "q-2").Return(current, nil)
			repo.EXPECT().UpdateStatus(gomock.Any(), "q-2", gomock.Any()).DoAndReturn(applyChange(current))

			res, err := uc.ApproveAsAnalyst(context.Background(), "q-2", analyst)
			if err != nil || res.Status != entities.QuoteStatusApproved {
				t.Fatalf("expected approved, got %+v err=%v", res, err)
			}
			if len(res.StatusHistory) != 2 || res.StatusHistory[1].Source != entities.HistorySourceAnalystApproval {
				t.Fatalf("expected an analyst approval entry, got %+v", res.StatusHistory)
			}
		})
	}

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, errors.New("db"))

		_, err := uc.ApproveAsAnalyst(context.Background(), "q-1", analyst)
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestQuoteUseCase_RejectAndDelete(t *testing.T) {
	sent := entities.Quote{ID: "q-1", Folio: "Q-1", Status: entities.QuoteStatusSent}

	t.Run("blank reason leaves quote untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(0))

		_, err := uc.RejectAndDelete(context.Background(), "q-1", analyst, "   ")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects then deletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		obs := mock_interfaces.NewMockIQuoteObserver(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(0), WithObserver(obs))

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(sent, nil),
			repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(
				func(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
					if change.Status != entities.QuoteStatusRejected || change.Entry.Notes != "precio alto" || change.Entry.Source != entities.HistorySourceAnalystRejection {
						t.Fatalf("unexpected change: %+v", change)
					}
					return applyChange(sent)(ctx, id, change)
				},
			),
			repo.EXPECT().Delete(gomock.Any(), "q-1").Return(nil),
		)
		obs.EXPECT().QuoteTransitioned(entities.QuoteStatusSent, entities.QuoteStatusRejected, entities.HistorySourceAnalystRejection)
		obs.EXPECT().QuoteDeleted(entities.QuoteStatusRejected)

		res, err := uc.RejectAndDelete(context.Background(), "q-1", analyst, " precio alto ")
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if !res.Deleted || res.Folio != "Q-1" || res.Reason != "precio alto" || res.RejectedAt.IsZero() {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("rejects from cancelled outside the table", func(t *testing.T) {
		if entities.QuoteStatusCancelled.CanTransitionTo(entities.QuoteStatusRejected) {
			t.Fatalf("cancelled -> rejected must be outside the transition table")
		}
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(0))

		cancelled := entities.Quote{
			ID:            "q-3",
			Folio:         "Q-3",
			Status:        entities.QuoteStatusCancelled,
			StatusHistory: []entities.StatusHistoryEntry{{Status: entities.QuoteStatusCancelled}},
		}
		repo.EXPECT().GetByID(gomock.Any(), "q-3").Return(cancelled, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-3", gomock.Any()).DoAndReturn(
			func(ctx context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
				if change.Status != entities.QuoteStatusRejected || change.Entry.Source != entities.HistorySourceAnalystRejection {
					t.Fatalf("unexpected change: %+v", change)
				}
				return applyChange(cancelled)(ctx, id, change)
			},
		)
		repo.EXPECT().Delete(gomock.Any(), "q-3").Return(nil)

		res, err := uc.RejectAndDelete(context.Background(), "q-3", analyst, "cancelada por error")
		if err != nil || !res.Deleted || res.Folio != "Q-3" {
			t.Fatalf("expected rejected and deleted, got %+v err=%v", res, err)
		}
	})

	t.Run("delete failure leaves rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(0))

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(sent, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(applyChange(sent))
		repo.EXPECT().Delete(gomock.Any(), "q-1").Return(errors.New("delete"))

		res, err := uc.RejectAndDelete(context.Background(), "q-1", analyst, "duplicada")
		if err == nil || err.Error() != "delete" {
			t.Fatalf("expected delete error, got %v", err)
		}
		if res.Deleted || res.QuoteID != "q-1" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("context cancelled during delay skips delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(sent, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(
			func(c context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
				cancel()
				return applyChange(sent)(c, id, change)
			},
		)

		res, err := uc.RejectAndDelete(ctx, "q-1", analyst, "vencida")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if res.Deleted {
			t.Fatalf("expected Deleted=false")
		}
	})

	t.Run("waits the configured delay", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, WithDeletionDelay(20*time.Millisecond))

		var rejectedAt time.Time
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(sent, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", gomock.Any()).DoAndReturn(
			func(c context.Context, id string, change entities.StatusChange) (entities.Quote, error) {
				rejectedAt = time.Now()
				return applyChange(sent)(c, id, change)
			},
		)
		repo.EXPECT().Delete(gomock.Any(), "q-1").DoAndReturn(func(context.Context, string) error {
			if time.Since(rejectedAt) < 20*time.Millisecond {
				t.Fatalf("delete happened before the delay elapsed")
			}
			return nil
		})

		if _, err := uc.RejectAndDelete(context.Background(), "q-1", analyst, "x"); err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
	})
}

func TestQuoteUseCase_ListQuotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
	uc := NewQuoteUseCase(repo)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	filter := entities.QuoteFilter{Status: entities.QuoteStatusSent}
	repo.EXPECT().List(gomock.Any(), filter).Return([]entities.Quote{
		{ID: "a", Folio: "Q-100", Status: entities.QuoteStatusSent, Total: 50, CreatedAt: base},
		{ID: "b", Folio: "Q-200", Status: entities.QuoteStatusSent, Total: 500, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Folio: "X-300", Status: entities.QuoteStatusSent, Total: 900, CreatedAt: base.Add(2 * time.Hour)},
	}, nil)

	minTotal := 100.0
	res, err := uc.ListQuotes(context.Background(), QuoteQuery{Filter: filter, Folio: "q-", MinTotal: &minTotal})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(res) != 1 || res[0].ID != "b" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQuoteUseCase_WatchQuotes(t *testing.T) {
	t.Run("nil callback", func(t *testing.T) {
		uc := NewQuoteUseCase(nil)
		_, err := uc.WatchQuotes(context.Background(), entities.QuoteFilter{}, nil)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("delegates to repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo)

		stopped := false
		filter := entities.QuoteFilter{CreatedByUserID: "dist-1"}
		repo.EXPECT().Subscribe(gomock.Any(), filter, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ entities.QuoteFilter, onChange func([]entities.Quote)) (func(), error) {
				onChange([]entities.Quote{{ID: "q-1"}})
				return func() { stopped = true }, nil
			},
		)

		var got []entities.Quote
		stop, err := uc.WatchQuotes(context.Background(), filter, func(qs []entities.Quote) { got = qs })
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected initial snapshot")
		}
		stop()
		if !stopped {
			t.Fatalf("expected unsubscribe to propagate")
		}
	})
}
