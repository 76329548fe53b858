package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/testutil"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

func newTicket(id, paymentID string, createdAt time.Time) *models.Ticket {
	return &models.Ticket{
		ID:         id,
		EventTitle: "Conf2024",
		Name:       "A. Singh",
		Email:      "a@x.com",
		FormData:   models.FormData{"tshirt": "L"},
		PaymentID:  paymentID,
		Day1:       models.DayStatePending,
		Day2:       models.DayStatePending,
		CreatedAt:  createdAt,
	}
}

func TestTicketRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	repo := NewTicketRepository(pool, logger.InitializeTestZapLogger())

	t.Run("duplicate payment is rejected by the unique index", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		now := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.InsertIfAbsent(ctx, newTicket("TICKET-1", "P1", now)))

		err := repo.InsertIfAbsent(ctx, newTicket("TICKET-2", "P1", now))
		assert.ErrorIs(t, err, repository.ErrDuplicatePayment)

		err = repo.InsertIfAbsent(ctx, newTicket("TICKET-1", "P2", now))
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)

		got, err := repo.GetByPaymentID(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, "TICKET-1", got.ID)
		assert.Equal(t, models.FormData{"tshirt": "L"}, got.FormData)
		assert.True(t, now.Equal(got.CreatedAt))

		_, err = repo.GetByID(ctx, "TICKET-2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("concurrent inserts for one payment keep one row", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			inserted int
		)
		for i := range 8 {
			wg.Go(func() {
				err := repo.InsertIfAbsent(ctx, newTicket(fmt.Sprintf("TICKET-%d", i), "P-race", time.Now()))
				if err != nil && !errors.Is(err, repository.ErrDuplicatePayment) {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if err == nil {
					mu.Lock()
					inserted++
					mu.Unlock()
				}
			})
		}
		wg.Wait()

		assert.Equal(t, 1, inserted)
		tickets, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, tickets, 1)
	})

	t.Run("list is newest first", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		base := time.Now().UTC()
		require.NoError(t, repo.InsertIfAbsent(ctx, newTicket("TICKET-old", "P1", base.Add(-time.Hour))))
		require.NoError(t, repo.InsertIfAbsent(ctx, newTicket("TICKET-new", "P2", base)))

		tickets, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tickets, 2)
		assert.Equal(t, "TICKET-new", tickets[0].ID)
		assert.Equal(t, "TICKET-old", tickets[1].ID)
	})

	t.Run("check-in flips once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		require.NoError(t, repo.InsertIfAbsent(ctx, newTicket("TICKET-1", "P1", time.Now())))

		flipped, err := repo.CheckIn(ctx, "TICKET-1", 2, time.Now())
		require.NoError(t, err)
		assert.True(t, flipped)

		flipped, err = repo.CheckIn(ctx, "TICKET-1", 2, time.Now())
		require.NoError(t, err)
		assert.False(t, flipped)

		got, err := repo.GetByID(ctx, "TICKET-1")
		require.NoError(t, err)
		assert.Equal(t, models.DayStatePending, got.Day1)
		assert.Equal(t, models.DayStateCheckedIn, got.Day2)
		assert.NotNil(t, got.Day2CheckedInAt)

		_, err = repo.CheckIn(ctx, "TICKET-404", 1, time.Now())
		assert.ErrorIs(t, err, repository.ErrNotFound)

		_, err = repo.CheckIn(ctx, "TICKET-1", 3, time.Now())
		assert.Error(t, err)
	})
}

func TestRegistrationRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewRegistrationRepository(pool, logger.InitializeTestZapLogger())

	now := time.Now().UTC()
	older := &models.Registration{
		ID: "reg-old", EventTitle: "Conf2024", Name: "A. Singh", Email: "a@x.com",
		FormData: models.FormData{"tshirt": "M"}, Status: models.RegistrationStatusPendingPayment,
		CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
	}
	newer := &models.Registration{
		ID: "reg-new", EventTitle: "Conf2024", Name: "A. Singh", Email: "a@x.com",
		FormData: models.FormData{"tshirt": "L"}, Status: models.RegistrationStatusPendingPayment,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	assert.ErrorIs(t, repo.Create(ctx, newer), repository.ErrAlreadyExists)

	got, err := repo.FindPending(ctx, "Conf2024", "A@x.com")
	require.NoError(t, err)
	assert.Equal(t, "reg-new", got.ID)
	assert.Equal(t, models.FormData{"tshirt": "L"}, got.FormData)

	ok, err := repo.MarkCompleted(ctx, "reg-new", "TICKET-1", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkCompleted(ctx, "reg-new", "TICKET-1", now)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.MarkCompleted(ctx, "reg-404", "TICKET-1", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err = repo.GetByID(ctx, "reg-new")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCompleted, got.Status)
	assert.Equal(t, "TICKET-1", got.TicketID)
}

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewOrderRepository(pool, logger.InitializeTestZapLogger())

	o := &models.Order{
		ID: "order_1", Amount: 49900, Currency: "INR", Receipt: "rcpt-1",
		Notes:  models.OrderNotes{Name: "A. Singh", Email: "a@x.com", EventTitle: "Conf2024"},
		Status: "created", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, o))
	assert.ErrorIs(t, repo.Create(ctx, o), repository.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, o.Notes, got.Notes)

	_, err = repo.GetByID(ctx, "order_404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
