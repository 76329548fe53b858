package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
)

func TestFinalizeTicket_ConcurrentSamePayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]struct{}{}
		created int
	)
	for range workers {
		wg.Go(func() {
			tk, c, err := env.ticketSvc.FinalizeTicket(ctx, "P1", TicketPayload{
				EventTitle: "Conf2024",
				Name:       "A. Singh",
				Email:      "a@x.com",
			})
			if !assert.NoError(t, err) {
				return
			}

			mu.Lock()
			defer mu.Unlock()
			ids[tk.ID] = struct{}{}
			if c {
				created++
			}
		})
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)

	all, err := env.tickets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFinalizeTicket_RequiresPaymentID(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.ticketSvc.FinalizeTicket(context.Background(), "", TicketPayload{Name: "x"})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestIssueFromClientPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
	require.NoError(t, err)
	require.True(t, res.Created)

	tk := res.Ticket
	assert.Contains(t, tk.ID, "TICKET-")
	assert.Equal(t, "Conf2024", tk.EventTitle)
	assert.Equal(t, "a@x.com", tk.Email)
	assert.Equal(t, models.DayStatePending, tk.Day1)
	assert.Equal(t, models.DayStatePending, tk.Day2)
	assert.Equal(t, "L", tk.FormData["tshirt"])
	assert.Equal(t, []string{tk.ID}, env.dispatcher.dispatched())
}

func TestIssueFromClientPath_Validation(t *testing.T) {
	tcs := map[string]struct {
		mutate func(in *ClientConfirmationInput)
		err    error
	}{
		"missing payment id": {
			mutate: func(in *ClientConfirmationInput) { in.PaymentID = "" },
			err:    ErrMissingRequiredField,
		},
		"missing signature": {
			mutate: func(in *ClientConfirmationInput) { in.Signature = "" },
			err:    ErrMissingRequiredField,
		},
		"signature for another payment": {
			mutate: func(in *ClientConfirmationInput) { in.PaymentID = "P2" },
			err:    ErrInvalidSignature,
		},
		"missing payer details without an order": {
			mutate: func(in *ClientConfirmationInput) { in.Email = "" },
			err:    ErrMissingRequiredField,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			in := clientInput("O1", "P1")
			tc.mutate(&in)

			_, err := env.ticketSvc.IssueFromClientPath(context.Background(), in)
			assert.ErrorIs(t, err, tc.err)
			assert.Empty(t, env.mr.Keys())
			assert.Empty(t, env.dispatcher.dispatched())
		})
	}
}

func TestIssueFromClientPath_FillsFromOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.orders.Create(ctx, &models.Order{
		ID:       "O1",
		Amount:   50000,
		Currency: "INR",
		Notes:    models.OrderNotes{Name: "A. Singh", Email: "A@X.com", EventTitle: "Conf2024"},
	}))

	in := clientInput("O1", "P1")
	in.Name, in.Email, in.EventTitle = "", "", ""

	res, err := env.ticketSvc.IssueFromClientPath(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "A. Singh", res.Ticket.Name)
	assert.Equal(t, "a@x.com", res.Ticket.Email)
	assert.Equal(t, "Conf2024", res.Ticket.EventTitle)
}

func TestIssueFromGatewayPath_UsesNotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	res, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)

	assert.True(t, res.Routed)
	assert.True(t, res.Created)
	assert.Equal(t, "A. Singh", res.Ticket.Name)
	assert.Empty(t, res.Ticket.FormData)
	assert.Equal(t, []string{res.Ticket.ID}, env.dispatcher.dispatched())
}

func TestIssueFromGatewayPath_OrderPaidIsRouted(t *testing.T) {
	env := newTestEnv(t)

	body := gatewayBody(t, models.GatewayEventOrderPaid, "O1", "P1", conf2024Notes)
	res, err := env.ticketSvc.IssueFromGatewayPath(context.Background(), body, signGateway(body))
	require.NoError(t, err)
	assert.True(t, res.Routed)
	assert.True(t, res.Created)
}

func TestIssueFromGatewayPath_UnroutedEventIgnored(t *testing.T) {
	env := newTestEnv(t)

	body := gatewayBody(t, "payment.failed", "O1", "P1", conf2024Notes)
	res, err := env.ticketSvc.IssueFromGatewayPath(context.Background(), body, signGateway(body))
	require.NoError(t, err)

	assert.False(t, res.Routed)
	assert.Equal(t, "payment.failed", res.Event)
	assert.Nil(t, res.Ticket)
	assert.Empty(t, env.mr.Keys())
}

func TestIssueFromGatewayPath_TamperedSignatureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.regSvc.PreRegister(ctx, PreRegisterInput{
		EventTitle: "Conf2024", Name: "A. Singh", Email: "a@x.com",
		FormData: models.FormData{"tshirt": "L"},
	})
	require.NoError(t, err)
	before := env.mr.Keys()

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	sig := signGateway(body)
	tampered := append([]byte(nil), body...)
	tampered[len(tampered)-2] ^= 0x01

	_, err = env.ticketSvc.IssueFromGatewayPath(ctx, tampered, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway([]byte("other")))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	assert.Equal(t, before, env.mr.Keys())
	got, err := env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPendingPayment, got.Status)
	assert.Empty(t, env.dispatcher.dispatched())
}

func TestIssueFromGatewayPath_Malformed(t *testing.T) {
	env := newTestEnv(t)

	body := []byte(`{"event":`)
	_, err := env.ticketSvc.IssueFromGatewayPath(context.Background(), body, signGateway(body))
	assert.ErrorIs(t, err, ErrInvalidNotification)

	body = gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "", conf2024Notes)
	_, err = env.ticketSvc.IssueFromGatewayPath(context.Background(), body, signGateway(body))
	assert.ErrorIs(t, err, ErrMissingRequiredField)
	assert.Empty(t, env.mr.Keys())
}

func TestBothTriggers_ClientThenGateway(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
	require.NoError(t, err)
	require.True(t, first.Created)

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	second, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Ticket.ID, second.Ticket.ID)
	// The first verified trigger's payload wins.
	assert.Equal(t, "L", second.Ticket.FormData["tshirt"])
	assert.Equal(t, []string{first.Ticket.ID}, env.dispatcher.dispatched())

	all, err := env.tickets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBothTriggers_GatewayThenClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	first, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Ticket.ID, second.Ticket.ID)
	assert.Equal(t, []string{first.Ticket.ID}, env.dispatcher.dispatched())
}

func TestBothTriggers_Concurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	sig := signGateway(body)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)
	record := func(tk *models.Ticket) {
		mu.Lock()
		defer mu.Unlock()
		ids[tk.ID] = struct{}{}
	}
	for range 10 {
		wg.Go(func() {
			res, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
			if assert.NoError(t, err) {
				record(res.Ticket)
			}
		})
		wg.Go(func() {
			res, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, sig)
			if assert.NoError(t, err) {
				record(res.Ticket)
			}
		})
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Len(t, env.dispatcher.dispatched(), 1)
}

func TestPreRegistrationThenGateway(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.regSvc.PreRegister(ctx, PreRegisterInput{
		EventTitle: "Conf2024",
		Name:       "A. Singh",
		Email:      "a@x.com",
		FormData:   models.FormData{"tshirt": "L"},
	})
	require.NoError(t, err)

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	res, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)
	require.True(t, res.Created)
	assert.Equal(t, "L", res.Ticket.FormData["tshirt"])

	got, err := env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCompleted, got.Status)
	assert.Equal(t, res.Ticket.ID, got.TicketID)

	// A retried delivery returns the same ticket.
	again, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Ticket.ID, again.Ticket.ID)
}

func TestGatewayRedelivery_LeavesNewerRegistrationPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	p1, err := env.ticketSvc.IssueFromGatewayPath(ctx, first, signGateway(first))
	require.NoError(t, err)
	require.True(t, p1.Created)

	reg, err := env.regSvc.PreRegister(ctx, PreRegisterInput{
		EventTitle: "Conf2024",
		Name:       "A. Singh",
		Email:      "a@x.com",
		FormData:   models.FormData{"tshirt": "XL"},
	})
	require.NoError(t, err)

	again, err := env.ticketSvc.IssueFromGatewayPath(ctx, first, signGateway(first))
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, p1.Ticket.ID, again.Ticket.ID)

	got, err := env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPendingPayment, got.Status)
	assert.Empty(t, got.TicketID)

	second := gatewayBody(t, models.GatewayEventPaymentCaptured, "O2", "P2", conf2024Notes)
	p2, err := env.ticketSvc.IssueFromGatewayPath(ctx, second, signGateway(second))
	require.NoError(t, err)
	require.True(t, p2.Created)
	assert.Equal(t, "XL", p2.Ticket.FormData["tshirt"])

	got, err = env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCompleted, got.Status)
	assert.Equal(t, p2.Ticket.ID, got.TicketID)
}

func TestGatewayRedelivery_CompletesOlderRegistration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.regSvc.PreRegister(ctx, PreRegisterInput{
		EventTitle: "Conf2024", Name: "A. Singh", Email: "a@x.com",
	})
	require.NoError(t, err)

	// Ticket exists but the registration was never linked.
	tk, created, err := env.ticketSvc.FinalizeTicket(ctx, "P1", TicketPayload{
		EventTitle: "Conf2024", Name: "A. Singh", Email: "a@x.com",
	})
	require.NoError(t, err)
	require.True(t, created)

	body := gatewayBody(t, models.GatewayEventPaymentCaptured, "O1", "P1", conf2024Notes)
	res, err := env.ticketSvc.IssueFromGatewayPath(ctx, body, signGateway(body))
	require.NoError(t, err)
	assert.False(t, res.Created)

	got, err := env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCompleted, got.Status)
	assert.Equal(t, tk.ID, got.TicketID)
}

func TestClientPathCompletesPendingRegistration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.regSvc.PreRegister(ctx, PreRegisterInput{
		EventTitle: "Conf2024", Name: "A. Singh", Email: "A@x.com",
	})
	require.NoError(t, err)

	res, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
	require.NoError(t, err)

	got, err := env.registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCompleted, got.Status)
	assert.Equal(t, res.Ticket.ID, got.TicketID)
}

func TestTicketService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ticketSvc.Get(ctx, "TICKET-404")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	res, err := env.ticketSvc.IssueFromClientPath(ctx, clientInput("O1", "P1"))
	require.NoError(t, err)

	got, err := env.ticketSvc.Get(ctx, res.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", got.PaymentID)
}

func TestTicketService_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.mr.SetError("LOADING")

	_, err := env.ticketSvc.IssueFromClientPath(context.Background(), clientInput("O1", "P1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicatePayment)
	assert.Empty(t, env.dispatcher.dispatched())
}
