package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/metrics"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/signature"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type TicketService interface {
	// FinalizeTicket is the idempotency guard: it returns the single ticket
	// for paymentID, creating it when none exists. created reports whether
	// this call persisted it.
	FinalizeTicket(ctx context.Context, paymentID string, p TicketPayload) (t *models.Ticket, created bool, err error)
	IssueFromClientPath(ctx context.Context, in ClientConfirmationInput) (IssueResult, error)
	IssueFromGatewayPath(ctx context.Context, rawBody []byte, sig string) (GatewayResult, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context) ([]*models.Ticket, error)
}

type ticketService struct {
	tickets       repository.TicketRepository
	registrations repository.RegistrationRepository
	orders        repository.OrderRepository
	dispatcher    TicketDispatcher
	ids           IDGenerator
	conf          config.PaymentConfig
	l             logger.Logger
}

func NewTicketService(
	tickets repository.TicketRepository,
	registrations repository.RegistrationRepository,
	orders repository.OrderRepository,
	dispatcher TicketDispatcher,
	ids IDGenerator,
	conf config.PaymentConfig,
	l logger.Logger,
) TicketService {
	return &ticketService{
		tickets:       tickets,
		registrations: registrations,
		orders:        orders,
		dispatcher:    dispatcher,
		ids:           ids,
		conf:          conf,
		l:             l,
	}
}

func (s *ticketService) FinalizeTicket(ctx context.Context, paymentID string, p TicketPayload) (*models.Ticket, bool, error) {
	if paymentID == "" {
		return nil, false, ErrMissingRequiredField
	}

	formData := p.FormData
	if formData == nil {
		formData = models.FormData{}
	}

	t := &models.Ticket{
		ID:         s.ids.TicketID(),
		EventTitle: p.EventTitle,
		Name:       p.Name,
		Email:      p.Email,
		FormData:   formData,
		PaymentID:  paymentID,
		Day1:       models.DayStatePending,
		Day2:       models.DayStatePending,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.tickets.InsertIfAbsent(ctx, t)
	if err == nil {
		s.l.Infof(ctx, "service.ticketService.FinalizeTicket: issued %s for payment %s", t.ID, paymentID)
		return t, true, nil
	}

	if !errors.Is(err, repository.ErrDuplicatePayment) {
		s.l.Errorf(ctx, "service.ticketService.FinalizeTicket: %v", err)
		return nil, false, err
	}

	existing, err := s.tickets.GetByPaymentID(ctx, paymentID)
	if err != nil {
		s.l.Errorf(ctx, "service.ticketService.FinalizeTicket: %v", err)
		return nil, false, err
	}

	s.l.Infof(ctx, "service.ticketService.FinalizeTicket: payment %s already holds %s", paymentID, existing.ID)
	return existing, false, nil
}

func (s *ticketService) IssueFromClientPath(ctx context.Context, in ClientConfirmationInput) (IssueResult, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return IssueResult{}, ErrMissingRequiredField
	}

	if !signature.VerifyClientConfirmation(in.OrderID, in.PaymentID, in.Signature, s.conf.KeySecret) {
		metrics.SignatureRejections.WithLabelValues(metrics.PathClient).Inc()
		s.l.Warnf(ctx, "service.ticketService.IssueFromClientPath: %v (order %s, payment %s)", ErrInvalidSignature, in.OrderID, in.PaymentID)
		return IssueResult{}, ErrInvalidSignature
	}

	payload := TicketPayload{
		EventTitle: strings.TrimSpace(in.EventTitle),
		Name:       strings.TrimSpace(in.Name),
		Email:      normalizeEmail(in.Email),
		FormData:   in.FormData,
	}

	if payload.EventTitle == "" || payload.Name == "" || payload.Email == "" {
		if err := s.fillFromOrder(ctx, in.OrderID, &payload); err != nil {
			metrics.TicketIssuance.WithLabelValues(metrics.PathClient, metrics.OutcomeError).Inc()
			return IssueResult{}, err
		}
	}
	if payload.EventTitle == "" || payload.Name == "" || payload.Email == "" {
		return IssueResult{}, ErrMissingRequiredField
	}

	t, created, err := s.FinalizeTicket(ctx, in.PaymentID, payload)
	if err != nil {
		metrics.TicketIssuance.WithLabelValues(metrics.PathClient, metrics.OutcomeError).Inc()
		return IssueResult{}, err
	}

	s.recordIssuance(ctx, metrics.PathClient, t, created)

	if created {
		s.completePendingRegistration(ctx, t)
	}

	return IssueResult{Ticket: t, Created: created}, nil
}

func (s *ticketService) IssueFromGatewayPath(ctx context.Context, rawBody []byte, sig string) (GatewayResult, error) {
	if !signature.VerifyGatewayNotification(rawBody, sig, s.conf.WebhookSecret) {
		metrics.SignatureRejections.WithLabelValues(metrics.PathGateway).Inc()
		s.l.Warnf(ctx, "service.ticketService.IssueFromGatewayPath: %v", ErrInvalidSignature)
		return GatewayResult{}, ErrInvalidSignature
	}

	var n models.GatewayNotification
	if err := json.Unmarshal(rawBody, &n); err != nil {
		s.l.Warnf(ctx, "service.ticketService.IssueFromGatewayPath: %v", err)
		return GatewayResult{}, ErrInvalidNotification
	}

	res := GatewayResult{Event: n.Event}
	if !n.Routed() {
		metrics.TicketIssuance.WithLabelValues(metrics.PathGateway, metrics.OutcomeIgnored).Inc()
		s.l.Debugf(ctx, "service.ticketService.IssueFromGatewayPath: ignoring event %q", n.Event)
		return res, nil
	}
	res.Routed = true

	entity := n.Payload.Payment.Entity
	if entity.ID == "" {
		return res, ErrMissingRequiredField
	}

	payload := TicketPayload{
		EventTitle: strings.TrimSpace(entity.Notes.EventTitle),
		Name:       strings.TrimSpace(entity.Notes.Name),
		Email:      normalizeEmail(entity.Notes.Email),
	}
	if payload.Email == "" {
		payload.Email = normalizeEmail(entity.Email)
	}
	if (payload.EventTitle == "" || payload.Name == "" || payload.Email == "") && entity.OrderID != "" {
		if err := s.fillFromOrder(ctx, entity.OrderID, &payload); err != nil {
			metrics.TicketIssuance.WithLabelValues(metrics.PathGateway, metrics.OutcomeError).Inc()
			return res, err
		}
	}

	var reg *models.Registration
	if payload.EventTitle != "" && payload.Email != "" {
		found, err := s.registrations.FindPending(ctx, payload.EventTitle, payload.Email)
		switch {
		case err == nil:
			reg = found
			payload = TicketPayload{
				EventTitle: found.EventTitle,
				Name:       found.Name,
				Email:      found.Email,
				FormData:   found.FormData,
			}
		case errors.Is(err, repository.ErrNotFound):
		default:
			metrics.TicketIssuance.WithLabelValues(metrics.PathGateway, metrics.OutcomeError).Inc()
			s.l.Errorf(ctx, "service.ticketService.IssueFromGatewayPath: %v", err)
			return res, err
		}
	}

	t, created, err := s.FinalizeTicket(ctx, entity.ID, payload)
	if err != nil {
		metrics.TicketIssuance.WithLabelValues(metrics.PathGateway, metrics.OutcomeError).Inc()
		return res, err
	}

	// A redelivery may only finish the registration that existed when the
	// ticket was issued; a newer one belongs to a later purchase.
	if reg != nil && !created && reg.CreatedAt.After(t.CreatedAt) {
		s.l.Infof(ctx, "service.ticketService.IssueFromGatewayPath: registration %s is newer than %s, left pending", reg.ID, t.ID)
		reg = nil
	}
	if reg != nil {
		if _, err := s.registrations.MarkCompleted(ctx, reg.ID, t.ID, time.Now().UTC()); err != nil {
			s.l.Errorf(ctx, "service.ticketService.IssueFromGatewayPath: %v", err)
			return res, err
		}
	}

	s.recordIssuance(ctx, metrics.PathGateway, t, created)

	res.Ticket = t
	res.Created = created
	return res, nil
}

func (s *ticketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		s.l.Errorf(ctx, "service.ticketService.Get: %v", err)
		return nil, err
	}
	return t, nil
}

func (s *ticketService) List(ctx context.Context) ([]*models.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		s.l.Errorf(ctx, "service.ticketService.List: %v", err)
		return nil, err
	}
	return tickets, nil
}

// recordIssuance counts the outcome and hands new tickets to the dispatcher.
func (s *ticketService) recordIssuance(ctx context.Context, path string, t *models.Ticket, created bool) {
	if !created {
		metrics.TicketIssuance.WithLabelValues(path, metrics.OutcomeDuplicate).Inc()
		return
	}

	metrics.TicketIssuance.WithLabelValues(path, metrics.OutcomeCreated).Inc()
	if !s.dispatcher.Dispatch(ctx, t) {
		s.l.Warnf(ctx, "service.ticketService.recordIssuance: ticket %s was not queued for notification", t.ID)
	}
}

// completePendingRegistration links a registration submitted for the same
// event and email. Failures are logged only; the ticket already exists.
func (s *ticketService) completePendingRegistration(ctx context.Context, t *models.Ticket) {
	reg, err := s.registrations.FindPending(ctx, t.EventTitle, t.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.l.Errorf(ctx, "service.ticketService.completePendingRegistration: %v", err)
		}
		return
	}

	if _, err := s.registrations.MarkCompleted(ctx, reg.ID, t.ID, time.Now().UTC()); err != nil {
		s.l.Errorf(ctx, "service.ticketService.completePendingRegistration: %v", err)
	}
}

// fillFromOrder completes missing payer details from the stored order notes.
// An unknown order leaves the payload unchanged.
func (s *ticketService) fillFromOrder(ctx context.Context, orderID string, p *TicketPayload) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.l.Errorf(ctx, "service.ticketService.fillFromOrder: %v", err)
		return err
	}

	if p.EventTitle == "" {
		p.EventTitle = strings.TrimSpace(o.Notes.EventTitle)
	}
	if p.Name == "" {
		p.Name = strings.TrimSpace(o.Notes.Name)
	}
	if p.Email == "" {
		p.Email = normalizeEmail(o.Notes.Email)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
