package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/metrics"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type CheckInService interface {
	// ValidateAndCheckIn reports the gate outcome. Only store failures are
	// returned as errors.
	ValidateAndCheckIn(ctx context.Context, ticketID string, day int) (*models.CheckInResult, error)
}

type checkInService struct {
	tickets repository.TicketRepository
	l       logger.Logger
}

func NewCheckInService(tickets repository.TicketRepository, l logger.Logger) CheckInService {
	return &checkInService{
		tickets: tickets,
		l:       l,
	}
}

func (s *checkInService) ValidateAndCheckIn(ctx context.Context, ticketID string, day int) (*models.CheckInResult, error) {
	res, err := s.checkIn(ctx, ticketID, day)
	if err != nil {
		return nil, err
	}

	metrics.CheckIns.WithLabelValues(strconv.Itoa(day), string(res.Outcome)).Inc()
	return res, nil
}

func (s *checkInService) checkIn(ctx context.Context, ticketID string, day int) (*models.CheckInResult, error) {
	if !models.ValidDay(day) || ticketID == "" {
		return &models.CheckInResult{Outcome: models.CheckInInvalidRequest, Day: day}, nil
	}

	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.CheckInResult{Outcome: models.CheckInNotFound, Day: day}, nil
		}
		s.l.Errorf(ctx, "service.checkInService.ValidateAndCheckIn: %v", err)
		return nil, err
	}

	summary := t.Summary()
	if t.DayState(day) == models.DayStateCheckedIn {
		return &models.CheckInResult{Outcome: models.CheckInAlreadyCheckedIn, Day: day, Ticket: &summary}, nil
	}

	flipped, err := s.tickets.CheckIn(ctx, ticketID, day, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.CheckInResult{Outcome: models.CheckInNotFound, Day: day}, nil
		}
		s.l.Errorf(ctx, "service.checkInService.ValidateAndCheckIn: %v", err)
		return nil, err
	}

	// Lost the race against a concurrent scan of the same ticket.
	if !flipped {
		return &models.CheckInResult{Outcome: models.CheckInAlreadyCheckedIn, Day: day, Ticket: &summary}, nil
	}

	s.l.Infof(ctx, "service.checkInService.ValidateAndCheckIn: %s checked in for day %d", ticketID, day)
	return &models.CheckInResult{Outcome: models.CheckInSuccess, Day: day, Ticket: &summary}, nil
}
