package service

import (
	"context"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type RegistrationService interface {
	PreRegister(ctx context.Context, in PreRegisterInput) (*models.Registration, error)
}

type registrationService struct {
	repo repository.RegistrationRepository
	ids  IDGenerator
	l    logger.Logger
}

func NewRegistrationService(repo repository.RegistrationRepository, ids IDGenerator, l logger.Logger) RegistrationService {
	return &registrationService{
		repo: repo,
		ids:  ids,
		l:    l,
	}
}

func (s *registrationService) PreRegister(ctx context.Context, in PreRegisterInput) (*models.Registration, error) {
	reg := &models.Registration{
		ID:         s.ids.RegistrationID(),
		EventTitle: strings.TrimSpace(in.EventTitle),
		Name:       strings.TrimSpace(in.Name),
		Email:      normalizeEmail(in.Email),
		FormData:   in.FormData,
		Status:     models.RegistrationStatusPendingPayment,
	}
	if reg.EventTitle == "" || reg.Name == "" || reg.Email == "" {
		return nil, ErrMissingRequiredField
	}
	if reg.FormData == nil {
		reg.FormData = models.FormData{}
	}

	now := time.Now().UTC()
	reg.CreatedAt, reg.UpdatedAt = now, now

	if err := s.repo.Create(ctx, reg); err != nil {
		s.l.Errorf(ctx, "service.registrationService.PreRegister: %v", err)
		return nil, err
	}

	return reg, nil
}
