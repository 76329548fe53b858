package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	pkgRedis "github.com/vogiaan1904/ticketbottle-ticketing/pkg/redis"
)

// KEYS: registration key, pending index key.
// ARGV: pending status, completed status, ticket id, updated_at, registration id.
var completeRegistrationScript = redis.NewScript(`
	if redis.call('HGET', KEYS[1], 'status') ~= ARGV[1] then
		return 0
	end

	redis.call('HSET', KEYS[1], 'status', ARGV[2], 'ticket_id', ARGV[3], 'updated_at', ARGV[4])
	if redis.call('GET', KEYS[2]) == ARGV[5] then
		redis.call('DEL', KEYS[2])
	end

	return 1
`)

type registrationRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRegistrationRepository(cli *redis.Client, l logger.Logger) repository.RegistrationRepository {
	return &registrationRepository{
		cli: cli,
		l:   l,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	fd := reg.FormData
	if fd == nil {
		fd = models.FormData{}
	}
	formData, err := json.Marshal(fd)
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.registrationRepository.Create: %v", err)
		return err
	}

	key := registrationKey(reg.ID)
	_, err = r.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"id", reg.ID,
			"event", reg.EventTitle,
			"name", reg.Name,
			"email", reg.Email,
			"form_data", string(formData),
			"status", string(reg.Status),
			"ticket_id", reg.TicketID,
			"created_at", reg.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updated_at", reg.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		if reg.Status == models.RegistrationStatusPendingPayment {
			pipe.Set(ctx, pendingRegistrationKey(reg.EventTitle, reg.Email), reg.ID, 0)
		}
		return nil
	})
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.registrationRepository.Create: %v", err)
		return err
	}

	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	m, err := r.cli.HGetAll(ctx, registrationKey(id)).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.registrationRepository.GetByID: %v", err)
		return nil, err
	}
	if len(m) == 0 {
		return nil, repository.ErrNotFound
	}

	return decodeRegistration(m)
}

func (r *registrationRepository) FindPending(ctx context.Context, eventTitle, email string) (*models.Registration, error) {
	id, err := r.cli.Get(ctx, pendingRegistrationKey(eventTitle, email)).Result()
	if err != nil {
		if pkgRedis.IsNil(err) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "redisrepo.registrationRepository.FindPending: %v", err)
		return nil, err
	}

	reg, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.RegistrationStatusPendingPayment {
		return nil, repository.ErrNotFound
	}

	return reg, nil
}

func (r *registrationRepository) MarkCompleted(ctx context.Context, id, ticketID string, at time.Time) (bool, error) {
	reg, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	res, err := completeRegistrationScript.Run(ctx, r.cli,
		[]string{registrationKey(id), pendingRegistrationKey(reg.EventTitle, reg.Email)},
		string(models.RegistrationStatusPendingPayment),
		string(models.RegistrationStatusCompleted),
		ticketID,
		at.UTC().Format(time.RFC3339Nano),
		id,
	).Int()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.registrationRepository.MarkCompleted: %v", err)
		return false, err
	}

	return res == 1, nil
}

func decodeRegistration(m map[string]string) (*models.Registration, error) {
	reg := &models.Registration{
		ID:         m["id"],
		EventTitle: m["event"],
		Name:       m["name"],
		Email:      m["email"],
		Status:     models.RegistrationStatus(m["status"]),
		TicketID:   m["ticket_id"],
		FormData:   models.FormData{},
	}

	if raw := m["form_data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &reg.FormData); err != nil {
			return nil, fmt.Errorf("unmarshal form data of %s: %w", reg.ID, err)
		}
	}

	var err error
	if reg.CreatedAt, err = time.Parse(time.RFC3339Nano, m["created_at"]); err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", reg.ID, err)
	}
	if reg.UpdatedAt, err = time.Parse(time.RFC3339Nano, m["updated_at"]); err != nil {
		return nil, fmt.Errorf("parse updated_at of %s: %w", reg.ID, err)
	}

	return reg, nil
}
