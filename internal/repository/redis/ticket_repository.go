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

// KEYS: payment key, ticket key, ticket index.
// ARGV: ticket id, created_at score, then the ticket hash field/value pairs.
var insertTicketScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return 0
	end
	if redis.call('EXISTS', KEYS[2]) == 1 then
		return -1
	end

	redis.call('SET', KEYS[1], ARGV[1])
	redis.call('HSET', KEYS[2], unpack(ARGV, 3))
	redis.call('ZADD', KEYS[3], ARGV[2], ARGV[1])

	return 1
`)

// KEYS: ticket key.
// ARGV: day field, checked-in-at field, timestamp, pending, checked-in.
var checkInScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return 0
	end
	if redis.call('HGET', KEYS[1], ARGV[1]) ~= ARGV[4] then
		return 1
	end

	redis.call('HSET', KEYS[1], ARGV[1], ARGV[5], ARGV[2], ARGV[3])
	return 2
`)

const (
	checkInMissing = 0
	checkInAlready = 1
	checkInFlipped = 2
)

type ticketRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewTicketRepository(cli *redis.Client, l logger.Logger) repository.TicketRepository {
	return &ticketRepository{
		cli: cli,
		l:   l,
	}
}

func (r *ticketRepository) InsertIfAbsent(ctx context.Context, t *models.Ticket) error {
	fields, err := encodeTicket(t)
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.InsertIfAbsent: %v", err)
		return err
	}

	args := append([]any{t.ID, t.CreatedAt.UnixMilli()}, fields...)
	keys := []string{paymentKey(t.PaymentID), ticketKey(t.ID), ticketIndexKey()}

	res, err := insertTicketScript.Run(ctx, r.cli, keys, args...).Int()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.InsertIfAbsent: %v", err)
		return err
	}

	switch res {
	case 0:
		return repository.ErrDuplicatePayment
	case -1:
		return repository.ErrAlreadyExists
	}

	r.l.Debugf(ctx, "redisrepo.ticketRepository.InsertIfAbsent: ticket %s stored for payment %s", t.ID, t.PaymentID)
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	m, err := r.cli.HGetAll(ctx, ticketKey(id)).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.GetByID: %v", err)
		return nil, err
	}
	if len(m) == 0 {
		return nil, repository.ErrNotFound
	}

	return decodeTicket(m)
}

func (r *ticketRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Ticket, error) {
	id, err := r.cli.Get(ctx, paymentKey(paymentID)).Result()
	if err != nil {
		if pkgRedis.IsNil(err) {
			return nil, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "redisrepo.ticketRepository.GetByPaymentID: %v", err)
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *ticketRepository) List(ctx context.Context) ([]*models.Ticket, error) {
	ids, err := r.cli.ZRevRange(ctx, ticketIndexKey(), 0, -1).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.List: %v", err)
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.Ticket{}, nil
	}

	pipe := r.cli.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, ticketKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.List: %v", err)
		return nil, err
	}

	tickets := make([]*models.Ticket, 0, len(ids))
	for _, cmd := range cmds {
		m := cmd.Val()
		if len(m) == 0 {
			continue
		}
		t, err := decodeTicket(m)
		if err != nil {
			r.l.Errorf(ctx, "redisrepo.ticketRepository.List: %v", err)
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, nil
}

func (r *ticketRepository) CheckIn(ctx context.Context, id string, day int, at time.Time) (bool, error) {
	res, err := checkInScript.Run(ctx, r.cli,
		[]string{ticketKey(id)},
		models.DayField(day),
		models.DayCheckedInAtField(day),
		at.UTC().Format(time.RFC3339Nano),
		string(models.DayStatePending),
		string(models.DayStateCheckedIn),
	).Int()
	if err != nil {
		r.l.Errorf(ctx, "redisrepo.ticketRepository.CheckIn: %v", err)
		return false, err
	}

	switch res {
	case checkInMissing:
		return false, repository.ErrNotFound
	case checkInFlipped:
		return true, nil
	default:
		return false, nil
	}
}

func encodeTicket(t *models.Ticket) ([]any, error) {
	fd := t.FormData
	if fd == nil {
		fd = models.FormData{}
	}
	formData, err := json.Marshal(fd)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}

	return []any{
		"id", t.ID,
		"event", t.EventTitle,
		"name", t.Name,
		"email", t.Email,
		"form_data", string(formData),
		"payment_id", t.PaymentID,
		models.DayField(1), string(t.Day1),
		models.DayField(2), string(t.Day2),
		"created_at", t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func decodeTicket(m map[string]string) (*models.Ticket, error) {
	t := &models.Ticket{
		ID:         m["id"],
		EventTitle: m["event"],
		Name:       m["name"],
		Email:      m["email"],
		PaymentID:  m["payment_id"],
		Day1:       models.DayState(m[models.DayField(1)]),
		Day2:       models.DayState(m[models.DayField(2)]),
		FormData:   models.FormData{},
	}

	if raw := m["form_data"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.FormData); err != nil {
			return nil, fmt.Errorf("unmarshal form data of %s: %w", t.ID, err)
		}
	}

	createdAt, err := time.Parse(time.RFC3339Nano, m["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", t.ID, err)
	}
	t.CreatedAt = createdAt

	for day := models.FirstDay; day <= models.LastDay; day++ {
		raw := m[models.DayCheckedInAtField(day)]
		if raw == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("parse check-in time of %s: %w", t.ID, err)
		}
		t.SetDayState(day, t.DayState(day), &at)
	}

	return t, nil
}
