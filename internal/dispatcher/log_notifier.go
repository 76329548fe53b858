package dispatcher

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

// LogNotifier records notifications in the log. It stands in for the
// broker when Kafka is disabled.
type LogNotifier struct {
	l logger.Logger
}

func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{l: l}
}

func (n *LogNotifier) NotifyTicketIssued(ctx context.Context, t *models.Ticket) error {
	n.l.Infof(ctx, "ticket issued: id=%s event=%q name=%q email=%s", t.ID, t.EventTitle, t.Name, t.Email)
	return nil
}
