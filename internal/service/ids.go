package service

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

const ticketIDPrefix = "TICKET-"

type IDGenerator interface {
	TicketID() string
	RegistrationID() string
	Receipt() string
}

type idGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &idGenerator{node: node}, nil
}

func (g *idGenerator) TicketID() string {
	return ticketIDPrefix + g.node.Generate().String()
}

func (g *idGenerator) RegistrationID() string {
	return uuid.NewString()
}

// Receipt is limited to 40 characters by the gateway.
func (g *idGenerator) Receipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
