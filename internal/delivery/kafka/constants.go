package kafka

const (
	// Published by the ticketing service, consumed by the mailer.
	TopicTicketIssued = "ticket.issued"

	// Gateway notifications relayed from the edge.
	TopicGatewayNotifications = "payment.gateway.notifications"

	HeaderGatewaySignature = "x-razorpay-signature"
	HeaderTimestamp        = "timestamp"
)
