package queue

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	// Ping reports broker connectivity for the readiness probe.
	Ping() error
	Close() error
}

// Subjects used by the application. Kitchen consumers assume tickets
// arrive on kitchen.ticket.issued in the order they were placed.
const (
	SubjectOrderCreated     = "orders.created"
	SubjectOrderStatus      = "orders.status.changed"
	SubjectTicketIssued     = "kitchen.ticket.issued"
	SubjectPaymentEvents    = "payments.completed"
	SubjectMenuAvailability = "menu.availability.changed"
)
