package wire

// Channel is the boundary to the transport carrying protocol messages.
// Delivery is reliable and ordered per sender; nothing is assumed about
// ordering across senders.
type Channel interface {
	// SendToAuthority delivers a request to the authority participant.
	SendToAuthority(msg Message)
	// Broadcast delivers a message to every participant except the
	// sender. Only the authority broadcasts.
	Broadcast(msg Message)
}

// Receiver consumes messages a channel delivers. Handlers run to completion
// before the next message is handed over.
type Receiver interface {
	HandleMessage(from string, msg Message)
}
