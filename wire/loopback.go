package wire

import (
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/terror"
)

// Loopback is an in-memory Channel hub connecting participants in one
// process. Messages queue per recipient and are handed to receivers only
// inside Flush, so sends made from within a handler never re-enter another
// handler. Per-sender order is preserved; nothing else is.
type Loopback struct {
	log *logrus.Logger

	authority string
	order     []string
	receivers map[string]Receiver
	queues    map[string][]envelope
}

type envelope struct {
	from string
	msg  Message
}

// NewLoopback returns an empty hub.
func NewLoopback(log *logrus.Logger) *Loopback {
	return &Loopback{
		log:       log,
		receivers: make(map[string]Receiver),
		queues:    make(map[string][]envelope),
	}
}

// Attach registers a participant and returns its endpoint. Exactly one
// participant must attach as the authority.
func (l *Loopback) Attach(id string, r Receiver, authority bool) *Endpoint {
	if _, dup := l.receivers[id]; dup {
		panic(terror.New("loopback: duplicate participant %q", id))
	}
	if authority {
		if l.authority != "" {
			panic(terror.New("loopback: authority already attached (%q)", l.authority))
		}
		l.authority = id
	}
	l.receivers[id] = r
	l.order = append(l.order, id)
	return &Endpoint{hub: l, id: id}
}

// Flush delivers queued messages until every queue is empty, including
// messages enqueued by the handlers themselves.
func (l *Loopback) Flush() {
	for {
		delivered := false
		for _, id := range l.order {
			queue := l.queues[id]
			if len(queue) == 0 {
				continue
			}
			l.queues[id] = nil
			for _, env := range queue {
				l.log.Debugf("loopback: %s -> %s: %T", env.from, id, env.msg)
				l.receivers[id].HandleMessage(env.from, env.msg)
			}
			delivered = true
		}
		if !delivered {
			return
		}
	}
}

func (l *Loopback) enqueue(to, from string, msg Message) {
	l.queues[to] = append(l.queues[to], envelope{from: from, msg: msg})
}

// Endpoint is one participant's view of the hub.
type Endpoint struct {
	hub *Loopback
	id  string
}

func (e *Endpoint) SendToAuthority(msg Message) {
	if e.hub.authority == "" || e.hub.authority == e.id {
		return
	}
	e.hub.enqueue(e.hub.authority, e.id, msg)
}

func (e *Endpoint) Broadcast(msg Message) {
	for _, id := range e.hub.order {
		if id == e.id {
			continue
		}
		e.hub.enqueue(id, e.id, msg)
	}
}
