package server

import (
	"github.com/sirupsen/logrus"

	"pigeon/internal/domain"
)

// subscriber is one WebSocket listening on one conversation.
type subscriber struct {
	conv domain.ConversationID
	send chan domain.MessageEntry
}

// hub fans new messages out to subscribers. A single goroutine owns the
// subscription map; everything else talks to it over channels.
type hub struct {
	registerCh   chan *subscriber
	unregisterCh chan *subscriber
	publishCh    chan domain.MessageEntry
	stopCh       chan struct{}
	doneCh       chan struct{}
	log          logrus.FieldLogger
}

func newHub(log logrus.FieldLogger) *hub {
	return &hub{
		registerCh:   make(chan *subscriber),
		unregisterCh: make(chan *subscriber, 16),
		publishCh:    make(chan domain.MessageEntry, 256),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		log:          log,
	}
}

func (h *hub) start() { go h.run() }

func (h *hub) stop() {
	close(h.stopCh)
	<-h.doneCh
}

// subscribe registers a listener and returns once the hub has it, so a
// later publish reaches it. ok is false once the hub has stopped.
func (h *hub) subscribe(conv domain.ConversationID) (*subscriber, bool) {
	sub := &subscriber{conv: conv, send: make(chan domain.MessageEntry, 64)}
	select {
	case h.registerCh <- sub:
		return sub, true
	case <-h.doneCh:
		return nil, false
	}
}

func (h *hub) unsubscribe(sub *subscriber) {
	select {
	case h.unregisterCh <- sub:
	case <-h.doneCh:
	}
}

// publish queues m for delivery; it never blocks the caller.
func (h *hub) publish(m domain.MessageEntry) {
	select {
	case h.publishCh <- m:
	default:
		h.log.WithField("conversation", m.ConversationID).Warn("hub backlog full, dropping push")
	}
}

func (h *hub) run() {
	defer close(h.doneCh)

	subs := make(map[domain.ConversationID]map[*subscriber]struct{})

	for {
		select {
		case sub := <-h.registerCh:
			if subs[sub.conv] == nil {
				subs[sub.conv] = make(map[*subscriber]struct{})
			}
			subs[sub.conv][sub] = struct{}{}

		case sub := <-h.unregisterCh:
			if set, ok := subs[sub.conv]; ok {
				if _, ok := set[sub]; ok {
					delete(set, sub)
					close(sub.send)
				}
				if len(set) == 0 {
					delete(subs, sub.conv)
				}
			}

		case m := <-h.publishCh:
			for sub := range subs[m.ConversationID] {
				select {
				case sub.send <- m:
				default:
					// slow subscriber; it can refetch history
				}
			}

		case <-h.stopCh:
			for _, set := range subs {
				for sub := range set {
					close(sub.send)
				}
			}
			return
		}
	}
}
