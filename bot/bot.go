/* bot.go
 * Contains the organizer announcer: registration changes are queued and posted to a Discord channel by a single
 * goroutine, so a slow or failing Discord never delays a page
 * Authors: AIRO Web Team
 */

package bot

import (
	"log"
	"sync"

	"airo-web/api/api"
	"airo-web/api/shared"
)

const defaultQueueSize = 64

// Announcer posts registration changes to an organizer channel. It implements api.Notifier
type Announcer struct {
	Session   DiscordSession
	ChannelID string

	// mu guards closed and every send on queue
	mu     sync.Mutex
	closed bool
	queue  chan string
	done   chan struct{}
}

// NewAnnouncer creates an announcer and starts its sender goroutine. Call Close to drain and stop it
func NewAnnouncer(session DiscordSession, channelID string, queueSize int) *Announcer {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	a := &Announcer{
		Session:   session,
		ChannelID: channelID,
		queue:     make(chan string, queueSize),
		done:      make(chan struct{}),
	}
	go a.run()
	return a
}

// Ensure Announcer implements api.Notifier
var _ api.Notifier = (*Announcer)(nil)

func (a *Announcer) run() {
	defer close(a.done)
	for msg := range a.queue {
		if _, err := a.Session.ChannelMessageSend(a.ChannelID, msg); err != nil {
			log.Printf("failed to post announcement: %v", err)
		}
	}
}

// enqueue drops the message when the queue is full or the announcer is closed; announcements are best effort
func (a *Announcer) enqueue(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		log.Printf("announcer closed, dropping: %s", msg)
		return
	}
	select {
	case a.queue <- msg:
	default:
		log.Printf("announcement queue full, dropping: %s", msg)
	}
}

// RegistrationCreated announces a new registration
func (a *Announcer) RegistrationCreated(user shared.User, event shared.SportEvent, reg shared.Registration) {
	a.enqueue(createdMessage(user, event, reg))
}

// RegistrationCancelled announces a cancelled registration
func (a *Announcer) RegistrationCancelled(user shared.User, reg shared.Registration) {
	a.enqueue(cancelledMessage(user, reg))
}

// Close stops accepting announcements and waits for the queued ones to be posted. Safe to call more than once,
// and announcements made afterwards are dropped
func (a *Announcer) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
