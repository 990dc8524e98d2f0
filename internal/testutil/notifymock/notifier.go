package notifymock

import (
	"context"
	"sync"

	"ops-portal-backend/internal/domain/notification"
)

var _ notification.Notifier = (*Recorder)(nil)

// Recorder keeps every notification it is handed.
type Recorder struct {
	mu  sync.Mutex
	log []notification.Notification
}

func (r *Recorder) Notify(_ context.Context, n notification.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, n)
}

func (r *Recorder) All() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Notification, len(r.log))
	copy(out, r.log)
	return out
}

// For returns the notifications addressed to userID.
func (r *Recorder) For(userID string) []notification.Notification {
	var out []notification.Notification
	for _, n := range r.All() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
