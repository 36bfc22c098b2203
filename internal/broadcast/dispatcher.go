package broadcast

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultPause is the courtesy delay between recipient sends, keeping the
// bot under Telegram's rate limits. It is not a retry backoff.
const DefaultPause = 100 * time.Millisecond

// Sender delivers one message to one chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Store is the slice of the account store the dispatcher needs.
type Store interface {
	AllUserIDs(ctx context.Context) ([]int64, error)
}

// Dispatcher pushes one message to every known user, sequentially, counting
// per-recipient failures instead of aborting on them.
type Dispatcher struct {
	store  Store
	sender Sender
	pause  time.Duration
}

func NewDispatcher(store Store, sender Sender, pause time.Duration) *Dispatcher {
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Dispatcher{store: store, sender: sender, pause: pause}
}

// Run snapshots the user list once, then attempts delivery to each id in
// turn. Users created after the snapshot are not reached by this run. A
// cancelled context stops the run where it is, with no resumption state.
func (d *Dispatcher) Run(ctx context.Context, text string) (sent, failed int, err error) {
	ids, err := d.store.AllUserIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("snapshot user ids: %w", err)
	}

	log.WithField("users", len(ids)).Info("Starting broadcast")

	for i, id := range ids {
		if err := d.sender.SendMessage(ctx, id, text); err != nil {
			failed++
			log.WithField("user_id", id).WithError(err).Error("Broadcast delivery failed")
		} else {
			sent++
		}

		if i == len(ids)-1 {
			break
		}
		select {
		case <-time.After(d.pause):
		case <-ctx.Done():
			log.WithFields(log.Fields{"sent": sent, "failed": failed}).Info("Broadcast interrupted")
			return sent, failed, nil
		}
	}

	log.WithFields(log.Fields{"sent": sent, "failed": failed}).Info("Broadcast finished")
	return sent, failed, nil
}
