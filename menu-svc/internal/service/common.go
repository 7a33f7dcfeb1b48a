package service

import (
	"context"
	"errors"

	"partyorder/menu-svc/internal/domain"

	"go.uber.org/zap"
)

// authorizeEvent loads the event and checks that userID owns it.
func authorizeEvent(ctx context.Context, repo MenuRepository, userID, eventID string) (*domain.Event, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	event, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return event, nil
}

// notifier fires the stale-menu signal without making the caller wait on it.
type notifier struct {
	revalidator Revalidator
	logger      *zap.Logger
}

func (n notifier) menuStale(eventID, reason string) {
	if n.revalidator == nil {
		return
	}
	go func() {
		if err := n.revalidator.MenuStale(context.Background(), eventID, reason); err != nil {
			n.logger.Warn("failed to signal stale menu",
				zap.String("event_id", eventID),
				zap.String("reason", reason),
				zap.Error(err),
			)
		}
	}()
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
