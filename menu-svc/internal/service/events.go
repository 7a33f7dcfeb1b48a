package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"partyorder/menu-svc/internal/domain"
	"partyorder/menu-svc/internal/parser"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const slugSuffixLen = 5

type EventService struct {
	repo   MenuRepository
	qr     QRGenerator
	logger *zap.Logger
}

func NewEventService(repo MenuRepository, qr QRGenerator, logger *zap.Logger) *EventService {
	return &EventService{repo: repo, qr: qr, logger: logger}
}

func (s *EventService) Create(ctx context.Context, userID string, input domain.EventInput) (*domain.Event, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &domain.SchemaInvalidError{Violations: []domain.Violation{{Path: "title", Message: "required"}}}
	}

	event := &domain.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Slug:      eventSlug(title),
		Title:     title,
		Status:    domain.EventDraft,
		CreatedAt: time.Now().UTC(),
	}
	if input.RestaurantName != nil && strings.TrimSpace(*input.RestaurantName) != "" {
		name := strings.TrimSpace(*input.RestaurantName)
		event.RestaurantName = &name
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("slug", event.Slug))
	return event, nil
}

func (s *EventService) Get(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	return authorizeEvent(ctx, s.repo, userID, eventID)
}

// QRCode renders the guest link of the event.
func (s *EventService) QRCode(ctx context.Context, userID, eventID string) ([]byte, error) {
	event, err := authorizeEvent(ctx, s.repo, userID, eventID)
	if err != nil {
		return nil, err
	}
	return s.qr.Generate(event.Slug)
}

// eventSlug appends a short random base36 suffix so equal titles stay unique.
func eventSlug(title string) string {
	suffix := strconv.FormatUint(rand.Uint64N(36*36*36*36*36), 36)
	suffix = strings.Repeat("0", slugSuffixLen-len(suffix)) + suffix

	base := parser.Slugify(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
