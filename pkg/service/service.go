// Package service implements the marketplace operations on top of the storage layer:
// checkout, the order lifecycle with settlement, and wallet movements.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/chris/jastip-settlement/pkg/events"
	"github.com/chris/jastip-settlement/pkg/fees"
	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/google/uuid"
)

// DefaultPlatformAccountID is the ledger account that collects platform revenue.
const DefaultPlatformAccountID = "admin"

// producer identifies this service in published event envelopes.
const producer = "jastip-settlement"

// OrderService covers checkout and the order lifecycle.
type OrderService interface {
	BuildOrders(ctx context.Context, buyerID string, lines []models.CartLine, dest *models.Coordinate, address string) ([]models.Order, error)
	Transition(ctx context.Context, orderID string, target models.OrderStatus, actor models.Actor) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
}

// WalletService covers balance reads and money movements that are not tied to an order.
type WalletService interface {
	GetBalance(ctx context.Context, accountID string) (int64, error)
	GetTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount int64) (*models.Transaction, error)
	TopUp(ctx context.Context, accountID string, amount int64) (*models.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount int64) ([]models.Transaction, error)
}

// AccountService covers the platform operator's account administration.
type AccountService interface {
	OpenAccount(ctx context.Context, accountID string, role models.Role, verified bool) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	SetVerified(ctx context.Context, accountID string, verified bool) (*models.Account, error)
}

// Marketplace is the full set of operations exposed to the API.
type Marketplace interface {
	OrderService
	WalletService
	AccountService
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Schedule          *fees.Schedule
	PlatformAccountID string
	Publisher         events.Publisher
	Logger            *slog.Logger
	Clock             func() time.Time
	NewID             func() string
}

// Service implements Marketplace.
type Service struct {
	store             storage.Storage
	schedule          fees.Schedule
	platformAccountID string
	publisher         events.Publisher
	logger            *slog.Logger
	now               func() time.Time
	newID             func() string
}

// Make sure we conform to the interface
var _ Marketplace = (*Service)(nil)

// New creates a Service backed by store.
func New(store storage.Storage, opts Options) *Service {
	s := &Service{
		store:             store,
		schedule:          fees.DefaultSchedule(),
		platformAccountID: opts.PlatformAccountID,
		publisher:         opts.Publisher,
		logger:            opts.Logger,
		now:               opts.Clock,
		newID:             opts.NewID,
	}
	if opts.Schedule != nil {
		s.schedule = *opts.Schedule
	}
	if s.platformAccountID == "" {
		s.platformAccountID = DefaultPlatformAccountID
	}
	if s.publisher == nil {
		s.publisher = &events.NoOpPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// PlatformAccountID returns the account that collects platform revenue.
func (s *Service) PlatformAccountID() string {
	return s.platformAccountID
}

// publish emits an event after a successful commit. Failures are logged, never returned,
// because the state change they describe has already happened.
func (s *Service) publish(ctx context.Context, eventType, correlationID string, payload any) {
	env, err := events.NewEnvelope(eventType, producer, correlationID, payload)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("correlation_id", correlationID),
			slog.Any("error", err),
		)
	}
}
