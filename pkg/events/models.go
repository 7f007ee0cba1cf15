package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published by the service.
const (
	OrderCreated        = "order.created"
	OrderStatusChanged  = "order.status_changed"
	OrderSettled        = "order.settled"
	WithdrawalRequested = "wallet.withdrawal_requested"
	BalanceMismatch     = "ledger.balance_mismatch"
)

// Envelope wraps every event with the metadata consumers need to route and deduplicate it.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into a version 1 envelope.
func NewEnvelope(eventType, producer, correlationID string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       body,
	}, nil
}

// Decode unmarshals the envelope payload into T.
func Decode[T any](e Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(e.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", e.EventType, err)
	}
	return t, nil
}

// OrderCreatedPayload is the payload of an order.created event.
type OrderCreatedPayload struct {
	OrderID    string `json:"order_id"`
	CheckoutID string `json:"checkout_id"`
	BuyerID    string `json:"buyer_id"`
	SellerID   string `json:"seller_id"`
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	Total      int64  `json:"total"`
}

// OrderStatusChangedPayload is the payload of an order.status_changed event.
type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
}

// OrderSettledPayload is the payload of an order.settled event.
type OrderSettledPayload struct {
	OrderID      string `json:"order_id"`
	SellerID     string `json:"seller_id"`
	DriverID     string `json:"driver_id,omitempty"`
	SellerIncome int64  `json:"seller_income"`
	DriverIncome int64  `json:"driver_income"`
	PlatformFee  int64  `json:"platform_fee"`
	ServiceFee   int64  `json:"service_fee"`
}

// WithdrawalRequestedPayload is the payload of a wallet.withdrawal_requested event.
type WithdrawalRequestedPayload struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

// BalanceMismatchPayload is the payload of a ledger.balance_mismatch event.
type BalanceMismatchPayload struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Replayed  int64  `json:"replayed"`
}
