package models

import (
	"strings"
	"time"
)

// TransactionStatus represents the settlement status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusDeclined  TransactionStatus = "DECLINED"
)

// IsTerminal reports whether the status can no longer change
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusDeclined
}

// ParseProcessorStatus maps a status label reported by the processor
// ("completed" / "declined", any case) to a terminal transaction status.
func ParseProcessorStatus(label string) (TransactionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "completed":
		return TransactionStatusCompleted, true
	case "declined":
		return TransactionStatusDeclined, true
	default:
		return "", false
	}
}

// Channels through which a transaction status can be settled
const (
	ChannelSync    = "sync"
	ChannelPoll    = "poll"
	ChannelWebhook = "webhook"
)

// Transaction represents a transaction record
type Transaction struct {
	ID        string            `json:"id"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

// CreateTransactionRequest is the body of POST /transaction
type CreateTransactionRequest struct {
	ID string `json:"id"`
}

// WebhookRequest is the body pushed by the processor
type WebhookRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ProcessorSubmitRequest is sent to the processor on the synchronous attempt
type ProcessorSubmitRequest struct {
	ID         string `json:"id"`
	WebhookURL string `json:"webhookUrl"`
}

// ProcessorStatusResponse is the processor reply for submit and status queries
type ProcessorStatusResponse struct {
	Status string `json:"status"`
}

// ClientStatus carries a status transition to the downstream client
type ClientStatus struct {
	ID     string            `json:"id"`
	Status TransactionStatus `json:"status"`
}

// ClientNotification is the body of the PUT sent to the client endpoint
type ClientNotification struct {
	Status ClientStatus `json:"status"`
}

// Reasons a poll loop gives up with the transaction still pending
const (
	AbandonRateLimited = "rate_limited"
	AbandonMaxWait     = "max_wait_exceeded"
)

// TransactionEvent is published on NATS when a transaction changes state.
// Reason is set only when polling was abandoned.
type TransactionEvent struct {
	ID        string            `json:"id"`
	Status    TransactionStatus `json:"status"`
	Channel   string            `json:"channel"`
	Reason    string            `json:"reason,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
