package gateway_http

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"

	httpclient "github.com/piresc/settlement/internal/pkg/http"
	"github.com/piresc/settlement/internal/pkg/models"
	"github.com/piresc/settlement/services/transaction"
)

// ProcessorClient is an HTTP client for the third-party processor
type ProcessorClient struct {
	client *httpclient.Client
}

// NewProcessorClient creates a processor client. Deadlines come from the
// caller's context, the client timeout only bounds runaway connections.
func NewProcessorClient(processorURL string) *ProcessorClient {
	return &ProcessorClient{
		client: httpclient.NewClient("processor", processorURL, 0),
	}
}

// Submit posts the transaction to the processor and returns its status label
func (p *ProcessorClient) Submit(ctx context.Context, id, webhookURL string) (string, error) {
	req := models.ProcessorSubmitRequest{
		ID:         id,
		WebhookURL: webhookURL,
	}

	var resp models.ProcessorStatusResponse
	if err := p.client.PostJSON(ctx, "", req, &resp); err != nil {
		return "", classifyProcessorError("submit", err)
	}
	return resp.Status, nil
}

// FetchStatus asks the processor for the current status label of a transaction
func (p *ProcessorClient) FetchStatus(ctx context.Context, id string) (string, error) {
	var resp models.ProcessorStatusResponse
	if err := p.client.GetJSON(ctx, "/"+url.PathEscape(id), &resp); err != nil {
		return "", classifyProcessorError("fetch status", err)
	}
	return resp.Status, nil
}

// classifyProcessorError maps transport and status failures onto the
// processor sentinel errors the engine branches on
func classifyProcessorError(operation string, err error) error {
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case nethttp.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", operation, transaction.ErrProcessorGateway)
		case nethttp.StatusTooManyRequests:
			return fmt.Errorf("%s: %w", operation, transaction.ErrProcessorRateLimited)
		default:
			return fmt.Errorf("%s: %w: %v", operation, transaction.ErrProcessorFailure, err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, transaction.ErrProcessorTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", operation, transaction.ErrProcessorTimeout)
	}

	return fmt.Errorf("%s: %w: %v", operation, transaction.ErrProcessorFailure, err)
}
