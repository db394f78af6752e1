package gateway

import (
	natspkg "github.com/piresc/settlement/internal/pkg/nats"
	"github.com/piresc/settlement/services/transaction"
	gateway_http "github.com/piresc/settlement/services/transaction/gateway/http"
	gateway_nats "github.com/piresc/settlement/services/transaction/gateway/nats"
)

// NewProcessorGW creates the processor gateway for the given base URL
func NewProcessorGW(processorURL string) transaction.ProcessorGW {
	return gateway_http.NewProcessorClient(processorURL)
}

// NewClientGW creates the downstream client notifier
func NewClientGW(clientURL string) transaction.ClientGW {
	return gateway_http.NewClientNotifier(clientURL)
}

// NewEventGW creates the event publisher. A nil NATS client yields a
// gateway that drops events.
func NewEventGW(natsClient *natspkg.Client) transaction.EventGW {
	if natsClient == nil {
		return gateway_nats.NewNATSGateway(nil)
	}
	return gateway_nats.NewNATSGateway(natsClient)
}
