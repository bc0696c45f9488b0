package otelclient

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

// headerCarrier adapts an outgoing request's header collection into the
// write target the propagator injects into. It exists only for the
// duration of one injection call.
type headerCarrier struct {
	header http.Header
	policy HeaderPolicy
	logger Logger
}

// Set writes a propagation header, overwriting any previous value. The
// pair must be valid HTTP header syntax; an invalid pair either panics
// (strict) or is dropped with a warning, per the configured policy.
func (c headerCarrier) Set(key, value string) {
	if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
		if c.policy == HeaderPolicyDrop {
			c.logger.Warn(context.Background(), "dropping invalid propagation header",
				zap.String("key", key))
			return
		}
		panic(fmt.Sprintf("otelclient: propagator emitted invalid header %q", key))
	}
	c.header.Set(key, value)
}

// Get and Keys satisfy propagation.TextMapCarrier. Injection never
// reads, but the interface requires them.
func (c headerCarrier) Get(key string) string {
	return c.header.Get(key)
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.header))
	for k := range c.header {
		keys = append(keys, k)
	}
	return keys
}
