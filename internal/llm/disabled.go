package llm

import (
	"context"
	"fmt"
)

// Disabled is the Client used when no API key is configured. Every call
// fails with the configured reason, which downstream code embeds as an error
// document instead of aborting jobs. The service keeps working, degraded,
// with a missing key.
type Disabled struct {
	Reason string
}

// GenerateContent always fails with the disabled reason.
func (d Disabled) GenerateContent(context.Context, string) (string, error) {
	reason := d.Reason
	if reason == "" {
		reason = "content generation is not configured"
	}
	return "", fmt.Errorf("%s", reason)
}

// Close is a no-op.
func (d Disabled) Close() error { return nil }
