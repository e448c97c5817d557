package booking

import (
	"fmt"
	"strings"
)

// BlockingPolicy is the set of statuses that count as occupying the
// calendar for overlap purposes. It is passed explicitly into every
// availability and validation call; there is no mutable package default.
type BlockingPolicy []Status

var (
	// BlockConfirmedOnly treats only CONFIRMED bookings as occupying
	// the calendar; pending requests may still pile up on a window.
	BlockConfirmedOnly = BlockingPolicy{StatusConfirmed}
	// BlockPendingAndConfirmed also reserves the window for pending
	// requests, first come first served.
	BlockPendingAndConfirmed = BlockingPolicy{StatusPending, StatusConfirmed}
)

// OrDefault guards against an unset policy: a zero-value BlockingPolicy
// blocks nothing, which silently empties every calendar. Callers that
// receive the policy through struct wiring resolve it through here.
func (p BlockingPolicy) OrDefault() BlockingPolicy {
	if len(p) == 0 {
		return BlockConfirmedOnly
	}
	return p
}

func (p BlockingPolicy) Blocks(s Status) bool {
	for _, blocked := range p {
		if blocked == s {
			return true
		}
	}
	return false
}

func (p BlockingPolicy) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, "+")
}

// ParseBlockingPolicy resolves a configuration string into a policy.
func ParseBlockingPolicy(raw string) (BlockingPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "CONFIRMED":
		return BlockConfirmedOnly, nil
	case "PENDING+CONFIRMED", "CONFIRMED+PENDING":
		return BlockPendingAndConfirmed, nil
	default:
		return nil, fmt.Errorf("booking: unknown blocking policy %q", raw)
	}
}
