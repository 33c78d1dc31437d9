package market

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusOrdered   Status = "ORDERED"
	StatusPacked    Status = "PACKED"
	StatusOnTable   Status = "PLACED_ON_HARITHAM_TABLE"
	StatusCollected Status = "COLLECTED"
)

// Linear fulfilment path. COLLECTED is terminal.
var statusRank = map[Status]int{
	StatusOrdered:   0,
	StatusPacked:    1,
	StatusOnTable:   2,
	StatusCollected: 3,
}

// Statuses a seller may pick in the dashboard modal.
var sellerSettable = []Status{StatusOrdered, StatusPacked, StatusOnTable}

var (
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrNoChange             = errors.New("status unchanged")
	ErrTerminal             = errors.New("order already collected")
	ErrTransitionNotAllowed = errors.New("status change not allowed")
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusRank[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

func (s Status) Terminal() bool { return s == StatusCollected }

type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Policy decides which statuses each role is offered.
// The remote API does not visibly validate transitions, so this is the only
// place the seller/buyer split is enforced.
type Policy struct {
	// SellerForwardOnly hides statuses ranked below the current one from the
	// seller. When false the seller gets every seller-settable status.
	SellerForwardOnly bool
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return Policy{SellerForwardOnly: true}, nil
	case "loose":
		return Policy{SellerForwardOnly: false}, nil
	default:
		return Policy{}, fmt.Errorf("unknown seller status policy %q", s)
	}
}

func (p Policy) String() string {
	if p.SellerForwardOnly {
		return "forward"
	}
	return "loose"
}

// AllowedTargets lists the statuses offered to role for an order currently
// in status current. The current status itself may appear (it is the
// preselected choice); submitting it is a no-op.
func (p Policy) AllowedTargets(role Role, current Status) []Status {
	if !current.Valid() || current.Terminal() {
		return nil
	}
	switch role {
	case RoleSeller:
		out := make([]Status, 0, len(sellerSettable))
		for _, s := range sellerSettable {
			if p.SellerForwardOnly && s.Rank() < current.Rank() {
				continue
			}
			out = append(out, s)
		}
		return out
	case RoleBuyer:
		if current == StatusOnTable {
			return []Status{StatusCollected}
		}
	}
	return nil
}

func (p Policy) Allows(role Role, current, to Status) bool {
	for _, s := range p.AllowedTargets(role, current) {
		if s == to {
			return true
		}
	}
	return false
}

func (p Policy) CheckTransition(role Role, from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}
	if from == to {
		return ErrNoChange
	}
	if from.Terminal() {
		return ErrTerminal
	}
	if !p.Allows(role, from, to) {
		return fmt.Errorf("%w: %s cannot move %s -> %s", ErrTransitionNotAllowed, role, from, to)
	}
	return nil
}
