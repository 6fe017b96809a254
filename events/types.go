package events

import (
	"time"

	"github.com/holiman/uint256"
)

// EventType is an enum-like string type for token events
type EventType string

const (
	EventTransfer EventType = "Transfer"
	EventApproval EventType = "Approval"
)

// TokenEvent represents any event emitted by the transfer engine
type TokenEvent interface {
	Type() EventType
	Timestamp() time.Time
}

// Transfer is emitted once per successful balance movement. From is empty for
// the genesis credit (supply minted out of nothing at construction); it is
// populated for every other movement, including self-transfers.
type Transfer struct {
	from      string
	to        string
	value     *uint256.Int
	timestamp time.Time
}

func NewTransfer(from string, to string, value *uint256.Int) *Transfer {
	return &Transfer{
		from:      from,
		to:        to,
		value:     value.Clone(),
		timestamp: time.Now(),
	}
}

func (e *Transfer) Type() EventType {
	return EventTransfer
}

func (e *Transfer) Timestamp() time.Time {
	return e.timestamp
}

// From returns the source address, empty for the genesis credit
func (e *Transfer) From() string {
	return e.from
}

func (e *Transfer) To() string {
	return e.to
}

func (e *Transfer) Value() *uint256.Int {
	return e.value.Clone()
}

// IsGenesis reports whether this event records the genesis credit
func (e *Transfer) IsGenesis() bool {
	return e.from == ""
}

// Approval is emitted once per successful approve. The recorded value is the
// full replacement grant, not a delta.
type Approval struct {
	owner     string
	spender   string
	value     *uint256.Int
	timestamp time.Time
}

func NewApproval(owner string, spender string, value *uint256.Int) *Approval {
	return &Approval{
		owner:     owner,
		spender:   spender,
		value:     value.Clone(),
		timestamp: time.Now(),
	}
}

func (e *Approval) Type() EventType {
	return EventApproval
}

func (e *Approval) Timestamp() time.Time {
	return e.timestamp
}

func (e *Approval) Owner() string {
	return e.owner
}

func (e *Approval) Spender() string {
	return e.spender
}

func (e *Approval) Value() *uint256.Int {
	return e.value.Clone()
}
