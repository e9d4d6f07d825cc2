// Package domain defines the trainer workload model and aggregation logic.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidActionType is returned when an update carries an action other than ADD or DELETE.
	ErrInvalidActionType = errors.New("invalid action type")
	// ErrMissingRequiredFields is returned when an update lacks trainerUsername or actionType.
	ErrMissingRequiredFields = errors.New("missing required fields in workload update")
	// ErrWorkloadNotFound is returned when no workload record exists for a trainer.
	ErrWorkloadNotFound = errors.New("workload not found")
)

// Action identifies how a training session affects the monthly total.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionDelete Action = "DELETE"
)

// WorkloadRecord is the per-trainer aggregate: one record per username
// holding the full year -> month -> total-minutes map.
type WorkloadRecord struct {
	ID              string              `json:"id"`
	TrainerUsername string              `json:"trainerUsername"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	IsActive        bool                `json:"isActive"`
	MonthlyTotals   map[int]map[int]int `json:"workload"`
}

// Clone returns a deep copy so callers can mutate totals without aliasing.
func (r *WorkloadRecord) Clone() *WorkloadRecord {
	if r == nil {
		return nil
	}
	clone := *r
	clone.MonthlyTotals = make(map[int]map[int]int, len(r.MonthlyTotals))
	for year, months := range r.MonthlyTotals {
		copied := make(map[int]int, len(months))
		for month, total := range months {
			copied[month] = total
		}
		clone.MonthlyTotals[year] = copied
	}
	return &clone
}

// MonthView returns the subset of totals for the given month across all
// years. Years without an entry for that month are omitted; a known
// trainer with no entries yields an empty (non-nil) map.
func (r *WorkloadRecord) MonthView(month int) map[int]map[int]int {
	view := make(map[int]map[int]int)
	for year, months := range r.MonthlyTotals {
		if total, ok := months[month]; ok {
			view[year] = map[int]int{month: total}
		}
	}
	return view
}

// UpdateMessage carries one training session delta for a trainer.
type UpdateMessage struct {
	TrainerUsername string    `json:"trainerUsername"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	IsActive        bool      `json:"isActive"`
	TrainingDate    time.Time `json:"trainingDate"`
	DurationMinutes int       `json:"trainingDuration"`
	ActionType      string    `json:"actionType"`
}

// Validate checks the required fields. Identity metadata and the date are
// optional on the wire; username and action type are not.
func (m UpdateMessage) Validate() error {
	if strings.TrimSpace(m.TrainerUsername) == "" {
		return ErrMissingRequiredFields
	}
	if strings.TrimSpace(m.ActionType) == "" {
		return ErrMissingRequiredFields
	}
	return nil
}

// Action normalizes the wire action type, case-insensitively.
func (m UpdateMessage) Action() (Action, error) {
	switch {
	case strings.EqualFold(m.ActionType, string(ActionAdd)):
		return ActionAdd, nil
	case strings.EqualFold(m.ActionType, string(ActionDelete)):
		return ActionDelete, nil
	default:
		return "", ErrInvalidActionType
	}
}

// Aggregator applies update deltas to workload records. It is pure: it
// never touches the store and never mutates its input.
type Aggregator struct{}

// NewAggregator constructs an Aggregator.
func NewAggregator() Aggregator {
	return Aggregator{}
}

// Apply folds one update into an existing record. Passing a nil existing
// record means the trainer is unseen: ADD creates a fresh record, DELETE
// returns (nil, nil) and the caller must persist nothing. Identity fields
// are overwritten from the delta unconditionally. A DELETE that would
// drive a monthly total negative clamps it to zero.
func (Aggregator) Apply(existing *WorkloadRecord, msg UpdateMessage) (*WorkloadRecord, error) {
	action, err := msg.Action()
	if err != nil {
		return nil, err
	}

	if existing == nil && action == ActionDelete {
		return nil, nil
	}

	year := msg.TrainingDate.Year()
	month := int(msg.TrainingDate.Month())

	record := existing.Clone()
	if record == nil {
		record = &WorkloadRecord{
			ID:            uuid.NewString(),
			MonthlyTotals: make(map[int]map[int]int),
		}
	}

	record.TrainerUsername = msg.TrainerUsername
	record.FirstName = msg.FirstName
	record.LastName = msg.LastName
	record.IsActive = msg.IsActive

	months, ok := record.MonthlyTotals[year]
	if !ok {
		months = make(map[int]int)
		record.MonthlyTotals[year] = months
	}

	switch action {
	case ActionAdd:
		months[month] += msg.DurationMinutes
	case ActionDelete:
		updated := months[month] - msg.DurationMinutes
		if updated < 0 {
			updated = 0
		}
		months[month] = updated
	}

	return record, nil
}
