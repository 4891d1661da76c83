package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the sign of a transaction, carried separately from its amount.
type Direction string

const (
	Expense Direction = "EXPENSE"
	Income  Direction = "INCOME"
)

// ImportSource identifies how a batch of transactions entered the system.
type ImportSource string

const (
	SourceMock ImportSource = "mock"
	SourceCSV  ImportSource = "csv"
	SourcePDF  ImportSource = "pdf"
)

type (
	// Transaction is the persisted, categorized, owner-attributed record.
	Transaction struct {
		ID          string
		OwnerID     string
		ImportID    string
		Description string
		Amount      decimal.Decimal // magnitude, never negative
		Type        Direction
		Date        time.Time
		Category    string
		CreatedAt   time.Time
	}

	User struct {
		ID        string
		Email     string
		Name      string
		CreatedAt time.Time
	}

	// ImportRecord describes one ingestion call.
	ImportRecord struct {
		ID         string
		OwnerID    string
		Source     ImportSource
		Layout     string
		Candidates int
		Inserted   int
		CreatedAt  time.Time
	}

	// TransactionFilter narrows list and summary queries. Zero values mean "no bound".
	TransactionFilter struct {
		OwnerID string
		Type    Direction
		Start   time.Time
		End     time.Time
	}
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyOwner       = errors.New("empty owner")
	ErrEmptyName        = errors.New("name cannot be empty")
)

// ParseDirection accepts INCOME or EXPENSE in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Expense:
		return Expense, nil
	case Income:
		return Income, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// DirectionOf maps a signed amount to a direction; zero counts as income.
func DirectionOf(signed decimal.Decimal) Direction {
	if signed.IsNegative() {
		return Expense
	}
	return Income
}

func (d Direction) Valid() bool {
	return d == Expense || d == Income
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidDirection
	}
	return nil
}

// Signed returns the amount with the direction applied.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
