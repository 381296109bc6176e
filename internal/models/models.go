package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Base is shared by every journal record. InternalID and OwnerID are storage
// details and never serialized.
type Base struct {
	InternalID int64     `db:"id" json:"-"`
	ExternalID string    `db:"external_id" json:"id"`
	OwnerID    int64     `db:"owner_id" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	Deleted    bool      `db:"deleted" json:"-"`
}

func (b Base) Record() Base {
	return b
}

// Record is satisfied by every type embedding Base.
type Record interface {
	Record() Base
}

type User struct {
	ID           int64     `db:"id" json:"-"`
	ExternalID   string    `db:"external_id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ExternalID, Username: u.Username, Email: u.Email}
}

// UserSummary is the nested rendering of an owning user.
type UserSummary struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

type RoutineActivity struct {
	Base
	Label          string     `db:"label" json:"label"`
	Description    *string    `db:"description" json:"description"`
	StartTime      TimeOfDay  `db:"start_time" json:"start_time"`
	EndTime        TimeOfDay  `db:"end_time" json:"end_time"`
	OnMonday       bool       `db:"on_monday" json:"on_monday"`
	OnTuesday      bool       `db:"on_tuesday" json:"on_tuesday"`
	OnWednesday    bool       `db:"on_wednesday" json:"on_wednesday"`
	OnThursday     bool       `db:"on_thursday" json:"on_thursday"`
	OnFriday       bool       `db:"on_friday" json:"on_friday"`
	OnSaturday     bool       `db:"on_saturday" json:"on_saturday"`
	OnSunday       bool       `db:"on_sunday" json:"on_sunday"`
	DiscontinuedOn *time.Time `db:"discontinued_on" json:"discontinued_on"`
}

type RoutineActivityLog struct {
	Base
	Routine   string    `db:"routine" json:"routine"`
	StartTime TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   TimeOfDay `db:"end_time" json:"end_time"`
	Remarks   string    `db:"remarks" json:"remarks"`
	Duration  string    `db:"-" json:"duration"`
}

type Habit struct {
	Base
	Label          string     `db:"label" json:"label"`
	Description    *string    `db:"description" json:"description"`
	DiscontinuedOn *time.Time `db:"discontinued_on" json:"discontinued_on"`
}

type HabitLog struct {
	Base
	Habit   string `db:"habit" json:"habit"`
	Day     Date   `db:"day" json:"day"`
	Remarks string `db:"remarks" json:"remarks"`
}

type CoffeeType struct {
	Base
	Label         string          `db:"label" json:"label"`
	Price         int64           `db:"price" json:"price"`
	Owner         UserSummary     `db:"owner" json:"owner"`
	TotalQuantity decimal.Decimal `db:"-" json:"total_quantity"`
	TotalPrice    decimal.Decimal `db:"-" json:"total_price"`
}

type CoffeeLog struct {
	Base
	CoffeeType string          `db:"coffee_type" json:"coffee_type"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	Timestamp  time.Time       `db:"timestamp" json:"timestamp"`
}

// ScoreLabels names the seven points of a mental health scale, -3 to +3.
type ScoreLabels struct {
	ExtremelyLow  *string `db:"score_label_extremely_low" json:"score_label_extremely_low"`
	VeryLow       *string `db:"score_label_very_low" json:"score_label_very_low"`
	Low           *string `db:"score_label_low" json:"score_label_low"`
	Neutral       *string `db:"score_label_neutral" json:"score_label_neutral"`
	High          *string `db:"score_label_high" json:"score_label_high"`
	VeryHigh      *string `db:"score_label_very_high" json:"score_label_very_high"`
	ExtremelyHigh *string `db:"score_label_extremely_high" json:"score_label_extremely_high"`
}

type MentalHealth struct {
	Base
	Label string `db:"label" json:"label"`
	ScoreLabels
	Owner UserSummary `db:"owner" json:"owner"`
}

type MentalHealthLog struct {
	Base
	MentalHealth string      `db:"mental_health" json:"mental_health"`
	Score        int         `db:"score" json:"score"`
	Timestamp    time.Time   `db:"timestamp" json:"timestamp"`
	Metric       ScoreLabels `db:"metric" json:"-"`
	ScoreLabel   *string     `db:"-" json:"score_label"`
}

type Goal struct {
	Base
	Label       string      `db:"label" json:"label"`
	Description *string     `db:"description" json:"description"`
	Owner       UserSummary `db:"owner" json:"owner"`
}

type Milestone struct {
	Base
	Goal           string     `db:"goal" json:"goal"`
	Label          string     `db:"label" json:"label"`
	Description    *string    `db:"description" json:"description"`
	Deadline       *time.Time `db:"deadline" json:"deadline"`
	CompletionDate *time.Time `db:"completion_date" json:"completion_date"`
}

type MilestoneRoutineRequirement struct {
	Base
	Milestone           string  `db:"milestone" json:"milestone"`
	Routine             string  `db:"routine" json:"routine"`
	RoutineID           int64   `db:"routine_id" json:"-"`
	Count               int     `db:"count" json:"count"`
	Description         *string `db:"description" json:"description"`
	CompletedByActivity *string `db:"completed_by_activity" json:"completed_by_activity"`
}

type MilestoneHabitRequirement struct {
	Base
	Milestone           string  `db:"milestone" json:"milestone"`
	Habit               string  `db:"habit" json:"habit"`
	HabitID             int64   `db:"habit_id" json:"-"`
	Count               int     `db:"count" json:"count"`
	Description         *string `db:"description" json:"description"`
	CompletedByActivity *string `db:"completed_by_activity" json:"completed_by_activity"`
}

type EnergyLog struct {
	Base
	Title       string      `db:"title" json:"title"`
	Story       string      `db:"story" json:"story"`
	Date        Date        `db:"date" json:"date"`
	EnergyDelta int         `db:"energy_delta" json:"energy_delta"`
	CreatedBy   UserSummary `db:"created_by" json:"created_by"`
}

type Account struct {
	Base
	Name    string          `db:"name" json:"name"`
	Balance decimal.Decimal `db:"balance" json:"balance"`
	Active  bool            `db:"active" json:"active"`
	Owner   UserSummary     `db:"owner" json:"owner"`
}

type Transaction struct {
	Base
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	PerformedOn Date        `db:"performed_on" json:"performed_on"`
	CreatedBy   UserSummary `db:"created_by" json:"created_by"`
}

type TransactionEntry struct {
	Base
	Transaction string          `db:"transaction" json:"transaction"`
	Account     string          `db:"account" json:"account"`
	Name        string          `db:"name" json:"name"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

type AuditLog struct {
	ID        string         `db:"external_id" json:"id"`
	Action    string         `db:"action" json:"action"`
	Resource  string         `db:"resource" json:"resource"`
	RecordID  string         `db:"record_id" json:"record_id"`
	Data      types.JSONText `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
