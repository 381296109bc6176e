package journal

import (
	"fmt"
	"math"
	"time"

	"ilgi/internal/models"
	"ilgi/internal/money"

	"github.com/shopspring/decimal"
)

const (
	labelLength = 255
	maxPrice    = math.MaxInt32
)

var (
	minQuantity = decimal.New(1, -3)
	maxQuantity = decimal.NewFromInt(1)
)

type RoutineActivityInput struct {
	Label       Optional[string]           `json:"label"`
	Description Optional[string]           `json:"description"`
	StartTime   Optional[models.TimeOfDay] `json:"start_time"`
	EndTime     Optional[models.TimeOfDay] `json:"end_time"`
	OnMonday    Optional[bool]             `json:"on_monday"`
	OnTuesday   Optional[bool]             `json:"on_tuesday"`
	OnWednesday Optional[bool]             `json:"on_wednesday"`
	OnThursday  Optional[bool]             `json:"on_thursday"`
	OnFriday    Optional[bool]             `json:"on_friday"`
	OnSaturday  Optional[bool]             `json:"on_saturday"`
	OnSunday    Optional[bool]             `json:"on_sunday"`
}

func (in RoutineActivityInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("label", in.Label, required, labelLength)
	f.text("description", in.Description, nullable, 0)
	f.timeOfDay("start_time", in.StartTime, required)
	f.timeOfDay("end_time", in.EndTime, required)
	f.boolean("on_monday", in.OnMonday)
	f.boolean("on_tuesday", in.OnTuesday)
	f.boolean("on_wednesday", in.OnWednesday)
	f.boolean("on_thursday", in.OnThursday)
	f.boolean("on_friday", in.OnFriday)
	f.boolean("on_saturday", in.OnSaturday)
	f.boolean("on_sunday", in.OnSunday)
	return f.result()
}

type RoutineActivityLogInput struct {
	Routine   Optional[string]           `json:"routine"`
	StartTime Optional[models.TimeOfDay] `json:"start_time"`
	EndTime   Optional[models.TimeOfDay] `json:"end_time"`
	Remarks   Optional[string]           `json:"remarks"`
}

func (in RoutineActivityLogInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("routine", "routine_id", "routine_activities", in.Routine, required)
	f.timeOfDay("start_time", in.StartTime, required)
	f.timeOfDay("end_time", in.EndTime, required)
	f.text("remarks", in.Remarks, required, 0)
	return f.result()
}

type HabitInput struct {
	Label       Optional[string] `json:"label"`
	Description Optional[string] `json:"description"`
}

func (in HabitInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("label", in.Label, required, labelLength)
	f.text("description", in.Description, nullable, 0)
	return f.result()
}

type HabitLogInput struct {
	Habit   Optional[string]      `json:"habit"`
	Day     Optional[models.Date] `json:"day"`
	Remarks Optional[string]      `json:"remarks"`
}

func (in HabitLogInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("habit", "habit_id", "habits", in.Habit, required)
	f.date("day", in.Day, required)
	f.text("remarks", in.Remarks, required, 0)
	return f.result()
}

type CoffeeTypeInput struct {
	Label Optional[string] `json:"label"`
	Price Optional[int]    `json:"price"`
}

func (in CoffeeTypeInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("label", in.Label, required, labelLength)
	f.integer("price", in.Price, required, 0, maxPrice)
	return f.result()
}

type CoffeeLogInput struct {
	CoffeeType Optional[string]          `json:"coffee_type"`
	Quantity   Optional[decimal.Decimal] `json:"quantity"`
	Timestamp  Optional[time.Time]       `json:"timestamp"`
}

func (in CoffeeLogInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("coffee_type", "coffee_type_id", "coffee_types", in.CoffeeType, required)
	f.decimal("quantity", in.Quantity, required, checkQuantity)
	f.timestamp("timestamp", in.Timestamp, defaulted)
	return f.result()
}

func checkQuantity(q decimal.Decimal) string {
	if !q.Equal(q.Round(3)) {
		return "Ensure that there are no more than 3 decimal places."
	}
	if q.LessThan(minQuantity) {
		return "Ensure this value is greater than or equal to 0.001."
	}
	if q.GreaterThan(maxQuantity) {
		return "Ensure this value is less than or equal to 1."
	}
	return ""
}

func checkAmount(amount decimal.Decimal) string {
	switch money.Validate(amount) {
	case nil:
		return ""
	case money.ErrTooManyDecimals:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", money.Places)
	default:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", money.Digits)
	}
}

type MentalHealthInput struct {
	Label         Optional[string] `json:"label"`
	ExtremelyLow  Optional[string] `json:"score_label_extremely_low"`
	VeryLow       Optional[string] `json:"score_label_very_low"`
	Low           Optional[string] `json:"score_label_low"`
	Neutral       Optional[string] `json:"score_label_neutral"`
	High          Optional[string] `json:"score_label_high"`
	VeryHigh      Optional[string] `json:"score_label_very_high"`
	ExtremelyHigh Optional[string] `json:"score_label_extremely_high"`
}

func (in MentalHealthInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("label", in.Label, required, labelLength)
	f.text("score_label_extremely_low", in.ExtremelyLow, nullable, labelLength)
	f.text("score_label_very_low", in.VeryLow, nullable, labelLength)
	f.text("score_label_low", in.Low, nullable, labelLength)
	f.text("score_label_neutral", in.Neutral, nullable, labelLength)
	f.text("score_label_high", in.High, nullable, labelLength)
	f.text("score_label_very_high", in.VeryHigh, nullable, labelLength)
	f.text("score_label_extremely_high", in.ExtremelyHigh, nullable, labelLength)
	return f.result()
}

type MentalHealthLogInput struct {
	MentalHealth Optional[string]    `json:"mental_health"`
	Score        Optional[int]       `json:"score"`
	Timestamp    Optional[time.Time] `json:"timestamp"`
}

func (in MentalHealthLogInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("mental_health", "mental_health_id", "mental_health_metrics", in.MentalHealth, required)
	f.integer("score", in.Score, required, MinScore, MaxScore)
	f.timestamp("timestamp", in.Timestamp, defaulted)
	return f.result()
}

type GoalInput struct {
	Label       Optional[string] `json:"label"`
	Description Optional[string] `json:"description"`
}

func (in GoalInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("label", in.Label, required, labelLength)
	f.text("description", in.Description, nullable, 0)
	return f.result()
}

type MilestoneInput struct {
	Goal        Optional[string]    `json:"goal"`
	Label       Optional[string]    `json:"label"`
	Description Optional[string]    `json:"description"`
	Deadline    Optional[time.Time] `json:"deadline"`
}

func (in MilestoneInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("goal", "goal_id", "goals", in.Goal, required)
	f.text("label", in.Label, required, labelLength)
	f.text("description", in.Description, nullable, 0)
	f.timestamp("deadline", in.Deadline, nullable)
	return f.result()
}

type MilestoneRoutineRequirementInput struct {
	Milestone   Optional[string] `json:"milestone"`
	Routine     Optional[string] `json:"routine"`
	Count       Optional[int]    `json:"count"`
	Description Optional[string] `json:"description"`
}

func (in MilestoneRoutineRequirementInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("milestone", "milestone_id", "milestones", in.Milestone, required)
	f.reference("routine", "routine_id", "routine_activities", in.Routine, required)
	f.integer("count", in.Count, required, 1, math.MaxInt32)
	f.text("description", in.Description, nullable, 0)
	return f.result()
}

type MilestoneHabitRequirementInput struct {
	Milestone   Optional[string] `json:"milestone"`
	Habit       Optional[string] `json:"habit"`
	Count       Optional[int]    `json:"count"`
	Description Optional[string] `json:"description"`
}

func (in MilestoneHabitRequirementInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("milestone", "milestone_id", "milestones", in.Milestone, required)
	f.reference("habit", "habit_id", "habits", in.Habit, required)
	f.integer("count", in.Count, required, 1, math.MaxInt32)
	f.text("description", in.Description, nullable, 0)
	return f.result()
}

type EnergyLogInput struct {
	Title       Optional[string]      `json:"title"`
	Story       Optional[string]      `json:"story"`
	Date        Optional[models.Date] `json:"date"`
	EnergyDelta Optional[int]         `json:"energy_delta"`
}

func (in EnergyLogInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("title", in.Title, required, labelLength)
	f.text("story", in.Story, required, 0)
	f.date("date", in.Date, required)
	f.integer("energy_delta", in.EnergyDelta, required, MinEnergyDelta, MaxEnergyDelta)
	return f.result()
}

type AccountInput struct {
	Name    Optional[string]          `json:"name"`
	Balance Optional[decimal.Decimal] `json:"balance"`
	Active  Optional[bool]            `json:"active"`
}

func (in AccountInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("name", in.Name, required, labelLength)
	f.decimal("balance", in.Balance, required, checkAmount)
	f.boolean("active", in.Active)
	return f.result()
}

type TransactionInput struct {
	Name        Optional[string]      `json:"name"`
	Description Optional[string]      `json:"description"`
	PerformedOn Optional[models.Date] `json:"performed_on"`
}

func (in TransactionInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.text("name", in.Name, required, labelLength)
	f.text("description", in.Description, required, 0)
	f.date("performed_on", in.PerformedOn, required)
	return f.result()
}

type TransactionEntryInput struct {
	Transaction Optional[string]          `json:"transaction"`
	Account     Optional[string]          `json:"account"`
	Name        Optional[string]          `json:"name"`
	Amount      Optional[decimal.Decimal] `json:"amount"`
}

func (in TransactionEntryInput) Bind(partial bool) Changes {
	f := newForm(partial)
	f.reference("transaction", "transaction_id", "finance_transactions", in.Transaction, required)
	f.reference("account", "account_id", "finance_accounts", in.Account, required)
	f.text("name", in.Name, required, labelLength)
	f.decimal("amount", in.Amount, required, checkAmount)
	return f.result()
}

// CompletionInput names the log that satisfies a milestone requirement.
type CompletionInput struct {
	Log Optional[string] `json:"log"`
}

// Bind resolves the log against the given log table.
func (in CompletionInput) Bind(logTable string) Changes {
	f := newForm(false)
	f.reference("log", "completed_by_activity_id", logTable, in.Log, required)
	return f.result()
}
