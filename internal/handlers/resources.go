package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"ilgi/internal/access"
	"ilgi/internal/journal"
	"ilgi/internal/models"
	"ilgi/internal/store"
	"ilgi/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

type mounter interface {
	mount(r chi.Router)
}

// resources is the route table of every journal resource.
func (h *Handler) resources() []mounter {
	s := h.stores
	owner := access.OwnerPolicy{}
	authenticated := access.AuthenticatedPolicy{}
	return []mounter{
		&resource[models.RoutineActivity]{
			h: h, path: "routine-activities", scoping: access.PermissionChecked, policy: owner,
			store:    s.RoutineActivities,
			newInput: func() journal.Input { return &journal.RoutineActivityInput{} },
			actions:  []action[models.RoutineActivity]{discontinue[models.RoutineActivity](s.RoutineActivities)},
		},
		&resource[models.RoutineActivityLog]{
			h: h, path: "routine-activity-logs", scoping: access.PermissionChecked, policy: owner,
			store:    s.RoutineActivityLogs,
			newInput: func() journal.Input { return &journal.RoutineActivityLogInput{} },
			render:   renderDurations,
		},
		&resource[models.Habit]{
			h: h, path: "habits", scoping: access.PermissionChecked, policy: owner,
			store:    s.Habits,
			newInput: func() journal.Input { return &journal.HabitInput{} },
			actions:  []action[models.Habit]{discontinue[models.Habit](s.Habits)},
		},
		&resource[models.HabitLog]{
			h: h, path: "habit-logs", scoping: access.PermissionChecked, policy: owner,
			store:    s.HabitLogs,
			newInput: func() journal.Input { return &journal.HabitLogInput{} },
		},
		&resource[models.CoffeeType]{
			h: h, path: "coffee-types", scoping: access.PermissionChecked, policy: owner,
			store:    s.CoffeeTypes,
			newInput: func() journal.Input { return &journal.CoffeeTypeInput{} },
			render:   h.renderCoffeeTotals,
		},
		&resource[models.CoffeeLog]{
			h: h, path: "coffee-logs", scoping: access.PermissionChecked, policy: owner,
			store:    s.CoffeeLogs,
			newInput: func() journal.Input { return &journal.CoffeeLogInput{} },
		},
		&resource[models.MentalHealth]{
			h: h, path: "mental-health", scoping: access.PermissionChecked, policy: owner,
			store:    s.MentalHealth,
			newInput: func() journal.Input { return &journal.MentalHealthInput{} },
		},
		&resource[models.MentalHealthLog]{
			h: h, path: "mental-health-logs", scoping: access.PermissionChecked, policy: owner,
			store:    s.MentalHealthLogs,
			newInput: func() journal.Input { return &journal.MentalHealthLogInput{} },
			render:   renderScoreLabels,
		},
		&resource[models.Goal]{
			h: h, path: "goals", scoping: access.PermissionChecked, policy: owner,
			store:    s.Goals,
			newInput: func() journal.Input { return &journal.GoalInput{} },
		},
		&resource[models.Milestone]{
			h: h, path: "milestones", scoping: access.PermissionChecked, policy: owner,
			store:    s.Milestones,
			newInput: func() journal.Input { return &journal.MilestoneInput{} },
			actions: []action[models.Milestone]{{
				name: "complete",
				apply: func(ctx context.Context, tx *sqlx.Tx, _ access.Caller, record models.Milestone, _ []byte) error {
					return s.Milestones.Update(ctx, tx, record.InternalID, map[string]any{
						"completion_date": store.Expr("COALESCE(completion_date, NOW())"),
					})
				},
			}},
		},
		&resource[models.MilestoneRoutineRequirement]{
			h: h, path: "milestone-routine-requirements", scoping: access.PermissionChecked, policy: owner,
			store:    s.MilestoneRoutineRequirements,
			newInput: func() journal.Input { return &journal.MilestoneRoutineRequirementInput{} },
			actions: []action[models.MilestoneRoutineRequirement]{
				completeRequirement(h, s.MilestoneRoutineRequirements, "routine_activity_logs", "routine_id",
					func(r models.MilestoneRoutineRequirement) int64 { return r.RoutineID }),
			},
		},
		&resource[models.MilestoneHabitRequirement]{
			h: h, path: "milestone-habit-requirements", scoping: access.PermissionChecked, policy: owner,
			store:    s.MilestoneHabitRequirements,
			newInput: func() journal.Input { return &journal.MilestoneHabitRequirementInput{} },
			actions: []action[models.MilestoneHabitRequirement]{
				completeRequirement(h, s.MilestoneHabitRequirements, "habit_logs", "habit_id",
					func(r models.MilestoneHabitRequirement) int64 { return r.HabitID }),
			},
		},
		&resource[models.EnergyLog]{
			h: h, path: "energy-logs", scoping: access.OwnerFiltered, policy: authenticated,
			store:    s.EnergyLogs,
			newInput: func() journal.Input { return &journal.EnergyLogInput{} },
		},
		&resource[models.Account]{
			h: h, path: "finance/accounts", scoping: access.OwnerFiltered, policy: authenticated,
			store:    s.Accounts,
			newInput: func() journal.Input { return &journal.AccountInput{} },
			routes: func(r chi.Router) {
				r.Get("/self-check", h.SelfCheck)
			},
		},
		&resource[models.Transaction]{
			h: h, path: "finance/transactions", scoping: access.OwnerFiltered, policy: authenticated,
			store:    s.Transactions,
			newInput: func() journal.Input { return &journal.TransactionInput{} },
		},
		&resource[models.TransactionEntry]{
			h: h, path: "finance/transaction-entries", scoping: access.OwnerFiltered, policy: authenticated,
			store:    s.TransactionEntries,
			newInput: func() journal.Input { return &journal.TransactionEntryInput{} },
		},
	}
}

// discontinue stamps discontinued_on once; repeating it keeps the first date.
func discontinue[T models.Record](records RecordStore[T]) action[T] {
	return action[T]{
		name: "discontinue",
		apply: func(ctx context.Context, tx *sqlx.Tx, _ access.Caller, record T, _ []byte) error {
			return records.Update(ctx, tx, record.Record().InternalID, map[string]any{
				"discontinued_on": store.Expr("COALESCE(discontinued_on, NOW())"),
			})
		},
	}
}

// completeRequirement links a requirement to the log that satisfied it. The
// log must belong to the caller and to the requirement's routine or habit.
func completeRequirement[T models.Record](h *Handler, records RecordStore[T], logTable, parentColumn string, parentID func(T) int64) action[T] {
	return action[T]{
		name: "complete",
		apply: func(ctx context.Context, tx *sqlx.Tx, caller access.Caller, record T, body []byte) error {
			var input journal.CompletionInput
			if err := json.Unmarshal(body, &input); err != nil {
				return validator.Field(validator.NonFieldErrors, "Invalid JSON payload.")
			}
			changes := input.Bind(logTable)
			if changes.Errors.Any() {
				return changes.Errors
			}
			ref := changes.References[0]
			logID, err := h.stores.References.ResolveChild(ctx, tx, logTable, parentColumn, parentID(record), caller.ID, ref.ExternalID)
			if errors.Is(err, store.ErrNotFound) {
				return validator.Field(ref.Field, missingReference(ref.ExternalID))
			}
			if err != nil {
				return err
			}
			return records.Update(ctx, tx, record.Record().InternalID, map[string]any{ref.Column: logID})
		},
	}
}

func renderDurations(_ context.Context, rows []models.RoutineActivityLog) error {
	for i := range rows {
		rows[i].Duration = journal.FormatDuration(journal.Duration(rows[i].StartTime, rows[i].EndTime))
	}
	return nil
}

func renderScoreLabels(_ context.Context, rows []models.MentalHealthLog) error {
	for i := range rows {
		label, err := journal.ScoreLabel(rows[i].Metric, rows[i].Score)
		if err != nil {
			return err
		}
		rows[i].ScoreLabel = label
	}
	return nil
}

func (h *Handler) renderCoffeeTotals(ctx context.Context, rows []models.CoffeeType) error {
	ids := lo.Map(rows, func(row models.CoffeeType, _ int) int64 {
		return row.InternalID
	})
	quantities, err := h.stores.Coffee.Quantities(ctx, ids)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].TotalQuantity, rows[i].TotalPrice = journal.CoffeeTotals(rows[i].Price, quantities[rows[i].InternalID])
	}
	return nil
}
