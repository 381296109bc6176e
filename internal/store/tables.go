package store

func userColumns(alias string) []string {
	return []string{
		`u.external_id AS "` + alias + `.id"`,
		`u.username AS "` + alias + `.username"`,
		`u.email AS "` + alias + `.email"`,
	}
}

func columns(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var scoreLabelColumns = []string{
	"score_label_extremely_low",
	"score_label_very_low",
	"score_label_low",
	"score_label_neutral",
	"score_label_high",
	"score_label_very_high",
	"score_label_extremely_high",
}

func qualified(alias string, names []string, as string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		col := alias + "." + name
		if as != "" {
			col += ` AS "` + as + "." + name + `"`
		}
		out = append(out, col)
	}
	return out
}

var RoutineActivities = Table{
	Name: "routine_activities",
	Columns: []string{
		"t.label", "t.description", "t.start_time", "t.end_time",
		"t.on_monday", "t.on_tuesday", "t.on_wednesday", "t.on_thursday",
		"t.on_friday", "t.on_saturday", "t.on_sunday", "t.discontinued_on",
	},
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
	},
}

var RoutineActivityLogs = Table{
	Name: "routine_activity_logs",
	Columns: []string{
		`p.external_id AS "routine"`, "t.start_time", "t.end_time", "t.remarks",
	},
	From: `routine_activity_logs t
		JOIN routine_activities p ON p.id = t.routine_id AND p.deleted = FALSE`,
	Filters: []Filter{
		{Field: "routine", Op: Exact, Expr: "p.external_id", UUID: true},
		{Field: "remarks", Op: Contains, Expr: "t.remarks"},
	},
}

var Habits = Table{
	Name:    "habits",
	Columns: []string{"t.label", "t.description", "t.discontinued_on"},
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
	},
}

var HabitLogs = Table{
	Name:    "habit_logs",
	Columns: []string{`p.external_id AS "habit"`, "t.day", "t.remarks"},
	From: `habit_logs t
		JOIN habits p ON p.id = t.habit_id AND p.deleted = FALSE`,
	Filters: []Filter{
		{Field: "habit", Op: Exact, Expr: "p.external_id", UUID: true},
		{Field: "remarks", Op: Contains, Expr: "t.remarks"},
	},
}

var CoffeeTypes = Table{
	Name:    "coffee_types",
	Columns: columns([]string{"t.label", "t.price"}, userColumns("owner")),
	From: `coffee_types t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
	},
}

var CoffeeLogs = Table{
	Name:    "coffee_logs",
	Columns: []string{`p.external_id AS "coffee_type"`, "t.quantity", `t."timestamp"`},
	From: `coffee_logs t
		JOIN coffee_types p ON p.id = t.coffee_type_id AND p.deleted = FALSE`,
	Filters: []Filter{
		{Field: "coffee_type", Op: Exact, Expr: "p.external_id", UUID: true},
	},
}

var MentalHealthMetrics = Table{
	Name:    "mental_health_metrics",
	Columns: columns([]string{"t.label"}, qualified("t", scoreLabelColumns, ""), userColumns("owner")),
	From: `mental_health_metrics t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
	},
}

var MentalHealthLogs = Table{
	Name: "mental_health_logs",
	Columns: columns(
		[]string{`p.external_id AS "mental_health"`, "t.score", `t."timestamp"`},
		qualified("p", scoreLabelColumns, "metric"),
	),
	From: `mental_health_logs t
		JOIN mental_health_metrics p ON p.id = t.mental_health_id AND p.deleted = FALSE`,
	Filters: []Filter{
		{Field: "mental_health", Op: Exact, Expr: "p.external_id", UUID: true},
	},
}

var Goals = Table{
	Name:    "goals",
	Columns: columns([]string{"t.label", "t.description"}, userColumns("owner")),
	From: `goals t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
	},
}

var Milestones = Table{
	Name: "milestones",
	Columns: []string{
		`p.external_id AS "goal"`, "t.label", "t.description", "t.deadline", "t.completion_date",
	},
	From: `milestones t
		JOIN goals p ON p.id = t.goal_id AND p.deleted = FALSE`,
	Filters: []Filter{
		{Field: "label", Op: Contains, Expr: "t.label"},
		{Field: "goal", Op: Exact, Expr: "p.external_id", UUID: true},
	},
}

var MilestoneRoutineRequirements = Table{
	Name: "milestone_routine_requirements",
	Columns: []string{
		`p.external_id AS "milestone"`, `r.external_id AS "routine"`, "t.routine_id",
		"t.count", "t.description", `l.external_id AS "completed_by_activity"`,
	},
	From: `milestone_routine_requirements t
		JOIN milestones p ON p.id = t.milestone_id AND p.deleted = FALSE
		JOIN routine_activities r ON r.id = t.routine_id
		LEFT JOIN routine_activity_logs l ON l.id = t.completed_by_activity_id`,
	Filters: []Filter{
		{Field: "milestone", Op: Exact, Expr: "p.external_id", UUID: true},
		{Field: "completed_by_activity", Op: Exact, Expr: "l.external_id", UUID: true},
	},
}

var MilestoneHabitRequirements = Table{
	Name: "milestone_habit_requirements",
	Columns: []string{
		`p.external_id AS "milestone"`, `h.external_id AS "habit"`, "t.habit_id",
		"t.count", "t.description", `l.external_id AS "completed_by_activity"`,
	},
	From: `milestone_habit_requirements t
		JOIN milestones p ON p.id = t.milestone_id AND p.deleted = FALSE
		JOIN habits h ON h.id = t.habit_id
		LEFT JOIN habit_logs l ON l.id = t.completed_by_activity_id`,
	Filters: []Filter{
		{Field: "milestone", Op: Exact, Expr: "p.external_id", UUID: true},
		{Field: "completed_by_activity", Op: Exact, Expr: "l.external_id", UUID: true},
	},
}

var EnergyLogs = Table{
	Name:    "energy_logs",
	Columns: columns([]string{"t.title", "t.story", "t.date", "t.energy_delta"}, userColumns("created_by")),
	From: `energy_logs t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "title", Op: Contains, Expr: "t.title"},
	},
}

var Accounts = Table{
	Name:    "finance_accounts",
	Columns: columns([]string{"t.name", "t.balance", "t.active"}, userColumns("owner")),
	From: `finance_accounts t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "name", Op: Contains, Expr: "t.name"},
	},
}

var Transactions = Table{
	Name:    "finance_transactions",
	Columns: columns([]string{"t.name", "t.description", "t.performed_on"}, userColumns("created_by")),
	From: `finance_transactions t
		JOIN users u ON u.id = t.owner_id`,
	Filters: []Filter{
		{Field: "name", Op: Contains, Expr: "t.name"},
	},
}

var TransactionEntries = Table{
	Name: "finance_transaction_entries",
	Columns: []string{
		`p.external_id AS "transaction"`, `a.external_id AS "account"`, "t.name", "t.amount",
	},
	From: `finance_transaction_entries t
		JOIN finance_transactions p ON p.id = t.transaction_id AND p.deleted = FALSE
		JOIN finance_accounts a ON a.id = t.account_id`,
	Filters: []Filter{
		{Field: "transaction", Op: Exact, Expr: "p.external_id", UUID: true},
		{Field: "account", Op: Exact, Expr: "a.external_id", UUID: true},
		{Field: "name", Op: Contains, Expr: "t.name"},
	},
}
