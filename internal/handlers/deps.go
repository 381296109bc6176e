package handlers

import (
	"context"

	"ilgi/internal/models"
	"ilgi/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Getter, username, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (models.User, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID int64, action, resource, recordID string, data []byte) error
	ListByActor(ctx context.Context, actorID int64, limit, offset int) ([]models.AuditLog, int, error)
}

type CoffeeStore interface {
	Quantities(ctx context.Context, typeIDs []int64) (map[int64][]decimal.Decimal, error)
}

type FinanceStore interface {
	SelfCheck(ctx context.Context, ownerID int64) ([]store.AccountBalanceSummary, error)
}

type ReferenceResolver interface {
	Resolve(ctx context.Context, q store.Getter, table string, ownerID int64, externalID string) (int64, error)
	ResolveChild(ctx context.Context, q store.Getter, table, parentColumn string, parentID, ownerID int64, externalID string) (int64, error)
}

// RecordStore is the persistence contract of one journal resource.
type RecordStore[T models.Record] interface {
	Table() store.Table
	List(ctx context.Context, ownerID int64, conds []store.Condition, limit, offset int) ([]T, int, error)
	Get(ctx context.Context, ownerID int64, externalID string) (T, error)
	GetAny(ctx context.Context, ownerID int64, externalID string) (T, error)
	GetByID(ctx context.Context, q store.Getter, id int64) (T, error)
	Insert(ctx context.Context, tx store.Getter, ownerID int64, values map[string]any) (int64, error)
	Update(ctx context.Context, tx store.Execer, id int64, values map[string]any) error
	SoftDelete(ctx context.Context, tx store.Execer, id int64) error
}

type Stores struct {
	Users      UserStore
	Audit      AuditStore
	Coffee     CoffeeStore
	Finance    FinanceStore
	References ReferenceResolver

	RoutineActivities            RecordStore[models.RoutineActivity]
	RoutineActivityLogs          RecordStore[models.RoutineActivityLog]
	Habits                       RecordStore[models.Habit]
	HabitLogs                    RecordStore[models.HabitLog]
	CoffeeTypes                  RecordStore[models.CoffeeType]
	CoffeeLogs                   RecordStore[models.CoffeeLog]
	MentalHealth                 RecordStore[models.MentalHealth]
	MentalHealthLogs             RecordStore[models.MentalHealthLog]
	Goals                        RecordStore[models.Goal]
	Milestones                   RecordStore[models.Milestone]
	MilestoneRoutineRequirements RecordStore[models.MilestoneRoutineRequirement]
	MilestoneHabitRequirements   RecordStore[models.MilestoneHabitRequirement]
	EnergyLogs                   RecordStore[models.EnergyLog]
	Accounts                     RecordStore[models.Account]
	Transactions                 RecordStore[models.Transaction]
	TransactionEntries           RecordStore[models.TransactionEntry]
}

// NewStores wires every store to one database handle.
func NewStores(db store.DB) Stores {
	return Stores{
		Users:      store.NewUserStore(db),
		Audit:      store.NewAuditStore(db),
		Coffee:     store.NewCoffeeStore(db),
		Finance:    store.NewFinanceStore(db),
		References: store.ReferenceStore{},

		RoutineActivities:            store.NewRecordStore[models.RoutineActivity](db, store.RoutineActivities),
		RoutineActivityLogs:          store.NewRecordStore[models.RoutineActivityLog](db, store.RoutineActivityLogs),
		Habits:                       store.NewRecordStore[models.Habit](db, store.Habits),
		HabitLogs:                    store.NewRecordStore[models.HabitLog](db, store.HabitLogs),
		CoffeeTypes:                  store.NewRecordStore[models.CoffeeType](db, store.CoffeeTypes),
		CoffeeLogs:                   store.NewRecordStore[models.CoffeeLog](db, store.CoffeeLogs),
		MentalHealth:                 store.NewRecordStore[models.MentalHealth](db, store.MentalHealthMetrics),
		MentalHealthLogs:             store.NewRecordStore[models.MentalHealthLog](db, store.MentalHealthLogs),
		Goals:                        store.NewRecordStore[models.Goal](db, store.Goals),
		Milestones:                   store.NewRecordStore[models.Milestone](db, store.Milestones),
		MilestoneRoutineRequirements: store.NewRecordStore[models.MilestoneRoutineRequirement](db, store.MilestoneRoutineRequirements),
		MilestoneHabitRequirements:   store.NewRecordStore[models.MilestoneHabitRequirement](db, store.MilestoneHabitRequirements),
		EnergyLogs:                   store.NewRecordStore[models.EnergyLog](db, store.EnergyLogs),
		Accounts:                     store.NewRecordStore[models.Account](db, store.Accounts),
		Transactions:                 store.NewRecordStore[models.Transaction](db, store.Transactions),
		TransactionEntries:           store.NewRecordStore[models.TransactionEntry](db, store.TransactionEntries),
	}
}
