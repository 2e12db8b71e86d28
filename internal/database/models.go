package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
}

type Customer struct {
	ID      int64
	Name    string
	Phone   string
	Email   pgtype.Text
	TaxID   string
	Address string
}

type Vehicle struct {
	ID         int64
	Plate      string
	Model      string
	Brand      string
	Year       int32
	Color      string
	CustomerID int64
}

type Mechanic struct {
	ID        int64
	Name      string
	Specialty string
}

type Part struct {
	ID        int64
	Code      string
	Name      string
	SalePrice pgtype.Numeric
	Stock     int32
}

type Service struct {
	ID               int64
	Description      string
	LaborPrice       pgtype.Numeric
	EstimatedMinutes int32
}

type WorkOrder struct {
	ID         int64
	OpenedAt   time.Time
	ClosedAt   pgtype.Date
	Status     string
	Odometer   int32
	Complaint  string
	CustomerID int64
	VehicleID  int64
	MechanicID int64
}

// PartLine carries the frozen unit price and a name snapshot; PartID is
// null for ad-hoc lines.
type PartLine struct {
	ID          int64
	WorkOrderID int64
	PartID      pgtype.Int8
	Name        string
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

type ServiceLine struct {
	ID          int64
	WorkOrderID int64
	ServiceID   int64
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

// ServiceLineRow is a ServiceLine joined with the service description for
// order detail responses.
type ServiceLineRow struct {
	ServiceLine
	Description string
}

type Payment struct {
	ID          int64
	WorkOrderID int64
	Amount      pgtype.Numeric
	Method      string
	Installment int32
	Note        pgtype.Text
	PaidAt      time.Time
}

type Expense struct {
	ID          int64
	Description string
	Amount      pgtype.Numeric
	Status      string
	DueDate     time.Time
	PaidAt      pgtype.Date
}
