package domain

import "github.com/shopspring/decimal"

// EmploymentStatus indicates whether an employee is on the active payroll.
type EmploymentStatus string

const (
	EmploymentActive     EmploymentStatus = "ACTIVE"
	EmploymentSuspended  EmploymentStatus = "SUSPENDED"
	EmploymentTerminated EmploymentStatus = "TERMINATED"
)

// Employee holds the compensation components used to compute a salary snapshot.
type Employee struct {
	EmployeeID         string           `json:"employeeID"` // Primary Key (UUID)
	StaffNo            string           `json:"staffNo"`    // Human-facing staff number, unique
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	BasicSalary        decimal.Decimal  `json:"basicSalary"` // Monthly
	HousingAllowance   decimal.Decimal  `json:"housingAllowance"`
	TransportAllowance decimal.Decimal  `json:"transportAllowance"`
	OtherAllowances    decimal.Decimal  `json:"otherAllowances"`
	Status             EmploymentStatus `json:"status"`
	AuditFields
}

// MonthlyGross is the sum of all compensation components.
func (e Employee) MonthlyGross() decimal.Decimal {
	return e.BasicSalary.Add(e.HousingAllowance).Add(e.TransportAllowance).Add(e.OtherAllowances)
}
