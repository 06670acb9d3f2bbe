package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee represents a row of the employees table.
type Employee struct {
	EmployeeID         string          `db:"employee_id"`
	StaffNo            string          `db:"staff_no"`
	FirstName          string          `db:"first_name"`
	LastName           string          `db:"last_name"`
	BasicSalary        decimal.Decimal `db:"basic_salary"`
	HousingAllowance   decimal.Decimal `db:"housing_allowance"`
	TransportAllowance decimal.Decimal `db:"transport_allowance"`
	OtherAllowances    decimal.Decimal `db:"other_allowances"`
	Status             string          `db:"status"`
	AuditFields
}

// PayrollRun represents a row of the payroll_runs table.
type PayrollRun struct {
	RunID         string          `db:"run_id"`
	PeriodYear    int             `db:"period_year"`
	PeriodMonth   int             `db:"period_month"`
	Status        string          `db:"status"`
	TotalGross    decimal.Decimal `db:"total_gross"`
	TotalPAYE     decimal.Decimal `db:"total_paye"`
	TotalPension  decimal.Decimal `db:"total_pension"`
	TotalNHIS     decimal.Decimal `db:"total_nhis"`
	TotalNHF      decimal.Decimal `db:"total_nhf"`
	TotalNet      decimal.Decimal `db:"total_net"`
	EmployeeCount int             `db:"employee_count"`
	JournalID     *string         `db:"journal_id"`    // Nullable until processed
	ProcessedAt   *time.Time      `db:"processed_at"`  // Nullable
	PaidAt        *time.Time      `db:"paid_at"`       // Nullable
	AuditFields
}

// EmployeeSalary represents a row of the employee_salaries table.
type EmployeeSalary struct {
	SalaryID        string          `db:"salary_id"`
	RunID           string          `db:"run_id"`
	EmployeeID      string          `db:"employee_id"`
	BasicSalary     decimal.Decimal `db:"basic_salary"`
	Housing         decimal.Decimal `db:"housing"`
	Transport       decimal.Decimal `db:"transport"`
	Other           decimal.Decimal `db:"other"`
	Gross           decimal.Decimal `db:"gross"`
	PAYE            decimal.Decimal `db:"paye"`
	PensionEmployee decimal.Decimal `db:"pension_employee"`
	PensionEmployer decimal.Decimal `db:"pension_employer"`
	NHIS            decimal.Decimal `db:"nhis"`
	NHF             decimal.Decimal `db:"nhf"`
	Net             decimal.Decimal `db:"net"`
	AuditFields
}
