package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle state of a payroll run.
// Transitions are forward-only: Draft -> Processed -> Paid.
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "DRAFT"
	PayrollProcessed PayrollStatus = "PROCESSED"
	PayrollPaid      PayrollStatus = "PAID"
)

// CanTransitionTo reports whether the state machine permits moving to next.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	switch s {
	case PayrollDraft:
		return next == PayrollProcessed
	case PayrollProcessed:
		return next == PayrollPaid
	default:
		return false
	}
}

// CanEdit reports whether salaries may still be added or recomputed.
func (s PayrollStatus) CanEdit() bool {
	return s == PayrollDraft
}

// PayrollRun aggregates employee salary snapshots for one period.
// Totals are a cached sum, recomputed whenever membership changes and frozen at
// processing time.
type PayrollRun struct {
	RunID         string          `json:"runID"` // Primary Key (UUID)
	PeriodYear    int             `json:"periodYear"`
	PeriodMonth   time.Month      `json:"periodMonth"`
	Status        PayrollStatus   `json:"status"`
	TotalGross    decimal.Decimal `json:"totalGross"`
	TotalPAYE     decimal.Decimal `json:"totalPAYE"`
	TotalPension  decimal.Decimal `json:"totalPension"` // Employee share
	TotalNHIS     decimal.Decimal `json:"totalNHIS"`
	TotalNHF      decimal.Decimal `json:"totalNHF"`
	TotalNet      decimal.Decimal `json:"totalNet"`
	EmployeeCount int             `json:"employeeCount"`
	JournalID     *string         `json:"journalID,omitempty"` // Ledger effect posted at processing
	ProcessedAt   *time.Time      `json:"processedAt,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	Salaries      []EmployeeSalary `json:"salaries,omitempty"`
	AuditFields
}

// EmployeeSalary is an immutable per-employee snapshot belonging to one run.
// gross = basic + housing + transport + other; net = gross - deductions.
type EmployeeSalary struct {
	SalaryID        string          `json:"salaryID"`
	RunID           string          `json:"runID"`
	EmployeeID      string          `json:"employeeID"`
	BasicSalary     decimal.Decimal `json:"basicSalary"`
	Housing         decimal.Decimal `json:"housing"`
	Transport       decimal.Decimal `json:"transport"`
	Other           decimal.Decimal `json:"other"`
	Gross           decimal.Decimal `json:"gross"`
	PAYE            decimal.Decimal `json:"paye"`
	PensionEmployee decimal.Decimal `json:"pensionEmployee"`
	PensionEmployer decimal.Decimal `json:"pensionEmployer"` // Employer cost, not deducted from net
	NHIS            decimal.Decimal `json:"nhis"`
	NHF             decimal.Decimal `json:"nhf"`
	Net             decimal.Decimal `json:"net"`
	AuditFields
}
