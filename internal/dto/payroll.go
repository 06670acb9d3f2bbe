package dto

import (
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest defines the payload for registering an employee.
type CreateEmployeeRequest struct {
	StaffNo            string          `json:"staffNo" binding:"required"`
	FirstName          string          `json:"firstName" binding:"required"`
	LastName           string          `json:"lastName" binding:"required"`
	BasicSalary        decimal.Decimal `json:"basicSalary" binding:"required"`
	HousingAllowance   decimal.Decimal `json:"housingAllowance"`
	TransportAllowance decimal.Decimal `json:"transportAllowance"`
	OtherAllowances    decimal.Decimal `json:"otherAllowances"`
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	EmployeeID         string          `json:"employeeID"`
	StaffNo            string          `json:"staffNo"`
	FirstName          string          `json:"firstName"`
	LastName           string          `json:"lastName"`
	BasicSalary        decimal.Decimal `json:"basicSalary"`
	HousingAllowance   decimal.Decimal `json:"housingAllowance"`
	TransportAllowance decimal.Decimal `json:"transportAllowance"`
	OtherAllowances    decimal.Decimal `json:"otherAllowances"`
	Status             string          `json:"status"`
}

// ComputePayrollRunRequest defines the payload for computing a draft payroll run.
// An empty employee list means every active employee is included.
type ComputePayrollRunRequest struct {
	PeriodYear  int      `json:"periodYear" binding:"required"`
	PeriodMonth int      `json:"periodMonth" binding:"required,min=1,max=12"`
	EmployeeIDs []string `json:"employeeIDs"`
}

// MarkRunPaidRequest defines the payload for marking a processed run as paid.
// A missing paidAt defaults to the time of the request.
type MarkRunPaidRequest struct {
	PaidAt *time.Time `json:"paidAt"`
}

// EmployeeSalaryResponse defines the data returned for a salary snapshot.
type EmployeeSalaryResponse struct {
	SalaryID        string          `json:"salaryID"`
	EmployeeID      string          `json:"employeeID"`
	Gross           decimal.Decimal `json:"gross"`
	PAYE            decimal.Decimal `json:"paye"`
	PensionEmployee decimal.Decimal `json:"pensionEmployee"`
	PensionEmployer decimal.Decimal `json:"pensionEmployer"`
	NHIS            decimal.Decimal `json:"nhis"`
	NHF             decimal.Decimal `json:"nhf"`
	Net             decimal.Decimal `json:"net"`
}

// PayrollRunResponse defines the data returned for a payroll run.
type PayrollRunResponse struct {
	RunID         string                   `json:"runID"`
	PeriodYear    int                      `json:"periodYear"`
	PeriodMonth   int                      `json:"periodMonth"`
	Status        string                   `json:"status"`
	TotalGross    decimal.Decimal          `json:"totalGross"`
	TotalPAYE     decimal.Decimal          `json:"totalPAYE"`
	TotalPension  decimal.Decimal          `json:"totalPension"`
	TotalNHIS     decimal.Decimal          `json:"totalNHIS"`
	TotalNHF      decimal.Decimal          `json:"totalNHF"`
	TotalNet      decimal.Decimal          `json:"totalNet"`
	EmployeeCount int                      `json:"employeeCount"`
	JournalID     *string                  `json:"journalID,omitempty"`
	ProcessedAt   *time.Time               `json:"processedAt,omitempty"`
	PaidAt        *time.Time               `json:"paidAt,omitempty"`
	Salaries      []EmployeeSalaryResponse `json:"salaries,omitempty"`
}

// ToEmployeeResponse converts a domain.Employee to EmployeeResponse DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:         e.EmployeeID,
		StaffNo:            e.StaffNo,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		BasicSalary:        e.BasicSalary,
		HousingAllowance:   e.HousingAllowance,
		TransportAllowance: e.TransportAllowance,
		OtherAllowances:    e.OtherAllowances,
		Status:             string(e.Status),
	}
}

// ToEmployeeSalaryResponse converts a domain.EmployeeSalary to its DTO.
func ToEmployeeSalaryResponse(s *domain.EmployeeSalary) EmployeeSalaryResponse {
	return EmployeeSalaryResponse{
		SalaryID:        s.SalaryID,
		EmployeeID:      s.EmployeeID,
		Gross:           s.Gross,
		PAYE:            s.PAYE,
		PensionEmployee: s.PensionEmployee,
		PensionEmployer: s.PensionEmployer,
		NHIS:            s.NHIS,
		NHF:             s.NHF,
		Net:             s.Net,
	}
}

// ToPayrollRunResponse converts a domain.PayrollRun to PayrollRunResponse DTO.
func ToPayrollRunResponse(r *domain.PayrollRun) PayrollRunResponse {
	resp := PayrollRunResponse{
		RunID:         r.RunID,
		PeriodYear:    r.PeriodYear,
		PeriodMonth:   int(r.PeriodMonth),
		Status:        string(r.Status),
		TotalGross:    r.TotalGross,
		TotalPAYE:     r.TotalPAYE,
		TotalPension:  r.TotalPension,
		TotalNHIS:     r.TotalNHIS,
		TotalNHF:      r.TotalNHF,
		TotalNet:      r.TotalNet,
		EmployeeCount: r.EmployeeCount,
		JournalID:     r.JournalID,
		ProcessedAt:   r.ProcessedAt,
		PaidAt:        r.PaidAt,
	}
	if len(r.Salaries) > 0 {
		resp.Salaries = make([]EmployeeSalaryResponse, len(r.Salaries))
		for i := range r.Salaries {
			resp.Salaries[i] = ToEmployeeSalaryResponse(&r.Salaries[i])
		}
	}
	return resp
}
