package mapping

import (
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	return models.Employee{
		EmployeeID:         d.EmployeeID,
		StaffNo:            d.StaffNo,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		BasicSalary:        d.BasicSalary,
		HousingAllowance:   d.HousingAllowance,
		TransportAllowance: d.TransportAllowance,
		OtherAllowances:    d.OtherAllowances,
		Status:             string(d.Status),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:         m.EmployeeID,
		StaffNo:            m.StaffNo,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		BasicSalary:        m.BasicSalary,
		HousingAllowance:   m.HousingAllowance,
		TransportAllowance: m.TransportAllowance,
		OtherAllowances:    m.OtherAllowances,
		Status:             domain.EmploymentStatus(m.Status),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmployeeSlice converts a slice of model Employees to domain Employees
func ToDomainEmployeeSlice(ms []models.Employee) []domain.Employee {
	ds := make([]domain.Employee, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmployee(m)
	}
	return ds
}

// ToModelPayrollRun converts a domain PayrollRun to a model PayrollRun
func ToModelPayrollRun(d domain.PayrollRun) models.PayrollRun {
	return models.PayrollRun{
		RunID:         d.RunID,
		PeriodYear:    d.PeriodYear,
		PeriodMonth:   int(d.PeriodMonth),
		Status:        string(d.Status),
		TotalGross:    d.TotalGross,
		TotalPAYE:     d.TotalPAYE,
		TotalPension:  d.TotalPension,
		TotalNHIS:     d.TotalNHIS,
		TotalNHF:      d.TotalNHF,
		TotalNet:      d.TotalNet,
		EmployeeCount: d.EmployeeCount,
		JournalID:     d.JournalID,
		ProcessedAt:   d.ProcessedAt,
		PaidAt:        d.PaidAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollRun converts a model PayrollRun to a domain PayrollRun
func ToDomainPayrollRun(m models.PayrollRun) domain.PayrollRun {
	return domain.PayrollRun{
		RunID:         m.RunID,
		PeriodYear:    m.PeriodYear,
		PeriodMonth:   time.Month(m.PeriodMonth),
		Status:        domain.PayrollStatus(m.Status),
		TotalGross:    m.TotalGross,
		TotalPAYE:     m.TotalPAYE,
		TotalPension:  m.TotalPension,
		TotalNHIS:     m.TotalNHIS,
		TotalNHF:      m.TotalNHF,
		TotalNet:      m.TotalNet,
		EmployeeCount: m.EmployeeCount,
		JournalID:     m.JournalID,
		ProcessedAt:   m.ProcessedAt,
		PaidAt:        m.PaidAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEmployeeSalary converts a domain EmployeeSalary to a model EmployeeSalary
func ToModelEmployeeSalary(d domain.EmployeeSalary) models.EmployeeSalary {
	return models.EmployeeSalary{
		SalaryID:        d.SalaryID,
		RunID:           d.RunID,
		EmployeeID:      d.EmployeeID,
		BasicSalary:     d.BasicSalary,
		Housing:         d.Housing,
		Transport:       d.Transport,
		Other:           d.Other,
		Gross:           d.Gross,
		PAYE:            d.PAYE,
		PensionEmployee: d.PensionEmployee,
		PensionEmployer: d.PensionEmployer,
		NHIS:            d.NHIS,
		NHF:             d.NHF,
		Net:             d.Net,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployeeSalary converts a model EmployeeSalary to a domain EmployeeSalary
func ToDomainEmployeeSalary(m models.EmployeeSalary) domain.EmployeeSalary {
	return domain.EmployeeSalary{
		SalaryID:        m.SalaryID,
		RunID:           m.RunID,
		EmployeeID:      m.EmployeeID,
		BasicSalary:     m.BasicSalary,
		Housing:         m.Housing,
		Transport:       m.Transport,
		Other:           m.Other,
		Gross:           m.Gross,
		PAYE:            m.PAYE,
		PensionEmployee: m.PensionEmployee,
		PensionEmployer: m.PensionEmployer,
		NHIS:            m.NHIS,
		NHF:             m.NHF,
		Net:             m.Net,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmployeeSalarySlice converts model EmployeeSalaries to domain EmployeeSalaries
func ToDomainEmployeeSalarySlice(ms []models.EmployeeSalary) []domain.EmployeeSalary {
	ds := make([]domain.EmployeeSalary, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmployeeSalary(m)
	}
	return ds
}
