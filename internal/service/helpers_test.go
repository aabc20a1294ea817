package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dimatakoy/org-demo/internal/db/dbtest"
)

func newTestService(t *testing.T) *DirectoryService {
	t.Helper()
	return NewDirectoryService(dbtest.Open(t))
}

func amount(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func employeeInput() CreateEmployeeInput {
	return CreateEmployeeInput{
		FirstName:  "Ivan",
		LastName:   "Ivanov",
		MiddleName: strPtr("Ivanovich"),
		Amount:     amount("50000.00"),
		HireDate:   time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
	}
}

func mustCreateDepartment(t *testing.T, svc *DirectoryService, title string, parentID *uint) DepartmentDTO {
	t.Helper()
	department, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Title: title, ParentID: parentID})
	require.NoError(t, err)
	return department
}

func mustCreateEmployee(t *testing.T, svc *DirectoryService, input CreateEmployeeInput) EmployeeDTO {
	t.Helper()
	employee, err := svc.CreateEmployee(context.Background(), input)
	require.NoError(t, err)
	return employee
}
