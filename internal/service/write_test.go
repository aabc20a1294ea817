package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimatakoy/org-demo/internal/apperror"
	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/models"
	"github.com/dimatakoy/org-demo/internal/pagination"
)

func TestCreateEmployeeAmountRules(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{"0.00", true},
		{"200", true},
		{"-10.00", false},
		{"100.999", false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			svc := newTestService(t)
			input := employeeInput()
			input.Amount = amount(tc.raw)

			_, err := svc.CreateEmployee(context.Background(), input)
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
			assert.Contains(t, apperror.GetFields(err), "amount")
		})
	}
}

func TestCreateEmployeeRequiredFields(t *testing.T) {
	mutations := map[string]func(*CreateEmployeeInput){
		"first_name": func(in *CreateEmployeeInput) { in.FirstName = "  " },
		"last_name":  func(in *CreateEmployeeInput) { in.LastName = "" },
		"hire_date":  func(in *CreateEmployeeInput) { in.HireDate = time.Time{} },
		"amount":     func(in *CreateEmployeeInput) { in.Amount = nil },
	}

	svc := newTestService(t)
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			input := employeeInput()
			mutate(&input)

			_, err := svc.CreateEmployee(context.Background(), input)
			require.Error(t, err)
			assert.Contains(t, apperror.GetFields(err), field)
		})
	}
}

func TestCreateEmployeeMaxLength(t *testing.T) {
	long := strings.Repeat("a", 101)
	mutations := map[string]func(*CreateEmployeeInput){
		"first_name":  func(in *CreateEmployeeInput) { in.FirstName = long },
		"last_name":   func(in *CreateEmployeeInput) { in.LastName = long },
		"middle_name": func(in *CreateEmployeeInput) { in.MiddleName = &long },
	}

	svc := newTestService(t)
	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			input := employeeInput()
			mutate(&input)

			_, err := svc.CreateEmployee(context.Background(), input)
			require.Error(t, err)
			assert.Contains(t, apperror.GetFields(err), field)
		})
	}
}

func TestCreateEmployeeUnknownReferences(t *testing.T) {
	svc := newTestService(t)
	missing := uint(404)

	input := employeeInput()
	input.DepartmentID = &missing
	_, err := svc.CreateEmployee(context.Background(), input)
	assert.Equal(t, "department_not_found", apperror.GetErrorCode(err))

	input = employeeInput()
	input.PositionID = &missing
	_, err = svc.CreateEmployee(context.Background(), input)
	assert.Equal(t, "position_not_found", apperror.GetErrorCode(err))
}

func TestDeleteDepartmentWithEmployeeIsProtected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	department := mustCreateDepartment(t, svc, "Test department", nil)
	input := employeeInput()
	input.DepartmentID = &department.ID
	employee := mustCreateEmployee(t, svc, input)

	err := svc.DeleteDepartment(ctx, int64(department.ID))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeProtected, apperror.GetCode(err))
	assert.Equal(t, "department_protected", apperror.GetErrorCode(err))

	_, err = svc.GetDepartment(ctx, int64(department.ID), GetDepartmentOptions{})
	require.NoError(t, err)
	_, err = svc.GetEmployee(ctx, int64(employee.ID))
	require.NoError(t, err)
}

func TestDeleteDepartmentWithChildIsProtected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	root := mustCreateDepartment(t, svc, "Root", nil)
	mustCreateDepartment(t, svc, "Child", &root.ID)

	err := svc.DeleteDepartment(ctx, int64(root.ID))
	assert.Equal(t, apperror.CodeProtected, apperror.GetCode(err))
}

func TestDeleteDepartment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	department := mustCreateDepartment(t, svc, "Temporary", nil)
	require.NoError(t, svc.DeleteDepartment(ctx, int64(department.ID)))

	_, err := svc.GetDepartment(ctx, int64(department.ID), GetDepartmentOptions{})
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))

	err = svc.DeleteDepartment(ctx, int64(department.ID))
	assert.Equal(t, apperror.CodeNotFound, apperror.GetCode(err))
}

func TestDeletePositionDetachesEmployees(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	position, err := svc.CreatePosition(ctx, CreatePositionInput{Title: "Lawyer"})
	require.NoError(t, err)
	input := employeeInput()
	input.PositionID = &position.ID
	employee := mustCreateEmployee(t, svc, input)

	require.NoError(t, svc.DeletePosition(ctx, int64(position.ID)))

	reloaded, err := svc.GetEmployee(ctx, int64(employee.ID))
	require.NoError(t, err)
	assert.Nil(t, reloaded.PositionTitle)

	err = svc.DeletePosition(ctx, int64(position.ID))
	assert.Equal(t, "position_not_found", apperror.GetErrorCode(err))
}

func TestDeleteEmployee(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	employee := mustCreateEmployee(t, svc, employeeInput())
	require.NoError(t, svc.DeleteEmployee(ctx, int64(employee.ID)))

	_, err := svc.GetEmployee(ctx, int64(employee.ID))
	assert.Equal(t, "employee_not_found", apperror.GetErrorCode(err))
}

func TestCreateDepartmentDepthLimit(t *testing.T) {
	svc := newTestService(t)

	var parentID *uint
	var last DepartmentDTO
	for level := 1; level <= hierarchy.MaxDepth; level++ {
		last = mustCreateDepartment(t, svc, "level", parentID)
		id := last.ID
		parentID = &id
	}

	var stored models.Department
	require.NoError(t, svc.db.First(&stored, last.ID).Error)
	assert.Equal(t, hierarchy.MaxDepth, stored.Depth)
	assert.Equal(t, "1/2/3/4/5", stored.Path)

	_, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Title: "too deep", ParentID: parentID})
	require.Error(t, err)
	assert.Contains(t, apperror.GetFields(err), "parent_id")
}

func TestCreateDepartmentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateDepartment(ctx, CreateDepartmentInput{Title: " "})
	assert.Contains(t, apperror.GetFields(err), "title")

	_, err = svc.CreateDepartment(ctx, CreateDepartmentInput{Title: strings.Repeat("x", 101)})
	assert.Contains(t, apperror.GetFields(err), "title")

	missing := uint(77)
	_, err = svc.CreateDepartment(ctx, CreateDepartmentInput{Title: "orphan", ParentID: &missing})
	assert.Equal(t, "department_not_found", apperror.GetErrorCode(err))
}

func TestBulkCreateEmployees(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inputs := make([]CreateEmployeeInput, 0, 25)
	for i := 0; i < 25; i++ {
		inputs = append(inputs, employeeInput())
	}

	created, err := svc.BulkCreateEmployees(ctx, inputs, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, created)

	page, err := svc.ListEmployees(ctx, pagination.Params{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Count)
}

func TestBulkCreateEmployeesIsAllOrNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	invalid := employeeInput()
	invalid.Amount = amount("-1")
	inputs := []CreateEmployeeInput{employeeInput(), invalid}

	_, err := svc.BulkCreateEmployees(ctx, inputs, 10)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	page, err := svc.ListEmployees(ctx, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Count)
}

func TestEnsurePositionIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsurePosition(ctx, "CTO")
	require.NoError(t, err)
	second, err := svc.EnsurePosition(ctx, " CTO ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	page, err := svc.ListPositions(ctx, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
}
