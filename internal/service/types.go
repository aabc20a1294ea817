package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dimatakoy/org-demo/internal/pagination"
)

type CreatePositionInput struct {
	Title string `json:"title" validate:"required,max=200"`
}

type CreateDepartmentInput struct {
	Title    string `json:"title" validate:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
}

type CreateEmployeeInput struct {
	FirstName    string           `json:"first_name" validate:"required,max=100"`
	LastName     string           `json:"last_name" validate:"required,max=100"`
	MiddleName   *string          `json:"middle_name" validate:"omitempty,max=100"`
	Amount       *decimal.Decimal `json:"amount" validate:"required,money"`
	HireDate     time.Time        `json:"hire_date" validate:"required"`
	PositionID   *uint            `json:"position_id"`
	DepartmentID *uint            `json:"department_id"`
}

type GetDepartmentOptions struct {
	// Depth is how many levels of children to populate; 0 leaves children empty.
	Depth int
}

type PositionDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type DepartmentDTO struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	ParentID *uint           `json:"parent_id"`
	Children []DepartmentDTO `json:"children"`
}

type EmployeeDTO struct {
	ID            uint        `json:"id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	MiddleName    *string     `json:"middle_name"`
	Amount        json.Number `json:"amount"`
	HireDate      string      `json:"hire_date"`
	PositionTitle *string     `json:"position_title"`
}

type BreadcrumbDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type BreadcrumbsDTO struct {
	ID    uint            `json:"id"`
	Label string          `json:"label"`
	Items []BreadcrumbDTO `json:"items"`
}

// DepartmentLevel is a department id with its depth in the forest.
type DepartmentLevel struct {
	ID    uint
	Depth int
}

// Directory is the read side served over HTTP.
type Directory interface {
	GetEmployee(ctx context.Context, id int64) (EmployeeDTO, error)
	ListEmployees(ctx context.Context, page pagination.Params) (pagination.Page[EmployeeDTO], error)
	GetDepartment(ctx context.Context, id int64, options GetDepartmentOptions) (DepartmentDTO, error)
	ListDepartments(ctx context.Context, page pagination.Params) (pagination.Page[DepartmentDTO], error)
	ListDepartmentEmployees(ctx context.Context, departmentID int64, page pagination.Params) (pagination.Page[EmployeeDTO], error)
	GetDepartmentBreadcrumbs(ctx context.Context, id int64) (BreadcrumbsDTO, error)
	GetPosition(ctx context.Context, id int64) (PositionDTO, error)
	ListPositions(ctx context.Context, page pagination.Params) (pagination.Page[PositionDTO], error)
}
