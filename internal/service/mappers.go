package service

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/models"
	"github.com/dimatakoy/org-demo/internal/validation"
)

const dateLayout = "2006-01-02"

// employeeRow is an Employee joined with its Position title.
type employeeRow struct {
	ID            uint
	FirstName     string
	LastName      string
	MiddleName    *string
	Amount        decimal.Decimal
	HireDate      time.Time
	PositionTitle *string
}

func employeeToDTO(row employeeRow) EmployeeDTO {
	return EmployeeDTO{
		ID:            row.ID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		MiddleName:    row.MiddleName,
		Amount:        json.Number(row.Amount.StringFixed(validation.MoneyScale)),
		HireDate:      row.HireDate.Format(dateLayout),
		PositionTitle: row.PositionTitle,
	}
}

func departmentToDTO(department models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:       department.ID,
		Title:    department.Title,
		ParentID: hierarchy.ParentID(departmentToNode(department)),
		Children: []DepartmentDTO{},
	}
}

func departmentToNode(department models.Department) hierarchy.Node {
	return hierarchy.Node{
		ID:       department.ID,
		ParentID: department.ParentID,
		Title:    department.Title,
	}
}

func positionToDTO(position models.Position) PositionDTO {
	return PositionDTO{
		ID:    position.ID,
		Title: position.Title,
	}
}
