package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/apperror"
	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/models"
	"github.com/dimatakoy/org-demo/internal/pagination"
)

const employeeColumns = "employees.id, employees.first_name, employees.last_name, employees.middle_name, " +
	"employees.amount, employees.hire_date, positions.title AS position_title"

type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id int64) (EmployeeDTO, error) {
	var rows []employeeRow
	if err := projectEmployees(s.employees(ctx)).
		Where("employees.id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return EmployeeDTO{}, fmt.Errorf("load employee: %w", err)
	}
	if len(rows) == 0 {
		return EmployeeDTO{}, apperror.NotFound(apperror.EntityEmployee)
	}
	return employeeToDTO(rows[0]), nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context, page pagination.Params) (pagination.Page[EmployeeDTO], error) {
	return s.pageEmployees(ctx, s.employees(ctx), page)
}

// ListDepartmentEmployees lists employees of one department. An unknown
// department is an empty page, not an error.
func (s *DirectoryService) ListDepartmentEmployees(ctx context.Context, departmentID int64, page pagination.Params) (pagination.Page[EmployeeDTO], error) {
	return s.pageEmployees(ctx, s.employees(ctx).Where("employees.department_id = ?", departmentID), page)
}

func (s *DirectoryService) GetDepartment(ctx context.Context, id int64, options GetDepartmentOptions) (DepartmentDTO, error) {
	if options.Depth < 0 || options.Depth > hierarchy.MaxDepth {
		return DepartmentDTO{}, apperror.Validation(map[string]string{
			"depth": fmt.Sprintf("depth must be between 0 and %d", hierarchy.MaxDepth),
		})
	}

	department, err := s.loadDepartment(ctx, id)
	if err != nil {
		return DepartmentDTO{}, err
	}

	return s.buildTree(ctx, department, options.Depth)
}

func (s *DirectoryService) ListDepartments(ctx context.Context, page pagination.Params) (pagination.Page[DepartmentDTO], error) {
	result, err := pagination.Paginate[models.Department](ctx, s.db.Model(&models.Department{}), page, orderByID("departments"))
	if err != nil {
		return pagination.Page[DepartmentDTO]{}, fmt.Errorf("list departments: %w", err)
	}
	return pagination.Map(result, departmentToDTO), nil
}

func (s *DirectoryService) GetPosition(ctx context.Context, id int64) (PositionDTO, error) {
	var position models.Position
	if err := s.db.WithContext(ctx).First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PositionDTO{}, apperror.NotFound(apperror.EntityPosition)
		}
		return PositionDTO{}, fmt.Errorf("load position: %w", err)
	}
	return positionToDTO(position), nil
}

func (s *DirectoryService) ListPositions(ctx context.Context, page pagination.Params) (pagination.Page[PositionDTO], error) {
	result, err := pagination.Paginate[models.Position](ctx, s.db.Model(&models.Position{}), page, orderByID("positions"))
	if err != nil {
		return pagination.Page[PositionDTO]{}, fmt.Errorf("list positions: %w", err)
	}
	return pagination.Map(result, positionToDTO), nil
}

func (s *DirectoryService) employees(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Employee{})
}

func (s *DirectoryService) pageEmployees(ctx context.Context, base *gorm.DB, page pagination.Params) (pagination.Page[EmployeeDTO], error) {
	result, err := pagination.Paginate[employeeRow](ctx, base, page, func(query *gorm.DB) *gorm.DB {
		return projectEmployees(query).Order("employees.id ASC")
	})
	if err != nil {
		return pagination.Page[EmployeeDTO]{}, fmt.Errorf("list employees: %w", err)
	}
	return pagination.Map(result, employeeToDTO), nil
}

func projectEmployees(query *gorm.DB) *gorm.DB {
	return query.
		Select(employeeColumns).
		Joins("LEFT JOIN positions ON positions.id = employees.position_id")
}

func orderByID(table string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Order(table + ".id ASC")
	}
}

func (s *DirectoryService) loadDepartment(ctx context.Context, id int64) (models.Department, error) {
	var department models.Department
	if err := s.db.WithContext(ctx).First(&department, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Department{}, apperror.NotFound(apperror.EntityDepartment)
		}
		return models.Department{}, fmt.Errorf("load department: %w", err)
	}
	return department, nil
}

func (s *DirectoryService) buildTree(ctx context.Context, department models.Department, depth int) (DepartmentDTO, error) {
	result := departmentToDTO(department)
	if depth == 0 {
		return result, nil
	}

	var children []models.Department
	if err := s.db.WithContext(ctx).
		Where("parent_id = ?", department.ID).
		Order("id ASC").
		Find(&children).Error; err != nil {
		return DepartmentDTO{}, fmt.Errorf("load child departments: %w", err)
	}

	for _, child := range children {
		childTree, err := s.buildTree(ctx, child, depth-1)
		if err != nil {
			return DepartmentDTO{}, err
		}
		result.Children = append(result.Children, childTree)
	}

	return result, nil
}
