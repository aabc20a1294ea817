package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/apperror"
	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/models"
	"github.com/dimatakoy/org-demo/internal/validation"
)

func (s *DirectoryService) CreatePosition(ctx context.Context, input CreatePositionInput) (PositionDTO, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return PositionDTO{}, err
	}

	position := models.Position{Title: input.Title}
	if err := s.db.WithContext(ctx).Create(&position).Error; err != nil {
		return PositionDTO{}, mapDatabaseError(err)
	}
	return positionToDTO(position), nil
}

// EnsurePosition returns the position with the given title, creating it if needed.
func (s *DirectoryService) EnsurePosition(ctx context.Context, title string) (PositionDTO, error) {
	input := CreatePositionInput{Title: strings.TrimSpace(title)}
	if err := validation.Struct(input); err != nil {
		return PositionDTO{}, err
	}

	var position models.Position
	if err := s.db.WithContext(ctx).
		Where(models.Position{Title: input.Title}).
		FirstOrCreate(&position).Error; err != nil {
		return PositionDTO{}, mapDatabaseError(err)
	}
	return positionToDTO(position), nil
}

// CreateDepartment inserts a department under an optional parent. The parent
// must exist, so a new node can never close a cycle, and the new node may not
// sit deeper than hierarchy.MaxDepth.
func (s *DirectoryService) CreateDepartment(ctx context.Context, input CreateDepartmentInput) (DepartmentDTO, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return DepartmentDTO{}, err
	}

	var department models.Department
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parentPath := ""
		depth := 1
		if input.ParentID != nil {
			var parent models.Department
			if err := tx.Select("id", "path", "depth").First(&parent, *input.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound(apperror.EntityDepartment)
				}
				return fmt.Errorf("load parent department: %w", err)
			}

			childDepth, err := hierarchy.ChildDepth(parent.Depth)
			if err != nil {
				return apperror.Validation(map[string]string{
					"parent_id": fmt.Sprintf("department nesting is limited to %d levels", hierarchy.MaxDepth),
				})
			}
			parentPath = parent.Path
			depth = childDepth
		}

		department = models.Department{
			Title:    input.Title,
			ParentID: input.ParentID,
			Depth:    depth,
		}
		if err := tx.Create(&department).Error; err != nil {
			return mapDatabaseError(err)
		}

		department.Path = hierarchy.Path(parentPath, department.ID)
		if err := tx.Model(&department).Update("path", department.Path).Error; err != nil {
			return fmt.Errorf("store department path: %w", err)
		}
		return nil
	})
	if err != nil {
		return DepartmentDTO{}, err
	}

	return departmentToDTO(department), nil
}

func (s *DirectoryService) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error) {
	employee, err := s.prepareEmployee(ctx, s.db.WithContext(ctx), input)
	if err != nil {
		return EmployeeDTO{}, err
	}

	if err := s.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return EmployeeDTO{}, mapDatabaseError(err)
	}
	return s.GetEmployee(ctx, int64(employee.ID))
}

// BulkCreateEmployees validates every input, then inserts them in one
// transaction, batchSize rows per statement. It returns the number of rows inserted.
func (s *DirectoryService) BulkCreateEmployees(ctx context.Context, inputs []CreateEmployeeInput, batchSize int) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		return 0, apperror.Validation(map[string]string{"batch_size": "must be greater than 0"})
	}

	employees := make([]models.Employee, 0, len(inputs))
	for i, input := range inputs {
		employee, err := normalizeEmployee(input)
		if err != nil {
			return 0, fmt.Errorf("employee #%d: %w", i, err)
		}
		employees = append(employees, employee)
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&employees, batchSize).Error
	}); err != nil {
		return 0, mapDatabaseError(err)
	}
	return len(employees), nil
}

func (s *DirectoryService) DeleteEmployee(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(apperror.EntityEmployee)
	}
	return nil
}

// DeletePosition removes a position and detaches it from its employees.
func (s *DirectoryService) DeletePosition(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("position_id = ?", id).
			Update("position_id", nil).Error; err != nil {
			return fmt.Errorf("detach employees: %w", err)
		}

		result := tx.Delete(&models.Position{}, "id = ?", id)
		if result.Error != nil {
			return mapDeleteError(result.Error, apperror.EntityPosition)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(apperror.EntityPosition)
		}
		return nil
	})
}

// DeleteDepartment refuses to delete a department that still has employees
// or child departments. The check and the delete share one transaction.
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var department models.Department
		if err := tx.Select("id").First(&department, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(apperror.EntityDepartment)
			}
			return fmt.Errorf("load department: %w", err)
		}

		var employees int64
		if err := tx.Model(&models.Employee{}).Where("department_id = ?", id).Count(&employees).Error; err != nil {
			return fmt.Errorf("count department employees: %w", err)
		}
		if employees > 0 {
			return apperror.Protected(apperror.EntityDepartment,
				fmt.Sprintf("department has %d employee(s) and cannot be deleted", employees))
		}

		var children int64
		if err := tx.Model(&models.Department{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return fmt.Errorf("count child departments: %w", err)
		}
		if children > 0 {
			return apperror.Protected(apperror.EntityDepartment,
				fmt.Sprintf("department has %d child department(s) and cannot be deleted", children))
		}

		if err := tx.Delete(&models.Department{}, "id = ?", id).Error; err != nil {
			return mapDeleteError(err, apperror.EntityDepartment)
		}
		return nil
	})
}

// ListDepartmentLevels returns every department id with its depth, in id order.
func (s *DirectoryService) ListDepartmentLevels(ctx context.Context) ([]DepartmentLevel, error) {
	var departments []models.Department
	if err := s.db.WithContext(ctx).
		Select("id", "depth").
		Order("id ASC").
		Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("list department levels: %w", err)
	}

	levels := make([]DepartmentLevel, 0, len(departments))
	for _, department := range departments {
		levels = append(levels, DepartmentLevel{ID: department.ID, Depth: department.Depth})
	}
	return levels, nil
}

func (s *DirectoryService) prepareEmployee(ctx context.Context, tx *gorm.DB, input CreateEmployeeInput) (models.Employee, error) {
	employee, err := normalizeEmployee(input)
	if err != nil {
		return models.Employee{}, err
	}

	if input.PositionID != nil {
		if err := ensureExists(ctx, tx, &models.Position{}, *input.PositionID, apperror.EntityPosition); err != nil {
			return models.Employee{}, err
		}
	}
	if input.DepartmentID != nil {
		if err := ensureExists(ctx, tx, &models.Department{}, *input.DepartmentID, apperror.EntityDepartment); err != nil {
			return models.Employee{}, err
		}
	}
	return employee, nil
}

func normalizeEmployee(input CreateEmployeeInput) (models.Employee, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.MiddleName != nil {
		middle := strings.TrimSpace(*input.MiddleName)
		if middle == "" {
			input.MiddleName = nil
		} else {
			input.MiddleName = &middle
		}
	}

	if err := validation.Struct(input); err != nil {
		return models.Employee{}, err
	}

	return models.Employee{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MiddleName:   input.MiddleName,
		Amount:       *input.Amount,
		HireDate:     input.HireDate,
		PositionID:   input.PositionID,
		DepartmentID: input.DepartmentID,
	}, nil
}

func ensureExists(ctx context.Context, tx *gorm.DB, model interface{}, id uint, entity string) error {
	var count int64
	if err := tx.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s existence: %w", entity, err)
	}
	if count == 0 {
		return apperror.NotFound(entity)
	}
	return nil
}
