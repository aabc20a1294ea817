package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dimatakoy/org-demo/internal/hierarchy"
	"github.com/dimatakoy/org-demo/internal/models"
)

func (s *DirectoryService) GetDepartmentBreadcrumbs(ctx context.Context, id int64) (BreadcrumbsDTO, error) {
	department, err := s.loadDepartment(ctx, id)
	if err != nil {
		return BreadcrumbsDTO{}, err
	}

	chain, err := s.ancestors(ctx, department)
	if err != nil {
		return BreadcrumbsDTO{}, err
	}

	items := make([]BreadcrumbDTO, 0, len(chain))
	for _, node := range chain {
		items = append(items, BreadcrumbDTO{ID: node.ID, Title: node.Title})
	}

	return BreadcrumbsDTO{
		ID:    department.ID,
		Label: hierarchy.Label(chain),
		Items: items,
	}, nil
}

// ancestors resolves the chain root..department. The materialized path lets
// the whole chain load in one query; nodes missing from it are fetched one by
// one while walking parent links.
func (s *DirectoryService) ancestors(ctx context.Context, department models.Department) ([]hierarchy.Node, error) {
	known := map[uint]hierarchy.Node{department.ID: departmentToNode(department)}

	ids, err := hierarchy.ParsePath(department.Path)
	if err == nil && len(ids) > 0 {
		var rows []models.Department
		if err := s.db.WithContext(ctx).
			Select("id", "parent_id", "title").
			Where("id IN ?", ids).
			Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("load ancestors: %w", err)
		}
		for _, row := range rows {
			known[row.ID] = departmentToNode(row)
		}
	}

	var lookupErr error
	lookup := func(id uint) (hierarchy.Node, bool) {
		if node, ok := known[id]; ok {
			return node, true
		}
		var row models.Department
		if err := s.db.WithContext(ctx).Select("id", "parent_id", "title").First(&row, id).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				lookupErr = err
			}
			return hierarchy.Node{}, false
		}
		node := departmentToNode(row)
		known[id] = node
		return node, true
	}

	chain, err := hierarchy.Ancestors(lookup, department.ID)
	if lookupErr != nil {
		return nil, fmt.Errorf("load ancestor: %w", lookupErr)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve breadcrumbs of department %d: %w", department.ID, err)
	}
	return chain, nil
}
