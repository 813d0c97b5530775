package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"hr-portal/domain"
)

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if err := s.db.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, translate(err, "list employees")
	}
	return employees, nil
}

func (s *Store) GetEmployee(ctx context.Context, id uint) (*domain.Employee, error) {
	var employee domain.Employee
	if err := s.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return nil, translate(err, "get employee")
	}
	return &employee, nil
}

func (s *Store) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	if employee.Status == "" {
		employee.Status = "active"
	}
	return translate(s.db.WithContext(ctx).Create(employee).Error, "create employee")
}

// CreateEmployees inserts the whole batch or nothing.
func (s *Store) CreateEmployees(ctx context.Context, employees []domain.Employee) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range employees {
			if employees[i].Status == "" {
				employees[i].Status = "active"
			}
			if err := tx.Create(&employees[i]).Error; err != nil {
				return translate(err, "bulk create employees")
			}
		}
		return nil
	})
}

func (s *Store) UpdateEmployee(ctx context.Context, id uint, update domain.EmployeeUpdate) (*domain.Employee, error) {
	cols := map[string]interface{}{}
	if update.FirstName != nil {
		cols["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		cols["last_name"] = *update.LastName
	}
	if update.Position != nil {
		cols["position"] = *update.Position
	}
	if update.Department != nil {
		cols["department"] = *update.Department
	}
	if update.Status != nil {
		cols["status"] = *update.Status
	}
	if update.ProfileImage != nil {
		cols["profile_image"] = *update.ProfileImage
	}

	if len(cols) > 0 {
		err := s.db.WithContext(ctx).Model(&domain.Employee{}).Where("id = ?", id).Updates(cols).Error
		if err != nil {
			return nil, translate(err, "update employee")
		}
	}
	return s.GetEmployee(ctx, id)
}

func (s *Store) ListLeaves(ctx context.Context, employeeID *uint) ([]domain.Leave, error) {
	q := s.db.WithContext(ctx).Order("start_date DESC, id DESC")
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}

	leaves := []domain.Leave{}
	if err := q.Find(&leaves).Error; err != nil {
		return nil, translate(err, "list leaves")
	}
	return leaves, nil
}

func (s *Store) CreateLeave(ctx context.Context, leave *domain.Leave) error {
	if leave.Status == "" {
		leave.Status = domain.LeavePending
	}
	return translate(s.db.WithContext(ctx).Create(leave).Error, "create leave")
}

func (s *Store) UpdateLeaveStatus(ctx context.Context, id uint, status domain.LeaveStatus) (*domain.Leave, error) {
	var leave domain.Leave
	if err := s.db.WithContext(ctx).First(&leave, id).Error; err != nil {
		return nil, translate(err, "get leave")
	}
	if err := s.db.WithContext(ctx).Model(&leave).Update("status", status).Error; err != nil {
		return nil, translate(err, "update leave status")
	}
	leave.Status = status
	return &leave, nil
}

func (s *Store) ListEvaluations(ctx context.Context, employeeID *uint) ([]domain.Evaluation, error) {
	q := s.db.WithContext(ctx).Order("evaluation_date DESC, id DESC")
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}

	evaluations := []domain.Evaluation{}
	if err := q.Find(&evaluations).Error; err != nil {
		return nil, translate(err, "list evaluations")
	}
	return evaluations, nil
}

func (s *Store) CreateEvaluation(ctx context.Context, evaluation *domain.Evaluation) error {
	return translate(s.db.WithContext(ctx).Create(evaluation).Error, "create evaluation")
}

func (s *Store) ListCollaborations(ctx context.Context) ([]domain.Collaboration, error) {
	collaborations := []domain.Collaboration{}
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&collaborations).Error; err != nil {
		return nil, translate(err, "list collaborations")
	}
	return collaborations, nil
}

func (s *Store) CreateCollaboration(ctx context.Context, collaboration *domain.Collaboration) error {
	return translate(s.db.WithContext(ctx).Create(collaboration).Error, "create collaboration")
}
