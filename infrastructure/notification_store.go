package infrastructure

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hr-portal/domain"
)

func (s *Store) ListNotifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	notifications := []domain.Notification{}
	if err := q.Find(&notifications).Error; err != nil {
		return nil, translate(err, "list notifications")
	}
	return notifications, nil
}

func (s *Store) CreateNotifications(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	now := time.Now()
	for i := range notifications {
		notifications[i].IsRead = false
		if notifications[i].CreatedAt.IsZero() {
			notifications[i].CreatedAt = now
		}
	}
	return translate(s.db.WithContext(ctx).Create(&notifications).Error, "create notifications")
}

func (s *Store) MarkNotificationRead(ctx context.Context, id uint) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, translate(err, "get notification")
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, translate(err, "mark notification read")
	}
	n.IsRead = true
	return &n, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Notification{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete notification")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete notification")
	}
	return nil
}

// HRStats aggregates the snapshot used for insight generation.
func (s *Store) HRStats(ctx context.Context) (*domain.HRStats, error) {
	db := s.db.WithContext(ctx)
	stats := &domain.HRStats{DepartmentDistribution: map[string]int{}}

	var departments []struct {
		Department string
		Total      int
	}
	err := db.Model(&domain.Employee{}).
		Select("department, COUNT(*) AS total").
		Group("department").
		Scan(&departments).Error
	if err != nil {
		return nil, translate(err, "department distribution")
	}
	for _, d := range departments {
		stats.DepartmentDistribution[d.Department] = d.Total
		stats.EmployeeCount += d.Total
	}

	counts := []struct {
		model interface{}
		where string
		args  []interface{}
		dst   *int
	}{
		{&domain.Leave{}, "status = ?", []interface{}{domain.LeavePending}, &stats.PendingLeaves},
		{&domain.Resume{}, "", nil, &stats.RecruitmentPipeline},
		{&domain.Resume{}, "status = ?", []interface{}{domain.ResumeStatusProcessed}, &stats.ProcessedResumes},
		{&domain.Resume{}, "status = ?", []interface{}{domain.ResumeStatusError}, &stats.FailedResumes},
		{&domain.JobListing{}, "status = ?", []interface{}{domain.JobListingActive}, &stats.OpenJobListings},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return nil, translate(err, "hr stats count")
		}
		*c.dst = int(n)
	}

	var avg float64
	row := db.Model(&domain.Evaluation{}).Select("COALESCE(AVG(performance), 0)").Row()
	if err := row.Scan(&avg); err != nil {
		return nil, translate(err, "average performance")
	}
	stats.AveragePerformance = avg

	return stats, nil
}
