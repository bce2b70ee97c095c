package repository

import (
	"context"
	"time"

	"ps-portal/internal/models"

	"gorm.io/gorm"
)

// SubmissionWithCount 列表项: 提交记录 + 文档数量
type SubmissionWithCount struct {
	models.Submission
	DocumentCount int64 `gorm:"column:document_count"`
}

// SubmissionRepository 提交数据访问层
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository 创建提交Repository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// CreateWithDocuments 在同一事务中写入提交及其文档
func (r *SubmissionRepository) CreateWithDocuments(ctx context.Context, submission *models.Submission, documents []models.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Documents").Create(submission).Error; err != nil {
			return err
		}
		if len(documents) == 0 {
			return nil
		}
		for i := range documents {
			documents[i].SubmissionID = submission.ID
		}
		return tx.Create(&documents).Error
	})
}

// GetByID 根据ID获取提交
func (r *SubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListWithDocumentCount 获取全部提交及文档数量, 按提交时间倒序
func (r *SubmissionRepository) ListWithDocumentCount(ctx context.Context) ([]SubmissionWithCount, error) {
	var rows []SubmissionWithCount
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("problem_statements.*, COUNT(supporting_documents.id) AS document_count").
		Joins("LEFT JOIN supporting_documents ON supporting_documents.ps_id = problem_statements.id").
		Group("problem_statements.id").
		Order("problem_statements.submission_date DESC, problem_statements.id DESC").
		Scan(&rows).Error
	return rows, err
}

// UpdateStatus 更新状态并刷新更新时间, 返回受影响行数
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uint, status models.SubmissionStatus, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// Delete 删除提交, 文档由外键级联删除
func (r *SubmissionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Submission{}, id)
	return result.RowsAffected, result.Error
}
