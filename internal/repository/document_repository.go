package repository

import (
	"context"

	"ps-portal/internal/models"

	"gorm.io/gorm"
)

// DocumentRepository 文档数据访问层
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档Repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListBySubmissionID 获取提交的全部文档
func (r *DocumentRepository) ListBySubmissionID(ctx context.Context, submissionID uint) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("ps_id = ?", submissionID).
		Order("id ASC").
		Find(&documents).Error
	return documents, err
}

// CountBySubmissionID 统计提交的文档数量
func (r *DocumentRepository) CountBySubmissionID(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Document{}).Where("ps_id = ?", submissionID).Count(&count).Error
	return count, err
}
