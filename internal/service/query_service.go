package service

import (
	"context"
	"errors"
	"time"

	"ps-portal/internal/dto"
	"ps-portal/internal/models"
	"ps-portal/internal/repository"
	"ps-portal/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SubmissionReader 提交的查询与管理接口
type SubmissionReader interface {
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	ListWithDocumentCount(ctx context.Context) ([]repository.SubmissionWithCount, error)
	UpdateStatus(ctx context.Context, id uint, status models.SubmissionStatus, at time.Time) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

// DocumentReader 文档查询接口
type DocumentReader interface {
	ListBySubmissionID(ctx context.Context, submissionID uint) ([]models.Document, error)
}

// QueryService 提交查询服务
type QueryService struct {
	submissions SubmissionReader
	documents   DocumentReader
	store       BlobStore
	logger      *logrus.Logger
	now         func() time.Time
}

// NewQueryService 创建查询服务
func NewQueryService(submissions SubmissionReader, documents DocumentReader, store BlobStore, logger *logrus.Logger) *QueryService {
	return &QueryService{
		submissions: submissions,
		documents:   documents,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// List 获取全部提交, 最新的在前
func (s *QueryService) List(ctx context.Context) ([]dto.SubmissionSummary, error) {
	rows, err := s.submissions.ListWithDocumentCount(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list submissions", Err: err}
	}

	summaries := make([]dto.SubmissionSummary, len(rows))
	for i, row := range rows {
		summaries[i] = dto.SubmissionSummary{
			Submission:    row.Submission,
			DocumentCount: row.DocumentCount,
		}
	}
	return summaries, nil
}

// Get 获取提交详情及其文档
func (s *QueryService) Get(ctx context.Context, id uint) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	documents, err := s.documents.ListBySubmissionID(ctx, id)
	if err != nil {
		return nil, &StorageError{Op: "list documents", Err: err}
	}
	if documents == nil {
		documents = []models.Document{}
	}

	return &dto.SubmissionDetailResponse{
		Submission: *submission,
		Documents:  documents,
	}, nil
}

// UpdateStatus 更新审核状态
func (s *QueryService) UpdateStatus(ctx context.Context, id uint, status string) error {
	st := models.SubmissionStatus(status)
	if !st.Valid() {
		return &ValidationError{
			Fields:  []string{"status"},
			Message: "Invalid status. Allowed values: pending, approved, rejected",
		}
	}

	affected, err := s.submissions.UpdateStatus(ctx, id, st, s.now())
	if err != nil {
		return &StorageError{Op: "update status", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"status":        st,
	}).Info("[UpdateStatus] 状态已更新")
	return nil
}

// Delete 删除提交, 文档记录级联删除, 之后清理磁盘文件
func (s *QueryService) Delete(ctx context.Context, id uint) error {
	submission, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	documents, err := s.documents.ListBySubmissionID(ctx, id)
	if err != nil {
		return &StorageError{Op: "list documents", Err: err}
	}

	affected, err := s.submissions.Delete(ctx, id)
	if err != nil {
		return &StorageError{Op: "delete submission", Err: err}
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.removeFile(storage.AreaLogos, submission.LogoFilename)
	for _, doc := range documents {
		s.removeFile(storage.AreaDocuments, doc.Filename)
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": id,
		"documents":     len(documents),
	}).Info("[Delete] 提交已删除")
	return nil
}

func (s *QueryService) find(ctx context.Context, id uint) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get submission", Err: err}
	}
	return submission, nil
}

func (s *QueryService) removeFile(area storage.Area, name string) {
	if err := s.store.Remove(area, name); err != nil {
		s.logger.WithError(err).WithField("stored_name", name).Warn("[Delete] 删除文件失败")
	}
}
