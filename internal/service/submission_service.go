package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"ps-portal/internal/dto"
	"ps-portal/internal/models"
	"ps-portal/internal/utils"

	"github.com/sirupsen/logrus"
)

// SubmissionWriter 提交的写入接口
type SubmissionWriter interface {
	CreateWithDocuments(ctx context.Context, submission *models.Submission, documents []models.Document) error
}

// SubmissionService 提交服务
type SubmissionService struct {
	repo   SubmissionWriter
	intake *FileIntake
	logger *logrus.Logger
	now    func() time.Time
}

// NewSubmissionService 创建提交服务
func NewSubmissionService(repo SubmissionWriter, intake *FileIntake, logger *logrus.Logger) *SubmissionService {
	return &SubmissionService{
		repo:   repo,
		intake: intake,
		logger: logger,
		now:    time.Now,
	}
}

// Submit 校验表单、写入文件、在一个事务中保存提交与文档
// 文件全部落盘后才写数据库; 数据库失败时删除已写入的文件
func (s *SubmissionService) Submit(ctx context.Context, form dto.SubmitForm, logo *multipart.FileHeader, documents []*multipart.FileHeader) (*dto.SubmitResult, error) {
	form.Normalize()

	missing, err := utils.MissingFields(form)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Fields:  missing,
			Message: "Missing required fields: " + strings.Join(missing, ", "),
		}
	}

	plan, err := s.intake.Plan(logo, documents)
	if err != nil {
		return nil, err
	}

	if err := s.intake.Write(ctx, plan); err != nil {
		s.logger.WithError(err).Error("[Submit] 写入上传文件失败")
		return nil, &StorageError{Op: "write uploaded files", Err: err}
	}

	now := s.now()
	submission := &models.Submission{
		OrgName:          form.OrgName,
		SpocName:         form.SpocName,
		SpocContact:      form.SpocContact,
		ContactEmail:     form.ContactEmail,
		PSTitle:          form.PSTitle,
		PSDescription:    form.PSDescription,
		Domain:           optional(form.Domain),
		DatasetLink:      optional(form.DatasetLink),
		LogoFilename:     plan.Logo.StoredName,
		LogoOriginalName: plan.Logo.OriginalName,
		LogoFileSize:     plan.Logo.Size,
		SubmissionDate:   now,
		Status:           models.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	docs := make([]models.Document, 0, len(plan.Documents))
	for _, d := range plan.Documents {
		docs = append(docs, models.Document{
			Filename:     d.StoredName,
			OriginalName: d.OriginalName,
			FileSize:     d.Size,
			FileType:     d.ContentType,
			UploadDate:   now,
		})
	}

	if err := s.repo.CreateWithDocuments(ctx, submission, docs); err != nil {
		s.logger.WithError(err).Error("[Submit] 保存提交失败, 清理已写入的文件")
		s.intake.Discard(plan)
		return nil, &StorageError{Op: "save submission", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"org_name":      submission.OrgName,
		"documents":     len(docs),
		"skipped":       plan.Skipped,
	}).Info("[Submit] 提交成功")

	return &dto.SubmitResult{
		SubmissionID:       submission.ID,
		DocumentsProcessed: len(docs),
	}, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
