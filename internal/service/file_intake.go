package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"ps-portal/internal/storage"
	"ps-portal/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// writeConcurrency 单次提交同时写入的文件数
const writeConcurrency = 4

// BlobStore 上传文件存储
type BlobStore interface {
	Save(area storage.Area, name string, src io.Reader) (int64, error)
	Remove(area storage.Area, name string) error
}

// UploadedFile 一个已接受的上传文件
type UploadedFile struct {
	Area         storage.Area
	StoredName   string
	OriginalName string
	Size         int64
	ContentType  string

	header *multipart.FileHeader
}

// IntakePlan 校验通过、等待写入的文件集合
type IntakePlan struct {
	Logo      UploadedFile
	Documents []UploadedFile
	// Skipped 被跳过的文档数(扩展名不允许、超过大小上限或为空)
	Skipped int
}

func (p *IntakePlan) files() []*UploadedFile {
	out := make([]*UploadedFile, 0, len(p.Documents)+1)
	out = append(out, &p.Logo)
	for i := range p.Documents {
		out = append(out, &p.Documents[i])
	}
	return out
}

// FileIntake 上传文件的校验与落盘
type FileIntake struct {
	store        BlobStore
	maxFileSize  int64
	maxDocuments int
	logger       *logrus.Logger
	now          func() time.Time
}

// NewFileIntake 创建文件接收器
func NewFileIntake(store BlobStore, maxFileSize int64, maxDocuments int, logger *logrus.Logger) *FileIntake {
	return &FileIntake{
		store:        store,
		maxFileSize:  maxFileSize,
		maxDocuments: maxDocuments,
		logger:       logger,
		now:          time.Now,
	}
}

// MaxFileSize 单文件大小上限
func (f *FileIntake) MaxFileSize() int64 {
	return f.maxFileSize
}

// Plan 校验logo与文档并生成存储文件名, 不产生任何磁盘写入
// logo 缺失、类型不允许或超限返回 ValidationError; 不合格的文档被跳过
func (f *FileIntake) Plan(logo *multipart.FileHeader, documents []*multipart.FileHeader) (*IntakePlan, error) {
	if logo == nil || logo.Filename == "" || logo.Size == 0 {
		return nil, newValidationError("Organization logo is required")
	}
	logoExt, ok := utils.AllowedExtension(logo.Filename, utils.LogoExtensions)
	if !ok {
		return nil, newValidationError("Invalid logo file type. Only JPG, PNG, and GIF are allowed.")
	}
	if logo.Size > f.maxFileSize {
		return nil, newValidationError("Organization logo exceeds the %dMB size limit", f.maxFileSize>>20)
	}
	if len(documents) > f.maxDocuments {
		return nil, newValidationError("At most %d supporting documents are allowed", f.maxDocuments)
	}

	now := f.now()
	plan := &IntakePlan{
		Logo: UploadedFile{
			Area:         storage.AreaLogos,
			StoredName:   utils.GenerateStoredFilename("logo", logoExt, now),
			OriginalName: logo.Filename,
			Size:         logo.Size,
			ContentType:  logo.Header.Get("Content-Type"),
			header:       logo,
		},
	}

	for _, doc := range documents {
		if doc == nil || doc.Filename == "" || doc.Size == 0 {
			plan.Skipped++
			continue
		}
		ext, ok := utils.AllowedExtension(doc.Filename, utils.DocumentExtensions)
		if !ok || doc.Size > f.maxFileSize {
			f.logger.WithFields(logrus.Fields{
				"original_name": doc.Filename,
				"size":          doc.Size,
			}).Info("[Intake] 跳过不符合要求的文档")
			plan.Skipped++
			continue
		}
		plan.Documents = append(plan.Documents, UploadedFile{
			Area:         storage.AreaDocuments,
			StoredName:   utils.GenerateStoredFilename("doc", ext, now),
			OriginalName: doc.Filename,
			Size:         doc.Size,
			ContentType:  utils.DetectContentType(doc.Header.Get("Content-Type"), openHeader(doc)),
			header:       doc,
		})
	}

	return plan, nil
}

// Write 并发写入计划中的全部文件, 全部成功且已落盘后返回
// 任一文件失败时删除已写入的文件并返回错误
func (f *FileIntake) Write(ctx context.Context, plan *IntakePlan) error {
	files := plan.files()
	written := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(writeConcurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := file.header.Open()
			if err != nil {
				return fmt.Errorf("打开上传文件失败: %w", err)
			}
			defer src.Close()

			n, err := f.store.Save(file.Area, file.StoredName, src)
			if err != nil {
				return err
			}
			file.Size = n
			written[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i, file := range files {
			if written[i] {
				f.remove(file)
			}
		}
		return err
	}
	return nil
}

// Discard 删除计划中已写入的全部文件, 用于数据库写入失败后的补偿
func (f *FileIntake) Discard(plan *IntakePlan) {
	for _, file := range plan.files() {
		f.remove(file)
	}
}

func (f *FileIntake) remove(file *UploadedFile) {
	if err := f.store.Remove(file.Area, file.StoredName); err != nil {
		f.logger.WithError(err).WithField("stored_name", file.StoredName).Warn("[Intake] 清理文件失败")
	}
}

func openHeader(h *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return h.Open()
	}
}
