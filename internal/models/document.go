package models

import (
	"time"
)

// Document 提交附带的支撑文档
type Document struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	SubmissionID uint      `gorm:"column:ps_id;not null;index:idx_docs_ps_id" json:"ps_id"`
	Filename     string    `gorm:"column:filename;size:255;not null;uniqueIndex" json:"filename"`
	OriginalName string    `gorm:"column:original_name;size:255;not null" json:"original_name"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	FileType     string    `gorm:"column:file_type;size:100" json:"file_type"`
	UploadDate   time.Time `gorm:"column:upload_date;autoCreateTime" json:"upload_date"`

	// 关联
	Submission *Submission `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "supporting_documents"
}
