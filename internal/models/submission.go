package models

import (
	"time"
)

// SubmissionStatus 审核状态
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Valid 是否为可识别的状态
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Submission 问题陈述提交
type Submission struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	OrgName          string           `gorm:"column:org_name;size:255;not null;index:idx_ps_org_name" json:"org_name"`
	SpocName         string           `gorm:"column:spoc_name;size:255;not null" json:"spoc_name"`
	SpocContact      string           `gorm:"column:spoc_contact;size:20;not null" json:"spoc_contact"`
	ContactEmail     string           `gorm:"column:contact_email;size:255;not null" json:"contact_email"`
	PSTitle          string           `gorm:"column:ps_title;size:500;not null" json:"ps_title"`
	PSDescription    string           `gorm:"column:ps_description;type:text;not null" json:"ps_description"`
	Domain           *string          `gorm:"column:domain;size:100" json:"domain"`
	DatasetLink      *string          `gorm:"column:dataset_link;size:500" json:"dataset_link"`
	LogoFilename     string           `gorm:"column:logo_filename;size:255;not null" json:"logo_filename"`
	LogoOriginalName string           `gorm:"column:logo_original_name;size:255;not null" json:"logo_original_name"`
	LogoFileSize     int64            `gorm:"column:logo_file_size;not null" json:"logo_file_size"`
	SubmissionDate   time.Time        `gorm:"column:submission_date;not null;index:idx_ps_submission_date;<-:create" json:"submission_date"`
	Status           SubmissionStatus `gorm:"column:status;size:20;not null;default:'pending';index:idx_ps_status" json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// 关联
	Documents []Document `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Submission) TableName() string {
	return "problem_statements"
}
