package dto

import (
	"strings"

	"ps-portal/internal/models"
)

// SubmitForm 提交表单的文本字段
type SubmitForm struct {
	OrgName       string `form:"orgName" validate:"required"`
	SpocName      string `form:"spocName" validate:"required"`
	SpocContact   string `form:"spocContact" validate:"required"`
	ContactEmail  string `form:"contactEmail" validate:"required"`
	PSTitle       string `form:"psTitle" validate:"required"`
	PSDescription string `form:"psDescription" validate:"required"`
	Domain        string `form:"domain"`
	DatasetLink   string `form:"datasetLink"`
}

// Normalize 去除所有字段首尾空白
func (f *SubmitForm) Normalize() {
	for _, s := range []*string{
		&f.OrgName, &f.SpocName, &f.SpocContact, &f.ContactEmail,
		&f.PSTitle, &f.PSDescription, &f.Domain, &f.DatasetLink,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// SubmitResult 提交结果
type SubmitResult struct {
	SubmissionID       uint `json:"submissionId"`
	DocumentsProcessed int  `json:"documentsProcessed"`
}

// UpdateStatusRequest 更新状态请求
type UpdateStatusRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// SubmissionSummary 列表项
type SubmissionSummary struct {
	models.Submission
	DocumentCount int64 `json:"document_count"`
}

// SubmissionDetailResponse 详情响应
type SubmissionDetailResponse struct {
	Submission models.Submission `json:"submission"`
	Documents  []models.Document `json:"documents"`
}
