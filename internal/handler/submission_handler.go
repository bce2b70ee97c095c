package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"ps-portal/internal/dto"
	"ps-portal/internal/service"
	"ps-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

// 文档字段名, 兼容 PHP 风格的 documents[]
var documentFields = []string{"documents", "documents[]"}

// SubmissionHandler 问题陈述提交处理器
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	queryService      *service.QueryService
}

// NewSubmissionHandler 创建提交处理器
func NewSubmissionHandler(submissionService *service.SubmissionService, queryService *service.QueryService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		queryService:      queryService,
	}
}

// Ready 上传接口探活
func (h *SubmissionHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"message":   "Upload endpoint is ready",
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
	})
}

// Submit 提交问题陈述
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var form dto.SubmitForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.BadRequest(c, "Upload is too large")
			return
		}
		utils.BadRequest(c, "Invalid form data")
		return
	}

	var logo *multipart.FileHeader
	var documents []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		if logos := mf.File["logo"]; len(logos) > 0 {
			logo = logos[0]
		}
		for _, field := range documentFields {
			documents = append(documents, mf.File[field]...)
		}
	}

	result, err := h.submissionService.Submit(c.Request.Context(), form, logo, documents)
	if err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Problem statement submitted successfully!", gin.H{
		"submissionId":       result.SubmissionID,
		"documentsProcessed": result.DocumentsProcessed,
	})
}

// ListSubmissions 获取全部提交
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	summaries, err := h.queryService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load submissions")
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetSubmission 获取提交详情
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Submission not found")
		return
	}

	detail, err := h.queryService.Get(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load submission")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStatus 更新审核状态
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Both id and status are required")
		return
	}

	if err := h.queryService.UpdateStatus(c.Request.Context(), req.ID, req.Status); err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Status updated successfully", nil)
}

// DeleteSubmission 删除提交及其文档
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		utils.NotFound(c, "Submission not found")
		return
	}

	if err := h.queryService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	utils.SuccessWithMessage(c, "Submission deleted successfully", nil)
}

// fail 将服务层错误转换为 {success:false, message}
func (h *SubmissionHandler) fail(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Message)
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, "Submission not found")
	default:
		_ = c.Error(err)
		utils.InternalError(c, "Server error: the submission could not be saved, please try again")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
