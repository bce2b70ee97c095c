package service

import (
	"errors"
	"fmt"
)

// ErrNotFound 提交不存在
var ErrNotFound = errors.New("submission not found")

// ValidationError 客户端输入错误, Message 可直接返回给调用方
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StorageError 磁盘或数据库失败, Err 只用于日志, 不返回给调用方
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
