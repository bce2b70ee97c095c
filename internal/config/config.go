package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Redis    RedisConfig    `mapstructure:"redis_service"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UploadConfig 上传文件配置
type UploadConfig struct {
	RootDir       string `mapstructure:"root_dir"`
	MaxFileSizeMB int    `mapstructure:"max_file_size_mb"`
	MaxDocuments  int    `mapstructure:"max_documents"`
}

// GetMaxFileSize 单个文件大小上限(字节)
func (u *UploadConfig) GetMaxFileSize() int64 {
	return int64(u.MaxFileSizeMB) << 20
}

// GetMaxRequestSize 整个请求体上限: logo + 全部文档 + 1MB表单余量
func (u *UploadConfig) GetMaxRequestSize() int64 {
	return int64(u.MaxDocuments+1)*u.GetMaxFileSize() + 1<<20
}

// LogosDir logo存放目录
func (u *UploadConfig) LogosDir() string {
	return filepath.Join(u.RootDir, "logos")
}

// DocumentsDir 文档存放目录
func (u *UploadConfig) DocumentsDir() string {
	return filepath.Join(u.RootDir, "documents")
}

// RedisConfig Redis配置
// Host 为空时不启用提交并发限制
type RedisConfig struct {
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	DB                  int    `mapstructure:"db"`
	Password            string `mapstructure:"password"`
	MaxConcurrentSubmit int    `mapstructure:"max_concurrent_submits"`
	SlotTTLSeconds      int    `mapstructure:"slot_ttl_seconds"`
}

// Enabled 是否配置了Redis
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// GetSlotTTL 槽位过期时间
func (r *RedisConfig) GetSlotTTL() time.Duration {
	return time.Duration(r.SlotTTLSeconds) * time.Second
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}
