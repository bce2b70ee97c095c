package models

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB 打开数据库并完成表结构迁移
// 返回的句柄由调用方注入到各个Repository, 不再使用全局变量
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// 级联删除依赖外键约束, sqlite 默认关闭
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("启用外键约束失败: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Submission{},
		&Document{},
	)
}

// withForeignKeys 为连接串追加 _foreign_keys 参数, 连接池中的每个连接都会生效
func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
