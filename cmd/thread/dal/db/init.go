package db

import (
	"ThreadNest.com/cmd/model"
	"ThreadNest.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init init DB
func Init() {
	var err error
	dsn := config.ConfigInfo.Mysql.Username + ":" + config.ConfigInfo.Mysql.Password + "@tcp(" + config.ConfigInfo.Mysql.Addr + ")/" + config.ConfigInfo.Mysql.Database + "?charset=utf8mb4&parseTime=True&loc=Local"
	DB, err = gorm.Open(mysql.Open(dsn),
		&gorm.Config{
			PrepareStmt:            true,
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		panic(err)
	}

	if err = migrateCommentTables(); err != nil {
		panic(err)
	}
}

func migrateCommentTables() error {
	hlog.Info("Starting comment tables migration...")

	if err := DB.AutoMigrate(&model.Comment{}); err != nil {
		hlog.Errorf("Failed to migrate comments table: %v", err)
		return err
	}

	hlog.Info("Comment tables migration completed successfully")
	return nil
}
