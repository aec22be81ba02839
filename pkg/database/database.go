package database

import (
	"fmt"
	"log"
	"quiz_event_backend/internal/config"
	"quiz_event_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 作答去重依赖唯一索引，必须把驱动的 duplicate-key 翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Period{},
		&model.Question{},
		&model.Choice{},
		&model.PeriodQuestion{},
		&model.QuizControl{},
		&model.QuestionDisplay{},
		&model.Answer{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
