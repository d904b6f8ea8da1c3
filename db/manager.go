package db

import (
	"context"
	"fmt"
	"log"

	"filmorate/config"
	"filmorate/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var ORM *gorm.DB

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

func ConnectDB() (err error) {
	if ORM != nil {
		log.Println("ORM is already initialized")
		return nil
	}

	var conf = config.AppConfig
	if conf == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	var dialector gorm.Dialector
	replicaDSNs := make([]gorm.Dialector, 0, len(conf.Databases.Replicas))
	switch conf.Databases.Driver {
	case "sqlite":
		dialector = sqlite.Open(conf.Databases.SQLitePath)
	case "postgres":
		if conf.Databases.Master.Host == "" {
			return fmt.Errorf("Master database configuration is missing")
		}
		dialector = postgres.Open(dsnFromConfig(conf.Databases.Master))
		for _, r := range conf.Databases.Replicas {
			replicaDSNs = append(replicaDSNs, postgres.Open(dsnFromConfig(r)))
		}
	default:
		return fmt.Errorf("unsupported database driver %q", conf.Databases.Driver)
	}

	database, err := Open(dialector)
	if err != nil {
		return err
	}

	if len(replicaDSNs) > 0 {
		err = database.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicaDSNs,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return
		}
		log.Printf("Registered %d read replicas", len(replicaDSNs))
	}

	if err = Migrate(database); err != nil {
		return err
	}

	ORM = database
	return nil
}

// Open открывает соединение с общими для всех драйверов настройками
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	database, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		// sqlite не умеет блокировать строки, поэтому все записи идут через одно соединение
		sqlDB, err := database.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return database, nil
}

// Migrate создаёт схему и применяет миграции с данными
func Migrate(database *gorm.DB) error {
	if err := database.SetupJoinTable(&models.Film{}, "Genres", &models.FilmGenre{}); err != nil {
		return fmt.Errorf("failed to setup film_genres: %w", err)
	}
	if err := database.SetupJoinTable(&models.Film{}, "Directors", &models.FilmDirector{}); err != nil {
		return fmt.Errorf("failed to setup film_directors: %w", err)
	}

	err := database.AutoMigrate(
		&models.Migration{},
		&models.User{},
		&models.Friend{},
		&models.MpaRating{},
		&models.Genre{},
		&models.Director{},
		&models.Film{},
		&models.FilmGenre{},
		&models.FilmDirector{},
		&models.FilmLike{},
		&models.Review{},
		&models.ReviewReaction{},
		&models.Event{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return RunMigrations(database)
}

func Close() error {
	if ORM == nil {
		return nil
	}
	sqlDB, err := ORM.DB()
	if err != nil {
		return err
	}
	ORM = nil
	return sqlDB.Close()
}

// GetReadOnlyDB возвращает подключение для чтения (реплики).
// Это сессия: каждый запрос, построенный от неё, начинается с чистого Statement
func GetReadOnlyDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Read).Session(&gorm.Session{})
}

// GetWriteDB возвращает подключение для записи (мастер)
func GetWriteDB(ctx context.Context) *gorm.DB {
	return ORM.WithContext(ctx).Clauses(dbresolver.Write).Session(&gorm.Session{})
}
