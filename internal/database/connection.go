package database

import (
	"fmt"
	"time"

	"github.com/svoya-igra/gamebot/internal/config"
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/internal/repositories"
	"github.com/svoya-igra/gamebot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Operations run in explicit transactions via Repository.Atomic,
		// so the per-statement wrapping is redundant.
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.GamePlayer{},
		&models.Round{},
		&models.RoundGame{},
		&models.Theme{},
		&models.Question{},
		&models.RoundTheme{},
		&models.QuestionState{},
		&models.PlayerAnswer{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedThemes loads a starter pack of themes so a fresh install has a board
// to play on. Does nothing when any theme already exists.
func SeedThemes(db *gorm.DB) error {
	themeRepo := repositories.NewThemeRepository(db)

	count, err := themeRepo.CountThemes()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding starter themes...")

	seed := map[string][]struct {
		Text      string
		Answer    string
		HardLevel int
	}{
		"История": {
			{"В каком году началась Вторая мировая война?", "1939", 1},
			{"Кто был первым императором России?", "Пётр I", 2},
			{"Как называлась столица Древней Руси до Москвы?", "Киев", 3},
		},
		"Наука": {
			{"Какой химический элемент обозначается символом O?", "Кислород", 1},
			{"Какая планета ближе всех к Солнцу?", "Меркурий", 2},
			{"Кто сформулировал теорию относительности?", "Эйнштейн", 3},
		},
		"Кино": {
			{"Кто снял фильм «Иван Васильевич меняет профессию»?", "Гайдай", 1},
			{"Как зовут капитана «Чёрной жемчужины»?", "Джек Воробей", 2},
			{"Какой фильм получил первый «Оскар» за лучший фильм?", "Крылья", 3},
		},
		"География": {
			{"Какая река самая длинная в мире?", "Нил", 1},
			{"Столица Австралии?", "Канберра", 2},
			{"Какое озеро самое глубокое на Земле?", "Байкал", 3},
		},
	}

	for title, questions := range seed {
		theme, err := themeRepo.CreateTheme(title)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if _, err := themeRepo.CreateQuestion(theme.ID, q.Text, q.Answer, q.HardLevel); err != nil {
				return err
			}
		}
	}

	logger.Info("Starter themes seeded", "themes", len(seed))
	return nil
}
