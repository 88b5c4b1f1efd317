package repositories

import (
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"gorm.io/gorm"
)

// ThemeRepository is the content boundary the admin tooling writes through:
// the themes and questions it creates are what rounds sample from.
type ThemeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

func (r *ThemeRepository) CreateTheme(title string) (*models.Theme, error) {
	theme := &models.Theme{Title: title}
	if err := r.db.Create(theme).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create theme")
	}
	return theme, nil
}

func (r *ThemeRepository) GetThemeByTitle(title string) (*models.Theme, error) {
	var theme models.Theme
	result := r.db.Where("title = ?", title).First(&theme)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get theme")
	}

	return &theme, nil
}

func (r *ThemeRepository) ListThemes() ([]models.Theme, error) {
	var themes []models.Theme
	result := r.db.Order("id ASC").Find(&themes)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list themes")
	}
	return themes, nil
}

func (r *ThemeRepository) CountThemes() (int64, error) {
	var count int64
	result := r.db.Model(&models.Theme{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count themes")
	}
	return count, nil
}

func (r *ThemeRepository) CreateQuestion(themeID uint, text, answer string, hardLevel int) (*models.Question, error) {
	question := &models.Question{
		Text:      text,
		Answer:    answer,
		HardLevel: hardLevel,
		ThemeID:   themeID,
	}
	if err := r.db.Create(question).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create question")
	}
	return question, nil
}

func (r *ThemeRepository) ListQuestionsByTheme(themeID uint) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.Where("theme_id = ?", themeID).
		Order("hard_level ASC").
		Find(&questions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list questions")
	}
	return questions, nil
}
