package repositories

import (
	"github.com/svoya-igra/gamebot/internal/models"
	"github.com/svoya-igra/gamebot/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateUser registers the Telegram user on first contact and returns
// the existing row afterwards.
func (r *UserRepository) GetOrCreateUser(id int64, username string) (*models.User, error) {
	var user models.User
	result := r.db.Where(models.User{ID: id}).
		Attrs(models.User{Username: username}).
		FirstOrCreate(&user)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get or create user")
	}
	return &user, nil
}

// GetUser retrieves a user by Telegram ID
func (r *UserRepository) GetUser(id int64) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// ApplySummary folds a finished game into the user's lifetime totals.
func (r *UserRepository) ApplySummary(userID int64, scoreDelta int, won bool) error {
	updates := map[string]interface{}{
		"score": gorm.Expr("score + ?", scoreDelta),
	}
	if won {
		updates["win_count"] = gorm.Expr("win_count + 1")
	} else {
		updates["loss_count"] = gorm.Expr("loss_count + 1")
	}

	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to apply summary")
	}
	return nil
}
