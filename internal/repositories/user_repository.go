package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradematch_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error

	// Upsert сохраняет снимок пользователя от провайдера идентификации.
	// Для существующей строки обновляются только columns (см. SnapshotColumns).
	Upsert(db *gorm.DB, user *models.User, columns []string) error

	UpdateABN(db *gorm.DB, userID, abn string) error
	UpdateVerification(db *gorm.DB, userID string, v models.Verification) error
	UpdatePlan(db *gorm.DB, userID string, plan models.PlanID, status models.SubscriptionStatus) error
	SetAdminByEmail(db *gorm.DB, email string) (bool, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) Upsert(db *gorm.DB, user *models.User, columns []string) error {
	return db.Clauses(snapshotConflict(columns)).Create(user).Error
}

func snapshotConflict(columns []string) clause.OnConflict {
	updates := append(append([]string{}, columns...), "updated_at")
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}
}

// UpdateABN сохраняет новый номер и переводит проверку в pending
func (r *UserRepositoryImpl) UpdateABN(db *gorm.DB, userID, abn string) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"abn_number":      abn,
			"abn_status":      models.VerificationPending,
			"abn_verified":    false,
			"abn_verified_at": nil,
			"abn_verified_by": nil,
			"abn_reviewed_at": nil,
			"abn_reviewed_by": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateVerification пишет все поля проверки разом, включая nil.
// Поэтому здесь map, а не структура: gorm пропускает нулевые поля структуры.
func (r *UserRepositoryImpl) UpdateVerification(db *gorm.DB, userID string, v models.Verification) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"abn_status":      v.Status,
			"abn_verified":    v.Verified,
			"abn_verified_at": v.VerifiedAt,
			"abn_verified_by": v.VerifiedBy,
			"abn_reviewed_at": v.ReviewedAt,
			"abn_reviewed_by": v.ReviewedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePlan(db *gorm.DB, userID string, plan models.PlanID, status models.SubscriptionStatus) error {
	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"plan_id":             plan,
			"subscription_status": status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetAdminByEmail - используется только при старте (первый администратор).
// Возвращает false, если пользователя с таким email еще нет.
func (r *UserRepositoryImpl) SetAdminByEmail(db *gorm.DB, email string) (bool, error) {
	result := db.Model(&models.User{}).
		Where("email = ?", email).
		Update("is_admin", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
