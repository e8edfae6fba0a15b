package repository

import (
	"errors"

	"github.com/palmapernia/tp-django/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepository 投票问题数据访问接口
type QuestionRepository interface {
	WithTx(tx *gorm.DB) QuestionRepository
	List(filter QuestionListFilter) ([]models.Question, int64, error)
	Latest(limit int) ([]models.Question, error)
	GetByID(id uint, withChoices bool) (*models.Question, error)
	Create(question *models.Question) error
	Update(question *models.Question) error
	Delete(id uint) error
	Count() (int64, error)
}

// ChoiceRepository 投票选项数据访问接口
type ChoiceRepository interface {
	WithTx(tx *gorm.DB) ChoiceRepository
	ListByQuestion(questionID uint) ([]models.Choice, error)
	GetByID(id uint) (*models.Choice, error)
	GetForQuestion(questionID, choiceID uint) (*models.Choice, error)
	Create(choice *models.Choice) error
	Update(choice *models.Choice) error
	Delete(id uint) error
	ReplaceForQuestion(questionID uint, texts []string) ([]models.Choice, error)
	IncrementVotes(choiceID uint) error
}

// GormQuestionRepository GORM 实现
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository 创建投票问题仓库
func NewQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormQuestionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	if tx == nil {
		return r
	}
	return &GormQuestionRepository{db: tx}
}

// List 投票列表，按发布时间倒序
func (r *GormQuestionRepository) List(filter QuestionListFilter) ([]models.Question, int64, error) {
	query := r.db.Model(&models.Question{})
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	page := listPage{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Order:    "pub_date DESC, id DESC",
		Preloads: []func(*gorm.DB) *gorm.DB{preload("Author")},
	}
	if filter.WithChoices {
		page.Preloads = append(page.Preloads, preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}))
	}
	return findPage[models.Question](query, page)
}

// Latest 最近发布的若干投票
func (r *GormQuestionRepository) Latest(limit int) ([]models.Question, error) {
	var questions []models.Question
	query := r.db.Model(&models.Question{}).Preload("Author").Order("pub_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// GetByID 根据 ID 获取投票
func (r *GormQuestionRepository) GetByID(id uint, withChoices bool) (*models.Question, error) {
	query := r.db.Preload("Author")
	if withChoices {
		query = query.Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
	}
	var question models.Question
	if err := query.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

// Create 创建投票
func (r *GormQuestionRepository) Create(question *models.Question) error {
	return r.db.Omit(clause.Associations).Create(question).Error
}

// Update 更新投票
func (r *GormQuestionRepository) Update(question *models.Question) error {
	return r.db.Omit(clause.Associations).Save(question).Error
}

// Delete 删除投票及其选项
func (r *GormQuestionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// Count 投票总数
func (r *GormQuestionRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GormChoiceRepository GORM 实现
type GormChoiceRepository struct {
	db *gorm.DB
}

// NewChoiceRepository 创建投票选项仓库
func NewChoiceRepository(db *gorm.DB) *GormChoiceRepository {
	return &GormChoiceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormChoiceRepository) WithTx(tx *gorm.DB) ChoiceRepository {
	if tx == nil {
		return r
	}
	return &GormChoiceRepository{db: tx}
}

// ListByQuestion 获取某个投票的选项，questionID 为 0 时返回全部
func (r *GormChoiceRepository) ListByQuestion(questionID uint) ([]models.Choice, error) {
	query := r.db.Model(&models.Choice{})
	if questionID != 0 {
		query = query.Where("question_id = ?", questionID)
	}
	var choices []models.Choice
	if err := query.Order("id ASC").Find(&choices).Error; err != nil {
		return nil, err
	}
	return choices, nil
}

// GetByID 根据 ID 获取选项
func (r *GormChoiceRepository) GetByID(id uint) (*models.Choice, error) {
	var choice models.Choice
	if err := r.db.First(&choice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &choice, nil
}

// GetForQuestion 获取属于指定投票的选项
func (r *GormChoiceRepository) GetForQuestion(questionID, choiceID uint) (*models.Choice, error) {
	var choice models.Choice
	if err := r.db.Where("id = ? AND question_id = ?", choiceID, questionID).First(&choice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &choice, nil
}

// Create 创建选项
func (r *GormChoiceRepository) Create(choice *models.Choice) error {
	return r.db.Omit(clause.Associations).Create(choice).Error
}

// Update 更新选项文本（票数只能通过 IncrementVotes 修改）
func (r *GormChoiceRepository) Update(choice *models.Choice) error {
	return r.db.Model(&models.Choice{}).
		Where("id = ?", choice.ID).
		UpdateColumn("choice_text", choice.ChoiceText).Error
}

// Delete 删除选项
func (r *GormChoiceRepository) Delete(id uint) error {
	return r.db.Delete(&models.Choice{}, id).Error
}

// ReplaceForQuestion 删除旧选项并按顺序写入新选项
func (r *GormChoiceRepository) ReplaceForQuestion(questionID uint, texts []string) ([]models.Choice, error) {
	if err := r.db.Where("question_id = ?", questionID).Delete(&models.Choice{}).Error; err != nil {
		return nil, err
	}
	choices := make([]models.Choice, 0, len(texts))
	for _, text := range texts {
		choices = append(choices, models.Choice{QuestionID: questionID, ChoiceText: text})
	}
	if len(choices) == 0 {
		return choices, nil
	}
	if err := r.db.Omit(clause.Associations).Create(&choices).Error; err != nil {
		return nil, err
	}
	return choices, nil
}

// IncrementVotes 原子累加票数
func (r *GormChoiceRepository) IncrementVotes(choiceID uint) error {
	result := r.db.Model(&models.Choice{}).
		Where("id = ?", choiceID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
