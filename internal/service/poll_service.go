package service

import (
	"strings"
	"time"

	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VoteObserver 投票观察者（指标上报）
type VoteObserver interface {
	ObserveVote()
}

// PollService 投票业务服务
type PollService struct {
	questionRepo repository.QuestionRepository
	choiceRepo   repository.ChoiceRepository
	observer     VoteObserver
	now          func() time.Time
}

// NewPollService 创建投票服务
func NewPollService(questionRepo repository.QuestionRepository, choiceRepo repository.ChoiceRepository, observer VoteObserver) *PollService {
	return &PollService{
		questionRepo: questionRepo,
		choiceRepo:   choiceRepo,
		observer:     observer,
		now:          time.Now,
	}
}

// QuestionInput 创建/更新投票输入
// Choices 为 nil 表示不修改选项；空白选项会被忽略。
type QuestionInput struct {
	QuestionText *string
	IsActive     *bool
	PubDate      *time.Time
	Choices      []string
}

// PollResult 投票结果
type PollResult struct {
	Question   *models.Question   `json:"question"`
	TotalVotes int64              `json:"total_votes"`
	Choices    []PollChoiceResult `json:"choices"`
}

// PollChoiceResult 单个选项结果
type PollChoiceResult struct {
	ID         uint            `json:"id"`
	ChoiceText string          `json:"choice_text"`
	Votes      int64           `json:"votes"`
	Percentage decimal.Decimal `json:"percentage"`
}

// List 投票列表，按发布时间倒序
func (s *PollService) List(page, pageSize int) ([]models.Question, int64, error) {
	return s.questionRepo.List(repository.QuestionListFilter{
		Page:        page,
		PageSize:    pageSize,
		WithChoices: true,
	})
}

// ListByAuthor 指定作者的投票
func (s *PollService) ListByAuthor(authorID uint, page, pageSize int) ([]models.Question, int64, error) {
	return s.questionRepo.List(repository.QuestionListFilter{
		Page:        page,
		PageSize:    pageSize,
		AuthorID:    authorID,
		WithChoices: true,
	})
}

// Latest 最新发布的投票
func (s *PollService) Latest() ([]models.Question, error) {
	return s.questionRepo.Latest(constants.PollIndexLatestLimit)
}

// Get 投票详情，包含选项
func (s *PollService) Get(id uint) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// Create 创建投票及其选项
func (s *PollService) Create(authorID uint, input QuestionInput) (*models.Question, error) {
	text, err := normalizeQuestionText(input.QuestionText, true)
	if err != nil {
		return nil, err
	}
	choices, err := normalizeChoiceTexts(input.Choices)
	if err != nil {
		return nil, err
	}
	question := &models.Question{
		QuestionText: text,
		PubDate:      s.now(),
		AuthorID:     authorID,
		IsActive:     true,
	}
	if input.PubDate != nil {
		question.PubDate = *input.PubDate
	}
	if input.IsActive != nil {
		question.IsActive = *input.IsActive
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.questionRepo.WithTx(tx).Create(question); err != nil {
			return err
		}
		_, err := s.choiceRepo.WithTx(tx).ReplaceForQuestion(question.ID, choices)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(question.ID)
}

// Update 更新投票，仅作者可操作；传入选项时整体替换
func (s *PollService) Update(userID, id uint, input QuestionInput) (*models.Question, error) {
	question, err := s.ownedQuestion(userID, id)
	if err != nil {
		return nil, err
	}
	if input.QuestionText != nil {
		text, err := normalizeQuestionText(input.QuestionText, true)
		if err != nil {
			return nil, err
		}
		question.QuestionText = text
	}
	if input.IsActive != nil {
		question.IsActive = *input.IsActive
	}
	if input.PubDate != nil {
		question.PubDate = *input.PubDate
	}
	var choices []string
	if input.Choices != nil {
		if choices, err = normalizeChoiceTexts(input.Choices); err != nil {
			return nil, err
		}
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.questionRepo.WithTx(tx).Update(question); err != nil {
			return err
		}
		if input.Choices == nil {
			return nil
		}
		_, err := s.choiceRepo.WithTx(tx).ReplaceForQuestion(question.ID, choices)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(question.ID)
}

// Delete 删除投票，仅作者可操作
func (s *PollService) Delete(userID, id uint) error {
	if _, err := s.ownedQuestion(userID, id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// ToggleStatus 切换投票开放状态，仅作者可操作
func (s *PollService) ToggleStatus(userID, id uint) (*models.Question, error) {
	question, err := s.ownedQuestion(userID, id)
	if err != nil {
		return nil, err
	}
	question.IsActive = !question.IsActive
	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// Vote 为指定选项投一票，返回更新后的选项
func (s *PollService) Vote(questionID, choiceID uint) (*models.Choice, error) {
	question, err := s.questionRepo.GetByID(questionID, false)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	if !question.IsActive {
		return nil, ErrPollClosed
	}
	if choiceID == 0 {
		return nil, ErrChoiceRequired
	}
	choice, err := s.choiceRepo.GetForQuestion(questionID, choiceID)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, ErrChoiceMismatch
	}
	if err := s.choiceRepo.IncrementVotes(choice.ID); err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer.ObserveVote()
	}
	logger.Debugw("poll_vote_recorded", "question_id", questionID, "choice_id", choiceID)

	refreshed, err := s.choiceRepo.GetByID(choice.ID)
	if err != nil {
		return nil, err
	}
	if refreshed == nil {
		return nil, ErrChoiceNotFound
	}
	return refreshed, nil
}

// Results 统计投票结果，百分比保留两位小数
func (s *PollService) Results(questionID uint) (*PollResult, error) {
	question, err := s.Get(questionID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, choice := range question.Choices {
		total += choice.Votes
	}
	result := &PollResult{
		Question:   question,
		TotalVotes: total,
		Choices:    make([]PollChoiceResult, 0, len(question.Choices)),
	}
	for _, choice := range question.Choices {
		percentage := decimal.Zero
		if total > 0 {
			percentage = decimal.NewFromInt(choice.Votes).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(total)).
				Round(2)
		}
		result.Choices = append(result.Choices, PollChoiceResult{
			ID:         choice.ID,
			ChoiceText: choice.ChoiceText,
			Votes:      choice.Votes,
			Percentage: percentage,
		})
	}
	return result, nil
}

// ListChoices 选项列表，questionID 为 0 时返回全部
func (s *PollService) ListChoices(questionID uint) ([]models.Choice, error) {
	return s.choiceRepo.ListByQuestion(questionID)
}

// CreateChoice 为投票新增选项，仅投票作者可操作
func (s *PollService) CreateChoice(userID, questionID uint, text string) (*models.Choice, error) {
	if _, err := s.ownedQuestion(userID, questionID); err != nil {
		return nil, err
	}
	text, err := normalizeChoiceText(text)
	if err != nil {
		return nil, err
	}
	choice := &models.Choice{QuestionID: questionID, ChoiceText: text}
	if err := s.choiceRepo.Create(choice); err != nil {
		return nil, err
	}
	return choice, nil
}

// UpdateChoice 修改选项文本，仅投票作者可操作
func (s *PollService) UpdateChoice(userID, choiceID uint, text string) (*models.Choice, error) {
	choice, err := s.ownedChoice(userID, choiceID)
	if err != nil {
		return nil, err
	}
	text, err = normalizeChoiceText(text)
	if err != nil {
		return nil, err
	}
	choice.ChoiceText = text
	if err := s.choiceRepo.Update(choice); err != nil {
		return nil, err
	}
	return choice, nil
}

// DeleteChoice 删除选项，仅投票作者可操作
func (s *PollService) DeleteChoice(userID, choiceID uint) error {
	if _, err := s.ownedChoice(userID, choiceID); err != nil {
		return err
	}
	return s.choiceRepo.Delete(choiceID)
}

// PublishedRecently 投票是否在最近一天内发布
func (s *PollService) PublishedRecently(question *models.Question) bool {
	return question.WasPublishedRecently(s.now())
}

func (s *PollService) ownedQuestion(userID, id uint) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	if question.AuthorID != userID {
		return nil, ErrNotAuthor
	}
	return question, nil
}

func (s *PollService) ownedChoice(userID, choiceID uint) (*models.Choice, error) {
	choice, err := s.choiceRepo.GetByID(choiceID)
	if err != nil {
		return nil, err
	}
	if choice == nil {
		return nil, ErrChoiceNotFound
	}
	if _, err := s.ownedQuestion(userID, choice.QuestionID); err != nil {
		return nil, err
	}
	return choice, nil
}

func normalizeQuestionText(text *string, required bool) (string, error) {
	value := ""
	if text != nil {
		value = strings.TrimSpace(*text)
	}
	if value == "" && required {
		return "", ErrQuestionRequired
	}
	if len([]rune(value)) > constants.QuestionTextMaxLength {
		return "", ErrQuestionTooLong
	}
	return value, nil
}

func normalizeChoiceText(text string) (string, error) {
	value := strings.TrimSpace(text)
	if value == "" || len([]rune(value)) > constants.ChoiceTextMaxLength {
		return "", ErrChoiceTextInvalid
	}
	return value, nil
}

// normalizeChoiceTexts 忽略空白选项，超长选项报错
func normalizeChoiceTexts(texts []string) ([]string, error) {
	result := make([]string, 0, len(texts))
	for _, text := range texts {
		value := strings.TrimSpace(text)
		if value == "" {
			continue
		}
		if len([]rune(value)) > constants.ChoiceTextMaxLength {
			return nil, ErrChoiceTextInvalid
		}
		result = append(result, value)
	}
	return result, nil
}
