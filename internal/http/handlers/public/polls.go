package public

import (
	"time"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// QuestionRequest 投票创建/更新请求
// choices 缺省时更新不修改选项。
type QuestionRequest struct {
	QuestionText *string    `json:"question_text"`
	IsActive     *bool      `json:"is_active"`
	PubDate      *time.Time `json:"pub_date"`
	Choices      []string   `json:"choices"`
}

// VoteRequest 投票请求
type VoteRequest struct {
	ChoiceID uint `json:"choice_id"`
}

// ChoiceRequest 选项创建请求
type ChoiceRequest struct {
	Question   uint   `json:"question" binding:"required"`
	ChoiceText string `json:"choice_text"`
}

// ChoiceUpdateRequest 选项修改请求
type ChoiceUpdateRequest struct {
	ChoiceText string `json:"choice_text"`
}

func (r QuestionRequest) toInput() service.QuestionInput {
	return service.QuestionInput{
		QuestionText: r.QuestionText,
		IsActive:     r.IsActive,
		PubDate:      r.PubDate,
		Choices:      r.Choices,
	}
}

// ListQuestions 投票列表，按发布时间倒序
func (h *Handler) ListQuestions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	questions, total, err := h.PollService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.question_fetch_failed", err)
		return
	}
	response.Page(c, questions, page, pageSize, total)
}

// GetQuestion 投票详情（含选项）
func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	question, err := h.PollService.Get(id)
	if err != nil {
		respondPollError(c, err, "error.question_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"question":               question,
		"was_published_recently": h.PollService.PublishedRecently(question),
	})
}

// CreateQuestion 创建投票，空白选项忽略
func (h *Handler) CreateQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	question, err := h.PollService.Create(userID, req.toInput())
	if err != nil {
		respondPollError(c, err, "error.question_save_failed")
		return
	}
	response.Success(c, question)
}

// UpdateQuestion 修改投票，仅作者
func (h *Handler) UpdateQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	question, err := h.PollService.Update(userID, id, req.toInput())
	if err != nil {
		respondPollError(c, err, "error.question_save_failed")
		return
	}
	response.Success(c, question)
}

// DeleteQuestion 删除投票，仅作者
func (h *Handler) DeleteQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	if err := h.PollService.Delete(userID, id); err != nil {
		respondPollError(c, err, "error.question_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ToggleQuestion 切换投票开放状态，仅作者
func (h *Handler) ToggleQuestion(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	question, err := h.PollService.ToggleStatus(userID, id)
	if err != nil {
		respondPollError(c, err, "error.question_save_failed")
		return
	}
	response.Success(c, question)
}

// VoteQuestion 投票
func (h *Handler) VoteQuestion(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	var req VoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	choice, err := h.PollService.Vote(id, req.ChoiceID)
	if err != nil {
		respondVoteError(c, err)
		return
	}
	response.Success(c, choice)
}

// GetQuestionResults 投票结果
func (h *Handler) GetQuestionResults(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.question_id_invalid")
	if !ok {
		return
	}
	result, err := h.PollService.Results(id)
	if err != nil {
		respondPollError(c, err, "error.question_fetch_failed")
		return
	}
	response.Success(c, result)
}

// ListChoices 选项列表，可按投票过滤
func (h *Handler) ListChoices(c *gin.Context) {
	questionID, err := handlershared.ParseUintQuery(c, "question")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.question_id_invalid", err)
		return
	}
	choices, err := h.PollService.ListChoices(questionID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.choice_fetch_failed", err)
		return
	}
	response.Success(c, choices)
}

// CreateChoice 新增选项，仅投票作者
func (h *Handler) CreateChoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	choice, err := h.PollService.CreateChoice(userID, req.Question, req.ChoiceText)
	if err != nil {
		respondPollError(c, err, "error.choice_save_failed")
		return
	}
	response.Success(c, choice)
}

// UpdateChoice 修改选项，仅投票作者
func (h *Handler) UpdateChoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.choice_id_invalid")
	if !ok {
		return
	}
	var req ChoiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	choice, err := h.PollService.UpdateChoice(userID, id, req.ChoiceText)
	if err != nil {
		respondPollError(c, err, "error.choice_save_failed")
		return
	}
	response.Success(c, choice)
}

// DeleteChoice 删除选项，仅投票作者
func (h *Handler) DeleteChoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id", "error.choice_id_invalid")
	if !ok {
		return
	}
	if err := h.PollService.DeleteChoice(userID, id); err != nil {
		respondPollError(c, err, "error.choice_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
