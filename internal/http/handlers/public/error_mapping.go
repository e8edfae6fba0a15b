package public

import (
	"errors"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	if errors.Is(err, service.ErrWeakPassword) {
		handlershared.RespondPasswordPolicyError(c, err)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var userProfileErrorRules = []mappedHandlerError{
	{target: service.ErrUsernameRequired, code: response.CodeBadRequest, key: "error.username_required"},
	{target: service.ErrUsernameTooLong, code: response.CodeBadRequest, key: "error.username_too_long"},
	{target: service.ErrUsernameExists, code: response.CodeConflict, key: "error.username_exists"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrPasswordMismatch, code: response.CodeBadRequest, key: "error.password_mismatch"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

var ownershipErrorRules = []mappedHandlerError{
	{target: service.ErrNotAuthor, code: response.CodeForbidden, key: "error.not_author"},
}

var articleErrorRules = []mappedHandlerError{
	{target: service.ErrArticleNotFound, code: response.CodeNotFound, key: "error.article_not_found"},
	{target: service.ErrTitleRequired, code: response.CodeBadRequest, key: "error.title_required"},
	{target: service.ErrTitleTooLong, code: response.CodeBadRequest, key: "error.title_too_long"},
	{target: service.ErrContentRequired, code: response.CodeBadRequest, key: "error.content_required"},
}

var commentErrorRules = []mappedHandlerError{
	{target: service.ErrCommentNotFound, code: response.CodeNotFound, key: "error.comment_not_found"},
	{target: service.ErrArticleNotFound, code: response.CodeNotFound, key: "error.article_not_found"},
	{target: service.ErrContentRequired, code: response.CodeBadRequest, key: "error.content_required"},
}

var pollErrorRules = []mappedHandlerError{
	{target: service.ErrQuestionNotFound, code: response.CodeNotFound, key: "error.question_not_found"},
	{target: service.ErrChoiceNotFound, code: response.CodeNotFound, key: "error.choice_not_found"},
	{target: service.ErrQuestionRequired, code: response.CodeBadRequest, key: "error.question_required"},
	{target: service.ErrQuestionTooLong, code: response.CodeBadRequest, key: "error.question_too_long"},
	{target: service.ErrChoiceTextInvalid, code: response.CodeBadRequest, key: "error.choice_text_invalid"},
}

var voteErrorRules = []mappedHandlerError{
	{target: service.ErrQuestionNotFound, code: response.CodeNotFound, key: "error.question_not_found"},
	{target: service.ErrPollClosed, code: response.CodeBadRequest, key: "error.poll_closed"},
	{target: service.ErrChoiceRequired, code: response.CodeBadRequest, key: "error.choice_required"},
	{target: service.ErrChoiceMismatch, code: response.CodeBadRequest, key: "error.choice_mismatch"},
}

func respondProfileError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, userProfileErrorRules, response.CodeInternal, fallbackKey)
}

func respondArticleError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(articleErrorRules, ownershipErrorRules), response.CodeInternal, fallbackKey)
}

func respondCommentError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(commentErrorRules, ownershipErrorRules), response.CodeInternal, fallbackKey)
}

func respondPollError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(pollErrorRules, ownershipErrorRules), response.CodeInternal, fallbackKey)
}

func respondVoteError(c *gin.Context, err error) {
	respondWithMappedError(c, err, voteErrorRules, response.CodeInternal, "error.vote_failed")
}
