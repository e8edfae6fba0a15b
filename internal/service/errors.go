package service

import "errors"

// 通用错误
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// 账号相关错误
var (
	ErrUsernameRequired  = errors.New("username required")
	ErrUsernameTooLong   = errors.New("username too long")
	ErrUsernameExists    = errors.New("username already exists")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUserDisabled      = errors.New("user disabled")
	ErrWeakPassword      = errors.New("weak password")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrInvalidToken      = errors.New("invalid token")
	ErrCannotDeleteSelf  = errors.New("cannot delete self")
)

// 内容相关错误
var (
	ErrTitleRequired     = errors.New("title required")
	ErrTitleTooLong      = errors.New("title too long")
	ErrContentRequired   = errors.New("content required")
	ErrArticleNotFound   = errors.New("article not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrQuestionRequired  = errors.New("question text required")
	ErrQuestionTooLong   = errors.New("question text too long")
	ErrChoiceTextInvalid = errors.New("choice text invalid")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrChoiceNotFound    = errors.New("choice not found")
	ErrChoiceRequired    = errors.New("choice id required")
	ErrChoiceMismatch    = errors.New("choice does not belong to question")
	ErrPollClosed        = errors.New("poll is closed")
	ErrNotAuthor         = errors.New("only the author may modify this resource")
)

// 访问统计相关错误
var (
	ErrResetNotConfirmed = errors.New("reset requires confirmation")
)
