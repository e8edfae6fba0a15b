package service

import (
	"context"

	"github.com/palmapernia/tp-django/internal/authz"
	"github.com/palmapernia/tp-django/internal/cache"
	"github.com/palmapernia/tp-django/internal/logger"
	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"
)

// UserAdminService 后台用户管理服务
type UserAdminService struct {
	userRepo repository.UserRepository
	authz    *authz.Service
}

// NewUserAdminService 创建后台用户管理服务
func NewUserAdminService(userRepo repository.UserRepository, authzService *authz.Service) *UserAdminService {
	return &UserAdminService{userRepo: userRepo, authz: authzService}
}

// List 用户列表
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Delete 删除用户，不能删除自己
// 用户的访问记录保留但解除关联，发表的内容一并删除。
func (s *UserAdminService) Delete(operatorID, userID uint) error {
	if operatorID == userID {
		return ErrCannotDeleteSelf
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	if s.authz != nil {
		if err := s.authz.RemoveUser(userID); err != nil {
			logger.Warnw("user_authz_cleanup_failed", "user_id", userID, "error", err)
		}
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
	logger.Infow("user_deleted", "operator_id", operatorID, "user_id", userID, "username", user.Username)
	return nil
}

// GetRoles 查询用户角色
func (s *UserAdminService) GetRoles(userID uint) ([]string, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	return s.authz.GetUserRoles(userID)
}

// SetRoles 覆盖设置用户角色
func (s *UserAdminService) SetRoles(userID uint, roles []string) ([]string, error) {
	if err := s.ensureUser(userID); err != nil {
		return nil, err
	}
	if err := s.authz.SetUserRoles(userID, roles); err != nil {
		return nil, err
	}
	return s.authz.GetUserRoles(userID)
}

func (s *UserAdminService) ensureUser(userID uint) error {
	if s.authz == nil {
		return ErrForbidden
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	return nil
}
