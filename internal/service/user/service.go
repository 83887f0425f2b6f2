// Package user 用户业务逻辑：注册、登录、凭证校验、公开信息查询
package user

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"nova_chat_server/internal/dao/mysql/repository"
	myredis "nova_chat_server/internal/dao/redis"
	"nova_chat_server/internal/dto/request"
	"nova_chat_server/internal/dto/respond"
	"nova_chat_server/internal/model"
	"nova_chat_server/pkg/constants"
	"nova_chat_server/pkg/enum/user_info/gender_enum"
	"nova_chat_server/pkg/errorx"
	"nova_chat_server/pkg/util/jwt"
)

// userInfoCacheKey 用户公开信息缓存键
func userInfoCacheKey(userId int64) string {
	return "user_info_" + strconv.FormatInt(userId, 10)
}

// userService 用户业务逻辑实现
type userService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewUserService 构造函数
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService) *userService {
	return &userService{repos: repos, cache: cache}
}

// Register 用户注册
func (u *userService) Register(req *request.RegisterRequest) (*respond.RegisterRespond, error) {
	// 1. 用户名查重
	_, err := u.repos.User.FindByUsername(req.Username)
	if err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "用户名已存在")
	}
	if !errorx.IsNotFound(err) {
		zap.L().Error("register find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 2. 密码哈希
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("bcrypt error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 3. 落库，性别默认未知，签名默认占位语
	user := &model.UserInfo{
		Username: req.Username,
		Password: string(hashed),
		Nickname: req.Nickname,
		Email:    req.Email,
		Gender:   gender_enum.UNKNOWN,
		Slogan:   constants.DEFAULT_SLOGAN,
	}
	if err := u.repos.User.Create(user); err != nil {
		if errorx.IsCode(err, errorx.CodeConflict) {
			return nil, errorx.New(errorx.CodeUserExist, "用户名已存在")
		}
		zap.L().Error("register create user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.RegisterRespond{
		UserId:   int64(user.ID),
		Username: user.Username,
		Nickname: user.Nickname,
	}, nil
}

// Login 用户登录，校验密码后签发双令牌
func (u *userService) Login(req *request.LoginRequest) (*respond.LoginRespond, error) {
	// 1. 查用户
	user, err := u.repos.User.FindByUsername(req.Username)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("login find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errorx.New(errorx.CodeInvalidAuth, "用户名或密码错误")
	}

	// 3. 签发令牌
	accessToken, err := jwt.GenerateAccessToken(int64(user.ID), user.Username)
	if err != nil {
		zap.L().Error("generate access token error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, _, err := jwt.GenerateRefreshToken(int64(user.ID), user.Username)
	if err != nil {
		zap.L().Error("generate refresh token error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.LoginRespond{
		UserId:       int64(user.ID),
		Username:     user.Username,
		Nickname:     user.Nickname,
		Avatar:       user.Avatar,
		Email:        user.Email,
		Gender:       user.Gender,
		Slogan:       user.Slogan,
		CreatedAt:    user.CreatedAt.Format("2006-01-02 15:04:05"),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Verify 校验访问令牌，网关建连鉴权用
func (u *userService) Verify(token string) (int64, string, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return 0, "", err
	}
	return claims.UserID, claims.Username, nil
}

// GetPublicInfo 查询单个用户的公开信息，带缓存
func (u *userService) GetPublicInfo(ctx context.Context, userId int64) (*respond.GetUserInfoRespond, error) {
	// 1. 尝试从缓存获取
	key := userInfoCacheKey(userId)
	if cached, err := u.cache.Get(ctx, key); err == nil && cached != "" {
		var info respond.GetUserInfoRespond
		if err := json.Unmarshal([]byte(cached), &info); err == nil {
			return &info, nil
		}
	}

	// 2. 缓存未命中，查库
	user, err := u.repos.User.FindById(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("find user error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	info := toPublicInfo(user)

	// 3. 异步回写缓存
	u.cache.SubmitTask(func() {
		if data, err := json.Marshal(info); err == nil {
			if err := u.cache.Set(context.Background(), key, string(data), constants.ONLINE_USER_TTL); err != nil {
				zap.L().Warn("write user info cache failed", zap.Error(err))
			}
		}
	})
	return info, nil
}

// GetPublicInfoList 批量查询用户公开信息
func (u *userService) GetPublicInfoList(ctx context.Context, userIds []int64) ([]respond.GetUserInfoRespond, error) {
	users, err := u.repos.User.FindByIds(userIds)
	if err != nil {
		zap.L().Error("batch find users error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	result := make([]respond.GetUserInfoRespond, 0, len(users))
	for i := range users {
		result = append(result, *toPublicInfo(&users[i]))
	}
	return result, nil
}

// UpdateUserInfo 更新用户资料并异步失效缓存，零值字段保持原样
func (u *userService) UpdateUserInfo(ctx context.Context, req *request.UpdateUserInfoRequest) error {
	user, err := u.repos.User.FindById(req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error("update find user error", zap.Error(err))
		return errorx.ErrServerBusy
	}

	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Slogan != "" {
		user.Slogan = req.Slogan
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if err := u.repos.User.Update(user); err != nil {
		zap.L().Error("update user error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	key := userInfoCacheKey(int64(user.ID))
	u.cache.SubmitTask(func() {
		if err := u.cache.Delete(context.Background(), key); err != nil {
			zap.L().Warn("invalidate user info cache failed", zap.Error(err))
		}
	})
	return nil
}

// RefreshToken 用 Refresh Token 换新的 Access Token
func (u *userService) RefreshToken(refreshToken string) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "refresh_token" {
		return nil, errorx.New(errorx.CodeUnauthorized, "请使用 Refresh Token 刷新")
	}
	accessToken, err := jwt.GenerateAccessToken(claims.UserID, claims.Username)
	if err != nil {
		zap.L().Error("refresh access token error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshTokenRespond{AccessToken: accessToken}, nil
}

// toPublicInfo 转为公开信息视图，补默认签名
func toPublicInfo(user *model.UserInfo) *respond.GetUserInfoRespond {
	slogan := user.Slogan
	if slogan == "" {
		slogan = constants.DEFAULT_SLOGAN
	}
	return &respond.GetUserInfoRespond{
		UserId:   int64(user.ID),
		Username: user.Username,
		Nickname: user.Nickname,
		Avatar:   user.Avatar,
		Slogan:   slogan,
		Gender:   user.Gender,
	}
}
