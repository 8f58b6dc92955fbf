package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"usersvc/internal/domain/model"
	repo "usersvc/internal/repository"
	auth "usersvc/internal/usecase/auth_usecase"
)

const tokenTypeBearer = "Bearer"

func errInvalidCredentials() *AppError { return NewUnauthorized("invalid credentials") }
func errInvalidRefresh() *AppError     { return NewUnauthorized("invalid refresh token") }

func errRefreshExpired() *AppError {
	e := NewUnauthorized("refresh token expired")
	e.Cause = auth.ErrTokenExpired
	return e
}

type AuthUsecase struct {
	users     repo.UserRepository
	rtRepo    repo.RefreshTokenRepository
	tx        repo.TransactionManager
	hasher    auth.PasswordHasher
	tokens    *auth.TokenService
	validator Validator
	idGen     auth.IDGenerator
	clock     auth.Clock
	log       *slog.Logger
}

// DI
func NewAuthUsecase(
	users repo.UserRepository,
	rtRepo repo.RefreshTokenRepository,
	tx repo.TransactionManager,
	hasher auth.PasswordHasher,
	tokens *auth.TokenService,
	validator Validator,
	idGen auth.IDGenerator,
	clock auth.Clock,
	log *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		rtRepo:    rtRepo,
		tx:        tx,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
		log:       log,
	}
}

// 会員登録。email/userNameの重複は409
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.UserName = strings.TrimSpace(in.UserName)
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}
	return createUser(ctx, u.users, u.hasher, u.idGen, u.clock, newUserParams{
		Email:    in.Email,
		UserName: in.UserName,
		Password: in.Password,
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	})
}

// ログイン。emailかuserNameで探す
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput, userAgent, ip string) (*AuthResult, error) {
	in.EmailOrUserName = strings.TrimSpace(in.EmailOrUserName)
	if err := u.validator.Validate(in); err != nil {
		return nil, err
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(in.EmailOrUserName, "@") {
		user, err = u.users.FindByEmail(ctx, normalizeEmail(in.EmailOrUserName))
	} else {
		user, err = u.users.FindByUserName(ctx, in.EmailOrUserName)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, NewDatabase(err)
	}

	//パスワード照合
	if !u.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, errInvalidCredentials()
	}

	//停止ユーザーはログイン不可
	if !user.CanAuthenticate() {
		return nil, NewForbidden("user is " + strings.ToLower(string(user.Status)))
	}

	now := u.clock.Now()
	var pair TokenPair
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//最終ログイン時刻だけ更新（読み込み後のrole/status変更を上書きしない）
		if err := r.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
			return mapRepoError(err, "user")
		}
		user.LastLoginAt = &now
		var err error
		pair, err = u.issuePair(ctx, r.RefreshTokens(), user, userAgent, ip)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

// リフレッシュトークンのローテーション。
// 失効済みトークンが来たら再利用とみなしてユーザーの全トークンを失効させる。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken, userAgent, ip string) (*AuthResult, error) {
	rt, err := u.loadRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	if rt.IsRevoked() {
		n, err := u.rtRepo.RevokeAllByUserID(ctx, rt.UserID, now)
		if err != nil {
			return nil, NewDatabase(err)
		}
		u.log.WarnContext(ctx, "refresh token reuse detected", "user_id", rt.UserID, "token_id", rt.ID, "revoked", n)
		return nil, NewUnauthorized("refresh token has been revoked")
	}
	if !rt.IsValid(now) {
		return nil, errRefreshExpired()
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errInvalidRefresh()
		}
		return nil, NewDatabase(err)
	}
	if !user.CanAuthenticate() {
		return nil, NewForbidden("user is " + strings.ToLower(string(user.Status)))
	}

	var pair TokenPair
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//旧tokenを失効。0件なら同時に別リクエストが使った
		if err := r.RefreshTokens().RevokeByID(ctx, rt.ID, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewUnauthorized("refresh token has been revoked")
			}
			return NewDatabase(err)
		}
		var err error
		pair, err = u.issuePair(ctx, r.RefreshTokens(), user, userAgent, ip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// 1つのリフレッシュトークンを失効。期限切れ・失効済みは何もしない
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	rt, err := u.loadRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil
		}
		return err
	}
	if err := u.rtRepo.RevokeByID(ctx, rt.ID, u.clock.Now()); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return NewDatabase(err)
	}
	return nil
}

// ユーザーの全リフレッシュトークンを失効
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, NewUnauthorized("authentication required")
	}
	n, err := u.rtRepo.RevokeAllByUserID(ctx, userID, u.clock.Now())
	if err != nil {
		return 0, NewDatabase(err)
	}
	return n, nil
}

// 管理者による強制ログアウト。対象ユーザーの全リフレッシュトークンを失効
func (u *AuthUsecase) ForceLogout(ctx context.Context, actor Actor, targetUserID string) (*ForceLogoutResult, error) {
	if !actor.IsAdmin() {
		return nil, NewForbidden("admin role required")
	}
	if err := validateUserID(targetUserID); err != nil {
		return nil, err
	}
	if _, err := u.users.FindByID(ctx, targetUserID); err != nil {
		return nil, mapRepoError(err, "user")
	}

	var n int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		n, err = r.RefreshTokens().RevokeAllByUserID(ctx, targetUserID, u.clock.Now())
		if err != nil {
			return NewDatabase(err)
		}
		return recordAudit(ctx, r, u.clock, actor, model.AuditActionForceLogout, targetUserID, nil,
			map[string]int64{"revoked": n})
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "user force logged out", "user_id", targetUserID, "by", actor.UserID, "revoked", n)
	return &ForceLogoutResult{UserID: targetUserID, Revoked: n}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, NewUnauthorized("authentication required")
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// JWT検証→DB行→hash照合まで
func (u *AuthUsecase) loadRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewUnauthorized("refresh token is required")
	}

	claims, err := u.tokens.VerifyRefresh(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, errRefreshExpired()
		}
		return nil, errInvalidRefresh()
	}

	rt, err := u.rtRepo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errInvalidRefresh()
		}
		return nil, NewDatabase(err)
	}

	hash := auth.HashToken(token)
	if rt.UserID != claims.UserID() || subtle.ConstantTimeCompare([]byte(hash), []byte(rt.TokenHash)) != 1 {
		return nil, errInvalidRefresh()
	}
	return rt, nil
}

// access/refreshのペアを作り、refreshはhashをDBに保存
func (u *AuthUsecase) issuePair(ctx context.Context, tokens repo.RefreshTokenRepository, user *model.User, userAgent, ip string) (TokenPair, error) {
	now := u.clock.Now()

	refresh, err := u.tokens.IssueRefresh(user.ID, u.idGen.NewID(), now)
	if err != nil {
		return TokenPair{}, err
	}
	rt := &model.RefreshToken{
		ID:        refresh.ID,
		UserID:    user.ID,
		TokenHash: auth.HashToken(refresh.Token),
		UserAgent: truncate(userAgent, 512),
		IP:        truncate(ip, 64),
		ExpiresAt: refresh.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tokens.Create(ctx, rt); err != nil {
		return TokenPair{}, mapRepoError(err, "refresh token")
	}

	access, err := u.tokens.IssueAccess(user, now)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenType:        tokenTypeBearer,
		ExpiresIn:        int64(access.TTL.Seconds()),
		RefreshExpiresIn: int64(refresh.TTL.Seconds()),
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
