package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	gql "github.com/graphql-go/graphql"

	"usersvc/internal/observability"
	repo "usersvc/internal/repository"
	"usersvc/internal/usecase"
	auth "usersvc/internal/usecase/auth_usecase"
)

// GraphQLのresolver。中身はREST側と同じusecaseを呼ぶだけ
type Resolver struct {
	authUC   *usecase.AuthUsecase
	userUC   *usecase.UserUsecase
	appUC    *usecase.AppUsecase
	helloUC  *usecase.HelloUsecase
	auditUC  *usecase.AuditUsecase
	userRepo repo.UserRepository
	metrics  *observability.Metrics
	log      *slog.Logger
}

func NewResolver(
	authUC *usecase.AuthUsecase,
	userUC *usecase.UserUsecase,
	appUC *usecase.AppUsecase,
	helloUC *usecase.HelloUsecase,
	auditUC *usecase.AuditUsecase,
	users repo.UserRepository,
	metrics *observability.Metrics,
	log *slog.Logger,
) *Resolver {
	return &Resolver{
		authUC:   authUC,
		userUC:   userUC,
		appUC:    appUC,
		helloUC:  helloUC,
		auditUC:  auditUC,
		userRepo: users,
		metrics:  metrics,
		log:      log.With("component", "graphql"),
	}
}

// errors[].messageにはMessageだけを出し、code/status/detailsはextensionsへ
type fieldError struct {
	ae *usecase.AppError
}

func (e *fieldError) Error() string                      { return e.ae.Message }
func (e *fieldError) Extensions() map[string]interface{} { return e.ae.Extensions() }
func (e *fieldError) Unwrap() error                      { return e.ae }

func (r *Resolver) resolve(fn gql.FieldResolveFn) gql.FieldResolveFn {
	return func(p gql.ResolveParams) (interface{}, error) {
		v, err := fn(p)
		if err == nil {
			return v, nil
		}
		ae := usecase.AsAppError(err)
		if ae.Status >= http.StatusInternalServerError {
			r.log.ErrorContext(p.Context, "resolver failed", "field", p.Info.FieldName, "error", err)
		}
		return nil, &fieldError{ae: ae}
	}
}

// ---- Query ----

func (r *Resolver) appInfo(p gql.ResolveParams) (interface{}, error) {
	return r.appUC.Info(), nil
}

func (r *Resolver) health(p gql.ResolveParams) (interface{}, error) {
	return r.appUC.Health(p.Context), nil
}

func (r *Resolver) hello(p gql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)
	return r.helloUC.Greet(name), nil
}

func (r *Resolver) me(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return nil, err
	}
	return r.authUC.Me(p.Context, actor.UserID)
}

func (r *Resolver) user(p gql.ResolveParams) (interface{}, error) {
	if _, err := r.requireActor(p); err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	return r.userUC.GetByID(p.Context, id)
}

func (r *Resolver) users(p gql.ResolveParams) (interface{}, error) {
	if _, err := r.requireAdmin(p); err != nil {
		return nil, err
	}
	in := usecase.ListUsersInput{
		Email:    argString(p.Args, "email"),
		UserName: argString(p.Args, "userName"),
		Status:   argString(p.Args, "status"),
		Role:     argString(p.Args, "role"),
		SortBy:   argString(p.Args, "sortBy"),
		Order:    argString(p.Args, "order"),
	}
	in.Page, _ = p.Args["page"].(int)
	in.Limit, _ = p.Args["limit"].(int)
	return r.userUC.List(p.Context, in)
}

func (r *Resolver) auditLogs(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireAdmin(p)
	if err != nil {
		return nil, err
	}
	in := usecase.ListAuditLogsInput{
		ActorUserID:  argString(p.Args, "actorUserId"),
		TargetUserID: argString(p.Args, "targetUserId"),
		Action:       argString(p.Args, "action"),
	}
	in.Page, _ = p.Args["page"].(int)
	in.Limit, _ = p.Args["limit"].(int)
	return r.auditUC.List(p.Context, actor, in)
}

// ---- Mutation ----

func (r *Resolver) register(p gql.ResolveParams) (interface{}, error) {
	var in usecase.RegisterInput
	if err := decodeInput(p.Args["input"], &in); err != nil {
		return nil, err
	}
	user, err := r.authUC.Register(p.Context, in)
	r.metrics.AuthEvent("register", err)
	return user, err
}

func (r *Resolver) login(p gql.ResolveParams) (interface{}, error) {
	var in usecase.LoginInput
	if err := decodeInput(p.Args["input"], &in); err != nil {
		return nil, err
	}
	ci := clientInfoFrom(p.Context)
	res, err := r.authUC.Login(p.Context, in, ci.userAgent, ci.ip)
	r.metrics.AuthEvent("login", err)
	return res, err
}

func (r *Resolver) refreshToken(p gql.ResolveParams) (interface{}, error) {
	token, _ := p.Args["refreshToken"].(string)
	ci := clientInfoFrom(p.Context)
	res, err := r.authUC.Refresh(p.Context, token, ci.userAgent, ci.ip)
	r.metrics.AuthEvent("refresh", err)
	return res, err
}

func (r *Resolver) logout(p gql.ResolveParams) (interface{}, error) {
	token, _ := p.Args["refreshToken"].(string)
	err := r.authUC.Logout(p.Context, token)
	r.metrics.AuthEvent("logout", err)
	return err == nil, err
}

func (r *Resolver) logoutAll(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return nil, err
	}
	n, err := r.authUC.LogoutAll(p.Context, actor.UserID)
	r.metrics.AuthEvent("logout_all", err)
	if err != nil {
		return nil, err
	}
	return int(n), nil
}

func (r *Resolver) createUser(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireAdmin(p)
	if err != nil {
		return nil, err
	}
	var in usecase.CreateUserInput
	if err := decodeInput(p.Args["input"], &in); err != nil {
		return nil, err
	}
	return r.userUC.Create(p.Context, actor, in)
}

func (r *Resolver) updateUser(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return nil, err
	}
	var in usecase.UpdateUserInput
	if err := decodeInput(p.Args["input"], &in); err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	return r.userUC.Update(p.Context, actor, id, in)
}

func (r *Resolver) changePassword(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return nil, err
	}
	var in usecase.ChangePasswordInput
	if err := decodeInput(p.Args["input"], &in); err != nil {
		return nil, err
	}
	err = r.userUC.ChangePassword(p.Context, actor.UserID, in)
	r.metrics.AuthEvent("change_password", err)
	return err == nil, err
}

func (r *Resolver) deleteUser(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	if err := r.userUC.Delete(p.Context, actor, id); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) forceLogout(p gql.ResolveParams) (interface{}, error) {
	actor, err := r.requireAdmin(p)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	res, err := r.authUC.ForceLogout(p.Context, actor, id)
	r.metrics.AuthEvent("force_logout", err)
	return res, err
}

// ---- helper ----

// OptionalAuthが入れたclaimsが必要。
// RESTのActiveUserGuardと同じく毎回ユーザーを読み直し、roleもDBの値を使う
func (r *Resolver) requireActor(p gql.ResolveParams) (usecase.Actor, error) {
	claims, ok := auth.ClaimsFrom(p.Context)
	if !ok {
		return usecase.Actor{}, usecase.NewUnauthorized("authentication required")
	}
	user, err := r.userRepo.FindByID(p.Context, claims.UserID())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return usecase.Actor{}, usecase.NewUnauthorized("user no longer exists")
		}
		return usecase.Actor{}, usecase.NewDatabase(err)
	}
	if !user.CanAuthenticate() {
		return usecase.Actor{}, usecase.NewForbidden("user is not active")
	}
	return usecase.ActorFromUser(user), nil
}

func (r *Resolver) requireAdmin(p gql.ResolveParams) (usecase.Actor, error) {
	actor, err := r.requireActor(p)
	if err != nil {
		return actor, err
	}
	if !actor.IsAdmin() {
		return actor, usecase.NewForbidden("admin role required")
	}
	return actor, nil
}

// enumの値はmodel.Role等で来るので文字列にそろえる
func argString(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// input objectのmapをjsonタグ経由でDTOに詰める
func decodeInput(raw interface{}, dst interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return usecase.NewValidation("invalid input", nil)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return usecase.NewValidation("invalid input", nil)
	}
	return nil
}

type clientInfo struct {
	userAgent string
	ip        string
}

type clientInfoKey struct{}

func withClientInfo(ctx context.Context, userAgent, ip string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, clientInfo{userAgent: userAgent, ip: ip})
}

func clientInfoFrom(ctx context.Context) clientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(clientInfo)
	return ci
}
