package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "usersvc/docs"
	"usersvc/internal/config"
	"usersvc/internal/graphql"
	"usersvc/internal/handler"
	"usersvc/internal/middleware"
	"usersvc/internal/observability"
	repo "usersvc/internal/repository"
	"usersvc/internal/usecase"
)

const bodyLimit = "1M"

// Depsはルーティングに必要なものをまとめる（組み立てはcmd/api）
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Tokens   middleware.AccessTokenVerifier
	Users    repo.UserRepository

	AuthUC  *usecase.AuthUsecase
	UserUC  *usecase.UserUsecase
	AppUC   *usecase.AppUsecase
	HelloUC *usecase.HelloUsecase
	AuditUC *usecase.AuditUsecase
}

// NewはミドルウェアとルートをつないだEchoを返す
func New(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(d.Log)
	e.IPExtractor = ipExtractor(d.Config.Security)

	// 順番に意味がある
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	if d.Config.Tracing.Enabled {
		e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(d.Config.Tracing.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)))
	}
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Prometheus(d.Metrics))
	e.Use(echomw.SecureWithConfig(secureConfig(d.Config)))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Config.CORS.Origins,
		AllowCredentials: d.Config.CORS.Credentials,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderAuthorization, echo.HeaderContentType,
			echo.HeaderXRequestID, echo.HeaderAccept,
		},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))
	e.Use(echomw.BodyLimit(bodyLimit))

	handler.NewAppHandler(d.AppUC).RegisterRoutes(e)
	handler.NewHelloHandler(d.HelloUC).RegisterRoutes(e)
	handler.NewUserHandler(d.Config, d.AuthUC, d.UserUC, d.Tokens, d.Users, d.Metrics).RegisterRoutes(e)
	handler.NewAuditHandler(d.AuditUC, d.Tokens, d.Users).RegisterRoutes(e)

	resolver := graphql.NewResolver(d.AuthUC, d.UserUC, d.AppUC, d.HelloUC, d.AuditUC, d.Users, d.Metrics, d.Log)
	schema, err := graphql.NewSchema(resolver)
	if err != nil {
		return nil, err
	}
	graphql.NewHandler(schema, d.Tokens, d.Config.App.GraphQLPlayground).RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	if d.Config.App.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e, nil
}

// レート制限とリフレッシュトークンのIPはc.RealIP()から取る。
// プロキシを信用しない限りX-Forwarded-Forは無視する
func ipExtractor(sc config.SecurityConfig) echo.IPExtractor {
	if sc.TrustProxy {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}

func secureConfig(cfg config.Config) echomw.SecureConfig {
	sc := echomw.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "no-referrer",
	}
	// HTTPSで配信する本番だけHSTS
	if cfg.IsProduction() {
		sc.HSTSMaxAge = 31536000
	}
	return sc
}
