package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/soaringjerry/Rally/internal/metrics"
	"github.com/soaringjerry/Rally/internal/middleware"
	"github.com/soaringjerry/Rally/internal/services"
	"github.com/soaringjerry/Rally/internal/utils"
)

type Options struct {
	Store     Store
	Bank      *services.Bank
	JWT       *middleware.JWT
	TokenTTL  time.Duration
	Logger    logrus.FieldLogger
	Metrics   *metrics.Metrics
	Commit    string
	BuildTime string
}

type Router struct {
	store       Store
	bank        *services.Bank
	auth        *services.AuthService
	sports      *services.SportService
	calibration *services.CalibrationService
	metrics     *metrics.Metrics
	validate    *validator.Validate
	log         logrus.FieldLogger
	now         func() time.Time
	commit      string
	buildTime   string
}

func NewRouter(opts Options) *Router {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Bank == nil {
		opts.Bank = services.DefaultBank()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	var signer services.TokenSigner
	if opts.JWT != nil {
		signer = opts.JWT.SignToken
	}
	points := newSportStoreAdapter(opts.Store)
	calibration := services.NewCalibrationService(points, opts.Bank, opts.Logger)
	if opts.Metrics != nil {
		calibration.WithObserver(opts.Metrics)
	}
	return &Router{
		store:       opts.Store,
		bank:        opts.Bank,
		auth:        services.NewAuthService(newAuthStoreAdapter(opts.Store), signer, opts.TokenTTL),
		sports:      services.NewSportService(points),
		calibration: calibration,
		metrics:     opts.Metrics,
		validate:    newValidator(),
		log:         opts.Logger,
		now:         time.Now,
		commit:      opts.Commit,
		buildTime:   opts.BuildTime,
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }

	mux.HandleFunc("GET /health", rt.handleHealth)
	mux.HandleFunc("GET /version", rt.handleVersion)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("GET /api/questionnaire/start", rt.handleQuestionnaireStart)
	mux.HandleFunc("POST /api/questionnaire/next", rt.handleQuestionnaireNext)
	mux.HandleFunc("POST /api/questionnaire/calculate", rt.handleQuestionnaireCalculate)
	mux.HandleFunc("GET /api/levels", rt.handleLevels)
	mux.HandleFunc("GET /api/levels/{points}", rt.handleLevel)

	mux.HandleFunc("POST /api/auth/register", rt.handleRegister)
	mux.HandleFunc("POST /api/auth/login", rt.handleLogin)
	mux.Handle("GET /api/users/me", authed(rt.handleMe))

	mux.HandleFunc("GET /api/sports", rt.handleSports)
	mux.Handle("GET /api/sports/user", authed(rt.handleUserSports))
	mux.Handle("POST /api/sports/user", authed(rt.handleAddUserSport))
	mux.Handle("PUT /api/sports/user", authed(rt.handleReplaceUserSports))
	mux.Handle("DELETE /api/sports/user/{sportId}", authed(rt.handleRemoveUserSport))
	mux.Handle("PUT /api/sports/user/{sportId}/points", authed(rt.handleSetPoints))
	mux.Handle("GET /api/sports/user/export", authed(rt.handleExportPoints))

	mux.Handle("GET /api/calibration", authed(rt.handleCalibrationQueue))
	mux.Handle("POST /api/calibration/{sportId}", authed(rt.handleCalibrateSport))
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	rt.writeJSON(w, r, http.StatusOK, "health.ok", map[string]any{
		"name":       "Rally API",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}

func (rt *Router) handleVersion(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, r, http.StatusOK, "ok", map[string]any{
		"commit":     rt.commit,
		"build_time": rt.buildTime,
	})
}
