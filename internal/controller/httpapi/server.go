package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/schedule_grid/internal/availability"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/service"
	"github.com/Freeeeeet/schedule_grid/internal/session"
)

// SessionHeader заголовок, по которому клиент привязывается к своему оркестратору
const SessionHeader = "X-Session-ID"

const sessionKey = "session"

// Server HTTP API календаря: вид, жесты, панели и экспорт
type Server struct {
	service  *service.SchedulingService
	sessions *session.Manager
	avail    *availability.Model
	logger   *zap.Logger
}

func NewServer(
	schedulingService *service.SchedulingService,
	sessions *session.Manager,
	avail *availability.Model,
	logger *zap.Logger,
) *Server {
	return &Server{
		service:  schedulingService,
		sessions: sessions,
		avail:    avail,
		logger:   logger,
	}
}

// Router создаёт gin engine со всеми маршрутами
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	s.RegisterRoutes(router)
	return router
}

func (s *Server) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/holidays", s.listHolidays)
		api.GET("/contacts", s.listContacts)
		api.GET("/settings", s.getSettings)
		api.PUT("/settings", s.putSettings)
	}

	view := api.Group("")
	view.Use(s.withSession())
	{
		view.GET("/view", s.getView)
		view.POST("/view", s.setView)
		view.POST("/nav/:direction", s.navigate)

		view.POST("/gesture/pointer-down", s.pointerDown)
		view.POST("/gesture/pointer-move", s.pointerMove)
		view.POST("/gesture/pointer-up", s.pointerUp)
		view.POST("/gesture/edge-down", s.edgeDown)
		view.POST("/gesture/dismiss", s.dismiss)

		view.POST("/panel/submit", s.submitPanel)
		view.POST("/events/:id/open", s.openEvent)
		view.POST("/events/:id/actions/:action", s.eventAction)

		view.GET("/events.ics", s.exportICS)
		view.GET("/week.png", s.weekImage)
	}
}

// withSession находит или создаёт сессию по заголовку. Без заголовка выдаётся новая.
func (s *Server) withSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(SessionHeader)
		if id == "" {
			id = uuid.NewString()
		}

		sess, created, err := s.sessions.GetOrCreate(ctx.Request.Context(), id)
		if err != nil {
			s.abortWithError(ctx, err)
			return
		}
		if created {
			s.logger.Info("Session created", zap.String("session_id", id))
		}

		ctx.Header(SessionHeader, id)
		ctx.Set(sessionKey, sess)
		ctx.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		s.logger.Debug("HTTP request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Int("status", ctx.Writer.Status()),
		)
	}
}

func sessionFrom(ctx *gin.Context) *session.Session {
	return ctx.MustGet(sessionKey).(*session.Session)
}

// statusFor сопоставляет ошибку с HTTP статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEventNotFound), errors.Is(err, orchestrator.ErrEventNotLoaded):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrEventFinished), errors.Is(err, orchestrator.ErrCreatePending):
		return http.StatusConflict
	case service.IsValidation(err),
		errors.Is(err, orchestrator.ErrInvalidEdge),
		errors.Is(err, orchestrator.ErrInvalidAction),
		errors.Is(err, orchestrator.ErrNoCreatePanel),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) abortWithError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
