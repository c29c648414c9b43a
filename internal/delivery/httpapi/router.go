// Package httpapi serves the JSON API used by the Telegram Mini App.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

const (
	requestTimeout  = 15 * time.Second
	maxPayloadBytes = 64 << 10
)

// ProgressService records events and reads snapshots.
type ProgressService interface {
	Record(ctx context.Context, userID int64, ev gamification.Event) (*gamification.Outcome, error)
	Snapshot(ctx context.Context, userID int64) (entities.Snapshot, error)
	Reset(ctx context.Context, userID int64) error
}

// LessonCatalog is the read side of the lesson catalog.
type LessonCatalog interface {
	Lesson(id string) (entities.Lesson, error)
	Modules() []entities.Module
	GradeQuiz(lessonID string, answers []int) (int, error)
}

// BadgeCatalog is the read side of the badge catalog.
type BadgeCatalog interface {
	All() []entities.Badge
	Badge(id string) (entities.Badge, bool)
}

type handler struct {
	progress ProgressService
	lessons  LessonCatalog
	badges   BadgeCatalog
	logger   *zap.Logger
}

// NewRouter builds the Mini App API.
func NewRouter(progress ProgressService, lessons LessonCatalog, badges BadgeCatalog, logger *zap.Logger) *chi.Mux {
	h := &handler{
		progress: progress,
		lessons:  lessons,
		badges:   badges,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/progress", h.getProgress)
		r.Delete("/progress", h.resetProgress)
		r.Get("/lessons", h.listLessons)
		r.Post("/lessons/{lessonID}/complete", h.completeLesson)
		r.Post("/quizzes/{lessonID}", h.scoreQuiz)
		r.Post("/practices/{lessonID}", h.completePractice)
		r.Post("/checkins", h.submitCheckIn)
		r.Get("/badges", h.listBadges)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
