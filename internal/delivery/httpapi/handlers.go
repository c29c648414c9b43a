package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

type completeLessonRequest struct {
	Minutes *int `json:"minutes"`
}

type quizRequest struct {
	Score          *int  `json:"score"`
	Answers        []int `json:"answers"`
	CompleteLesson bool  `json:"complete_lesson"`
}

type checkInRequest struct {
	Mood       int     `json:"mood"`
	Anxiety    int     `json:"anxiety"`
	Energy     int     `json:"energy"`
	SleepHours float64 `json:"sleep_hours"`
	Note       string  `json:"note"`
}

func (h *handler) getProgress(w http.ResponseWriter, r *http.Request) {
	snap, err := h.progress.Snapshot(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.progressView(snap))
}

func (h *handler) resetProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.Reset(r.Context(), userIDFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) completeLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessons.Lesson(chi.URLParam(r, "lessonID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req completeLessonRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	minutes := lesson.Minutes
	if req.Minutes != nil {
		minutes = *req.Minutes
	}

	h.record(w, r, gamification.LessonCompleted{LessonID: lesson.ID, Minutes: minutes})
}

func (h *handler) scoreQuiz(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessons.Lesson(chi.URLParam(r, "lessonID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req quizRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	var score int
	switch {
	case req.Answers != nil:
		score, err = h.lessons.GradeQuiz(lesson.ID, req.Answers)
		if err != nil {
			h.fail(w, r, err)
			return
		}
	case req.Score != nil:
		score = *req.Score
	default:
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "either score or answers is required")
		return
	}

	h.record(w, r, gamification.QuizScored{
		LessonID:       lesson.ID,
		Score:          score,
		CompleteLesson: req.CompleteLesson,
	})
}

func (h *handler) completePractice(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessons.Lesson(chi.URLParam(r, "lessonID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(w, r, gamification.PracticeCompleted{LessonID: lesson.ID})
}

func (h *handler) submitCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if !h.decode(w, r, &req, false) {
		return
	}
	h.record(w, r, gamification.CheckInSubmitted{
		Mood:       req.Mood,
		Anxiety:    req.Anxiety,
		Energy:     req.Energy,
		SleepHours: req.SleepHours,
		Note:       req.Note,
	})
}

func (h *handler) listLessons(w http.ResponseWriter, r *http.Request) {
	track := entities.Track(r.URL.Query().Get("track"))
	if track != "" && !track.Valid() {
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "unknown track")
		return
	}

	snap, err := h.progress.Snapshot(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	modules := make([]moduleView, 0)
	for _, m := range h.lessons.Modules() {
		if track != "" && m.Track != track {
			continue
		}
		mv := moduleView{ID: m.ID, Title: m.Title, Track: m.Track, Lessons: make([]lessonView, 0, len(m.Lessons))}
		for _, l := range m.Lessons {
			mv.Lessons = append(mv.Lessons, lessonViewOf(l, snap.Progress))
		}
		modules = append(modules, mv)
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
}

func (h *handler) listBadges(w http.ResponseWriter, r *http.Request) {
	snap, err := h.progress.Snapshot(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	all := h.badges.All()
	out := make([]catalogBadgeView, 0, len(all))
	for _, b := range all {
		v := catalogBadgeView{Badge: b}
		for _, ub := range snap.Gamification.Badges {
			if ub.BadgeID != b.ID {
				continue
			}
			v.Earned = true
			if ub.Tier != "" {
				v.EarnedTiers = append(v.EarnedTiers, ub.Tier)
			}
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": out})
}

// record runs the event and writes the outcome. A failed write still returns the
// outcome, flagged as not persisted.
func (h *handler) record(w http.ResponseWriter, r *http.Request, ev gamification.Event) {
	userID := userIDFrom(r.Context())

	out, err := h.progress.Record(r.Context(), userID, ev)
	if err != nil && (out == nil || !errors.Is(err, gamification.ErrPersistence)) {
		h.fail(w, r, err)
		return
	}
	if err != nil {
		h.logger.Warn("progress not persisted",
			zap.Int64("user_id", userID),
			zap.String("event", string(ev.Kind())),
			zap.Error(err),
		)
	}

	writeJSON(w, http.StatusOK, h.outcomeView(out, err == nil))
}

// decode reads a JSON body into dst. An empty body is accepted when optional is set.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF) && optional:
		return true
	case errors.Is(err, io.EOF):
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "request body is required")
	default:
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "malformed JSON body")
	}
	return false
}
