// Package catalog loads the static lesson and badge catalogs shipped with the bot.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrNoQuiz         = errors.New("lesson has no quiz")
	ErrAnswerCount    = errors.New("answer count does not match the quiz")
)

// LessonCatalog is the read-only set of modules and lessons.
type LessonCatalog struct {
	modules []entities.Module
	lessons map[string]entities.Lesson
	order   []string
}

// LoadLessons reads the lesson catalog from a JSON file.
func LoadLessons(path string) (*LessonCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lessons: %w", err)
	}
	return ParseLessons(data)
}

// ParseLessons builds a catalog from its JSON representation.
func ParseLessons(data []byte) (*LessonCatalog, error) {
	var wrapper struct {
		Modules []entities.Module `json:"modules"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lessons JSON: %w", err)
	}

	c := &LessonCatalog{lessons: make(map[string]entities.Lesson)}
	for _, m := range wrapper.Modules {
		if m.ID == "" {
			return nil, errors.New("module without id")
		}
		if !m.Track.Valid() {
			return nil, fmt.Errorf("module %s: unknown track %q", m.ID, m.Track)
		}

		for i := range m.Lessons {
			l := &m.Lessons[i]
			l.ModuleID = m.ID
			l.Track = m.Track

			if l.ID == "" {
				return nil, fmt.Errorf("module %s: lesson %d without id", m.ID, i)
			}
			if _, dup := c.lessons[l.ID]; dup {
				return nil, fmt.Errorf("duplicate lesson id %q", l.ID)
			}
			if err := checkQuiz(l.Quiz); err != nil {
				return nil, fmt.Errorf("lesson %s: %w", l.ID, err)
			}

			c.lessons[l.ID] = *l
			c.order = append(c.order, l.ID)
		}
		c.modules = append(c.modules, m)
	}

	return c, nil
}

func checkQuiz(q *entities.Quiz) error {
	if q == nil {
		return nil
	}
	if len(q.Questions) == 0 {
		return errors.New("quiz without questions")
	}
	for i, question := range q.Questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options", i+1)
		}
		if question.Answer < 0 || question.Answer >= len(question.Options) {
			return fmt.Errorf("question %d: answer %d out of range", i+1, question.Answer)
		}
	}
	return nil
}

// HasLesson reports whether the id belongs to the catalog.
func (c *LessonCatalog) HasLesson(id string) bool {
	_, ok := c.lessons[id]
	return ok
}

// Lesson returns the lesson by id.
func (c *LessonCatalog) Lesson(id string) (entities.Lesson, error) {
	l, ok := c.lessons[id]
	if !ok {
		return entities.Lesson{}, fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}
	return l, nil
}

// Lessons returns the lessons of a track in catalog order. An empty track returns all of them.
func (c *LessonCatalog) Lessons(track entities.Track) []entities.Lesson {
	out := make([]entities.Lesson, 0, len(c.order))
	for _, id := range c.order {
		l := c.lessons[id]
		if track == "" || l.Track == track {
			out = append(out, l)
		}
	}
	return out
}

// Modules returns a copy of the catalog modules.
func (c *LessonCatalog) Modules() []entities.Module {
	out := make([]entities.Module, len(c.modules))
	for i, m := range c.modules {
		m.Lessons = slices.Clone(m.Lessons)
		out[i] = m
	}
	return out
}

// GradeQuiz scores the answers to a lesson quiz on a 0..100 scale, rounded down.
func (c *LessonCatalog) GradeQuiz(lessonID string, answers []int) (int, error) {
	l, err := c.Lesson(lessonID)
	if err != nil {
		return 0, err
	}
	if l.Quiz == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoQuiz, lessonID)
	}
	if len(answers) != len(l.Quiz.Questions) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), len(l.Quiz.Questions))
	}

	correct := 0
	for i, q := range l.Quiz.Questions {
		if answers[i] == q.Answer {
			correct++
		}
	}
	return correct * 100 / len(l.Quiz.Questions), nil
}
