package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/catalog"
	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/repository"
	"github.com/aliskhannn/mindgrowth-bot/internal/service"
	"github.com/aliskhannn/mindgrowth-bot/internal/storage"
)

const (
	testUserID = int64(1)
	testChatID = int64(10)
)

const testLessons = `{
  "modules": [
    {"id": "m1", "title": "Эмоции", "track": "teen", "lessons": [
      {"id": "m1-l1", "title": "Знакомство", "minutes": 5, "quiz": {"questions": [
        {"text": "q1", "options": ["a", "b"], "answer": 1},
        {"text": "q2", "options": ["a", "b"], "answer": 0}
      ]}},
      {"id": "m1-l2", "title": "Дыхание", "minutes": 3}
    ]}
  ]
}`

const testBadges = `
badges:
  - id: first_steps
    title: Первые шаги
    icon: "🌱"
    category: learning
    criteria: {kind: threshold, field: lessons_completed, value: 1}
  - id: perfectionist
    title: Перфекционист
    icon: "💯"
    category: learning
    criteria: {kind: custom, id: perfect_quiz}
`

// fakeBot records everything the handler sends.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.nextID++
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: 100 + b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

// texts returns the text of every sent message and edit.
func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *fakeBot) last() tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

func (b *fakeBot) deleted() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ids []int
	for _, c := range b.requests {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			ids = append(ids, d.MessageID)
		}
	}
	return ids
}

// memUsers is an in-memory user repository.
type memUsers struct {
	mu    sync.Mutex
	users map[int64]entities.User
}

func (m *memUsers) Save(_ context.Context, u *entities.User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.ID]; ok {
		existing.ChatID = u.ChatID
		existing.IsActive = true
		m.users[u.ID] = existing
		return false, nil
	}
	m.users[u.ID] = *u
	return true, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) SetTrack(_ context.Context, id int64, track entities.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Track = track
	m.users[id] = u
	return nil
}

func (m *memUsers) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.IsActive = false
	m.users[id] = u
	return nil
}

func (m *memUsers) ListActive(context.Context) ([]entities.ReminderTarget, error) {
	return nil, nil
}

type testEnv struct {
	bot       *fakeBot
	handler   *Handler
	progress  *service.ProgressService
	users     *memUsers
	reminders *storage.ReminderStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lessons, err := catalog.ParseLessons([]byte(testLessons))
	require.NoError(t, err)
	registry := gamification.DefaultRegistry()
	badges, err := catalog.ParseBadges([]byte(testBadges), registry)
	require.NoError(t, err)

	engine := gamification.NewEngine(
		gamification.NewIngestor(lessons, nil),
		gamification.NewAggregator(gamification.DefaultRules(), time.UTC),
		gamification.NewEvaluator(badges.All(), registry),
	)

	users := &memUsers{users: make(map[int64]entities.User)}
	progress := service.NewProgressService(engine, storage.NewMemorySnapshotStore(), users, zap.NewNop())
	reminders := storage.NewReminderStorage()
	bot := &fakeBot{}

	h := NewHandler(
		bot,
		zap.NewNop(),
		service.NewUserService(users, progress),
		progress,
		service.NewQuizService(lessons, storage.NewSessions[*entities.QuizSession](time.Hour), progress),
		service.NewCheckInService(storage.NewSessions[*entities.CheckInDraft](time.Hour), progress),
		lessons,
		badges,
		reminders,
	)

	return &testEnv{bot: bot, handler: h, progress: progress, users: users, reminders: reminders}
}

func (e *testEnv) command(t *testing.T, text string) {
	t.Helper()
	name := text
	for i, r := range text {
		if r == ' ' {
			name = text[:i]
			break
		}
	}
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			Text:      text,
			From:      &tgbotapi.User{ID: testUserID},
			Chat:      &tgbotapi.Chat{ID: testChatID},
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
		},
	})
}

func (e *testEnv) text(t *testing.T, text string) {
	t.Helper()
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			Text:      text,
			From:      &tgbotapi.User{ID: testUserID},
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
	})
}

func (e *testEnv) press(t *testing.T, messageID int, data string) {
	t.Helper()
	e.handler.handleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			From: &tgbotapi.User{ID: testUserID},
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: testChatID},
			},
			Data: data,
		},
	})
}

func (e *testEnv) snapshot(t *testing.T) entities.Snapshot {
	t.Helper()
	s, err := e.progress.Snapshot(context.Background(), testUserID)
	require.NoError(t, err)
	return s
}
