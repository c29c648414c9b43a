// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
)

// Error messages.
const (
	msgLessonNotFound     = "Такого урока нет. Список уроков: /lessons"
	msgNoQuiz             = "У этого урока нет квиза."
	msgQuizExpired        = "Квиз уже завершён или устарел. Начните заново: /quiz <урок>"
	msgCheckInExpired     = "Чек-ин устарел. Начните заново: /checkin"
	msgInvalidInput       = "Некорректные данные. Проверьте команду и попробуйте ещё раз."
	msgStorageUnavailable = "Хранилище прогресса временно недоступно. Попробуйте позже."
	msgInternalError      = "Что‑то пошло не так. Попробуйте позже."
	msgUnknownCommand     = "Неизвестная команда. Список команд: /help"
	msgUseDone            = "Используйте: /done <урок> [минуты], например /done m1-l1 10"
	msgUseQuiz            = "Используйте: /quiz <урок>, например /quiz m1-l1"
	msgUsePractice        = "Используйте: /practice <урок>, например /practice m1-l1"
	msgInvalidMinutes     = "Минуты должны быть целым числом от 0 до 600."
	msgInvalidSleep       = "Введите количество часов сна числом, например 7.5"
	msgNothingToCancel    = "Нечего отменять."
	msgCancelled          = "Отменено."
	msgResetDone          = "Прогресс сброшен. Начнём заново!"
	msgResetCancelled     = "Сброс отменён."
	msgNotPersisted       = "⚠️ Прогресс пока не удалось сохранить, он сохранится при следующем действии."
	msgChatHint           = "Я понимаю команды. Список команд: /help"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Привет! Это MindGrowth 🌱"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Здесь короткие уроки про эмоции, стресс и общение. За уроки, квизы, практики и ежедневные чек-ины ты получаешь опыт, уровни и значки."))
	sb.WriteString("\n\n")
	sb.WriteString(md("🔥 Занимайся каждый день, чтобы растить серию. Пропустил день? Заморозка сохранит серию."))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Для кого этот аккаунт?"))

	return sb.String()
}

func trackChosenMessage(track entities.Track) string {
	var sb strings.Builder

	sb.WriteString(md("✅ "))
	sb.WriteString(bold("Всё готово!"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Программа: " + formatTrack(track)))
	sb.WriteString("\n\n")
	sb.WriteString(bold("1️⃣ /lessons"))
	sb.WriteString(md(" — выбрать урок\n"))
	sb.WriteString(bold("2️⃣ /checkin"))
	sb.WriteString(md(" — отметить настроение\n"))
	sb.WriteString(bold("3️⃣ /progress"))
	sb.WriteString(md(" — посмотреть прогресс"))

	return sb.String()
}

func helpMessage() string {
	lines := []string{
		"/lessons — уроки твоей программы",
		"/done <урок> [минуты] — отметить урок пройденным",
		"/quiz <урок> — пройти квиз по уроку",
		"/practice <урок> — отметить практику",
		"/checkin — чек-ин настроения",
		"/progress — уровень, опыт и серия",
		"/badges — значки",
		"/cancel — прервать квиз или чек-ин",
		"/reset — сбросить прогресс",
		"/start — сменить программу",
	}

	var sb strings.Builder
	sb.WriteString(bold("Команды"))
	sb.WriteString("\n\n")
	sb.WriteString(md(strings.Join(lines, "\n")))
	return sb.String()
}

func formatTrack(track entities.Track) string {
	switch track {
	case entities.TrackParent:
		return "для родителей"
	default:
		return "для подростков"
	}
}

// formatProgress renders the progress screen.
func formatProgress(s entities.Snapshot) string {
	g := s.Gamification
	level := g.Level()
	from, to := entities.XPForLevel(level), entities.XPForLevel(level+1)

	var sb strings.Builder
	sb.WriteString(bold("📊 Твой прогресс"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("⭐ Уровень %d · %d XP", level, g.XP)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(g.XP-from, to-from, 15)))
	sb.WriteString(md(fmt.Sprintf(" до уровня %d: %d XP", level+1, to-g.XP)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("🔥 Серия: %d (рекорд %d)\n", g.Streak, g.LongestStreak)))
	sb.WriteString(md(fmt.Sprintf("❄️ Заморозок: %d из %d\n", g.FreezesLeft(), g.MaxFreezes)))
	sb.WriteString(md(fmt.Sprintf("📚 Уроков: %d · практик: %d · квизов: %d\n", g.LessonsCompleted, g.PracticesCompleted, g.QuizzesTaken)))
	sb.WriteString(md(fmt.Sprintf("⏱ Минут обучения: %d\n", g.MinutesSpent)))
	sb.WriteString(md(fmt.Sprintf("🏅 Значков: %d", len(g.Badges))))

	if g.CheckInsCount > 0 {
		e := g.EmotionalGrowth
		sb.WriteString("\n\n")
		sb.WriteString(bold("💚 Самочувствие"))
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("Индекс благополучия: %d/100\n", g.WellnessScore)))
		sb.WriteString(md(fmt.Sprintf("Чек-инов: %d · регулярность %.0f%%\n", g.CheckInsCount, e.CheckInConsistency)))
		sb.WriteString(md(fmt.Sprintf("Настроение %s · тревога %s · энергия %s\n",
			formatTrend(e.MoodImprovement), formatTrend(-e.AnxietyReduction), formatTrend(e.EnergyImprovement))))
		sb.WriteString(md(fmt.Sprintf("Сон в норме: %.0f%% · стабильность: %.0f%%", e.SleepQuality, e.EmotionalStability)))
	}

	return sb.String()
}

// formatTrend renders a signed change of a 1..10 scale.
func formatTrend(v float64) string {
	switch {
	case v > 0.05:
		return fmt.Sprintf("↑%.1f", v)
	case v < -0.05:
		return fmt.Sprintf("↓%.1f", -v)
	default:
		return "→"
	}
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	filled = min(max(filled, 0), length)

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}

// formatBadges lists earned badges first, then the ones still locked.
func formatBadges(all []entities.Badge, g entities.GamificationProgress) string {
	var earned, locked []string
	for _, b := range all {
		tiers := earnedTiers(b.ID, g.Badges)
		switch {
		case len(tiers) == 0 && !g.HasBadge(b.ID, ""):
			locked = append(locked, fmt.Sprintf("🔒 %s — %s", b.Title, b.Description))
		case len(tiers) > 0:
			earned = append(earned, fmt.Sprintf("%s %s (%s)", b.Icon, b.Title, strings.Join(tiers, ", ")))
		default:
			earned = append(earned, fmt.Sprintf("%s %s", b.Icon, b.Title))
		}
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🏅 Значки: %d из %d", len(earned), len(all))))
	if len(earned) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(md(strings.Join(earned, "\n")))
	}
	if len(locked) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(md(strings.Join(locked, "\n")))
	}
	return sb.String()
}

func earnedTiers(badgeID string, earned []entities.UserBadge) []string {
	var tiers []string
	for _, ub := range earned {
		if ub.BadgeID == badgeID && ub.Tier != "" {
			tiers = append(tiers, formatTier(ub.Tier))
		}
	}
	return tiers
}

func formatTier(tier string) string {
	switch tier {
	case "bronze":
		return "бронза"
	case "silver":
		return "серебро"
	case "gold":
		return "золото"
	case "platinum":
		return "платина"
	default:
		return tier
	}
}

// formatLessons lists the modules of a track with completion marks.
func formatLessons(modules []entities.Module, track entities.Track, p entities.UserProgress) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Уроки " + formatTrack(track)))

	for _, m := range modules {
		if m.Track != track {
			continue
		}
		sb.WriteString("\n\n")
		sb.WriteString(bold(m.Title))
		for _, l := range m.Lessons {
			mark := "▫️"
			if p.HasCompleted(l.ID) {
				mark = "✅"
			}
			line := fmt.Sprintf("%s %s · %s · %d мин", mark, l.ID, l.Title, l.Minutes)
			if l.Quiz != nil {
				if score, ok := p.QuizScores[l.ID]; ok {
					line += fmt.Sprintf(" · квиз %d%%", score)
				} else {
					line += " · есть квиз"
				}
			}
			if p.PracticeCompleted[l.ID] {
				line += " · практика ✓"
			}
			sb.WriteString("\n")
			sb.WriteString(md(line))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(md("Отметить урок: /done <урок>, квиз: /quiz <урок>, практика: /practice <урок>"))
	return sb.String()
}

func formatQuizQuestion(lesson entities.Lesson, index int) string {
	q := lesson.Quiz.Questions[index]

	var sb strings.Builder
	sb.WriteString(bold("📝 Квиз: " + lesson.Title))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Вопрос %d из %d", index+1, len(lesson.Quiz.Questions))))
	sb.WriteString("\n\n")
	sb.WriteString(md(q.Text))
	return sb.String()
}

func formatQuizResult(lesson entities.Lesson, score int) string {
	emoji := "💪"
	switch {
	case score == 100:
		emoji = "🏆"
	case score >= 50:
		emoji = "👍"
	}

	var sb strings.Builder
	sb.WriteString(bold("📝 Квиз: " + lesson.Title))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("%s Результат: %d%%", emoji, score)))
	return sb.String()
}

func formatCheckInQuestion(step entities.CheckInStep) string {
	var title, hint string
	switch step {
	case entities.StepMood:
		title, hint = "Как твоё настроение?", "1 — очень плохо, 10 — отлично"
	case entities.StepAnxiety:
		title, hint = "Насколько ты тревожишься?", "1 — спокойно, 10 — очень тревожно"
	case entities.StepEnergy:
		title, hint = "Сколько у тебя энергии?", "1 — совсем нет сил, 10 — полон сил"
	case entities.StepSleep:
		title, hint = "Сколько часов ты спал этой ночью?", "Выбери вариант или напиши число, например 7.5"
	default:
		return ""
	}

	var sb strings.Builder
	sb.WriteString(md(fmt.Sprintf("📝 Чек-ин · шаг %d из 4", int(step)+1)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(title))
	sb.WriteString("\n")
	sb.WriteString(md(hint))
	return sb.String()
}

func formatCheckInSummary(d *entities.CheckInDraft) string {
	var sb strings.Builder
	sb.WriteString(bold("📝 Чек-ин сохранён"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Настроение %d · тревога %d · энергия %d · сон %s",
		d.Mood, d.Anxiety, d.Energy, formatHours(d.SleepHours))))
	return sb.String()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + " ч"
}

// formatOutcome announces XP, level-ups and new badges of one event.
// It returns an empty string when there is nothing to announce.
func formatOutcome(out *gamification.Outcome, badges BadgeCatalog) string {
	if out == nil {
		return ""
	}

	var lines []string
	if out.XPGained > 0 {
		lines = append(lines, md(fmt.Sprintf("✨ +%d XP", out.XPGained)))
	}
	if out.LeveledUp() {
		lines = append(lines, bold(fmt.Sprintf("🎉 Новый уровень: %d!", out.Level())))
	}
	for _, ub := range out.NewBadges {
		title, icon := ub.BadgeID, "🏅"
		if b, ok := badges.Badge(ub.BadgeID); ok {
			title, icon = b.Title, b.Icon
		}
		if ub.Tier != "" {
			title += " (" + formatTier(ub.Tier) + ")"
		}
		lines = append(lines, md(fmt.Sprintf("%s Новый значок: ", icon))+bold(title))
	}
	if s := out.Snapshot.Gamification.Streak; s > 1 {
		lines = append(lines, md(fmt.Sprintf("🔥 Серия: %d", s)))
	}
	return strings.Join(lines, "\n")
}

// buildReminderNotification builds reminder notification message.
func buildReminderNotification(payload entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString(bold("🌿 Как ты сегодня?"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Отметь настроение, это займёт минуту."))
	sb.WriteString("\n\n")

	if payload.Streak > 0 {
		sb.WriteString(md(fmt.Sprintf("🔥 Серия: %d — не дай ей прерваться!\n", payload.Streak)))
	}
	if payload.FreezesLeft > 0 {
		sb.WriteString(md(fmt.Sprintf("❄️ Заморозок в запасе: %d\n", payload.FreezesLeft)))
	}
	sb.WriteString(md(fmt.Sprintf("⭐ Уровень %d · %d XP", payload.Level, payload.XP)))

	return sb.String()
}
