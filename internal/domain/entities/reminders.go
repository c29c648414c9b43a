package entities

// ReminderTarget is an active user who may receive the daily check-in reminder.
type ReminderTarget struct {
	UserID int64
	ChatID int64
	Track  Track
}

// ReminderPayload carries what the reminder message shows.
type ReminderPayload struct {
	Streak      int
	FreezesLeft int
	Level       int
	XP          int
}
