// Package entities contains domain entities used across the application.
package entities

// Module groups lessons of one topic.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Track   Track    `json:"track"`
	Lessons []Lesson `json:"lessons"`
}

// Lesson is a static content unit of the catalog.
type Lesson struct {
	ID       string `json:"id"` // e.g. "m1-l1"
	Title    string `json:"title"`
	Minutes  int    `json:"minutes"` // expected duration
	ModuleID string `json:"-"`
	Track    Track  `json:"-"`
	Quiz     *Quiz  `json:"quiz,omitempty"`
}

// Quiz is a multiple choice quiz attached to a lesson.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Question is one quiz question; Answer is the index of the correct option.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}
