package model

import "time"

// Exam is a persisted exam record linking an ordered set of questions
// (spec.md §3; grounded on original_source/agents/database_agent.py's
// create_exam and the exams/exam_questions tables it writes to).
type Exam struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TimeLimit   int       `json:"time_limit"`
	TopicID     string    `json:"topic_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subtopic is a curriculum subtopic row (spec.md §3).
type Subtopic struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TopicID     string `json:"topic_id,omitempty"`
}
