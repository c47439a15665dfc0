package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/examforge/examforge/internal/model"
)

// QuestionStore is the narrow interface the Orchestrator and cmd/examforge
// depend on — a database.Pool satisfies it, and tests can fake it.
type QuestionStore interface {
	InsertQuestions(ctx context.Context, questions []model.Question) InsertResult
	CreateExam(ctx context.Context, exam model.Exam, questionIDs []string) CreateExamResult
	GetSubtopics(ctx context.Context, topicID string) ([]model.Subtopic, error)
}

// InsertError reports one question that failed to insert, mirroring
// database_agent.py::insert_questions' per-row error accumulation (a
// single bad row never aborts the batch).
type InsertError struct {
	Question string `json:"question"`
	Error    string `json:"error"`
}

// InsertResult is the aggregated outcome of InsertQuestions.
type InsertResult struct {
	Success       bool          `json:"success"`
	InsertedCount int           `json:"inserted_count"`
	InsertedIDs   []string      `json:"inserted_ids"`
	Errors        []InsertError `json:"errors"`
}

// InsertQuestions upserts each question into questionbank, one row at a
// time, accumulating per-row errors instead of aborting the batch —
// grounded on database_agent.py::insert_questions's exact query and
// ON CONFLICT (id) DO UPDATE clause.
func (p *Pool) InsertQuestions(ctx context.Context, questions []model.Question) InsertResult {
	result := InsertResult{InsertedIDs: []string{}, Errors: []InsertError{}}

	for _, q := range questions {
		id, err := p.insertOne(ctx, q)
		if err != nil {
			result.Errors = append(result.Errors, InsertError{Question: truncate(q.Question, 50), Error: err.Error()})
			continue
		}
		result.InsertedIDs = append(result.InsertedIDs, id)
	}

	result.InsertedCount = len(result.InsertedIDs)
	result.Success = len(result.Errors) == 0
	return result
}

const insertQuestionQuery = `
	INSERT INTO questionbank (
		id, content, question, choices, explanation,
		difficulty, subtopic_id, requires_image,
		image_description, image_url, tags, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
	ON CONFLICT (id) DO UPDATE SET
		content = EXCLUDED.content,
		question = EXCLUDED.question,
		choices = EXCLUDED.choices,
		explanation = EXCLUDED.explanation,
		updated_at = NOW()
	RETURNING id
`

func (p *Pool) insertOne(ctx context.Context, q model.Question) (string, error) {
	id := q.ID
	if id == "" {
		id = uuid.NewString()
	}

	choices, err := json.Marshal(q.Choices)
	if err != nil {
		return "", err
	}

	subtopicID := q.SubtopicID
	if subtopicID == "" && q.SubtopicName != "" {
		subtopicID, err = p.subtopicIDByName(ctx, q.SubtopicName)
		if err != nil {
			return "", err
		}
	}

	difficulty := q.Difficulty
	if difficulty == 0 {
		difficulty = 2
	}

	var returnedID string
	err = p.pool.QueryRow(ctx, insertQuestionQuery,
		id,
		q.Content,
		q.Question,
		string(choices),
		q.Explanation,
		difficulty,
		nullable(subtopicID),
		q.RequiresImage,
		nullable(q.ImageDescription),
		nullable(q.ImageURL),
		q.Tags,
		time.Now().UTC(),
	).Scan(&returnedID)
	if err != nil {
		return "", err
	}
	return returnedID, nil
}

func (p *Pool) subtopicIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := p.pool.QueryRow(ctx, `SELECT id FROM subtopics WHERE name = $1 LIMIT 1`, name).Scan(&id)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return id, err
}

// nullable turns an empty string into a SQL NULL so optional text/uuid
// columns aren't written as "".
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// truncate mirrors database_agent.py's q_data.get("question")[:50] error
// label — never panics on strings shorter than n.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// CreateExamResult is the outcome of CreateExam.
type CreateExamResult struct {
	Success         bool   `json:"success"`
	ExamID          string `json:"exam_id,omitempty"`
	ExamCode        string `json:"exam_code,omitempty"`
	QuestionsLinked int    `json:"questions_linked"`
	Error           string `json:"error,omitempty"`
}

const insertExamQuery = `
	INSERT INTO exams (
		id, code, name, description, time_limit,
		topic_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id
`

const linkExamQuestionQuery = `
	INSERT INTO exam_questions (exam_id, question_id, question_order)
	VALUES ($1, $2, $3)
`

// CreateExam inserts an exam row and links its ordered questions inside a
// single transaction — grounded on database_agent.py::create_exam, which
// generates an EXAM-YYYYMMDD-HHMM code when none is given and rolls back
// the whole exam on any link failure.
func (p *Pool) CreateExam(ctx context.Context, exam model.Exam, questionIDs []string) CreateExamResult {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return CreateExamResult{Error: err.Error()}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now().UTC()
	examID := exam.ID
	if examID == "" {
		examID = uuid.NewString()
	}
	examCode := exam.Code
	if examCode == "" {
		examCode = "EXAM-" + now.Format("20060102-1504")
	}
	examName := exam.Name
	if examName == "" {
		examName = "Exam " + examCode
	}
	timeLimit := exam.TimeLimit
	if timeLimit == 0 {
		timeLimit = 45
	}

	var returnedID string
	err = tx.QueryRow(ctx, insertExamQuery,
		examID, examCode, examName, exam.Description, timeLimit,
		nullable(exam.TopicID), now,
	).Scan(&returnedID)
	if err != nil {
		return CreateExamResult{Error: err.Error()}
	}

	for order, qID := range questionIDs {
		if _, err := tx.Exec(ctx, linkExamQuestionQuery, returnedID, qID, order+1); err != nil {
			return CreateExamResult{Error: err.Error()}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return CreateExamResult{Error: err.Error()}
	}

	return CreateExamResult{
		Success:         true,
		ExamID:          returnedID,
		ExamCode:        examCode,
		QuestionsLinked: len(questionIDs),
	}
}

// GetSubtopics fetches subtopics, optionally filtered by topicID —
// grounded on database_agent.py::get_subtopics.
func (p *Pool) GetSubtopics(ctx context.Context, topicID string) ([]model.Subtopic, error) {
	var rows pgx.Rows
	var err error
	if topicID != "" {
		rows, err = p.pool.Query(ctx, `
			SELECT id, name, description, topic_id
			FROM subtopics WHERE topic_id = $1 ORDER BY name
		`, topicID)
	} else {
		rows, err = p.pool.Query(ctx, `
			SELECT id, name, description, topic_id
			FROM subtopics ORDER BY topic_id, name
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtopics []model.Subtopic
	for rows.Next() {
		var s model.Subtopic
		var desc, tid *string
		if err := rows.Scan(&s.ID, &s.Name, &desc, &tid); err != nil {
			return nil, err
		}
		if desc != nil {
			s.Description = *desc
		}
		if tid != nil {
			s.TopicID = *tid
		}
		subtopics = append(subtopics, s)
	}
	return subtopics, rows.Err()
}
