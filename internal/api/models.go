package api

import (
	"time"

	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/service/session"
)

// WordResponse represents a vocabulary word presented during a session
type WordResponse struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Meaning string `json:"meaning"`
}

// ProgressResponse represents a learner's scheduling state for a word
type ProgressResponse struct {
	WordID         string     `json:"word_id"`
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	IsMastered     bool       `json:"is_mastered"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// SessionResponse represents a built session and the runner's position in it
type SessionResponse struct {
	ID          string        `json:"id"`
	State       string        `json:"state"`
	WordCount   int           `json:"word_count"`
	CurrentWord *WordResponse `json:"current_word,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// RatingResponse represents the outcome of one rating submission
type RatingResponse struct {
	Progress *ProgressResponse `json:"progress"`
	State    string            `json:"state"`
	NextWord *WordResponse     `json:"next_word,omitempty"`
}

// SummaryResponse represents the aggregated results of a completed session
type SummaryResponse struct {
	Counts        map[string]int `json:"counts"`
	TotalReviewed int            `json:"total_reviewed"`
	Words         []WordResponse `json:"words"`
}

// NormalProgressResponse represents a learner's normal-quiz state for a word
type NormalProgressResponse struct {
	WordID        string `json:"word_id"`
	CorrectStreak int    `json:"correct_streak"`
	IsMastered    bool   `json:"is_mastered"`
}

// DueCountResponse represents the number of words waiting for review
type DueCountResponse struct {
	DueWords int       `json:"due_words"`
	AsOf     time.Time `json:"as_of"`
}

func wordToResponse(word *domain.Word) *WordResponse {
	if word == nil {
		return nil
	}
	return &WordResponse{
		ID:      word.ID.String(),
		Text:    word.Text,
		Meaning: word.Meaning,
	}
}

func progressToResponse(record *domain.ProgressRecord) *ProgressResponse {
	response := &ProgressResponse{
		WordID:       record.WordID.String(),
		Repetitions:  record.Repetitions,
		EaseFactor:   record.EaseFactor,
		IntervalDays: record.IntervalDays,
		IsMastered:   record.IsMastered,
	}
	if !record.NextReviewAt.IsZero() {
		t := record.NextReviewAt
		response.NextReviewAt = &t
	}
	if !record.LastReviewedAt.IsZero() {
		t := record.LastReviewedAt
		response.LastReviewedAt = &t
	}
	return response
}

func sessionToResponse(runner *session.Runner) *SessionResponse {
	s := runner.Session()
	return &SessionResponse{
		ID:          s.ID.String(),
		State:       string(runner.State()),
		WordCount:   len(s.Words),
		CurrentWord: wordToResponse(runner.CurrentWord()),
		CreatedAt:   s.CreatedAt,
	}
}

func summaryToResponse(summary *session.Summary) *SummaryResponse {
	counts := make(map[string]int, len(summary.Counts))
	for rating, n := range summary.Counts {
		counts[string(rating)] = n
	}

	words := make([]WordResponse, 0, len(summary.Words))
	for _, word := range summary.Words {
		words = append(words, *wordToResponse(word))
	}

	return &SummaryResponse{
		Counts:        counts,
		TotalReviewed: summary.TotalReviewed,
		Words:         words,
	}
}

func normalProgressToResponse(progress *domain.NormalProgress) *NormalProgressResponse {
	return &NormalProgressResponse{
		WordID:        progress.WordID.String(),
		CorrectStreak: progress.CorrectStreak,
		IsMastered:    progress.IsMastered,
	}
}
