package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// QuizQuestions fetches practice questions for a skill.
func (c *Client) QuizQuestions(ctx context.Context, skill, difficulty string, count int) ([]models.QuizQuestion, error) {
	q := url.Values{}
	q.Set("skill", skill)
	if difficulty != "" {
		q.Set("difficulty", difficulty)
	}
	q.Set("count", strconv.Itoa(count))
	var out []models.QuizQuestion
	if err := c.do(ctx, http.MethodGet, "/exams/questions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitQuiz submits answers and returns the graded result.
func (c *Client) SubmitQuiz(ctx context.Context, sub models.QuizSubmission) (*models.QuizResult, error) {
	var out models.QuizResult
	if err := c.do(ctx, http.MethodPost, "/exams/submit", nil, sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuizLeaderboard fetches the practice leaderboard, optionally per skill.
func (c *Client) QuizLeaderboard(ctx context.Context, skill string) ([]models.QuizLeaderboardEntry, error) {
	q := url.Values{}
	if skill != "" {
		q.Set("skill", skill)
	}
	var out []models.QuizLeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/exams/leaderboard", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// QuizAttempts pages through the caller's attempt history.
func (c *Client) QuizAttempts(ctx context.Context, page, size int) (*models.Page[models.QuizAttempt], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out models.Page[models.QuizAttempt]
	if err := c.do(ctx, http.MethodGet, "/exams/attempts", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DailyChallenge fetches today's challenge questions.
func (c *Client) DailyChallenge(ctx context.Context) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	if err := c.do(ctx, http.MethodGet, "/exams/daily-challenge", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ScheduleMockInterview schedules a peer mock interview.
func (c *Client) ScheduleMockInterview(ctx context.Context, otherUserID, skillTopic, interviewType, scheduledTime string) (*models.MockInterview, error) {
	body := map[string]string{
		"otherUserId":   otherUserID,
		"skillTopic":    skillTopic,
		"interviewType": interviewType,
		"scheduledTime": scheduledTime,
	}
	var out models.MockInterview
	if err := c.do(ctx, http.MethodPost, "/exams/mock/schedule", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitMockFeedback records feedback for a completed mock interview.
func (c *Client) SubmitMockFeedback(ctx context.Context, id, feedback string) error {
	body := map[string]string{"feedback": feedback}
	return c.do(ctx, http.MethodPost, "/exams/mock/"+id+"/feedback", nil, body, nil)
}
