package models

// QuizQuestion is a single practice question. The correct answer is never
// sent to the client before submission.
type QuizQuestion struct {
	ID           string   `json:"id"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

// QuizSubmitItem is one answered question in a submission.
type QuizSubmitItem struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	TimeSpent  int    `json:"timeSpent,omitempty"`
}

// QuizSubmission is a full quiz submission for a skill.
type QuizSubmission struct {
	Skill      string           `json:"skill"`
	Difficulty string           `json:"difficulty,omitempty"`
	Items      []QuizSubmitItem `json:"items"`
}

// QuizResultDetail grades one submitted answer.
type QuizResultDetail struct {
	QuestionID    string `json:"questionId"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuizResult is the graded outcome of a submission.
type QuizResult struct {
	Total   int                `json:"total"`
	Correct int                `json:"correct"`
	Score   int                `json:"score"`
	Details []QuizResultDetail `json:"details,omitempty"`
}

// QuizAttempt is one historical answer record.
type QuizAttempt struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	Skill      string `json:"skill"`
	Difficulty string `json:"difficulty,omitempty"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
	TimeSpent  int    `json:"timeSpent,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// QuizLeaderboardEntry is one row of the practice-arena leaderboard.
type QuizLeaderboardEntry struct {
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Avatar       string  `json:"avatar,omitempty"`
	TotalScore   int     `json:"totalScore"`
	QuizCount    int     `json:"quizCount"`
	AverageScore float64 `json:"averageScore"`
	Rank         int     `json:"rank,omitempty"`
	Streak       int     `json:"streak,omitempty"`
}

// MockInterview is a scheduled peer mock interview.
type MockInterview struct {
	ID            string `json:"id"`
	OtherUserID   string `json:"otherUserId"`
	SkillTopic    string `json:"skillTopic"`
	InterviewType string `json:"interviewType"`
	ScheduledTime string `json:"scheduledTime"`
	Feedback      string `json:"feedback,omitempty"`
}
