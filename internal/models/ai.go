package models

// AiChatMessage is one question/answer exchange with the AI assistant.
type AiChatMessage struct {
	ID        string `json:"id,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Skill     string `json:"skill,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}
