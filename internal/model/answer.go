package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserAnswer 行为面试作答，(mock_id_ref, question_digest, user_email) 唯一
// swagger:model
type UserAnswer struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MockIDRef      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_answer_identity,priority:1" json:"mockIdRef"`
	Question       string    `gorm:"type:text;not null" json:"question"`
	QuestionDigest string    `gorm:"type:char(64);not null;uniqueIndex:idx_user_answer_identity,priority:2" json:"-"`
	CorrectAnswer  string    `gorm:"type:text" json:"correctAnswer"`
	UserAns        string    `gorm:"type:text" json:"userAns"`
	Feedback       string    `gorm:"type:text" json:"feedback"`
	Rating         int       `json:"rating"`
	UserEmail      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_answer_identity,priority:3" json:"userEmail"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// UserCodeAnswer 编程面试作答，question 为题目 JSON 原文
// swagger:model
type UserCodeAnswer struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	InterviewIDRef string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_code_answer_identity,priority:1" json:"interviewIdRef"`
	Question       string         `gorm:"type:text;not null" json:"question"`
	QuestionDigest string         `gorm:"type:char(64);not null;uniqueIndex:idx_user_code_answer_identity,priority:2" json:"-"`
	CorrectAnswer  string         `gorm:"type:text" json:"correctAnswer"`
	UserAnswer     string         `gorm:"type:text" json:"userAnswer"`
	Feedback       datatypes.JSON `json:"feedback" swaggertype:"object"`
	Rating         int            `json:"rating"`
	UserEmail      string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_code_answer_identity,priority:3" json:"userEmail"`
	Language       string         `gorm:"type:varchar(32)" json:"language"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (UserCodeAnswer) TableName() string {
	return "user_code_answers"
}
