package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MockInterview 行为面试会话，创建后不再修改
// swagger:model
type MockInterview struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	MockID         string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"mockId"`
	JSONMockResp   datatypes.JSON `gorm:"not null" json:"jsonMockResp" swaggertype:"array,object"`
	JobPosition    string         `gorm:"type:varchar(255);not null" json:"jobPosition"`
	JobDescription string         `gorm:"type:text;not null" json:"jobDescription"`
	JobExperience  string         `gorm:"type:varchar(64)" json:"jobExperience"`
	FileData       datatypes.JSON `json:"fileData,omitempty" swaggertype:"object"`
	CreatedBy      string         `gorm:"type:varchar(255);index;not null" json:"createdBy"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (MockInterview) TableName() string {
	return "mock_interviews"
}

func (m *MockInterview) BeforeCreate(tx *gorm.DB) error {
	if m.MockID == "" {
		m.MockID = GenerateUUID()
	}
	return nil
}

// ResumeFile 简历文件元数据，存于 fileData
type ResumeFile struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
	URL      string `json:"url"`
	Key      string `json:"-"`
}

// CodingInterview 编程面试会话
// swagger:model
type CodingInterview struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	InterviewID         string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"interviewId"`
	JSONCodeResp        datatypes.JSON `gorm:"not null" json:"jsonCodeResp" swaggertype:"array,object"`
	InterviewTopic      string         `gorm:"type:varchar(255);not null" json:"interviewTopic"`
	DifficultyLevel     string         `gorm:"type:varchar(32)" json:"difficultyLevel"`
	ProblemDescription  string         `gorm:"type:text" json:"problemDescription"`
	TimeLimit           int            `gorm:"comment:分钟" json:"timeLimit"`
	ProgrammingLanguage string         `gorm:"type:varchar(32)" json:"programmingLanguage"`
	CreatedBy           string         `gorm:"type:varchar(255);index;not null" json:"createdBy"`
	CreatedAt           time.Time      `json:"createdAt"`
}

func (CodingInterview) TableName() string {
	return "coding_interviews"
}

func (c *CodingInterview) BeforeCreate(tx *gorm.DB) error {
	if c.InterviewID == "" {
		c.InterviewID = GenerateUUID()
	}
	return nil
}
