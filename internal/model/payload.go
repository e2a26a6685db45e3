package model

// 模型输出经归一化后的结构

type InterviewQuestion struct {
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
}

type CodeExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

type Solution struct {
	Cpp  string `json:"cpp"`
	Java string `json:"java"`
}

type CodingQuestion struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Examples    []CodeExample `json:"examples,omitempty"`
	Difficulty  string        `json:"difficulty,omitempty"`
	Constraints []string      `json:"constraints,omitempty"`
	Hints       []string      `json:"hints,omitempty"`
	Solution    Solution      `json:"solution"`
	Explanation string        `json:"explanation,omitempty"`
}

type AnswerFeedback struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

type CodeFeedbackDetail struct {
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	ComplexityAnalysis string   `json:"complexityAnalysis"`
	BestPractices      []string `json:"bestPractices"`
}

type CodeFeedback struct {
	Rating            int                `json:"rating"`
	TechnicalAccuracy int                `json:"technicalAccuracy"`
	CodeQuality       int                `json:"codeQuality"`
	Feedback          CodeFeedbackDetail `json:"feedback"`
}
