package normalizer

const (
	AnswerFeedbackFallbackText = "We encountered an error processing the feedback. Please try again."
	fallbackRating             = 5
)

var InterviewQuestions = Schema{
	Name:      "interview_questions",
	RootArray: true,
	Fields: []Field{
		{Name: "Question", Kind: String, NotBlank: true},
		{Name: "Answer", Aliases: []string{"correctAnswer", "sampleAnswer"}, Kind: String, NotBlank: true},
	},
}

var CodingQuestions = Schema{
	Name:      "coding_questions",
	RootArray: true,
	Fields: []Field{
		{Name: "title", Kind: String, NotBlank: true},
		{Name: "description", Kind: String, NotBlank: true},
		{Name: "examples", Kind: ObjectArray, Optional: true, Fields: []Field{
			{Name: "input", Kind: String},
			{Name: "output", Kind: String},
			{Name: "explanation", Kind: String, Optional: true},
		}},
		{Name: "difficulty", Kind: String, Optional: true},
		{Name: "constraints", Kind: StringArray, Optional: true},
		{Name: "hints", Kind: StringArray, Optional: true},
		{Name: "solution", Kind: Object, Fields: []Field{
			{Name: "cpp", Aliases: []string{"c++"}, Kind: String},
			{Name: "java", Kind: String},
		}},
		{Name: "explanation", Kind: String, Optional: true},
	},
}

var AnswerFeedback = Schema{
	Name: "answer_feedback",
	Fields: []Field{
		{Name: "rating", Aliases: []string{"score"}, Kind: Number},
		{Name: "feedback", Kind: String, NotBlank: true},
	},
	Fallback: func() any {
		return map[string]any{
			"rating":   fallbackRating,
			"feedback": AnswerFeedbackFallbackText,
		}
	},
}

var CodeFeedback = Schema{
	Name: "code_feedback",
	Fields: []Field{
		{Name: "rating", Aliases: []string{"score"}, Kind: Number},
		{Name: "technicalAccuracy", Kind: Number},
		{Name: "codeQuality", Kind: Number},
		{Name: "feedback", Kind: Object, Fields: []Field{
			{Name: "strengths", Kind: StringArray},
			{Name: "improvements", Kind: StringArray},
			{Name: "complexityAnalysis", Kind: String},
			{Name: "bestPractices", Kind: StringArray},
		}},
	},
	Fallback: func() any {
		return map[string]any{
			"rating":            fallbackRating,
			"technicalAccuracy": fallbackRating,
			"codeQuality":       fallbackRating,
			"feedback": map[string]any{
				"strengths":          []string{"Unable to analyze strengths"},
				"improvements":       []string{"Unable to analyze improvements"},
				"complexityAnalysis": "Analysis unavailable",
				"bestPractices":      []string{"Best practices analysis unavailable"},
			},
		}
	},
}
