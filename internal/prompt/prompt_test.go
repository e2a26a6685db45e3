package prompt

import (
	"strings"
	"testing"

	"mock_interview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello world", Sanitize("  hello\x00 world\x07 "))
	assert.Equal(t, "if (a < b) { return a*b; }", Sanitize("if (a < b) { return a*b; }"))
	assert.Equal(t, `a\b "q" 'c' `+"`x`", Sanitize(`a\b "q" 'c' `+"`x`"))
	assert.Equal(t, "caf", Sanitize("café"))
	assert.Equal(t, "x", Sanitize("x\u202e"))
	assert.Equal(t, "", Sanitize("\u200b\u200b"))
}

func TestBuildRequiresParams(t *testing.T) {
	_, err := Build(GenerationRequest{Kind: InterviewQuestions, Params: map[string]string{"jobPosition": "Backend Engineer"}})
	require.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Contains(t, err.Error(), "jobDescription")

	_, err = Build(GenerationRequest{Kind: AnswerFeedback, Params: map[string]string{"question": "Q", "answer": "\u200b"}})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = Build(GenerationRequest{Kind: "unknown"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestBuildInterviewQuestions(t *testing.T) {
	p, err := Build(GenerationRequest{Kind: InterviewQuestions, Params: map[string]string{
		"jobPosition":    "Backend Engineer",
		"jobDescription": "Go, Postgres",
	}})
	require.NoError(t, err)
	assert.Contains(t, p, "Generate 5 interview questions for a Backend Engineer role")
	assert.Contains(t, p, "Experience Level: Not specified")
	assert.Contains(t, p, "Resume Context: No additional context")
	assert.Contains(t, p, "'Question' and 'Answer'")
}

func TestBuildCodeFeedbackOptionalExplanation(t *testing.T) {
	params := map[string]string{"question": "Two Sum", "code": "int main() { return 0; }"}

	p, err := Build(GenerationRequest{Kind: CodeFeedback, Params: params})
	require.NoError(t, err)
	assert.NotContains(t, p, "Candidate's Explanation")
	assert.Contains(t, p, "int main() { return 0; }")

	params["explanation"] = "hash map"
	p, err = Build(GenerationRequest{Kind: CodeFeedback, Params: params})
	require.NoError(t, err)
	assert.Contains(t, p, "Candidate's Explanation: hash map")
}

func TestBuildTruncatesLongParams(t *testing.T) {
	long := strings.Repeat("a", MaxParamRunes+500)
	p, err := Build(GenerationRequest{Kind: AnswerFeedback, Params: map[string]string{"question": "Q", "answer": long}})
	require.NoError(t, err)
	assert.NotContains(t, p, strings.Repeat("a", MaxParamRunes+1))
	assert.Contains(t, p, strings.Repeat("a", MaxParamRunes))
}

func TestBuildDoesNotEscapeCode(t *testing.T) {
	p, err := Build(GenerationRequest{Kind: CodeFeedback, Params: map[string]string{
		"question": "Q",
		"code":     `if (a < b && c > d) { s = "x"; }`,
	}})
	require.NoError(t, err)
	assert.Contains(t, p, `if (a < b && c > d) { s = "x"; }`)
}
