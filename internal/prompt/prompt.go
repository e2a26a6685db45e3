// Package prompt renders the generation prompts for each task kind.
package prompt

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"mock_interview_backend/internal/util"
)

type TaskKind string

const (
	InterviewQuestions TaskKind = "interview_questions"
	CodingQuestions    TaskKind = "coding_questions"
	AnswerFeedback     TaskKind = "answer_feedback"
	CodeFeedback       TaskKind = "code_feedback"
)

// MaxParamRunes 单个参数的长度上限，超出部分截断
const MaxParamRunes = 10000

type GenerationRequest struct {
	Kind   TaskKind
	Params map[string]string
}

type task struct {
	required []string
	optional []string
	tmpl     *template.Template
}

var tasks = map[TaskKind]task{
	InterviewQuestions: {
		required: []string{"jobPosition", "jobDescription"},
		optional: []string{"yearsOfExperience", "resumeText"},
		tmpl:     template.Must(template.New("interview").Parse(interviewQuestionsTmpl)),
	},
	CodingQuestions: {
		required: []string{"topic"},
		optional: []string{"difficulty"},
		tmpl:     template.Must(template.New("coding").Parse(codingQuestionsTmpl)),
	},
	AnswerFeedback: {
		required: []string{"question", "answer"},
		tmpl:     template.Must(template.New("answer_feedback").Parse(answerFeedbackTmpl)),
	},
	CodeFeedback: {
		required: []string{"question", "code"},
		optional: []string{"explanation"},
		tmpl:     template.Must(template.New("code_feedback").Parse(codeFeedbackTmpl)),
	},
}

var disallowed = regexp.MustCompile("[^\\w\\s.,(){}\\[\\]<>+=\\-*/%&|^!?:;@#$'\"`~\\\\]")

// Sanitize 去掉白名单以外的字符，只作用于用户输入
func Sanitize(s string) string {
	return strings.TrimSpace(disallowed.ReplaceAllString(s, ""))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Build 校验必填参数并渲染提示词，失败时返回 ErrInvalidInput
func Build(req GenerationRequest) (string, error) {
	t, ok := tasks[req.Kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown task kind %q", util.ErrInvalidInput, req.Kind)
	}

	data := make(map[string]string, len(t.required)+len(t.optional))
	for _, name := range t.required {
		v := Sanitize(truncate(req.Params[name], MaxParamRunes))
		if v == "" {
			return "", fmt.Errorf("%w: %s is required", util.ErrInvalidInput, name)
		}
		data[name] = v
	}
	for _, name := range t.optional {
		data[name] = Sanitize(truncate(req.Params[name], MaxParamRunes))
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Required 返回某任务的必填参数名
func Required(kind TaskKind) []string {
	return append([]string(nil), tasks[kind].required...)
}
