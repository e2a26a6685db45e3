package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mock_interview_backend/internal/generation"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/normalizer"
	"mock_interview_backend/internal/prompt"
	"mock_interview_backend/internal/repository"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"
	"mock_interview_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type FeedbackService struct {
	gen         generation.Generator
	interviews  *InterviewService
	answers     *repository.AnswerRepository
	codeAnswers *repository.CodeAnswerRepository
}

func NewFeedbackService(
	gen generation.Generator,
	interviews *InterviewService,
	answers *repository.AnswerRepository,
	codeAnswers *repository.CodeAnswerRepository,
) *FeedbackService {
	return &FeedbackService{gen: gen, interviews: interviews, answers: answers, codeAnswers: codeAnswers}
}

type AnswerFeedbackResult struct {
	Feedback model.AnswerFeedback
	Degraded bool
	Reason   string
}

type CodeFeedbackResult struct {
	Feedback model.CodeFeedback
	Degraded bool
	Reason   string
}

// SaveStatus 持久化结果；保存失败不影响已生成的反馈
type SaveStatus struct {
	Saved     bool                     `json:"saved"`
	Outcome   repository.UpsertOutcome `json:"outcome,omitempty"`
	SaveError string                   `json:"saveError,omitempty"`
}

type AnswerSubmission struct {
	AnswerFeedbackResult
	SaveStatus
	Answer *model.UserAnswer
}

type CodeAnswerSubmission struct {
	CodeFeedbackResult
	SaveStatus
	Answer *model.UserCodeAnswer
}

func (s *FeedbackService) AnswerFeedback(ctx context.Context, question, answer string) (*AnswerFeedbackResult, error) {
	res, err := runGeneration(ctx, s.gen, prompt.GenerationRequest{
		Kind:   prompt.AnswerFeedback,
		Params: map[string]string{"question": question, "answer": answer},
	}, normalizer.AnswerFeedback)
	if err != nil {
		return nil, err
	}

	out := &AnswerFeedbackResult{Degraded: res.Degraded, Reason: res.Reason}
	if err := normalizer.Decode(res.Value, &out.Feedback); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidShape, err)
	}
	return out, nil
}

func (s *FeedbackService) CodeFeedback(ctx context.Context, question, code, explanation string) (*CodeFeedbackResult, error) {
	res, err := runGeneration(ctx, s.gen, prompt.GenerationRequest{
		Kind:   prompt.CodeFeedback,
		Params: map[string]string{"question": question, "code": code, "explanation": explanation},
	}, normalizer.CodeFeedback)
	if err != nil {
		return nil, err
	}

	out := &CodeFeedbackResult{Degraded: res.Degraded, Reason: res.Reason}
	if err := normalizer.Decode(res.Value, &out.Feedback); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidShape, err)
	}
	return out, nil
}

// UpsertAnswer 同一 (会话, 题目, 用户) 只保留最新一次作答
func (s *FeedbackService) UpsertAnswer(ctx context.Context, answer *model.UserAnswer) (repository.UpsertOutcome, error) {
	outcome, err := s.answers.Upsert(ctx, answer)
	if err != nil {
		monitoring.AnswerUpsertCounter.WithLabelValues("answer", "error").Inc()
		return "", fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}
	monitoring.AnswerUpsertCounter.WithLabelValues("answer", string(outcome)).Inc()
	return outcome, nil
}

func (s *FeedbackService) UpsertCodeAnswer(ctx context.Context, answer *model.UserCodeAnswer) (repository.UpsertOutcome, error) {
	outcome, err := s.codeAnswers.Upsert(ctx, answer)
	if err != nil {
		monitoring.AnswerUpsertCounter.WithLabelValues("code", "error").Inc()
		return "", fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}
	monitoring.AnswerUpsertCounter.WithLabelValues("code", string(outcome)).Inc()
	return outcome, nil
}

// SubmitAnswer 生成反馈后保存；题目与参考答案取自会话本身
func (s *FeedbackService) SubmitAnswer(ctx context.Context, user, mockID, question, userAnswer string) (*AnswerSubmission, error) {
	detail, err := s.interviews.GetInterview(ctx, user, mockID)
	if err != nil {
		return nil, err
	}

	var target *model.InterviewQuestion
	for i := range detail.Questions {
		if detail.Questions[i].Question == question {
			target = &detail.Questions[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: question does not belong to this interview", util.ErrInvalidInput)
	}
	if strings.TrimSpace(userAnswer) == "" {
		return nil, fmt.Errorf("%w: answer is required", util.ErrInvalidInput)
	}

	fb, err := s.AnswerFeedback(ctx, target.Question, userAnswer)
	if err != nil {
		return nil, err
	}

	record := &model.UserAnswer{
		MockIDRef:     mockID,
		Question:      target.Question,
		CorrectAnswer: target.Answer,
		UserAns:       userAnswer,
		Feedback:      fb.Feedback.Feedback,
		Rating:        fb.Feedback.Rating,
		UserEmail:     user,
		SubmittedAt:   time.Now(),
	}

	sub := &AnswerSubmission{AnswerFeedbackResult: *fb}
	outcome, err := s.UpsertAnswer(ctx, record)
	if err != nil {
		logger.Log.Error("Failed to save answer, returning feedback anyway",
			zap.String("mockId", mockID), zap.String("user", user), zap.Error(err))
		sub.SaveError = err.Error()
		return sub, nil
	}
	sub.Saved, sub.Outcome, sub.Answer = true, outcome, record
	return sub, nil
}

func (s *FeedbackService) SubmitCodeAnswer(ctx context.Context, user, interviewID, questionIndex, language, code, explanation string) (*CodeAnswerSubmission, error) {
	if !util.IsSupportedLanguage(language) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedLanguage, language)
	}

	detail, err := s.interviews.GetCodingInterview(ctx, user, interviewID)
	if err != nil {
		return nil, err
	}
	question, questionKey, err := detail.QuestionAt(questionIndex)
	if err != nil {
		return nil, err
	}

	fb, err := s.CodeFeedback(ctx, question.Title+"\n"+question.Description, code, explanation)
	if err != nil {
		return nil, err
	}

	sub := &CodeAnswerSubmission{CodeFeedbackResult: *fb}
	record, err := newCodeAnswerRecord(interviewID, questionKey, user, language, code, question.Solution, fb.Feedback)
	if err != nil {
		logger.Log.Error("Failed to encode code answer, returning feedback anyway",
			zap.String("interviewId", interviewID), zap.String("user", user), zap.Error(err))
		sub.SaveError = err.Error()
		return sub, nil
	}

	outcome, err := s.UpsertCodeAnswer(ctx, record)
	if err != nil {
		logger.Log.Error("Failed to save code answer, returning feedback anyway",
			zap.String("interviewId", interviewID), zap.String("user", user), zap.Error(err))
		sub.SaveError = err.Error()
		return sub, nil
	}
	sub.Saved, sub.Outcome, sub.Answer = true, outcome, record
	return sub, nil
}

// newCodeAnswerRecord 参考解法与反馈以 JSON 存储，编码失败按保存失败处理
func newCodeAnswerRecord(interviewID, questionKey, user, language, code string, solution model.Solution, fb model.CodeFeedback) (*model.UserCodeAnswer, error) {
	solutionJSON, err := json.Marshal(solution)
	if err != nil {
		return nil, fmt.Errorf("%w: encode solution: %v", util.ErrPersistence, err)
	}
	feedbackJSON, err := json.Marshal(fb)
	if err != nil {
		return nil, fmt.Errorf("%w: encode feedback: %v", util.ErrPersistence, err)
	}
	return &model.UserCodeAnswer{
		InterviewIDRef: interviewID,
		Question:       questionKey,
		CorrectAnswer:  string(solutionJSON),
		UserAnswer:     code,
		Feedback:       datatypes.JSON(feedbackJSON),
		Rating:         fb.Rating,
		UserEmail:      user,
		Language:       language,
		SubmittedAt:    time.Now(),
	}, nil
}

func (s *FeedbackService) ListAnswers(ctx context.Context, user, mockID string) ([]model.UserAnswer, error) {
	if _, err := s.interviews.GetInterview(ctx, user, mockID); err != nil {
		return nil, err
	}
	return s.answers.ListBySession(ctx, mockID, user)
}

func (s *FeedbackService) CurrentAnswer(ctx context.Context, user, mockID, question string) (*model.UserAnswer, error) {
	return s.answers.FindCurrent(ctx, mockID, question, user)
}

func (s *FeedbackService) ListCodeAnswers(ctx context.Context, user, interviewID string) ([]model.UserCodeAnswer, error) {
	if _, err := s.interviews.GetCodingInterview(ctx, user, interviewID); err != nil {
		return nil, err
	}
	return s.codeAnswers.ListBySession(ctx, interviewID, user)
}

func (s *FeedbackService) CurrentCodeAnswer(ctx context.Context, user, interviewID, questionIndex string) (*model.UserCodeAnswer, error) {
	detail, err := s.interviews.GetCodingInterview(ctx, user, interviewID)
	if err != nil {
		return nil, err
	}
	_, key, err := detail.QuestionAt(questionIndex)
	if err != nil {
		return nil, err
	}
	return s.codeAnswers.FindCurrent(ctx, interviewID, key, user)
}
