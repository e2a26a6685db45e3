package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"mock_interview_backend/internal/config"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/normalizer"
	"mock_interview_backend/internal/repository"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const interviewJSON = "```json\n[{\"Question\":\"Tell me about yourself.\",\"Answer\":\"Focus on impact.\"}," +
	"{\"Question\":\"Describe a failure.\",\"Answer\":\"Own it.\"}]\n```"

const codingJSON = `[{"title":"Two Sum","description":"Find indices.","examples":[{"input":"1","output":"2"}],
	"difficulty":"Easy","constraints":["n >= 2"],"hints":["hash map"],
	"solution":{"cpp":"int main(){}","java":"class S {}"},"explanation":"Use a map."}]`

// fakeGenerator 按提示词内容返回预设文本
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	if f.err != nil {
		return "", f.err
	}
	for marker, reply := range f.replies {
		if strings.Contains(p, marker) {
			return reply, nil
		}
	}
	return "", util.ErrEmptyResponse
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newServices(t *testing.T, gen *fakeGenerator) (*InterviewService, *FeedbackService, *gorm.DB) {
	db := newTestDB(t)
	storage := &StorageService{Provider: &LocalStorageProvider{Root: t.TempDir()}}
	interviews := NewInterviewService(gen, repository.NewInterviewRepository(db), repository.NewCodingInterviewRepository(db), storage)
	feedback := NewFeedbackService(gen, interviews, repository.NewAnswerRepository(db), repository.NewCodeAnswerRepository(db))
	return interviews, feedback, db
}

func TestCreateAndGetInterview(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, _, _ := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{
		JobPosition:    "Backend Engineer",
		JobDescription: "Go services",
	})
	require.NoError(t, err)
	require.Len(t, detail.Questions, 2)
	assert.NotEmpty(t, detail.Interview.MockID)

	got, err := interviews.GetInterview(ctx, "dev@example.com", detail.Interview.MockID)
	require.NoError(t, err)
	assert.Equal(t, detail.Questions, got.Questions)

	_, err = interviews.GetInterview(ctx, "intruder@example.com", detail.Interview.MockID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = interviews.GetInterview(ctx, "dev@example.com", "missing")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	list, err := interviews.ListInterviews(ctx, "dev@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateInterviewValidatesBeforeGenerating(t *testing.T) {
	gen := &fakeGenerator{}
	interviews, _, _ := newServices(t, gen)

	_, err := interviews.CreateInterview(context.Background(), "dev@example.com", CreateInterviewInput{JobPosition: "x"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Empty(t, gen.prompts)
}

func TestCreateInterviewRejectsUnusableQuestions(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": "[]"}}
	interviews, _, db := newServices(t, gen)

	_, err := interviews.CreateInterview(context.Background(), "dev@example.com", CreateInterviewInput{
		JobPosition: "x", JobDescription: "y",
	})
	assert.ErrorIs(t, err, util.ErrInvalidShape)

	var n int64
	db.Model(&model.MockInterview{}).Count(&n)
	assert.Zero(t, n)
}

func TestGetInterviewWithCorruptPayload(t *testing.T) {
	interviews, _, db := newServices(t, &fakeGenerator{})
	require.NoError(t, db.Create(&model.MockInterview{
		MockID: "broken", JSONMockResp: datatypes.JSON(`{"not":"an array"}`),
		JobPosition: "x", JobDescription: "y", CreatedBy: "dev@example.com",
	}).Error)

	_, err := interviews.GetInterview(context.Background(), "dev@example.com", "broken")
	assert.ErrorIs(t, err, util.ErrInvalidSession)
}

func TestSubmitAnswerUpsertsLatest(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, feedback, _ := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{JobPosition: "x", JobDescription: "y"})
	require.NoError(t, err)
	mockID := detail.Interview.MockID
	question := detail.Questions[0].Question

	gen.replies["expert interview coach"] = `{"rating": 4, "feedback": "Needs structure."}`
	sub, err := feedback.SubmitAnswer(ctx, "dev@example.com", mockID, question, "I like computers.")
	require.NoError(t, err)
	assert.True(t, sub.Saved)
	assert.Equal(t, repository.OutcomeCreated, sub.Outcome)
	assert.Equal(t, "Focus on impact.", sub.Answer.CorrectAnswer)

	gen.replies["expert interview coach"] = `{"rating": 9, "feedback": "Much better."}`
	sub, err = feedback.SubmitAnswer(ctx, "dev@example.com", mockID, question, "Led a migration to Go.")
	require.NoError(t, err)
	assert.Equal(t, repository.OutcomeUpdated, sub.Outcome)

	list, err := feedback.ListAnswers(ctx, "dev@example.com", mockID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 9, list[0].Rating)
	assert.Equal(t, "Led a migration to Go.", list[0].UserAns)

	current, err := feedback.CurrentAnswer(ctx, "dev@example.com", mockID, question)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, current.ID)
}

func TestSubmitAnswerDegradedFeedbackIsStillSaved(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{
		"Generate 5 interview questions": interviewJSON,
		"expert interview coach":         "Sorry, I cannot help with that.",
	}}
	interviews, feedback, _ := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{JobPosition: "x", JobDescription: "y"})
	require.NoError(t, err)

	sub, err := feedback.SubmitAnswer(ctx, "dev@example.com", detail.Interview.MockID, detail.Questions[1].Question, "answer")
	require.NoError(t, err)
	assert.True(t, sub.Degraded)
	assert.True(t, sub.Saved)
	assert.Equal(t, 5, sub.Feedback.Rating)
	assert.Equal(t, normalizer.AnswerFeedbackFallbackText, sub.Answer.Feedback)
}

func TestSubmitAnswerPersistenceFailureKeepsFeedback(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{
		"Generate 5 interview questions": interviewJSON,
		"expert interview coach":         `{"rating": 8, "feedback": "Good."}`,
	}}
	interviews, feedback, db := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{JobPosition: "x", JobDescription: "y"})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&model.UserAnswer{}))

	sub, err := feedback.SubmitAnswer(ctx, "dev@example.com", detail.Interview.MockID, detail.Questions[0].Question, "answer")
	require.NoError(t, err)
	assert.False(t, sub.Saved)
	assert.NotEmpty(t, sub.SaveError)
	assert.Equal(t, 8, sub.Feedback.Rating)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, feedback, _ := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{JobPosition: "x", JobDescription: "y"})
	require.NoError(t, err)

	_, err = feedback.SubmitAnswer(ctx, "dev@example.com", detail.Interview.MockID, "Not in this interview", "answer")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestGenerationFailureIsNotPersisted(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"Generate 5 interview questions": interviewJSON}}
	interviews, feedback, db := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateInterview(ctx, "dev@example.com", CreateInterviewInput{JobPosition: "x", JobDescription: "y"})
	require.NoError(t, err)

	gen.err = errors.Join(util.ErrTimeout, errors.New("deadline"))
	_, err = feedback.SubmitAnswer(ctx, "dev@example.com", detail.Interview.MockID, detail.Questions[0].Question, "answer")
	assert.ErrorIs(t, err, util.ErrTimeout)

	var n int64
	db.Model(&model.UserAnswer{}).Count(&n)
	assert.Zero(t, n)
}

func TestSubmitCodeAnswer(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{
		"Generate 3 coding questions": codingJSON,
		"expert coding interviewer": `{"rating": 12, "technicalAccuracy": 7, "codeQuality": 6,
			"feedback": {"strengths": "Readable", "improvements": [], "complexityAnalysis": "O(n)", "bestPractices": ["naming"]}}`,
	}}
	interviews, feedback, _ := newServices(t, gen)
	ctx := context.Background()

	detail, err := interviews.CreateCodingInterview(ctx, "dev@example.com", CreateCodingInterviewInput{
		Topic: "arrays", DifficultyLevel: "Easy", TimeLimit: 30, ProgrammingLanguage: "java",
	})
	require.NoError(t, err)
	require.Len(t, detail.Questions, 1)
	id := detail.Interview.InterviewID

	sub, err := feedback.SubmitCodeAnswer(ctx, "dev@example.com", id, "0", "java", "class S {}", "")
	require.NoError(t, err)
	assert.True(t, sub.Saved)
	assert.Equal(t, 10, sub.Feedback.Rating)
	assert.Equal(t, []string{"Readable"}, sub.Feedback.Feedback.Strengths)
	assert.Equal(t, []string{"No specific improvements identified"}, sub.Feedback.Feedback.Improvements)

	sub, err = feedback.SubmitCodeAnswer(ctx, "dev@example.com", id, "0", "cpp", "int main(){}", "")
	require.NoError(t, err)
	assert.Equal(t, repository.OutcomeUpdated, sub.Outcome)

	list, err := feedback.ListCodeAnswers(ctx, "dev@example.com", id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "cpp", list[0].Language)
	assert.JSONEq(t, `{"cpp":"int main(){}","java":"class S {}"}`, list[0].CorrectAnswer)

	current, err := feedback.CurrentCodeAnswer(ctx, "dev@example.com", id, "0")
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, current.ID)

	_, err = feedback.SubmitCodeAnswer(ctx, "dev@example.com", id, "5", "java", "x", "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = feedback.SubmitCodeAnswer(ctx, "dev@example.com", id, "0", "python", "x", "")
	assert.ErrorIs(t, err, util.ErrUnsupportedLanguage)
}

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Decr(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.counts[key]--
	return nil
}

func TestQuotaService(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	q := NewQuotaService(counter, config.QuotaConfig{Enabled: true, MaxRequests: 2, WindowMinutes: 60})
	ctx := context.Background()

	ok, remaining, _ := q.Allow(ctx, "dev@example.com")
	assert.True(t, ok)
	assert.Equal(t, int64(1), remaining)

	ok, _, _ = q.Allow(ctx, "dev@example.com")
	assert.True(t, ok)

	ok, remaining, refund := q.Allow(ctx, "dev@example.com")
	assert.False(t, ok)
	assert.Zero(t, remaining)
	assert.Nil(t, refund)

	ok, _, _ = q.Allow(ctx, "other@example.com")
	assert.True(t, ok)

	q.Reload(&config.Config{Quota: config.QuotaConfig{MaxRequests: 10, WindowMinutes: 60}})
	ok, _, _ = q.Allow(ctx, "dev@example.com")
	assert.True(t, ok)

	counter.err = errors.New("redis down")
	ok, _, refund = q.Allow(ctx, "dev@example.com")
	assert.True(t, ok)
	assert.Nil(t, refund)
}

func TestQuotaServiceRefund(t *testing.T) {
	counter := &memCounter{counts: map[string]int64{}}
	q := NewQuotaService(counter, config.QuotaConfig{Enabled: true, MaxRequests: 1, WindowMinutes: 60})
	ctx := context.Background()

	ok, _, refund := q.Allow(ctx, "dev@example.com")
	require.True(t, ok)
	require.NotNil(t, refund)
	refund(ctx)

	ok, remaining, _ := q.Allow(ctx, "dev@example.com")
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, _, _ = q.Allow(ctx, "dev@example.com")
	assert.False(t, ok)
}

func TestNewCodeAnswerRecordEncodesSolutionAndFeedback(t *testing.T) {
	fb := model.CodeFeedback{Rating: 7}
	fb.Feedback.Strengths = []string{"clear"}

	record, err := newCodeAnswerRecord("iv-1", `{"title":"Two Sum"}`, "dev@example.com", util.LangCpp, "int main(){}",
		model.Solution{Cpp: "int main(){}", Java: "class S {}"}, fb)
	require.NoError(t, err)

	assert.Equal(t, "iv-1", record.InterviewIDRef)
	assert.Equal(t, 7, record.Rating)
	assert.JSONEq(t, `{"cpp":"int main(){}","java":"class S {}"}`, record.CorrectAnswer)
	assert.Contains(t, string(record.Feedback), `"strengths":["clear"]`)
	assert.False(t, record.SubmittedAt.IsZero())
}
