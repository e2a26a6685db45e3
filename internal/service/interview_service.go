package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"mock_interview_backend/internal/generation"
	"mock_interview_backend/internal/model"
	"mock_interview_backend/internal/normalizer"
	"mock_interview_backend/internal/prompt"
	"mock_interview_backend/internal/repository"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterviewService struct {
	gen        generation.Generator
	interviews *repository.InterviewRepository
	coding     *repository.CodingInterviewRepository
	storage    *StorageService
}

func NewInterviewService(
	gen generation.Generator,
	interviews *repository.InterviewRepository,
	coding *repository.CodingInterviewRepository,
	storage *StorageService,
) *InterviewService {
	return &InterviewService{gen: gen, interviews: interviews, coding: coding, storage: storage}
}

type CreateInterviewInput struct {
	JobPosition       string
	JobDescription    string
	YearsOfExperience string
	ResumeText        string
	Resume            *multipart.FileHeader
}

type CreateCodingInterviewInput struct {
	Topic               string
	DifficultyLevel     string
	ProblemDescription  string
	TimeLimit           int
	ProgrammingLanguage string
}

// InterviewDetail 会话及解析后的题目
type InterviewDetail struct {
	Interview *model.MockInterview     `json:"interview"`
	Questions []model.InterviewQuestion `json:"questions"`
}

type CodingInterviewDetail struct {
	Interview *model.CodingInterview `json:"interview"`
	Questions []model.CodingQuestion `json:"questions"`
}

func (s *InterviewService) GenerateInterviewQuestions(ctx context.Context, in CreateInterviewInput) ([]model.InterviewQuestion, error) {
	res, err := runGeneration(ctx, s.gen, prompt.GenerationRequest{
		Kind: prompt.InterviewQuestions,
		Params: map[string]string{
			"jobPosition":       in.JobPosition,
			"jobDescription":    in.JobDescription,
			"yearsOfExperience": in.YearsOfExperience,
			"resumeText":        in.ResumeText,
		},
	}, normalizer.InterviewQuestions)
	if err != nil {
		return nil, err
	}

	var questions []model.InterviewQuestion
	if err := normalizer.Decode(res.Value, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidShape, err)
	}
	return questions, nil
}

func (s *InterviewService) GenerateCodingQuestions(ctx context.Context, topic, difficulty string) ([]model.CodingQuestion, error) {
	res, err := runGeneration(ctx, s.gen, prompt.GenerationRequest{
		Kind:   prompt.CodingQuestions,
		Params: map[string]string{"topic": topic, "difficulty": difficulty},
	}, normalizer.CodingQuestions)
	if err != nil {
		return nil, err
	}

	var questions []model.CodingQuestion
	if err := normalizer.Decode(res.Value, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidShape, err)
	}
	return questions, nil
}

// CreateInterview 校验输入与简历、生成题目，成功后才上传简历并入库
func (s *InterviewService) CreateInterview(ctx context.Context, owner string, in CreateInterviewInput) (*InterviewDetail, error) {
	if _, err := prompt.Build(prompt.GenerationRequest{
		Kind:   prompt.InterviewQuestions,
		Params: map[string]string{"jobPosition": in.JobPosition, "jobDescription": in.JobDescription},
	}); err != nil {
		return nil, err
	}
	if in.Resume != nil {
		if err := s.storage.ValidateResume(in.Resume); err != nil {
			return nil, err
		}
	}

	questions, err := s.GenerateInterviewQuestions(ctx, in)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	var (
		resume   *model.ResumeFile
		fileData datatypes.JSON
	)
	if in.Resume != nil {
		resume, err = s.storage.SaveResume(ctx, in.Resume)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(resume)
		if err != nil {
			s.storage.DeleteResume(ctx, resume)
			return nil, err
		}
		fileData = datatypes.JSON(b)
	}

	// 入库保存原始输入，清洗只作用于提示词
	interview := &model.MockInterview{
		JSONMockResp:   datatypes.JSON(payload),
		JobPosition:    in.JobPosition,
		JobDescription: in.JobDescription,
		JobExperience:  in.YearsOfExperience,
		FileData:       fileData,
		CreatedBy:      owner,
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		s.storage.DeleteResume(ctx, resume)
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}

	logger.Log.Info("Mock interview created",
		zap.String("mockId", interview.MockID),
		zap.String("user", owner),
		zap.Int("questions", len(questions)))

	return &InterviewDetail{Interview: interview, Questions: questions}, nil
}

func (s *InterviewService) ListInterviews(ctx context.Context, owner string) ([]model.MockInterview, error) {
	return s.interviews.ListByOwner(ctx, owner)
}

// GetInterview 仅会话创建者可读；题目无法解析为非空数组时视为无效会话
func (s *InterviewService) GetInterview(ctx context.Context, owner, mockID string) (*InterviewDetail, error) {
	interview, err := s.interviews.FindByMockID(ctx, mockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if interview.CreatedBy != owner {
		return nil, util.ErrPermissionDenied
	}

	questions, err := parseStoredQuestions[model.InterviewQuestion](string(interview.JSONMockResp), normalizer.InterviewQuestions)
	if err != nil {
		logger.Log.Error("Stored interview payload is invalid", zap.String("mockId", mockID), zap.Error(err))
		return nil, err
	}
	return &InterviewDetail{Interview: interview, Questions: questions}, nil
}

func (s *InterviewService) CreateCodingInterview(ctx context.Context, owner string, in CreateCodingInterviewInput) (*CodingInterviewDetail, error) {
	if in.ProgrammingLanguage != "" && !util.IsSupportedLanguage(in.ProgrammingLanguage) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedLanguage, in.ProgrammingLanguage)
	}
	if in.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: timeLimit must not be negative", util.ErrInvalidInput)
	}

	questions, err := s.GenerateCodingQuestions(ctx, in.Topic, in.DifficultyLevel)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	interview := &model.CodingInterview{
		JSONCodeResp:        datatypes.JSON(payload),
		InterviewTopic:      in.Topic,
		DifficultyLevel:     in.DifficultyLevel,
		ProblemDescription:  in.ProblemDescription,
		TimeLimit:           in.TimeLimit,
		ProgrammingLanguage: in.ProgrammingLanguage,
		CreatedBy:           owner,
	}
	if err := s.coding.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistence, err)
	}

	logger.Log.Info("Coding interview created",
		zap.String("interviewId", interview.InterviewID),
		zap.String("user", owner),
		zap.Int("questions", len(questions)))

	return &CodingInterviewDetail{Interview: interview, Questions: questions}, nil
}

func (s *InterviewService) ListCodingInterviews(ctx context.Context, owner string) ([]model.CodingInterview, error) {
	return s.coding.ListByOwner(ctx, owner)
}

func (s *InterviewService) GetCodingInterview(ctx context.Context, owner, interviewID string) (*CodingInterviewDetail, error) {
	interview, err := s.coding.FindByInterviewID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if interview.CreatedBy != owner {
		return nil, util.ErrPermissionDenied
	}

	questions, err := parseStoredQuestions[model.CodingQuestion](string(interview.JSONCodeResp), normalizer.CodingQuestions)
	if err != nil {
		logger.Log.Error("Stored coding interview payload is invalid", zap.String("interviewId", interviewID), zap.Error(err))
		return nil, err
	}
	return &CodingInterviewDetail{Interview: interview, Questions: questions}, nil
}

// QuestionAt 按下标取题，返回题目原文 JSON 作为作答的题目键
func (d *CodingInterviewDetail) QuestionAt(index string) (*model.CodingQuestion, string, error) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(d.Questions) {
		return nil, "", fmt.Errorf("%w: questionIndex %q is out of range", util.ErrInvalidInput, index)
	}
	q := d.Questions[i]
	key, err := json.Marshal(q)
	if err != nil {
		return nil, "", err
	}
	return &q, string(key), nil
}

func parseStoredQuestions[T any](payload string, schema normalizer.Schema) ([]T, error) {
	res, err := normalizer.Normalize(payload, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidSession, err)
	}
	var out []T
	if err := normalizer.Decode(res.Value, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidSession, err)
	}
	return out, nil
}
