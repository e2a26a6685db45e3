package repository

import (
	"context"
	"mock_interview_backend/internal/model"

	"gorm.io/gorm"
)

type InterviewRepository struct {
	DB *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{DB: db}
}

func (r *InterviewRepository) Create(ctx context.Context, interview *model.MockInterview) error {
	return r.DB.WithContext(ctx).Create(interview).Error
}

func (r *InterviewRepository) FindByMockID(ctx context.Context, mockID string) (*model.MockInterview, error) {
	var interview model.MockInterview
	err := r.DB.WithContext(ctx).Where("mock_id = ?", mockID).First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

// ListByOwner 按创建时间倒序
func (r *InterviewRepository) ListByOwner(ctx context.Context, owner string) ([]model.MockInterview, error) {
	var list []model.MockInterview
	err := r.DB.WithContext(ctx).
		Where("created_by = ?", owner).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

type CodingInterviewRepository struct {
	DB *gorm.DB
}

func NewCodingInterviewRepository(db *gorm.DB) *CodingInterviewRepository {
	return &CodingInterviewRepository{DB: db}
}

func (r *CodingInterviewRepository) Create(ctx context.Context, interview *model.CodingInterview) error {
	return r.DB.WithContext(ctx).Create(interview).Error
}

func (r *CodingInterviewRepository) FindByInterviewID(ctx context.Context, interviewID string) (*model.CodingInterview, error) {
	var interview model.CodingInterview
	err := r.DB.WithContext(ctx).Where("interview_id = ?", interviewID).First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *CodingInterviewRepository) ListByOwner(ctx context.Context, owner string) ([]model.CodingInterview, error) {
	var list []model.CodingInterview
	err := r.DB.WithContext(ctx).
		Where("created_by = ?", owner).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}
