package repository

import (
	"context"
	"mock_interview_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)

var (
	answerConflictColumns = []clause.Column{{Name: "mock_id_ref"}, {Name: "question_digest"}, {Name: "user_email"}}
	answerUpdateColumns   = []string{"user_ans", "correct_answer", "feedback", "rating", "submitted_at", "updated_at"}

	codeAnswerConflictColumns = []clause.Column{{Name: "interview_id_ref"}, {Name: "question_digest"}, {Name: "user_email"}}
	codeAnswerUpdateColumns   = []string{"user_answer", "correct_answer", "feedback", "rating", "language", "submitted_at", "updated_at"}
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Upsert 单条 INSERT ... ON CONFLICT DO UPDATE，由唯一索引裁决并发写入。
// 预查询只用于区分 created / updated，并发下该标记可能不准确，数据本身不受影响。
func (r *AnswerRepository) Upsert(ctx context.Context, answer *model.UserAnswer) (UpsertOutcome, error) {
	answer.ID = 0
	answer.QuestionDigest = model.QuestionDigest(answer.Question)

	db := r.DB.WithContext(ctx)
	key := db.Where("mock_id_ref = ? AND question_digest = ? AND user_email = ?",
		answer.MockIDRef, answer.QuestionDigest, answer.UserEmail)

	var existing int64
	if err := key.Session(&gorm.Session{}).Model(&model.UserAnswer{}).Count(&existing).Error; err != nil {
		return "", err
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   answerConflictColumns,
		DoUpdates: clause.AssignmentColumns(answerUpdateColumns),
	}).Create(answer).Error
	if err != nil {
		return "", err
	}

	// 冲突更新时实体上的 id / created_at 不可靠，回读一次
	var stored model.UserAnswer
	if err := key.Session(&gorm.Session{}).First(&stored).Error; err != nil {
		return "", err
	}
	*answer = stored

	if existing > 0 {
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}

// FindCurrent 按原文精确匹配题目
func (r *AnswerRepository) FindCurrent(ctx context.Context, mockID, question, userEmail string) (*model.UserAnswer, error) {
	var answer model.UserAnswer
	err := r.DB.WithContext(ctx).
		Where("mock_id_ref = ? AND question_digest = ? AND user_email = ? AND question = ?",
			mockID, model.QuestionDigest(question), userEmail, question).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepository) ListBySession(ctx context.Context, mockID, userEmail string) ([]model.UserAnswer, error) {
	var list []model.UserAnswer
	err := r.DB.WithContext(ctx).
		Where("mock_id_ref = ? AND user_email = ?", mockID, userEmail).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *AnswerRepository) CountByKey(ctx context.Context, mockID, question, userEmail string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserAnswer{}).
		Where("mock_id_ref = ? AND question_digest = ? AND user_email = ?", mockID, model.QuestionDigest(question), userEmail).
		Count(&n).Error
	return n, err
}

type CodeAnswerRepository struct {
	DB *gorm.DB
}

func NewCodeAnswerRepository(db *gorm.DB) *CodeAnswerRepository {
	return &CodeAnswerRepository{DB: db}
}

func (r *CodeAnswerRepository) Upsert(ctx context.Context, answer *model.UserCodeAnswer) (UpsertOutcome, error) {
	answer.ID = 0
	answer.QuestionDigest = model.QuestionDigest(answer.Question)

	db := r.DB.WithContext(ctx)
	key := db.Where("interview_id_ref = ? AND question_digest = ? AND user_email = ?",
		answer.InterviewIDRef, answer.QuestionDigest, answer.UserEmail)

	var existing int64
	if err := key.Session(&gorm.Session{}).Model(&model.UserCodeAnswer{}).Count(&existing).Error; err != nil {
		return "", err
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   codeAnswerConflictColumns,
		DoUpdates: clause.AssignmentColumns(codeAnswerUpdateColumns),
	}).Create(answer).Error
	if err != nil {
		return "", err
	}

	var stored model.UserCodeAnswer
	if err := key.Session(&gorm.Session{}).First(&stored).Error; err != nil {
		return "", err
	}
	*answer = stored

	if existing > 0 {
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}

func (r *CodeAnswerRepository) FindCurrent(ctx context.Context, interviewID, question, userEmail string) (*model.UserCodeAnswer, error) {
	var answer model.UserCodeAnswer
	err := r.DB.WithContext(ctx).
		Where("interview_id_ref = ? AND question_digest = ? AND user_email = ? AND question = ?",
			interviewID, model.QuestionDigest(question), userEmail, question).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *CodeAnswerRepository) ListBySession(ctx context.Context, interviewID, userEmail string) ([]model.UserCodeAnswer, error) {
	var list []model.UserCodeAnswer
	err := r.DB.WithContext(ctx).
		Where("interview_id_ref = ? AND user_email = ?", interviewID, userEmail).
		Order("id ASC").
		Find(&list).Error
	return list, err
}
