package controller

import (
	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CodingInterviewController struct {
	InterviewService *service.InterviewService
	FeedbackService  *service.FeedbackService
}

func NewCodingInterviewController(interviewService *service.InterviewService, feedbackService *service.FeedbackService) *CodingInterviewController {
	return &CodingInterviewController{InterviewService: interviewService, FeedbackService: feedbackService}
}

type CreateCodingInterviewRequest struct {
	InterviewTopic      string `json:"interviewTopic" binding:"required"`
	DifficultyLevel     string `json:"difficultyLevel"`
	ProblemDescription  string `json:"problemDescription"`
	TimeLimit           int    `json:"timeLimit"`
	ProgrammingLanguage string `json:"programmingLanguage"`
}

type SubmitCodeAnswerRequest struct {
	QuestionIndex string `json:"questionIndex" binding:"required"`
	Language      string `json:"language" binding:"required"`
	Code          string `json:"code" binding:"required"`
	Explanation   string `json:"explanation"`
}

// @Summary 创建编程面试
// @Tags 编程面试
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCodingInterviewRequest true "面试设置"
// @Success 201 {object} util.Response{data=service.CodingInterviewDetail}
// @Router /api/coding-interviews [post]
func (c *CodingInterviewController) CreateCodingInterview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCodingInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	detail, err := c.InterviewService.CreateCodingInterview(ctx.Request.Context(), user.Identity(), service.CreateCodingInterviewInput{
		Topic:               req.InterviewTopic,
		DifficultyLevel:     req.DifficultyLevel,
		ProblemDescription:  req.ProblemDescription,
		TimeLimit:           req.TimeLimit,
		ProgrammingLanguage: req.ProgrammingLanguage,
	})
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Created(ctx, detail)
}

// @Summary 我的编程面试列表
// @Tags 编程面试
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/coding-interviews [get]
func (c *CodingInterviewController) ListCodingInterviews(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	interviews, err := c.InterviewService.ListCodingInterviews(ctx.Request.Context(), user.Identity())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: interviews, Total: len(interviews)})
}

// @Summary 编程面试详情
// @Tags 编程面试
// @Security BearerAuth
// @Produce json
// @Param interviewId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.CodingInterviewDetail}
// @Router /api/coding-interviews/{interviewId} [get]
func (c *CodingInterviewController) GetCodingInterview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.InterviewService.GetCodingInterview(ctx.Request.Context(), user.Identity(), ctx.Param("interviewId"))
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 提交代码
// @Tags 编程面试
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param interviewId path string true "会话ID"
// @Param request body SubmitCodeAnswerRequest true "题号、语言与代码"
// @Success 200 {object} util.Response
// @Router /api/coding-interviews/{interviewId}/answers [post]
func (c *CodingInterviewController) SubmitCodeAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitCodeAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.FeedbackService.SubmitCodeAnswer(ctx.Request.Context(), user.Identity(),
		ctx.Param("interviewId"), req.QuestionIndex, req.Language, req.Code, req.Explanation)
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	var answer any
	if sub.Answer != nil {
		answer = sub.Answer
	}
	util.Success(ctx, submissionData(sub.Feedback, answer, sub.Degraded, sub.SaveStatus))
}

// @Summary 会话内的代码作答记录
// @Tags 编程面试
// @Security BearerAuth
// @Produce json
// @Param interviewId path string true "会话ID"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/coding-interviews/{interviewId}/answers [get]
func (c *CodingInterviewController) ListCodeAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	answers, err := c.FeedbackService.ListCodeAnswers(ctx.Request.Context(), user.Identity(), ctx.Param("interviewId"))
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: answers, Total: len(answers)})
}

// @Summary 某题的当前代码作答
// @Tags 编程面试
// @Security BearerAuth
// @Produce json
// @Param interviewId path string true "会话ID"
// @Param questionIndex query string true "题号，从 0 开始"
// @Success 200 {object} util.Response{data=model.UserCodeAnswer}
// @Router /api/coding-interviews/{interviewId}/answers/current [get]
func (c *CodingInterviewController) CurrentCodeAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	answer, err := c.FeedbackService.CurrentCodeAnswer(ctx.Request.Context(), user.Identity(),
		ctx.Param("interviewId"), ctx.Query("questionIndex"))
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, answer)
}
