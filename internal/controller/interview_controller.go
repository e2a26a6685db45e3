package controller

import (
	"errors"
	"net/http"

	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InterviewController struct {
	InterviewService *service.InterviewService
	FeedbackService  *service.FeedbackService
}

func NewInterviewController(interviewService *service.InterviewService, feedbackService *service.FeedbackService) *InterviewController {
	return &InterviewController{InterviewService: interviewService, FeedbackService: feedbackService}
}

type SubmitAnswerRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// submissionData 作答结果；保存失败时 saved=false 并附 saveError
func submissionData(feedback any, answer any, degraded bool, status service.SaveStatus) gin.H {
	metadata := gin.H{
		"generatedAt": generatedAt(),
		"saved":       status.Saved,
	}
	if status.Outcome != "" {
		metadata["outcome"] = status.Outcome
	}
	if status.SaveError != "" {
		metadata["saveError"] = status.SaveError
	}
	data := gin.H{"feedback": feedback, "metadata": metadata}
	if answer != nil {
		data["answer"] = answer
	}
	if degraded {
		data["error"] = util.ParseErrorDetail
		metadata["error"] = true
	}
	return data
}

// @Summary 创建模拟面试
// @Description 生成题目并保存会话，可附带 PDF 简历（不超过 5MB）
// @Tags 模拟面试
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param jobPosition formData string true "岗位"
// @Param jobDescription formData string true "岗位描述"
// @Param yearsOfExperience formData string false "工作年限"
// @Param resumeText formData string false "简历文本"
// @Param resume formData file false "简历 PDF"
// @Success 201 {object} util.Response{data=service.InterviewDetail}
// @Router /api/interviews [post]
func (c *InterviewController) CreateInterview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var form InterviewQuestionsForm
	if err := ctx.ShouldBind(&form); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resume, err := ctx.FormFile("resume")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		util.BadRequest(ctx, "Invalid resume upload")
		return
	}

	detail, err := c.InterviewService.CreateInterview(ctx.Request.Context(), user.Identity(), service.CreateInterviewInput{
		JobPosition:       form.JobPosition,
		JobDescription:    form.JobDescription,
		YearsOfExperience: form.YearsOfExperience,
		ResumeText:        form.ResumeText,
		Resume:            resume,
	})
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Created(ctx, detail)
}

// @Summary 我的模拟面试列表
// @Tags 模拟面试
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/interviews [get]
func (c *InterviewController) ListInterviews(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	interviews, err := c.InterviewService.ListInterviews(ctx.Request.Context(), user.Identity())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: interviews, Total: len(interviews)})
}

// @Summary 模拟面试详情
// @Tags 模拟面试
// @Security BearerAuth
// @Produce json
// @Param mockId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.InterviewDetail}
// @Router /api/interviews/{mockId} [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.InterviewService.GetInterview(ctx.Request.Context(), user.Identity(), ctx.Param("mockId"))
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// @Summary 提交回答
// @Description 生成反馈并保存，同一题目只保留最新一次作答
// @Tags 模拟面试
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param mockId path string true "会话ID"
// @Param request body SubmitAnswerRequest true "题目与回答"
// @Success 200 {object} util.Response
// @Router /api/interviews/{mockId}/answers [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.FeedbackService.SubmitAnswer(ctx.Request.Context(), user.Identity(), ctx.Param("mockId"), req.Question, req.Answer)
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

// @Summary 会话内的作答记录
// @Tags 模拟面试
// @Security BearerAuth
// @Produce json
// @Param mockId path string true "会话ID"
// @Success 200 {object} util.Response{data=util.ListResponse}
// @Router /api/interviews/{mockId}/answers [get]
func (c *InterviewController) ListAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	answers, err := c.FeedbackService.ListAnswers(ctx.Request.Context(), user.Identity(), ctx.Param("mockId"))
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, util.ListResponse{List: answers, Total: len(answers)})
}

// @Summary 某题的当前作答
// @Tags 模拟面试
// @Security BearerAuth
// @Produce json
// @Param mockId path string true "会话ID"
// @Param question query string true "题目原文"
// @Success 200 {object} util.Response{data=model.UserAnswer}
// @Router /api/interviews/{mockId}/answers/current [get]
func (c *InterviewController) CurrentAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	question := ctx.Query("question")
	if question == "" {
		util.BadRequest(ctx, "question is required")
		return
	}

	answer, err := c.FeedbackService.CurrentAnswer(ctx.Request.Context(), user.Identity(), ctx.Param("mockId"), question)
	if err != nil {
		sessionFailure(ctx, err)
		return
	}

	util.Success(ctx, answer)
}
