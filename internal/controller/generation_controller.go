package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mock_interview_backend/internal/sandbox"
	"mock_interview_backend/internal/service"
	"mock_interview_backend/internal/util"
	"mock_interview_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CodeFormatter 格式化提交的代码
type CodeFormatter interface {
	Format(ctx context.Context, language, code string) (string, error)
}

type GenerationController struct {
	InterviewService *service.InterviewService
	FeedbackService  *service.FeedbackService
	Formatter        CodeFormatter
	Runner           sandbox.Runner
}

func NewGenerationController(
	interviewService *service.InterviewService,
	feedbackService *service.FeedbackService,
	formatter CodeFormatter,
	runner sandbox.Runner,
) *GenerationController {
	return &GenerationController{
		InterviewService: interviewService,
		FeedbackService:  feedbackService,
		Formatter:        formatter,
		Runner:           runner,
	}
}

type InterviewQuestionsForm struct {
	JobPosition       string `form:"jobPosition"`
	JobDescription    string `form:"jobDescription"`
	YearsOfExperience string `form:"yearsOfExperience"`
	ResumeText        string `form:"resumeText"`
}

type CodingQuestionsForm struct {
	Topic      string `form:"topic"`
	Difficulty string `form:"difficulty"`
}

type AnswerFeedbackRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CodeFeedbackRequest struct {
	Question    string `json:"question"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

type CodeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

func generatedAt() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// feedbackEnvelope 降级时附带顶层 error 与 metadata.error
func feedbackEnvelope(feedback any, degraded bool, extra gin.H) gin.H {
	metadata := gin.H{"generatedAt": generatedAt()}
	for k, v := range extra {
		metadata[k] = v
	}
	body := gin.H{"feedback": feedback, "metadata": metadata}
	if degraded {
		body["error"] = util.ParseErrorDetail
		metadata["error"] = true
	}
	return body
}

// @Summary 生成面试题
// @Description 按岗位信息生成 5 道面试题
// @Tags 生成
// @Accept x-www-form-urlencoded
// @Produce json
// @Param jobPosition formData string true "岗位"
// @Param jobDescription formData string true "岗位描述"
// @Param yearsOfExperience formData string false "工作年限"
// @Param resumeText formData string false "简历文本"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Failure 504 {object} util.GenerationError
// @Router /api/interview-questions [post]
func (c *GenerationController) InterviewQuestions(ctx *gin.Context) {
	var form InterviewQuestionsForm
	if err := ctx.ShouldBind(&form); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	if strings.TrimSpace(form.JobPosition) == "" || strings.TrimSpace(form.JobDescription) == "" {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Job position and description are required", "")
		return
	}

	questions, err := c.InterviewService.GenerateInterviewQuestions(ctx.Request.Context(), service.CreateInterviewInput{
		JobPosition:       form.JobPosition,
		JobDescription:    form.JobDescription,
		YearsOfExperience: form.YearsOfExperience,
		ResumeText:        form.ResumeText,
	})
	if err != nil {
		generationFailure(ctx, "Failed to generate interview questions", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"metadata": gin.H{
			"jobPosition": form.JobPosition,
			"generatedAt": generatedAt(),
		},
	})
}

// @Summary 面试题接口说明
// @Tags 生成
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/interview-questions [get]
func (c *GenerationController) InterviewQuestionsInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Interview Question Generator API",
		"endpoints": gin.H{
			"POST": "Generate custom interview questions",
			"requiredParams": []string{
				"jobPosition (required)",
				"jobDescription (required)",
				"yearsOfExperience (optional)",
				"resumeText (optional)",
			},
		},
	})
}

// @Summary 生成编程题
// @Description 按主题生成 3 道编程题，附 C++ 与 Java 参考解
// @Tags 生成
// @Accept x-www-form-urlencoded
// @Produce json
// @Param topic formData string true "主题"
// @Param difficulty formData string false "难度"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Router /api/coding-questions [post]
func (c *GenerationController) CodingQuestions(ctx *gin.Context) {
	var form CodingQuestionsForm
	if err := ctx.ShouldBind(&form); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	topic := strings.TrimSpace(form.Topic)
	if topic == "" {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Topic is required and must be a non-empty string", "")
		return
	}

	questions, err := c.InterviewService.GenerateCodingQuestions(ctx.Request.Context(), topic, form.Difficulty)
	if err != nil {
		generationFailure(ctx, "Failed to generate coding questions", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"metadata": gin.H{
			"topic":       topic,
			"generatedAt": generatedAt(),
		},
	})
}

// @Summary 编程题接口说明
// @Tags 生成
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/coding-questions [get]
func (c *GenerationController) CodingQuestionsInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Coding Questions Generator API",
		"version": "1.0",
		"endpoints": gin.H{
			"POST": gin.H{
				"description": "Generate custom coding questions",
				"requiredParams": gin.H{
					"topic":      "string (required) - The programming topic to generate questions for",
					"difficulty": "string (optional) - Target difficulty level",
				},
				"responseFormat": gin.H{
					"questions": "Array of coding questions with detailed structure",
					"metadata": gin.H{
						"topic":       "string - The requested topic",
						"generatedAt": "ISO timestamp",
					},
				},
			},
		},
	})
}

// @Summary 面试回答反馈
// @Description 解析失败时返回 200 与兜底反馈，metadata.error=true
// @Tags 生成
// @Accept json
// @Produce json
// @Param request body AnswerFeedbackRequest true "题目与回答"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Failure 500 {object} util.GenerationError
// @Failure 504 {object} util.GenerationError
// @Router /api/generate-feedback [post]
func (c *GenerationController) AnswerFeedback(ctx *gin.Context) {
	var req AnswerFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Question and answer are required and cannot be empty", "")
		return
	}

	res, err := c.FeedbackService.AnswerFeedback(ctx.Request.Context(), req.Question, req.Answer)
	if err != nil {
		generationFailure(ctx, "Failed to generate feedback", err)
		return
	}

	ctx.JSON(http.StatusOK, feedbackEnvelope(res.Feedback, res.Degraded, nil))
}

// @Summary 回答反馈接口说明
// @Tags 生成
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/generate-feedback [get]
func (c *GenerationController) AnswerFeedbackInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Interview Answer Feedback Generator API",
		"status":  "operational",
		"endpoints": gin.H{
			"POST": gin.H{
				"description": "Generate feedback for interview answers",
				"requiredParams": gin.H{
					"question": "The interview question (required)",
					"answer":   "The user's answer (required)",
				},
				"returns": gin.H{
					"feedback": gin.H{
						"rating":   "number (1-10)",
						"feedback": "string",
					},
					"metadata": gin.H{"generatedAt": "ISO timestamp"},
				},
			},
		},
	})
}

// @Summary 代码反馈
// @Tags 生成
// @Accept json
// @Produce json
// @Param request body CodeFeedbackRequest true "题目、代码与思路说明"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Failure 500 {object} util.GenerationError
// @Failure 504 {object} util.GenerationError
// @Router /api/coding-questions-feedback [post]
func (c *GenerationController) CodeFeedback(ctx *gin.Context) {
	var req CodeFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Code) == "" {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Question and code are required and cannot be empty", "")
		return
	}

	res, err := c.FeedbackService.CodeFeedback(ctx.Request.Context(), req.Question, req.Code, req.Explanation)
	if err != nil {
		generationFailure(ctx, "Failed to generate feedback", err)
		return
	}

	ctx.JSON(http.StatusOK, feedbackEnvelope(res.Feedback, res.Degraded, gin.H{
		"questionLength": len(req.Question),
		"codeLength":     len(req.Code),
	}))
}

// @Summary 代码反馈接口说明
// @Tags 生成
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/coding-questions-feedback [get]
func (c *GenerationController) CodeFeedbackInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Coding Question Feedback Generator API",
		"status":  "operational",
		"endpoints": gin.H{
			"POST": gin.H{
				"description": "Generate feedback for coding solutions",
				"requiredParams": gin.H{
					"question":    "The coding question (required)",
					"code":        "The solution code (required)",
					"explanation": "The candidate's explanation (optional)",
				},
				"returns": gin.H{
					"feedback": gin.H{
						"rating":            "overall rating (1-10)",
						"technicalAccuracy": "technical accuracy rating (1-10)",
						"codeQuality":       "code quality rating (1-10)",
						"feedback": gin.H{
							"strengths":          "array of strength points",
							"improvements":       "array of improvement suggestions",
							"complexityAnalysis": "time/space complexity analysis",
							"bestPractices":      "array of best practices points",
						},
					},
					"metadata": gin.H{"generatedAt": "ISO timestamp"},
				},
			},
		},
	})
}

// @Summary 编译运行代码
// @Description 转发到远程沙箱，仅支持 java 与 cpp
// @Tags 代码
// @Accept json
// @Produce json
// @Param request body CodeRequest true "语言与代码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Failure 500 {object} util.GenerationError
// @Router /api/compile [post]
func (c *GenerationController) Compile(ctx *gin.Context) {
	var req CodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	output, err := c.Runner.Run(ctx.Request.Context(), req.Language, req.Code)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, gin.H{"output": output})
	case errors.Is(err, util.ErrUnsupportedLanguage):
		util.AbortGeneration(ctx, http.StatusBadRequest, "Unsupported language", "")
	case errors.Is(err, util.ErrExecutionFailed):
		util.AbortGeneration(ctx, http.StatusInternalServerError, "Compilation or execution failed", "")
	case errors.Is(err, util.ErrTimeout):
		util.AbortGeneration(ctx, http.StatusGatewayTimeout, "Request timed out", "")
	default:
		logger.Log.Error("Sandbox call failed", zap.String("language", req.Language), zap.Error(err))
		util.AbortGeneration(ctx, http.StatusInternalServerError, "Internal server error", "")
	}
}

// @Summary 编译接口说明
// @Tags 代码
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/compile [get]
func (c *GenerationController) CompileInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Code Execution API",
		"status":  "operational",
		"endpoints": gin.H{
			"POST": gin.H{
				"description":    "Compile and run code in a remote sandbox",
				"requiredParams": gin.H{"language": "java | cpp", "code": "source code"},
				"returns":        gin.H{"output": "combined program output"},
			},
		},
		"languages": util.SupportedLanguages,
	})
}

// @Summary 格式化代码
// @Description java 失败时返回 422 并附原始代码
// @Tags 代码
// @Accept json
// @Produce json
// @Param request body CodeRequest true "语言与代码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.GenerationError
// @Failure 422 {object} map[string]interface{}
// @Router /api/format [post]
func (c *GenerationController) Format(ctx *gin.Context) {
	var req CodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.AbortGeneration(ctx, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	formatted, err := c.Formatter.Format(ctx.Request.Context(), req.Language, req.Code)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedLanguage) {
			util.AbortGeneration(ctx, http.StatusBadRequest, "Unsupported language", "")
			return
		}
		logger.Log.Warn("Code formatting failed", zap.String("language", req.Language), zap.Error(err))
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to format code",
			"details": err.Error(),
			"code":    req.Code,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": formatted, "language": req.Language})
}

// @Summary 格式化接口说明
// @Tags 代码
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/format [get]
func (c *GenerationController) FormatInfo(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Code Formatter API",
		"status":  "operational",
		"endpoints": gin.H{
			"POST": gin.H{
				"description":    "Re-indent source code",
				"requiredParams": gin.H{"language": "java | cpp", "code": "source code"},
				"returns":        gin.H{"code": "formatted source", "language": "string"},
			},
		},
		"languages": util.SupportedLanguages,
	})
}

