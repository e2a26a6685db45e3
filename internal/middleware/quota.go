package middleware

import (
	"context"
	"net/http"
	"strconv"

	"mock_interview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Quota 内部按主体计数的额度检查；refund 归还本次占用，可为 nil
type Quota interface {
	Allow(ctx context.Context, subject string) (ok bool, remaining int64, refund func(context.Context))
}

// QuotaMiddleware 已登录按身份计数，匿名按客户端 IP；q 为 nil 时不限制。
// 请求未通过参数校验（400）时归还额度。
func QuotaMiddleware(q Quota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if q == nil {
			c.Next()
			return
		}

		subject := "ip:" + c.ClientIP()
		if claims := util.GetUserFromContext(c); claims != nil {
			subject = "user:" + claims.Identity()
		}

		ok, remaining, refund := q.Allow(c.Request.Context(), subject)
		c.Header("X-Quota-Remaining", strconv.FormatInt(remaining, 10))
		if !ok {
			util.AbortGeneration(c, http.StatusTooManyRequests, "Generation quota exceeded, please try again later", "")
			return
		}
		c.Next()

		if refund != nil && c.Writer.Status() == http.StatusBadRequest {
			refund(c.Request.Context())
		}
	}
}
