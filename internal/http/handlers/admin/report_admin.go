package admin

import (
	"strconv"
	"time"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSalesReport 获取销售报表
// 时间范围参数为 RFC3339，缺省为最近 30 天。
func (h *Handler) GetSalesReport(c *gin.Context) {
	endAt := time.Now()
	startAt := endAt.AddDate(0, 0, -30)

	if raw := c.Query("start_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "起始时间格式无效", nil)
			return
		}
		startAt = parsed
	}
	if raw := c.Query("end_at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "结束时间格式无效", nil)
			return
		}
		endAt = parsed
	}

	topLimit, _ := strconv.Atoi(c.DefaultQuery("top_limit", "10"))

	report, err := h.ReportService.GetSalesReport(c.Request.Context(), startAt, endAt, topLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "生成销售报表失败", err)
		return
	}

	response.Success(c, report)
}
