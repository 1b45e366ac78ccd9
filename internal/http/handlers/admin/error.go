package admin

import (
	"errors"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.target.Error(), nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal},
}

var refundErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrStockDataBroken, code: response.CodeInternal},
}

var couponAdminErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound},
	{target: service.ErrCouponCodeExists, code: response.CodeBadRequest},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest},
}

var productAdminErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
	{target: service.ErrStockDataBroken, code: response.CodeInternal},
}

var categoryAdminErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound},
	{target: service.ErrCategorySlugExists, code: response.CodeBadRequest},
}

var postAdminErrorRules = []mappedHandlerError{
	{target: service.ErrPostNotFound, code: response.CodeNotFound},
	{target: service.ErrPostSlugExists, code: response.CodeBadRequest},
}
