package public

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

var couponCheckErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest},
	{target: service.ErrCouponPerUserLimit, code: response.CodeBadRequest},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest},
}

var couponApplyErrorRules = append([]mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrCouponAlreadyApplied, code: response.CodeBadRequest},
}, couponCheckErrorRules...)

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
	{target: service.ErrProductInactive, code: response.CodeBadRequest},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
}

var cartCheckoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest},
	{target: service.ErrProductInactive, code: response.CodeBadRequest},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderEmpty, code: response.CodeBadRequest},
	{target: service.ErrOrderItemInvalid, code: response.CodeBadRequest},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest},
	{target: service.ErrProductInactive, code: response.CodeBadRequest},
	{target: service.ErrStockInsufficient, code: response.CodeBadRequest},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest},
}

var paymentCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrOrderStateInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentInvalid, code: response.CodeBadRequest},
	{target: service.ErrPaymentProviderNotSupported, code: response.CodeBadRequest},
}

var reviewCreateErrorRules = []mappedHandlerError{
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest},
	{target: service.ErrReviewNotAllowed, code: response.CodeBadRequest},
	{target: service.ErrReviewExists, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrProductNotFound, code: response.CodeNotFound},
}
