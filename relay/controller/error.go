package controller

import (
	"context"
	"net/http"

	"github.com/songquanpeng/image-studio/common/logger"
	"github.com/songquanpeng/image-studio/relay/model"
)

func ErrorWrapper(statusCode int, code string, message string) *model.ErrorWithStatusCode {
	return &model.ErrorWithStatusCode{
		StatusCode: statusCode,
		Error: model.Error{
			Message: message,
			Code:    code,
		},
	}
}

// InternalError logs the cause and hides it behind the generic 500 body.
func InternalError(ctx context.Context, code string, err error) *model.ErrorWithStatusCode {
	logger.Errorf(ctx, "%s: %+v", code, err)
	return ErrorWrapper(http.StatusInternalServerError, code, "Internal server error")
}
