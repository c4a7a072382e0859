package logging

import (
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
)

func HandleAWSError(err *http.ResponseError, service string, operation string) {
	lm := GetLogManager()
	switch err.HTTPStatusCode() {
	case 400:
		lm.Error("AWS request rejected", "service", service, "operation", operation, "err", err.Unwrap())
	case 403:
		lm.Error("Permission denied", "service", service, "operation", operation)
	default:
		lm.Error("AWS request failed", "service", service, "operation", operation, "status", err.HTTPStatusCode(), "err", err.ResponseError)
	}
}

func HandleError(err error, service string, operation string, exitOnError ...bool) {
	lm := GetLogManager()
	if len(exitOnError) >= 1 && !exitOnError[0] {
		lm.Warn("Operation failed", "service", service, "operation", operation, "err", err)
	} else {
		lm.Error("Operation failed", "service", service, "operation", operation, "err", err)
	}
}
