package view

import (
	stderrors "errors"

	"github.com/arthur-debert/lbi/pkg/errors"
)

// ErrorInfo is the serializable form of an error
type ErrorInfo struct {
	Code    errors.ErrorCode       `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Hint    string                 `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// NewErrorInfo extracts code, message, details and hint from err
func NewErrorInfo(err error) ErrorInfo {
	info := ErrorInfo{
		Code:    errors.GetErrorCode(err),
		Message: err.Error(),
		Details: errors.GetErrorDetails(err),
		Hint:    errors.Hint(err),
	}
	var lbiErr *errors.LbiError
	if stderrors.As(err, &lbiErr) {
		info.Message = lbiErr.Message
		if lbiErr.Wrapped != nil {
			info.Message += ": " + lbiErr.Wrapped.Error()
		}
	}
	return info
}
