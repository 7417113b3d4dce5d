package response

import "net/http"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody 统一错误体；成功时直接返回资源本身
type ErrorBody struct {
	Code    int          `json:"code"`
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func statusText(code int) string {
	if msg, ok := CodeMsgMap[code]; ok {
		return msg
	}
	return http.StatusText(code)
}

// Error 失败响应（customMsg 为空时用默认文案）
func Error(code int, customMsg string) ErrorBody {
	text := statusText(code)
	msg := text
	if customMsg != "" {
		msg = customMsg
	}
	return ErrorBody{Code: code, Error: text, Message: msg}
}

// Invalid 400 + 字段级错误
func Invalid(msg string, fields []FieldError) ErrorBody {
	b := Error(CodeBadRequest, msg)
	b.Fields = fields
	return b
}
