package ez

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"user-admin-api/internal/domain"
	mdw "user-admin-api/internal/transport/http/middleware"
	resp "user-admin-api/internal/transport/http/response"
	"user-admin-api/internal/transport/http/validation"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式，可组合：BindURI|BindJSON
type Binder uint8

const (
	BindNone Binder = 0
	BindURI  Binder = 1 << iota // 路径参数 :id
	BindQuery
	BindJSON
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// StatusCoder 出参可自定义状态码（201/204 等）
type StatusCoder interface{ HTTPStatus() int }

// NoContent 204，无响应体
type NoContent struct{}

func (NoContent) HTTPStatus() int { return http.StatusNoContent }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PATCH | PUT | DELETE
	Path    string // 例："/users/:id"
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定 -> 执行 -> 统一错误映射
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			WriteError(c, e.log, err)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}

		status := http.StatusOK
		if sc, ok := any(out).(StatusCoder); ok {
			status = sc.HTTPStatus()
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	if b&BindURI != 0 {
		if err := c.ShouldBindUri(in); err != nil {
			return err
		}
	}
	if b&BindQuery != 0 {
		if err := c.ShouldBindQuery(in); err != nil {
			return err
		}
	}
	if b&BindJSON != 0 {
		if err := c.ShouldBindJSON(in); err != nil {
			return err
		}
	}
	return nil
}

// WriteError 错误 -> 状态码 + 错误体；未知错误只记日志，不把细节返回给调用方
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	code, body := MapError(err)
	if code >= http.StatusInternalServerError {
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(code, body)
}

// MapError 集中的错误映射
func MapError(err error) (int, resp.ErrorBody) {
	var (
		ae      *AErr
		de      *domain.Error
		ves     validator.ValidationErrors
		tooBig  *http.MaxBytesError
		syntax  *json.SyntaxError
		typeErr *json.UnmarshalTypeError
		numErr  *strconv.NumError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			return ae.Code, resp.Error(ae.Code, "")
		}
		return ae.Code, resp.Error(ae.Code, ae.Error())

	case errors.As(err, &ves):
		return http.StatusBadRequest, resp.Invalid("Validation failed", validation.FormatErrors(ves))

	case errors.As(err, &de):
		switch {
		case errors.Is(de, domain.ErrValidation):
			var fields []resp.FieldError
			if de.Field != "" {
				fields = []resp.FieldError{{Field: de.Field, Message: de.Message}}
			}
			return http.StatusBadRequest, resp.Invalid(de.Message, fields)
		case errors.Is(de, domain.ErrNotFound):
			return http.StatusNotFound, resp.Error(resp.CodeNotFound, de.Message)
		case errors.Is(de, domain.ErrConflict):
			return http.StatusConflict, resp.Error(resp.CodeConflict, de.Message)
		}

	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, "request body too large")

	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "malformed JSON body")

	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "request body is required")

	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return http.StatusBadRequest, resp.Invalid("Validation failed", []resp.FieldError{{
			Field:   field,
			Message: field + " has an invalid type",
		}})

	case errors.As(err, &numErr):
		return http.StatusBadRequest, resp.Error(resp.CodeBadRequest, "invalid number: "+numErr.Num)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp.Error(resp.CodeTimeout, "timeout")
	}
	return http.StatusInternalServerError, resp.Error(resp.CodeServerError, "")
}
