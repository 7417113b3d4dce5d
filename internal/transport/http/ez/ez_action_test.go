package ez

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-admin-api/internal/domain"
	resp "user-admin-api/internal/transport/http/response"
	"user-admin-api/internal/transport/http/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type itemURI struct {
	ID string `uri:"id" binding:"required,user_id"`
}

type itemBody struct {
	Name string `json:"name" binding:"required,min=2"`
}

type created struct {
	Name string `json:"name"`
}

func (created) HTTPStatus() int { return http.StatusCreated }

func newEngine(t *testing.T) (*gin.Engine, EZ) {
	t.Helper()
	require.NoError(t, validation.Setup())
	r := gin.New()
	return r, New(r.Group("/v1"), zap.NewNop())
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) resp.ErrorBody {
	t.Helper()
	var b resp.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestRegisterAction_Statuses(t *testing.T) {
	r, e := newEngine(t)
	const id = "11111111-1111-4111-8111-111111111111"

	RegisterAction(e, Action[itemBody, created]{
		Method: http.MethodPost, Path: "/items", Binder: BindJSON,
		Handler: func(_ *gin.Context, in *itemBody) (created, error) { return created{Name: in.Name}, nil },
	})
	RegisterAction(e, Action[itemURI, gin.H]{
		Method: http.MethodGet, Path: "/items/:id", Binder: BindURI,
		Handler: func(_ *gin.Context, in *itemURI) (gin.H, error) { return gin.H{"id": in.ID}, nil },
	})
	RegisterAction(e, Action[itemURI, NoContent]{
		Method: http.MethodDelete, Path: "/items/:id", Binder: BindURI,
		Handler: func(*gin.Context, *itemURI) (NoContent, error) { return NoContent{}, nil },
	})

	w := do(r, http.MethodPost, "/v1/items", `{"name":"box"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"box"}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/items/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/v1/items/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRegisterAction_BindErrors(t *testing.T) {
	r, e := newEngine(t)
	called := false
	RegisterAction(e, Action[itemBody, gin.H]{
		Method: http.MethodPost, Path: "/items", Binder: BindJSON,
		Handler: func(*gin.Context, *itemBody) (gin.H, error) { called = true; return gin.H{}, nil },
	})
	RegisterAction(e, Action[itemURI, gin.H]{
		Method: http.MethodGet, Path: "/items/:id", Binder: BindURI,
		Handler: func(*gin.Context, *itemURI) (gin.H, error) { called = true; return gin.H{}, nil },
	})

	w := do(r, http.MethodPost, "/v1/items", `{"name":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	b := decodeErr(t, w)
	assert.Equal(t, "Validation failed", b.Message)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, "name", b.Fields[0].Field)

	w = do(r, http.MethodPost, "/v1/items", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed JSON body", decodeErr(t, w).Message)

	w = do(r, http.MethodGet, "/v1/items/not-a-uuid", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	b = decodeErr(t, w)
	require.Len(t, b.Fields, 1)
	assert.Equal(t, "id must be a UUID", b.Fields[0].Message)

	assert.False(t, called)
}

func TestRegisterAction_HandlerErrorIsMapped(t *testing.T) {
	r, e := newEngine(t)
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodGet, Path: "/boom", Binder: BindNone,
		Handler: func(*gin.Context, *struct{}) (gin.H, error) {
			return nil, fmt.Errorf("db: %w", errors.New("connection reset"))
		},
	})

	w := do(r, http.MethodGet, "/v1/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	b := decodeErr(t, w)
	assert.Equal(t, "Internal Server Error", b.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"action bad request", BadRequest("nope"), 400, "nope"},
		{"action not found", NotFound("missing"), 404, "missing"},
		{"action internal hides detail", Internal("secret", errors.New("x")), 500, "Internal Server Error"},
		{"domain not found", domain.NotFound("User 1 not found"), 404, "User 1 not found"},
		{"domain conflict", fmt.Errorf("wrap: %w", domain.Conflict("Email already exists")), 409, "Email already exists"},
		{"domain validation", domain.Validation("", "At least one field must be provided"), 400, "At least one field must be provided"},
		{"body too large", &http.MaxBytesError{Limit: 10}, 413, "request body too large"},
		{"unexpected eof", io.ErrUnexpectedEOF, 400, "malformed JSON body"},
		{"empty body", io.EOF, 400, "request body is required"},
		{"deadline", context.DeadlineExceeded, 504, "timeout"},
		{"unknown", errors.New("boom"), 500, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := MapError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestMapError_FieldDetails(t *testing.T) {
	_, body := MapError(domain.Validation("page", "page must be a number"))
	assert.Equal(t, []resp.FieldError{{Field: "page", Message: "page must be a number"}}, body.Fields)

	var target struct {
		Name string `json:"name"`
	}
	err := json.Unmarshal([]byte(`{"name":5}`), &target)
	code, body := MapError(err)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "name", body.Fields[0].Field)
}
