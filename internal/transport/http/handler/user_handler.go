package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"user-admin-api/internal/domain"
	"user-admin-api/internal/transport/http/ez"
	"user-admin-api/internal/transport/http/validation"
)

// UserService handler 依赖的业务接口
type UserService interface {
	ListUsers(ctx context.Context, page, limit float64, filter *domain.UserFilter) (*domain.Paginated[domain.User], error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.User, bool, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	SoftDeleteUser(ctx context.Context, id string) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler { return &UserHandler{svc: svc} }

type idURI struct {
	ID string `uri:"id" binding:"required,user_id"`
}

type createUserBody struct {
	Name   string  `json:"name" binding:"required,min=2,max=100"`
	Email  string  `json:"email" binding:"required,email"`
	Status string  `json:"status" binding:"required,user_status"`
	Role   *string `json:"role" binding:"omitnil,user_role"`
}

// patchCheck 只校验请求里出现的字段
type patchCheck struct {
	Name   *string `json:"name" binding:"omitnil,min=2,max=100"`
	Email  *string `json:"email" binding:"omitnil,email"`
	Status *string `json:"status" binding:"omitnil,user_status"`
	Role   *string `json:"role" binding:"omitnil,user_role"`
}

type filterCheck struct {
	Name   string `json:"filter.name" binding:"omitempty,max=100"`
	Status string `json:"filter.status" binding:"omitempty,user_status"`
}

// createReply 新建 201，按 email 命中已有用户 200
type createReply struct {
	*domain.User
	created bool
}

func (r createReply) HTTPStatus() int {
	if r.created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *UserHandler) List(c *gin.Context, _ *struct{}) (*domain.Paginated[domain.User], error) {
	page, err := queryNumber(c, "page", 1)
	if err != nil {
		return nil, err
	}
	limit, err := queryNumber(c, "limit", 10)
	if err != nil {
		return nil, err
	}

	filter := queryFilter(c)
	if err := validation.Struct(&filterCheck{Name: filter.Name, Status: string(filter.Status)}); err != nil {
		return nil, err
	}
	return h.svc.ListUsers(c.Request.Context(), page, limit, filter)
}

func (h *UserHandler) Get(c *gin.Context, in *idURI) (*domain.User, error) {
	return h.svc.GetUser(c.Request.Context(), in.ID)
}

func (h *UserHandler) Create(c *gin.Context, in *createUserBody) (createReply, error) {
	input := domain.CreateUserInput{
		Name:   in.Name,
		Email:  in.Email,
		Status: domain.Status(in.Status),
	}
	if in.Role != nil {
		role := domain.Role(*in.Role)
		input.Role = &role
	}
	u, created, err := h.svc.CreateUser(c.Request.Context(), input)
	if err != nil {
		return createReply{}, err
	}
	return createReply{User: u, created: created}, nil
}

func (h *UserHandler) Update(c *gin.Context, in *idURI) (*domain.User, error) {
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		return nil, err
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return h.svc.UpdateUser(c.Request.Context(), in.ID, patch)
}

func (h *UserHandler) Delete(c *gin.Context, in *idURI) (ez.NoContent, error) {
	return ez.NoContent{}, h.svc.SoftDeleteUser(c.Request.Context(), in.ID)
}

func validatePatch(p domain.UserPatch) error {
	if p.Empty() {
		return domain.Validation("", "At least one field must be provided")
	}
	// role 可显式置空，其余字段不可为 null
	switch {
	case p.Name.Set && p.Name.Null:
		return domain.Validation("name", "name must not be null")
	case p.Email.Set && p.Email.Null:
		return domain.Validation("email", "email must not be null")
	case p.Status.Set && p.Status.Null:
		return domain.Validation("status", "status must not be null")
	}

	var chk patchCheck
	if p.Name.Set {
		chk.Name = &p.Name.Value
	}
	if p.Email.Set {
		chk.Email = &p.Email.Value
	}
	if p.Status.Set {
		s := string(p.Status.Value)
		chk.Status = &s
	}
	if p.Role.Set && !p.Role.Null {
		r := string(p.Role.Value)
		chk.Role = &r
	}
	return validation.Struct(&chk)
}

// queryNumber 缺省用 def；非数字 400；范围由 service 归一化
func queryNumber(c *gin.Context, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.Validation(key, key+" must be a number")
	}
	return f, nil
}

// queryFilter 同时支持 filter[name]=x 和 filter.name=x，方括号优先
func queryFilter(c *gin.Context) *domain.UserFilter {
	bracket := c.QueryMap("filter")
	get := func(k string) string {
		if v, ok := bracket[k]; ok {
			return v
		}
		return c.Query("filter." + k)
	}
	return &domain.UserFilter{
		Name:     get("name"),
		Status:   domain.Status(get("status")),
		FromDate: get("fromDate"),
		ToDate:   get("toDate"),
	}
}

// MountAPI 实现 router.APIModule
func (h *UserHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Paginated[domain.User]]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindNone, Handler: h.List,
	})
	ez.RegisterAction(e, ez.Action[createUserBody, createReply]{
		Method: http.MethodPost, Path: "/users", Binder: ez.BindJSON, Handler: h.Create,
	})
	ez.RegisterAction(e, ez.Action[idURI, *domain.User]{
		Method: http.MethodGet, Path: "/users/:id", Binder: ez.BindURI, Handler: h.Get,
	})
	ez.RegisterAction(e, ez.Action[idURI, *domain.User]{
		Method: http.MethodPatch, Path: "/users/:id", Binder: ez.BindURI, Handler: h.Update,
	})
	ez.RegisterAction(e, ez.Action[idURI, ez.NoContent]{
		Method: http.MethodDelete, Path: "/users/:id", Binder: ez.BindURI, Handler: h.Delete,
	})
}
