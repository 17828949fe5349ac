package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// bindFailed answers a binding error; validator failures use message, decode failures a generic one
func bindFailed(c *gin.Context, err error, message string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		message = msgInvalidPayload
	}
	response.Abort(c, http.StatusBadRequest, message, validation.ToDetails(err))
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := "All fields are required"
		if !validation.HasTag(err, "required") && validation.HasTag(err, "min") {
			msg = "Password must be at least 6 characters"
		}
		bindFailed(c, err, msg)
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Email and password are required")
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			helpers.LogInfo(h.Logger, "login rejected", logrus.Fields{"real_ip": c.GetString("real_ip")})
		}
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

// Me GET /api/auth/me (auth required)
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserResponse(u)})
}
