package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	"github.com/aaravmahajanofficial/online-bookstore/internal/models"
	service "github.com/aaravmahajanofficial/online-bookstore/internal/services"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils"
	"github.com/aaravmahajanofficial/online-bookstore/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.String("username", req.Username), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.Int64("userId", user.ID))
		response.Success(w, http.StatusCreated, user)
	}
}

// Login answers 401 for bad credentials and 429 once the attempt window is exhausted.
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		logger = logger.With(slog.String("username", req.Username))

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
			}

			logger.Warn("Login rejected", slog.Int("status", status))
			response.WriteJson(w, status, resp)
			return
		}

		logger.Info("User logged in")
		response.WriteJson(w, http.StatusOK, resp)
	}
}
