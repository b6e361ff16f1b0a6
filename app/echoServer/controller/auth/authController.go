package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"smartlibrary/model"
	authsvc "smartlibrary/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Login authenticates an admin
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any "wrong username or password"
// @Router       /api/admin/login [post]
func (h *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	admin, token, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		if authsvc.Code(err) == authsvc.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "wrong username or password"})
		}
		h.Log.Error("admin login", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
		"user": echo.Map{
			"id":       admin.ID,
			"username": admin.Username,
			"fullname": admin.Fullname,
		},
	})
}
