package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"smartlibrary/app/echoServer/controller/auth"
	"smartlibrary/app/echoServer/controller/book"
	"smartlibrary/app/echoServer/controller/borrowing"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Borrowing *borrowing.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/api/admin/login", c.Auth.Login)
	e.GET("/api/books", c.Book.List)

	// Staff
	staff := e.Group("/api")
	staff.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	staff.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("admin_id", int64(sub))
			return next(ctx)
		}
	})

	// Catalog
	staff.POST("/books", c.Book.Create)
	staff.PUT("/books/:id", c.Book.Update)
	staff.DELETE("/books/:id", c.Book.Delete)

	// Circulation
	staff.POST("/books/:bookId/borrow", c.Borrowing.Borrow)
	staff.DELETE("/books/:bookId/borrowings/:borrowingId", c.Borrowing.Return)
}
