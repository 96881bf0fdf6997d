package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/auth"
	bookctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/book"
	checkoutctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/checkout"
	reportctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/report"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/jwtx"
)

type C struct {
	Auth     *authctrl.Controller
	Book     *bookctrl.Controller
	Checkout *checkoutctrl.Controller
	Report   *reportctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			if role, err := jwtx.RoleFromContext(ctx); err == nil {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Books
	auth.GET("/books", c.Book.List)
	auth.GET("/books/:id", c.Book.Detail)
	auth.GET("/books/:id/availability", c.Checkout.Availability)
	// Admin endpoints
	auth.POST("/books", c.Book.Create)
	auth.POST("/books/:id/copies", c.Book.AddCopies)

	// Borrow / return lifecycle
	auth.POST("/borrow/:bookId", c.Checkout.Borrow)
	auth.PUT("/return/:bookId", c.Checkout.Return)
	auth.GET("/checkouts/:userId", c.Checkout.ListForUser)

	// Staff reporting (admin)
	auth.GET("/reports/most-borrowed", c.Report.MostBorrowed)
	auth.GET("/reports/overdue", c.Report.Overdue)
	auth.GET("/reports/availability", c.Report.Availability)
	auth.GET("/reports/integrity", c.Report.Integrity)
}
