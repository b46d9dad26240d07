package router

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"gadgetry/internal/config"
	apperrors "gadgetry/internal/errors"
	"gadgetry/internal/handler"
	"gadgetry/internal/service"
)

// CurrentUserKey is the echo context key holding the resolved *model.User.
const CurrentUserKey = "currentUser"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	gadgetHandler *handler.GadgetHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = newHTTPErrorHandler(cfg)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Gadget routes: rate limited and JWT protected. The token signature is
	// checked first, then the subject is resolved against the user store so
	// tokens for deleted users are rejected.
	gadgets := api.Group("/gadgets",
		middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)),
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
			// Missing and malformed tokens are both 401 at this boundary.
			ErrorHandler: func(c echo.Context, err error) error {
				return apperrors.ErrNotAuthorized
			},
		}),
		resolveUser(authService),
	)

	gadgets.GET("", gadgetHandler.List)
	gadgets.POST("", gadgetHandler.Create)
	gadgets.PATCH("/:id", gadgetHandler.Update)
	gadgets.DELETE("/:id", gadgetHandler.Decommission)
	gadgets.POST("/:id/self-destruct", gadgetHandler.SelfDestruct)
}

// resolveUser loads the user named by the validated token and stores it in
// the request context.
func resolveUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwtv5.Token)
			if !ok {
				return apperrors.ErrNotAuthorized
			}
			subject, err := token.Claims.GetSubject()
			if err != nil {
				return apperrors.ErrNotAuthorized
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				return apperrors.ErrNotAuthorized
			}
			user, err := authService.ResolveUser(c.Request().Context(), userID)
			if err != nil {
				return err
			}
			c.Set(CurrentUserKey, user)
			return next(c)
		}
	}
}

// newHTTPErrorHandler maps errors to the boundary body shape
// {success:false, message, timestamp}. Stack information is attached only
// outside production.
func newHTTPErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperrors.HTTPStatus(err)
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(he.Code)
			}
		} else if status == http.StatusInternalServerError {
			c.Logger().Error(err)
			message = "internal server error"
		}

		body := apperrors.NewErrorResponse(message)
		if !cfg.IsProduction() && status == http.StatusInternalServerError {
			body.Stack = err.Error() + "\n" + string(debug.Stack())
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
