package response

import (
	"errors"
	"net/http"
	"time"

	"offerwall-rewards/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// Meta is attached to every enveloped response.
type Meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data any `json:"data"`
	Meta
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Meta
}

var errUnknown = apperror.New("SYS_000", "Internal server error", http.StatusInternalServerError)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta(c)})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, SuccessResponse{Data: data, Meta: meta(c)})
}

// Text sends a plain-text body for providers that parse literal sentinels.
func Text(c *gin.Context, status int, body string) {
	c.Data(status, "text/plain; charset=utf-8", []byte(body))
}

// JSON sends a bare JSON body for provider contracts with their own shape.
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Error writes err as an ErrorResponse. Errors that are not an
// *apperror.AppError anywhere in their chain become SYS_000; their text is
// never sent to the client.
func Error(c *gin.Context, err error) {
	appErr := errUnknown
	var target *apperror.AppError
	if errors.As(err, &target) {
		appErr = target
	}
	c.JSON(appErr.HTTPStatus, ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Meta:      meta(c),
	})
}

func meta(c *gin.Context) Meta {
	id := c.GetString(RequestIDKey)
	if id == "" {
		id = uuid.NewString()
	}
	return Meta{RequestID: id, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}
