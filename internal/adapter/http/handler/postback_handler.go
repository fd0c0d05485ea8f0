package handler

import (
	"errors"
	"net/http"
	"strings"

	"offerwall-rewards/internal/adapter/offerwall"
	"offerwall-rewards/internal/core/ports"
	"offerwall-rewards/pkg/apperror"
	"offerwall-rewards/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostbackHandler serves GET/POST /postback/:provider for every offerwall.
type PostbackHandler struct {
	registry *offerwall.Registry
	svc      ports.PostbackService
	log      zerolog.Logger
}

func NewPostbackHandler(registry *offerwall.Registry, svc ports.PostbackService, log zerolog.Logger) *PostbackHandler {
	return &PostbackHandler{registry: registry, svc: svc, log: log}
}

func (h *PostbackHandler) Handle(c *gin.Context) {
	route, err := h.registry.Lookup(strings.ToLower(c.Param("provider")))
	if err != nil {
		response.Error(c, err)
		return
	}
	plain := route.Adapter.PlainText()

	ip := c.ClientIP()
	if !route.Allows(ip) {
		h.fail(c, route.Name, plain, apperror.ErrSourceNotAllowed())
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		h.fail(c, route.Name, plain, apperror.Validation("malformed form body"))
		return
	}

	params := offerwall.NewParams(c.Request.URL.Query(), c.Request.PostForm)
	pb, err := route.Adapter.Parse(params)
	if err != nil {
		h.fail(c, route.Name, plain, err)
		return
	}
	pb.Provider = route.Name
	pb.SourceIP = ip
	pb.Params = params.Map()

	result, err := h.svc.Process(c.Request.Context(), pb)
	if err != nil {
		h.fail(c, route.Name, plain, err)
		return
	}

	reply := route.Adapter.Reply(result)
	if reply.JSON != nil {
		response.JSON(c, http.StatusOK, reply.JSON)
		return
	}
	response.Text(c, http.StatusOK, reply.Text)
}

// fail answers in the provider's format. Text providers get the error code as the body.
func (h *PostbackHandler) fail(c *gin.Context, provider string, plain bool, err error) {
	h.log.Warn().Err(err).
		Str("provider", provider).
		Str("client_ip", c.ClientIP()).
		Msg("postback rejected")

	if !plain {
		response.Error(c, err)
		return
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		response.Text(c, appErr.HTTPStatus, appErr.Code)
		return
	}
	response.Text(c, http.StatusInternalServerError, "SYS_000")
}
