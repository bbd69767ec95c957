package handlers

import (
	"context"
	"errors"
	"log"
	request "loncheras_plus/internal/adapter/http/dto/request"
	response "loncheras_plus/internal/adapter/http/dto/response"
	"loncheras_plus/internal/adapter/http/middleware"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase"
	"loncheras_plus/pkg"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotePayload = pkg.NewDomainErrorSimple("INVALID_QUOTE_INPUT", "Invalid quote payload", http.StatusBadRequest)
	errUnauthenticated     = pkg.NewDomainErrorSimple("UNAUTHORIZED", "Authentication required", http.StatusUnauthorized)
	errForbidden           = pkg.NewDomainErrorSimple("FORBIDDEN", "You are not allowed to perform this action on the quote", http.StatusForbidden)
)

// StreamKeepAlive is how often an idle SSE stream sends a ping event.
var StreamKeepAlive = 25 * time.Second

// QuoteHandler handles HTTP requests for the quote lifecycle.
//
// Distributors submit quotes; analysts review them. Analyst-only actions are gated
// here with usecase.CanAnalystModify / usecase.CanAnalystDelete.

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var payload request.CreateQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}

	quote, err := h.usecase.CreateQuote(c.Request.Context(), payload.ToInput(actor))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(quote))
}

func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	quotes, ok := h.listFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.FromQuoteList(quotes))
}

func (h *QuoteHandler) GetStatistics(c *gin.Context) {
	quotes, ok := h.listFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.FromStatistics(usecase.GetQuoteStatistics(quotes)))
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

func (h *QuoteHandler) GetWorkflow(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quote, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromWorkflow(quote, actor))
}

func (h *QuoteHandler) TransitionStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var payload request.TransitionStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}
	status, err := payload.ResolveStatus()
	if err != nil {
		writeQuoteError(c, err)
		return
	}

	quote, err := h.usecase.TransitionStatus(c.Request.Context(), c.Param("id"), status, actor, payload.Notes)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

func (h *QuoteHandler) ApproveQuote(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	current, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	if !usecase.CanAnalystModify(current, actor) {
		log.Printf("[quote][handler] approve forbidden quote_id=%s uid=%s role=%s", current.ID, actor.UID, actor.Role)
		c.JSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
		return
	}

	quote, err := h.usecase.ApproveAsAnalyst(c.Request.Context(), current.ID, actor)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// RejectQuote rejects and then deletes the quote. The response is sent after the
// deletion delay; a client that disconnects during the delay does not stop the delete.
func (h *QuoteHandler) RejectQuote(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var payload request.RejectQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotePayload.HTTPStatus, errInvalidQuotePayload.ToHTTPError())
		return
	}

	current, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	if !usecase.CanAnalystDelete(current, actor) {
		log.Printf("[quote][handler] reject forbidden quote_id=%s uid=%s role=%s", current.ID, actor.UID, actor.Role)
		c.JSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
		return
	}

	result, err := h.usecase.RejectAndDelete(context.WithoutCancel(c.Request.Context()), current.ID, actor, payload.Reason)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromDeletion(result))
}

// StreamQuotes pushes the filtered quote list as server-sent events, once on connect
// and again after every change. Slow clients only get the latest snapshot.
func (h *QuoteHandler) StreamQuotes(c *gin.Context) {
	var params request.QuoteListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeQuoteError(c, usecase.ErrValidation)
		return
	}
	query, err := params.ToQuery()
	if err != nil {
		writeQuoteError(c, err)
		return
	}

	ctx := c.Request.Context()
	updates := make(chan []entities.Quote, 1)
	stop, err := h.usecase.WatchQuotes(ctx, query.Filter, func(qs []entities.Quote) {
		latest := usecase.FilterQuotes(qs, query)
		for {
			select {
			case updates <- latest:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	defer stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	keepAlive := time.NewTicker(StreamKeepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case qs := <-updates:
			c.SSEvent("quotes", response.FromQuoteList(qs))
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
		}
		c.Writer.Flush()
	}
}

func (h *QuoteHandler) listFromQuery(c *gin.Context) ([]entities.Quote, bool) {
	var params request.QuoteListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		writeQuoteError(c, usecase.ErrValidation)
		return nil, false
	}
	query, err := params.ToQuery()
	if err != nil {
		writeQuoteError(c, err)
		return nil, false
	}

	quotes, err := h.usecase.ListQuotes(c.Request.Context(), query)
	if err != nil {
		writeQuoteError(c, err)
		return nil, false
	}
	return quotes, true
}

func requireActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || actor.UID == "" {
		c.JSON(errUnauthenticated.HTTPStatus, errUnauthenticated.ToHTTPError())
		return entities.Actor{}, false
	}
	return actor, true
}

func writeQuoteError(c *gin.Context, err error) {
	appErr := mapQuoteError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[quote][handler] request failed method=%s path=%s err=%v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapQuoteError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidQuoteID),
		errors.Is(err, request.ErrInvalidStatus), errors.Is(err, request.ErrInvalidDate), errors.Is(err, request.ErrInvalidMinTotal):
		return pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDuplicateFolio):
		return pkg.NewDomainErrorSimple("DUPLICATE_FOLIO", "A quote with this folio already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainError("INVALID_STATUS_TRANSITION", err.Error(), err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrForbidden):
		return errForbidden
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
