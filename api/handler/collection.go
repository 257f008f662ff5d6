package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	collectionUC "github.com/fastygo/taskboard/usecase/collection"
)

type CollectionHandler struct {
	baseHandler
	uc *collectionUC.UseCase
}

func NewCollectionHandler(uc *collectionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List collections with their tasks
// @Tags collections
// @Router /api/v1/collections [get]
func (h *CollectionHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	collections, err := h.uc.ListCollections(stdCtx)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(collections))
}

// @Summary Create collection
// @Tags collections
// @Router /api/v1/collections [post]
func (h *CollectionHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CollectionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateCollection(stdCtx, req.Name, req.Color)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete collection and its tasks
// @Tags collections
// @Router /api/v1/collections/{id} [delete]
func (h *CollectionHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteCollection(stdCtx, pathParam(ctx, "id")); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondNoContent(ctx)
}
