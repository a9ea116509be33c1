package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/panaderia/registros/backend/internal/registro/repository"
	"github.com/panaderia/registros/backend/internal/registro/service"
	"github.com/panaderia/registros/backend/pkg/logger"
)

// RegisterRegistroRoutes mounts the /registros API on r. Any middleware given
// (the API key gate) runs before every route of the group.
func RegisterRegistroRoutes(r gin.IRouter, svc service.Service, mw ...gin.HandlerFunc) {
	h := &registroHandler{svc: svc}
	g := r.Group("/registros", mw...)
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/count", h.count)
	g.GET("/:id", h.get)
	g.DELETE("", h.deleteAll)
	g.DELETE("/:id", h.delete)
	g.DELETE("/:id/amasadoras/:index", h.removeAmasadora)
}

type registroHandler struct {
	svc service.Service
}

func (h *registroHandler) create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": service.MsgInvalidDocument})
			return
		}
	}
	reg, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *registroHandler) list(c *gin.Context) {
	opts := listOptions(c)
	opts.Take = optionalCount(c.Query("take"))
	opts.Skip = optionalCount(c.Query("skip"))
	list, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *registroHandler) count(c *gin.Context) {
	n, err := h.svc.Count(c.Request.Context(), listOptions(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *registroHandler) get(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	reg, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *registroHandler) deleteAll(c *gin.Context) {
	n, err := h.svc.DeleteAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *registroHandler) delete(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *registroHandler) removeAmasadora(c *gin.Context) {
	id, index, err := service.ParseRemoveParams(c.Param("id"), c.Param("index"))
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := h.svc.RemoveAmasadora(c.Request.Context(), id, index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// writeError maps a service error kind onto its HTTP status.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindInvalidArgument:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	default:
		logger.FromContext(c.Request.Context()).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": service.Message(err)})
}

func listOptions(c *gin.Context) repository.ListOptions {
	return repository.ListOptions{Desde: c.Query("desde"), Hasta: c.Query("hasta")}
}

// optionalCount parses take/skip. Missing, unparsable, zero and negative
// values all mean "not set".
func optionalCount(raw string) *int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
