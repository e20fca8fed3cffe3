package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
	log   *zap.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewHandler creates a new API handler. Calendar-day computations use loc.
func NewHandler(s store.Store, log *zap.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		store: s,
		log:   log,
		loc:   loc,
		now:   time.Now,
	}
}

// today is the current instant in the configured timezone.
func (h *Handler) today() time.Time {
	return h.now().In(h.loc)
}

// writeError maps store and model errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field, "rule": verr.Rule})
	case errors.Is(err, store.ErrDuplicateID):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func notFound(c *gin.Context, id string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record not found", "id": id})
}

// The helpers below implement the plain CRUD routes shared by every collection.

func getOne[E model.Entity](h *Handler, c *gin.Context, col store.Collection[E]) (E, bool) {
	e, err := col.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return e, false
	}
	return e, true
}

func create[E model.Entity](h *Handler, c *gin.Context, name string, col store.Collection[E]) {
	var e E
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := col.Add(c.Request.Context(), e); err != nil {
		metrics.IncMutation(name, "add", "rejected")
		h.writeError(c, err)
		return
	}
	metrics.IncMutation(name, "add", store.OutcomeApplied.String())
	c.JSON(http.StatusCreated, e)
}

// replace binds the body as the new record for the id in the path. A body
// without an id takes the path id; a different id is rejected.
func replace[E model.Entity](h *Handler, c *gin.Context, name string, col store.Collection[E], withID func(*E, string)) {
	id := c.Param("id")
	var e E
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch e.Key() {
	case "":
		withID(&e, id)
	case id:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "id in body does not match path", "field": "id", "rule": "eqfield"})
		return
	}

	outcome, err := col.Update(c.Request.Context(), e)
	if err != nil {
		metrics.IncMutation(name, "update", "rejected")
		h.writeError(c, err)
		return
	}
	metrics.IncMutation(name, "update", outcome.String())
	if outcome == store.OutcomeNotFound {
		notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, e)
}

func remove[E model.Entity](h *Handler, c *gin.Context, name string, col store.Collection[E]) {
	id := c.Param("id")
	outcome, err := col.Remove(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.IncMutation(name, "remove", outcome.String())
	if outcome == store.OutcomeNotFound {
		notFound(c, id)
		return
	}
	c.Status(http.StatusNoContent)
}

func list[E model.Entity](h *Handler, c *gin.Context, col store.Collection[E]) ([]E, bool) {
	items, err := col.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return items, true
}
