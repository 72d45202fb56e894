package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wikiqa/internal/history"
)

const defaultHistoryLimit = 20

// GET /api/history?limit=
func HistoryHandler(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				errorJSON(c, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		items, err := store.Recent(c.Request.Context(), limit)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"interactions": items, "enabled": store != nil})
	}
}

// GET /api/history/:id
func HistoryItemHandler(store *history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		it, err := store.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, history.ErrNotFound) {
			errorJSON(c, http.StatusNotFound, "Interaction not found")
			return
		}
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}
