package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"wikiqa/internal/qa"
	"wikiqa/internal/retrieval"
	"wikiqa/internal/wiki"
)

type AnswerRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

// POST /api/answer
func AnswerHandler(answers retrieval.Answerer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		res, err := answers.Answer(c.Request.Context(), req.Context, strings.TrimSpace(req.Question))
		switch {
		case err == nil:
			c.JSON(http.StatusOK, res)
		case errors.Is(err, qa.ErrEmptyContext):
			errorJSON(c, http.StatusBadRequest, "Context is required")
		case errors.Is(err, qa.ErrEmptyQuestion):
			errorJSON(c, http.StatusBadRequest, "Question is required")
		case errors.Is(err, qa.ErrCircuitOpen), errors.Is(err, qa.ErrTooManyRequests):
			errorJSON(c, http.StatusServiceUnavailable, "Model temporarily unavailable")
		default:
			log.Printf("[API] answer failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "Model unavailable", "detail": err.Error()}})
		}
	}
}

// GET /api/wiki?q=
func WikiHandler(w retrieval.Paragrapher) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			errorJSON(c, http.StatusBadRequest, "Query parameter q is required")
			return
		}
		article, err := w.Paragraph(c.Request.Context(), q)
		if err != nil {
			var pe *wiki.PageError
			var de *wiki.DisambiguationError
			switch {
			case errors.Is(err, wiki.ErrEmptyQuery):
				errorJSON(c, http.StatusBadRequest, "Query parameter q is required")
			case errors.Is(err, wiki.ErrNoResults), errors.As(err, &pe), errors.As(err, &de):
				errorJSON(c, http.StatusNotFound, "No Wikipedia article found")
			default:
				log.Printf("[API] wikipedia lookup failed: %v", err)
				errorJSON(c, http.StatusBadGateway, "Wikipedia unavailable")
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"query":     article.Query,
			"title":     article.Title,
			"paragraph": article.Text,
		})
	}
}

// POST /api/ask
func AskHandler(r *retrieval.Retriever) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form retrieval.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			errorJSON(c, http.StatusBadRequest, "Invalid request")
			return
		}
		c.JSON(http.StatusOK, r.Evaluate(c.Request.Context(), form))
	}
}
