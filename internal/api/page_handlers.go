package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"wikiqa/internal/retrieval"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"join": joinPath,
}

var introLines = []string{
	"Provide a context for your question; original text or using Wikipedia.",
	"Ask a question based on the context you provided.",
	"Wait for a response from the system which is predicted by the question answering model.",
}

type pageData struct {
	Subpath     string
	View        retrieval.View
	Landing     bool
	Intro       []string
	QuestionMax int
}

// GET /
func PageHandler(r *retrieval.Retriever, subpath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", pageData{
			Subpath:     subpath,
			View:        retrieval.View{Title: r.Title()},
			Landing:     true,
			Intro:       introLines,
			QuestionMax: r.QuestionMax(),
		})
	}
}

// POST / (form submit)
func SubmitHandler(r *retrieval.Retriever, subpath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form retrieval.Form
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusBadRequest, "index.html", pageData{
				Subpath:     subpath,
				View:        retrieval.View{Title: r.Title(), Banner: &retrieval.Banner{Kind: retrieval.BannerError, Text: "Invalid form submission"}},
				QuestionMax: r.QuestionMax(),
			})
			return
		}
		c.HTML(http.StatusOK, "index.html", pageData{
			Subpath:     subpath,
			View:        r.Evaluate(c.Request.Context(), form),
			QuestionMax: r.QuestionMax(),
		})
	}
}
