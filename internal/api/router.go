package api

import (
	"html/template"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"wikiqa/internal/cache"
	"wikiqa/internal/config"
	"wikiqa/internal/history"
	"wikiqa/internal/qa"
	"wikiqa/internal/retrieval"
)

// Deps are the services the handlers call. Any of them may be nil in tests
// that only exercise routes not using it.
type Deps struct {
	Answers retrieval.Answerer
	Wiki    retrieval.Paragrapher
	History *history.Store
	Breaker *qa.Breaker
	Cache   cache.Cache
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // "" or a path starting with '/'

	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	var rec retrieval.Recorder
	if deps.History != nil {
		rec = deps.History
	}
	retriever := retrieval.New(deps.Answers, deps.Wiki, rec, cfg.UI.Title, cfg.UI.QuestionMaxChars)

	root := subpath
	if root == "" {
		root = "/"
	}
	r.GET(root, PageHandler(retriever, subpath))
	r.POST(root, SubmitHandler(retriever, subpath))
	if subpath != "" {
		// Redirect /subpath/ to /subpath
		r.GET(subpath+"/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, subpath)
		})
	}

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		group.POST("/api/answer", AnswerHandler(deps.Answers))
		group.GET("/api/wiki", WikiHandler(deps.Wiki))
		group.POST("/api/ask", AskHandler(retriever))
		group.GET("/api/history", HistoryHandler(deps.History))
		group.GET("/api/history/:id", HistoryItemHandler(deps.History))
		group.GET("/api/status", StatusHandler(deps.Breaker, deps.Cache))

		group.GET("/ws/ask", WSAskHandler(retriever))
	}
	return r
}

func joinPath(subpath, p string) string {
	if subpath == "" {
		return p
	}
	return path.Join(subpath, p)
}
