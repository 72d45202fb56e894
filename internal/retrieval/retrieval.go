// Package retrieval implements the demo's single page: pick a passage
// (typed or from Wikipedia), ask a question about it, and describe what the
// page should show.
package retrieval

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"wikiqa/internal/history"
	"wikiqa/internal/qa"
	"wikiqa/internal/wiki"
)

const DefaultTitle = "Information retrieval"

// User-facing messages.
const (
	MsgNeedWikiTerm       = "Kindly provide a valid Wikipedia term to search."
	MsgWikiNotFound       = "Could not find a Wikipedia article for that term"
	MsgNeedOriginalText   = "Kindly provide a context (original text) for your question"
	MsgNeedQuestion       = "Ask me a question."
	MsgNoAnswer           = "Sorry, I do not have any answer to this question"
	MsgInvalidOriginal    = "You must provide a valid original paragraph"
	MsgInvalidWikipedia   = "You must provide a valid wikipedia paragraph"
	MsgSearching          = "Searching for answer..."
	descriptionWikipedia  = "Article sourced from Wikipedia"
	descriptionOriginal   = "Your Original article"
	titleWikipediaArticle = "Wikipedia Article"
	titleOriginalArticle  = "Original Article"
)

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerInfo    BannerKind = "info"
	BannerWarning BannerKind = "warning"
	BannerError   BannerKind = "error"
)

type Banner struct {
	Kind BannerKind `json:"kind"`
	Text string     `json:"text"`
}

// Form is what the user submitted.
type Form struct {
	UseWikipedia bool   `json:"use_wikipedia" form:"use_wikipedia"`
	WikiQuery    string `json:"wiki_query" form:"wiki_query"`
	OriginalText string `json:"original_text" form:"original_text"`
	Question     string `json:"question" form:"question"`
}

// View is everything the page renders after a submit.
type View struct {
	Title        string     `json:"title"`
	Subheader    string     `json:"subheader,omitempty"`
	ArticleTitle string     `json:"article_title,omitempty"`
	Paragraph    string     `json:"paragraph,omitempty"`
	Banner       *Banner    `json:"banner,omitempty"`
	Result       *qa.Result `json:"result,omitempty"`
	RequestID    string     `json:"request_id,omitempty"`
	Form         Form       `json:"form"`
}

type Answerer interface {
	Answer(ctx context.Context, passage, question string) (*qa.Result, error)
}

type Paragrapher interface {
	Paragraph(ctx context.Context, query string) (*wiki.Article, error)
}

type Recorder interface {
	Record(ctx context.Context, it *history.Interaction) error
}

// Retriever evaluates forms against the model and Wikipedia.
type Retriever struct {
	answers     Answerer
	wiki        Paragrapher
	history     Recorder
	title       string
	questionMax int
}

// New builds a Retriever. rec may be nil.
func New(a Answerer, w Paragrapher, rec Recorder, title string, questionMax int) *Retriever {
	if title == "" {
		title = DefaultTitle
	}
	return &Retriever{answers: a, wiki: w, history: rec, title: title, questionMax: questionMax}
}

// Title is the page title before any article is shown.
func (r *Retriever) Title() string { return r.title }

// QuestionMax is the question length limit, 0 when unlimited.
func (r *Retriever) QuestionMax() int { return r.questionMax }

// Evaluate runs the form through the page flow and returns a View.
func (r *Retriever) Evaluate(ctx context.Context, f Form) View {
	f.Question = truncate(strings.TrimSpace(f.Question), r.questionMax)
	v := View{Title: r.title, Form: f}

	if f.UseWikipedia {
		term := strings.TrimSpace(f.WikiQuery)
		if term == "" {
			v.Banner = &Banner{Kind: BannerError, Text: MsgNeedWikiTerm}
			return v
		}
		article, err := r.wiki.Paragraph(ctx, term)
		if err != nil {
			log.Printf("[Retrieval] Wikipedia lookup for %q failed: %v", term, err)
			v.Banner = &Banner{Kind: BannerWarning, Text: MsgWikiNotFound}
			return v
		}
		v.Title = titleWikipediaArticle
		v.Subheader = descriptionWikipedia
		v.ArticleTitle = article.Title
		v.Paragraph = article.Text
		r.ask(ctx, &v, history.SourceWikipedia, term)
		return v
	}

	if strings.TrimSpace(f.OriginalText) == "" {
		v.Banner = &Banner{Kind: BannerError, Text: MsgNeedOriginalText}
		return v
	}
	v.Title = titleOriginalArticle
	v.Subheader = descriptionOriginal
	v.Paragraph = f.OriginalText
	r.ask(ctx, &v, history.SourceOriginal, "")
	return v
}

func (r *Retriever) ask(ctx context.Context, v *View, src history.Source, term string) {
	question := v.Form.Question
	if question == "" {
		v.Banner = &Banner{Kind: BannerError, Text: MsgNeedQuestion}
		return
	}

	it := &history.Interaction{
		Source:    src,
		WikiQuery: truncate(term, history.MaxFieldChars),
		Title:     truncate(v.ArticleTitle, history.MaxFieldChars),
		Context:   v.Paragraph,
		Question:  truncate(question, history.MaxFieldChars),
	}

	res, err := r.answers.Answer(ctx, v.Paragraph, question)
	switch {
	case err != nil:
		if !IsCallerError(err) {
			log.Printf("[Retrieval] Answering %q failed: %v", question, err)
		}
		msg := MsgInvalidOriginal
		if src == history.SourceWikipedia {
			msg = MsgInvalidWikipedia
		}
		v.Banner = &Banner{Kind: BannerWarning, Text: msg}
		it.Status = history.StatusFailed
		it.Error = err.Error()
	case res.NoAnswer:
		v.Result = res
		v.Banner = &Banner{Kind: BannerInfo, Text: MsgNoAnswer}
		it.Status = history.StatusNoAnswer
	default:
		v.Result = res
		v.Banner = &Banner{Kind: BannerSuccess, Text: res.Answer}
		it.Status = history.StatusAnswered
	}
	if res != nil {
		it.Answer = res.Answer
		it.Candidates = history.Candidates(res.Candidates)
		it.Cached = res.Cached
	}

	if r.history == nil {
		return
	}
	if err := r.history.Record(ctx, it); err != nil {
		log.Printf("[Retrieval] WARNING: failed to record interaction: %v", err)
		return
	}
	v.RequestID = it.RequestID
}

// IsCallerError reports whether err came from bad input rather than a
// failing upstream.
func IsCallerError(err error) bool {
	return errors.Is(err, qa.ErrEmptyContext) || errors.Is(err, qa.ErrEmptyQuestion) || errors.Is(err, wiki.ErrEmptyQuery)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
