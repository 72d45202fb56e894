package wiki

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyQuery = errors.New("wiki: empty search term")
	ErrNoResults  = errors.New("wiki: search returned no results")
)

// PageError means the requested title does not exist.
type PageError struct {
	Title string
}

func (e *PageError) Error() string {
	return fmt.Sprintf("wiki: page %q does not exist", e.Title)
}

// DisambiguationError means the title resolved to a disambiguation page;
// Options lists the pages it points at, in page order.
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("wiki: %q may refer to: %s", e.Title, strings.Join(e.Options, ", "))
}

// APIError is an error object returned by the MediaWiki API.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wiki: api error %s: %s", e.Code, e.Info)
}
