package history

import (
	"time"

	"gorm.io/datatypes"
)

// MaxFieldChars bounds the short text columns (wiki query, title, question).
const MaxFieldChars = 256

type Source string

const (
	SourceWikipedia Source = "wikipedia"
	SourceOriginal  Source = "original"
)

type Status string

const (
	StatusAnswered Status = "answered"
	StatusNoAnswer Status = "no_answer"
	StatusFailed   Status = "failed"
)

// Interaction is one question evaluated against one passage.
type Interaction struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RequestID  string         `gorm:"uniqueIndex;size:36;not null" json:"request_id"`
	Source     Source         `gorm:"type:varchar(16);not null" json:"source"`
	WikiQuery  string         `gorm:"size:256" json:"wiki_query,omitempty"`
	Title      string         `gorm:"size:256" json:"title,omitempty"`
	Context    string         `gorm:"type:text" json:"context"`
	Question   string         `gorm:"size:256;not null" json:"question"`
	Answer     string         `gorm:"type:text" json:"answer"`
	Candidates datatypes.JSON `json:"candidates"`
	Status     Status         `gorm:"type:varchar(16);not null;index" json:"status"`
	Cached     bool           `json:"cached"`
	Error      string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}
