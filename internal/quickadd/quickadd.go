// Package quickadd extracts a due date and a priority label from a
// free-text task phrase such as "Inspect fence due tomorrow high priority".
package quickadd

import (
	"regexp"
	"strings"
	"time"

	"github.com/nhle/taskgenius/internal/model"
)

// Result is the structured form of a quick-add phrase.
type Result struct {
	Title       string
	Description string
	// DueDate is an ISO calendar date (YYYY-MM-DD), or "" when the phrase
	// named no due date.
	DueDate  string
	Priority model.Priority
}

// HasDueDate reports whether the phrase supplied a due date.
func (r Result) HasDueDate() bool {
	return r.DueDate != ""
}

// dueRule maps a phrase to the date it denotes relative to now.
type dueRule struct {
	phrase string
	re     *regexp.Regexp
	date   func(now time.Time) time.Time
}

// priorityRule maps a phrase to a priority label.
type priorityRule struct {
	phrase   string
	re       *regexp.Regexp
	priority model.Priority
}

// dueRules are checked in order; the first phrase found wins.
var dueRules = []dueRule{
	{"due tomorrow", foldPattern("due tomorrow"), func(now time.Time) time.Time { return now.AddDate(0, 0, 1) }},
	{"due next week", foldPattern("due next week"), func(now time.Time) time.Time { return now.AddDate(0, 0, 7) }},
	{"due next friday", foldPattern("due next friday"), nextFriday},
}

// priorityRules are checked in order; the first phrase found wins.
var priorityRules = []priorityRule{
	{"high priority", foldPattern("high priority"), model.PriorityHigh},
	{"priority high", foldPattern("priority high"), model.PriorityHigh},
	{"low priority", foldPattern("low priority"), model.PriorityLow},
	{"priority low", foldPattern("priority low"), model.PriorityLow},
}

// foldPattern matches phrase literally, ignoring case.
func foldPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
}

// Parse extracts a due date and priority from text. Matching is
// case-insensitive and every matched phrase is removed from the title.
// A phrase with no recognised pattern yields the trimmed text as title,
// no due date and Medium priority.
func Parse(text string, now time.Time) Result {
	res := Result{Priority: model.PriorityMedium}
	title := text

	for _, r := range dueRules {
		if r.re.MatchString(title) {
			res.DueDate = r.date(now).Format(model.DateLayout)
			title = r.re.ReplaceAllString(title, "")
			break
		}
	}

	for _, r := range priorityRules {
		if r.re.MatchString(title) {
			res.Priority = r.priority
			title = r.re.ReplaceAllString(title, "")
			break
		}
	}

	res.Title = strings.TrimSpace(title)
	return res
}

// nextFriday advances to the next Friday strictly after today.
// On a Friday the result is one week later.
func nextFriday(now time.Time) time.Time {
	days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// Phrases returns the recognised due-date and priority phrases in the
// order they are checked.
func Phrases() (due, priority []string) {
	for _, r := range dueRules {
		due = append(due, r.phrase)
	}
	for _, r := range priorityRules {
		priority = append(priority, r.phrase)
	}
	return due, priority
}
