package pipeline

import (
	"strings"

	"github.com/amishk599/internscout/internal/config"
	"github.com/amishk599/internscout/internal/model"
)

// DefaultKeywords is used when the preference file lists none.
var DefaultKeywords = []string{"developer"}

// longQueryKeywords is how many leading keywords make up a long query.
const longQueryKeywords = 3

// Site is one configured source as the planner sees it.
type Site struct {
	Name    string
	Adapter model.SiteAdapter
	Query   string // config.QueryLong or config.QuerySimple
}

// Queries derives the two query styles from the ordered keyword list.
func Queries(keywords []string) (long, simple string) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	n := min(len(keywords), longQueryKeywords)
	return strings.Join(keywords[:n], " "), keywords[0]
}

// PlanTasks builds one SiteTask per site, in site order.
func PlanTasks(sites []Site, keywords []string) []model.SiteTask {
	long, simple := Queries(keywords)
	tasks := make([]model.SiteTask, 0, len(sites))
	for _, s := range sites {
		q := long
		if s.Query == config.QuerySimple {
			q = simple
		}
		tasks = append(tasks, model.SiteTask{Name: s.Name, Adapter: s.Adapter, Query: q})
	}
	return tasks
}
