package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/assistify/assistify/internal/model"
	"github.com/assistify/assistify/internal/store"
)

// AggregateModels computes per-model statistics from ledger entries,
// filtered to entries within the given time range. Models billed in more
// than one currency get one row per currency.
func AggregateModels(entries []store.Entry, since, until time.Time) []model.ModelStats {
	filtered := FilterByTime(entries, since, until)

	type key struct{ model, currency string }
	statMap := make(map[key]*model.ModelStats)

	for _, e := range filtered {
		k := key{e.Model, e.Currency}
		ms, ok := statMap[k]
		if !ok {
			ms = &model.ModelStats{Model: e.Model, Currency: e.Currency}
			statMap[k] = ms
		}
		ms.Exchanges++
		ms.PromptTokens += e.PromptTokens
		ms.CompletionTokens += e.CompletionTokens
		ms.Cost += e.Cost
	}

	// Share percentages, then cost descending
	models := make([]model.ModelStats, 0, len(statMap))
	for _, ms := range statMap {
		if len(filtered) > 0 {
			ms.SharePercent = float64(ms.Exchanges) / float64(len(filtered)) * 100
		}
		models = append(models, *ms)
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Cost != models[j].Cost {
			return models[i].Cost > models[j].Cost
		}
		return models[i].Model < models[j].Model
	})

	return models
}

// AggregateTemplates computes per-template usage from ledger entries.
func AggregateTemplates(entries []store.Entry, since, until time.Time) []model.TemplateStats {
	filtered := FilterByTime(entries, since, until)

	tplMap := make(map[string]*model.TemplateStats)
	durations := make(map[string]time.Duration)

	for _, e := range filtered {
		ts, ok := tplMap[e.Template]
		if !ok {
			ts = &model.TemplateStats{Template: e.Template}
			tplMap[e.Template] = ts
		}
		ts.Exchanges++
		ts.TotalTokens += e.PromptTokens + e.CompletionTokens
		durations[e.Template] += e.Duration
	}

	templates := make([]model.TemplateStats, 0, len(tplMap))
	for name, ts := range tplMap {
		ts.AvgDuration = durations[name] / time.Duration(ts.Exchanges)
		ts.SharePercent = float64(ts.Exchanges) / float64(len(filtered)) * 100
		templates = append(templates, *ts)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Exchanges != templates[j].Exchanges {
			return templates[i].Exchanges > templates[j].Exchanges
		}
		return templates[i].Template < templates[j].Template
	})

	return templates
}

// AggregateDays computes per-day statistics, newest day first.
func AggregateDays(entries []store.Entry, since, until time.Time) []model.DailyStats {
	filtered := FilterByTime(entries, since, until)

	dayMap := make(map[string]*model.DailyStats)

	for _, e := range filtered {
		if e.CreatedAt.IsZero() {
			continue
		}
		local := e.CreatedAt.Local()
		dayKey := local.Format("2006-01-02")
		ds, ok := dayMap[dayKey]
		if !ok {
			ds = &model.DailyStats{
				Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local),
				Cost: make(map[string]float64),
			}
			dayMap[dayKey] = ds
		}
		ds.Exchanges++
		ds.PromptTokens += e.PromptTokens
		ds.CompletionTokens += e.CompletionTokens
		ds.Cost[e.Currency] += e.Cost
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	return days
}

// FilterByTime returns entries created within [since, until).
func FilterByTime(entries []store.Entry, since, until time.Time) []store.Entry {
	if since.IsZero() && until.IsZero() {
		return entries
	}

	var result []store.Entry
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			continue
		}
		if !since.IsZero() && e.CreatedAt.Before(since) {
			continue
		}
		if !until.IsZero() && !e.CreatedAt.Before(until) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FilterByModel returns entries whose model contains the given substring.
func FilterByModel(entries []store.Entry, modelFilter string) []store.Entry {
	if modelFilter == "" {
		return entries
	}
	var result []store.Entry
	for _, e := range entries {
		if containsIgnoreCase(e.Model, modelFilter) {
			result = append(result, e)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
