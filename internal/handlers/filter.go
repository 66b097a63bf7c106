package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"shopdash/internal/errors"
	"shopdash/internal/models"
	"shopdash/internal/services"
)

// filterFromQuery builds the filter for one interaction. Absent bounds
// fall back to the dataset defaults so both ends are always supplied; an
// absent categories parameter means every category, while a present but
// empty one is an explicit empty set.
func filterFromQuery(r *http.Request, defaults models.FilterDefaults) (services.Filter, error) {
	q := r.URL.Query()
	var f services.Filter

	start := q.Get("start")
	if start == "" {
		start = defaults.MinDay
	}
	if start != "" {
		t, err := time.Parse(models.DayLayout, start)
		if err != nil {
			return f, errors.BadRequestWrap(err, fmt.Sprintf("invalid start day %q", start))
		}
		f.Start = t
	}

	end := q.Get("end")
	if end == "" {
		end = defaults.MaxDay
	}
	if end != "" {
		t, err := time.Parse(models.DayLayout, end)
		if err != nil {
			return f, errors.BadRequestWrap(err, fmt.Sprintf("invalid end day %q", end))
		}
		f.End = t
	}

	if q.Has("categories") {
		f.Categories = splitCategories(q.Get("categories"))
	}

	return f, nil
}

func splitCategories(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
