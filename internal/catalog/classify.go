package catalog

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// CategoryOther is the slug for titles no rule matches.
const CategoryOther = "other"

type rule struct {
	slug  string
	match func(seg0, seg1 string) bool
}

func equalsAny(values ...string) func(string, string) bool {
	return func(seg0, _ string) bool { return slices.Contains(values, seg0) }
}

func containsAny(values ...string) func(string, string) bool {
	return func(seg0, _ string) bool {
		for _, v := range values {
			if strings.Contains(seg0, v) {
				return true
			}
		}
		return false
	}
}

func hiit56With(seg1Contains string) func(string, string) bool {
	return func(seg0, seg1 string) bool {
		return isHIIT56(seg0) && strings.Contains(seg1, seg1Contains)
	}
}

func isHIIT56(seg0 string) bool {
	return seg0 == "hiit56" || seg0 == "hiit 56"
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{"hiit56-upper", hiit56With("upper body")},
	{"hiit56-lower", hiit56With("lower body")},
	{"hiit56-total", hiit56With("total body")},
	{"hiit56-max-cardio", hiit56With("max cardio")},
	{"hiit56-specials", func(seg0, _ string) bool { return isHIIT56(seg0) }},
	{"heavy-hiit", containsAny("heavy")},
	{"hiit-kickboxing", containsAny("kickboxing")},
	{"hiit-21", equalsAny("hiit 21", "hiit 21 abs", "hiit21", "hiit-21")},
	{"insanity-21", equalsAny("insanity 21")},
	{"x-fit", equalsAny("x-fit")},
	{"fit-as-a-fighter", containsAny("fit as a fighter")},
	{"stretch-recovery", containsAny("stretch", "recovery")},
	{"hiit-mobility", containsAny("mobility")},
	{"hiit-beginner", containsAny("beginner")},
	{"ab-lab", equalsAny("ab lab")},
	{"yoga", containsAny("yoga")},
	{"kids", func(seg0, _ string) bool { return strings.HasPrefix(seg0, "kids") }},
	{"rock-workout-challenge", containsAny("rock workout challenge")},
	{"hiit-class-archives", equalsAny("hiit class", "at home")},
}

// ClassifyTitle maps a pipe-delimited class title to its category slug.
func ClassifyTitle(title string) string {
	seg0, seg1 := segments(title)
	for _, r := range rules {
		if r.match(seg0, seg1) {
			return r.slug
		}
	}
	return CategoryOther
}

// CategorySlugs lists every slug ClassifyTitle can return, in rule order.
func CategorySlugs() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.slug)
	}
	return append(out, CategoryOther)
}

func segments(title string) (string, string) {
	fold := cases.Fold()
	parts := strings.Split(title, "|")
	seg0 := fold.String(strings.TrimSpace(parts[0]))
	seg1 := ""
	if len(parts) > 1 {
		seg1 = fold.String(strings.TrimSpace(parts[1]))
	}
	return seg0, seg1
}

// Kind partitions catalog rows.
type Kind string

const (
	KindClass          Kind = "class"
	KindCategorySample Kind = "category_sample"
	KindMoveDemo       Kind = "move_demo"
	KindMarketing      Kind = "marketing"
	KindSample         Kind = "sample"
)

var marketingPattern = regexp.MustCompile(`(?i)hero|testimonial`)

// KindOf classifies a row by its title. Pipe-delimited titles are classes
// unless they mention "sample"; the rest are samples, marketing clips, or
// move demos in that order of precedence.
func KindOf(title string) Kind {
	hasPipe := strings.Contains(title, "|")
	isSample := strings.Contains(cases.Fold().String(title), "sample")
	switch {
	case hasPipe && isSample:
		return KindCategorySample
	case hasPipe:
		return KindClass
	case isSample:
		return KindSample
	case marketingPattern.MatchString(title):
		return KindMarketing
	default:
		return KindMoveDemo
	}
}
