package extract

import (
	"strings"

	"roadmapboard/internal/normalize"
)

// Role is the semantic role of a sheet, inferred from its name
type Role string

const (
	RoleCorrectedNames Role = "corrected-names"
	RoleQuarterThemes  Role = "quarter-themes"
	RoleDeptCounts     Role = "dept-counts"
	RoleTimeline       Role = "communication-timeline"
)

type roleRule struct {
	role  Role
	match func(normalizedName string) bool
}

func contains(fragment string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, fragment) }
}

// sheetRules may all apply to the same sheet; every matching sheet contributes.
var sheetRules = []roleRule{
	{RoleCorrectedNames, contains("correcteddeptnames")},
	{RoleQuarterThemes, contains("quarterlyrollout")},
	{RoleDeptCounts, contains("deptcnt")},
}

// timelineRules are evaluated in priority order; only one sheet becomes the
// timeline source.
var timelineRules = []func(string) bool{
	contains("communicationtimelinev2"),
	contains("communicationtimelinev1"),
	contains("communicationtimeline"),
}

// Job is one (sheet, role) extraction to perform
type Job struct {
	SheetIndex int
	SheetName  string
	Role       Role
}

// Plan assigns roles to sheets. Jobs are returned in file order, and within a
// sheet in rule order; the timeline job (if any) is last.
func Plan(sheetNames []string) []Job {
	normalized := make([]string, len(sheetNames))
	for i, name := range sheetNames {
		normalized[i] = normalize.Header(name)
	}

	var jobs []Job
	for i, name := range normalized {
		for _, rule := range sheetRules {
			if rule.match(name) {
				jobs = append(jobs, Job{SheetIndex: i, SheetName: sheetNames[i], Role: rule.role})
			}
		}
	}

	for _, match := range timelineRules {
		if idx := firstMatch(normalized, match); idx >= 0 {
			jobs = append(jobs, Job{SheetIndex: idx, SheetName: sheetNames[idx], Role: RoleTimeline})
			break
		}
	}

	return jobs
}

func firstMatch(names []string, match func(string) bool) int {
	for i, name := range names {
		if match(name) {
			return i
		}
	}
	return -1
}
