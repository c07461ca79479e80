package extract

import (
	"context"

	"golang.org/x/sync/errgroup"

	"roadmapboard/domain/cell"
	"roadmapboard/domain/roadmap"
)

// maxParallelSheets bounds concurrent sheet extraction
const maxParallelSheets = 4

// Workbook runs every planned job over the sheets. Jobs run concurrently but
// their results are combined in plan order, so the outcome does not depend on
// scheduling.
func (e *Extractor) Workbook(ctx context.Context, sheets []cell.Sheet) (roadmap.Extraction, error) {
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	jobs := Plan(names)

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSheets)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Run(job, sheets[job.SheetIndex].Matrix)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return roadmap.Extraction{}, err
	}

	out := roadmap.Extraction{
		CorrectedNames: make(map[string]string),
		QuarterThemes:  make(map[string]string),
		SheetsScanned:  len(sheets),
	}
	for _, r := range results {
		for _, n := range r.Names {
			out.CorrectedNames[n.Acronym] = n.Name
		}
		for _, t := range r.Themes {
			out.QuarterThemes[t.Quarter] = t.Theme
		}
		out.DeptRows = append(out.DeptRows, r.Depts...)
		out.TimelineRows = append(out.TimelineRows, r.Timeline...)
	}
	return out, nil
}
