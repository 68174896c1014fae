package service

import (
	"fmt"
	"strconv"

	"github.com/okian/sectorscore/internal/domain/model"
	"github.com/okian/sectorscore/internal/domain/types"
)

// Summary and MigrationSummary are the run reports returned by Recompute
// and MigrateBigCatches.
type (
	Summary          = types.Summary
	MigrationSummary = types.MigrationSummary
)

func generalError(err error) string {
	return "general error: " + err.Error()
}

func grams(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + "g"
}

func updatedLine(c model.Competitor, d model.Derived) string {
	return fmt.Sprintf("updated: %s (%d fish, %s, %s pts, coeff: %.3f)",
		c.DisplayName(), d.FishCountGlobal, grams(d.TotalWeightGlobal),
		strconv.FormatFloat(d.Points, 'f', -1, 64), d.SectorCoefficient)
}

func upToDateLine(c model.Competitor) string {
	return "up to date: " + c.DisplayName()
}

func errorLine(name string, err error) string {
	return fmt.Sprintf("error %s: %v", name, err)
}
