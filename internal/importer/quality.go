package importer

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// QualityScore summarizes how clean an imported batch was as a 0-100
// heuristic: the mean per-row ratio of populated template columns. A batch
// where every row fills every column scores 100; sparse or heavily degraded
// rows pull the score down. Returns nil for an empty batch.
func QualityScore(def EntityDefinition, rows []PreparedRow) *int {
	if len(rows) == 0 {
		return nil
	}

	ratios := make([]float64, 0, len(rows))
	for _, row := range rows {
		populated := 0
		for _, col := range def.Columns {
			v, ok := row.Normalized[col.Key]
			if !ok || v == nil {
				continue
			}
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			populated++
		}
		ratios = append(ratios, float64(populated)/float64(len(def.Columns)))
	}

	mean, err := stats.Mean(ratios)
	if err != nil {
		return nil
	}

	score := int(mean*100 + 0.5)
	if score > 100 {
		score = 100
	}
	return &score
}
