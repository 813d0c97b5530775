package application

import (
	"sort"

	"hr-portal/domain"
)

type pairKey struct{ a, b uint }

// BuildHeatmap sums collaboration intensity per unordered employee pair.
// Each cell has EmployeeID < CollaboratorID; cells are ordered by that pair.
func BuildHeatmap(collaborations []domain.Collaboration) []domain.HeatmapCell {
	totals := make(map[pairKey]int)
	for _, c := range collaborations {
		if c.EmployeeID == c.CollaboratorID {
			continue
		}
		k := pairKey{c.EmployeeID, c.CollaboratorID}
		if k.a > k.b {
			k.a, k.b = k.b, k.a
		}
		totals[k] += c.Intensity
	}

	cells := make([]domain.HeatmapCell, 0, len(totals))
	for k, v := range totals {
		cells = append(cells, domain.HeatmapCell{EmployeeID: k.a, CollaboratorID: k.b, Intensity: v})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].EmployeeID != cells[j].EmployeeID {
			return cells[i].EmployeeID < cells[j].EmployeeID
		}
		return cells[i].CollaboratorID < cells[j].CollaboratorID
	})
	return cells
}
