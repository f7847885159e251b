package genetic

import (
	"github.com/shaman-labs/bbo/internal/bbo/grid"
	"github.com/shaman-labs/bbo/internal/bbo/history"
)

func buildTestHistory() *history.History {
	h := history.New()
	h.Append(grid.ParameterVector{{Number: 1}}, 10, false, false, true)
	h.Append(grid.ParameterVector{{Number: 2}}, 5, false, false, true)
	h.Append(grid.ParameterVector{{Number: 3}}, 8, false, false, true)
	return h
}
