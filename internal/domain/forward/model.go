package forward

import "errors"

var (
	ErrDatasetMissing = errors.New("forward dataset not found")
	ErrInvalidDataset = errors.New("forward dataset is invalid")
)

// CSV column names.
const (
	ColumnLeague      = "Liga"
	ColumnName        = "Nombre"
	ColumnTeam        = "Equipo"
	ColumnContractEnd = "Fin de contrato"
	ColumnRank        = "rank"
)

// RequiredColumns lists the columns a dataset must provide, in display order.
var RequiredColumns = []string{ColumnName, ColumnTeam, ColumnLeague, ColumnContractEnd, ColumnRank}

// Rating is one row of the forward ratings dataset. Values are kept verbatim.
type Rating struct {
	Name        string
	Team        string
	League      string
	ContractEnd string
	Rank        string
}

// Leagues returns the distinct leagues in first appearance order.
func Leagues(rows []Rating) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)
	for _, row := range rows {
		if _, ok := seen[row.League]; ok {
			continue
		}
		seen[row.League] = struct{}{}
		out = append(out, row.League)
	}
	return out
}
