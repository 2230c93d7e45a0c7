package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-dashboard/internal/domain/forward"
	"github.com/riskibarqy/football-dashboard/internal/platform/logging"
)

const utf8BOM = "\ufeff"

// RowObserver is told how many rows the last successful load produced.
type RowObserver interface {
	SetDatasetRows(n int)
}

// ForwardCSVLoader reads the forward ratings dataset from disk.
type ForwardCSVLoader struct {
	path     string
	logger   *logging.Logger
	observer RowObserver
}

func NewForwardCSVLoader(path string, logger *logging.Logger, observer RowObserver) *ForwardCSVLoader {
	if logger == nil {
		logger = logging.Default()
	}
	return &ForwardCSVLoader{
		path:     strings.TrimSpace(path),
		logger:   logger.Named("dataset"),
		observer: observer,
	}
}

func (l *ForwardCSVLoader) Load(ctx context.Context) ([]forward.Rating, error) {
	if l.path == "" {
		return nil, crerr.Wrap(forward.ErrDatasetMissing, "no dataset path configured")
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, crerr.Wrapf(forward.ErrDatasetMissing, "open %s", l.path)
		}
		return nil, crerr.Wrapf(err, "open %s", l.path)
	}
	defer f.Close()

	rows, err := parseForwards(f)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse %s", l.path)
	}

	l.logger.DebugContext(ctx, "forward dataset loaded", "path", l.path, "rows", len(rows))
	if l.observer != nil {
		l.observer.SetDatasetRows(len(rows))
	}
	return rows, nil
}

func parseForwards(r io.Reader) ([]forward.Rating, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, crerr.Wrap(forward.ErrInvalidDataset, "empty file")
	}
	if err != nil {
		return nil, crerr.Wrapf(forward.ErrInvalidDataset, "read header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range forward.RequiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, crerr.Wrapf(forward.ErrInvalidDataset, "missing columns %s", strings.Join(missing, ", "))
	}

	out := make([]forward.Rating, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, crerr.Wrapf(forward.ErrInvalidDataset, "read record: %v", err)
		}
		if isBlank(record) {
			continue
		}

		field := func(column string) string {
			i := index[column]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}
		out = append(out, forward.Rating{
			Name:        field(forward.ColumnName),
			Team:        field(forward.ColumnTeam),
			League:      field(forward.ColumnLeague),
			ContractEnd: field(forward.ColumnContractEnd),
			Rank:        field(forward.ColumnRank),
		})
	}
	return out, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
