package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Kind string

const (
	KindStandings Kind = "standings"
	KindScorers   Kind = "scorers"
	KindTeam      Kind = "team"
	KindForwards  Kind = "forwards"
)

func ParseKind(v string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(v))); kind {
	case KindStandings, KindScorers, KindTeam, KindForwards:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown report kind %q", v)
	}
}

// FileName is the fixed output file; each export of a kind overwrites it.
func (k Kind) FileName() string {
	return k.baseName() + ".pdf"
}

// DownloadName names the attachment after the selected entity.
func (k Kind) DownloadName(label string) string {
	label = sanitizeLabel(label)
	if label == "" {
		return k.FileName()
	}
	return k.baseName() + "_" + label + ".pdf"
}

func (k Kind) baseName() string {
	switch k {
	case KindStandings:
		return "clasificacion"
	case KindScorers:
		return "goleadores"
	case KindTeam:
		return "equipo"
	case KindForwards:
		return "delanteros"
	default:
		return string(k)
	}
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

func sanitizeLabel(label string) string {
	return strings.TrimSpace(unsafeFileChars.ReplaceAllString(label, "_"))
}

// Cell is a table cell. ImageURL renders an inline image before the text.
type Cell struct {
	Text     string
	ImageURL string
}

type Table struct {
	Columns []string
	Rows    [][]Cell
}

func TextRow(values ...string) []Cell {
	row := make([]Cell, len(values))
	for i, v := range values {
		row[i] = Cell{Text: v}
	}
	return row
}

// Document is what the renderer turns into a PDF.
type Document struct {
	Kind        Kind
	Title       string
	Table       Table
	ChartPNG    []byte
	GeneratedAt time.Time
}
