package unoffice

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/nicholasgasior/unoffice/internal/ooxml"
	"github.com/nicholasgasior/unoffice/internal/xmlutil"
)

// chartData holds the cached plot data of one embedded chart part: the
// category labels of the first series and one value vector per series.
type chartData struct {
	categories []string
	series     []chartSeries
}

type chartSeries struct {
	name   string
	values []float64
}

func (cd chartData) empty() bool {
	return len(cd.categories) == 0 || len(cd.series) == 0
}

// table lays the chart data out as a grid: a header row of "Category" plus
// the series names, then one row per category. A series shorter than the
// category list pads with zero.
func (cd chartData) table() Table {
	header := make([]Cell, 0, len(cd.series)+1)
	header = append(header, chartCell("Category"))
	for _, s := range cd.series {
		header = append(header, chartCell(s.name))
	}
	rows := [][]Cell{header}
	for i, cat := range cd.categories {
		row := make([]Cell, 0, len(cd.series)+1)
		row = append(row, chartCell(cat))
		for _, s := range cd.series {
			var v float64
			if i < len(s.values) {
				v = s.values[i]
			}
			row = append(row, chartCell(strconv.FormatFloat(v, 'f', -1, 64)))
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows}
}

func chartCell(text string) Cell {
	return Cell{Blocks: []Block{RawText{Text: text}}}
}

// chartTable resolves a chart relationship of a slide and returns the chart's
// data as a Table. A dangling relationship, an unreadable or malformed chart
// part, or a chart with no cached data all degrade to no table.
func chartTable(pkg *ooxml.Package, slidePart, relID string) (Table, bool) {
	rel, err := pkg.Resolve(slidePart, relID)
	if err != nil || rel.External {
		return Table{}, false
	}
	data, err := pkg.Container.ReadPart(rel.Target)
	if err != nil {
		return Table{}, false
	}
	cd, err := parseChartData(data)
	if err != nil || cd.empty() {
		return Table{}, false
	}
	return cd.table(), true
}

// parseChartData extracts the cached values of a chart part. Series names
// come from the tx string cache, category labels from the cat string cache
// of the first series that carries one, and values from the val number
// cache, placed by the pt idx attribute.
func parseChartData(data []byte) (chartData, error) {
	var cd chartData

	var (
		inSer, inTx, inCat, inVal bool
		inStrCache, inNumCache    bool
		inPt, inValue             bool
		ptIdx                     int
		haveIdx                   bool
		name                      string
		values                    []float64
		cats                      []string
		buf                       strings.Builder
	)

	d := xmlutil.NewDecoder(data)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return chartData{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ser":
				inSer = true
				name = ""
				values = nil
				cats = nil
			case "tx":
				if inSer {
					inTx = true
				}
			case "cat":
				if inSer {
					inCat = true
				}
			case "val":
				if inSer {
					inVal = true
				}
			case "strCache":
				inStrCache = true
			case "numCache":
				inNumCache = true
			case "pt":
				inPt = true
				haveIdx = false
				if v, ok := xmlutil.Attr(t, "idx"); ok {
					if n, err := strconv.Atoi(v); err == nil {
						ptIdx = n
						haveIdx = true
					}
				}
			case "v":
				if inPt {
					inValue = true
					buf.Reset()
				}
			}

		case xml.CharData:
			if inValue {
				buf.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "v":
				if !inValue {
					break
				}
				text := strings.TrimSpace(buf.String())
				switch {
				case inTx && inStrCache:
					name = text
				case inCat && inStrCache:
					cats = append(cats, text)
				case inVal && inNumCache:
					if f, err := strconv.ParseFloat(text, 64); err == nil {
						if haveIdx {
							for len(values) <= ptIdx {
								values = append(values, 0)
							}
							values[ptIdx] = f
						} else {
							values = append(values, f)
						}
					}
				}
				inValue = false
			case "pt":
				inPt = false
				haveIdx = false
			case "strCache":
				inStrCache = false
			case "numCache":
				inNumCache = false
			case "tx":
				inTx = false
			case "cat":
				inCat = false
			case "val":
				inVal = false
			case "ser":
				if name != "" || len(values) > 0 {
					if name == "" {
						name = "Series " + strconv.Itoa(len(cd.series)+1)
					}
					cd.series = append(cd.series, chartSeries{name: name, values: values})
				}
				if len(cd.categories) == 0 && len(cats) > 0 {
					cd.categories = cats
				}
				inSer = false
			}
		}
	}
	return cd, nil
}
