package layout

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// pointsPerInch converts plain-format inches to the points dot2tex reports.
const pointsPerInch = 72

// parsePlain reads Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 … label xl yl style color
//	stop
//
// Only node lines contribute positions.
func parsePlain(r io.Reader) (Positions, error) {
	pos := Positions{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), errs.MaxDOTSize)

	for lineNo := 1; sc.Scan(); lineNo++ {
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "plain output line %d", lineNo)
		}
		if len(fields) == 0 || fields[0] != "node" {
			continue
		}
		if len(fields) < 4 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "plain output line %d: truncated node line", lineNo)
		}

		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "plain output line %d: x coordinate", lineNo)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "plain output line %d: y coordinate", lineNo)
		}
		pos[fields[1]] = []float64{x * pointsPerInch, y * pointsPerInch}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read plain output")
	}
	return pos, nil
}

// splitPlain splits a plain-format line on whitespace. Double-quoted fields
// may contain spaces and \" escapes; the quotes are removed.
func splitPlain(line string) ([]string, error) {
	var fields []string
	for {
		line = strings.TrimLeft(line, " \t")
		if line == "" {
			return fields, nil
		}

		if line[0] != '"' {
			n := strings.IndexAny(line, " \t")
			if n < 0 {
				n = len(line)
			}
			fields = append(fields, line[:n])
			line = line[n:]
			continue
		}

		var b strings.Builder
		i := 1
		for ; i < len(line); i++ {
			if line[i] == '\\' && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			if line[i] == '"' {
				break
			}
			b.WriteByte(line[i])
		}
		if i >= len(line) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "unterminated quoted field")
		}
		fields = append(fields, b.String())
		line = line[i+1:]
	}
}
