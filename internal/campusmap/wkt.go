package campusmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rhyrak/campus-schedule/pkg/model"
)

var wktMatcher = regexp.MustCompile(`^(LINESTRING|MULTILINESTRING|POINT)\s*\((.*)\)\s*$`)

// readWKT returns the coordinate groups of every LINESTRING or POINT
// entry. Blank lines, comments and empty geometries are skipped.
func readWKT(in io.Reader) (lines [][]model.Coord, points []model.Coord, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasSuffix(text, "EMPTY") {
			continue
		}
		match := wktMatcher.FindStringSubmatch(text)
		if match == nil {
			return nil, nil, fmt.Errorf("line %d: unsupported WKT %q", lineNo, text)
		}
		switch match[1] {
		case "POINT":
			coords, err := parseCoords(match[2])
			if err != nil || len(coords) != 1 {
				return nil, nil, fmt.Errorf("line %d: bad POINT %q", lineNo, text)
			}
			points = append(points, coords[0])
		case "LINESTRING":
			coords, err := parseCoords(match[2])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			lines = append(lines, coords)
		case "MULTILINESTRING":
			for _, part := range strings.Split(match[2], "),") {
				part = strings.Trim(strings.TrimSpace(part), "()")
				coords, err := parseCoords(part)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				lines = append(lines, coords)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return lines, points, nil
}

func parseCoords(body string) ([]model.Coord, error) {
	var coords []model.Coord
	for _, pair := range strings.Split(body, ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("coordinate %q should have two numbers", pair)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		coords = append(coords, model.Coord{X: x, Y: y})
	}
	return coords, nil
}

// LoadPoints reads a WKT file of POINT entries. An empty set is an error.
func LoadPoints(path string) ([]model.Coord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, please make sure the file exists: %w", path, err)
	}
	defer file.Close()
	points, err := ReadPoints(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// ReadPoints parses POINT entries from in.
func ReadPoints(in io.Reader) ([]model.Coord, error) {
	_, points, err := readWKT(in)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyPointSet
	}
	return points, nil
}
