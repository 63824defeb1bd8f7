package wqp

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// MaxScannedRows bounds how many result rows are inspected for names and dates.
const MaxScannedRows = 500

type ResultSummary struct {
	Count               int
	LatestYear          int
	CharacteristicNames []string
}

func newReader(body []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true
	return r
}

// CountRows returns the number of data rows, excluding the header.
func CountRows(body []byte) (int, error) {
	r := newReader(body)
	n := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("parse csv: %w", err)
		}
		n++
	}
	if n <= 1 {
		return 0, nil
	}
	return n - 1, nil
}

// SummarizeResults counts result rows and, over the first MaxScannedRows lines,
// collects distinct characteristic names and the latest activity year.
func SummarizeResults(body []byte) (ResultSummary, error) {
	r := newReader(body)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return ResultSummary{}, nil
	}
	if err != nil {
		return ResultSummary{}, fmt.Errorf("parse csv header: %w", err)
	}
	charIdx, dateIdx := columnIndexes(header)

	var s ResultSummary
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ResultSummary{}, fmt.Errorf("parse csv line %d: %w", line+1, err)
		}
		s.Count++
		line++
		if line > MaxScannedRows {
			continue
		}

		if charIdx >= 0 && charIdx < len(rec) {
			name := strings.TrimSpace(rec[charIdx])
			if name != "" && !slices.Contains(s.CharacteristicNames, name) {
				s.CharacteristicNames = append(s.CharacteristicNames, name)
			}
		}
		if dateIdx >= 0 && dateIdx < len(rec) {
			if y, ok := leadingYear(rec[dateIdx]); ok && y > s.LatestYear {
				s.LatestYear = y
			}
		}
	}
	return s, nil
}

func columnIndexes(header []string) (charIdx, dateIdx int) {
	charIdx, dateIdx = -1, -1
	for i, col := range header {
		c := strings.ToLower(strings.TrimSpace(col))
		if charIdx < 0 && strings.Contains(c, "characteristic") {
			charIdx = i
		}
		if dateIdx < 0 && (strings.Contains(c, "activitystartdate") ||
			strings.Contains(c, "activity_startdate") ||
			strings.Contains(c, "startdate")) {
			dateIdx = i
		}
	}
	return charIdx, dateIdx
}

func leadingYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}
