package dataprocessing

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"vaxclean/internal/errors"
	"vaxclean/pkg/contracts/domain"
)

// weekEndLayouts are tried in order when parsing the Week End column
var weekEndLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 03:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 15:04",
}

// Loader reads the raw vaccination outcomes CSV into a table
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load opens and parses the CSV file at path
func (l *Loader) Load(ctx context.Context, path string) (*domain.VaccinationTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("input file", err).WithContext("path", path)
		}
		return nil, errors.NewStorageError("failed to open input file", err).WithContext("path", path)
	}
	defer f.Close()

	return l.Parse(ctx, f, path)
}

// Parse reads a CSV stream. Week End and Age Group are required; every
// other known column is optional and its presence is recorded in the
// schema. Columns produced by the pipeline itself are ignored so that a
// cleaned file can be cleaned again.
func (l *Loader) Parse(ctx context.Context, r io.Reader, source string) (*domain.VaccinationTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("input has no header row", nil).WithContext("source", source)
	}
	if err != nil {
		return nil, csvError(err, source)
	}

	schema, fieldMap, err := buildSchema(header)
	if err != nil {
		return nil, err
	}

	table := &domain.VaccinationTable{Source: source, FileColumns: len(header), Schema: schema}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err, source)
		}

		line, _ := reader.FieldPos(0)
		record, err := parseRecord(rec, fieldMap, line)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, record)
	}

	minDate, maxDate := table.DateRange()
	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", source),
		slog.Int("rows", table.Len()),
		slog.Int("columns", table.FileColumns),
		slog.String("min_date", minDate.Format("2006-01-02")),
		slog.String("max_date", maxDate.Format("2006-01-02")))

	return table, nil
}

// fieldRole maps one CSV field to its destination
type fieldRole struct {
	kind   domain.ColumnKind
	cohort domain.Cohort
	extra  int
	skip   bool
	name   string
}

var knownColumns = func() map[string]fieldRole {
	m := map[string]fieldRole{
		domain.ColumnWeekEnd:  {kind: domain.KindWeekEnd},
		domain.ColumnAgeGroup: {kind: domain.KindAgeGroup},
	}
	for _, c := range domain.Cohorts {
		m[domain.PopulationColumn(c)] = fieldRole{kind: domain.KindPopulation, cohort: c}
		m[domain.RateColumn(c)] = fieldRole{kind: domain.KindRate, cohort: c}
		m[domain.OutcomeColumn(c)] = fieldRole{kind: domain.KindOutcome, cohort: c}
	}
	return m
}()

func buildSchema(header []string) (domain.Schema, []fieldRole, error) {
	var schema domain.Schema
	roles := make([]fieldRole, len(header))
	seen := make(map[string]bool, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		if seen[name] {
			return schema, nil, errors.NewSchemaError(fmt.Sprintf("duplicate column %q", name)).
				WithContext("column", name)
		}
		seen[name] = true

		if domain.IsDerivedColumn(name) {
			roles[i] = fieldRole{skip: true, name: name}
			continue
		}

		role, known := knownColumns[name]
		if !known {
			role = fieldRole{kind: domain.KindExtra, extra: countExtra(schema)}
		}
		role.name = name
		roles[i] = role

		col := domain.Column{Name: name, Kind: role.kind, Cohort: role.cohort, ExtraIndex: role.extra}
		schema.Columns = append(schema.Columns, col)

		switch role.kind {
		case domain.KindPopulation:
			schema.HasPopulation[role.cohort] = true
		case domain.KindRate:
			schema.HasRate[role.cohort] = true
		case domain.KindOutcome:
			schema.HasOutcome[role.cohort] = true
		}
	}

	for _, required := range []string{domain.ColumnWeekEnd, domain.ColumnAgeGroup} {
		if !seen[required] {
			return schema, nil, errors.NewSchemaError(fmt.Sprintf("missing required column %q", required)).
				WithContext("column", required)
		}
	}

	return schema, roles, nil
}

func countExtra(schema domain.Schema) int {
	n := 0
	for _, c := range schema.Columns {
		if c.Kind == domain.KindExtra {
			n++
		}
	}
	return n
}

func parseRecord(fields []string, roles []fieldRole, line int) (*domain.VaccinationRecord, error) {
	record := &domain.VaccinationRecord{}

	for i, value := range fields {
		role := roles[i]
		if role.skip {
			continue
		}

		switch role.kind {
		case domain.KindWeekEnd:
			date, err := ParseWeekEnd(value)
			if err != nil {
				return nil, errors.NewParsingError("invalid week-ending date", err).
					WithContext("line", line).
					WithContext("column", role.name).
					WithContext("value", value)
			}
			record.WeekEnd = date
		case domain.KindAgeGroup:
			record.AgeGroup = value
		case domain.KindPopulation, domain.KindRate, domain.KindOutcome:
			v, err := ParseNumber(value)
			if err != nil {
				return nil, errors.NewParsingError("invalid numeric value", err).
					WithContext("line", line).
					WithContext("column", role.name).
					WithContext("value", value)
			}
			switch role.kind {
			case domain.KindPopulation:
				record.Population.Set(role.cohort, v)
			case domain.KindRate:
				record.Rate.Set(role.cohort, v)
			default:
				record.Outcome.Set(role.cohort, v)
			}
		default:
			record.Extra = append(record.Extra, value)
		}
	}

	return record, nil
}

// ParseWeekEnd parses a week-ending date in any of the supported layouts.
// Any time of day or offset is dropped, leaving the date as written.
func ParseWeekEnd(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range weekEndLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return CalendarDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}

// ParseNumber parses a numeric cell. Empty cells and NaN are null;
// thousands separators are accepted.
func ParseNumber(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

func csvError(err error, source string) error {
	appErr := errors.NewParsingError("malformed CSV", err).WithContext("source", source)
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		appErr.WithContext("line", parseErr.Line)
	}
	return appErr
}
