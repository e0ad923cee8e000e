package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// SampleHeader is the column layout of the published vaccination outcomes
// dataset.
var SampleHeader = []string{
	"Outcome",
	"Week End",
	"Age Group",
	"Unvaccinated Rate",
	"Vaccinated Rate",
	"Boosted Rate",
	"Crude Vaccinated Ratio",
	"Crude Boosted Ratio",
	"Population Unvaccinated",
	"Population Vaccinated",
	"Population Boosted",
	"Outcome Unvaccinated",
	"Outcome Vaccinated",
	"Outcome Boosted",
}

// SampleRows is a small dataset covering every age label, the aggregate
// "All" row, an unknown label, zero populations and missing rates.
var SampleRows = [][]string{
	{"Cases", "11/13/2021", "0-4", "10.0", "2.0", "", "5.0", "", "1000", "0", "0", "1", "2", ""},
	{"Cases", "11/13/2021", "5-11", "0", "0", "", "", "", "2000", "150", "0", "0", "0", "0"},
	{"Cases", "11/13/2021", "All", "55.5", "12.1", "3.3", "4.6", "16.8", "2,700,000", "1,500,000", "600,000", "1500", "180", "20"},
	{"Cases", "01/01/2022", "12-17", "80", "20", "10", "4", "8", "3000", "2500", "400", "24", "50", "4"},
	{"Cases", "01/01/2022", "18-29", "", "15.5", "7.25", "", "", "5000", "4000", "2000", "", "62", "14"},
	{"Cases", "01/01/2022", "30-49", "120", "30", "12", "4", "10", "7000", "6000", "3000", "84", "180", "36"},
	{"Deaths", "07/02/2022", "50-64", "4", "1", "0.5", "4", "8", "6000", "5500", "3500", "2", "5", "2"},
	{"Deaths", "07/02/2022", "65-79", "20", "5", "2", "4", "10", "2500", "3000", "2500", "5", "15", "5"},
	{"Deaths", "07/02/2022", "80+", "50", "25", "10", "2", "5", "800", "1200", "1000", "4", "30", "10"},
	{"Deaths", "07/02/2022", "Unknown", "1", "1", "1", "1", "1", "10", "10", "10", "0", "0", "0"},
}

// WriteCSV writes header and rows to dir/name and returns the path
func WriteCSV(t *testing.T, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if header != nil {
		if err := w.Write(header); err != nil {
			t.Fatalf("write fixture header: %v", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write fixture rows: %v", err)
	}
	return path
}

// WriteSampleCSV writes the sample dataset and returns its path
func WriteSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "COVID19_Vaccination_Outcomes.csv", SampleHeader, SampleRows...)
}

// ReadCSV reads a CSV file back as header and rows
func ReadCSV(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], all[1:]
}
