// Package shared holds helpers used across vaxclean packages that belong to
// no single stage.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and fixtures that write small vaccination-outcome CSV files:
//
//	func TestLoad(t *testing.T) {
//	    path := testutil.WriteCSV(t, t.TempDir(), "in.csv", testutil.SampleHeader, rows...)
//	    logger, handler := testutil.NewTestLogger(t)
//	    ...
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "Dataset loaded")
//	}
package shared
