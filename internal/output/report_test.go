package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chdirTemp moves the test into a scratch directory so timestamped report
// files never land in the working tree.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestGenerateReport(t *testing.T) {
	dir := chdirTemp(t)

	tests := []struct {
		name    string
		format  string
		wantExt string
	}{
		{name: "console report", format: "console", wantExt: ".txt"},
		{name: "yearly csv", format: "csv", wantExt: ".csv"},
		{name: "monthly csv via alias", format: "monthly-csv", wantExt: ".csv"},
		{name: "json report", format: "json", wantExt: ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename, err := GenerateReport(sampleResult(), tt.format)
			assert.NoError(t, err)
			assert.True(t, strings.HasSuffix(filename, tt.wantExt),
				"filename %q should end in %s", filename, tt.wantExt)

			data, err := os.ReadFile(filepath.Join(dir, filename))
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestGenerateReportUnsupportedFormat(t *testing.T) {
	chdirTemp(t)

	_, err := GenerateReport(sampleResult(), "html")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// The error lists the supported names and aliases.
	assert.Contains(t, err.Error(), "console")
	assert.Contains(t, err.Error(), "monthly-csv")
}

func TestWriteFormatted(t *testing.T) {
	dir := chdirTemp(t)

	filename, err := WriteFormatted(JSONFormatter{}, sampleResult(), "json")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "forecast_report_"))

	data, err := os.ReadFile(filepath.Join(dir, filename))
	assert.NoError(t, err)
	assert.Contains(t, string(data), "retirement_year")
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	assert.NoError(t, WriteReportFile(path, sampleResult(), "csv"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "Year,")

	assert.ErrorIs(t, WriteReportFile(path, sampleResult(), "pdf"), ErrUnsupportedFormat)
}
