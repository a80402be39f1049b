package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finsim/household-forecast/internal/domain"
)

// GenerateReport resolves a format name and writes the rendered result to a
// timestamped file, returning its name.
func GenerateReport(result *domain.SimulationResult, format string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)",
			ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "),
			strings.Join(AvailableFormatAliases(), ", "))
	}
	return WriteFormatted(f, result, extensionFor(f.Name()))
}

// WriteReport resolves a format name and streams the rendered result to w.
func WriteReport(w io.Writer, result *domain.SimulationResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)",
			ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "),
			strings.Join(AvailableFormatAliases(), ", "))
	}
	data, err := f.Format(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteReportFile renders the result in the given format straight to filename.
func WriteReportFile(filename string, result *domain.SimulationResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	data, err := f.Format(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func extensionFor(name string) string {
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case name == "json":
		return "json"
	default:
		return "txt"
	}
}
