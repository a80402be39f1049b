package main

import (
	"fmt"
	"log"
	"os"

	"github.com/finsim/household-forecast/internal/calculation"
	"github.com/finsim/household-forecast/internal/config"
	"github.com/finsim/household-forecast/internal/output"
	"github.com/spf13/cobra"
)

var (
	inputFile  string
	formatName string
	outputFile string
	verbose    bool
)

// stderrLogger routes engine diagnostics to stderr so piped report output
// stays clean.
type stderrLogger struct {
	debug bool
	l     *log.Logger
}

func newStderrLogger(debug bool) *stderrLogger {
	return &stderrLogger{debug: debug, l: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *stderrLogger) Debugf(format string, args ...any) {
	if s.debug {
		s.l.Printf("DEBUG "+format, args...)
	}
}
func (s *stderrLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s *stderrLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s *stderrLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "household-forecast",
		Short: "Project household cash flow and net worth to a life-expectancy horizon",
		Long: `household-forecast runs a month-by-month projection of a household's
income, expenses, debts, and accounts, and reports whether and when
liquid funds run out.`,
		SilenceUsage: true,
	}
	root.AddCommand(runCmd(), exampleCmd(), formatsCmd())
	return root
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a projection from a plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewParser()
			plan, err := parser.LoadFromFile(inputFile)
			if err != nil {
				return err
			}

			engine := calculation.NewEngine()
			engine.SetLogger(newStderrLogger(verbose))

			result, err := engine.Run(plan)
			if err != nil {
				return err
			}

			if outputFile != "" {
				return output.WriteReportFile(outputFile, result, formatName)
			}
			return output.WriteReport(cmd.OutOrStdout(), result, formatName)
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "plan YAML file (required)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "console", "output format (see 'formats')")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write report to file instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func exampleCmd() *cobra.Command {
	var exampleOut string
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write a starter plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.ExamplePlan()
			if err := config.SavePlan(plan, exampleOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example plan to %s\n", exampleOut)
			return nil
		},
	}
	cmd.Flags().StringVarP(&exampleOut, "output", "o", "example_plan.yaml", "destination file")
	return cmd
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List available output formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Formats:")
			for _, n := range output.AvailableFormatterNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Aliases:")
			for _, a := range output.AvailableFormatAliases() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s -> %s\n", a, output.NormalizeFormatName(a))
			}
			return nil
		},
	}
}
