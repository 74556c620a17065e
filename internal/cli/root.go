// Package cli implements the mistest command: parse the resource/test
// token surface described in spec §6, load the test tree, run it across
// N worker resources, and report the result.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mistest/internal/cliargs"
	"mistest/internal/config"
	"mistest/internal/display"
	"mistest/internal/scheduler"
	"mistest/internal/sink"
	"mistest/internal/suite"
)

// Version is set by goreleaser via ldflags.
var Version = "dev"

var (
	cfgFile            string
	immediateOutput    bool
	buffered           bool
	junitXMLPath       string
	jobs               int
	noColor            bool
	prefixWithResource bool
)

var rootCmd = &cobra.Command{
	Use:   "mistest [<resource>...] [- <test>...] | [<token>...]",
	Short: "Execute TAP-emitting test cases across parallel resources",
	Long: `mistest runs external test programs that emit the Test Anything
Protocol on their standard output, aggregates their results, and renders
a live stream plus a JUnit XML report.

Positional tokens are resource labels and test paths. Use "-" to
separate them explicitly (resources first, tests after); without a
separator, leading tokens that aren't a suite (.yaml) or an executable
test case are treated as resources.`,
	Version:      Version,
	SilenceUsage: true,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runMistest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (not read: configuration always comes from .mistest/config.yaml in the current directory)")
	rootCmd.Flags().BoolVar(&immediateOutput, "immediate-output", false, "print TAP output immediately, even during parallel execution (default)")
	rootCmd.Flags().BoolVar(&buffered, "buffered", false, "buffer a case's TAP output until it completes, then replay it as one block")
	rootCmd.Flags().StringVarP(&junitXMLPath, "junit-xml", "x", "", "write a JUnit XML report to PATH")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel resources when none are named explicitly")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&prefixWithResource, "prefix-with-resource", false, "prefix every line with its resource label")
	rootCmd.SetVersionTemplate(fmt.Sprintf("mistest version %s\n", Version))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runMistest(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	parsed, err := cliargs.Parse(args)
	if err != nil {
		exitConfigError(err.Error())
	}
	if len(parsed.Tests) == 0 {
		exitConfigError("no test cases or suites given")
	}

	jobCount := jobs
	if jobCount == 0 {
		jobCount = cfg.Jobs
	}
	resources := cliargs.ResolveResources(parsed.Resources, jobCount)
	if len(resources) > 1 {
		prefixWithResource = true
	}

	root, err := suite.LoadTopLevel(parsed.Tests)
	if err != nil {
		exitConfigError(err.Error())
	}

	immediate := cfg.Output.Immediate
	if buffered {
		immediate = false
	}
	if immediateOutput {
		immediate = true
	}

	opts := sink.Options{
		Immediate:          immediate,
		PrefixWithResource: prefixWithResource,
		JunitXMLPath:       firstNonEmpty(junitXMLPath, cfg.Output.JunitXML),
	}

	disp := display.NewWithOptions(noColor || cfg.Output.NoColor)
	sk := sink.New(opts, disp)

	s := scheduler.New(resources)
	ctx := context.Background()
	s.Run(ctx, root, sk.Handle)

	ok, err := sk.PostProcess(root)
	if err != nil {
		return err
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// exitConfigError reports a fatal configuration error and exits
// non-zero, per spec §6 ("non-zero on configuration error").
func exitConfigError(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
