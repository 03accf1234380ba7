package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EduardoSa-Tester/satellite-api-tests/apitests"
	"github.com/EduardoSa-Tester/satellite-api-tests/framework"
	"github.com/EduardoSa-Tester/satellite-api-tests/refservice"

	"github.com/spf13/cobra"
)

const defaultReferencePort = 8111

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   "satellite-api-tests",
		Short: "Contract tests for the GP data catalog and the space-object API",
		Long: `Runs the contract test suite against the GP data catalog and the space-object API.

Endpoints come from the config file (--config) or the built-in defaults, and can be overridden
with --catalog-url and --space-objects-url. With --offline, both are served by the built-in
reference service instead.

Examples:
  satellite-api-tests --run '^catalog'
  satellite-api-tests --offline --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runSuite(out, &params)
		},
	}
	cmd.SetOut(out)
	params.bind(cmd)
	cmd.AddCommand(newServeReferenceCommand(out))
	return cmd
}

func runSuite(out io.Writer, params *commandParams) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	if params.offline {
		ref, err := refservice.Start("127.0.0.1:0", refservice.Options{
			AllowedObjectTypes: cfg.SpaceObjects.AllowedObjectTypes,
			Logger:             framework.LoggerWithPrefix(mainDebugLogger, "[reference] "),
		})
		if err != nil {
			return fmt.Errorf("starting reference service: %w", err)
		}
		defer func() {
			_ = ref.Close()
		}()
		if cfg, err = cfg.WithBaseURL(ref.URL()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Offline run: both services are served by the reference service at %s\n", ref.URL())
	}

	harness := framework.NewTestHarness(nil, cfg.RequestTimeout, mainDebugLogger)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Catalog:       %s\n", cfg.Catalog.URL)
	fmt.Fprintf(out, "Space objects: %s\n", cfg.SpaceObjectsURL())
	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)

	fmt.Fprintln(out, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := apitests.RunTestSuite(harness, cfg, params.filters.AsFilter, testLogger)

	fmt.Fprintln(out)
	printResults(out, results)
	if !results.OK() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests again:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(os.Args[0], results.Failures))
		return fmt.Errorf("%d test(s) failed", len(results.Failures))
	}
	return nil
}

func newServeReferenceCommand(out io.Writer) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve-reference",
		Short: "Run the reference catalog and space-object service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger := log.New(out, "[reference] ", log.LstdFlags)
			ref, err := refservice.Start(fmt.Sprintf(":%d", port), refservice.Options{Logger: logger})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Reference service listening at %s\n", ref.URL())

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			fmt.Fprintln(out, "Shutting down")
			return ref.Close()
		},
	}
	cmd.Flags().IntVar(&port, "port", defaultReferencePort, "port to listen on")
	return cmd
}
