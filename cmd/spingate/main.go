// FILENAME: cmd/spingate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xkilldash9x/spingate/barrier"
	"github.com/xkilldash9x/spingate/internal/config"
	"github.com/xkilldash9x/spingate/internal/harness"
	"github.com/xkilldash9x/spingate/internal/models"
	"github.com/xkilldash9x/spingate/internal/report"
	"github.com/xkilldash9x/spingate/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// -- Signal Handling --
	// sets up the root context that listens for OS interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := Run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context, args []string, input io.Reader, output io.Writer) error {
	flags := flag.NewFlagSet("spingate", flag.ContinueOnError)
	flags.SetOutput(output)
	threads := flags.Int("threads", config.DefaultThreads, "Participants per barrier run")
	episodes := flags.Int("episodes", config.DefaultEpisodes, "Episodes per barrier run")
	algo := flags.String("algo", config.DefaultAlgo, "Algorithm to run (centralized, combining, dissemination, tournament, mcs, all)")
	out := flags.String("out", config.DefaultReportDir, "Report output directory")
	headless := flags.Bool("headless", false, "Run without the TUI and write artifacts directly")
	pin := flags.Bool("pin", true, "Lock participants to OS threads")
	debug := flags.Bool("debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		return err
	}

	kinds, err := selectKinds(*algo)
	if err != nil {
		return err
	}

	// -- Logging Setup --
	// configures zap for file output only to avoid messing with the TUI
	logConfig := zap.NewProductionConfig()
	logConfig.OutputPaths = []string{"spingate.log"}
	logConfig.ErrorOutputPaths = []string{"spingate.log"}
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if *debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := logConfig.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	base := harness.Config{
		Threads:    *threads,
		Episodes:   *episodes,
		PinThreads: *pin,
		FreezeGC:   true,
	}
	runner := harness.NewRunner(logger)
	writer := report.NewWriter(*out)

	if *headless {
		return runHeadless(ctx, runner, writer, base, kinds, output)
	}
	return runTUI(ctx, runner, writer, base, kinds, logger, input, output)
}

func selectKinds(algo string) ([]barrier.Kind, error) {
	if algo == "all" {
		return barrier.Kinds(), nil
	}
	kind, err := barrier.ParseKind(algo)
	if err != nil {
		return nil, err
	}
	return []barrier.Kind{kind}, nil
}

func runHeadless(ctx context.Context, runner *harness.Runner, writer *report.Writer, base harness.Config, kinds []barrier.Kind, output io.Writer) error {
	results, err := runner.RunSuite(ctx, base, kinds, func(res models.RunResult) {
		fmt.Fprintln(output, res.String())
	})
	if err != nil && len(results) == 0 {
		return err
	}

	paths, werr := writer.WriteArtifacts(results, "suite")
	if werr != nil {
		return fmt.Errorf("report write error: %w", werr)
	}
	for _, p := range paths {
		fmt.Fprintf(output, "wrote %s\n", p)
	}

	for _, res := range results {
		if res.FenceFailures > 0 {
			return fmt.Errorf("%s: %d publication check failures", res.Kind, res.FenceFailures)
		}
	}
	return err
}

func runTUI(ctx context.Context, runner *harness.Runner, writer *report.Writer, base harness.Config, kinds []barrier.Kind, logger *zap.Logger, input io.Reader, output io.Writer) error {
	model := ui.NewModel(logger, writer, len(kinds))
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	// -- Suite Bridge --
	// runs the suite off the UI loop and streams progress into it
	go func() {
		results := make([]models.RunResult, 0, len(kinds))
		for i, kind := range kinds {
			cfg := base
			cfg.Kind = kind
			cfg.Progress = func(completed int) {
				p.Send(ui.RunProgressMsg{Completed: completed, Episodes: cfg.Episodes})
			}
			p.Send(ui.RunStartedMsg{Kind: kind.String(), Index: i, Total: len(kinds)})

			res, err := runner.Run(ctx, cfg)
			if err != nil {
				p.Send(ui.SuiteErrMsg{Err: err})
				return
			}
			results = append(results, res)
			p.Send(ui.RunDoneMsg(res))
			if res.Aborted {
				break
			}
		}
		p.Send(ui.SuiteDoneMsg(results))
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
