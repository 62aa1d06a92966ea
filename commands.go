package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"chomp/engine"
	"chomp/experiments"
	"chomp/experiments/metrics"
	"chomp/game"
	"chomp/meta"
	"chomp/player"
	"chomp/searcher"
	"chomp/searcher/agent"
	"chomp/tablebase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// usageError marks bad command lines so that run prints the usage.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	tablebase  string
	noMemo     bool

	config meta.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "chomp <rows> <cols>",
		Short: "Play Chomp against a perfect solver",
		Long: `Chomp is played on a rectangular chocolate bar whose top-left square is
poisoned. Players alternately eat a square together with every square below
and to the right of it. Whoever eats the poisoned square loses.`,
		Args:              boardArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runPlay,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", meta.DEFAULT_CONFIG, "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.tablebase, "tablebase", "", "BadgerDB tablebase directory, empty keeps the table in memory")
	flags.BoolVar(&a.noMemo, "no-memo", false, "use the plain exhaustive search")

	tablebaseCmd := &cobra.Command{
		Use:   "tablebase",
		Short: "Manage the persistent table of solved shapes",
	}
	tablebaseCmd.AddCommand(a.newBuildCmd())

	rootCmd.AddCommand(a.newSolveCmd(), tablebaseCmd, a.newExperimentCmd(), a.newServeCmd())
	return rootCmd
}

// setup loads the config file and lets explicit flags override it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	config, err := meta.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.LogLevel = a.logLevel
	}
	if flags.Changed("tablebase") {
		config.Solver.Tablebase = a.tablebase
	}
	if flags.Changed("no-memo") {
		config.Solver.Memoize = !a.noMemo
	}
	if err := meta.SetupLogging(config.LogLevel, a.errOut); err != nil {
		return usageError{fmt.Errorf("--log-level: %w", err)}
	}
	a.config = config
	return nil
}

func boardArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return usageError{fmt.Errorf("expected <rows> <cols>, got %d arguments", len(args))}
	}
	_, _, err := parseBoard(args)
	return err
}

func parseBoard(args []string) (rows, cols int, err error) {
	rows, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("rows must be an integer, got %q", args[0])}
	}
	cols, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("cols must be an integer, got %q", args[1])}
	}
	return rows, cols, nil
}

// newSolver builds the solver described by the config. The returned close
// function reports the first tablebase error.
func (a *app) newSolver(collector metrics.Collector) (*searcher.Solver, func() error, error) {
	options := []searcher.Option{searcher.WithCollector(collector)}
	closer := func() error { return nil }

	switch {
	case !a.config.Solver.Memoize:
		options = append(options, searcher.WithoutMemo())
	case a.config.Solver.Tablebase != "":
		tb, err := tablebase.Open(tablebase.Config{Path: a.config.Solver.Tablebase})
		if err != nil {
			return nil, nil, err
		}
		options = append(options, searcher.WithTable(tb))
		closer = func() error {
			return errors.Join(tb.Err(), tb.Close())
		}
	}
	return searcher.NewSolver(options...), closer, nil
}

func (a *app) runPlay(_ *cobra.Command, args []string) (err error) {
	rows, cols, err := parseBoard(args)
	if err != nil {
		return err
	}
	solver, closeSolver, err := a.newSolver(nil)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, closeSolver()) }()

	present, absent := a.config.Render.Runes()
	players := []engine.Player{
		{Name: "You", Agent: player.NewHuman(a.in, a.out)},
		{Name: "AI", Agent: agent.NewSolverAgent(solver)},
	}
	e, err := engine.NewLocalEngine(rows, cols, players, engine.WithOutput(a.out), engine.WithRender(present, absent))
	if err != nil {
		return err
	}

	result, err := e.Run()
	if errors.Is(err, player.ErrQuit) {
		fmt.Fprintln(a.out, "Bye!")
		return nil
	}
	if err != nil {
		return err
	}
	if result.Winner == "You" {
		fmt.Fprintln(a.out, "YOU WIN!")
	} else {
		fmt.Fprintln(a.out, "YOU LOSE!")
	}
	return nil
}

func (a *app) newSolveCmd() *cobra.Command {
	var heights []int
	cmd := &cobra.Command{
		Use:   "solve <rows> <cols>",
		Short: "Print the first winning move of a position",
		Args:  boardArgs,
		RunE: func(_ *cobra.Command, args []string) (err error) {
			rows, cols, err := parseBoard(args)
			if err != nil {
				return err
			}
			var p game.Position
			if len(heights) > 0 {
				p, err = game.FromHeights(rows, cols, heights)
			} else {
				p, err = game.NewPosition(rows, cols)
			}
			if err != nil {
				return err
			}
			if p.IsOver() {
				return usageError{errors.New("--heights: the poison cell is already eaten")}
			}

			collector := metrics.NewCollector()
			solver, closeSolver, err := a.newSolver(collector)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeSolver()) }()

			move, ok := solver.WinningMove(p)
			totals := collector.Totals()
			log.Info().Int64("nodes", totals.Nodes).Int64("table_hits", totals.TableHits).Dur("duration", totals.Duration).Msg("search finished")
			fmt.Fprintf(a.out, "%s\n", p.Render(a.config.Render.Runes()))
			if !ok {
				fmt.Fprintln(a.out, "no winning move")
				return nil
			}
			fmt.Fprintf(a.out, "winning move: %s\n", move)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&heights, "heights", nil, "column heights of a staircase position, e.g. 3,2,2")
	return cmd
}

func (a *app) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <rows> <cols>",
		Short: "Solve every shape that fits on a board into the tablebase",
		Args:  boardArgs,
		RunE: func(_ *cobra.Command, args []string) (err error) {
			rows, cols, err := parseBoard(args)
			if err != nil {
				return err
			}
			if a.config.Solver.Tablebase == "" {
				return usageError{errors.New("--tablebase or solver.tablebase is required")}
			}
			tb, err := tablebase.Open(tablebase.Config{Path: a.config.Solver.Tablebase})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, tb.Close()) }()

			start := time.Now()
			shapes, err := tablebase.Build(searcher.NewSolver(searcher.WithTable(tb)), rows, cols)
			if err != nil {
				return err
			}
			if err := tb.Err(); err != nil {
				return err
			}
			stored, err := tb.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "solved %d shapes in %s, %d stored in %s\n", shapes, time.Since(start).Round(time.Millisecond), stored, a.config.Solver.Tablebase)
			return nil
		},
	}
}

func (a *app) newExperimentCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Pit solver and random agents against each other and record the games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			config := a.config.Experiments
			cfg := experiments.Config{
				Name:      name,
				Games:     config.Games,
				Workers:   config.Workers,
				Seed:      config.Seed,
				OutputDir: config.OutputDir,
			}
			for _, board := range config.Boards {
				rows, cols, parseErr := meta.ParseBoard(board)
				if parseErr != nil {
					return parseErr
				}
				cfg.Boards = append(cfg.Boards, experiments.Board{Rows: rows, Cols: cols})
			}
			if path := a.config.Solver.Tablebase; path != "" {
				tb, openErr := tablebase.Open(tablebase.Config{Path: path})
				if openErr != nil {
					return openErr
				}
				defer func() { err = errors.Join(err, tb.Err(), tb.Close()) }()
				cfg.Table = tb
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			report, err := experiments.Run(ctx, cfg)
			if err != nil {
				return err
			}

			for _, record := range report.Agents {
				fmt.Fprintf(a.out, "agent %d (%s, memoize=%t): %d searches, %d nodes, %d table hits, %s\n",
					record.ID, record.Kind, record.Memoize, record.Searches, record.Nodes, record.TableHits, record.Duration)
			}
			fmt.Fprintf(a.out, "%d games recorded in %s\n", len(report.Games), report.Dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "solver_vs_random", "experiment name, used as the output subdirectory")
	return cmd
}

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve solver moves over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if cmd.Flags().Changed("addr") {
				a.config.Server.Addr = addr
			}
			if !a.config.Solver.Memoize {
				return usageError{errors.New("serve needs a memoizing solver, drop --no-memo")}
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			solver, closeSolver, err := a.newSolver(metrics.NewPrometheusCollector(reg))
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeSolver()) }()

			server := &http.Server{
				Addr:              a.config.Server.Addr,
				Handler:           agent.NewServer(agent.NewSolverAgent(solver), reg),
				ReadHeaderTimeout: 5 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", server.Addr).Msg("serving moves")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
