package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"chainkit/internal/audit"
	"chainkit/internal/config"
	"chainkit/internal/manifest"
	"chainkit/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chainkit",
	Short: "chainkit - composition series toolkit",
	Long: `chainkit validates finite modular lattices, certifies the Jordan-Hölder
equivalence between composition series, audits lattice instances with a
Datalog rule set, and decomposes signed measures into their Hahn and
Jordan parts. Lattices, series, and measures are declared in YAML
manifests.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose || cfg.Logging.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var (
	watchMode bool
	saveRun   bool
	histLimit int
)

var checkCmd = &cobra.Command{
	Use:   "check [manifest...]",
	Short: "Validate manifests against the lattice laws",
	Long: `Builds every lattice and series the manifests declare and checks the
bounded lattice laws, the covering structure, and the second isomorphism
labelling. With --watch, re-checks a manifest whenever it changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var equateCmd = &cobra.Command{
	Use:   "equate [manifest] [left] [right]",
	Short: "Certify two composition series equivalent",
	Long: `Runs the Jordan-Hölder construction between two named series of the
manifest and prints the resulting step bijection together with the
factor class carried by each step.`,
	Args: cobra.ExactArgs(3),
	RunE: runEquate,
}

var auditCmd = &cobra.Command{
	Use:   "audit [manifest]",
	Short: "Audit a lattice instance with the Datalog rule set",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudit,
}

var decomposeCmd = &cobra.Command{
	Use:   "decompose [manifest] [measure]",
	Short: "Split a signed measure into Hahn and Jordan parts",
	Args:  cobra.ExactArgs(2),
	RunE:  runDecompose,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-check manifests on change")
	equateCmd.Flags().BoolVar(&saveRun, "save", false, "Archive the result")
	auditCmd.Flags().BoolVar(&saveRun, "save", false, "Archive the result")
	decomposeCmd.Flags().BoolVar(&saveRun, "save", false, "Archive the result")
	historyCmd.Flags().IntVar(&histLimit, "limit", 20, "Maximum runs to list")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(equateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(decomposeCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkOne(cmd *cobra.Command, path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	result, err := manifest.Check(m)
	if err != nil {
		return err
	}
	if !result.Ok() {
		for _, v := range result.Violations {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, v.String())
		}
		return fmt.Errorf("%s: %d lattice law violation(s)", path, len(result.Violations))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s lattice, series: %s)\n",
		path, result.Lattice, strings.Join(result.Series, ", "))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if watchMode {
		return watchManifests(cmd, args)
	}

	g := new(errgroup.Group)
	for _, path := range args {
		g.Go(func() error { return checkOne(cmd, path) })
	}
	return g.Wait()
}

func watchManifests(cmd *cobra.Command, paths []string) error {
	w, err := manifest.NewWatcher(logger, func(path string) {
		if err := checkOne(cmd, path); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := w.Add(path); err != nil {
			w.Stop()
			return err
		}
		// First pass before watching; failures are reported, not fatal.
		if err := checkOne(cmd, path); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	w.Start(ctx)
	logger.Info("watching manifests", zap.Strings("paths", paths))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	logger.Info("shutting down watcher")
	return w.Stop()
}

func runEquate(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	result, err := manifest.Equate(m, args[1], args[2])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s ~ %s: equivalent, %d step(s)\n", result.Left, result.Right, result.Length)
	for i, j := range result.Mapping {
		fmt.Fprintf(out, "  step %d -> step %d  [factor %s]\n", i, j, result.Classes[i])
	}

	if saveRun {
		return archive(func(s *store.Store) (string, error) {
			return s.SaveEquivalence(result)
		})
	}
	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	violations, err := manifest.AuditLattice(audit.Config{
		FactLimit: cfg.Audit.FactLimit,
		Timeout:   cfg.Audit.QueryTimeout,
	}, logger, m)
	if err != nil {
		return err
	}

	if saveRun {
		if err := archive(func(s *store.Store) (string, error) {
			return s.SaveAudit(m.Path, violations)
		}); err != nil {
			return err
		}
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", m.Path, v.String())
		}
		return fmt.Errorf("%s: %d audit violation(s)", m.Path, len(violations))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: audit clean\n", m.Path)
	return nil
}

func runDecompose(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	result, err := manifest.Decompose(m, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "measure %s\n", result.Measure)
	fmt.Fprintf(out, "  positive set: {%s}\n", strings.Join(result.Positive, ", "))
	fmt.Fprintf(out, "  negative set: {%s}\n", strings.Join(result.Negative, ", "))
	fmt.Fprintf(out, "  jordan parts: +%g / -%g\n", result.PosTotal, result.NegTotal)
	fmt.Fprintf(out, "  total variation: %g\n", result.TotalVariation)

	if saveRun {
		return archive(func(s *store.Store) (string, error) {
			return s.SaveDecomposition(result)
		})
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(histLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no archived runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Kind, r.ID, r.Manifest)
	}
	return nil
}

// archive opens the run archive, saves via fn, and reports the run id.
func archive(fn func(*store.Store) (string, error)) error {
	s, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := fn(s)
	if err != nil {
		return err
	}
	logger.Info("run archived", zap.String("id", id))
	fmt.Printf("archived run %s\n", id)
	return nil
}
