// Package main provides the CLI entrypoint for crease.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/crease/internal/config"
	"github.com/verte-zerg/crease/internal/dataset"
	"github.com/verte-zerg/crease/internal/logging"
	"github.com/verte-zerg/crease/internal/model"
	"github.com/verte-zerg/crease/internal/stats"
	"github.com/verte-zerg/crease/internal/statsui"
	"github.com/verte-zerg/crease/internal/store"
	"github.com/verte-zerg/crease/internal/view"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	dataDir     string
	dataArchive string
	dataBundle  string
	logLevel    string
	recentSince int

	dashMode            string
	dashPhase           string
	dashTop             int
	dashRecommendations bool

	viewEntity          string
	viewMetric          string
	viewPhase           string
	viewSeason          int
	viewTop             int
	viewFormat          string
	viewRecommendations bool

	aggSide     string
	aggEntity   string
	aggBySeason bool
	aggByPhase  bool
	aggSeason   int
	aggPhase    string
	aggSort     string
	aggTop      int
	aggFormat   string

	bundleOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crease",
		Short:         "Cricket phase analytics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataDir, "data-dir", config.DefaultDataDir(), "directory holding the dataset archive or CSV files")
	flags.StringVar(&dataArchive, "archive", dataset.DefaultArchive, "dataset archive inside the data dir")
	flags.StringVar(&dataBundle, "bundle", "", "SQLite bundle read before the archive")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.IntVar(&recentSince, "recent-since", config.DefaultRecentSince, "first season for player pickers and top lists")

	rootCmd.Flags().StringVar(&dashMode, "mode", config.DefaultMode, "starting view")
	rootCmd.Flags().StringVar(&dashPhase, "phase", "", "phase for top lists (Powerplay, Middle, Death)")
	rootCmd.Flags().IntVar(&dashTop, "top", config.DefaultTop, "rows in rankings")
	rootCmd.Flags().BoolVar(&dashRecommendations, "recommendations", false, "show team recommendations")

	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newAggregateCmd())
	rootCmd.AddCommand(newDatasetsCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newBundleCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// app holds the resolved configuration and the collaborators built from it.
type app struct {
	cfg   model.DashboardConfig
	log   *logging.Logger
	cache *dataset.Cache
	deps  view.Deps
}

// resolveConfig merges the config file into the flag values; flags set on the
// command line win. Flags a command does not define take the file value.
func resolveConfig(cmd *cobra.Command) (model.DashboardConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.DashboardConfig{}, errors.Wrap(err, "failed to load config")
	}
	applyStringConfig(cmd, "data-dir", &dataDir, fileCfg.Data.Dir)
	applyStringConfig(cmd, "archive", &dataArchive, fileCfg.Data.Archive)
	applyStringConfig(cmd, "bundle", &dataBundle, fileCfg.Data.Bundle)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyIntConfig(cmd, "recent-since", &recentSince, fileCfg.Dashboard.RecentSince)
	applyStringConfig(cmd, "mode", &dashMode, fileCfg.Dashboard.Mode)
	applyStringConfig(cmd, "phase", &dashPhase, fileCfg.Dashboard.Phase)
	applyIntConfig(cmd, "top", &dashTop, fileCfg.Dashboard.Top)

	cfg := config.Defaults()
	config.Apply(&cfg, fileCfg)
	cfg.DataDir = dataDir
	cfg.Archive = dataArchive
	cfg.Bundle = dataBundle
	cfg.LogLevel = strings.ToLower(logLevel)
	cfg.RecentSince = recentSince
	cfg.Mode = dashMode
	cfg.Phase = dashPhase
	cfg.Top = dashTop

	if err := config.Validate(cmd.Context(), cfg); err != nil {
		return model.DashboardConfig{}, err
	}
	return cfg, nil
}

// setup resolves the config and wires the logger, dataset cache and view deps.
// Logs go to logOut in the console format.
func setup(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return build(cfg, logging.New(level, logOut))
}

func build(cfg model.DashboardConfig, log *logging.Logger) (*app, error) {
	logging.SetDefault(log)

	polarity, err := stats.DefaultPolarity().WithOverrides(cfg.Polarity)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ranking polarity")
	}
	sources := dataset.NewSources(dataset.Options{Dir: cfg.DataDir, Archive: cfg.Archive, Bundle: cfg.Bundle}, log)
	cache := dataset.NewCache(sources, log)
	log.Debug("config resolved", "data_dir", cfg.DataDir, "bundle", cfg.Bundle, "sources", len(sources))
	return &app{
		cfg:   cfg,
		log:   log,
		cache: cache,
		deps: view.Deps{
			Datasets:    cache,
			Polarity:    polarity,
			RecentSince: cfg.RecentSince,
			Logger:      log,
		},
	}, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = config.DefaultLogPath()
	}
	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	rt, err := build(cfg, logging.NewJSON(level, logFile))
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.log.Sync()
	}()
	mode, err := view.ParseMode(rt.cfg.Mode)
	if err != nil {
		return err
	}

	m := statsui.NewModel(statsui.Options{
		Deps:            rt.deps,
		Start:           view.Params{Mode: mode, Phase: model.Phase(rt.cfg.Phase), TopN: rt.cfg.Top},
		Reload:          rt.cache.Clear,
		Recommendations: dashRecommendations,
	})
	rt.log.Info("dashboard started", "mode", mode)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return errors.Wrap(err, "failed to run dashboard")
	}
	return nil
}

func newViewCmd() *cobra.Command {
	modes := make([]string, 0, len(view.Modes()))
	for _, m := range view.Modes() {
		modes = append(modes, string(m))
	}
	cmd := &cobra.Command{
		Use:       "view <mode>",
		Short:     "Print one view",
		Long:      "Print one view. Modes: " + strings.Join(modes, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: modes,
		RunE:      runViewCmd,
	}
	cmd.Flags().StringVar(&viewEntity, "entity", "", "team or player (default: first choice)")
	cmd.Flags().StringVar(&viewMetric, "metric", "", "metric (default: the mode's first metric)")
	cmd.Flags().StringVar(&viewPhase, "phase", "", "phase for top lists")
	cmd.Flags().IntVar(&viewSeason, "season", 0, "season (default: latest for caps, recent seasons for top lists)")
	cmd.Flags().IntVar(&viewTop, "top", 0, "rows in rankings (default: config top)")
	cmd.Flags().StringVar(&viewFormat, "format", formatText, "output format (text, json)")
	cmd.Flags().BoolVar(&viewRecommendations, "recommendations", false, "include team recommendations")
	return cmd
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	if err := checkFormat(viewFormat); err != nil {
		return err
	}
	mode, err := view.ParseMode(args[0])
	if err != nil {
		return err
	}
	rt, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.log.Sync()
	}()

	p := view.Params{
		Mode:   mode,
		Entity: viewEntity,
		Metric: viewMetric,
		Season: viewSeason,
		TopN:   viewTop,
		Phase:  model.Phase(rt.cfg.Phase),
	}
	if viewPhase != "" {
		phase, err := model.ParsePhase(viewPhase)
		if err != nil {
			return err
		}
		p.Phase = phase
	}
	if !cmd.Flags().Changed("top") {
		p.TopN = rt.cfg.Top
	}

	res, err := view.Dispatch(cmd.Context(), rt.deps, p)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if viewFormat == formatJSON {
		return writeJSON(out, toJSONView(res, viewRecommendations))
	}
	if err := view.Render(out, res, view.RenderOptions{Recommendations: viewRecommendations}); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate ball-by-ball deliveries",
		Args:  cobra.NoArgs,
		RunE:  runAggregateCmd,
	}
	cmd.Flags().StringVar(&aggSide, "side", "batting", "batting or bowling")
	cmd.Flags().StringVar(&aggEntity, "entity", "player", "group by player or team")
	cmd.Flags().BoolVar(&aggBySeason, "by-season", false, "group by season")
	cmd.Flags().BoolVar(&aggByPhase, "by-phase", false, "group by phase")
	cmd.Flags().IntVar(&aggSeason, "season", 0, "only this season")
	cmd.Flags().StringVar(&aggPhase, "phase", "", "only this phase")
	cmd.Flags().StringVar(&aggSort, "sort", "", "rank by this metric")
	cmd.Flags().IntVar(&aggTop, "top", 0, "keep the first N rows (0: all)")
	cmd.Flags().StringVar(&aggFormat, "format", formatText, "output format (text, json)")
	return cmd
}

func runAggregateCmd(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(aggFormat); err != nil {
		return err
	}
	if aggTop < 0 {
		return errors.New("--top must be >= 0")
	}
	entity, err := model.ParseEntityKind(aggEntity)
	if err != nil {
		return err
	}
	side := strings.ToLower(strings.TrimSpace(aggSide))
	if side != "batting" && side != "bowling" {
		return errors.Newf("--side must be batting or bowling, got %q", aggSide)
	}
	var phase model.Phase
	if aggPhase != "" {
		if phase, err = model.ParsePhase(aggPhase); err != nil {
			return err
		}
	}

	rt, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.log.Sync()
	}()
	deliveries, err := rt.cache.Deliveries(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "failed to load deliveries")
	}
	deliveries = stats.FilterRows(deliveries, func(d model.Delivery) bool {
		return (aggSeason == 0 || d.Season == aggSeason) && (phase == "" || d.Phase == phase)
	})

	by := stats.GroupBy{Season: aggBySeason, Phase: aggByPhase, Entity: entity}
	opts := stats.TableOptions{EntityHeader: entityHeader(side, entity), Season: aggBySeason, Phase: aggByPhase, Rank: aggSort != ""}
	out := cmd.OutOrStdout()
	if side == "bowling" {
		rows := stats.AggregateBowling(deliveries, by)
		if rows, err = rankAggregates(rows, rt.deps.Polarity.Scoped(stats.ScopeBowling)); err != nil {
			return err
		}
		return writeAggregates(out, "Bowling aggregates", rows, model.BowlingColumns, opts)
	}
	rows := stats.AggregateBatting(deliveries, by)
	if rows, err = rankAggregates(rows, rt.deps.Polarity.Scoped(stats.ScopeBatting)); err != nil {
		return err
	}
	return writeAggregates(out, "Batting aggregates", rows, model.BattingColumns, opts)
}

func entityHeader(side string, entity model.EntityKind) string {
	switch {
	case entity == model.EntityTeam && side == "bowling":
		return "bowling_team"
	case entity == model.EntityTeam:
		return "batting_team"
	case side == "bowling":
		return "bowler"
	}
	return "striker"
}

func rankAggregates[T model.MetricRow](rows []T, polarity stats.Polarity) ([]T, error) {
	n := aggTop
	if n == 0 || n > len(rows) {
		n = len(rows)
	}
	if aggSort == "" {
		return rows[:n], nil
	}
	if n == 0 {
		return rows, nil
	}
	return stats.Rank(rows, aggSort, n, polarity)
}

func writeAggregates[T model.MetricRow](w io.Writer, title string, rows []T, columns []string, opts stats.TableOptions) error {
	columns = withColumn(columns, aggSort)
	if aggFormat == formatJSON {
		return writeJSON(w, toJSONRows(rows, columns))
	}
	if err := stats.RenderTable(w, title, stats.BuildTable(rows, columns, opts)); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

// withColumn appends name to columns unless it is empty or already listed.
func withColumn(columns []string, name string) []string {
	if name == "" || slices.Contains(columns, name) {
		return columns
	}
	return append(slices.Clone(columns), name)
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets and where they load from",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsCmd,
	}
}

func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	rt, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.log.Sync()
	}()

	t := stats.Table{
		Headers:    []string{"dataset", "file", "rows", "source"},
		RightAlign: map[int]bool{2: true},
	}
	failed := 0
	for _, st := range rt.cache.Status(cmd.Context()) {
		row := []string{string(st.Spec.ID), st.Spec.File, "-", st.Origin}
		switch {
		case st.Err == nil:
			row[2] = fmt.Sprintf("%d", st.Rows)
		case errors.Is(st.Err, dataset.ErrMissing):
			row[3] = "missing"
		default:
			row[3] = st.Err.Error()
			failed++
		}
		t.Rows = append(t.Rows, row)
	}
	if err := stats.RenderTable(cmd.OutOrStdout(), "", t); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	if failed > 0 {
		return errors.Newf("%d dataset(s) failed to load", failed)
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List views and their metrics",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	t := stats.Table{Headers: []string{"mode", "title", "metrics"}}
	for _, m := range view.Modes() {
		metrics := strings.Join(m.Metrics(), ", ")
		if metrics == "" {
			metrics = "-"
		}
		t.Rows = append(t.Rows, []string{string(m), m.Label(), metrics})
	}
	if err := stats.RenderTable(cmd.OutOrStdout(), "", t); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Pack the datasets into a SQLite bundle",
		Args:  cobra.NoArgs,
		RunE:  runBundleCmd,
	}
	cmd.Flags().StringVar(&bundleOut, "out", "", "bundle path to write")
	return cmd
}

func runBundleCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(bundleOut) == "" {
		return errors.New("--out is required")
	}
	rt, err := setup(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = rt.log.Sync()
	}()

	// Never read from the bundle being written.
	sources := dataset.NewSources(dataset.Options{Dir: rt.cfg.DataDir, Archive: rt.cfg.Archive}, rt.log)
	st, err := store.Create(bundleOut)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close bundle: %v\n", cerr)
		}
	}()
	written, err := dataset.WriteBundle(cmd.Context(), sources, st, rt.log)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return errors.Newf("no datasets found in %s", rt.cfg.DataDir)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d datasets to %s\n", len(written), bundleOut)
	return err
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to stat config")
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
			return errors.Wrap(err, "failed to write config")
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return errors.New("editor command is empty")
	}
	cmd := exec.CommandContext(context.Background(), parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "failed to open editor")
	}
	return nil
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return errors.Newf("--format must be %s or %s, got %q", formatText, formatJSON, format)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
