package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/crease/internal/model"
)

// Defaults for settings not given by flags or the config file.
const (
	DefaultTop         = 10
	DefaultRecentSince = 2021
	DefaultLogLevel    = "info"
	DefaultMode        = "home"
)

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New()

// Defaults returns the built-in dashboard configuration.
func Defaults() model.DashboardConfig {
	return model.DashboardConfig{
		DataDir:     DefaultDataDir(),
		Mode:        DefaultMode,
		Top:         DefaultTop,
		RecentSince: DefaultRecentSince,
		LogLevel:    DefaultLogLevel,
		LogFile:     DefaultLogPath(),
	}
}

// Apply copies every value set in the file onto cfg. Polarity entries are merged.
func Apply(cfg *model.DashboardConfig, file FileConfig) {
	setString(&cfg.DataDir, file.Data.Dir)
	setString(&cfg.Archive, file.Data.Archive)
	setString(&cfg.Bundle, file.Data.Bundle)
	setString(&cfg.Mode, file.Dashboard.Mode)
	setString(&cfg.Phase, file.Dashboard.Phase)
	setInt(&cfg.Top, file.Dashboard.Top)
	setInt(&cfg.RecentSince, file.Dashboard.RecentSince)
	setString(&cfg.LogLevel, file.Log.Level)
	setString(&cfg.LogFile, file.Log.File)
	if len(file.Ranking.Polarity) > 0 && cfg.Polarity == nil {
		cfg.Polarity = map[string]string{}
	}
	for metric, dir := range file.Ranking.Polarity {
		cfg.Polarity[metric] = strings.ToLower(strings.TrimSpace(dir))
	}
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

// Validate checks the merged configuration.
func Validate(ctx context.Context, cfg model.DashboardConfig) error {
	err := validate.StructCtx(ctx, cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate config")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.Wrapf(ErrInvalid, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field, key, keyed := strings.Cut(fe.StructField(), "[")
	name := fieldNames[field]
	switch {
	case name == "":
		name = fe.Namespace()
	case keyed:
		name += "[" + key
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", name, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}

var fieldNames = map[string]string{
	"DataDir":     "data.dir",
	"Archive":     "data.archive",
	"Bundle":      "data.bundle",
	"Mode":        "dashboard.mode",
	"Phase":       "dashboard.phase",
	"Top":         "dashboard.top",
	"RecentSince": "dashboard.recent-since",
	"Polarity":    "ranking.polarity",
	"LogLevel":    "log.level",
}

// Template returns a commented config file.
func Template() string {
	return fmt.Sprintf(`# crease configuration
# Uncomment a value to enable it. CLI flags override config values.

[data]
# dir = %q                 # Directory holding the CSV files or the archive
# archive = "ipl_phase_dataset.zip"  # Archive inside dir read before plain files
# bundle = ""               # SQLite bundle with one table per dataset

[dashboard]
# mode = %q                 # Starting view
# phase = "Powerplay"       # Phase for top-batters/top-bowlers
# top = %d                  # Rows in rankings
# recent-since = %d         # First season for player pickers and top lists

[ranking.polarity]
# economy_rate = "asc"      # Override ranking direction per metric

[log]
# level = %q                # debug, info, warn or error
# file = %q
`,
		DefaultDataDir(),
		DefaultMode,
		DefaultTop,
		DefaultRecentSince,
		DefaultLogLevel,
		DefaultLogPath(),
	)
}
