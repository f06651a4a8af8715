package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/crease/internal/model"
)

// DefaultTopN is the ranking size when none is given.
const DefaultTopN = 10

// ErrInvalidParams is returned when view parameters fail validation.
var ErrInvalidParams = errors.New("invalid view parameters")

var validate = validator.New()

// Params selects what a view shows. Zero values mean "use the default":
// Entity the first choice, Season the latest, Metric the mode's first metric.
type Params struct {
	Mode   Mode        `json:"mode" validate:"required"`
	Entity string      `json:"entity,omitempty"`
	Metric string      `json:"metric,omitempty"`
	Phase  model.Phase `json:"phase,omitempty" validate:"omitempty,oneof=Powerplay Middle Death"`
	Season int         `json:"season,omitempty" validate:"gte=0"`
	TopN   int         `json:"top,omitempty" validate:"gte=0"`
}

// Normalize fills the defaults that do not depend on data. Fields the mode
// does not use are cleared.
func (p Params) Normalize() Params {
	p.Entity = strings.TrimSpace(p.Entity)
	p.Metric = strings.ToLower(strings.TrimSpace(p.Metric))
	if metrics := modeTable[p.Mode].metrics; len(metrics) > 0 {
		if p.Metric == "" {
			p.Metric = metrics[0]
		}
	} else {
		p.Metric = ""
	}
	if !p.Mode.HasEntity() {
		p.Entity = ""
	}
	if p.Mode.HasPhase() {
		if p.Phase == "" {
			p.Phase = model.PhasePowerplay
		}
	} else {
		p.Phase = ""
	}
	if !p.Mode.HasSeason() {
		p.Season = 0
	}
	if p.Mode.HasTop() {
		if p.TopN == 0 {
			p.TopN = DefaultTopN
		}
	} else {
		p.TopN = 0
	}
	return p
}

// Validate checks normalized params against their mode.
func Validate(ctx context.Context, p Params) error {
	if _, ok := modeTable[p.Mode]; !ok {
		return errors.Wrapf(ErrUnknownMode, "%q", p.Mode)
	}
	if err := validate.StructCtx(ctx, p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.Wrap(err, "failed to validate view parameters")
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
		return errors.Wrapf(ErrInvalidParams, "%s", strings.Join(msgs, "; "))
	}
	if p.Metric != "" && !p.Mode.hasMetric(p.Metric) {
		return errors.Wrapf(ErrInvalidParams, "metric %q is not offered by %s (choose from %s)",
			p.Metric, p.Mode, strings.Join(p.Mode.Metrics(), ", "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "gte":
		return fmt.Sprintf("%s must be >= %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}
