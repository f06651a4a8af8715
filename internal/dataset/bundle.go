package dataset

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/logging"
	"github.com/verte-zerg/crease/internal/store"
)

// WriteBundle copies every dataset found in sources into st, one table per
// dataset. Tables are parsed first so a bundle never holds rows the loader
// would reject. Missing datasets are skipped; the written IDs are returned.
func WriteBundle(ctx context.Context, sources []Source, st *store.Store, log *logging.Logger) ([]ID, error) {
	var written []ID
	for _, spec := range specs {
		raw, err := readFirst(ctx, sources, spec)
		if err != nil {
			if errors.Is(err, ErrMissing) {
				log.Warn("dataset not found, skipping", "dataset", spec.ID)
				continue
			}
			return written, err
		}
		if spec.ID == IDDeliveries {
			_, err = ParseDeliveries(raw)
		} else {
			_, err = ParsePhaseRows(spec, raw)
		}
		if err != nil {
			return written, err
		}
		if err := st.WriteTable(ctx, spec.Table(), raw.Header, raw.Records); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", spec.ID)
		}
		log.Info("dataset bundled", "dataset", spec.ID, "origin", raw.Origin, "rows", len(raw.Records))
		written = append(written, spec.ID)
	}
	return written, nil
}
