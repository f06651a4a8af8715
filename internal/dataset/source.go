package dataset

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/verte-zerg/crease/internal/logging"
	"github.com/verte-zerg/crease/internal/store"
)

// RawTable is a dataset as text cells before typing.
type RawTable struct {
	Header  []string
	Records [][]string
	Origin  string
}

// Source reads raw tables. A source that does not hold a dataset returns ErrMissing.
type Source interface {
	Name() string
	Read(ctx context.Context, spec Spec) (RawTable, error)
}

// Options selects and orders the sources.
type Options struct {
	Dir     string
	Archive string
	Bundle  string
}

// NewSources returns the sources to try in order: bundle, archive, directory.
func NewSources(opts Options, log *logging.Logger) []Source {
	var sources []Source
	if opts.Bundle != "" {
		sources = append(sources, BundleSource{Path: opts.Bundle})
	}
	archive := opts.Archive
	if archive == "" {
		archive = DefaultArchive
	}
	if !filepath.IsAbs(archive) && opts.Dir != "" {
		archive = filepath.Join(opts.Dir, archive)
	}
	if _, err := os.Stat(archive); err == nil {
		sources = append(sources, ArchiveSource{Path: archive})
	} else {
		log.Warn("dataset archive not found, loading pre-extracted files", "path", archive)
	}
	if opts.Dir != "" {
		sources = append(sources, DirSource{Dir: opts.Dir})
	}
	return sources
}

// DirSource reads CSV files from a directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Name() string { return "dir:" + s.Dir }

func (s DirSource) Read(_ context.Context, spec Spec) (RawTable, error) {
	p := filepath.Join(s.Dir, spec.File)
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return RawTable{}, errors.Wrapf(ErrMissing, "%s", p)
		}
		return RawTable{}, errors.Wrapf(err, "failed to open %s", p)
	}
	defer func() {
		_ = f.Close()
	}()
	t, err := readCSV(spec.ID, f)
	if err != nil {
		return RawTable{}, err
	}
	t.Origin = p
	return t, nil
}

// ArchiveSource reads CSV members of a ZIP archive in place. Members are
// matched by base name so archives with a top-level folder work too.
type ArchiveSource struct {
	Path string
}

func (s ArchiveSource) Name() string { return "archive:" + s.Path }

func (s ArchiveSource) Read(_ context.Context, spec Spec) (RawTable, error) {
	reader, err := zip.OpenReader(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return RawTable{}, errors.Wrapf(ErrMissing, "%s", s.Path)
		}
		return RawTable{}, errors.Wrap(err, "failed to open archive")
	}
	defer func() {
		_ = reader.Close()
	}()

	member := selectMember(reader.File, spec.File)
	if member == nil {
		return RawTable{}, errors.Wrapf(ErrMissing, "%s in %s", spec.File, s.Path)
	}
	rc, err := member.Open()
	if err != nil {
		return RawTable{}, errors.Wrapf(err, "failed to open %s in archive", member.Name)
	}
	defer func() {
		_ = rc.Close()
	}()
	t, err := readCSV(spec.ID, rc)
	if err != nil {
		return RawTable{}, err
	}
	t.Origin = s.Path + "!" + member.Name
	return t, nil
}

func selectMember(files []*zip.File, name string) *zip.File {
	var best *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() || path.Base(f.Name) != name || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if best == nil || len(f.Name) < len(best.Name) {
			best = f
		}
	}
	return best
}

// BundleSource reads tables from a SQLite bundle.
type BundleSource struct {
	Path string
}

func (s BundleSource) Name() string { return "bundle:" + s.Path }

func (s BundleSource) Read(ctx context.Context, spec Spec) (RawTable, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return RawTable{}, errors.Wrapf(ErrMissing, "%s", s.Path)
		}
		return RawTable{}, errors.Wrap(err, "failed to stat bundle")
	}
	st, err := store.Open(s.Path)
	if err != nil {
		return RawTable{}, err
	}
	defer func() {
		_ = st.Close()
	}()
	header, records, err := st.ReadTable(ctx, spec.Table())
	if err != nil {
		if errors.Is(err, store.ErrNoTable) {
			return RawTable{}, errors.Wrapf(ErrMissing, "table %s in %s", spec.Table(), s.Path)
		}
		return RawTable{}, err
	}
	return RawTable{Header: header, Records: records, Origin: s.Path + "#" + spec.Table()}, nil
}

// readFirst returns the table from the first source that holds it.
func readFirst(ctx context.Context, sources []Source, spec Spec) (RawTable, error) {
	for _, src := range sources {
		t, err := src.Read(ctx, spec)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrMissing) {
			return RawTable{}, err
		}
	}
	return RawTable{}, errors.Wrapf(ErrMissing, "%s (%s)", spec.ID, spec.File)
}

func readCSV(id ID, r io.Reader) (RawTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawTable{}, &LoadError{Dataset: id, Kind: ErrSchema, Detail: "empty file"}
		}
		return RawTable{}, &LoadError{Dataset: id, Kind: ErrSchema, Detail: err.Error()}
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawTable{}, &LoadError{Dataset: id, Row: len(records) + 1, Kind: ErrSchema, Detail: err.Error()}
		}
		records = append(records, record)
	}
	return RawTable{Header: header, Records: records}, nil
}
