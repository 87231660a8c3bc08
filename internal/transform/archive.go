package transform

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
	"archive-mapper/internal/common"
	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/inherit"
	"archive-mapper/internal/mapping"
)

// Report summarizes a TransformArchive run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string
	// From and To are the namespace labels the archive was translated between.
	From, To string
	// Classes is the number of class entries rewritten.
	Classes int
	// Renamed lists the class entries that moved, in archive order.
	Renamed []Rename
	// Diagnostics holds the non-fatal findings of every class.
	Diagnostics diagnostic.Diagnostics
	Elapsed     time.Duration
}

// Rename is a class entry that changed its name.
type Rename struct {
	From string
	To   string
}

// TransformArchive translates every class of arc from namespace from to
// namespace to of m. deps are the archives the classes of arc link
// against, already in the target namespace; they are only read to compute
// stack map frames.
//
// Classes are transformed concurrently and the results are applied only
// after every class succeeded, so a failing run leaves arc untouched.
func TransformArchive(
	ctx context.Context,
	arc archive.Archive,
	deps []archive.Reader,
	m *mapping.ArchiveMapping,
	from, to string,
	opts ...Option,
) (*Report, error) {
	if arc == nil || m == nil {
		return nil, diagnostic.New(diagnostic.InvalidUsage, "", "archive and mapping are required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := m.Direction(from, to)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), From: from, To: to}
	logger := o.logger.With("run", report.RunID)

	snapshot := archive.NewMemory(arc.Entries()...)

	tree, err := inherit.Build(snapshot)
	if err != nil {
		return nil, fmt.Errorf("build inheritance tree: %w", err)
	}

	fallback, err := NewDependencyHierarchy(o.cacheSize, deps...)
	if err != nil {
		return nil, err
	}

	pass := NewPass(m, dir, tree)
	r := &remapper{
		snapshot: snapshot,
		pass:     pass,
		writer: &classfile.Writer{
			Hierarchy:     NewMappingHierarchy(snapshot, pass, fallback),
			ComputeFrames: o.computeFrames,
		},
	}

	names := classEntries(snapshot)
	logger.Info("transforming archive", "from", from, "to", to, "classes", len(names), "workers", o.workers)

	results := make([]classResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := r.class(name)
			if err != nil {
				return fmt.Errorf("transform %s: %w", name, err)
			}

			logger.Debug("class transformed", "entry", name, "to", res.entry.Name)
			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("archive transform failed", "error", err)
		return nil, err
	}

	apply(arc, results)

	for _, res := range results {
		if res.from != res.entry.Name {
			report.Renamed = append(report.Renamed, Rename{From: res.from, To: res.entry.Name})
		}

		report.Diagnostics.Merge(res.diags)
	}

	report.Classes = len(results)
	report.Elapsed = time.Since(start)

	logger.Info("archive transformed",
		"classes", report.Classes,
		"renamed", len(report.Renamed),
		"warnings", len(report.Diagnostics.Warnings),
		"elapsed", report.Elapsed)

	return report, nil
}

// apply writes the results back. Every stale name is removed before any new
// entry is put, so two classes swapping names do not clobber each other.
func apply(arc archive.Writer, results []classResult) {
	for _, res := range results {
		if res.from != res.entry.Name {
			arc.Remove(res.from)
		}
	}

	for _, res := range results {
		arc.Put(res.entry)
	}
}

// classEntries returns the names of the class entries of r, versioned
// entries of a multi-release jar included.
func classEntries(r archive.Reader) []string {
	var names []string

	for _, e := range r.Entries() {
		if _, base := common.SplitVersioned(e.Name); isClassEntry(base) {
			names = append(names, e.Name)
		}
	}

	return names
}

func isClassEntry(name string) bool {
	_, ok := common.ClassNameOf(name)
	return ok
}

type remapper struct {
	snapshot archive.Reader
	pass     *Pass
	writer   *classfile.Writer
}

type classResult struct {
	from  string
	entry archive.Entry
	diags diagnostic.Diagnostics
}

// class transforms the class stored under entryName. The new entry keeps
// the multi-release prefix of the old one.
func (r *remapper) class(entryName string) (classResult, error) {
	e, ok := r.snapshot.Entry(entryName)
	if !ok {
		return classResult{}, diagnostic.New(diagnostic.MissingResource, entryName, "class entry not found")
	}

	node, err := classfile.Parse(e.Data)
	if err != nil {
		return classResult{}, err
	}

	res := classResult{from: entryName}

	if err := r.pass.Transform(node, &res.diags); err != nil {
		return classResult{}, err
	}

	data, err := r.writer.Write(node)
	if err != nil {
		return classResult{}, fmt.Errorf("write class: %w", err)
	}

	prefix, _ := common.SplitVersioned(entryName)
	res.entry = archive.Entry{Name: prefix + common.EntryName(node.Name), Data: data, Modified: e.Modified}

	return res, nil
}
