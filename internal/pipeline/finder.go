// Package pipeline runs frame-preserving exon skip analysis over grouped
// transcripts.
package pipeline

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-skip/internal/gtf"
	"github.com/inodb/vibe-skip/internal/skip"
	"github.com/inodb/vibe-skip/internal/splice"
	"github.com/inodb/vibe-skip/internal/transcript"
)

// GroupSource yields transcript groups, nil at the end.
// *transcript.Grouper implements it.
type GroupSource interface {
	Next() (*transcript.Group, error)
}

// SiteProjector turns an exon into its splice editing site.
type SiteProjector interface {
	Project(exon *gtf.Record) (splice.Site, error)
}

// Decision is one skippable run of a transcript.
type Decision struct {
	Run           skip.Run
	Exons         []*gtf.Record
	SkippedLength int64
	Sites         []splice.Site
}

// Result holds the decisions for one transcript group.
type Result struct {
	TranscriptID string
	ExonCount    int
	Decisions    []Decision
}

// Finder finds skippable exon runs and their editing sites.
type Finder struct {
	projector SiteProjector
	maxSkip   int
	allSites  bool
	workers   int
	logger    *zap.Logger
}

// NewFinder creates a finder projecting sites with p.
func NewFinder(p SiteProjector) *Finder {
	return &Finder{
		projector: p,
		maxSkip:   1,
		logger:    zap.NewNop(),
	}
}

// SetMaxSkip sets the largest number of exons skipped at once.
// Zero or less removes the bound.
func (f *Finder) SetMaxSkip(n int) {
	f.maxSkip = n
}

// SetAllSites makes the finder emit a site for every exon of a run instead
// of only the first skipped exon.
func (f *Finder) SetAllSites(all bool) {
	f.allSites = all
}

// SetWorkers sets the worker pool size for FindAll. 0 means one per CPU.
func (f *Finder) SetWorkers(n int) {
	f.workers = n
}

// SetLogger sets the logger for debug and info messages.
func (f *Finder) SetLogger(l *zap.Logger) {
	f.logger = l
}

// Find analyses a single transcript group.
func (f *Finder) Find(g *transcript.Group) (*Result, error) {
	lengths, err := g.Lengths()
	if err != nil {
		return nil, err
	}

	res := &Result{TranscriptID: g.ID, ExonCount: len(g.Exons)}

	for run := range skip.WithinMax(skip.Search(lengths), f.maxSkip) {
		d := Decision{
			Run:           run,
			Exons:         make([]*gtf.Record, 0, len(run)),
			SkippedLength: run.Length(lengths),
		}
		for _, idx := range run {
			d.Exons = append(d.Exons, g.Exons[idx])
		}

		targets := d.Exons[:1]
		if f.allSites {
			targets = d.Exons
		}
		for _, exon := range targets {
			site, err := f.projector.Project(exon)
			if err != nil {
				return nil, err
			}
			d.Sites = append(d.Sites, site)
		}

		res.Decisions = append(res.Decisions, d)
	}

	if len(res.Decisions) > 0 {
		f.logger.Debug("skippable exons found",
			zap.String("transcript", g.ID),
			zap.Int("exons", len(g.Exons)),
			zap.Int("decisions", len(res.Decisions)))
	}

	return res, nil
}

// FindAll analyses every group from src with a worker pool and calls fn for
// each result in input order. The first error stops reading from src.
func (f *Finder) FindAll(src GroupSource, fn func(*Result) error) error {
	done := make(chan struct{})
	var stop sync.Once
	cancel := func() { stop.Do(func() { close(done) }) }
	defer cancel()

	items := make(chan WorkItem, 2*f.poolSize())
	var readErr error
	groupCount := 0

	read := make(chan struct{})
	go func() {
		defer close(read)
		defer close(items)
		for seq := 0; ; seq++ {
			g, err := src.Next()
			if err != nil {
				readErr = fmt.Errorf("read transcripts: %w", err)
				return
			}
			if g == nil {
				return
			}
			groupCount++
			select {
			case items <- WorkItem{Seq: seq, Group: g}:
			case <-done:
				return
			}
		}
	}()

	results := f.ParallelFind(done, items, f.workers)

	err := OrderedCollect(results, cancel, func(r WorkResult) error {
		if r.Err != nil {
			return fmt.Errorf("transcript %s: %w", r.Group.ID, r.Err)
		}
		return fn(r.Result)
	})
	<-read
	if err != nil {
		return err
	}

	if readErr != nil {
		return readErr
	}

	f.logger.Info("transcripts processed", zap.Int("transcripts", groupCount))
	return nil
}
