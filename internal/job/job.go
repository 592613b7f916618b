// Package job implements the feed synchronization cycle: fetch feeds,
// drop already posted entries, look up images, publish and persist.
package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/nDmitry/rssposter/internal/metrics"
	"github.com/nDmitry/rssposter/internal/store"
)

const persistTimeout = 30 * time.Second

// Fetcher returns the entries of a feed in feed order
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]entity.Entry, error)
}

// ImageFinder looks up a representative image for an article page
type ImageFinder interface {
	Find(ctx context.Context, pageURL string) (string, error)
}

// Publisher sends a post to the channel
type Publisher interface {
	Publish(ctx context.Context, post entity.Post) error
}

// Recorder receives successful publications and run summaries
type Recorder interface {
	Record(p entity.Publication)
	MarkRun(at time.Time, posted int)
}

// Options are the per-run parameters of the job
type Options struct {
	// Sources are feed URLs, processed in order.
	Sources []string
	// MaxPerRun caps the publications of a single run across all sources.
	MaxPerRun int
	// PostDelay is the pause after each successful publication.
	PostDelay time.Duration
}

// Deps are the collaborators of the job
type Deps struct {
	Store     store.Store
	Fetcher   Fetcher
	Images    ImageFinder
	Publisher Publisher
	// Recorder is optional.
	Recorder Recorder
}

// Result summarizes a single run
type Result struct {
	Published       int
	Malformed       int
	FailedPublishes int
	FailedSources   []string
}

// Job owns the Posted-Set and is its only writer
type Job struct {
	opts      Options
	posted    entity.PostedSet
	store     store.Store
	fetcher   Fetcher
	images    ImageFinder
	publisher Publisher
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a job around the Posted-Set loaded by the caller
func New(opts Options, posted entity.PostedSet, deps Deps) *Job {
	if posted == nil {
		posted = entity.NewPostedSet()
	}

	recorder := deps.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}

	metrics.PostedLinks.Set(float64(posted.Len()))

	return &Job{
		opts:      opts,
		posted:    posted,
		store:     deps.Store,
		fetcher:   deps.Fetcher,
		images:    deps.Images,
		publisher: deps.Publisher,
		recorder:  recorder,
		logger:    app.Logger(),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// Posted returns the number of links in the Posted-Set
func (j *Job) Posted() int {
	return j.posted.Len()
}

// Run executes one job cycle. It returns an error only when ctx is canceled;
// every other failure is logged and reflected in the Result.
func (j *Job) Run(ctx context.Context) (Result, error) {
	var res Result
	var err error

	metrics.JobRuns.Inc()

	for _, source := range j.opts.Sources {
		if res.Published >= j.opts.MaxPerRun {
			break
		}

		if err = j.runSource(ctx, source, &res); err != nil {
			break
		}
	}

	if res.Published > 0 {
		// Errors are logged by Persist, the in-memory state is kept either way.
		_ = j.Persist(ctx)
	}

	j.recorder.MarkRun(j.now(), j.posted.Len())
	metrics.LastRun.SetToCurrentTime()

	return res, err
}

func (j *Job) runSource(ctx context.Context, source string, res *Result) error {
	entries, err := j.fetcher.Fetch(ctx, source)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		j.logger.Warn("Could not read feed", "source", source, "error", err)
		metrics.FeedErrors.WithLabelValues(source).Inc()
		res.FailedSources = append(res.FailedSources, source)

		return nil
	}

	if len(entries) > j.opts.MaxPerRun {
		entries = entries[:j.opts.MaxPerRun]
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !entry.Valid() {
			res.Malformed++
			continue
		}

		if j.posted.Has(entry.Link) {
			continue
		}

		post := entity.Post{
			Title:    entry.Title,
			Link:     entry.Link,
			ImageURL: j.findImage(ctx, entry.Link),
		}

		if err := j.publisher.Publish(ctx, post); err != nil {
			j.logger.Error("Could not publish entry", "source", source, "link", entry.Link, "error", err)
			metrics.PublishFailures.Inc()
			res.FailedPublishes++

			continue
		}

		j.posted.Add(entry.Link)
		res.Published++

		j.logger.Info("Published entry", "title", entry.Title, "link", entry.Link, "withImage", post.ImageURL != "")
		metrics.PostsPublished.Inc()
		metrics.PostedLinks.Set(float64(j.posted.Len()))

		j.recorder.Record(entity.Publication{
			Title:       post.Title,
			Link:        post.Link,
			ImageURL:    post.ImageURL,
			Source:      source,
			PublishedAt: j.now(),
		})

		if res.Published >= j.opts.MaxPerRun {
			return nil
		}

		if err := j.sleep(ctx, j.opts.PostDelay); err != nil {
			return err
		}
	}

	return nil
}

// findImage never fails: any lookup problem means a text-only post
func (j *Job) findImage(ctx context.Context, link string) string {
	imageURL, err := j.images.Find(ctx, link)

	switch {
	case err != nil:
		j.logger.Debug("Could not find an image", "link", link, "error", err)
		metrics.ImageLookups.WithLabelValues(metrics.ImageError).Inc()
		return ""
	case imageURL == "":
		metrics.ImageLookups.WithLabelValues(metrics.ImageNone).Inc()
	default:
		metrics.ImageLookups.WithLabelValues(metrics.ImageFound).Inc()
	}

	return imageURL
}

// Persist saves the Posted-Set. It keeps working after ctx is canceled
// so that state can be flushed during shutdown.
func (j *Job) Persist(ctx context.Context) error {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := j.store.Save(saveCtx, j.posted); err != nil {
		j.logger.Error("Could not save posted links", "error", err)
		metrics.SaveFailures.Inc()

		return err
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type noopRecorder struct{}

func (noopRecorder) Record(entity.Publication) {}

func (noopRecorder) MarkRun(time.Time, int) {}
