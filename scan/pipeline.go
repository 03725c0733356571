package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fatih/semgroup"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qgrepcode/qgrepcode"
	"github.com/qgrepcode/qgrepcode/config"
	"github.com/qgrepcode/qgrepcode/filter"
	"github.com/qgrepcode/qgrepcode/lines"
	"github.com/qgrepcode/qgrepcode/logging"
	"github.com/qgrepcode/qgrepcode/result"
)

// DefaultChunkSize is the read size used when Pipeline.ChunkSize is unset.
const DefaultChunkSize = 32 * 1024

// errLimitHit stops reading once max_results records have been reported.
var errLimitHit = errors.New("result limit hit")

// Source is one captured output stream of the search tool.
type Source struct {
	Name   string
	Reader io.Reader
}

// YieldFunc receives every accepted record. Calls are serialized, also when
// several sources are processed at once. Returning an error stops the run.
type YieldFunc func(source string, rec qgrepcode.MatchRecord) error

// Stats are the counters of a pipeline.
type Stats struct {
	Bytes     uint64
	Lines     uint64
	Records   uint64
	Malformed uint64
	Filtered  uint64
	Ignored   uint64
	Known     uint64
	LimitHit  bool
}

type Pipeline struct {
	// encoding, malformed line policy, max_results and concurrency
	Config config.Config

	// optional record filter
	Filter *filter.Filter

	// records dropped before the filter runs
	Ignore IgnoreList

	// records of an earlier report, not reported again
	Baseline Baseline

	ChunkSize int

	mu       sync.Mutex // serializes yield and guards records
	records  uint64
	limitHit atomic.Bool

	totalBytes atomic.Uint64
	totalLines atomic.Uint64
	malformed  atomic.Uint64
	filtered   atomic.Uint64
	ignored    atomic.Uint64
	known      atomic.Uint64
}

func NewPipeline(cfg config.Config, f *filter.Filter) *Pipeline {
	return &Pipeline{
		Config: cfg,
		Filter: f,
	}
}

// Run decodes src line by line and yields every record that parses and
// passes the filter, until the source ends, ctx is done or the result limit
// is reached.
func (p *Pipeline) Run(ctx context.Context, src Source, yield YieldFunc) error {
	enc, err := lines.LookupEncoding(p.Config.Encoding)
	if err != nil {
		return err
	}

	log := logging.With().
		Str("stream", uuid.NewString()).
		Str("source", src.Name).
		Logger()
	log.Debug().Str("encoding", p.Config.Encoding).Msg("reading search output")

	w := lines.NewLineWriter(func(line string) error {
		return p.processLine(&log, src.Name, line, yield)
	}, lines.WithEncoding(enc))

	size := p.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)

	err = p.copy(ctx, w, src, buf)
	if err == nil {
		err = w.Close()
	}
	if errors.Is(err, errLimitHit) {
		log.Debug().Int("max_results", p.Config.MaxResults).Msg("result limit hit")
		return nil
	}
	return err
}

func (p *Pipeline) copy(ctx context.Context, w io.Writer, src Source, buf []byte) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.limitHit.Load() {
			return errLimitHit
		}
		n, rerr := src.Reader.Read(buf)
		if n > 0 {
			p.totalBytes.Add(uint64(n))
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("read %s: %w", src.Name, rerr)
		}
	}
}

func (p *Pipeline) processLine(log *zerolog.Logger, source, line string, yield YieldFunc) error {
	p.totalLines.Add(1)
	if line == "" {
		return nil
	}

	rec, err := result.ParseLine(line)
	if err != nil {
		p.malformed.Add(1)
		switch p.Config.OnMalformed {
		case config.MalformedAbort:
			return fmt.Errorf("%s: %w", source, err)
		case config.MalformedSkip:
			log.Trace().Err(err).Msg("skipping malformed line")
		default:
			log.Warn().Err(err).Msg("skipping malformed line")
		}
		return nil
	}

	if p.Ignore.Match(rec) {
		p.ignored.Add(1)
		return nil
	}
	if !p.Baseline.IsNew(rec) {
		p.known.Add(1)
		return nil
	}

	if p.Filter != nil {
		ok, err := p.Filter.Match(rec)
		if err != nil {
			return err
		}
		if !ok {
			p.filtered.Add(1)
			return nil
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if limit := p.Config.MaxResults; limit > 0 && p.records >= uint64(limit) {
		p.limitHit.Store(true)
		return errLimitHit
	}
	p.records++
	return yield(source, rec)
}

// RunAll processes srcs with up to Config.Concurrency sources at a time,
// each with its own decoder.
func (p *Pipeline) RunAll(ctx context.Context, srcs []Source, yield YieldFunc) error {
	concurrency := p.Config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sg := semgroup.NewGroup(ctx, int64(concurrency))
	for _, src := range srcs {
		sg.Go(func() error {
			return p.Run(ctx, src, yield)
		})
	}
	return sg.Wait()
}

// Stats returns the current counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	records := p.records
	p.mu.Unlock()
	return Stats{
		Bytes:     p.totalBytes.Load(),
		Lines:     p.totalLines.Load(),
		Records:   records,
		Malformed: p.malformed.Load(),
		Filtered:  p.filtered.Load(),
		Ignored:   p.ignored.Load(),
		Known:     p.known.Load(),
		LimitHit:  p.limitHit.Load(),
	}
}
