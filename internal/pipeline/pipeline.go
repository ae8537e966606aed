package pipeline

import (
	"time"

	"github.com/zyxt-lang/zyxt/internal/logging"
)

// Processor is one stage of the toolchain.
type Processor interface {
	Name() string
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Stages are always invoked; each one skips its work
// when an earlier stage reported errors.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	logging.Trace("run %s (%s)", ctx.RunID, ctx.displayName())
	var total time.Duration
	for _, processor := range p.processors {
		logging.Stage(processor.Name())
		start := time.Now()
		ctx = processor.Process(ctx)
		elapsed := time.Since(start)
		total += elapsed
		ctx.Timings = append(ctx.Timings, StageTiming{Stage: processor.Name(), Duration: elapsed})
	}
	for _, t := range ctx.Timings {
		logging.Timing(t.Stage, t.Duration)
	}
	logging.Timing("Total", total)
	return ctx
}
