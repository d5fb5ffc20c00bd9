package commands

import (
	"io"

	"github.com/cheggaaa/pb"
)

// barProgress shows grid search folds as a terminal progress bar
type barProgress struct {
	out    io.Writer
	prefix string
	bar    *pb.ProgressBar
}

func newBarProgress(out io.Writer, prefix string) *barProgress {
	return &barProgress{out: out, prefix: prefix}
}

func (p *barProgress) Start(total int) {
	p.bar = pb.New(total)
	p.bar.Output = p.out
	p.bar.ShowTimeLeft = true
	p.bar.Prefix(p.prefix)
	p.bar.Start()
}

func (p *barProgress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *barProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
