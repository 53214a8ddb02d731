package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressbarCloser is the subset of *progressbar.ProgressBar the CLI
// commands drive directly.
type progressbarCloser struct {
	bar *progressbar.ProgressBar
}

func (p *progressbarCloser) Add(n int) {
	p.bar.Add(n)
}

func (p *progressbarCloser) Close() {
	p.bar.Finish()
}

// newIndexingSpinner renders one tick per project that finishes indexing:
// fixed width, item counts and rate, throttled redraws, a completion line
// left behind once done. Ticks are per-project rather than per-file since
// a full index run here spans every configured project at once.
func newIndexingSpinner(total int) *progressbarCloser {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("indexing projects"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("projects"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
	return &progressbarCloser{bar: bar}
}
