package namegen

import (
	"context"

	"github.com/CTAG07/namechain/pkg/chain"
)

// GenerateStream generates names from table and returns a read-only channel of
// them. At most n names are produced; if n is zero or negative, names are
// produced until ctx is cancelled. The channel is closed once generation is
// complete or the context is cancelled.
func (g *Generator) GenerateStream(ctx context.Context, table chain.Table, n int) <-chan string {
	nameChan := make(chan string)

	go func() {
		defer close(nameChan)

		for generated := 0; n <= 0 || generated < n; generated++ {
			name := g.Generate(table)
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Name stream cancelled by context")
				return
			case nameChan <- name:
			}
		}
	}()

	return nameChan
}
