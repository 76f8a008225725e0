package quantize_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/nauert/quantize"
	"github.com/katalvlaran/nauert/searchtree"
)

func BenchmarkJob_Execute(b *testing.B) {
	tree := searchtree.DefaultUnweighted()
	proxies := proxiesAt(b, r(0, 1), r(1, 3), r(3, 5))
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		job, err := quantize.NewJob(0, tree, proxies)
		if err != nil {
			b.Fatal(err)
		}
		if err = job.Execute(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuantize(b *testing.B) {
	seq := sequenceAt(b, 0, 130, 470, 1000, 1333, 1667, 2250, 2500, 3000)
	ctx := context.Background()
	for _, workers := range []int{1, 4} {
		b.Run(map[int]string{1: "serial", 4: "parallel"}[workers], func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := quantize.Quantize(ctx, seq, quantize.WithWorkers(workers)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
