package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/activestate"
)

// BenchmarkMemoryPerMatcher reports heap bytes retained per subscribed matcher.
func BenchmarkMemoryPerMatcher(b *testing.B) {
	for _, n := range []int{100, 1000} {
		b.Run(fmt.Sprintf("matchers=%d", n), func(b *testing.B) {
			r := NewRouter(GenFlatTree(10))
			for i := 0; i < b.N; i++ {
				var before, after runtime.MemStats
				runtime.GC()
				runtime.ReadMemStats(&before)

				matchers := make([]*activestate.Matcher, n)
				for j := range matchers {
					m, err := activestate.NewMatcher(r, activestate.Target{State: fmt.Sprintf("s%d", j%10)})
					if err != nil {
						b.Fatal(err)
					}
					matchers[j] = m
				}

				runtime.ReadMemStats(&after)
				b.ReportMetric(float64(int64(after.HeapAlloc)-int64(before.HeapAlloc))/float64(n), "B/matcher")
				for _, m := range matchers {
					m.Close()
				}
			}
		})
	}
}
