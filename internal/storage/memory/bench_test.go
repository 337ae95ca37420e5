package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// KeyCounts defines the store sizes for benchmarking.
var KeyCounts = []int{1000, 10000, 100000}

func prefill(s *Store, count int) []string {
	keys := make([]string, count)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%d", i)
		s.Set(keys[i], "value", time.Time{})
	}
	return keys
}

// BenchmarkStoreSet benchmarks plain writes.
func BenchmarkStoreSet(b *testing.B) {
	s := New(WithLogger(logger.Discard()))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Set(fmt.Sprintf("key:%d", i%10000), "value", time.Time{})
	}
}

// BenchmarkStoreGet benchmarks reads at different store sizes.
func BenchmarkStoreGet(b *testing.B) {
	for _, count := range KeyCounts {
		b.Run(fmt.Sprintf("keys=%d", count), func(b *testing.B) {
			s := New(WithLogger(logger.Discard()))
			keys := prefill(s, count)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s.Get(keys[i%len(keys)])
			}
		})
	}
}

// BenchmarkStoreParallel benchmarks mixed GET/SET traffic under the single lock.
func BenchmarkStoreParallel(b *testing.B) {
	s := New(WithLogger(logger.Discard()))
	keys := prefill(s, 10000)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := keys[i%len(keys)]
			if i%4 == 0 {
				s.Set(key, "updated", time.Now().Add(time.Minute))
			} else {
				s.Get(key)
			}
			i++
		}
	})
}
