//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-climb/climb"
	"github.com/dzonerzy/go-climb/internal/pool"
)

// Category: pool

func BenchmarkPool_GetPut(b *testing.B) {
	p := pool.NewPoolWithReset(
		func() *[]climb.Token {
			buf := make([]climb.Token, 0, 16)
			return &buf
		},
		func(buf *[]climb.Token) { *buf = (*buf)[:0] },
	)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			obj := p.Get()
			*obj = append(*obj, climb.Token{Kind: climb.TokenCommand, Text: "serve"})
			p.Put(obj)
		}
	})
}

func BenchmarkPool_vs_Direct(b *testing.B) {
	args := []string{"serve", "--port", "8080", "-v"}
	p := pool.NewPool(func() *[]climb.Token {
		buf := make([]climb.Token, 0, 16)
		return &buf
	})

	b.Run("Pool", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				obj := p.Get()
				*obj = climb.AppendTokens((*obj)[:0], args, climb.DefaultUnset)
				p.Put(obj)
			}
		})
	})

	b.Run("Direct", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = climb.Classify(args, climb.DefaultUnset)
			}
		})
	})
}

func BenchmarkBufferPool(b *testing.B) {
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := pool.GetBuffer()
			buf.WriteString("id=1 command=serve duration=1ms\n")
			pool.PutBuffer(buf)
		}
	})
}
