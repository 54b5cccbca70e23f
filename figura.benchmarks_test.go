package figura

import (
	"context"
	"strings"
	"testing"
)

// =============================================================================
// COMPILE BENCHMARKS
// =============================================================================

const benchSource = `Dear {title} {name},
Your order #{order} ships {express ? 'tomorrow' : 'next week'}.
{'-':40}
Total: {total} {currency}. Status: {balance >= 0 ? 'paid' : 'due'}
{{ unsubscribe }}`

func benchContext() *Context {
	return MustContextFromMap(map[string]any{
		"title":    "Dr.",
		"name":     "Alice",
		"order":    1042,
		"express":  true,
		"total":    99.5,
		"currency": "EUR",
		"balance":  0,
	})
}

func BenchmarkCompile_Plain(b *testing.B) {
	engine := MustNew()
	source := strings.Repeat("no directives at all ", 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Compile(source)
	}
}

func BenchmarkCompile_Mixed(b *testing.B) {
	engine := MustNew()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Compile(benchSource)
	}
}

func BenchmarkCompile_StandardParser(b *testing.B) {
	engine := MustNew(WithParser(StandardParser()))
	source := "{first + ' ' + last} {name | upper | trim}"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = engine.Compile(source)
	}
}

// =============================================================================
// RENDER BENCHMARKS
// =============================================================================

func BenchmarkRender_Mixed(b *testing.B) {
	tmpl := MustNew().MustCompile(benchSource)
	ctx := benchContext()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Render(ctx)
	}
}

func BenchmarkRender_Repeat(b *testing.B) {
	tmpl := MustNew().MustCompile("{'ab':n}")
	ctx := NewContext()
	ctx.SetInt("n", 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Render(ctx)
	}
}

func BenchmarkRender_Parallel(b *testing.B) {
	tmpl := MustNew().MustCompile(benchSource)
	ctx := benchContext()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = tmpl.Render(ctx)
		}
	})
}

// =============================================================================
// STORAGE BENCHMARKS
// =============================================================================

func BenchmarkStorageEngine_RenderCached(b *testing.B) {
	ctx := context.Background()
	se := MustNewStorageEngine(StorageEngineConfig{Storage: NewMemoryStorage()})
	defer se.Close()

	if err := se.Save(ctx, &StoredTemplate{Name: "bench", Source: benchSource}); err != nil {
		b.Fatal(err)
	}
	vars := benchContext()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = se.Render(ctx, "bench", vars)
	}
}
