package codec

import (
	"strings"
	"testing"

	"github.com/ajitpratap0/asciitab/pkg/testutil"
	"github.com/ajitpratap0/asciitab/pkg/tokenizer"
)

func benchmarkFile(b *testing.B, rows int) *tokenizer.File {
	b.Helper()
	f, err := tokenizer.Parse(strings.NewReader(testutil.CatalogText(rows, 0)))
	if err != nil {
		b.Fatal(err)
	}
	return f
}

func BenchmarkDecode(b *testing.B) {
	f := benchmarkFile(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := Decode(f.Body, f.Schema)
		if res.Failures != 0 {
			b.Fatalf("unexpected failures: %d", res.Failures)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	f := benchmarkFile(b, 10000)
	t := Decode(f.Body, f.Schema).Table
	layout := DefaultLayout()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Encode(t, layout); err != nil {
			b.Fatal(err)
		}
	}
}
