package benchmarks_test

import (
	"strconv"
	"testing"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	"github.com/reoring/formskema/formjson"
	"github.com/reoring/formskema/rules"
)

func orderSchema(tb testing.TB) *formskema.Schema {
	tb.Helper()
	line, err := dsl.Object().
		Field("sku", dsl.Leaf(rules.RequiredString(), rules.MaxLength(32))).
		Field("qty", dsl.Leaf(rules.Integer(), rules.Min(1))).
		Field("price", dsl.Leaf(rules.GreaterThan(0))).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	lines, err := dsl.Array(line, dsl.KeyField("sku")).Validation(rules.UniqueBy("sku")).Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	s, err := dsl.Object().
		Field("customer", dsl.Leaf(rules.Email())).Required().
		Field("lines", lines).
		Build()
	if err != nil {
		tb.Fatalf("schema build failed: %v", err)
	}
	return s
}

func orderValue(n int) map[string]any {
	lines := make([]any, n)
	for i := range lines {
		lines[i] = map[string]any{"sku": "sku-" + strconv.Itoa(i), "qty": int64(i%5 + 1), "price": 9.5}
	}
	return map[string]any{"customer": "a@example.com", "lines": lines}
}

// editOne returns a copy of v with one line changed; every other line is shared.
func editOne(v map[string]any, i int) map[string]any {
	old := v["lines"].([]any)
	lines := make([]any, len(old))
	copy(lines, old)
	lines[i] = map[string]any{"sku": "sku-" + strconv.Itoa(i), "qty": int64(0), "price": 9.5}
	return map[string]any{"customer": v["customer"], "lines": lines}
}

func benchValidate(b *testing.B, n int) {
	s := orderSchema(b)
	v := editOne(orderValue(n), n/2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !formskema.HasErrors(formskema.Validate(v, s)) {
			b.Fatal("expected errors")
		}
	}
}

func benchIncremental(b *testing.B, n int) {
	s := orderSchema(b)
	old := orderValue(n)
	oldErr := formskema.Validate(old, s)
	next := editOne(old, n/2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !formskema.HasErrors(formskema.ValidateIncremental(old, next, oldErr, s)) {
			b.Fatal("expected errors")
		}
	}
}

func Benchmark_Validate_100(b *testing.B)    { benchValidate(b, 100) }
func Benchmark_Validate_10k(b *testing.B)    { benchValidate(b, 10_000) }
func Benchmark_Incremental_100(b *testing.B) { benchIncremental(b, 100) }
func Benchmark_Incremental_10k(b *testing.B) { benchIncremental(b, 10_000) }

func Benchmark_Extract_10k(b *testing.B) {
	s := orderSchema(b)
	v := orderValue(10_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = formskema.Extract(v, s)
	}
}

// End to end: decode with formjson, then validate.
func Benchmark_DecodeValidate_1k(b *testing.B) {
	s := orderSchema(b)
	data, err := formjson.MarshalValue(orderValue(1000))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := formjson.DecodeValue(data)
		if err != nil {
			b.Fatal(err)
		}
		if formskema.HasErrors(formskema.Validate(v, s)) {
			b.Fatal("unexpected errors")
		}
	}
}
