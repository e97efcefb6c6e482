package parser

import (
	"errors"
	"testing"
)

func TestLocateHeaderSkipsPreamble(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"车队月度油料报表"},
		{""},
		{"统计期间", "2026-07"},
		{"Base Link", "Vehicle", "Date", "Qty"},
		{"IND-3001", "KA 01 AB 1234", "2026-07-02", "40"},
	}

	got, err := LocateHeader(rows, DefaultProbeWindow, []string{"base link"})
	if err != nil {
		t.Fatalf("locate header: %v", err)
	}
	if got != 3 {
		t.Fatalf("header row = %d, want 3", got)
	}
}

func TestLocateHeaderNotFound(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"随便什么"},
		{"也不是表头"},
	}

	_, err := LocateHeader(rows, 10, []string{"base link"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var notFound *HeaderNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error type = %T, want *HeaderNotFoundError", err)
	}
	if notFound.Probed != 2 {
		t.Fatalf("probed = %d, want 2", notFound.Probed)
	}
}

func TestLocateHeaderRespectsProbeWindow(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 0, 25)
	for i := 0; i < 24; i++ {
		rows = append(rows, []string{"filler"})
	}
	rows = append(rows, []string{"Base Link", "Vehicle"})

	// 表头在第 25 行，窗口只有 20 行，必须报错而不是越窗扫描
	if _, err := LocateHeader(rows, 20, []string{"base link"}); err == nil {
		t.Fatal("expected header-not-found beyond probe window")
	}
}

func TestNormalizeHeaderCellIdempotent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Base Link", "base link"},
		{"  Vehicle\nNo ", "vehicle no"},
		{"QTY\r\n(Litres)", "qty (litres)"},
		{"date", "date"},
	}

	for _, tc := range cases {
		got := NormalizeHeaderCell(tc.in)
		if got != tc.want {
			t.Fatalf("NormalizeHeaderCell(%q) = %q, want %q", tc.in, got, tc.want)
		}
		if again := NormalizeHeaderCell(got); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
	}
}

func TestNormalizeHeadersDuplicateSuffix(t *testing.T) {
	t.Parallel()

	schema := NormalizeHeaders(0, []string{"Qty", "Vehicle", "qty", "QTY "})

	want := []string{"qty", "vehicle", "qty.1", "qty.2"}
	if len(schema.Order) != len(want) {
		t.Fatalf("order = %v, want %v", schema.Order, want)
	}
	for i, name := range want {
		if schema.Order[i] != name {
			t.Fatalf("order[%d] = %q, want %q", i, schema.Order[i], name)
		}
		if schema.Columns[name] != i {
			t.Fatalf("column of %q = %d, want %d", name, schema.Columns[name], i)
		}
	}
}

func TestNormalizeHeadersTwoLevels(t *testing.T) {
	t.Parallel()

	top := []string{"Fuel", "Fuel", "Unnamed: 2", ""}
	sub := []string{"Qty", "Rate", "Vehicle", "Date"}

	schema := NormalizeHeaders(0, top, sub)

	want := []string{"fuel qty", "fuel rate", "vehicle", "date"}
	for i, name := range want {
		if schema.Order[i] != name {
			t.Fatalf("order[%d] = %q, want %q", i, schema.Order[i], name)
		}
	}
}

func TestResolveFieldContainsFirstWins(t *testing.T) {
	t.Parallel()

	schema := NormalizeHeaders(0, []string{"indent qty total", "qty"})

	// contains 取表头顺序的首个命中，而不是最短或最准确的
	name, ok := schema.ResolveField("qty", MatchContains)
	if !ok || name != "indent qty total" {
		t.Fatalf("resolved %q, want %q", name, "indent qty total")
	}

	name, ok = schema.ResolveField("qty", MatchExact)
	if !ok || name != "qty" {
		t.Fatalf("exact resolved %q, want %q", name, "qty")
	}
}

func TestResolveRequiredAggregatesMissing(t *testing.T) {
	t.Parallel()

	schema := NormalizeHeaders(0, []string{"base link", "remarks"})

	_, err := schema.ResolveRequired("indent", []RequiredField{
		{Name: "ref", Logical: []string{"base link"}, Mode: MatchContains},
		{Name: "vehicle", Logical: []string{"vehicle"}, Mode: MatchContains},
		{Name: "date", Logical: []string{"date"}, Mode: MatchContains},
	})
	if err == nil {
		t.Fatal("expected missing-columns error")
	}

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("error type = %T, want *MissingColumnsError", err)
	}
	if len(missing.Missing) != 2 || missing.Missing[0] != "date" || missing.Missing[1] != "vehicle" {
		t.Fatalf("missing = %v, want [date vehicle]", missing.Missing)
	}
	if len(missing.Headers) != 2 {
		t.Fatalf("headers = %v, want detected header list", missing.Headers)
	}
}
