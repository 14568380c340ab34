package trace

import (
	"strings"
	"testing"
)

const sampleVCD = `$date today $end
$version sim 1.0 $end
$timescale 1 ns $end
$scope module top $end
$var wire 1 ! clk $end
$var wire 1 " rst $end
$scope module cpu $end
$var wire 8 # data [7:0] $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
0!
1"
bxxxxxxxx #
$end
#5
1!
#10
0!
0"
b10100101 #
#15
1!
z"
`

func parseSample(t *testing.T) *DB {
	t.Helper()
	db, err := Parse(strings.NewReader(sampleVCD))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return db
}

func TestParseSignals(t *testing.T) {
	db := parseSample(t)

	sigs := db.Signals()
	if len(sigs) != 3 {
		t.Fatalf("Signals() = %d signals, want 3", len(sigs))
	}

	want := []Signal{
		{ID: "!", Name: "top.clk", Width: 1},
		{ID: "\"", Name: "top.rst", Width: 1},
		{ID: "#", Name: "top.cpu.data [7:0]", Width: 8},
	}
	for i, sig := range sigs {
		if sig != want[i] {
			t.Errorf("Signals()[%d] = %+v, want %+v", i, sig, want[i])
		}
	}
}

func TestParseHeader(t *testing.T) {
	db := parseSample(t)

	if got := db.Timescale(); got != "1ns" {
		t.Errorf("Timescale() = %q, want 1ns", got)
	}
	min, max := db.TimeRange()
	if min != 0 || max != 15 {
		t.Errorf("TimeRange() = %d, %d, want 0, 15", min, max)
	}
}

func TestValueAt(t *testing.T) {
	db := parseSample(t)

	tests := []struct {
		id   string
		t    uint64
		want Value
	}{
		{"!", 0, "0"},
		{"!", 4, "0"},  // holds until the next change
		{"!", 5, "1"},  // change applies at its own timestamp
		{"!", 10, "0"},
		{"!", 99, "1"}, // last value holds past the end
		{"\"", 14, "0"},
		{"\"", 15, "z"},
		{"#", 3, "xxxxxxxx"},
		{"#", 12, "10100101"},
	}
	for _, tt := range tests {
		got, ok := db.ValueAt(tt.id, tt.t)
		if !ok {
			t.Errorf("ValueAt(%q, %d) not ok", tt.id, tt.t)
			continue
		}
		if got != tt.want {
			t.Errorf("ValueAt(%q, %d) = %q, want %q", tt.id, tt.t, got, tt.want)
		}
	}
}

func TestValueAtUnknownSignal(t *testing.T) {
	db := parseSample(t)

	if _, ok := db.ValueAt("nosuch", 5); ok {
		t.Error("ValueAt on undeclared signal should not be ok")
	}
}

func TestValueKind(t *testing.T) {
	tests := []struct {
		v    Value
		want ValueKind
	}{
		{"0", ValueLow},
		{"1", ValueHigh},
		{"z", ValueHighZ},
		{"x", ValueUnknown},
		{"1010", ValueVector},
	}
	for _, tt := range tests {
		if got := tt.v.Kind(); got != tt.want {
			t.Errorf("Value(%q).Kind() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestParseChanges(t *testing.T) {
	db := parseSample(t)

	clk := db.Changes("!")
	wantTimes := []uint64{0, 5, 10, 15}
	if len(clk) != len(wantTimes) {
		t.Fatalf("Changes(clk) = %d entries, want %d", len(clk), len(wantTimes))
	}
	for i, c := range clk {
		if c.Time != wantTimes[i] {
			t.Errorf("Changes(clk)[%d].Time = %d, want %d", i, c.Time, wantTimes[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no declarations", "#0\n"},
		{"truncated command", "$timescale 1 ns"},
		{"backward timestamp", "$var wire 1 ! clk $end\n#10\n#5\n"},
		{"bad width", "$var wire zero ! clk $end\n"},
		{"garbage token", "$var wire 1 ! clk $end\n#0\nq!\n"},
		{"bare scalar", "$var wire 1 ! clk $end\n#0\n0\n"},
	}
	for _, tt := range tests {
		if _, err := Parse(strings.NewReader(tt.in)); err == nil {
			t.Errorf("%s: Parse() succeeded, want error", tt.name)
		}
	}
}

func TestParseUppercaseNormalized(t *testing.T) {
	in := "$var wire 1 ! clk $end\n$enddefinitions $end\n#0\nX!\n#5\nZ!\n"
	db, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v, _ := db.ValueAt("!", 0); v != "x" {
		t.Errorf("ValueAt = %q, want lowercase x", v)
	}
	if v, _ := db.ValueAt("!", 5); v != "z" {
		t.Errorf("ValueAt = %q, want lowercase z", v)
	}
}
