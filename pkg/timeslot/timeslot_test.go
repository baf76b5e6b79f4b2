package timeslot

import (
	"reflect"
	"testing"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{" 14:30 ", 870, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseHHMM(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseHHMM(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHHMM(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHHMM(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestConvert12To24(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		// Midnight and noon are the classic trip-ups.
		{"12:00 AM", "00:00", false},
		{"12:30 AM", "00:30", false},
		{"12:00 PM", "12:00", false},
		{"12:30 PM", "12:30", false},
		{"01:00 AM", "01:00", false},
		{"09:00 AM", "09:00", false},
		{"11:59 AM", "11:59", false},
		{"01:00 PM", "13:00", false},
		{"02:00 PM", "14:00", false},
		{"04:00 PM", "16:00", false},
		{"11:59 PM", "23:59", false},
		{"11:59 pm", "23:59", false},
		{"13:00 PM", "", true},
		{"00:00 AM", "", true},
		{"09:00", "", true},
		{"garbage", "", true},
	}
	for _, c := range cases {
		got, err := Convert12To24(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Convert12To24(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Convert12To24(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Convert12To24(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConvert24To12(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"00:30", "12:30 AM"},
		{"01:00", "01:00 AM"},
		{"11:59", "11:59 AM"},
		{"12:00", "12:00 PM"},
		{"12:01", "12:01 PM"},
		{"13:00", "01:00 PM"},
		{"16:00", "04:00 PM"},
		{"23:59", "11:59 PM"},
	}
	for _, c := range cases {
		got, err := Convert24To12(c.in)
		if err != nil {
			t.Fatalf("Convert24To12(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Convert24To12(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConversionRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m += 17 {
		s24 := FormatHHMM(m)
		s12, err := Convert24To12(s24)
		if err != nil {
			t.Fatalf("Convert24To12(%q): %v", s24, err)
		}
		back, err := Convert12To24(s12)
		if err != nil {
			t.Fatalf("Convert12To24(%q): %v", s12, err)
		}
		if back != s24 {
			t.Fatalf("round trip %q -> %q -> %q", s24, s12, back)
		}
	}
}

func TestNormalize24(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"02:00 PM", "14:00"},
		{"12:00 am", "00:00"},
		{"14:00", "14:00"},
		{"9:05", "09:05"},
	}
	for _, c := range cases {
		got, err := Normalize24(c.in)
		if err != nil {
			t.Fatalf("Normalize24(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Normalize24(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if _, err := Normalize24("25:00"); err == nil {
		t.Error("Normalize24(25:00): expected error")
	}
}

func TestMergeRanges(t *testing.T) {
	cases := []struct {
		name string
		in   []Range
		want []Range
	}{
		{
			name: "disjoint stay apart",
			in:   []Range{{540, 600}, {720, 780}},
			want: []Range{{540, 600}, {720, 780}},
		},
		{
			name: "overlapping merge",
			in:   []Range{{540, 1020}, {480, 1200}},
			want: []Range{{480, 1200}},
		},
		{
			name: "touching merge",
			in:   []Range{{540, 600}, {600, 660}},
			want: []Range{{540, 660}},
		},
		{
			name: "invalid dropped",
			in:   []Range{{600, 540}, {540, 600}},
			want: []Range{{540, 600}},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MergeRanges(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("MergeRanges(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestSubtractRange(t *testing.T) {
	day := []Range{{540, 1020}} // 09:00-17:00

	got := SubtractRange(day, Range{720, 780}) // block 12:00-13:00
	want := []Range{{540, 720}, {780, 1020}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mid-day block: got %v, want %v", got, want)
	}

	got = SubtractRange(day, Range{0, 1439}) // full-day block
	if len(got) != 0 {
		t.Errorf("full-day block: expected nothing left, got %v", got)
	}

	got = SubtractRange(day, Range{1080, 1140}) // block outside the range
	if !reflect.DeepEqual(got, day) {
		t.Errorf("non-overlapping block: got %v, want %v", got, day)
	}
}

func TestDiscretize(t *testing.T) {
	// 09:00-17:00 at 120 minutes.
	got := Discretize([]Range{{540, 1020}}, 120)
	want := []int{540, 660, 780, 900}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discretize 09:00-17:00/120 = %v, want %v", got, want)
	}

	// Overlapping template and override collapse into one run of slots.
	got = Discretize([]Range{{540, 1020}, {480, 1200}}, 120)
	want = []int{480, 600, 720, 840, 960, 1080}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discretize union/120 = %v, want %v", got, want)
	}

	// A slot only counts if the full step fits.
	got = Discretize([]Range{{540, 650}}, 60)
	want = []int{540}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discretize partial tail = %v, want %v", got, want)
	}

	if got := Discretize([]Range{{540, 1020}}, 0); got != nil {
		t.Errorf("Discretize step 0 = %v, want nil", got)
	}
}
