package model

import "testing"

func TestNumberValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", float64(4.5), 4.5, true},
		{"int", 7, 7, true},
		{"numeric string", " 42 ", 42, true},
		{"blank string", "", 0, false},
		{"words", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tc := range cases {
		got, ok := NumberValue(tc.value)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("%s: NumberValue = (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStringValue(t *testing.T) {
	t.Parallel()

	if got := StringValue("hello"); got != "hello" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := StringValue(nil); got != "" {
		t.Fatalf("nil should stringify to empty, got %q", got)
	}
	if got := StringValue(float64(10)); got != "10" {
		t.Fatalf("whole floats should not carry a decimal point, got %q", got)
	}
	if got := StringValue(true); got != "true" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestSliceValue(t *testing.T) {
	t.Parallel()

	if entries, ok := SliceValue([]string{"a", "b"}); !ok || len(entries) != 2 {
		t.Fatalf("string slice should convert, got %v ok=%v", entries, ok)
	}
	if entries, ok := SliceValue([]any{"a", float64(2)}); !ok || entries[1] != "2" {
		t.Fatalf("any slice should stringify entries, got %v ok=%v", entries, ok)
	}
	if _, ok := SliceValue("not a slice"); ok {
		t.Fatal("strings are not slices")
	}
}

func TestAnswerMapCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := AnswerMap{"a": 1}
	cloned := original.Clone()
	cloned["b"] = 2

	if _, ok := original["b"]; ok {
		t.Fatal("mutating the clone should not touch the original")
	}
}
