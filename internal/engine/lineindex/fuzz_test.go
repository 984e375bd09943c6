package lineindex

import (
	"testing"

	"pgregory.net/rapid"
)

// FuzzRebuild checks the structural invariants of a freshly built index.
func FuzzRebuild(f *testing.F) {
	f.Add("")
	f.Add("hello\nworld")
	f.Add("hello\r\nworld")
	f.Add("\r\r\n\n\r")
	f.Add("日本語\r")

	f.Fuzz(func(t *testing.T, s string) {
		idx := New(s)
		starts := idx.Starts()
		if starts[0] != 0 {
			t.Fatalf("first start = %d", starts[0])
		}
		for i := 1; i < len(starts); i++ {
			if starts[i] <= starts[i-1] {
				t.Fatalf("starts not increasing: %v", starts)
			}
			if starts[i] > len(s) {
				t.Fatalf("start %d beyond text length %d", starts[i], len(s))
			}
		}
	})
}

// FuzzInsertDelete checks incremental adjustment against a full rebuild.
func FuzzInsertDelete(f *testing.F) {
	f.Add("a\rb", 2, "\n")
	f.Add("a\r\nb", 2, "x")
	f.Add("", 0, "\r\n")
	f.Add("abc\n", 4, "\r")

	f.Fuzz(func(t *testing.T, base string, pos int, text string) {
		if pos < 0 {
			pos = -pos
		}
		if len(base) > 0 {
			pos %= len(base) + 1
		} else {
			pos = 0
		}

		idx := New(base)
		after := base[:pos] + text + base[pos:]
		idx.Insert(after, pos, len(text))
		if !idx.Equal(New(after)) {
			t.Fatalf("insert %q at %d into %q: got %v", text, pos, base, idx.Starts())
		}

		idx.Delete(base, pos, len(text))
		if !idx.Equal(New(base)) {
			t.Fatalf("delete %d at %d from %q: got %v", len(text), pos, after, idx.Starts())
		}
	})
}

var lineTextGen = rapid.StringOfN(rapid.SampledFrom([]rune{'a', 'b', '\r', '\n', 'é'}), 0, 24, -1)

func TestIncrementalEquivalenceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := lineTextGen.Draw(t, "text")
		idx := New(text)

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(text) > 0 && rapid.Bool().Draw(t, "delete") {
				pos := rapid.IntRange(0, len(text)).Draw(t, "pos")
				n := rapid.IntRange(0, len(text)-pos).Draw(t, "n")
				text = text[:pos] + text[pos+n:]
				idx.Delete(text, pos, n)
			} else {
				pos := rapid.IntRange(0, len(text)).Draw(t, "pos")
				ins := lineTextGen.Draw(t, "insert")
				text = text[:pos] + ins + text[pos:]
				idx.Insert(text, pos, len(ins))
			}

			if want := New(text); !idx.Equal(want) {
				t.Fatalf("text %q: incremental %v, rebuild %v", text, idx.Starts(), want.Starts())
			}
		}
	})
}
