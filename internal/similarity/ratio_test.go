package similarity

import (
	"math"
	"testing"
)

func TestRatioIdentity(t *testing.T) {
	for _, name := range []string{"a", "Movie (2020)", "Foo_v2", "日本語"} {
		if got := Ratio(name, name); got != 1.0 {
			t.Fatalf("Ratio(%q, %q) = %v, want 1.0", name, name, got)
		}
	}
}

func TestRatioEmpty(t *testing.T) {
	if got := Ratio("", "anything"); got != 0 {
		t.Fatalf("Ratio with empty left = %v, want 0", got)
	}
	if got := Ratio("anything", ""); got != 0 {
		t.Fatalf("Ratio with empty right = %v, want 0", got)
	}
	if got := Ratio("", ""); got != 0 {
		t.Fatalf("Ratio of two empties = %v, want 0", got)
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Foo", "Foo_v2"},
		{"Movie (2020)", "Movie"},
		{"abcdef", "abdcfe"},
		{"Season 01", "season.01"},
	}
	for _, pair := range pairs {
		ab := Ratio(pair[0], pair[1])
		ba := Ratio(pair[1], pair[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Fatalf("Ratio(%q, %q)=%v differs from Ratio(%q, %q)=%v",
				pair[0], pair[1], ab, pair[1], pair[0], ba)
		}
	}
}

func TestRatioKnownValues(t *testing.T) {
	// "Foo" is wholly contained in "Foo_v2": 2*3/(3+6).
	if got, want := Ratio("Foo", "Foo_v2"), 2.0*3/9; math.Abs(got-want) > 1e-12 {
		t.Fatalf("Ratio(Foo, Foo_v2) = %v, want %v", got, want)
	}
	if got := Ratio("Foo", "Bar"); got >= 0.8 {
		t.Fatalf("Ratio(Foo, Bar) = %v, want < 0.8", got)
	}
}

func TestContainment(t *testing.T) {
	if got := Containment("foo", "foo_v2"); got != 1.0 {
		t.Fatalf("Containment(foo, foo_v2) = %v, want 1.0", got)
	}
	if got := Containment("foo", "bar"); got != 0 {
		t.Fatalf("Containment(foo, bar) = %v, want 0", got)
	}
	if got := Containment("", "foo"); got != 0 {
		t.Fatalf("Containment with empty input = %v, want 0", got)
	}
}

func TestNormalizeStripsExtension(t *testing.T) {
	if got := Normalize("Movie.zip"); got != "movie" {
		t.Fatalf("Normalize(Movie.zip) = %q, want %q", got, "movie")
	}
	// Parenthesised year is not an extension.
	if got := Normalize("Movie (2020)"); got != "movie (2020)" {
		t.Fatalf("Normalize(Movie (2020)) = %q", got)
	}
	// Numeric suffix is a version fragment, not an extension.
	if got := Normalize("build.2024"); got != "build.2024" {
		t.Fatalf("Normalize(build.2024) = %q", got)
	}
}

func TestGateThreshold(t *testing.T) {
	gate := NewGate(0.8)
	accepted := gate.Match("Foo", "Foo_v2")
	if !accepted.Accepted {
		t.Fatalf("Foo/Foo_v2 should pass at 0.8: similarity %v", accepted.Similarity)
	}
	rejected := gate.Match("Foo", "Bar")
	if rejected.Accepted {
		t.Fatalf("Foo/Bar should fail at 0.8: similarity %v", rejected.Similarity)
	}
}

func TestGateDisabled(t *testing.T) {
	gate := Disabled()
	if gate.Enabled() {
		t.Fatal("zero-threshold gate must report disabled")
	}
	if res := gate.Match("Foo", "completely different"); !res.Accepted {
		t.Fatal("disabled gate must accept every candidate")
	}
}

func TestGateArchiveScenario(t *testing.T) {
	gate := NewGate(0.5)
	res := gate.Match("Movie (2020)", "Movie.zip")
	if !res.Accepted {
		t.Fatalf("Movie (2020)/Movie.zip should pass at 0.5: similarity %v", res.Similarity)
	}
	if res.Similarity < 0.5 {
		t.Fatalf("similarity %v below 0.5", res.Similarity)
	}
}

func TestGateCaseInsensitive(t *testing.T) {
	gate := NewGate(0.99)
	if res := gate.Match("FOO", "foo"); !res.Accepted {
		t.Fatalf("case fold failed: similarity %v", res.Similarity)
	}
}
