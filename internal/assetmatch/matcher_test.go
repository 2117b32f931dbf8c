package assetmatch

import "testing"

func testCatalog() Catalog {
	return Catalog{
		"PUMP-001": {"Main Water Pump", "Pump A-1"},
		"PUMP-002": {"Backup Water Pump"},
		"CONV-001": {"Conveyor Belt 1"},
	}
}

func TestMatch_ExactID(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	ok, _ := m.Match("PUMP-001", "PUMP-001")
	if !ok {
		t.Fatalf("exact id must match")
	}
	ok, _ = m.Match("pump-001", "PUMP-001")
	if !ok {
		t.Fatalf("id match must be case-insensitive")
	}
}

func TestMatch_NameResolvesToExpectedID(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	ok, detail := m.Match("Pump A-1", "PUMP-001")
	if !ok {
		t.Fatalf("catalog name must resolve to its id: %s", detail)
	}
	ok, _ = m.Match("pump a1", "PUMP-001")
	if !ok {
		t.Fatalf("normalized variant must resolve")
	}
}

func TestMatch_ResolvesToWrongID(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	ok, _ := m.Match("Backup Water Pump", "PUMP-001")
	if ok {
		t.Fatalf("a name of PUMP-002 must not match PUMP-001")
	}
}

func TestMatch_WeakMentionRejected(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	// "pump" alone is too short a fragment of any catalog label.
	ok, _ := m.Match("pump", "PUMP-001")
	if ok {
		t.Fatalf("weak fragment must not resolve")
	}
}

func TestMatch_NullSymmetry(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	if ok, _ := m.Match("", ""); !ok {
		t.Fatalf("both empty must match")
	}
	if ok, _ := m.Match("", "PUMP-001"); ok {
		t.Fatalf("missing generated asset must not match")
	}
	if ok, _ := m.Match("PUMP-001", ""); ok {
		t.Fatalf("unexpected generated asset must not match")
	}
}

func TestMatch_NilMatcherExactOnly(t *testing.T) {
	var m *Matcher
	if ok, _ := m.Match("PUMP-001", "PUMP-001"); !ok {
		t.Fatalf("exact ids must match without a catalog")
	}
	if ok, _ := m.Match("Pump A-1", "PUMP-001"); ok {
		t.Fatalf("fuzzy resolution needs a catalog")
	}
	if ok, _ := m.Match("", ""); !ok {
		t.Fatalf("both empty must match without a catalog")
	}
}

func TestResolve_TieBreaksDeterministic(t *testing.T) {
	m := NewMatcher(Catalog{
		"B-2": {"Grinder X"},
		"B-1": {"Grinder X"},
	}, DefaultThreshold)
	res, ok := m.Resolve("Grinder X")
	if !ok {
		t.Fatalf("expected a resolution")
	}
	if res.AssetID != "B-1" {
		t.Fatalf("equal-similarity tie must go to the smaller id, got %s", res.AssetID)
	}
}

func TestResolve_PrefersHigherSimilarity(t *testing.T) {
	m := NewMatcher(testCatalog(), DefaultThreshold)
	res, ok := m.Resolve("Main Water Pump")
	if !ok || res.AssetID != "PUMP-001" {
		t.Fatalf("expected PUMP-001, got %+v ok=%v", res, ok)
	}
	if res.Similarity != 1 {
		t.Fatalf("exact normalized label must score 1, got %v", res.Similarity)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"Pump A-1":    "pump a 1",
		"  PUMP_A 1 ": "pump a 1",
		"pump a1":     "pump a1",
		"---":         "",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Fatalf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
