package risk

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  Level
	}{
		{"low only", "This appears to be low risk with regular borders", Low},
		{"high only", "asymmetric borders suggest this could be high risk", High},
		{"both cues defaults to high", "low concern overall but some high risk features", High},
		{"no cues defaults to medium", "monitor this mole periodically", Medium},
		{"case insensitive", "LOW RISK lesion, regular pigmentation", Low},
		{"negated high still matches high", "this is not high risk", High},
		{"benign wording without cue words", "looks benign, no concern at all", Medium},
		{"empty reply", "", Medium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.reply); got != tc.want {
				t.Fatalf("Classify(%q) = %s, want %s", tc.reply, got.Label(), tc.want.Label())
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	reply := "irregular border, possibly high risk, follow up recommended"
	first := Classify(reply)
	for i := 0; i < 10; i++ {
		if got := Classify(reply); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first.Label(), got.Label())
		}
	}
}

func TestLabels(t *testing.T) {
	if Low.Label() != "Low Risk - Likely Benign" {
		t.Fatalf("unexpected low label: %s", Low.Label())
	}
	if Medium.Label() != "Medium Risk - Monitor" {
		t.Fatalf("unexpected medium label: %s", Medium.Label())
	}
	if High.Label() != "High Risk - Seek Medical Advice" {
		t.Fatalf("unexpected high label: %s", High.Label())
	}
}
