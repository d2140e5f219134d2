package prompts

import (
	"strings"
	"testing"
)

func TestMethodologyPrompt(t *testing.T) {
	all := MethodologyPrompt("")
	for _, want := range []string{"vegan_baseline", "long_flight", "hotel_spend", "365.2425"} {
		if !strings.Contains(all, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	diet := MethodologyPrompt("diet")
	if !strings.Contains(diet, "meat (diet)") {
		t.Error("diet prompt should list meat")
	}
	if strings.Contains(diet, "long_flight") {
		t.Error("diet prompt should not list travel coefficients")
	}
}
