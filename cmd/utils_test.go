package cmd

import (
	"testing"
	"time"

	"github.com/activebook/fitbot/data"
)

func TestResolveConvoNames(t *testing.T) {
	names := []string{"week-3", "leg-day", "week-2", "meals"}
	tests := []struct {
		pattern string
		want    []string
		wantErr bool
	}{
		{pattern: "2", want: []string{"leg-day"}},
		{pattern: "2-3", want: []string{"leg-day", "week-2"}},
		{pattern: "week*", want: []string{"week-3", "week-2"}},
		{pattern: "nothing*", want: nil},
		{pattern: "9", wantErr: true},
		{pattern: "3-1", wantErr: true},
		{pattern: "[", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := resolveConvoNames(tt.pattern, names)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveConvoNames(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("resolveConvoNames(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("resolveConvoNames(%q) = %v, want %v", tt.pattern, got, tt.want)
				}
			}
		})
	}
}

func TestParseConfigValue(t *testing.T) {
	if v, ok := parseConfigValue("30").(int); !ok || v != 30 {
		t.Errorf("parseConfigValue(30) = %#v", parseConfigValue("30"))
	}
	if v, ok := parseConfigValue("0.7").(float64); !ok || v != 0.7 {
		t.Errorf("parseConfigValue(0.7) = %#v", parseConfigValue("0.7"))
	}
	if v, ok := parseConfigValue("true").(bool); !ok || !v {
		t.Errorf("parseConfigValue(true) = %#v", parseConfigValue("true"))
	}
	if v, ok := parseConfigValue("coach").(string); !ok || v != "coach" {
		t.Errorf("parseConfigValue(coach) = %#v", parseConfigValue("coach"))
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(data.KeyReplyKey, "sk-abcdef1234"); got != "*********1234" {
		t.Errorf("maskSecret = %q", got)
	}
	if got := maskSecret(data.KeyReplyKey, "abc"); got != "***" {
		t.Errorf("maskSecret short = %q", got)
	}
	if got := maskSecret(data.KeyReplyModel, "gpt-4o"); got != "gpt-4o" {
		t.Errorf("non-secret keys must not be masked, got %q", got)
	}
}

func TestSmallHelpers(t *testing.T) {
	if got := formatClock(95 * time.Second); got != "1:35" {
		t.Errorf("formatClock = %q", got)
	}
	if got := formatClock(1400 * time.Millisecond); got != "0:01" {
		t.Errorf("formatClock = %q", got)
	}
	if v, err := optionalFloat("weight", " "); err != nil || v != nil {
		t.Errorf("optionalFloat(blank) = %v, %v", v, err)
	}
	if v, err := optionalFloat("weight", "172.5"); err != nil || *v != 172.5 {
		t.Errorf("optionalFloat(172.5) = %v, %v", v, err)
	}
	if _, err := optionalFloat("weight", "heavy"); err == nil {
		t.Error("optionalFloat(heavy) should fail")
	}
	if err := validateInt("-2"); err != nil {
		t.Errorf("validateInt(-2) = %v", err)
	}
	if got := shortID("1"); got != "1" {
		t.Errorf("shortID(1) = %q", got)
	}
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := mealTitle(data.MealBreakfast); got != "Breakfast" {
		t.Errorf("mealTitle = %q", got)
	}
}
