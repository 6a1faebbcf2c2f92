package attachmentid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !strings.HasPrefix(id, "att_") {
		t.Errorf("id %q missing att_ prefix", id)
	}
	if !IsValid(id) {
		t.Errorf("generated id %q does not validate", id)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{New(), true},
		{"att_notaulid", false},
		{"media_01h2xcejqtf2nbrexx3vqjhp41", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.input); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewMonotonicWithinProcess(t *testing.T) {
	a := New()
	b := New()
	if a == b {
		t.Fatal("consecutive ids must differ")
	}
}
