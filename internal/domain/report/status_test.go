package report

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "exact match", input: "NEW", want: StatusNew},
		{name: "lowercase", input: "closed", want: StatusClosed},
		{name: "mixed case", input: "In_Progress", want: StatusInProgress},
		{name: "received", input: "RECEIVED", want: StatusReceived},
		{name: "canceled", input: "canceled", want: StatusCanceled},
		{name: "unknown", input: "ARCHIVED", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseStatus(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusNew, false},
		{StatusReceived, false},
		{StatusInProgress, false},
		{StatusClosed, true},
		{StatusCanceled, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		trigger Trigger
		want    Status
	}{
		{"staff view acknowledges new", StatusNew, TriggerStaffViewed, StatusReceived},
		{"staff view leaves received alone", StatusReceived, TriggerStaffViewed, StatusReceived},
		{"staff view leaves in_progress alone", StatusInProgress, TriggerStaffViewed, StatusInProgress},
		{"staff view leaves closed alone", StatusClosed, TriggerStaffViewed, StatusClosed},
		{"compliance reply starts progress from new", StatusNew, TriggerComplianceReplied, StatusInProgress},
		{"compliance reply starts progress from received", StatusReceived, TriggerComplianceReplied, StatusInProgress},
		{"compliance reply keeps in_progress", StatusInProgress, TriggerComplianceReplied, StatusInProgress},
		{"compliance reply never reopens closed", StatusClosed, TriggerComplianceReplied, StatusClosed},
		{"compliance reply never reopens canceled", StatusCanceled, TriggerComplianceReplied, StatusCanceled},
		{"reporter reply never transitions new", StatusNew, TriggerReporterReplied, StatusNew},
		{"reporter reply never transitions received", StatusReceived, TriggerReporterReplied, StatusReceived},
		{"reporter reply never transitions closed", StatusClosed, TriggerReporterReplied, StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStatus(tt.current, tt.trigger); got != tt.want {
				t.Errorf("NextStatus(%s, %s) = %s, want %s", tt.current, tt.trigger, got, tt.want)
			}
		})
	}
}
