package log

import (
	"slices"
	"testing"
)

func TestLevel_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelTrace + 2, "trace+2"},
		{LevelTrace - 1, "trace-1"},
		{LevelInfo + 2, "info+2"},
		{LevelError + 4, "error+4"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"TRACE", LevelTrace, false},
		{" debug ", LevelDebug, false},
		{"Info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"warn+2", LevelWarn + 2, false},
		{"verbose", DefaultLevel, true},
		{"", DefaultLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	t.Parallel()

	names := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(names, want) {
		t.Fatalf("Levels() = %v, want %v", names, want)
	}

	for _, name := range names {
		l, err := ParseLevel(name)
		if err != nil || l.String() != name {
			t.Errorf("ParseLevel(%q) = %v, %v", name, l, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range slices.Collect(Formats()) {
		f, err := ParseFormat(name)
		if err != nil || f.String() != name {
			t.Errorf("ParseFormat(%q) = %v, %v", name, f, err)
		}
	}

	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}

	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("Format(7).String() = %q", got)
	}
}

func TestResolveTimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, want string
	}{
		{"RFC3339", "2006-01-02T15:04:05Z07:00"},
		{"rfc-3339-nano", "2006-01-02T15:04:05.999999999Z07:00"},
		{"Kitchen", "3:04PM"},
		{"ms", "Jan _2 15:04:05.000"},
		{"none", ""},
		{"   ", ""},
		{"15:04", "15:04"},
		{"2006-01-02", "2006-01-02"},
	}

	for _, tt := range tests {
		if got := resolveTimeLayout(tt.input); got != tt.want {
			t.Errorf("resolveTimeLayout(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
