package cmd

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/snadboy/sshdocker/internal/docker"
)

func TestPsCmd_Structure(t *testing.T) {
	t.Parallel()

	cmd := psCmd

	if cmd.Use != "ps [HOST]" {
		t.Errorf("Expected command use 'ps [HOST]', got '%s'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected command short description to be set")
	}

	if cmd.Example == "" {
		t.Error("Expected command example to be set")
	}
}

func TestPsCmd_Flags(t *testing.T) {
	t.Parallel()

	flags := psCmd.Flags()

	allFlag := flags.Lookup("all")
	if allFlag == nil {
		t.Fatal("Expected 'all' flag to be defined")
	}
	if allFlag.Shorthand != "a" {
		t.Errorf("Expected 'all' flag shorthand to be 'a', got '%s'", allFlag.Shorthand)
	}

	if flags.Lookup("filter") == nil {
		t.Error("Expected 'filter' flag to be defined")
	}
}

func TestParseFilterFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "no filters",
			raw:  nil,
			want: nil,
		},
		{
			name: "single filter",
			raw:  []string{"SERVICE=web"},
			want: map[string]string{"SERVICE": "web"},
		},
		{
			name: "multiple filters",
			raw:  []string{"SERVICE=web", "STATUS=running"},
			want: map[string]string{"SERVICE": "web", "STATUS": "running"},
		},
		{
			name: "value containing equals",
			raw:  []string{"label=env=production"},
			want: map[string]string{"label": "env=production"},
		},
		{
			name: "empty value",
			raw:  []string{"NAME="},
			want: map[string]string{"NAME": ""},
		},
		{
			name:    "missing equals",
			raw:     []string{"SERVICE"},
			wantErr: true,
		},
		{
			name:    "empty key",
			raw:     []string{"=web"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilterFlags(tt.raw)

			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFilterFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFilterFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrintContainers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printContainers(&buf, "prod", []docker.Container{
		{Name: "web", Image: "nginx:latest", Status: "Up 2 hours", State: "running"},
		{Name: "db", Image: "postgres:16", Status: "Exited (0) 1 hour ago", State: "exited"},
	})

	output := buf.String()

	for _, expected := range []string{"prod:", "🟢 web", "🔴 db", "nginx:latest", "Up 2 hours"} {
		if !containsString(output, expected) {
			t.Errorf("Expected output to contain %q, got:\n%s", expected, output)
		}
	}
}

func TestPrintContainers_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printContainers(&buf, "prod", nil)

	if !containsString(buf.String(), "No containers found") {
		t.Errorf("Expected empty listing message, got:\n%s", buf.String())
	}
}
