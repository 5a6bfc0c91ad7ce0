package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandFilters_Shortcuts(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want map[string]string
	}{
		{
			name: "SERVICE expands to compose service label",
			raw:  map[string]string{"SERVICE": "web"},
			want: map[string]string{"label": "com.docker.compose.service=web"},
		},
		{
			name: "PROJECT expands to compose project label",
			raw:  map[string]string{"PROJECT": "myapp"},
			want: map[string]string{"label": "com.docker.compose.project=myapp"},
		},
		{
			name: "COMPOSE_FILE expands to config-file label",
			raw:  map[string]string{"COMPOSE_FILE": "/srv/app/docker-compose.yml"},
			want: map[string]string{"label": "com.docker.compose.config-file=/srv/app/docker-compose.yml"},
		},
		{
			name: "STATUS expands to status",
			raw:  map[string]string{"STATUS": "running"},
			want: map[string]string{"status": "running"},
		},
		{
			name: "IMAGE expands to ancestor",
			raw:  map[string]string{"IMAGE": "nginx:latest"},
			want: map[string]string{"ancestor": "nginx:latest"},
		},
		{
			name: "NETWORK expands to network",
			raw:  map[string]string{"NETWORK": "frontend"},
			want: map[string]string{"network": "frontend"},
		},
		{
			name: "VOLUME expands to volume",
			raw:  map[string]string{"VOLUME": "data"},
			want: map[string]string{"volume": "data"},
		},
		{
			name: "NAME expands to name",
			raw:  map[string]string{"NAME": "web-1"},
			want: map[string]string{"name": "web-1"},
		},
		{
			name: "ID expands to id",
			raw:  map[string]string{"ID": "4fa6e0f0c678"},
			want: map[string]string{"id": "4fa6e0f0c678"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandFilters(tt.raw))
		})
	}
}

func TestExpandFilters_CasingRule(t *testing.T) {
	// Only all-uppercase keys are shortcuts; any other casing passes
	// through as a native filter key unchanged.
	tests := []struct {
		name string
		raw  map[string]string
		want map[string]string
	}{
		{
			name: "lowercase service passes through",
			raw:  map[string]string{"service": "web"},
			want: map[string]string{"service": "web"},
		},
		{
			name: "mixed case passes through",
			raw:  map[string]string{"Service": "web"},
			want: map[string]string{"Service": "web"},
		},
		{
			name: "lowercase status stays a native key",
			raw:  map[string]string{"status": "exited"},
			want: map[string]string{"status": "exited"},
		},
		{
			name: "unknown uppercase key passes through",
			raw:  map[string]string{"FOO": "bar"},
			want: map[string]string{"FOO": "bar"},
		},
		{
			name: "native label key passes through",
			raw:  map[string]string{"label": "env=prod"},
			want: map[string]string{"label": "env=prod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandFilters(tt.raw))
		})
	}
}

func TestExpandFilters_LastWriteWins(t *testing.T) {
	// PROJECT and SERVICE both expand to the "label" native key. Keys are
	// processed in sorted order, so SERVICE (later) overwrites PROJECT.
	got := ExpandFilters(map[string]string{
		"PROJECT": "myapp",
		"SERVICE": "web",
	})
	assert.Equal(t, map[string]string{"label": "com.docker.compose.service=web"}, got)

	// A shortcut colliding with a literal native key follows the same
	// rule: "STATUS" sorts before "status", so the literal wins.
	got = ExpandFilters(map[string]string{
		"STATUS": "running",
		"status": "exited",
	})
	assert.Equal(t, map[string]string{"status": "exited"}, got)
}

func TestExpandFilters_Idempotent(t *testing.T) {
	raw := map[string]string{
		"PROJECT": "myapp",
		"SERVICE": "web",
		"status":  "running",
		"name":    "web-1",
	}

	first := ExpandFilters(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExpandFilters(raw), "expansion must be deterministic across runs")
	}
}

func TestExpandFilters_Empty(t *testing.T) {
	assert.Empty(t, ExpandFilters(nil))
	assert.Empty(t, ExpandFilters(map[string]string{}))
}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name   string
		native map[string]string
		want   []string
	}{
		{
			name:   "empty mapping yields no args",
			native: nil,
			want:   nil,
		},
		{
			name:   "single filter",
			native: map[string]string{"status": "running"},
			want:   []string{"--filter", "status=running"},
		},
		{
			name: "multiple filters in sorted key order",
			native: map[string]string{
				"status": "running",
				"label":  "com.docker.compose.project=myapp",
				"name":   "web",
			},
			want: []string{
				"--filter", "label=com.docker.compose.project=myapp",
				"--filter", "name=web",
				"--filter", "status=running",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.native))
		})
	}
}
