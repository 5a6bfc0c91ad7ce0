package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/snadboy/sshdocker/internal/errors"
)

const psLine = `{"ID":"4fa6e0f0c678","Names":"myapp_web_1","Image":"nginx:latest","Status":"Up 3 hours","State":"running","Labels":"com.docker.compose.project=myapp,com.docker.compose.service=web","Ports":"0.0.0.0:8080->80/tcp","CreatedAt":"2026-08-30 10:00:00 +0000 UTC"}`

func TestParsePS(t *testing.T) {
	output := psLine + "\n" +
		`{"ID":"deadbeef0001","Names":"db","Image":"postgres:16","Status":"Exited (0) 2 days ago","State":"exited","Labels":"","Ports":""}` + "\n"

	containers, err := parsePS("prod", output)
	require.NoError(t, err)
	require.Len(t, containers, 2)

	web := containers[0]
	assert.Equal(t, "4fa6e0f0c678", web.ID)
	assert.Equal(t, "myapp_web_1", web.Name)
	assert.Equal(t, "nginx:latest", web.Image)
	assert.Equal(t, "Up 3 hours", web.Status)
	assert.Equal(t, "running", web.State)
	assert.True(t, web.Running())
	assert.Equal(t, "prod", web.Host)
	assert.Equal(t, map[string]string{
		"com.docker.compose.project": "myapp",
		"com.docker.compose.service": "web",
	}, web.Labels)
	assert.Equal(t, []string{"0.0.0.0:8080->80/tcp"}, web.Ports)

	db := containers[1]
	assert.Equal(t, "db", db.Name)
	assert.False(t, db.Running())
	assert.Empty(t, db.Labels)
	assert.Nil(t, db.Ports)
}

func TestParsePS_EmptyOutput(t *testing.T) {
	containers, err := parsePS("prod", "")
	require.NoError(t, err)
	assert.Empty(t, containers)

	containers, err = parsePS("prod", "\n\n  \n")
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestParsePS_MalformedLine(t *testing.T) {
	_, err := parsePS("prod", psLine+"\nnot json at all\n")

	var parseErr *apperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "prod", parseErr.Host)
	assert.Equal(t, "docker ps", parseErr.Source)
}

func TestParsePS_LeadingSlashInName(t *testing.T) {
	containers, err := parsePS("prod", `{"ID":"abc","Names":"/web"}`)
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "web", containers[0].Name)
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "empty string",
			in:   "",
			want: map[string]string{},
		},
		{
			name: "single label",
			in:   "env=prod",
			want: map[string]string{"env": "prod"},
		},
		{
			name: "multiple labels",
			in:   "a=1,b=2",
			want: map[string]string{"a": "1", "b": "2"},
		},
		{
			name: "value containing equals sign",
			in:   "traefik.rule=Host(`example.com`)==true",
			want: map[string]string{"traefik.rule": "Host(`example.com`)==true"},
		},
		{
			name: "entries without equals are ignored",
			in:   "valid=yes,garbage",
			want: map[string]string{"valid": "yes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLabels(tt.in))
		})
	}
}

func TestParseInspect(t *testing.T) {
	output := `[{"Id":"4fa6e0f0c678","Name":"/myapp_web_1","State":{"Status":"running","Running":true},"Config":{"Image":"nginx:latest","Labels":{"com.docker.compose.service":"web"}}}]`

	detail, err := parseInspect("prod", "myapp_web_1", output)
	require.NoError(t, err)
	assert.Equal(t, "4fa6e0f0c678", detail.ID)
	assert.Equal(t, "/myapp_web_1", detail.Name)
	require.NotNil(t, detail.State)
	assert.Equal(t, "running", string(detail.State.Status))
	require.NotNil(t, detail.Config)
	assert.Equal(t, "web", detail.Config.Labels["com.docker.compose.service"])
}

func TestParseInspect_EmptyArray(t *testing.T) {
	_, err := parseInspect("prod", "ghost", "[]")

	var notFound *apperrors.ContainerNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.Container)
}

func TestParseInspect_Malformed(t *testing.T) {
	_, err := parseInspect("prod", "web", "Error: no such object")

	var parseErr *apperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseEventLine(t *testing.T) {
	line := `{"status":"start","id":"4fa6e0f0c678","Type":"container","Action":"start","Actor":{"ID":"4fa6e0f0c678","Attributes":{"image":"nginx:latest","name":"myapp_web_1"}},"time":1767200000,"timeNano":1767200000000000000}`

	ev, err := parseEventLine("prod", line)
	require.NoError(t, err)
	assert.Equal(t, "prod", ev.Host)
	assert.Equal(t, "container", string(ev.Type))
	assert.Equal(t, "start", string(ev.Action))
	assert.Equal(t, "myapp_web_1", ev.ContainerName())
	assert.Equal(t, int64(1767200000), ev.Time)
}

func TestParseEventLine_Malformed(t *testing.T) {
	_, err := parseEventLine("prod", "{broken")

	var parseErr *apperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "docker events", parseErr.Source)
}

func TestParseJSONOutput(t *testing.T) {
	t.Run("single array document", func(t *testing.T) {
		docs, err := parseJSONOutput("prod", `[{"a":1},{"b":2}]`)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("line-delimited objects", func(t *testing.T) {
		docs, err := parseJSONOutput("prod", "{\"a\":1}\n{\"b\":2}\n")
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("empty output", func(t *testing.T) {
		docs, err := parseJSONOutput("prod", "  \n")
		require.NoError(t, err)
		assert.Nil(t, docs)
	})

	t.Run("malformed output", func(t *testing.T) {
		_, err := parseJSONOutput("prod", "plain text")
		var parseErr *apperrors.ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestContainer_ShortID(t *testing.T) {
	long := Container{ID: "4fa6e0f0c6784fa6e0f0c6784fa6e0f0c678"}
	assert.Equal(t, "4fa6e0f0c678", long.ShortID())

	short := Container{ID: "abc"}
	assert.Equal(t, "abc", short.ShortID())
}
