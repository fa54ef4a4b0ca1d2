package main

import (
	"testing"

	"github.com/cuemby/arenafeed/pkg/feedback"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	addWatchFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestWatchOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want feedback.Options
	}{
		{
			name: "defaults show the clip name only",
			want: feedback.Options{Step: 1, ShowName: true},
		},
		{
			name: "text source content on request",
			args: []string{"--show-text"},
			want: feedback.Options{Step: 1, ShowName: true, ShowText: true},
		},
		{
			name: "name disabled",
			args: []string{"--show-name=false", "--step", "3", "--view", "timestamp"},
			want: feedback.Options{Step: 3, View: "timestamp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newWatchCmd(t, tt.args...)
			assert.Equal(t, tt.want, watchOptions(cmd))
		})
	}
}

func TestParseWatches(t *testing.T) {
	cmd := newWatchCmd(t, "--watch", "clipInfo=2,3", "--watch", "selectedColumnName")

	watches, err := parseWatches(cmd)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"clipInfo", "2,3"}, {"selectedColumnName", ""}}, watches)

	cmd = newWatchCmd(t, "--watch", "=1")
	_, err = parseWatches(cmd)
	assert.Error(t, err)
}
