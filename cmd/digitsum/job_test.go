package main

import (
	"testing"
	"time"

	"github.com/panyam/mapreduce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJob(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Job
		wantErr bool
	}{
		{
			name:    "full",
			content: "data: \"1 2 3\"\nworkers: 3\ntimeout: 250ms\npolicy: collect-all\n",
			want:    Job{Data: "1 2 3", Workers: 3, Timeout: "250ms", Policy: "collect-all"},
		},
		{
			name:    "empty",
			content: "",
			want:    Job{},
		},
		{
			name:    "negative workers",
			content: "workers: -2\n",
			wantErr: true,
		},
		{
			name:    "bad timeout",
			content: "timeout: soon\n",
			wantErr: true,
		},
		{
			name:    "bad policy",
			content: "policy: sometimes\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			content: "data: [unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := ParseJob([]byte(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *job)
		})
	}
}

func TestJobApply(t *testing.T) {
	s := runSettings{workers: 4, timeout: time.Second, policy: mapreduce.FailFast}

	(&Job{}).apply(&s)
	assert.Equal(t, runSettings{workers: 4, timeout: time.Second, policy: mapreduce.FailFast}, s)

	(&Job{Workers: 2, Timeout: "10ms", Policy: "collect-all"}).apply(&s)
	assert.Equal(t, runSettings{workers: 2, timeout: 10 * time.Millisecond, policy: mapreduce.CollectAll}, s)
}
