package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"todobar"},
			want: []string{"todobar"},
		},
		{
			name: "direct task id first token",
			in:   []string{"todobar", "task-abc123"},
			want: []string{"todobar", "show", "task-abc123"},
		},
		{
			name: "direct task id after value flag",
			in:   []string{"todobar", "--dir", "./tmp-test-ws", "task-abc123"},
			want: []string{"todobar", "--dir", "./tmp-test-ws", "show", "task-abc123"},
		},
		{
			name: "direct task id after equals flag",
			in:   []string{"todobar", "--dir=./tmp-test-ws", "task-abc123"},
			want: []string{"todobar", "--dir=./tmp-test-ws", "show", "task-abc123"},
		},
		{
			name: "direct task id after bool flag",
			in:   []string{"todobar", "--pretty", "task-abc123"},
			want: []string{"todobar", "--pretty", "show", "task-abc123"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"todobar", "list"},
			want: []string{"todobar", "list"},
		},
		{
			name: "task id after subcommand untouched",
			in:   []string{"todobar", "delete", "task-abc123"},
			want: []string{"todobar", "delete", "task-abc123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rewriteDirectTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
