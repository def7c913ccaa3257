// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineDiff(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{
			name: "equal",
			old:  "a\nb\n",
			new:  "a\nb\n",
			want: "",
		},
		{
			name: "changed line",
			old:  "a\nb\nc\n",
			new:  "a\nB\nc\n",
			want: "--- a/f.go\n+++ b/f.go\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		},
		{
			name: "insertion at end",
			old:  "a\n",
			new:  "a\nb\n",
			want: "--- a/f.go\n+++ b/f.go\n@@ -1,1 +1,2 @@\n a\n+b\n",
		},
		{
			name: "missing trailing newline",
			old:  "a\nb",
			new:  "a\nb\n",
			want: "--- a/f.go\n+++ b/f.go\n@@ -1,2 +1,2 @@\n a\n-b\n\\ No newline at end of file\n+b\n",
		},
		{
			name: "from empty",
			old:  "",
			new:  "a\n",
			want: "--- a/f.go\n+++ b/f.go\n@@ -0,0 +1,1 @@\n+a\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lineDiff("f.go", tt.old, tt.new))
		})
	}
}

func TestLineDiff_SeparateHunks(t *testing.T) {
	var oldLines, newLines []string
	for i := range 20 {
		line := string(rune('a' + i))
		oldLines = append(oldLines, line)
		switch i {
		case 1, 18:
			newLines = append(newLines, strings.ToUpper(line))
		default:
			newLines = append(newLines, line)
		}
	}
	diff := lineDiff("f.go", strings.Join(oldLines, "\n")+"\n", strings.Join(newLines, "\n")+"\n")

	assert.Equal(t, 2, strings.Count(diff, "@@ -"))
	assert.Contains(t, diff, "@@ -1,5 +1,5 @@\n a\n-b\n+B\n c\n d\n e\n")
	assert.Contains(t, diff, "@@ -16,5 +16,5 @@\n p\n q\n r\n-s\n+S\n t\n")
}
