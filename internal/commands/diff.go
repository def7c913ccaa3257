// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

const diffContext = 3

type diffLine struct {
	op   diffpatch.Operation
	text string
}

// lineDiff renders the change from oldText to newText as a unified diff of whole
// lines. It returns "" when the texts are equal.
func lineDiff(name, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	diffCfg := diffpatch.New()
	a, b, lines := diffCfg.DiffLinesToChars(oldText, newText)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l != "" {
				all = append(all, diffLine{op: d.Type, text: l})
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range hunks(all) {
		writeHunk(&sb, all, h[0], h[1])
	}
	return sb.String()
}

// hunks groups changed lines into [start, end) windows with context lines
// around them. Windows closer than twice the context are merged.
func hunks(all []diffLine) [][2]int {
	var out [][2]int
	for i, l := range all {
		if l.op == diffpatch.DiffEqual {
			continue
		}
		start, end := max(0, i-diffContext), min(len(all), i+diffContext+1)
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = end
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func writeHunk(sb *strings.Builder, all []diffLine, start, end int) {
	oldLine, newLine := 1, 1
	for _, l := range all[:start] {
		if l.op != diffpatch.DiffInsert {
			oldLine++
		}
		if l.op != diffpatch.DiffDelete {
			newLine++
		}
	}
	var oldCount, newCount int
	for _, l := range all[start:end] {
		if l.op != diffpatch.DiffInsert {
			oldCount++
		}
		if l.op != diffpatch.DiffDelete {
			newCount++
		}
	}
	// An empty side starts at the line before the hunk.
	if oldCount == 0 {
		oldLine--
	}
	if newCount == 0 {
		newLine--
	}

	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldLine, oldCount, newLine, newCount)
	for _, l := range all[start:end] {
		switch l.op {
		case diffpatch.DiffDelete:
			sb.WriteByte('-')
		case diffpatch.DiffInsert:
			sb.WriteByte('+')
		default:
			sb.WriteByte(' ')
		}
		sb.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			sb.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
