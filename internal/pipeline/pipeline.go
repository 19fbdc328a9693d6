// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline builds and runs the external similarity collaborators
// the orchestrator composes: a prefilter stage, an alignment stage and a
// de novo clustering stage. Each is modeled as a struct of tagged fields
// built into a command line by github.com/biogo/external, the same
// mechanism the reference toolchain uses for its own blastn/makeblastdb
// invocations.
package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// Prefilter selects, for each query, a shortlist of plausible targets
// to hand to the alignment stage. It is an external collaborator; this
// module only builds and invokes it.
type Prefilter struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}prefilter{{end}}"`

	QueryDB  string `buildarg:"{{with .}}--query{{split}}{{.}}{{end}}"`
	TargetDB string `buildarg:"{{with .}}--target{{split}}{{.}}{{end}}"`
	Out      string `buildarg:"{{with .}}--out{{split}}{{.}}{{end}}"`

	MaxResList int `buildarg:"{{if .}}--max-seqs{{split}}{{.}}{{end}}"`
	Threads    int `buildarg:"{{if .}}--threads{{split}}{{.}}{{end}}"`

	ExtraFlags string
}

// BuildCommand constructs the Prefilter's command line.
func (p Prefilter) BuildCommand() (*exec.Cmd, error) {
	return build(p, p.ExtraFlags)
}

// Alignment refines the prefilter's shortlists into ranked, scored hit
// lists, best hit first. It is an external collaborator; this module
// only builds and invokes it.
type Alignment struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}align{{end}}"`

	QueryDB    string `buildarg:"{{with .}}--query{{split}}{{.}}{{end}}"`
	TargetDB   string `buildarg:"{{with .}}--target{{split}}{{.}}{{end}}"`
	PrefilterDB string `buildarg:"{{with .}}--prefilter{{split}}{{.}}{{end}}"`
	Out        string `buildarg:"{{with .}}--out{{split}}{{.}}{{end}}"`

	MatrixPath string `buildarg:"{{with .}}--sub-mat{{split}}{{.}}{{end}}"`
	MaxSeqLen  int    `buildarg:"{{if .}}--max-seq-len{{split}}{{.}}{{end}}"`
	Threads    int    `buildarg:"{{if .}}--threads{{split}}{{.}}{{end}}"`

	ExtraFlags string
}

// BuildCommand constructs the Alignment's command line.
func (a Alignment) BuildCommand() (*exec.Cmd, error) {
	return build(a, a.ExtraFlags)
}

// ClusterEngine performs de novo set-cover clustering of a database
// against itself. It is an external collaborator; this module only
// builds and invokes it.
type ClusterEngine struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}cluster{{end}}"`

	DB         string `buildarg:"{{with .}}--db{{split}}{{.}}{{end}}"`
	AlignDB    string `buildarg:"{{with .}}--align{{split}}{{.}}{{end}}"`
	Out        string `buildarg:"{{with .}}--out{{split}}{{.}}{{end}}"`
	Mode       string `buildarg:"{{with .}}--mode{{split}}{{.}}{{end}}"` // "set-cover"
	MaxResList int    `buildarg:"{{if .}}--max-seqs{{split}}{{.}}{{end}}"`

	ExtraFlags string
}

// BuildCommand constructs the ClusterEngine's command line.
func (c ClusterEngine) BuildCommand() (*exec.Cmd, error) {
	return build(c, c.ExtraFlags)
}

func build(v interface{}, extraFlags string) (*exec.Cmd, error) {
	cl := external.Must(external.Build(v))
	if len(cl) == 0 {
		return nil, errors.New("pipeline: empty command line")
	}
	var extra []string
	if extraFlags != "" {
		extra = strings.Split(extraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// ErrSubstageFailure wraps a non-zero exit from a similarity or
// clustering sub-stage.
var ErrSubstageFailure = errors.New("pipeline: sub-stage failed")

// Run executes cmd, copying its stderr to logger if non-nil, and
// returns ErrSubstageFailure wrapping the underlying error on non-zero
// exit.
func Run(cmd *exec.Cmd, logger io.Writer) error {
	if logger != nil {
		cmd.Stderr = logger
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSubstageFailure, cmd.Path, err)
	}
	return nil
}

// ScanLines returns a bufio.Scanner over r configured with a generous
// buffer for the long tab-separated hit lines this pipeline's stages
// emit.
func ScanLines(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return sc
}
