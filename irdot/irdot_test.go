// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package irdot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/hir"
	"github.com/eirlang/eirgo/ir"
	"github.com/eirlang/eirgo/lower"
)

func ident(name string, arity int) ir.FunctionIdent {
	return ir.FunctionIdent{Module: "m", Name: name, Arity: arity}
}

func TestWriteFunctionProducesValidDigraphShape(t *testing.T) {
	x := hir.SSAVar(0)
	fn := &hir.Function{
		Ident:        ident("id", 1),
		Params:       []hir.SSAVar{x},
		LambdaEnvIdx: -1,
		Body:         &hir.VarRef{Var: x},
	}
	graph, err := lower.Function(fn, "m")
	if err != nil {
		t.Fatalf("lower.Function: %v", err)
	}

	var buf bytes.Buffer
	WriteFunction(&buf, fn.Ident, "public", graph)
	out := buf.String()

	if !strings.HasPrefix(out, "digraph g {") {
		t.Fatalf("output does not open a digraph:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Fatalf("output does not close the digraph:\n%s", out)
	}
	for _, want := range []string{"m:id/1", "public", "entry -> blk_", "tail_call"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteFunctionNoEntryStillClosesDigraph(t *testing.T) {
	graph := ir.NewFunction(ident("bare", 0), ast.Span{})
	var buf bytes.Buffer
	WriteFunction(&buf, ident("bare", 0), "", graph)
	out := buf.String()
	if strings.Count(out, "digraph g {") != 1 || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("malformed digraph for entry-less function:\n%s", out)
	}
}

func TestFormatLabelEscapesBraces(t *testing.T) {
	got := formatLabel("{a, b}")
	if got != "\\{a, b\\}" {
		t.Fatalf("formatLabel = %q, want escaped braces", got)
	}
}
