// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irdot renders a function's block graph as Graphviz DOT, one
// record node per block listing its formal arguments and op, one edge per
// successor.
//
// Grounded on original_source/src/ir/lir/to_dot.rs::function_to_dot: same
// digraph/record-node/HTML-label shape (node attrs, <br align="left"/>
// line breaks, one edge per jump target), adapted from that function's
// flat op/read list to this package's reuse of irtext's value and pattern
// formatting.
package irdot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/eirlang/eirgo/compile"
	"github.com/eirlang/eirgo/ir"
	"github.com/eirlang/eirgo/irtext"
)

var dotLabelReplacer = strings.NewReplacer("{", "\\{", "}", "\\}", "\"", "\\\"")

func formatLabel(s string) string {
	return dotLabelReplacer.Replace(s)
}

// WriteModule writes one DOT digraph per function in m, separated by a
// blank line. Each function's graph is independent; feeding the whole
// output to a single `dot` invocation at once is not supported, since DOT
// has no native notion of multiple top-level digraphs in one file.
func WriteModule(buf *bytes.Buffer, m *compile.Module) {
	for i, def := range m.Functions {
		if i > 0 {
			buf.WriteString("\n")
		}
		WriteFunctionDef(buf, def)
	}
}

// WriteFunctionDef writes def's graph as DOT, labeling the graph header
// with its identity and visibility.
func WriteFunctionDef(buf *bytes.Buffer, def *compile.FunctionDef) {
	WriteFunction(buf, def.Ident, def.Visibility.String(), def.Graph)
}

// WriteFunction writes fn as a standalone DOT digraph. label is an
// arbitrary free-form annotation (e.g. a visibility tag) shown on the
// entry node; pass "" for none.
func WriteFunction(buf *bytes.Buffer, ident ir.FunctionIdent, label string, fn *ir.Function) {
	buf.WriteString("digraph g {\n")
	buf.WriteString("node [labeljust=\"l\", shape=record, fontname=\"Courier New\"]\n")
	buf.WriteString("edge [fontname=\"Courier New\"]\n\n")

	entryLabel := formatLabel(fmt.Sprintf("fun: %s", ident))
	if label != "" {
		entryLabel += formatLabel(" " + label)
	}
	fmt.Fprintf(buf, "entry [ label=<entry|%s> ];\n", entryLabel)

	if !fn.HasEntry() {
		buf.WriteString("}\n")
		return
	}
	fmt.Fprintf(buf, "entry -> blk_%d;\n\n", fn.Entry())

	for _, b := range fn.DFS() {
		writeBlock(buf, fn, b)
	}

	buf.WriteString("}\n")
}

func writeBlock(buf *bytes.Buffer, fn *ir.Function, b ir.Block) {
	args := fn.Args(b)
	argStrs := make([]string, len(args))
	for i, a := range args {
		argStrs[i] = valueLabel(fn, a)
	}

	fmt.Fprintf(buf, "blk_%d [ label=<%d(%s)|", b, b, formatLabel(strings.Join(argStrs, ", ")))

	if op := fn.Op(b); op != nil {
		body := formatLabel(opLabel(fn, b, op))
		fmt.Fprintf(buf, "%s<br align=\"left\" />", body)
	}
	buf.WriteString("> ];\n")

	for i, s := range fn.Successors(b) {
		fmt.Fprintf(buf, "blk_%d -> blk_%d [ label=%d ];\n", b, s, i)
	}
	buf.WriteString("\n")
}

func opLabel(fn *ir.Function, b ir.Block, op *ir.Op) string {
	reads := fn.Reads(b)
	readStrs := make([]string, len(reads))
	for i, r := range reads {
		readStrs[i] = valueLabel(fn, r)
	}
	return fmt.Sprintf("%s read[%s]", op.Tag, strings.Join(readStrs, ", "))
}

// valueLabel reuses irtext's value/constant formatting: a DOT label and a
// disassembly operand are the same string, just destined for different
// delimiters.
func valueLabel(fn *ir.Function, v ir.Value) string {
	return irtext.FormatValue(fn, v)
}
