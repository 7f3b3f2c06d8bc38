// Copyright 2026 The Eirgo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package irtext writes a human-readable disassembly of a compiled
// function or module: one line per block, one line per op, constants and
// pattern clauses spelled out inline.
//
// Grounded on go/ssa/func.go's WriteFunction (same punch-card block
// header: index, predecessor/successor counts, then one indented line per
// instruction) and on original_source/libeir_ir/src/text/mod.rs, whose
// TextFormatter/BufferTextFormatter separate "what to write" from "how
// indentation nests" the same way this package separates value/constant
// formatting from the per-block layout.
package irtext

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/eirlang/eirgo/ast"
	"github.com/eirlang/eirgo/compile"
	"github.com/eirlang/eirgo/ir"
)

// WriteModule writes every function in m, in declaration order, separated
// by a blank line.
func WriteModule(buf *bytes.Buffer, m *compile.Module) {
	fmt.Fprintf(buf, "# Module: %s\n", m.Name)
	for i, env := range m.LambdaEnvs {
		fmt.Fprintf(buf, "# LambdaEnv %d: captures=%d functions=%v\n", i, len(env.Captures), env.Functions)
	}
	for _, def := range m.Functions {
		buf.WriteString("\n")
		WriteFunctionDef(buf, def)
	}
}

// WriteFunctionDef writes one compiled function, annotated with its
// visibility and (if lifted) its lambda environment index.
func WriteFunctionDef(buf *bytes.Buffer, def *compile.FunctionDef) {
	fmt.Fprintf(buf, "# Name: %s\n", def.Ident)
	fmt.Fprintf(buf, "# Visibility: %s\n", def.Visibility)
	if def.LambdaEnvIdx >= 0 {
		fmt.Fprintf(buf, "# LambdaEnv: %d\n", def.LambdaEnvIdx)
	}
	WriteFunction(buf, def.Ident, def.Graph)
}

// WriteFunction writes fn's block graph: one header line with its
// dialect, then every reachable block in DFS order.
func WriteFunction(buf *bytes.Buffer, ident ir.FunctionIdent, fn *ir.Function) {
	fmt.Fprintf(buf, "# Dialect: %s\n", fn.Dialect())
	fmt.Fprintf(buf, "%s:\n", ident)

	if !fn.HasEntry() {
		buf.WriteString("\t(no entry block)\n")
		return
	}

	w := &writer{buf: buf, fn: fn}
	for _, b := range fn.DFS() {
		w.block(b)
	}
}

type writer struct {
	buf *bytes.Buffer
	fn  *ir.Function
}

// FormatValue renders v the same way WriteFunction does, for callers (such
// as irdot) that want matching operand text in a different layout.
func FormatValue(fn *ir.Function, v ir.Value) string {
	w := &writer{fn: fn}
	return w.value(v)
}

func (w *writer) block(b ir.Block) {
	args := w.fn.Args(b)
	argStrs := make([]string, len(args))
	for i, a := range args {
		argStrs[i] = w.value(a)
	}

	preds, succs := w.fn.Predecessors(b), w.fn.Successors(b)
	n, _ := fmt.Fprintf(w.buf, "%d(%s):", b, strings.Join(argStrs, ", "))
	bmsg := fmt.Sprintf("P:%d S:%d", len(preds), len(succs))
	const punchcard = 80
	if pad := punchcard - 1 - n - len(bmsg); pad > 0 {
		fmt.Fprintf(w.buf, "%*s", pad, "")
	}
	fmt.Fprintf(w.buf, "%s\n", bmsg)

	op := w.fn.Op(b)
	if op == nil {
		w.buf.WriteString("\t<under construction>\n")
		return
	}
	w.buf.WriteString("\t")
	w.buf.WriteString(w.opLine(b, op))
	w.buf.WriteString("\n")
}

func (w *writer) opLine(b ir.Block, op *ir.Op) string {
	reads := w.fn.Reads(b)
	readStrs := make([]string, len(reads))
	for i, r := range reads {
		readStrs[i] = w.value(r)
	}

	switch op.Tag {
	case ir.OpMakeClosure:
		return fmt.Sprintf("%s %s env=%d read[%s]", op.Tag, w.fn.FuncRefIdent(op.FuncRef), op.LambdaEnv, strings.Join(readStrs, ", "))
	case ir.OpPrimOp:
		return fmt.Sprintf("%s %s read[%s]", op.Tag, op.Primitive, strings.Join(readStrs, ", "))
	case ir.OpCase, ir.OpReceive:
		clauses := make([]string, len(op.Clauses))
		for i, c := range op.Clauses {
			clauses[i] = clauseString(w.fn.Patterns.Get(c))
		}
		return fmt.Sprintf("%s clauses[%s] read[%s]", op.Tag, strings.Join(clauses, "; "), strings.Join(readStrs, ", "))
	default:
		return fmt.Sprintf("%s read[%s]", op.Tag, strings.Join(readStrs, ", "))
	}
}

func clauseString(data ir.PatternClauseData) string {
	s := patternString(data.Pattern)
	if len(data.Bindings) > 0 {
		s += " binds[" + strings.Join(data.Bindings, ", ") + "]"
	}
	return s
}

func patternString(p ast.Pattern) string {
	switch p := p.(type) {
	case *ast.PatternVar:
		return p.Name
	case *ast.PatternWildcard:
		return "_"
	case *ast.PatternLiteral:
		return literalString(p.Value)
	case *ast.PatternTuple:
		elems := make([]string, len(p.Elems))
		for i, e := range p.Elems {
			elems[i] = patternString(e)
		}
		return "{" + strings.Join(elems, ", ") + "}"
	case *ast.PatternCons:
		return "[" + patternString(p.Head) + "|" + patternString(p.Tail) + "]"
	case *ast.PatternBind:
		return p.Name + "=" + patternString(p.Pattern)
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

func literalString(lit ast.Literal) string {
	switch lit.Kind {
	case ast.LitString:
		return strconv.Quote(lit.Text)
	case ast.LitNil:
		return "[]"
	case ast.LitTuple:
		elems := make([]string, len(lit.Elems))
		for i, e := range lit.Elems {
			elems[i] = literalString(e)
		}
		return "{" + strings.Join(elems, ", ") + "}"
	case ast.LitList:
		elems := make([]string, len(lit.Elems))
		for i, e := range lit.Elems {
			elems[i] = literalString(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	default:
		return lit.Text
	}
}

func (w *writer) value(v ir.Value) string {
	kind := w.fn.ValueKind(v)
	switch kind.Tag {
	case ir.ValueArg:
		return fmt.Sprintf("v%d", v)
	case ir.ValueBlockRef:
		return fmt.Sprintf("blk%d", kind.Block)
	case ir.ValueConstant:
		return w.constant(kind.Constant)
	case ir.ValueAlias:
		return fmt.Sprintf("v%d->%s", v, w.value(kind.Alias))
	default:
		return fmt.Sprintf("v%d", v)
	}
}

func (w *writer) constant(c ir.Const) string {
	data := w.fn.Constants.Get(c)
	switch data.Kind {
	case ir.ConstString:
		return strconv.Quote(data.Text)
	case ir.ConstNil:
		return "[]"
	case ir.ConstTuple:
		elems := make([]string, len(data.Elems))
		for i, e := range data.Elems {
			elems[i] = w.constant(e)
		}
		return "{" + strings.Join(elems, ", ") + "}"
	case ir.ConstList:
		elems := make([]string, len(data.Elems))
		for i, e := range data.Elems {
			elems[i] = w.constant(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ir.ConstFunRef:
		return fmt.Sprintf("fun %s", w.fn.FuncRefIdent(data.Ref))
	default:
		return data.Text
	}
}
