// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package compiler drives one compilation unit end to end: it declares an
// ast.Circuit's globals into a symtab.SymbolTable, freezes it, then lowers
// every boundary and integrity section into an agraph.Graph via a
// constraints.Builder. This is the only package in the module that logs or
// owns process-visible state; agraph, lower, constraints and symtab remain
// pure and silent (spec §1 "performs no I/O").
package compiler

import (
	"github.com/sirupsen/logrus"

	"github.com/airscript-lang/airscript-core/pkg/agraph"
	"github.com/airscript-lang/airscript-core/pkg/ast"
	"github.com/airscript-lang/airscript-core/pkg/constraints"
	"github.com/airscript-lang/airscript-core/pkg/errors"
	"github.com/airscript-lang/airscript-core/pkg/ir"
	"github.com/airscript-lang/airscript-core/pkg/symtab"
)

// Session owns the Symbol Table, Algebraic Graph and Constraint Builder for
// exactly one compilation unit (spec §5 "Shared-resource policy: none. All
// state is owned exclusively by the compilation driver").
type Session struct {
	log     *logrus.Logger
	symtab  *symtab.SymbolTable
	graph   *agraph.Graph
	builder *constraints.Builder
}

// New constructs a Session with its own Symbol Table, Graph and Builder. A
// nil logger falls back to logrus.StandardLogger(), matching the teacher's
// own convention of defaulting to the package logger when no logger
// override is supplied (pkg/cmd of the teacher repo does the same for its
// CLI subcommands).
func New(log *logrus.Logger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}

	st := symtab.New()
	g := agraph.New()

	return &Session{
		log:     log,
		symtab:  st,
		graph:   g,
		builder: constraints.New(st, g),
	}
}

// SymbolTable returns read-only access to the session's Symbol Table (spec
// §6 "Exposed to the backend").
func (s *Session) SymbolTable() *symtab.SymbolTable { return s.symtab }

// Graph returns read-only access to the session's Algebraic Graph.
func (s *Session) Graph() *agraph.Graph { return s.graph }

// Builder returns the session's Constraint Builder, for reading root lists
// and degree metadata per (segment, category) bin.
func (s *Session) Builder() *constraints.Builder { return s.builder }

// Compile declares circuit's globals, freezes the symbol table, then lowers
// every boundary and integrity section in source order. The first error
// encountered is logged at Error and returned immediately. Nodes and roots
// lowered before the error stay in the Session's graph and builder, so after
// an error the accessors describe an incomplete compilation.
func (s *Session) Compile(circuit ast.Circuit) error {
	s.log.Debug("compiler: declaring globals")

	if err := s.declareGlobals(circuit); err != nil {
		s.log.WithError(err).Error("compiler: declaration failed")
		return err
	}

	s.symtab.Freeze()

	s.log.Debug("compiler: lowering boundary constraints")

	for _, section := range circuit.BoundaryConstraints {
		if err := s.builder.ProcessBoundarySection(section); err != nil {
			s.log.WithError(err).Error("compiler: boundary lowering failed")
			return err
		}
	}

	s.log.Debug("compiler: lowering integrity constraints")

	for _, section := range circuit.IntegrityConstraints {
		if err := s.builder.ProcessIntegritySection(section); err != nil {
			s.log.WithError(err).Error("compiler: integrity lowering failed")
			return err
		}
	}

	s.log.WithField("nodes", s.graph.Len()).Debug("compiler: lowering complete")

	return nil
}

func (s *Session) declareGlobals(circuit ast.Circuit) error {
	for _, c := range circuit.Constants {
		if err := s.declareConstant(c); err != nil {
			return err
		}
	}

	for _, p := range circuit.PublicInputs {
		if err := s.symtab.DeclarePublicInput(p.Name, p.Length); err != nil {
			return err
		}
	}

	for _, p := range circuit.PeriodicColumns {
		if err := s.symtab.DeclarePeriodicColumn(p.Name, p.CycleLen); err != nil {
			return err
		}
	}

	for _, t := range circuit.MainTraceColumns {
		if _, err := s.symtab.DeclareTraceColumnGroup(ir.MainSegment, t.Name, t.Width); err != nil {
			return err
		}
	}

	for _, t := range circuit.AuxTraceColumns {
		if _, err := s.symtab.DeclareTraceColumnGroup(ir.AuxSegment, t.Name, t.Width); err != nil {
			return err
		}
	}

	if circuit.RandomValues != nil {
		if err := s.symtab.DeclareRandomValues(circuit.RandomValues.Name, circuit.RandomValues.Length); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) declareConstant(c ast.ConstantDecl) error {
	switch c.Shape {
	case ast.ScalarConstant:
		return s.symtab.DeclareConstantScalar(c.Name)
	case ast.VectorConstant:
		return s.symtab.DeclareConstantVector(c.Name, c.Length)
	case ast.MatrixConstant:
		return s.symtab.DeclareConstantMatrix(c.Name, c.Rows, c.Cols)
	default:
		return errors.InvalidUsagef("%s: unrecognised constant shape", c.Name)
	}
}
