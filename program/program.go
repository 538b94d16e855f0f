// Package program implements "dynamic BSN programs" (spec §6): a distinct
// asset kind, separate from the BSN value grammar itself, that computes an
// entity's schematic set from an expr-lang expression rather than a static
// literal. This is never used inside BSN struct/tuple/enum values — the
// parser in package bsn has no notion of expressions at all (spec
// Non-goals: "no expression evaluation in BSN values"). No other package in
// this module loads or references a program; callers compile and run one
// directly.
package program

import (
	"context"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the variable set a dynamic program's expression is compiled and
// evaluated against. Dependencies names the paths of other assets the
// environment was built from (spec §6 "process_dependencies"); [Compile]
// copies them onto the returned [Program] and nothing else reads them.
type Env struct {
	Vars         map[string]any
	Dependencies []string
}

// programCache memoizes compiled programs by source text, avoiding
// recompilation when the same dynamic program is evaluated for many
// entities (e.g. a spawner instantiating the same enemy program
// repeatedly), following the teacher's own expr program cache.
var programCache sync.Map // map[string]*vm.Program

// Program is a compiled dynamic BSN program.
type Program struct {
	Source       string
	Dependencies []string
	compiled     *vm.Program
}

// Compile compiles source against env's variable shape, returning a
// reusable [Program]. The compiled-program cache is keyed by source text
// alone. Dependencies are copied onto the Program; they are not part of the
// cache key and are not resolved or loaded by this package.
func Compile(source string, env Env) (*Program, error) {
	if cached, ok := programCache.Load(source); ok {
		if p, ok := cached.(*vm.Program); ok {
			return &Program{Source: source, Dependencies: env.Dependencies, compiled: p}, nil
		}
	}

	compiled, err := expr.Compile(source, expr.Env(env.Vars))
	if err != nil {
		return nil, NewError(KindCompileFailed, source, err)
	}

	programCache.Store(source, compiled)

	return &Program{Source: source, Dependencies: env.Dependencies, compiled: compiled}, nil
}

// Run evaluates the program against vars, returning whatever the
// expression produces — typically a map describing the schematics to
// install, keyed by registered type path.
func (p *Program) Run(_ context.Context, vars map[string]any) (any, error) {
	result, err := expr.Run(p.compiled, vars)
	if err != nil {
		return nil, NewError(KindEvaluateFailed, p.Source, err)
	}

	return result, nil
}

// ClearCache discards every compiled program, primarily for tests that
// recompile the same source with a different environment shape.
func ClearCache() {
	programCache = sync.Map{}
}
