// Package solver implements a Cassowary-style linear constraint solver.
//
// The solver accepts linear constraints (==, <=, >=) over float variables
// at four strengths. Required constraints must hold; weaker constraints
// are satisfied as well as possible, stronger strata first. The usual
// Cassowary formulation applies: each non-required constraint contributes
// error variables weighted by its strength to the simplex objective.
//
// The implementation is a batch variant of the Cassowary algorithm:
// constraints are added one by one, each addition keeps the tableau in an
// optimal feasible state, and Solve writes the variable values back.
// Pivot selection follows Bland's rule on symbol ids, so identical
// constraint systems produce identical solutions.
//
// # Usage
//
//	s := solver.New()
//	x := solver.NewVariable("x")
//	y := solver.NewVariable("y")
//	s.AddConstraint(solver.NewConstraint(
//	    solver.Expr(0, solver.T(y, 1), solver.T(x, -1)), solver.GE, solver.Required))
//	s.Suggest(x, 10, solver.Weak)
//	s.Solve()
package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnsatisfiable is returned when a required constraint cannot be
// satisfied together with the constraints already added.
var ErrUnsatisfiable = errors.New("unsatisfiable constraint")

// Strength orders constraints: Required must hold, the rest are weighted.
type Strength float64

const (
	Required Strength = 1e9
	Strong   Strength = 1e6
	Medium   Strength = 1e3
	Weak     Strength = 1
)

// Op is a constraint relation.
type Op int

const (
	EQ Op = iota
	LE
	GE
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "=="
	case LE:
		return "<="
	default:
		return ">="
	}
}

// Variable is a value determined by the solver.
type Variable struct {
	name  string
	value float64
}

// NewVariable creates a named variable. Names are only used in
// diagnostics.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Value returns the value computed by the last Solve.
func (v *Variable) Value() float64 { return v.value }

// Term is a coefficient applied to a variable.
type Term struct {
	Var   *Variable
	Coeff float64
}

// T builds a term.
func T(v *Variable, coeff float64) Term {
	return Term{Var: v, Coeff: coeff}
}

// Expression is a linear combination of variables plus a constant.
type Expression struct {
	Constant float64
	Terms    []Term
}

// Expr builds an expression.
func Expr(constant float64, terms ...Term) Expression {
	return Expression{Constant: constant, Terms: terms}
}

// Constraint relates an expression to zero: expr op 0.
type Constraint struct {
	expr     Expression
	op       Op
	strength Strength
}

// NewConstraint builds a constraint expr op 0 at the given strength.
func NewConstraint(e Expression, op Op, strength Strength) *Constraint {
	return &Constraint{expr: e, op: op, strength: strength}
}

// String renders the constraint for diagnostics.
func (c *Constraint) String() string {
	out := ""
	for i, t := range c.expr.Terms {
		if i > 0 {
			out += " + "
		}
		out += fmt.Sprintf("%g*%s", t.Coeff, t.Var.name)
	}
	return fmt.Sprintf("%s + %g %s 0", out, c.expr.Constant, c.op)
}

type symbolKind int

const (
	symInvalid symbolKind = iota
	symExternal
	symSlack
	symError
	symDummy
)

type symbol struct {
	id   int
	kind symbolKind
}

type row struct {
	constant float64
	cells    map[symbol]float64
}

func newRow(constant float64) *row {
	return &row{constant: constant, cells: make(map[symbol]float64)}
}

func (r *row) copy() *row {
	c := newRow(r.constant)
	for sym, coeff := range r.cells {
		c.cells[sym] = coeff
	}
	return c
}

func (r *row) insertSymbol(sym symbol, coeff float64) {
	coeff += r.cells[sym]
	if nearZero(coeff) {
		delete(r.cells, sym)
	} else {
		r.cells[sym] = coeff
	}
}

func (r *row) insertRow(other *row, coeff float64) {
	r.constant += other.constant * coeff
	for sym, c := range other.cells {
		r.insertSymbol(sym, c*coeff)
	}
}

func (r *row) remove(sym symbol) {
	delete(r.cells, sym)
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for sym := range r.cells {
		r.cells[sym] = -r.cells[sym]
	}
}

// solveFor rearranges the row so that sym becomes its subject.
func (r *row) solveFor(sym symbol) {
	coeff := -1.0 / r.cells[sym]
	delete(r.cells, sym)
	r.constant *= coeff
	for s := range r.cells {
		r.cells[s] *= coeff
	}
}

func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

func (r *row) coefficientFor(sym symbol) float64 {
	return r.cells[sym]
}

func (r *row) substitute(sym symbol, other *row) {
	if coeff, ok := r.cells[sym]; ok {
		delete(r.cells, sym)
		r.insertRow(other, coeff)
	}
}

// sortedSymbols returns the row's symbols ordered by id for deterministic
// iteration.
func (r *row) sortedSymbols() []symbol {
	syms := make([]symbol, 0, len(r.cells))
	for sym := range r.cells {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(a, b int) bool { return syms[a].id < syms[b].id })
	return syms
}

func nearZero(v float64) bool {
	return math.Abs(v) < 1e-8
}

type tag struct {
	marker symbol
	other  symbol
}

// Solver holds the simplex tableau.
type Solver struct {
	rows       map[symbol]*row
	vars       map[*Variable]symbol
	varOrder   []*Variable
	objective  *row
	artificial *row
	nextID     int
}

// New creates an empty solver.
func New() *Solver {
	return &Solver{
		rows:      make(map[symbol]*row),
		vars:      make(map[*Variable]symbol),
		objective: newRow(0),
		nextID:    1,
	}
}

func (s *Solver) newSymbol(kind symbolKind) symbol {
	sym := symbol{id: s.nextID, kind: kind}
	s.nextID++
	return sym
}

func (s *Solver) symbolFor(v *Variable) symbol {
	if sym, ok := s.vars[v]; ok {
		return sym
	}
	sym := s.newSymbol(symExternal)
	s.vars[v] = sym
	s.varOrder = append(s.varOrder, v)
	return sym
}

// AddConstraint adds a constraint to the system. It returns
// ErrUnsatisfiable (wrapped with the constraint text) when a required
// constraint conflicts with the tableau.
func (s *Solver) AddConstraint(c *Constraint) error {
	r, t := s.createRow(c)
	subject := s.chooseSubject(r, t)

	if subject.kind == symInvalid && allDummies(r) {
		if !nearZero(r.constant) {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
		subject = t.marker
	}

	if subject.kind == symInvalid {
		ok, err := s.addWithArtificialVariable(r)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
	} else {
		r.solveFor(subject)
		s.substituteAll(subject, r)
		s.rows[subject] = r
	}

	return s.optimize(s.objective)
}

// Suggest nudges a variable towards a value by adding an equality
// constraint at the given (non-required) strength.
func (s *Solver) Suggest(v *Variable, value float64, strength Strength) error {
	if strength >= Required {
		strength = Strong
	}
	return s.AddConstraint(NewConstraint(Expr(-value, T(v, 1)), EQ, strength))
}

// Solve writes the current solution into the variables.
func (s *Solver) Solve() {
	for _, v := range s.varOrder {
		sym := s.vars[v]
		if r, ok := s.rows[sym]; ok {
			v.value = r.constant
		} else {
			v.value = 0
		}
	}
}

// createRow converts a constraint into a tableau row, adding slack and
// error symbols as the strength demands.
func (s *Solver) createRow(c *Constraint) (*row, tag) {
	r := newRow(c.expr.Constant)
	for _, term := range c.expr.Terms {
		if nearZero(term.Coeff) {
			continue
		}
		sym := s.symbolFor(term.Var)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, term.Coeff)
		} else {
			r.insertSymbol(sym, term.Coeff)
		}
	}

	var t tag
	switch c.op {
	case LE, GE:
		coeff := 1.0
		if c.op == GE {
			coeff = -1.0
		}
		slack := s.newSymbol(symSlack)
		t.marker = slack
		r.insertSymbol(slack, coeff)
		if c.strength < Required {
			errSym := s.newSymbol(symError)
			t.other = errSym
			r.insertSymbol(errSym, -coeff)
			s.objective.insertSymbol(errSym, float64(c.strength))
		}
	case EQ:
		if c.strength < Required {
			errPlus := s.newSymbol(symError)
			errMinus := s.newSymbol(symError)
			t.marker = errPlus
			t.other = errMinus
			r.insertSymbol(errPlus, -1)
			r.insertSymbol(errMinus, 1)
			s.objective.insertSymbol(errPlus, float64(c.strength))
			s.objective.insertSymbol(errMinus, float64(c.strength))
		} else {
			dummy := s.newSymbol(symDummy)
			t.marker = dummy
			r.insertSymbol(dummy, 1)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}
	return r, t
}

// chooseSubject picks the symbol the new row will be solved for: an
// external variable when one exists, otherwise a negative slack or error
// symbol from the constraint itself.
func (s *Solver) chooseSubject(r *row, t tag) symbol {
	for _, sym := range r.sortedSymbols() {
		if sym.kind == symExternal {
			return sym
		}
	}
	if t.marker.kind == symSlack || t.marker.kind == symError {
		if r.coefficientFor(t.marker) < 0 {
			return t.marker
		}
	}
	if t.other.kind == symSlack || t.other.kind == symError {
		if r.coefficientFor(t.other) < 0 {
			return t.other
		}
	}
	return symbol{}
}

func allDummies(r *row) bool {
	for sym := range r.cells {
		if sym.kind != symDummy {
			return false
		}
	}
	return true
}

// addWithArtificialVariable introduces a temporary artificial variable to
// find a feasible basis for the row.
func (s *Solver) addWithArtificialVariable(r *row) (bool, error) {
	art := s.newSymbol(symSlack)
	s.rows[art] = r.copy()
	s.artificial = r.copy()

	if err := s.optimize(s.artificial); err != nil {
		return false, err
	}
	success := nearZero(s.artificial.constant)
	s.artificial = nil

	if artRow, ok := s.rows[art]; ok {
		delete(s.rows, art)
		if len(artRow.cells) == 0 {
			return success, nil
		}
		entering := anyPivotableSymbol(artRow)
		if entering.kind == symInvalid {
			return false, nil
		}
		artRow.solveForPair(art, entering)
		s.substituteAll(entering, artRow)
		s.rows[entering] = artRow
	}

	for _, rr := range s.rows {
		rr.remove(art)
	}
	s.objective.remove(art)
	return success, nil
}

func anyPivotableSymbol(r *row) symbol {
	for _, sym := range r.sortedSymbols() {
		if sym.kind == symSlack || sym.kind == symError {
			return sym
		}
	}
	return symbol{}
}

func (s *Solver) substituteAll(sym symbol, r *row) {
	for _, other := range s.rows {
		other.substitute(sym, r)
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// optimize runs the simplex until the objective is minimal.
func (s *Solver) optimize(objective *row) error {
	for {
		entering := enteringSymbol(objective)
		if entering.kind == symInvalid {
			return nil
		}
		leaving, ok := s.leavingSymbol(entering)
		if !ok {
			return fmt.Errorf("%w: objective is unbounded", ErrUnsatisfiable)
		}
		r := s.rows[leaving]
		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substituteAll(entering, r)
		s.rows[entering] = r
	}
}

// enteringSymbol picks the lowest-id non-dummy symbol with a negative
// objective coefficient.
func enteringSymbol(objective *row) symbol {
	for _, sym := range objective.sortedSymbols() {
		if sym.kind != symDummy && objective.cells[sym] < 0 {
			return sym
		}
	}
	return symbol{}
}

// leavingSymbol finds the basic row limiting the entering symbol, using
// the minimum-ratio test with id tie-breaking.
func (s *Solver) leavingSymbol(entering symbol) (symbol, bool) {
	minRatio := math.Inf(1)
	var leaving symbol
	found := false

	basics := make([]symbol, 0, len(s.rows))
	for sym := range s.rows {
		basics = append(basics, sym)
	}
	sort.Slice(basics, func(a, b int) bool { return basics[a].id < basics[b].id })

	for _, sym := range basics {
		if sym.kind == symExternal {
			continue
		}
		r := s.rows[sym]
		coeff := r.coefficientFor(entering)
		if coeff >= 0 || nearZero(coeff) {
			continue
		}
		ratio := -r.constant / coeff
		if ratio < minRatio {
			minRatio = ratio
			leaving = sym
			found = true
		}
	}
	return leaving, found
}
