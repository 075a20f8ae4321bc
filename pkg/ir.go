package cinder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup maps the parameters of the function being lowered to their
// values. Globals and functions are resolved through the builder.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// GlobalEntry is the code generator's record of a global variable.
type GlobalEntry struct {
	Name string
	// Value is the last initialiser, a *constant.Int or *constant.Float.
	Value   constant.Constant
	Storage *ir.Global
	// Loaded is set once a function body reads the global.
	Loaded bool
}

// SymbolTable holds one entry per global name. Setting an existing name
// replaces its entry.
type SymbolTable struct {
	entries map[string]*GlobalEntry
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]*GlobalEntry),
	}
}

func (t *SymbolTable) Set(entry *GlobalEntry) {
	if _, exists := t.entries[entry.Name]; !exists {
		t.order = append(t.order, entry.Name)
	}

	t.entries[entry.Name] = entry
}

func (t *SymbolTable) Get(name string) (*GlobalEntry, bool) {
	entry, ok := t.entries[name]
	return entry, ok
}

// Names returns the global names in order of first declaration.
func (t *SymbolTable) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Program is the result of lowering one compilation unit.
type Program struct {
	Module  *ir.Module
	Entry   *ir.Func // nil when the unit has no main
	Globals *SymbolTable
}

func (p *Program) String() string {
	return p.Module.String()
}

// Func returns the function with the given name.
func (p *Program) Func(name string) (*ir.Func, bool) {
	for _, f := range p.Module.Funcs {
		if f.Name() == name {
			return f, true
		}
	}

	return nil, false
}

type LLVMIRBuilder struct {
	tree    *Tree
	mod     *ir.Module
	block   *ir.Block
	fn      *ir.Func
	entry   *ir.Func
	values  *ValueLookup
	funcs   map[string]*ir.Func
	globals *SymbolTable
}

func NewLLVMIRBuilder(tree *Tree) *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		tree:    tree,
		mod:     ir.NewModule(),
		values:  NewValueLookup(),
		funcs:   make(map[string]*ir.Func),
		globals: NewSymbolTable(),
	}

	defineBuiltins(builder)
	return builder
}

func (b *LLVMIRBuilder) errorf(id NodeID, format string, args ...interface{}) error {
	return &LowerError{
		Node: id,
		Desc: b.tree.Describe(id),
		Msg:  fmt.Sprintf(format, args...),
	}
}

func irType(tok Token) (types.Type, bool) {
	switch tok.Typ {
	case TokenVoid:
		return types.Void, true
	case TokenInt:
		return types.I32, true
	case TokenFloat:
		return types.Float, true
	default:
		return nil, false
	}
}

func (b *LLVMIRBuilder) global(id NodeID, decl Declaration) error {
	typ, ok := irType(decl.Type)
	if !ok {
		return b.errorf(id, "unsupported type '%s'", decl.Type.Value)
	}

	if typ == types.Void {
		return b.errorf(id, "variable '%s' declared void", decl.Name.Value)
	}

	if _, isFunc := b.funcs[decl.Name.Value]; isFunc {
		return b.errorf(id, "'%s' redeclared as a variable", decl.Name.Value)
	}

	val := number{}
	if decl.Init != NoNode {
		var err error
		if val, err = b.fold(decl.Init); err != nil {
			return err
		}
	}

	c := val.constant(typ)

	if prev, ok := b.globals.Get(decl.Name.Value); ok {
		g := prev.Storage
		if prev.Loaded && !types.Equal(g.ContentType, c.Type()) {
			return b.errorf(id, "'%s' redeclared with a different type after use", decl.Name.Value)
		}

		g.Init = c
		g.ContentType = c.Type()
		g.Typ = types.NewPointer(g.ContentType)

		b.globals.Set(&GlobalEntry{Name: decl.Name.Value, Value: c, Storage: g, Loaded: prev.Loaded})
		return nil
	}

	g := b.mod.NewGlobalDef(decl.Name.Value, c)
	b.globals.Set(&GlobalEntry{Name: decl.Name.Value, Value: c, Storage: g})
	return nil
}

// number is the result of folding a constant expression.
type number struct {
	isFloat bool
	i       int64
	f       float64
}

func intNumber(v int64) number {
	return number{i: v}
}

func boolNumber(v bool) number {
	if v {
		return intNumber(1)
	}

	return intNumber(0)
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}

	return float64(n.i)
}

func (n number) truthy() bool {
	if n.isFloat {
		return n.f != 0
	}

	return n.i != 0
}

// constant converts n to a constant of typ, truncating floats stored into
// integers.
func (n number) constant(typ types.Type) constant.Constant {
	if typ == types.Float {
		return constant.NewFloat(types.Float, float64(float32(n.float())))
	}

	v := n.i
	if n.isFloat {
		v = int64(n.f)
	}

	return constant.NewInt(types.I32, int64(int32(v)))
}

func numberOf(c constant.Constant) number {
	switch c := c.(type) {
	case *constant.Float:
		f, _ := c.X.Float64()
		return number{isFloat: true, f: f}
	case *constant.Int:
		return intNumber(c.X.Int64())
	}

	return number{}
}

// fold evaluates a global initialiser at compile time.
func (b *LLVMIRBuilder) fold(id NodeID) (number, error) {
	n, _ := b.tree.Node(id)

	switch leaf := n.Leaf.(type) {
	case TokenLeaf:
		tok := leaf.Token
		switch {
		case tok.Typ == TokenIntConstant:
			v, err := strconv.ParseInt(tok.Value, 10, 64)
			if err != nil {
				return number{}, b.errorf(id, "bad integer constant")
			}

			return intNumber(v), nil
		case tok.Typ == TokenFloatConstant:
			v, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return number{}, b.errorf(id, "bad float constant")
			}

			return number{isFloat: true, f: v}, nil
		case tok.Typ == TokenIdentifier:
			entry, ok := b.globals.Get(tok.Value)
			if !ok {
				return number{}, b.errorf(id, "undefined identifier")
			}

			return numberOf(entry.Value), nil
		case tok.IsBinaryOperator():
			lhs, err := b.fold(n.Left)
			if err != nil {
				return number{}, err
			}

			rhs, err := b.fold(n.Right)
			if err != nil {
				return number{}, err
			}

			return b.foldBinary(id, tok.Typ, lhs, rhs)
		}
	case NodeLeaf:
		return b.fold(leaf.Inner)
	case UnaryExpression:
		v, err := b.fold(n.Left)
		if err != nil {
			return number{}, err
		}

		switch leaf.Op.Typ {
		case TokenNegate:
			if v.isFloat {
				return number{isFloat: true, f: -v.f}, nil
			}

			return intNumber(-v.i), nil
		case TokenNot:
			return boolNumber(!v.truthy()), nil
		}
	case FunctionCall, ArrayAccess:
		return number{}, b.errorf(id, "initializer is not a constant expression")
	}

	return number{}, b.errorf(id, "unsupported node in constant expression")
}

func (b *LLVMIRBuilder) foldBinary(id NodeID, op TokenType, lhs, rhs number) (number, error) {
	switch op {
	case TokenAnd:
		return boolNumber(lhs.truthy() && rhs.truthy()), nil
	case TokenOr:
		return boolNumber(lhs.truthy() || rhs.truthy()), nil
	}

	if lhs.isFloat || rhs.isFloat {
		x, y := lhs.float(), rhs.float()
		switch op {
		case TokenPlus:
			return number{isFloat: true, f: x + y}, nil
		case TokenMinus:
			return number{isFloat: true, f: x - y}, nil
		case TokenMulti:
			return number{isFloat: true, f: x * y}, nil
		case TokenDiv:
			return number{isFloat: true, f: x / y}, nil
		case TokenEqual:
			return boolNumber(x == y), nil
		case TokenNotEqual:
			return boolNumber(x != y), nil
		case TokenLess:
			return boolNumber(x < y), nil
		case TokenLessEqual:
			return boolNumber(x <= y), nil
		case TokenGreater:
			return boolNumber(x > y), nil
		case TokenGreaterEqual:
			return boolNumber(x >= y), nil
		}

		return number{}, b.errorf(id, "unsupported operator")
	}

	x, y := lhs.i, rhs.i
	switch op {
	case TokenPlus:
		return intNumber(x + y), nil
	case TokenMinus:
		return intNumber(x - y), nil
	case TokenMulti:
		return intNumber(x * y), nil
	case TokenDiv:
		if y == 0 {
			return number{}, b.errorf(id, "division by zero in constant expression")
		}

		if x == math.MinInt64 && y == -1 {
			return intNumber(x), nil
		}

		return intNumber(x / y), nil
	case TokenEqual:
		return boolNumber(x == y), nil
	case TokenNotEqual:
		return boolNumber(x != y), nil
	case TokenLess:
		return boolNumber(x < y), nil
	case TokenLessEqual:
		return boolNumber(x <= y), nil
	case TokenGreater:
		return boolNumber(x > y), nil
	case TokenGreaterEqual:
		return boolNumber(x >= y), nil
	}

	return number{}, b.errorf(id, "unsupported operator")
}

func (b *LLVMIRBuilder) function(id NodeID, def FunctionDefinition) error {
	name := def.Name.Value

	retType, ok := irType(def.ReturnType)
	if !ok {
		return b.errorf(id, "unsupported return type '%s'", def.ReturnType.Value)
	}

	if _, exists := b.funcs[name]; exists {
		return b.errorf(id, "redefinition of function '%s'", name)
	}

	if _, exists := b.globals.Get(name); exists {
		return b.errorf(id, "'%s' redeclared as a function", name)
	}

	var params []*ir.Param
	for _, p := range def.Params {
		typ, ok := irType(p.Type)
		if !ok || typ == types.Void {
			return b.errorf(id, "unsupported parameter type '%s'", p.Type.Value)
		}

		params = append(params, ir.NewParam(p.Name.Value, typ))
	}

	f := b.mod.NewFunc(name, retType, params...)
	b.funcs[name] = f

	prevBlock, prevFn := b.block, b.fn
	if name == "main" {
		b.block = f.NewBlock("entry")
		b.entry = f
	} else {
		b.block = f.NewBlock("")
	}
	b.fn = f

	prevVals := b.values
	b.values = NewValueLookup()
	for _, p := range params {
		b.values.Set(p.Name(), p)
	}

	defer func() {
		b.block, b.fn = prevBlock, prevFn
		b.values = prevVals
	}()

	terminated := false
	for _, stmt := range def.Body {
		if terminated {
			return b.errorf(stmt, "unreachable statement after return")
		}

		switch s := b.tree.Leaf(stmt).(type) {
		case ReturnStatement:
			if err := b.returnStmt(stmt, s); err != nil {
				return err
			}

			terminated = true
		default:
			return b.errorf(stmt, "unsupported statement")
		}
	}

	if !terminated {
		b.defaultReturn()
	}

	return nil
}

func (b *LLVMIRBuilder) defaultReturn() {
	switch retType := b.fn.Sig.RetType; retType {
	case types.Void:
		b.block.NewRet(nil)
	case types.Float:
		b.block.NewRet(constant.NewFloat(types.Float, 0))
	default:
		b.block.NewRet(constant.NewInt(types.I32, 0))
	}
}

func (b *LLVMIRBuilder) returnStmt(id NodeID, stmt ReturnStatement) error {
	retType := b.fn.Sig.RetType

	if retType == types.Void {
		if stmt.Value != NoNode {
			return b.errorf(id, "void function '%s' returns a value", b.fn.Name())
		}

		b.block.NewRet(nil)
		return nil
	}

	if stmt.Value == NoNode {
		return b.errorf(id, "missing return value in function '%s'", b.fn.Name())
	}

	v, err := b.expr(stmt.Value)
	if err != nil {
		return err
	}

	if v, err = b.coerce(stmt.Value, v, retType); err != nil {
		return err
	}

	b.block.NewRet(v)
	return nil
}

// expr lowers an expression into instructions of the current block.
func (b *LLVMIRBuilder) expr(id NodeID) (value.Value, error) {
	n, _ := b.tree.Node(id)

	switch leaf := n.Leaf.(type) {
	case TokenLeaf:
		tok := leaf.Token
		switch {
		case tok.IsConstant():
			num, err := b.fold(id)
			if err != nil {
				return nil, err
			}

			if num.isFloat {
				return num.constant(types.Float), nil
			}

			return num.constant(types.I32), nil
		case tok.Typ == TokenIdentifier:
			return b.identifier(id, tok.Value)
		case tok.IsBinaryOperator():
			return b.binaryExpression(id, tok.Typ, n.Left, n.Right)
		}
	case NodeLeaf:
		return b.expr(leaf.Inner)
	case UnaryExpression:
		return b.unaryExpression(id, leaf.Op.Typ, n.Left)
	case FunctionCall:
		return b.functionCall(id, leaf)
	case ArrayAccess:
		return nil, b.errorf(id, "array access is not supported")
	}

	return nil, b.errorf(id, "unsupported expression")
}

func (b *LLVMIRBuilder) identifier(id NodeID, name string) (value.Value, error) {
	if v, ok := b.values.Get(name); ok {
		return v, nil
	}

	if entry, ok := b.globals.Get(name); ok {
		entry.Loaded = true
		return b.block.NewLoad(entry.Storage.ContentType, entry.Storage), nil
	}

	if _, ok := b.funcs[name]; ok {
		return nil, b.errorf(id, "function '%s' used as a value", name)
	}

	return nil, b.errorf(id, "undefined identifier")
}

// operand lowers id and widens booleans to int so the result can be used in
// arithmetic.
func (b *LLVMIRBuilder) operand(id NodeID) (value.Value, error) {
	v, err := b.expr(id)
	if err != nil {
		return nil, err
	}

	switch {
	case isBool(v):
		return b.block.NewZExt(v, types.I32), nil
	case isInt(v), isFloat(v):
		return v, nil
	}

	return nil, b.errorf(id, "value of type %s used in expression", v.Type())
}

// operands lowers both sides of a binary operator, converting the integer
// side to float when the other one is a float.
func (b *LLVMIRBuilder) operands(lhs, rhs NodeID) (value.Value, value.Value, error) {
	v1, err := b.operand(lhs)
	if err != nil {
		return nil, nil, err
	}

	v2, err := b.operand(rhs)
	if err != nil {
		return nil, nil, err
	}

	if isFloat(v1) && !isFloat(v2) {
		v2 = b.block.NewSIToFP(v2, types.Float)
	}

	if isFloat(v2) && !isFloat(v1) {
		v1 = b.block.NewSIToFP(v1, types.Float)
	}

	return v1, v2, nil
}

var intPredicates = map[TokenType]enum.IPred{
	TokenEqual:        enum.IPredEQ,
	TokenNotEqual:     enum.IPredNE,
	TokenLess:         enum.IPredSLT,
	TokenLessEqual:    enum.IPredSLE,
	TokenGreater:      enum.IPredSGT,
	TokenGreaterEqual: enum.IPredSGE,
}

var floatPredicates = map[TokenType]enum.FPred{
	TokenEqual:        enum.FPredOEQ,
	TokenNotEqual:     enum.FPredUNE,
	TokenLess:         enum.FPredOLT,
	TokenLessEqual:    enum.FPredOLE,
	TokenGreater:      enum.FPredOGT,
	TokenGreaterEqual: enum.FPredOGE,
}

func (b *LLVMIRBuilder) binaryExpression(id NodeID, op TokenType, lhs, rhs NodeID) (value.Value, error) {
	if op == TokenAnd || op == TokenOr {
		// Both sides are evaluated, there is no branching codegen
		v1, err := b.condition(lhs)
		if err != nil {
			return nil, err
		}

		v2, err := b.condition(rhs)
		if err != nil {
			return nil, err
		}

		if op == TokenAnd {
			return b.block.NewAnd(v1, v2), nil
		}

		return b.block.NewOr(v1, v2), nil
	}

	v1, v2, err := b.operands(lhs, rhs)
	if err != nil {
		return nil, err
	}

	if isFloat(v1) {
		switch op {
		case TokenPlus:
			return b.block.NewFAdd(v1, v2), nil
		case TokenMinus:
			return b.block.NewFSub(v1, v2), nil
		case TokenMulti:
			return b.block.NewFMul(v1, v2), nil
		case TokenDiv:
			return b.block.NewFDiv(v1, v2), nil
		}

		if pred, ok := floatPredicates[op]; ok {
			return b.block.NewFCmp(pred, v1, v2), nil
		}

		return nil, b.errorf(id, "unexpected binary operator")
	}

	switch op {
	case TokenPlus:
		return b.block.NewAdd(v1, v2), nil
	case TokenMinus:
		return b.block.NewSub(v1, v2), nil
	case TokenMulti:
		return b.block.NewMul(v1, v2), nil
	case TokenDiv:
		return b.block.NewSDiv(v1, v2), nil
	}

	if pred, ok := intPredicates[op]; ok {
		return b.block.NewICmp(pred, v1, v2), nil
	}

	return nil, b.errorf(id, "unexpected binary operator")
}

// condition lowers id to an i1 truth value.
func (b *LLVMIRBuilder) condition(id NodeID) (value.Value, error) {
	v, err := b.expr(id)
	if err != nil {
		return nil, err
	}

	switch {
	case isBool(v):
		return v, nil
	case isInt(v):
		return b.block.NewICmp(enum.IPredNE, v, constant.NewInt(types.I32, 0)), nil
	case isFloat(v):
		return b.block.NewFCmp(enum.FPredUNE, v, constant.NewFloat(types.Float, 0)), nil
	}

	return nil, b.errorf(id, "value of type %s used as a condition", v.Type())
}

func (b *LLVMIRBuilder) unaryExpression(id NodeID, op TokenType, operand NodeID) (value.Value, error) {
	switch op {
	case TokenNegate:
		v, err := b.operand(operand)
		if err != nil {
			return nil, err
		}

		if isFloat(v) {
			return b.block.NewFNeg(v), nil
		}

		minusOne := constant.NewInt(types.I32, -1)
		return b.block.NewMul(v, minusOne), nil
	case TokenNot:
		v, err := b.condition(operand)
		if err != nil {
			return nil, err
		}

		return b.block.NewXor(v, constant.True), nil
	}

	return nil, b.errorf(id, "unexpected unary operator")
}

func (b *LLVMIRBuilder) functionCall(id NodeID, call FunctionCall) (value.Value, error) {
	callee, ok := b.funcs[call.Name.Value]
	if !ok {
		return nil, b.errorf(id, "undefined function '%s'", call.Name.Value)
	}

	if len(call.Args) != len(callee.Params) {
		return nil, b.errorf(id, "function '%s' takes %d arguments, got %d", call.Name.Value, len(callee.Params), len(call.Args))
	}

	var callVals []value.Value
	for i, arg := range call.Args {
		v, err := b.expr(arg)
		if err != nil {
			return nil, err
		}

		if v, err = b.coerce(arg, v, callee.Params[i].Typ); err != nil {
			return nil, err
		}

		callVals = append(callVals, v)
	}

	return b.block.NewCall(callee, callVals...), nil
}

// coerce converts v to typ following C's arithmetic conversions.
func (b *LLVMIRBuilder) coerce(id NodeID, v value.Value, typ types.Type) (value.Value, error) {
	switch {
	case types.Equal(v.Type(), typ):
		return v, nil
	case typ == types.I32 && isBool(v):
		return b.block.NewZExt(v, types.I32), nil
	case typ == types.I32 && isFloat(v):
		return b.block.NewFPToSI(v, types.I32), nil
	case typ == types.Float && isBool(v):
		return b.block.NewUIToFP(v, types.Float), nil
	case typ == types.Float && isInt(v):
		return b.block.NewSIToFP(v, types.Float), nil
	}

	return nil, b.errorf(id, "cannot convert %s to %s", v.Type(), typ)
}

func isBool(v value.Value) bool {
	t, ok := v.Type().(*types.IntType)
	return ok && t.BitSize == 1
}

func isInt(v value.Value) bool {
	t, ok := v.Type().(*types.IntType)
	return ok && t.BitSize == 32
}

func isFloat(v value.Value) bool {
	_, ok := v.Type().(*types.FloatType)
	return ok
}

type LLVMGenerator struct {
	tree *Tree
}

func NewLLVMGenerator(tree *Tree) *LLVMGenerator {
	return &LLVMGenerator{
		tree: tree,
	}
}

// Lower translates an AST forest into an LLVM module.
func Lower(tree *Tree) (*Program, error) {
	return NewLLVMGenerator(tree).Do()
}

func (g LLVMGenerator) Do() (*Program, error) {
	builder := NewLLVMIRBuilder(g.tree)
	for _, root := range g.tree.Roots {
		if err := g.visit(builder, root); err != nil {
			return nil, err
		}
	}

	return &Program{
		Module:  builder.mod,
		Entry:   builder.entry,
		Globals: builder.globals,
	}, nil
}

func (g LLVMGenerator) visit(b *LLVMIRBuilder, id NodeID) error {
	switch leaf := g.tree.Leaf(id).(type) {
	case Declaration:
		return b.global(id, leaf)
	case FunctionDefinition:
		return b.function(id, leaf)
	default:
		return b.errorf(id, "unsupported top-level construct")
	}
}
