package filter

// Operator is one entry of the closed operator vocabulary accepted in
// query strings as `param[op]=value`.
type Operator string

const (
	Eq     Operator = "eq"
	Ne     Operator = "ne"
	Lt     Operator = "lt"
	Lte    Operator = "lte"
	Gt     Operator = "gt"
	Gte    Operator = "gte"
	Like   Operator = "like"
	In     Operator = "in"
	NotIn  Operator = "not_in"
	Btw    Operator = "btw"
	NotBtw Operator = "not_btw"
)

// Arity describes the shape of the value an operator expects.
type Arity int

const (
	ArityScalar Arity = iota
	ArityList
	ArityPair
)

type operatorInfo struct {
	Symbol string
	Arity  Arity
}

// operators is the whole vocabulary. Nothing outside this table is an operator.
var operators = map[Operator]operatorInfo{
	Eq:     {Symbol: "=", Arity: ArityScalar},
	Ne:     {Symbol: "!=", Arity: ArityScalar},
	Lt:     {Symbol: "<", Arity: ArityScalar},
	Lte:    {Symbol: "<=", Arity: ArityScalar},
	Gt:     {Symbol: ">", Arity: ArityScalar},
	Gte:    {Symbol: ">=", Arity: ArityScalar},
	Like:   {Symbol: "LIKE", Arity: ArityScalar},
	In:     {Symbol: "IN", Arity: ArityList},
	NotIn:  {Symbol: "NOT IN", Arity: ArityList},
	Btw:    {Symbol: "BETWEEN", Arity: ArityPair},
	NotBtw: {Symbol: "NOT BETWEEN", Arity: ArityPair},
}

// Operators returns the vocabulary in a stable order.
func Operators() []Operator {
	return []Operator{Eq, Ne, Lt, Lte, Gt, Gte, Like, In, NotIn, Btw, NotBtw}
}

// ParseOperator resolves a query key to an Operator. Keys are case-sensitive.
func ParseOperator(key string) (Operator, bool) {
	op := Operator(key)
	if _, ok := operators[op]; !ok {
		return "", false
	}
	return op, true
}

// Valid reports whether op belongs to the vocabulary.
func (op Operator) Valid() bool {
	_, ok := operators[op]
	return ok
}

// Symbol returns the SQL predicate symbol, or "" for an unknown operator.
func (op Operator) Symbol() string {
	return operators[op].Symbol
}

func (op Operator) Arity() Arity {
	return operators[op].Arity
}

func (op Operator) String() string {
	return string(op)
}

// Clause is a single (column, operator, value) predicate. Clauses produced
// for one request are meant to be combined with AND.
type Clause struct {
	Column   string
	Operator Operator
	Value    any
	// Raw is the query value before coercion, set only when Coerce changed
	// it. Executors use it for columns that do not hold booleans.
	Raw any
}

func (c Clause) Symbol() string {
	return c.Operator.Symbol()
}
