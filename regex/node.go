package regex

// regexNode represents a node in the parsed regex tree.
type regexNode struct {
	opcode opcode // regex operator
	c      rune   // literals are the most common node, so add an extra field for them
	params any    // extra parameters; may be nil
}

// Extra types, when more than one field exists in the extra parameters:

// group represents a capture group of the pattern.
// Groups are numbered in the order of their opening parenthesis; the final
// number is assigned after parsing, when it is known which groups capture.
type group struct {
	name   string
	num    int  // final capture number; 0 for groups that do not capture
	closed bool // the closing parenthesis was parsed
}

// captureParams represents the parameters for the "CAPTURE" operator.
type captureParams struct {
	g    *group
	body *regexNode
}

// backrefParams represents the parameters for the "BACKREF" operator.
// A reference by name may refer to several groups with the same name.
type backrefParams struct {
	nums   []int // provisional group numbers
	byName bool
	groups []*group
}

// optionParams represents the parameters for the "OPTION" operator.
type optionParams struct {
	ignoreCase bool
	body       *regexNode
}

// lookParams represents the parameters for the "LOOK" operator.
type lookParams struct {
	behind   bool
	negative bool
	body     *regexNode
}

// repeatParams represents the parameters for the "REPEAT" operator.
type repeatParams struct {
	min      int
	max      int // repeatInfinite for unbounded repetitions
	greedy   bool
	byNumber bool // the repetition was written as an interval
	body     *regexNode
}

// newEmptyNode creates a new node, that matches the empty string.
func newEmptyNode() *regexNode {
	return &regexNode{opcode: opEmpty}
}

// newLiteral creates a new node with operator "LITERAL".
func newLiteral(c rune) *regexNode {
	return &regexNode{
		opcode: opLiteral,
		c:      c,
	}
}

// newSetNode creates a new node, that holds a clean character class.
func newSetNode(class []rune) *regexNode {
	return &regexNode{
		opcode: opSet,
		params: class,
	}
}

// newAnchorNode creates a new node, that holds an anchor.
func newAnchorNode(a anchor) *regexNode {
	return &regexNode{
		opcode: opAnchor,
		params: a,
	}
}

// newBackrefNode creates a new node, that refers to the given provisional group numbers.
func newBackrefNode(nums []int, byName bool) *regexNode {
	return &regexNode{
		opcode: opBackref,
		params: &backrefParams{
			nums:   nums,
			byName: byName,
		},
	}
}

// newCaptureNode creates a new capture group node.
func newCaptureNode(g *group, body *regexNode) *regexNode {
	return &regexNode{
		opcode: opCapture,
		params: captureParams{
			g:    g,
			body: body,
		},
	}
}

// newOptionNode creates a new node, that changes the case sensitivity of its body.
func newOptionNode(ignoreCase bool, body *regexNode) *regexNode {
	return &regexNode{
		opcode: opOption,
		params: optionParams{
			ignoreCase: ignoreCase,
			body:       body,
		},
	}
}

// newLookNode creates a new lookahead or lookbehind node.
func newLookNode(behind, negative bool, body *regexNode) *regexNode {
	return &regexNode{
		opcode: opLook,
		params: lookParams{
			behind:   behind,
			negative: negative,
			body:     body,
		},
	}
}

// newAtomicNode creates a new atomic group node.
func newAtomicNode(body *regexNode) *regexNode {
	return &regexNode{
		opcode: opAtomic,
		params: body,
	}
}

// newRepeatNode creates a new node, that holds the parameters of a repetition.
func newRepeatNode(min, max int, greedy, byNumber bool, body *regexNode) *regexNode {
	return &regexNode{
		opcode: opRepeat,
		params: &repeatParams{
			min:      min,
			max:      max,
			greedy:   greedy,
			byNumber: byNumber,
			body:     body,
		},
	}
}

// newListNode creates a new node, that holds a slice of regex nodes.
// Valid operators are CONCAT and ALT. Lists with a single element are replaced by the element.
func newListNode(op opcode, items []*regexNode) *regexNode {
	switch len(items) {
	case 0:
		return newEmptyNode()
	case 1:
		return items[0]
	}

	return &regexNode{
		opcode: op,
		params: items,
	}
}

// popular returns the index of the repetition in the tables of nested quantifiers:
// 0 for `?`, 1 for `*`, 2 for `+`, 3 for `??`, 4 for `*?`, 5 for `+?`, and -1 for any other repetition.
func (q *repeatParams) popular() int {
	var i int
	switch {
	case q.min == 0 && q.max == 1:
		i = 0
	case q.min == 0 && q.max == repeatInfinite:
		i = 1
	case q.min == 1 && q.max == repeatInfinite:
		i = 2
	default:
		return -1
	}

	if !q.greedy {
		i += 3
	}

	return i
}

// reduceType describes how two nested popular quantifiers are combined.
type reduceType int

const (
	reduceASIS reduceType = iota // keep as is
	reduceDEL                    // delete the outer quantifier
	reduceA                      // to '*'
	reduceAQ                     // to '*?'
	reduceQQ                     // to '??'
	reducePQQ                    // to '(?:+)??'
	reducePQQ2                   // to '(?:+?)?'
)

// reduceTypeTable is indexed by the inner and the outer quantifier.
var reduceTypeTable = [6][6]reduceType{
	{reduceDEL, reduceA, reduceA, reduceQQ, reduceAQ, reduceASIS},          // '?'
	{reduceDEL, reduceDEL, reduceDEL, reducePQQ, reducePQQ, reduceDEL},     // '*'
	{reduceA, reduceA, reduceDEL, reduceASIS, reducePQQ, reduceDEL},        // '+'
	{reduceDEL, reduceAQ, reduceAQ, reduceDEL, reduceAQ, reduceAQ},         // '??'
	{reduceDEL, reduceDEL, reduceDEL, reduceDEL, reduceDEL, reduceDEL},     // '*?'
	{reduceASIS, reducePQQ2, reduceDEL, reduceAQ, reduceAQ, reduceDEL},     // '+?'
}

var popularQStr = [6]string{"?", "*", "+", "??", "*?", "+?"}

var reduceQStr = map[reduceType]string{
	reduceASIS: "",
	reduceDEL:  "",
	reduceA:    "*",
	reduceAQ:   "*?",
	reduceQQ:   "??",
	reducePQQ:  "+ and ??",
	reducePQQ2: "+? and ?",
}

// reduceNested combines the outer repetition node pnode with its inner repetition node cnode.
// Both repetitions must be popular quantifiers.
func reduceNested(pnode, cnode *regexNode) *regexNode {
	p := pnode.params.(*repeatParams)
	c := cnode.params.(*repeatParams)

	switch reduceTypeTable[c.popular()][p.popular()] {
	case reduceDEL:
		return cnode
	case reduceA:
		p.body, p.min, p.max, p.greedy = c.body, 0, repeatInfinite, true
	case reduceAQ:
		p.body, p.min, p.max, p.greedy = c.body, 0, repeatInfinite, false
	case reduceQQ:
		p.body, p.min, p.max, p.greedy = c.body, 0, 1, false
	case reducePQQ:
		p.body, p.min, p.max, p.greedy = cnode, 0, 1, false
		c.min, c.max, c.greedy = 1, repeatInfinite, true
	case reducePQQ2:
		p.body, p.min, p.max, p.greedy = cnode, 0, 1, true
		c.min, c.max, c.greedy = 1, repeatInfinite, false
	case reduceASIS:
		p.body = cnode
	}

	return pnode
}

// isInvalidRepeatTarget reports whether the node cannot be repeated.
func isInvalidRepeatTarget(n *regexNode) bool {
	switch n.opcode {
	case opAnchor, opLook:
		return true
	case opAlt:
		for _, item := range n.params.([]*regexNode) {
			if isInvalidRepeatTarget(item) {
				return true
			}
		}
	case opConcat:
		for _, item := range n.params.([]*regexNode) {
			if !isInvalidRepeatTarget(item) {
				return false
			}
		}
		return true
	}

	return false
}

// charLength returns the number of characters matched by the node.
// The second return value is false, if the length is not fixed.
// The third return value is false, if the node is not allowed in a lookbehind.
func (n *regexNode) charLength(negative bool) (int, bool, bool) {
	switch n.opcode {
	case opEmpty, opAnchor:
		return 0, true, true
	case opLiteral, opSet:
		return 1, true, true
	case opBackref:
		return 0, false, false
	case opLook:
		return 0, true, true
	case opCapture:
		if negative {
			return 0, false, false
		}
		return n.params.(captureParams).body.charLength(negative)
	case opOption:
		return n.params.(optionParams).body.charLength(negative)
	case opAtomic:
		return n.params.(*regexNode).charLength(negative)
	case opRepeat:
		q := n.params.(*repeatParams)
		l, fixed, ok := q.body.charLength(negative)
		if !ok {
			return 0, false, false
		}
		if q.min != q.max {
			return 0, l == 0 && fixed, true
		}
		return l * q.min, fixed, true
	case opConcat:
		total, allFixed := 0, true
		for _, item := range n.params.([]*regexNode) {
			l, fixed, ok := item.charLength(negative)
			if !ok {
				return 0, false, false
			}
			total += l
			allFixed = allFixed && fixed
		}
		return total, allFixed, true
	case opAlt:
		length, allFixed := -1, true
		for _, item := range n.params.([]*regexNode) {
			l, fixed, ok := item.charLength(negative)
			if !ok {
				return 0, false, false
			}
			if !fixed || (length >= 0 && l != length) {
				allFixed = false
			}
			length = l
		}
		return length, allFixed, true
	}

	return 0, false, false
}

// checkLookBehind checks if the body of a lookbehind has a fixed length.
// If diffAlt is true, the top level alternatives may have different lengths.
func checkLookBehind(body *regexNode, negative, diffAlt bool) error {
	if diffAlt && body.opcode == opAlt {
		for _, item := range body.params.([]*regexNode) {
			if err := checkLookBehind(item, negative, false); err != nil {
				return err
			}
		}
		return nil
	}

	if _, fixed, ok := body.charLength(negative); !ok || !fixed {
		return newError(ErrInvalidLookBehindPattern)
	}

	return nil
}
