package regex

// parser represents the state of the pattern parser.
// Groups are collected in the order of their opening parenthesis. Names map to the
// provisional numbers of their groups, which are the positions in `groups` plus one.
type parser struct {
	src     source
	syntax  *Syntax
	enc     *Encoding
	options Option
	tok     token

	groups   []*group
	names    []string // group names in order of their first definition
	nameNums map[string][]int
	numNamed int
	backrefs []*backrefParams

	word []rune // word characters of the encoding
}

// tree is the result of parsing a pattern.
type tree struct {
	root     *regexNode
	captures int              // number of capture groups
	names    []string         // group names in order of their first definition
	nameNums map[string][]int // final group numbers of each name
}

// parse parses the decoded pattern into a tree.
// The options must already contain the options of the syntax.
func parse(pattern []rune, options Option, syn *Syntax, enc *Encoding) (*tree, error) {
	p := &parser{
		syntax:   syn,
		enc:      enc,
		options:  options,
		nameNums: make(map[string][]int),
		word:     enc.ctypeClass(ctWord),
	}
	p.src.init(pattern)

	if err := p.fetch(); err != nil {
		return nil, err
	}

	root, err := p.parseSubexp(tkEOT)
	if err != nil {
		return nil, err
	}

	if options.has(OptionIgnoreCase) {
		root = newOptionNode(true, root)
	}

	return p.finalize(root)
}

// finalize assigns the final group numbers and resolves backreferences.
func (p *parser) finalize(root *regexNode) (*tree, error) {
	onlyNamed := p.syntax.isBv(SynCaptureOnlyNamedGroup) && p.numNamed > 0 && !p.options.has(OptionCaptureGroup)

	captures := 0
	if onlyNamed {
		for _, ref := range p.backrefs {
			if !ref.byName {
				return nil, newError(ErrNumberedBackrefNotAllowed)
			}
		}

		for _, g := range p.groups {
			if g.name != "" {
				captures++
				g.num = captures
			}
		}
	} else {
		for i, g := range p.groups {
			g.num = i + 1
		}
		captures = len(p.groups)
	}

	for _, ref := range p.backrefs {
		ref.groups = make([]*group, len(ref.nums))
		for i, n := range ref.nums {
			if n > len(p.groups) {
				return nil, newError(ErrInvalidBackref)
			}
			ref.groups[i] = p.groups[n-1]
		}
	}

	nameNums := make(map[string][]int, len(p.nameNums))
	for name, nums := range p.nameNums {
		final := make([]int, len(nums))
		for i, n := range nums {
			final[i] = p.groups[n-1].num
		}
		nameNums[name] = final
	}

	t := &tree{
		root:     root,
		captures: captures,
		names:    p.names,
		nameNums: nameNums,
	}

	return t, nil
}

// parseSubexp parses alternatives up to the token term.
func (p *parser) parseSubexp(term tokenKind) (*regexNode, error) {
	var branches []*regexNode

	for {
		n, err := p.parseBranch(term)
		if err != nil {
			return nil, err
		}

		branches = append(branches, n)

		if p.tok.kind != tkAlt {
			break
		}
		if err := p.fetch(); err != nil {
			return nil, err
		}
	}

	if p.tok.kind != term {
		if term == tkClose {
			return nil, newError(ErrEndPatternWithUnmatchedParen)
		}
		return nil, newError(ErrParserBug)
	}

	return newListNode(opAlt, branches), nil
}

// parseBranch parses a sequence of expressions up to an alternative or the token term.
func (p *parser) parseBranch(term tokenKind) (*regexNode, error) {
	var items []*regexNode

	for p.tok.kind != tkEOT && p.tok.kind != term && p.tok.kind != tkAlt {
		nodes, err := p.parseExp(term)
		if err != nil {
			return nil, err
		}

		items = append(items, nodes...)
	}

	return newListNode(opConcat, items), nil
}

// parseExp parses a single expression and its quantifiers.
// Literal sequences may produce multiple nodes; quantifiers apply to the last node.
func (p *parser) parseExp(term tokenKind) ([]*regexNode, error) {
	syn := p.syntax
	tok := p.tok

	var nodes []*regexNode
	fetched := false

	switch tok.kind {
	case tkClose:
		if !syn.isBv(SynAllowUnmatchedCloseSubexp) {
			return nil, newError(ErrUnmatchedCloseParenthesis)
		}
		nodes = append(nodes, newLiteral(tok.c))

	case tkOpen:
		n, optionOnly, err := p.parseEnclose(term)
		if err != nil {
			return nil, err
		}
		if optionOnly {
			return []*regexNode{n}, nil
		}
		nodes = append(nodes, n)

	case tkChar:
		nodes = append(nodes, newLiteral(tok.c))

	case tkRawByte:
		buf := []byte{byte(tok.c)}
		for {
			if err := p.fetch(); err != nil {
				return nil, err
			}
			if p.tok.kind != tkRawByte {
				break
			}
			buf = append(buf, byte(p.tok.c))
		}
		fetched = true

		for _, c := range p.decodeRaw(buf) {
			nodes = append(nodes, newLiteral(c))
		}

	case tkQuoteOpen:
		s := &p.src
		for !s.eof() {
			if s.hasPrefix(`\E`) {
				s.seek(s.tell() + 2)
				break
			}
			c, _ := s.read()
			nodes = append(nodes, newLiteral(c))
		}
		if len(nodes) == 0 {
			if err := p.fetch(); err != nil {
				return nil, err
			}
			return nil, nil
		}

	case tkAnychar:
		nodes = append(nodes, newSetNode(p.anycharClass()))

	case tkAnchor:
		nodes = append(nodes, newAnchorNode(tok.anchor))

	case tkClass:
		nodes = append(nodes, newSetNode(tok.class))

	case tkBackref:
		n := newBackrefNode(tok.refs, tok.byName)
		p.backrefs = append(p.backrefs, n.params.(*backrefParams))
		nodes = append(nodes, n)

	case tkCCOpen:
		class, err := p.parseCharClass()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, newSetNode(class))

	case tkRepeat, tkInterval:
		if syn.isBv(SynContextIndepRepeatOps) {
			if syn.isBv(SynContextInvalidRepeatOps) {
				return nil, newError(ErrTargetOfRepeatNotSpecified)
			}
			nodes = append(nodes, newEmptyNode())
			fetched = true
		} else {
			for _, c := range p.src.orig[tok.start:p.src.tell()] {
				nodes = append(nodes, newLiteral(c))
			}
		}

	default:
		return nil, newError(ErrParserBug)
	}

	if !fetched {
		if err := p.fetch(); err != nil {
			return nil, err
		}
	}

	target := nodes[len(nodes)-1]

	for p.tok.kind == tkRepeat || p.tok.kind == tkInterval {
		if isInvalidRepeatTarget(target) {
			return nil, newError(ErrTargetOfRepeatInvalid)
		}

		q := newRepeatNode(p.tok.lower, p.tok.upper, p.tok.greedy, p.tok.kind == tkInterval, nil)
		target = p.setQuantifier(q, target)

		if p.tok.possessive {
			target = newAtomicNode(target)
		}

		if err := p.fetch(); err != nil {
			return nil, err
		}
	}

	nodes[len(nodes)-1] = target

	return nodes, nil
}

// setQuantifier sets the target of the repetition node q.
// Nested popular quantifiers are combined.
func (p *parser) setQuantifier(qnode, target *regexNode) *regexNode {
	q := qnode.params.(*repeatParams)

	if target.opcode == opRepeat {
		t := target.params.(*repeatParams)
		nestq := q.popular()
		targetq := t.popular()

		if !q.byNumber && !t.byNumber && nestq >= 0 && targetq >= 0 && p.syntax.isBv(SynWarnRedundantNestedRepeat) {
			switch r := reduceTypeTable[targetq][nestq]; r {
			case reduceASIS:
			case reduceDEL:
				p.verbWarn("redundant nested repeat operator")
			default:
				p.verbWarn("nested repeat operator %s and %s was replaced with '%s'",
					popularQStr[targetq], popularQStr[nestq], reduceQStr[r])
			}
		}

		if targetq >= 0 {
			if nestq >= 0 {
				q.body = target
				return reduceNested(qnode, target)
			}

			// (?:a*){n,m}, (?:a+){n,m} => (?:a*){n,n}, (?:a+){n,n}
			if (targetq == 1 || targetq == 2) && q.max != repeatInfinite && q.max > 1 && q.greedy {
				if q.min == 0 {
					q.max = 1
				} else {
					q.max = q.min
				}
			}
		}
	}

	q.body = target
	return qnode
}

// anycharClass returns the class of `.`.
func (p *parser) anycharClass() []rune {
	if p.options.has(OptionMultiline) {
		return []rune{0, maxCode}
	}
	return []rune{0, '\n' - 1, '\n' + 1, maxCode}
}

// parseEnclose parses a group; the opening parenthesis is already read.
// The second return value is true for option groups like `(?i)`, that extend to the
// end of the enclosing group. The body of these groups has been parsed up to term.
func (p *parser) parseEnclose(term tokenKind) (*regexNode, bool, error) {
	s := &p.src
	syn := p.syntax

	if s.eof() {
		return nil, false, newError(ErrEndPatternWithUnmatchedParen)
	}

	if !s.peekIs('?') || !syn.isOp2(SynOp2QmarkGroupEffect) {
		if p.options.has(OptionDontCaptureGroup) {
			n, err := p.parseGroupBody()
			return n, false, err
		}

		n, err := p.parseCapture("")
		return n, false, err
	}

	s.read()

	c, ok := s.read()
	if !ok {
		return nil, false, newError(ErrEndPatternInGroup)
	}

	switch c {
	case ':':
		n, err := p.parseGroupBody()
		return n, false, err

	case '=', '!':
		body, err := p.parseGroupBody()
		if err != nil {
			return nil, false, err
		}
		return newLookNode(false, c == '!', body), false, nil

	case '>':
		body, err := p.parseGroupBody()
		if err != nil {
			return nil, false, err
		}
		return newAtomicNode(body), false, nil

	case '<':
		if n, ok := s.peek(); ok && (n == '=' || n == '!') {
			s.read()
			negative := n

			body, err := p.parseGroupBody()
			if err != nil {
				return nil, false, err
			}

			if err := checkLookBehind(body, negative == '!', syn.isBv(SynDifferentLenAltLookBehind)); err != nil {
				return nil, false, err
			}

			return newLookNode(true, negative == '!', body), false, nil
		}

		if !syn.isOp2(SynOp2QmarkLtNamedGroup) {
			return nil, false, newError(ErrUndefinedGroupOption)
		}

		n, err := p.parseNamedGroup('>')
		return n, false, err

	case '\'':
		if !syn.isOp2(SynOp2QmarkLtNamedGroup) {
			return nil, false, newError(ErrUndefinedGroupOption)
		}

		n, err := p.parseNamedGroup('\'')
		return n, false, err

	case '@':
		if !syn.isOp2(SynOp2AtmarkCaptureHistory) {
			return nil, false, newError(ErrUndefinedGroupOption)
		}

		if syn.isOp2(SynOp2QmarkLtNamedGroup) {
			if s.match('<') {
				n, err := p.parseNamedGroup('>')
				return n, false, err
			}
			if s.match('\'') {
				n, err := p.parseNamedGroup('\'')
				return n, false, err
			}
		}

		n, err := p.parseCapture("")
		return n, false, err

	case '-', 'i', 'm', 's', 'x':
		return p.parseOptions(c, term)
	}

	return nil, false, newError(ErrUndefinedGroupOption)
}

// parseOptions parses an option group like `(?i)` or `(?m-x:...)`; c is the first option letter.
func (p *parser) parseOptions(c rune, term tokenKind) (*regexNode, bool, error) {
	s := &p.src
	syn := p.syntax

	opts := p.options
	negative := false

	for c != ')' && c != ':' {
		switch c {
		case '-':
			negative = true
		case 'x':
			opts.onoff(OptionExtend, negative)
		case 'i':
			opts.onoff(OptionIgnoreCase, negative)
		case 's':
			if !syn.isOp2(SynOp2OptionPerl) {
				return nil, false, newError(ErrUndefinedGroupOption)
			}
			opts.onoff(OptionMultiline, negative)
		case 'm':
			switch {
			case syn.isOp2(SynOp2OptionPerl):
				opts.onoff(OptionSingleline, !negative)
			case syn.isOp2(SynOp2OptionRuby):
				opts.onoff(OptionMultiline, negative)
			default:
				return nil, false, newError(ErrUndefinedGroupOption)
			}
		default:
			return nil, false, newError(ErrUndefinedGroupOption)
		}

		var ok bool
		if c, ok = s.read(); !ok {
			return nil, false, newError(ErrEndPatternInGroup)
		}
	}

	prev := p.options
	p.options = opts

	if err := p.fetch(); err != nil {
		return nil, false, err
	}

	optionOnly := c == ')'
	if !optionOnly {
		term = tkClose
	}

	body, err := p.parseSubexp(term)
	p.options = prev
	if err != nil {
		return nil, false, err
	}

	if opts.has(OptionIgnoreCase) != prev.has(OptionIgnoreCase) {
		body = newOptionNode(opts.has(OptionIgnoreCase), body)
	}

	return body, optionOnly, nil
}

// parseGroupBody parses the alternatives of a group up to the closing parenthesis.
func (p *parser) parseGroupBody() (*regexNode, error) {
	if err := p.fetch(); err != nil {
		return nil, err
	}

	return p.parseSubexp(tkClose)
}

// parseNamedGroup parses a named capture group; the opening delimiter of the name is already read.
func (p *parser) parseNamedGroup(endCode rune) (*regexNode, error) {
	name, _, _, err := p.fetchName(endCode, false)
	if err != nil {
		return nil, err
	}

	if _, ok := p.nameNums[name]; ok {
		if !p.syntax.isBv(SynAllowMultiplexDefinitionName) {
			return nil, newNameError(ErrMultiplexDefinedName, name)
		}
	} else {
		p.names = append(p.names, name)
	}

	p.numNamed++
	p.nameNums[name] = append(p.nameNums[name], len(p.groups)+1)

	return p.parseCapture(name)
}

// parseCapture parses the body of a capture group.
func (p *parser) parseCapture(name string) (*regexNode, error) {
	g := &group{name: name}
	p.groups = append(p.groups, g)

	body, err := p.parseGroupBody()
	if err != nil {
		return nil, err
	}

	g.closed = true

	return newCaptureNode(g, body), nil
}

// ctypeClass returns the class of a character type of the encoding.
func (p *parser) ctypeClass(t ctype, negative bool) []rune {
	class := p.enc.ctypeClass(t)
	if negative {
		return negateClass(class)
	}
	return class
}

// isWord checks if the character is a word character of the encoding.
func (p *parser) isWord(c rune) bool {
	return classContains(p.word, c)
}
