package errspec

import (
	"regexp"
	"strconv"
	"strings"

	"errgen.dev/errgen"
	"errgen.dev/errgen/lexer"
	"errgen.dev/errgen/source"
)

const (
	stringTok = "string"
	nameTok   = "name"
	numberTok = "number"
	opTok     = "op"
	wrongTok  = ""
)

const (
	atTok        = "@"
	lParenTok    = "("
	rParenTok    = ")"
	lSquareTok   = "["
	rSquareTok   = "]"
	lAngleTok    = "<"
	rAngleTok    = ">"
	colonTok     = ":"
	commaTok     = ","
	semicolonTok = ";"
)

const pubKeyword = "pub"

var specLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: 1, TypeName: stringTok},
		{Type: 2, TypeName: nameTok},
		{Type: 3, TypeName: numberTok},
		{Type: 4, TypeName: opTok},
		{Type: lexer.ErrorTokenType, TypeName: wrongTok},
	}

	re := regexp.MustCompile(
		`^(?:\s+|#[^\n]*|` +
			`("(?:[^\\"\n]|\\.)*")|` +
			`([A-Za-z_][A-Za-z_0-9]*)|` +
			`([0-9]+)|` +
			`([-()\[\]{}<>,:;@*.&~=|])|` +
			`(".{0,10}))`)

	specLexer = lexer.New(re, tokenTypes)
}

// ParseString parses a single error-spec and returns it on success.
// Returns nil and *errgen.Error on error.
func ParseString(name, content string) (*ErrorSpec, error) {
	return Parse(source.New(name, []byte(content)))
}

// ParseBytes parses a single error-spec and returns it on success.
// Returns nil and *errgen.Error on error.
func ParseBytes(name string, content []byte) (*ErrorSpec, error) {
	return Parse(source.New(name, content))
}

// Parse parses a single error-spec and returns it on success.
// The whole source must be consumed; a trailing ";" is permitted.
// Returns nil and *errgen.Error on error.
func Parse(s *source.Source) (*ErrorSpec, error) {
	specs, e := ParseAll(s)
	if e != nil {
		return nil, e
	}
	if len(specs) == 0 {
		return nil, eofError(lexer.EofToken(s))
	}
	if len(specs) > 1 {
		return nil, errgen.FormatErrorPos(specs[1].Pos, UnexpectedTokenError, "unexpected second error-spec %q", specs[1].Name)
	}

	return specs[0], nil
}

// ParseAll parses a sequence of error-specs separated by ";".
// Returns nil and *errgen.Error on error; an empty source yields an empty slice.
func ParseAll(s *source.Source) ([]*ErrorSpec, error) {
	c := &parseContext{cur: source.NewCursor(s)}
	specs := make([]*ErrorSpec, 0)
	for {
		t, e := c.peek()
		if e != nil {
			return nil, e
		}

		if isEof(t) {
			return specs, nil
		}
		if t.Text() == semicolonTok {
			c.next()
			continue
		}

		spec, e := c.parseSpec()
		if e != nil {
			return nil, e
		}
		specs = append(specs, spec)

		t, e = c.peek()
		if e != nil {
			return nil, e
		}
		if !isEof(t) && t.Text() != semicolonTok {
			return nil, unexpectedTokenError(t)
		}
	}
}

// parseContext holds parser state. It is copied by value to run a speculative
// trial parse: a failed trial discards the copy, leaving the real state untouched.
type parseContext struct {
	cur        source.Cursor
	savedToken *lexer.Token
}

func isEof(t *lexer.Token) bool {
	return t.Type() == lexer.EofTokenType
}

func (c *parseContext) next() (*lexer.Token, error) {
	if c.savedToken != nil {
		t := c.savedToken
		c.savedToken = nil
		return t, nil
	}

	return specLexer.Next(&c.cur)
}

func (c *parseContext) put(t *lexer.Token) {
	if c.savedToken != nil {
		panic("cannot put " + t.TypeName() + " token: already put " + c.savedToken.TypeName())
	}

	c.savedToken = t
}

func (c *parseContext) peek() (*lexer.Token, error) {
	t, e := c.next()
	if e != nil {
		return nil, e
	}

	c.put(t)
	return t, nil
}

func (c *parseContext) fetch(types []string, strict bool, e error) (*lexer.Token, error) {
	if e != nil {
		return nil, e
	}

	token, e := c.next()
	if e != nil {
		return nil, e
	}

	// punctuation is fetched by text, everything else by type name only:
	// an identifier spelled like a type name (e.g. "string") must not match
	for _, typ := range types {
		if token.TypeName() == typ || (token.TypeName() == opTok && token.Text() == typ) {
			return token, nil
		}
	}

	if isEof(token) {
		if strict {
			return nil, eofError(token)
		}
		return token, nil
	}

	if strict {
		return nil, unexpectedTokenError(token)
	}

	c.put(token)
	return nil, nil
}

func (c *parseContext) fetchOne(typ string, strict bool, e error) (*lexer.Token, error) {
	return c.fetch([]string{typ}, strict, e)
}

func (c *parseContext) parseSpec() (*ErrorSpec, error) {
	spec := &ErrorSpec{}
	var e error
	spec.Attrs, e = c.parseAttrs()
	if e != nil {
		return nil, e
	}

	t, e := c.fetchOne(nameTok, true, nil)
	if e != nil {
		return nil, e
	}
	if t.Text() == pubKeyword {
		spec.Public = true
		t, e = c.fetchOne(nameTok, true, nil)
		if e != nil {
			return nil, e
		}
	}
	spec.Name = t.Text()
	spec.Pos = t.Pos()

	t, e = c.fetchOne(lAngleTok, false, nil)
	if e != nil {
		return nil, e
	}
	if t != nil && !isEof(t) {
		spec.Generics, e = c.parseGenerics()
		if e != nil {
			return nil, e
		}
	}

	t, e = c.fetchOne(stringTok, false, nil)
	if e != nil {
		return nil, e
	}
	if t != nil && !isEof(t) {
		msg, ue := strconv.Unquote(t.Text())
		if ue != nil {
			return nil, badStringError(t, ue)
		}
		spec.Message = msg
		spec.HasMessage = true
	}

	e = c.parseContents(spec)
	if e != nil {
		return nil, e
	}

	return spec, nil
}

// parseContents resolves the remainder to exactly one of the three non-empty
// contents forms by ordered speculative trials over copied parser state,
// committing a copy back only on success. The field-list trial must run before
// the variant-list trial: a bare identifier list is the degenerate colon-free
// case of a field list. An empty remainder is Unit, not an error.
func (c *parseContext) parseContents(spec *ErrorSpec) error {
	t, e := c.peek()
	if e != nil {
		return e
	}
	if isEof(t) || t.Text() == semicolonTok {
		spec.Contents = Unit{}
		return nil
	}

	trial := *c
	fields, fieldTokens, e := trial.parseFieldList()
	if e == nil {
		*c = trial
		return setStructFields(spec, fields, fieldTokens)
	}

	trial = *c
	variants, variantTokens, e := trial.parseVariantList()
	if e == nil {
		*c = trial
		return setSourceList(spec, variants, variantTokens)
	}

	trial = *c
	array, e := trial.parseArraySource()
	if e == nil {
		*c = trial
		spec.Contents = *array
		return nil
	}

	return noContentsError(t)
}

// setStructFields checks field-name uniqueness on the exported names: the
// generated struct exports every field, so "x" and "X" collide there even
// though they are distinct in the spec.
func setStructFields(spec *ErrorSpec, fields []Field, tokens []*lexer.Token) error {
	names := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := ExportedName(f.Name)
		if names[name] {
			return defFieldError(tokens[i])
		}
		names[name] = true
	}

	spec.Contents = StructFields{fields}
	return nil
}

func setSourceList(spec *ErrorSpec, variants []Variant, tokens []*lexer.Token) error {
	names := make(map[string]bool, len(variants))
	for i, v := range variants {
		if names[v.Name] {
			return defVariantError(tokens[i])
		}
		names[v.Name] = true
	}

	spec.Contents = SourceList{variants}
	return nil
}

func (c *parseContext) parseAttrs() ([]Attr, error) {
	var attrs []Attr
	for {
		t, e := c.fetchOne(atTok, false, nil)
		if e != nil {
			return nil, e
		}
		if t == nil || isEof(t) {
			return attrs, nil
		}

		nameT, e := c.fetchOne(nameTok, true, nil)
		if e != nil {
			return nil, e
		}
		attr := Attr{Name: nameT.Text()}

		p, e := c.fetchOne(lParenTok, false, nil)
		if e != nil {
			return nil, e
		}
		if p != nil && !isEof(p) {
			attr.Args, _, e = c.rawTokenRun([]string{rParenTok})
			if e != nil {
				return nil, e
			}
		}

		attrs = append(attrs, attr)
	}
}

func (c *parseContext) parseGenerics() (*Generics, error) {
	raw, term, e := c.rawTokenRun([]string{rAngleTok})
	if e != nil {
		return nil, e
	}

	g := &Generics{Params: raw, Names: genericNames(raw)}
	if len(g.Names) == 0 {
		return nil, emptyGenericsError(term)
	}

	return g, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*`)

// genericNames extracts parameter names from a verbatim parameter list:
// the leading identifier of every top-level comma-separated part.
func genericNames(params string) []string {
	names := make([]string, 0)
	depth := 0
	start := 0
	flush := func(part string) {
		part = strings.TrimSpace(part)
		if m := identRe.FindString(part); m != "" {
			names = append(names, m)
		}
	}

	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(params[start:i])
				start = i + 1
			}
		}
	}
	flush(params[start:])

	return names
}

func (c *parseContext) parseFieldList() ([]Field, []*lexer.Token, error) {
	_, e := c.fetchOne(lParenTok, true, nil)
	if e != nil {
		return nil, nil, e
	}

	fields := make([]Field, 0)
	tokens := make([]*lexer.Token, 0)
	for {
		attrs, e := c.parseAttrs()
		if e != nil {
			return nil, nil, e
		}
		nameT, e := c.fetchOne(nameTok, true, nil)
		if e != nil {
			return nil, nil, e
		}
		_, e = c.fetchOne(colonTok, true, nil)
		if e != nil {
			return nil, nil, e
		}
		raw, term, e := c.rawTokenRun([]string{commaTok, rParenTok})
		if e != nil {
			return nil, nil, e
		}
		if raw == "" {
			return nil, nil, unexpectedTokenError(term)
		}

		fields = append(fields, Field{Attrs: attrs, Name: nameT.Text(), Type: raw})
		tokens = append(tokens, nameT)
		if term.Text() == rParenTok {
			return fields, tokens, nil
		}
	}
}

func (c *parseContext) parseVariantList() ([]Variant, []*lexer.Token, error) {
	_, e := c.fetchOne(lParenTok, true, nil)
	if e != nil {
		return nil, nil, e
	}

	variants := make([]Variant, 0)
	tokens := make([]*lexer.Token, 0)
	for {
		attrs, e := c.parseAttrs()
		if e != nil {
			return nil, nil, e
		}
		nameT, e := c.fetchOne(nameTok, true, nil)
		if e != nil {
			return nil, nil, e
		}
		term, e := c.fetch([]string{commaTok, rParenTok}, true, nil)
		if e != nil {
			return nil, nil, e
		}

		variants = append(variants, Variant{Attrs: attrs, Name: nameT.Text()})
		tokens = append(tokens, nameT)
		if term.Text() == rParenTok {
			return variants, tokens, nil
		}
	}
}

func (c *parseContext) parseArraySource() (*ArraySource, error) {
	_, e := c.fetchOne(lSquareTok, true, nil)
	if e != nil {
		return nil, e
	}

	attrs, e := c.parseAttrs()
	if e != nil {
		return nil, e
	}
	raw, term, e := c.rawTokenRun([]string{rSquareTok})
	if e != nil {
		return nil, e
	}
	if raw == "" {
		return nil, unexpectedTokenError(term)
	}

	return &ArraySource{Attrs: attrs, Type: raw}, nil
}

// rawTokenRun captures a verbatim source span: it reads tokens until one of
// stops occurs outside any (), [], or {} nesting and returns the trimmed text
// between the first read token and the stop token. The stop token is consumed.
// An empty run yields "" and the stop token.
func (c *parseContext) rawTokenRun(stops []string) (string, *lexer.Token, error) {
	depth := 0
	start := -1
	for {
		t, e := c.next()
		if e != nil {
			return "", nil, e
		}
		if isEof(t) {
			return "", nil, eofError(t)
		}

		text := t.Text()
		if depth == 0 && containsString(stops, text) {
			raw := ""
			if start >= 0 {
				raw = strings.TrimSpace(string(c.cur.Source().Content()[start:t.Pos().Offset()]))
			}
			return raw, t, nil
		}

		if start < 0 {
			start = t.Pos().Offset()
		}
		switch text {
		case lParenTok, lSquareTok, "{":
			depth++
		case rParenTok, rSquareTok, "}":
			if depth == 0 {
				return "", nil, unexpectedTokenError(t)
			}
			depth--
		}
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
