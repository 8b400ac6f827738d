package lexer

import (
	"github.com/google/uuid"
)

// Tokenizer is a single-threaded, pull-based lexer over an immutable input
// buffer. It yields one token per call to Next and is not safe for
// concurrent use; independent Tokenizers over the same input may run on
// different goroutines.
type Tokenizer struct {
	src     []byte
	pos     Position
	errored bool
	id      string
}

// New constructs a Tokenizer over src. src is borrowed for the lifetime of
// the Tokenizer and of every Token it yields.
func New(src []byte) *Tokenizer {
	return &Tokenizer{
		src: src,
		pos: Position{Offset: 0, Line: 1, Column: 1},
		id:  uuid.NewString(),
	}
}

// NewString constructs a Tokenizer over a string input.
func NewString(src string) *Tokenizer {
	return New([]byte(src))
}

// WithFilepath attaches an opaque filepath to every position the Tokenizer
// reports from this point on. It does not open or read the file.
func (t *Tokenizer) WithFilepath(path string) *Tokenizer {
	t.pos.Filepath = path
	return t
}

// ID returns an opaque identifier for this Tokenizer instance, generated
// once at construction. It has no bearing on lexing and exists solely so
// callers (e.g. the demo CLI) can correlate log lines with a run.
func (t *Tokenizer) ID() string { return t.id }

// Position returns the current read cursor: the start position of the next
// token Next would yield.
func (t *Tokenizer) Position() Position { return t.pos }

// Next yields the next token. ok is false with a nil error at end of
// input. Once err is non-nil, the Tokenizer has latched into a terminal
// state and every subsequent call returns (Token{}, false, nil).
func (t *Tokenizer) Next() (tok Token, ok bool, err error) {
	if t.errored {
		return Token{}, false, nil
	}
	if t.pos.Offset >= len(t.src) {
		return Token{}, false, nil
	}

	rest := t.src[t.pos.Offset:]
	start := t.pos
	tok, n, lexErr := t.scanOne(rest, start)
	if lexErr != nil {
		t.errored = true
		return Token{}, false, lexErr
	}
	tok.Pos = start
	t.pos = t.pos.advance(t.src[start.Offset : start.Offset+n])
	return tok, true, nil
}

// All scans every remaining token into a slice, stopping at end of input
// or at the first error. It is a convenience batch adapter around Next;
// behavior is identical to pulling tokens one at a time.
func (t *Tokenizer) All() ([]Token, error) {
	var out []Token
	for {
		tok, ok, err := t.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, tok)
	}
}

// Iter returns a single-use iterator (Go 1.23 range-over-func) yielding
// every token until end of input or error. Behavior is identical to
// pulling tokens one at a time via Next; any lexical error is silently
// swallowed by the sequence form; callers that need the error should use
// Next or All directly.
func (t *Tokenizer) Iter() func(yield func(Token) bool) {
	return func(yield func(Token) bool) {
		for {
			tok, ok, err := t.Next()
			if err != nil || !ok {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// scanOne dispatches on the first scalar of rest to the matching scanner
// and returns the token plus the number of bytes of rest it consumed.
func (t *Tokenizer) scanOne(rest []byte, pos Position) (Token, int, *LexError) {
	b := rest[0]
	switch {
	case isWhitespaceByte(b):
		return scanWhitespace(rest, pos)
	case b == '%':
		return scanComment(rest, pos)
	case b == '$':
		return scanChar(rest, pos)
	case b == '"':
		return scanString(rest, pos)
	case b == '\'':
		return scanQuotedAtom(rest, pos)
	case isAtomStart(b):
		return scanBareAtomOrKeyword(rest, pos)
	case isVarStart(b):
		return scanVariable(rest, pos)
	case isDigit(b):
		return scanNumber(rest, pos)
	default:
		if tok, n, ok := scanSymbol(rest); ok {
			return tok, n, nil
		}
		r, _ := decodeRune(rest)
		return Token{}, 0, &LexError{Kind: ErrUnexpectedChar, Pos: pos, Detail: string(r)}
	}
}

func isWhitespaceByte(b byte) bool {
	_, ok := whitespaceKindOf(b)
	return ok
}

// ---- whitespace ----

// scanWhitespace consumes one contiguous run of whitespace units of the
// same kind: the run, not the character, is the unit of a Whitespace
// token. A "\r\n" pair is treated as a single two-byte newline unit so
// that CRLF line endings advance the line counter exactly once.
func scanWhitespace(rest []byte, pos Position) (Token, int, *LexError) {
	kind, n, _ := nextWhitespaceUnit(rest)
	for n < len(rest) {
		k, l, ok := nextWhitespaceUnit(rest[n:])
		if !ok || k != kind {
			break
		}
		n += l
	}
	tok := Token{Kind: KindWhitespace, Text: rest[:n], wsKind: kind}
	return tok, n, nil
}

// nextWhitespaceUnit classifies one whitespace unit at the front of rest.
// A lone '\r' is WSReturn; '\r' immediately followed by '\n' is a single
// two-byte WSNewline unit; any other recognized whitespace byte is a
// one-byte unit of its own kind.
func nextWhitespaceUnit(rest []byte) (WhitespaceKind, int, bool) {
	if len(rest) == 0 {
		return 0, 0, false
	}
	if rest[0] == '\r' {
		if len(rest) > 1 && rest[1] == '\n' {
			return WSNewline, 2, true
		}
		return WSReturn, 1, true
	}
	kind, ok := whitespaceKindOf(rest[0])
	if !ok {
		return 0, 0, false
	}
	return kind, 1, true
}

// ---- comment ----

func scanComment(rest []byte, pos Position) (Token, int, *LexError) {
	n := 1
	for n < len(rest) && rest[n] != '\n' {
		n++
	}
	return Token{Kind: KindComment, Text: rest[:n]}, n, nil
}

// ---- atoms, keywords, variables ----

func scanBareAtomOrKeyword(rest []byte, pos Position) (Token, int, *LexError) {
	n := 1
	for n < len(rest) && isAtomCont(rest[n]) {
		n++
	}
	text := rest[:n]
	if kind, ok := lookupKeyword(text); ok {
		return Token{Kind: KindKeyword, Text: text, kwKind: kind}, n, nil
	}
	return Token{Kind: KindAtom, Text: text, atomName: string(text)}, n, nil
}

func scanVariable(rest []byte, pos Position) (Token, int, *LexError) {
	n := 1
	for n < len(rest) && isAtomCont(rest[n]) {
		n++
	}
	text := rest[:n]
	return Token{Kind: KindVariable, Text: text}, n, nil
}

func scanQuotedAtom(rest []byte, pos Position) (Token, int, *LexError) {
	name, n, err := scanQuoted(rest, pos, '\'', ErrUnterminatedAtom)
	if err != nil {
		return Token{}, 0, err
	}
	return Token{Kind: KindAtom, Text: rest[:n], atomName: name}, n, nil
}

// ---- strings ----

func scanString(rest []byte, pos Position) (Token, int, *LexError) {
	value, n, err := scanQuoted(rest, pos, '"', ErrUnterminatedString)
	if err != nil {
		return Token{}, 0, err
	}
	return Token{Kind: KindString, Text: rest[:n], strValue: value}, n, nil
}

// scanQuoted scans a delim-quoted construct (string or quoted atom)
// starting at rest[0] == delim, resolving `\`-escapes as it goes. It
// returns the decoded contents, the total bytes consumed (including both
// quotes), or an unterminated/invalid-escape error.
func scanQuoted(rest []byte, pos Position, delim byte, unterminated ErrKind) (string, int, *LexError) {
	var buf []byte
	i := 1
	for {
		if i >= len(rest) {
			return "", 0, &LexError{Kind: unterminated, Pos: pos}
		}
		c := rest[i]
		if c == delim {
			return string(buf), i + 1, nil
		}
		if c == '\\' {
			escPos := pos.advance(rest[:i])
			r, consumed, err := resolveEscape(rest[i+1:], escPos)
			if err != nil {
				return "", 0, err
			}
			buf = appendRune(buf, r)
			i += 1 + consumed
			continue
		}
		r, size := decodeRune(rest[i:])
		buf = appendRune(buf, r)
		i += size
	}
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [4]byte
	n := encodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}

// ---- char literal ----

func scanChar(rest []byte, pos Position) (Token, int, *LexError) {
	if len(rest) < 2 {
		return Token{}, 0, &LexError{Kind: ErrUnterminatedChar, Pos: pos}
	}
	if rest[1] == '\\' {
		escPos := pos.advance(rest[:1])
		r, consumed, err := resolveEscape(rest[2:], escPos)
		if err != nil {
			return Token{}, 0, err
		}
		n := 2 + consumed
		return Token{Kind: KindChar, Text: rest[:n], charValue: r}, n, nil
	}
	r, size := decodeRune(rest[1:])
	n := 1 + size
	return Token{Kind: KindChar, Text: rest[:n], charValue: r}, n, nil
}

// ---- numbers ----

func scanNumber(rest []byte, pos Position) (Token, int, *LexError) {
	n := 1
	for n < len(rest) && isDigit(rest[n]) {
		n++
	}

	// Base-N integer: Base '#' Digits.
	if n < len(rest) && rest[n] == '#' {
		return scanBaseInteger(rest, pos, n)
	}

	// Float: D+ '.' D+ ( [eE][+-]?D+ )?
	if n < len(rest) && rest[n] == '.' && n+1 < len(rest) && isDigit(rest[n+1]) {
		return scanFloat(rest, pos, n)
	}

	return Token{Kind: KindInteger, Text: rest[:n], intBase: 10, intDigits: string(rest[:n])}, n, nil
}

func scanBaseInteger(rest []byte, pos Position, hashIdx int) (Token, int, *LexError) {
	baseText := rest[:hashIdx]
	base := 0
	for _, d := range baseText {
		base = base*10 + int(d-'0')
	}
	if base < 2 || base > 36 {
		return Token{}, 0, &LexError{Kind: ErrInvalidBase, Pos: pos, Detail: string(baseText)}
	}

	i := hashIdx + 1
	digitsStart := i
	for i < len(rest) && isBaseDigitCandidate(rest[i]) {
		if !isBaseDigit(rest[i], base) {
			errPos := pos.advance(rest[:i])
			return Token{}, 0, &LexError{Kind: ErrInvalidDigit, Pos: errPos, Detail: string(rest[i])}
		}
		i++
	}
	if i == digitsStart {
		errPos := pos.advance(rest[:digitsStart])
		return Token{}, 0, &LexError{Kind: ErrMissingDigits, Pos: errPos}
	}
	digits := string(rest[digitsStart:i])
	return Token{Kind: KindInteger, Text: rest[:i], intBase: base, intDigits: digits}, i, nil
}

// isBaseDigitCandidate reports whether b could be a base digit character at
// all ([0-9a-zA-Z]), independent of whether it is valid for the declared
// base (used to decide where the digit run ends vs. where an
// InvalidDigit error should be raised).
func isBaseDigitCandidate(b byte) bool {
	_, ok := digitValue(b)
	return ok
}

func scanFloat(rest []byte, pos Position, dotIdx int) (Token, int, *LexError) {
	i := dotIdx + 1
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
		j := i + 1
		if j < len(rest) && (rest[j] == '+' || rest[j] == '-') {
			j++
		}
		if j < len(rest) && isDigit(rest[j]) {
			j++
			for j < len(rest) && isDigit(rest[j]) {
				j++
			}
			i = j
		}
	}
	text := rest[:i]
	f, ferr := parseFloat(text)
	if ferr != nil {
		return Token{}, 0, &LexError{Kind: ErrFloatOverflow, Pos: pos, Detail: string(text)}
	}
	return Token{Kind: KindFloat, Text: text, floatVal: f}, i, nil
}

// ---- symbols ----

// symbolTable2 and symbolTable1 list the closed symbol set as (text, kind)
// pairs, ordered so that scanSymbol can always prefer the longest match:
// the three-character entries (=:= and =/=) are checked first, inline,
// then two characters, then one.
var symbolTable2 = []struct {
	text string
	kind SymbolKind
}{
	{"||", SymDoubleVerticalBar},
	{"==", SymEq},
	{"/=", SymNotEq},
	{"=<", SymLessEq},
	{">=", SymGreaterEq},
	{"++", SymPlusPlus},
	{"--", SymMinusMinus},
	{"->", SymRightArrow},
	{"<-", SymLeftArrow},
	{"=>", SymDoubleRightArrow},
	{"<=", SymLeftDoubleArrow},
	{"<<", SymDoubleLeftAngle},
	{">>", SymDoubleRightAngle},
	{"::", SymDoubleColon},
}

var symbolTable1 = map[byte]SymbolKind{
	'(': SymOpenParen,
	')': SymCloseParen,
	'{': SymOpenBrace,
	'}': SymCloseBrace,
	'[': SymOpenSquare,
	']': SymCloseSquare,
	'.': SymDot,
	',': SymComma,
	';': SymSemicolon,
	':': SymColon,
	'?': SymQuestion,
	'!': SymNot,
	'|': SymVerticalBar,
	'-': SymHyphen,
	'+': SymPlus,
	'*': SymMultiply,
	'/': SymSlash,
	'=': SymMatch,
	'<': SymLess,
	'>': SymGreater,
}

// scanSymbol matches the longest prefix of rest in the closed symbol set,
// preferring =:= and =/= (three characters) over their two- and
// one-character prefixes.
func scanSymbol(rest []byte) (Token, int, bool) {
	if len(rest) >= 3 {
		switch string(rest[:3]) {
		case "=:=":
			return Token{Kind: KindSymbol, Text: rest[:3], symKind: SymExactEq}, 3, true
		case "=/=":
			return Token{Kind: KindSymbol, Text: rest[:3], symKind: SymExactNotEq}, 3, true
		}
	}
	if len(rest) >= 2 {
		two := string(rest[:2])
		for _, e := range symbolTable2 {
			if e.text == two {
				return Token{Kind: KindSymbol, Text: rest[:2], symKind: e.kind}, 2, true
			}
		}
	}
	if kind, ok := symbolTable1[rest[0]]; ok {
		return Token{Kind: KindSymbol, Text: rest[:1], symKind: kind}, 1, true
	}
	return Token{}, 0, false
}
