package syntax

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"wdlint/internal/diag"
	"wdlint/internal/source"
)

// exceptPrefix introduces a lint suppression directive inside a comment.
const exceptPrefix = "#@ except:"

// Parse builds the document tree for a file. The parser is deliberately
// lenient: it recognizes the WDL subset the lint rules dispatch on and
// skips everything else, reporting gross malformations to the bag with an
// empty rule identifier. It always returns a usable (possibly partial)
// root node.
func Parse(file *source.File, bag *diag.Bag) *Node {
	p := &parser{file: file, src: file.Content, bag: bag}
	return p.parseDocument()
}

type parser struct {
	file    *source.File
	src     []byte
	pos     int
	bag     *diag.Bag
	pending []string // rule ids from directives not yet attached
}

func (p *parser) parseDocument() *Node {
	root := &Node{
		Kind: KindDocument,
		Span: p.spanFrom(0),
	}
	root.Span.End = p.offset(len(p.src))

	for {
		p.skipTrivia()
		if p.eof() {
			break
		}
		start := p.pos
		word := p.readWord()
		switch word {
		case "version":
			// Directives above the version statement scope to the
			// whole document.
			root.Except = append(root.Except, p.takePending()...)
			p.parseVersion(root, start)
		case "task":
			p.parseItem(root, start, KindTask)
		case "workflow":
			p.parseItem(root, start, KindWorkflow)
		case "struct":
			p.readWord()
			p.skipBalancedBraces()
			p.pending = nil
		default:
			if word == "" {
				p.pos++ // unknown byte, keep going
				continue
			}
			p.errorf(start, p.pos, "unexpected %q at document level", word)
			p.skipLine()
		}
	}
	return root
}

func (p *parser) parseVersion(root *Node, start int) {
	keyword := p.span(start, p.pos)
	p.skipSpaces()
	vstart := p.pos
	p.skipLine()
	version := strings.TrimRight(string(p.src[vstart:p.pos]), " \t\n")

	node := &Node{
		Kind:    KindVersionStatement,
		Span:    p.span(start, vstart+len(version)),
		Keyword: keyword,
		Name:    version,
	}
	node.Except = p.takePending()
	root.addChild(node)
}

// parseItem parses a task or workflow: keyword, name, braced body.
func (p *parser) parseItem(root *Node, start int, kind Kind) {
	keyword := p.span(start, p.pos)
	p.skipSpaces()
	name := p.readWord()
	if name == "" {
		p.errorf(start, p.pos, "expected a name after %q", kind.String())
	}

	node := &Node{
		Kind:    kind,
		Keyword: keyword,
		Name:    name,
		Except:  p.takePending(),
	}
	root.addChild(node)

	p.skipTrivia()
	if !p.expect('{') {
		node.Span = p.span(start, p.pos)
		return
	}

	for {
		p.skipTrivia()
		if p.eof() {
			p.errorf(start, p.pos, "unterminated %s body", kind.String())
			break
		}
		if p.peek() == '}' {
			p.pos++
			break
		}

		bodyStart := p.pos
		word := p.readWord()
		switch word {
		case "input":
			p.parseDeclBlock(node, bodyStart, KindInputSection)
		case "output":
			p.parseDeclBlock(node, bodyStart, KindOutputSection)
		case "command":
			p.parseCommand(node, bodyStart)
		case "runtime", "requirements", "hints":
			p.parseOpaqueSection(node, bodyStart, KindRuntimeSection)
		case "meta", "parameter_meta":
			p.parseOpaqueSection(node, bodyStart, KindMetaSection)
		case "call", "scatter", "if":
			// Workflow control constructs carry nothing the rules
			// inspect; skip through their balanced body.
			p.pending = nil
			for !p.eof() && p.peek() != '{' && p.peek() != '\n' {
				if c := p.peek(); c == '(' {
					p.skipBalanced('(', ')')
					continue
				}
				p.pos++
			}
			if !p.eof() && p.peek() == '{' {
				p.skipBalanced('{', '}')
			}
		default:
			if word == "" {
				p.pos++
				continue
			}
			p.parseDeclaration(node, bodyStart, word)
		}
	}
	node.Span = p.span(start, p.pos)
}

// parseDeclBlock parses an input/output section containing declarations.
func (p *parser) parseDeclBlock(parent *Node, start int, kind Kind) {
	keyword := p.span(start, p.pos)
	node := &Node{
		Kind:    kind,
		Keyword: keyword,
		Except:  p.takePending(),
	}
	parent.addChild(node)

	p.skipTrivia()
	if !p.expect('{') {
		node.Span = p.span(start, p.pos)
		return
	}
	for {
		p.skipTrivia()
		if p.eof() {
			p.errorf(start, p.pos, "unterminated %s section", kind.String())
			break
		}
		if p.peek() == '}' {
			p.pos++
			break
		}
		declStart := p.pos
		word := p.readWord()
		if word == "" {
			p.pos++
			continue
		}
		p.parseDeclaration(node, declStart, word)
	}
	node.Span = p.span(start, p.pos)
}

// parseDeclaration parses `Type name [= expr]` where typeWord was already
// consumed. Unrecognized constructs are skipped to the end of the line.
func (p *parser) parseDeclaration(parent *Node, start int, typeWord string) {
	// Optional generic parameters and type modifiers: Array[File]+, Int?
	if !p.eof() && p.peek() == '[' {
		p.skipBalanced('[', ']')
	}
	for !p.eof() && (p.peek() == '?' || p.peek() == '+') {
		p.pos++
	}
	p.skipSpaces()

	name := p.readWord()
	if name == "" {
		p.errorf(start, p.pos, "expected a declaration after %q", typeWord)
		p.pending = nil
		p.skipLine()
		return
	}

	end := p.pos
	p.skipSpaces()
	if !p.eof() && p.peek() == '=' {
		p.pos++
		p.skipExpr()
		end = p.pos
	}

	node := &Node{
		Kind:   KindDeclaration,
		Span:   p.span(start, end),
		Name:   name,
		Except: p.takePending(),
	}
	parent.addChild(node)
}

// parseOpaqueSection records a section node but does not interpret its
// body beyond balancing braces.
func (p *parser) parseOpaqueSection(parent *Node, start int, kind Kind) {
	keyword := p.span(start, p.pos)
	node := &Node{
		Kind:    kind,
		Keyword: keyword,
		Except:  p.takePending(),
	}
	parent.addChild(node)

	p.skipTrivia()
	if p.eof() || p.peek() != '{' {
		p.errorf(start, p.pos, "expected '{' after section keyword")
		node.Span = p.span(start, p.pos)
		return
	}
	p.skipBalancedBraces()
	node.Span = p.span(start, p.pos)
}

// parseCommand parses `command <<< ... >>>` or `command { ... }`, splitting
// the body into text and placeholder parts.
func (p *parser) parseCommand(parent *Node, start int) {
	keyword := p.span(start, p.pos)
	node := &Node{
		Kind:    KindCommandSection,
		Keyword: keyword,
		Except:  p.takePending(),
	}
	parent.addChild(node)

	p.skipSpaces()
	switch {
	case strings.HasPrefix(string(p.rest()), "<<<"):
		p.pos += 3
		node.Heredoc = true
		p.parseCommandBody(node, true)
	case !p.eof() && p.peek() == '{':
		p.pos++
		p.parseCommandBody(node, false)
	default:
		p.errorf(start, p.pos, "expected '<<<' or '{' after command keyword")
	}
	node.Span = p.span(start, p.pos)
}

// parseCommandBody scans the command text until the closing delimiter,
// emitting parts. Heredoc commands recognize only `~{}` placeholders;
// brace commands additionally recognize `${}` and end at the first
// unmatched `}`.
func (p *parser) parseCommandBody(node *Node, heredoc bool) {
	textStart := p.pos
	depth := 1

	flushText := func(end int) {
		if end > textStart {
			node.Parts = append(node.Parts, CommandPart{
				Text: string(p.src[textStart:end]),
				Span: p.span(textStart, end),
			})
		}
	}

	for !p.eof() {
		if heredoc {
			if strings.HasPrefix(string(p.rest()), ">>>") {
				flushText(p.pos)
				p.pos += 3
				return
			}
		} else {
			switch p.peek() {
			case '{':
				p.pos++
				depth++
				continue
			case '}':
				depth--
				if depth == 0 {
					flushText(p.pos)
					p.pos++
					return
				}
				p.pos++
				continue
			}
		}

		if p.placeholderAhead(heredoc) {
			phStart := p.pos
			flushText(phStart)
			p.pos += 2 // ~{ or ${
			p.skipPlaceholderExpr()
			node.Parts = append(node.Parts, CommandPart{
				Placeholder: true,
				Text:        string(p.src[phStart:p.pos]),
				Span:        p.span(phStart, p.pos),
			})
			textStart = p.pos
			continue
		}
		p.pos++
	}

	flushText(p.pos)
	p.errorf(textStart, p.pos, "unterminated command section")
}

func (p *parser) placeholderAhead(heredoc bool) bool {
	rest := p.rest()
	if len(rest) < 2 || rest[1] != '{' {
		return false
	}
	if rest[0] == '~' {
		return true
	}
	return !heredoc && rest[0] == '$'
}

// skipPlaceholderExpr consumes a placeholder expression up to and
// including its closing brace, honouring nested braces and string
// literals.
func (p *parser) skipPlaceholderExpr() {
	depth := 1
	for !p.eof() {
		c := p.peek()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return
			}
		case '"', '\'':
			p.skipString(c)
			continue
		}
		p.pos++
	}
}

// skipExpr consumes a declaration initializer up to the end of the line,
// honouring strings and bracketed groups that may span lines.
func (p *parser) skipExpr() {
	for !p.eof() {
		c := p.peek()
		switch c {
		case '\n':
			return
		case '"', '\'':
			p.skipString(c)
			continue
		case '[':
			p.skipBalanced('[', ']')
			continue
		case '(':
			p.skipBalanced('(', ')')
			continue
		case '{':
			p.skipBalanced('{', '}')
			continue
		case '#':
			p.skipLine()
			return
		}
		p.pos++
	}
}

func (p *parser) skipString(quote byte) {
	p.pos++ // opening quote
	for !p.eof() {
		c := p.peek()
		p.pos++
		if c == '\\' && !p.eof() {
			p.pos++
			continue
		}
		if c == quote {
			return
		}
	}
}

func (p *parser) skipBalanced(open, close byte) {
	if p.eof() || p.peek() != open {
		return
	}
	depth := 0
	for !p.eof() {
		c := p.peek()
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.pos++
				return
			}
		case '"', '\'':
			p.skipString(c)
			continue
		case '#':
			p.skipLine()
			continue
		}
		p.pos++
	}
}

func (p *parser) skipBalancedBraces() {
	p.skipTrivia()
	p.skipBalanced('{', '}')
}

// skipTrivia consumes whitespace and comments, collecting suppression
// directives for attachment to the next node.
func (p *parser) skipTrivia() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		if c == '#' {
			start := p.pos
			p.skipLine()
			p.collectDirective(string(p.src[start:p.pos]))
			continue
		}
		return
	}
}

func (p *parser) collectDirective(comment string) {
	comment = strings.TrimRight(comment, "\n")
	if !strings.HasPrefix(comment, exceptPrefix) {
		return
	}
	for _, id := range strings.Split(comment[len(exceptPrefix):], ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			p.pending = append(p.pending, id)
		}
	}
}

func (p *parser) takePending() []string {
	out := p.pending
	p.pending = nil
	return out
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) skipLine() {
	for !p.eof() {
		c := p.peek()
		p.pos++
		if c == '\n' {
			return
		}
	}
}

func (p *parser) readWord() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return string(p.src[start:p.pos])
}

func (p *parser) expect(c byte) bool {
	if p.eof() || p.peek() != c {
		p.errorf(p.pos, p.pos, "expected %q", string(c))
		return false
	}
	p.pos++
	return true
}

func (p *parser) errorf(start, end int, format string, args ...any) {
	if p.bag == nil {
		return
	}
	if end == start {
		end = start + 1
	}
	if end > len(p.src) {
		end = len(p.src)
	}
	p.bag.Add(diag.NewError("", p.span(start, end), fmt.Sprintf(format, args...)))
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) rest() []byte {
	return p.src[p.pos:]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) offset(i int) uint32 {
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return off
}

func (p *parser) span(start, end int) source.Span {
	return source.Span{File: p.file.ID, Start: p.offset(start), End: p.offset(end)}
}

func (p *parser) spanFrom(start int) source.Span {
	return p.span(start, start)
}
