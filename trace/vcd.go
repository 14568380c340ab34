package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseFile parses the VCD file at path.
func ParseFile(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()
	db, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("trace: %s: %w", path, err)
	}
	return db, nil
}

// Parse reads a VCD dump from r. It accepts the common subset emitted by
// simulators: header commands, scoped scalar and vector variable
// declarations, and timestamped value changes. Real-valued changes are
// skipped.
func Parse(r io.Reader) (*DB, error) {
	p := &parser{
		scan: bufio.NewScanner(r),
		db: &DB{
			changes: make(map[string][]Change),
		},
	}
	p.scan.Split(bufio.ScanWords)

	for p.scan.Scan() {
		tok := p.scan.Text()
		var err error
		switch {
		case tok == "$timescale":
			err = p.parseTimescale()
		case tok == "$scope":
			err = p.parseScope()
		case tok == "$upscope":
			err = p.parseUpscope()
		case tok == "$var":
			err = p.parseVar()
		case strings.HasPrefix(tok, "$"):
			// $date, $version, $comment, $enddefinitions, $dumpvars and
			// friends carry nothing the database needs.
			err = p.skipCommand(tok)
		case strings.HasPrefix(tok, "#"):
			err = p.parseTimestamp(tok)
		default:
			err = p.parseChange(tok)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.scan.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(p.db.signals) == 0 {
		return nil, fmt.Errorf("no variable declarations found")
	}
	return p.db, nil
}

type parser struct {
	scan  *bufio.Scanner
	db    *DB
	scope []string
}

// next returns the following token, failing on a truncated dump.
func (p *parser) next() (string, error) {
	if !p.scan.Scan() {
		if err := p.scan.Err(); err != nil {
			return "", fmt.Errorf("read: %w", err)
		}
		return "", fmt.Errorf("unexpected end of dump")
	}
	return p.scan.Text(), nil
}

// collectUntilEnd gathers tokens up to the matching $end.
func (p *parser) collectUntilEnd() ([]string, error) {
	var toks []string
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == "$end" {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func (p *parser) parseTimescale() error {
	toks, err := p.collectUntilEnd()
	if err != nil {
		return fmt.Errorf("$timescale: %w", err)
	}
	p.db.timescale = strings.Join(toks, "")
	return nil
}

func (p *parser) parseScope() error {
	toks, err := p.collectUntilEnd()
	if err != nil {
		return fmt.Errorf("$scope: %w", err)
	}
	if len(toks) != 2 {
		return fmt.Errorf("$scope: want type and name, got %v", toks)
	}
	p.scope = append(p.scope, toks[1])
	return nil
}

func (p *parser) parseUpscope() error {
	if _, err := p.collectUntilEnd(); err != nil {
		return fmt.Errorf("$upscope: %w", err)
	}
	if len(p.scope) == 0 {
		return fmt.Errorf("$upscope without matching $scope")
	}
	p.scope = p.scope[:len(p.scope)-1]
	return nil
}

func (p *parser) parseVar() error {
	toks, err := p.collectUntilEnd()
	if err != nil {
		return fmt.Errorf("$var: %w", err)
	}
	// <type> <width> <id> <name> [<range>]
	if len(toks) < 4 {
		return fmt.Errorf("$var: truncated declaration %v", toks)
	}
	width, err := strconv.Atoi(toks[1])
	if err != nil || width < 1 {
		return fmt.Errorf("$var: bad width %q", toks[1])
	}
	name := strings.Join(toks[3:], " ")
	if len(p.scope) > 0 {
		name = strings.Join(p.scope, ".") + "." + name
	}
	p.db.signals = append(p.db.signals, Signal{
		ID:    toks[2],
		Name:  name,
		Width: width,
	})
	return nil
}

func (p *parser) skipCommand(cmd string) error {
	switch cmd {
	case "$end":
		// Closes a $dumpvars-style block handled below.
		return nil
	case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff":
		// These enclose ordinary value changes; let the main loop parse
		// the body and swallow the trailing $end above.
		return nil
	}
	if _, err := p.collectUntilEnd(); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

func (p *parser) parseTimestamp(tok string) error {
	t, err := strconv.ParseUint(tok[1:], 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp %q", tok)
	}
	if p.db.hasTime && t < p.db.maxTime {
		return fmt.Errorf("timestamp %d goes backward from %d", t, p.db.maxTime)
	}
	if !p.db.hasTime {
		p.db.minTime = t
		p.db.hasTime = true
	}
	p.db.maxTime = t
	return nil
}

func (p *parser) parseChange(tok string) error {
	switch tok[0] {
	case '0', '1', 'x', 'X', 'z', 'Z':
		if len(tok) < 2 {
			return fmt.Errorf("scalar change %q missing identifier", tok)
		}
		p.record(tok[1:], Value(strings.ToLower(tok[:1])))
		return nil
	case 'b', 'B':
		id, err := p.next()
		if err != nil {
			return fmt.Errorf("vector change %q: %w", tok, err)
		}
		p.record(id, Value(strings.ToLower(tok[1:])))
		return nil
	case 'r', 'R':
		// Real values are not rendered; consume the identifier.
		_, err := p.next()
		return err
	default:
		return fmt.Errorf("unrecognized token %q", tok)
	}
}

func (p *parser) record(id string, v Value) {
	p.db.changes[id] = append(p.db.changes[id], Change{Time: p.db.maxTime, Value: v})
}
