// Package command parses the line-oriented command language of the ecdb
// shell:
//
//	find
//	get 3
//	filter Name 'Simpson|Flanders'
//	filter Address.City 'Springfield'
//	range RefAddress '1' '2'
//	order desc Name RecId
//	set Name 'Homer'
package command

import (
	"fmt"

	"github.com/yashagw/ecdb/internal/command/commanddata"
)

// Parser is a parser for the ecdb command language.
type Parser struct {
	lexer *Lexer
}

func NewParser(lexer *Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

func NewParserFromString(line string) *Parser {
	return NewParser(NewLexer(line))
}

// Parse parses one command line into one of the commanddata types.
func Parse(line string) (any, error) {
	return NewParserFromString(line).Command()
}

var simpleOps = []commanddata.Op{
	commanddata.Sync, commanddata.Find, commanddata.Next, commanddata.Prev,
	commanddata.First, commanddata.Last, commanddata.Reset, commanddata.Clear,
	commanddata.Insert, commanddata.Modify, commanddata.Delete,
	commanddata.DeleteAll, commanddata.ModifyAll, commanddata.Append,
	commanddata.Show, commanddata.List, commanddata.Help, commanddata.Quit,
}

// Command parses a whole command. Trailing tokens are an error.
func (p *Parser) Command() (any, error) {
	cmd, err := p.command()
	if err != nil {
		return nil, err
	}
	if !p.lexer.MatchEOF() {
		return nil, fmt.Errorf("%w: unexpected %q", ErrBadSyntax, p.lexer.tokenVal)
	}
	return cmd, nil
}

func (p *Parser) command() (any, error) {
	switch {
	case p.lexer.MatchKeyword("get"):
		return p.get()
	case p.lexer.MatchKeyword("goto"):
		return p.gotoIndex()
	case p.lexer.MatchKeyword("filter"):
		return p.filter()
	case p.lexer.MatchKeyword("range"):
		return p.rangeCmd()
	case p.lexer.MatchKeyword("order"):
		return p.order()
	case p.lexer.MatchKeyword("set"):
		return p.set()
	case p.lexer.MatchKeyword("exit"):
		p.lexer.nextToken()
		return commanddata.NewSimpleData(commanddata.Quit, ""), nil
	}
	for _, op := range simpleOps {
		if p.lexer.MatchKeyword(string(op)) {
			return p.simple(op)
		}
	}
	if p.lexer.MatchEOF() {
		return nil, fmt.Errorf("%w: empty command", ErrBadSyntax)
	}
	return nil, fmt.Errorf("%w: unknown command %q", ErrBadSyntax, p.lexer.tokenVal)
}

// simple parses a command without arguments. Clear, insert, modify and
// delete may name a joined table: "insert Address".
func (p *Parser) simple(op commanddata.Op) (*commanddata.SimpleData, error) {
	if err := p.lexer.EatKeyword(string(op)); err != nil {
		return nil, err
	}
	if !op.TakesTable() || !p.lexer.MatchId() {
		return commanddata.NewSimpleData(op, ""), nil
	}
	table, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	return commanddata.NewSimpleData(op, table), nil
}

// field parses Field or Table.Field.
func (p *Parser) field() (commanddata.FieldRef, error) {
	id, err := p.lexer.EatId()
	if err != nil {
		return commanddata.FieldRef{}, err
	}
	if !p.lexer.MatchDelim('.') {
		return commanddata.FieldRef{Field: id}, nil
	}
	p.lexer.nextToken()
	f, err := p.lexer.EatId()
	if err != nil {
		return commanddata.FieldRef{}, err
	}
	return commanddata.FieldRef{Table: id, Field: f}, nil
}

// value parses a quoted string, a number or a bare word, returned as text.
func (p *Parser) value() (string, error) {
	switch {
	case p.lexer.MatchStringConstant():
		return p.lexer.EatStringConstant()
	case p.lexer.MatchIntConstant(), p.lexer.MatchFloatConstant(), p.lexer.MatchIdent():
		s := p.lexer.tokenVal
		p.lexer.nextToken()
		return s, nil
	}
	return "", fmt.Errorf("%w: expected a value, got %q", ErrBadSyntax, p.lexer.tokenVal)
}

func (p *Parser) get() (*commanddata.GetData, error) {
	if err := p.lexer.EatKeyword("get"); err != nil {
		return nil, err
	}
	id, err := p.lexer.EatIntConstant()
	if err != nil {
		return nil, err
	}
	return commanddata.NewGetData(id), nil
}

func (p *Parser) gotoIndex() (*commanddata.GotoData, error) {
	if err := p.lexer.EatKeyword("goto"); err != nil {
		return nil, err
	}
	i, err := p.lexer.EatIntConstant()
	if err != nil {
		return nil, err
	}
	return commanddata.NewGotoData(i), nil
}

// filter parses "filter FIELD [expr]". A missing expression removes the
// filter.
func (p *Parser) filter() (*commanddata.FilterData, error) {
	if err := p.lexer.EatKeyword("filter"); err != nil {
		return nil, err
	}
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	if p.lexer.MatchEOF() {
		return commanddata.NewFilterData(f, ""), nil
	}
	expr, err := p.value()
	if err != nil {
		return nil, err
	}
	return commanddata.NewFilterData(f, expr), nil
}

// rangeCmd parses "range FIELD [from [to]]".
func (p *Parser) rangeCmd() (*commanddata.RangeData, error) {
	if err := p.lexer.EatKeyword("range"); err != nil {
		return nil, err
	}
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	var bounds [2]string
	for i := range bounds {
		if p.lexer.MatchEOF() {
			break
		}
		if bounds[i], err = p.value(); err != nil {
			return nil, err
		}
	}
	return commanddata.NewRangeData(f, bounds[0], bounds[1]), nil
}

// order parses "order asc|desc FIELD...".
func (p *Parser) order() (*commanddata.OrderData, error) {
	if err := p.lexer.EatKeyword("order"); err != nil {
		return nil, err
	}
	var desc bool
	switch {
	case p.lexer.MatchKeyword("asc"):
	case p.lexer.MatchKeyword("desc"):
		desc = true
	default:
		return nil, fmt.Errorf("%w: expected asc or desc, got %q", ErrBadSyntax, p.lexer.tokenVal)
	}
	p.lexer.nextToken()

	var fields []string
	for !p.lexer.MatchEOF() {
		f, err := p.lexer.EatId()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if p.lexer.MatchDelim(',') {
			p.lexer.nextToken()
		}
	}
	return commanddata.NewOrderData(desc, fields), nil
}

func (p *Parser) set() (*commanddata.SetData, error) {
	if err := p.lexer.EatKeyword("set"); err != nil {
		return nil, err
	}
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	return commanddata.NewSetData(f, v), nil
}
