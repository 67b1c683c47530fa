package smd

import (
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_NUMBER = iota
	TOKEN_GARBAGE
)

var cornerLexer *lexmachine.Lexer

func init() {
	cornerLexer = lexmachine.NewLexer()
	cornerLexer.Add([]byte(`[\+\-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), getToken(TOKEN_NUMBER))
	// nan, inf and infinity in any case, as strconv.ParseFloat reads them
	cornerLexer.Add([]byte(`[\+\-]?([nN][aA][nN]|[iI][nN][fF]([iI][nN][iI][tT][yY])?)`), getToken(TOKEN_NUMBER))
	cornerLexer.Add([]byte(`\s+`), skip)
	cornerLexer.Add([]byte(`[^ \t\r\n]+`), getToken(TOKEN_GARBAGE))
	// compile once here, handlers of the web server share the lexer
	if err := cornerLexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type cornerField struct {
	Text   string
	Column int
	Number bool
}

// tokenizeCorner splits a corner line into whitespace separated fields and
// marks which of them look numeric.
func tokenizeCorner(line []byte) ([]cornerField, error) {
	scanner, err := cornerLexer.Scanner(line)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	fields := make([]cornerField, 0, 9)
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := itok.(*lexmachine.Token)
		fields = append(fields, cornerField{
			Text:   string(tok.Lexeme),
			Column: tok.StartColumn,
			Number: tok.Type == TOKEN_NUMBER,
		})
	}
	return fields, nil
}
