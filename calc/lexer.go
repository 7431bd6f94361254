// Copyright 2020 Aleksandr Demakin. All rights reserved.

package calc

import (
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	tokenNumber = iota
	tokenPattern
	tokenIdent
	tokenOp
	tokenComment
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`0[xX][0-9a-fA-F]+|0[bB][01]+`), getToken(tokenPattern))
	lexer.Add([]byte(`([0-9]+\.?[0-9]*|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), getToken(tokenNumber))
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(tokenIdent))
	lexer.Add([]byte(`\+|\-|\*|/|\(|\)|,|=`), getToken(tokenOp))
	lexer.Add([]byte(`#[^\n]*`), getToken(tokenComment))
	lexer.Add([]byte(`\s+`), skip)
	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

type token struct {
	typ    int
	text   string
	column int
}

func tokenize(line string) ([]token, error) {
	scanner, err := lexer.Scanner([]byte(line))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create lexer scanner")
	}
	var result []token
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse token")
		}
		tok := itok.(*lexmachine.Token)
		if tok.Type == tokenComment {
			continue
		}
		result = append(result, token{typ: tok.Type, text: tok.Value.(string), column: tok.StartColumn})
	}
	return result, nil
}
