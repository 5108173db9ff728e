package lexer

import (
	"small/internal/token"
	"strings"
	"unicode/utf8"
)

// QuotedTokenizer reads a string or char literal body, the opening quote has already been consumed.
type QuotedTokenizer struct {
	lexer         *Lexer
	quote         rune
	kind          token.TokenType
	startPosition int
}

func NewQuotedTokenizer(lexer *Lexer, quote rune, kind token.TokenType, startPosition int) *QuotedTokenizer {
	return &QuotedTokenizer{lexer: lexer, quote: quote, kind: kind, startPosition: startPosition}
}

func (s *QuotedTokenizer) NextToken() token.Token {
	var result strings.Builder

	// fall back to the general tokenizer mode once the literal ends, even on error
	defer s.lexer.switchMode(NewGeneralTokenizer(s.lexer))

	for {
		if s.lexer.ch == 0 || s.lexer.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated " + strings.ToLower(string(s.kind)) + " literal", Position: s.startPosition}
		}

		if s.lexer.ch == s.quote {
			s.lexer.readChar() // Consume the closing quote
			break
		}

		if s.lexer.ch == '\\' {
			s.lexer.readChar() // Move to the escaped character
			switch s.lexer.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 'r':
				result.WriteRune('\r')
			case '0':
				result.WriteRune(0)
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case '\'':
				result.WriteRune('\'')
			default:
				return token.Token{Type: token.ILLEGAL, Literal: "unknown escape sequence \\" + string(s.lexer.ch), Position: s.startPosition}
			}
		} else {
			result.WriteRune(s.lexer.ch)
		}

		s.lexer.readChar()
	}

	literal := result.String()
	if s.kind == token.CHAR && utf8.RuneCountInString(literal) != 1 {
		return token.Token{Type: token.ILLEGAL, Literal: "char literal must contain exactly one character", Position: s.startPosition}
	}

	return token.Token{
		Type:     s.kind,
		Literal:  literal,
		Position: s.startPosition,
	}
}
