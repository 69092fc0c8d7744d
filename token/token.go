package token

import (
	"bytes"
	"strconv"
)

type Token int

// List of all token kinds of the FORTRAN 77 fixed-form dialect accepted by the scanner.
// When adding a new token add it in between blocks since we use comparison functions to check properties of tokens.
// The String form of a token is also the label the parser gives terminal nodes.
const (
	// Not to be used in code. Is to catch uninitialized tokens.
	Undefined Token = iota // <undefined>

	EOF     // EOF
	NEWLINE // NEWLINE
	COMMENT // COMMENT
	ID      // ID

	// ==================== LITERALS ====================

	ICON  // ICON
	RDCON // RDCON
	SCON  // SCON
	HCON  // HCON
	BCON  // BCON
	OCON  // OCON
	ZCON  // ZCON
	FCON  // FCON
	XCON  // XCON
	PCON  // PCON

	// ==================== PUNCTUATION ====================

	LPAREN       // LPAREN
	RPAREN       // RPAREN
	LPAREN_SLASH // LPAREN_SLASH
	SLASH_RPAREN // SLASH_RPAREN
	COMMA        // COMMA
	DOT          // DOT
	COLON        // COLON
	COLON_COLON  // COLON_COLON
	EQUAL        // EQUAL
	PLUS         // PLUS
	MINUS        // MINUS
	STAR         // STAR
	STAR_STAR    // STAR_STAR
	SLASH        // SLASH
	DOLLAR       // DOLLAR
	PERCENT      // PERCENT
	UNDERSCORE   // UNDERSCORE

	// ==================== DOTTED OPERATORS ====================

	EQUAL_EQUAL   // EQUAL_EQUAL
	BANG_EQUAL    // BANG_EQUAL
	LESS          // LESS
	LESS_EQUAL    // LESS_EQUAL
	GREATER       // GREATER
	GREATER_EQUAL // GREATER_EQUAL
	AND           // AND
	OR            // OR
	NOT           // NOT
	TRUE          // TRUE
	FALSE         // FALSE

	// ==================== KEYWORD= SPECIFIERS ====================

	UNIT_EQUAL        // UNIT_EQUAL
	FILE_EQUAL        // FILE_EQUAL
	ERR_EQUAL         // ERR_EQUAL
	IOSTAT_EQUAL      // IOSTAT_EQUAL
	EXIST_EQUAL       // EXIST_EQUAL
	OPENED_EQUAL      // OPENED_EQUAL
	NUMBER_EQUAL      // NUMBER_EQUAL
	NAMED_EQUAL       // NAMED_EQUAL
	NAME_EQUAL        // NAME_EQUAL
	ACCESS_EQUAL      // ACCESS_EQUAL
	SEQUENTIAL_EQUAL  // SEQUENTIAL_EQUAL
	DIRECT_EQUAL      // DIRECT_EQUAL
	FORM_EQUAL        // FORM_EQUAL
	FORMATTED_EQUAL   // FORMATTED_EQUAL
	UNFORMATTED_EQUAL // UNFORMATTED_EQUAL
	RECL_EQUAL        // RECL_EQUAL
	NEXTREC_EQUAL     // NEXTREC_EQUAL
	BLANK_EQUAL       // BLANK_EQUAL
	FMT_EQUAL         // FMT_EQUAL
	REC_EQUAL         // REC_EQUAL
	END_EQUAL         // END_EQUAL
	STATUS_EQUAL      // STATUS_EQUAL

	// ==================== KEYWORDS ====================

	// Type declaration keywords
	INTEGER         // INTEGER
	REAL            // REAL
	DOUBLE          // DOUBLE
	PRECISION       // PRECISION
	DOUBLEPRECISION // DOUBLEPRECISION
	COMPLEX         // COMPLEX
	LOGICAL         // LOGICAL
	CHARACTER       // CHARACTER

	// Program structure keywords
	PROGRAM       // PROGRAM
	END           // END
	ENDPROGRAM    // ENDPROGRAM
	SUBROUTINE    // SUBROUTINE
	ENDSUBROUTINE // ENDSUBROUTINE
	FUNCTION      // FUNCTION
	ENDFUNCTION   // ENDFUNCTION
	BLOCK         // BLOCK
	BLOCKDATA     // BLOCKDATA
	ENTRY         // ENTRY

	// Specification keywords
	DATA        // DATA
	DIMENSION   // DIMENSION
	COMMON      // COMMON
	EQUIVALENCE // EQUIVALENCE
	EXTERNAL    // EXTERNAL
	INTRINSIC   // INTRINSIC
	SAVE        // SAVE
	IMPLICIT    // IMPLICIT
	NONE        // NONE
	PARAMETER   // PARAMETER
	FORMAT      // FORMAT

	// Control flow keywords
	IF       // IF
	THEN     // THEN
	ELSE     // ELSE
	ELSEIF   // ELSEIF
	ENDIF    // ENDIF
	DO       // DO
	CONTINUE // CONTINUE
	GOTO     // GOTO
	GO       // GO
	TO       // TO
	CALL     // CALL
	RETURN   // RETURN
	STOP     // STOP
	PAUSE    // PAUSE
	ASSIGN   // ASSIGN

	// I/O keywords
	PRINT     // PRINT
	READ      // READ
	WRITE     // WRITE
	OPEN      // OPEN
	CLOSE     // CLOSE
	INQUIRE   // INQUIRE
	BACKSPACE // BACKSPACE
	REWIND    // REWIND
	ENDFILE   // ENDFILE

	tokenEnd // sentinel, keep last
)

var names = [...]string{
	Undefined: "<undefined>",
	EOF:       "EOF", NEWLINE: "NEWLINE", COMMENT: "COMMENT", ID: "ID",

	ICON: "ICON", RDCON: "RDCON", SCON: "SCON", HCON: "HCON", BCON: "BCON",
	OCON: "OCON", ZCON: "ZCON", FCON: "FCON", XCON: "XCON", PCON: "PCON",

	LPAREN: "LPAREN", RPAREN: "RPAREN", LPAREN_SLASH: "LPAREN_SLASH", SLASH_RPAREN: "SLASH_RPAREN",
	COMMA: "COMMA", DOT: "DOT", COLON: "COLON", COLON_COLON: "COLON_COLON", EQUAL: "EQUAL",
	PLUS: "PLUS", MINUS: "MINUS", STAR: "STAR", STAR_STAR: "STAR_STAR", SLASH: "SLASH",
	DOLLAR: "DOLLAR", PERCENT: "PERCENT", UNDERSCORE: "UNDERSCORE",

	EQUAL_EQUAL: "EQUAL_EQUAL", BANG_EQUAL: "BANG_EQUAL", LESS: "LESS", LESS_EQUAL: "LESS_EQUAL",
	GREATER: "GREATER", GREATER_EQUAL: "GREATER_EQUAL", AND: "AND", OR: "OR", NOT: "NOT",
	TRUE: "TRUE", FALSE: "FALSE",

	UNIT_EQUAL: "UNIT_EQUAL", FILE_EQUAL: "FILE_EQUAL", ERR_EQUAL: "ERR_EQUAL",
	IOSTAT_EQUAL: "IOSTAT_EQUAL", EXIST_EQUAL: "EXIST_EQUAL", OPENED_EQUAL: "OPENED_EQUAL",
	NUMBER_EQUAL: "NUMBER_EQUAL", NAMED_EQUAL: "NAMED_EQUAL", NAME_EQUAL: "NAME_EQUAL",
	ACCESS_EQUAL: "ACCESS_EQUAL", SEQUENTIAL_EQUAL: "SEQUENTIAL_EQUAL", DIRECT_EQUAL: "DIRECT_EQUAL",
	FORM_EQUAL: "FORM_EQUAL", FORMATTED_EQUAL: "FORMATTED_EQUAL", UNFORMATTED_EQUAL: "UNFORMATTED_EQUAL",
	RECL_EQUAL: "RECL_EQUAL", NEXTREC_EQUAL: "NEXTREC_EQUAL", BLANK_EQUAL: "BLANK_EQUAL",
	FMT_EQUAL: "FMT_EQUAL", REC_EQUAL: "REC_EQUAL", END_EQUAL: "END_EQUAL", STATUS_EQUAL: "STATUS_EQUAL",

	INTEGER: "INTEGER", REAL: "REAL", DOUBLE: "DOUBLE", PRECISION: "PRECISION",
	DOUBLEPRECISION: "DOUBLEPRECISION", COMPLEX: "COMPLEX", LOGICAL: "LOGICAL", CHARACTER: "CHARACTER",

	PROGRAM: "PROGRAM", END: "END", ENDPROGRAM: "ENDPROGRAM", SUBROUTINE: "SUBROUTINE",
	ENDSUBROUTINE: "ENDSUBROUTINE", FUNCTION: "FUNCTION", ENDFUNCTION: "ENDFUNCTION",
	BLOCK: "BLOCK", BLOCKDATA: "BLOCKDATA", ENTRY: "ENTRY",

	DATA: "DATA", DIMENSION: "DIMENSION", COMMON: "COMMON", EQUIVALENCE: "EQUIVALENCE",
	EXTERNAL: "EXTERNAL", INTRINSIC: "INTRINSIC", SAVE: "SAVE", IMPLICIT: "IMPLICIT",
	NONE: "NONE", PARAMETER: "PARAMETER", FORMAT: "FORMAT",

	IF: "IF", THEN: "THEN", ELSE: "ELSE", ELSEIF: "ELSEIF", ENDIF: "ENDIF", DO: "DO",
	CONTINUE: "CONTINUE", GOTO: "GOTO", GO: "GO", TO: "TO", CALL: "CALL", RETURN: "RETURN",
	STOP: "STOP", PAUSE: "PAUSE", ASSIGN: "ASSIGN",

	PRINT: "PRINT", READ: "READ", WRITE: "WRITE", OPEN: "OPEN", CLOSE: "CLOSE",
	INQUIRE: "INQUIRE", BACKSPACE: "BACKSPACE", REWIND: "REWIND", ENDFILE: "ENDFILE",
}

func (tok Token) String() string {
	if tok >= 0 && tok < tokenEnd && names[tok] != "" {
		return names[tok]
	}
	return "Token(" + strconv.Itoa(int(tok)) + ")"
}

// IsKeyword returns true if the token is a reserved FORTRAN keyword.
func (tok Token) IsKeyword() bool {
	return tok >= INTEGER && tok <= ENDFILE
}

// IsTypeDeclaration returns true if the token starts a type specification.
func (tok Token) IsTypeDeclaration() bool {
	return tok >= INTEGER && tok <= CHARACTER
}

// IsLiteral returns true if the token carries a constant: numbers, strings and
// the radix, Hollerith and edit descriptor forms.
func (tok Token) IsLiteral() bool {
	return tok >= ICON && tok <= PCON
}

func (tok Token) IsPunctuation() bool {
	return tok >= LPAREN && tok <= UNDERSCORE
}

// IsOperator returns true for relational and logical operators spelled with dots in source.
func (tok Token) IsOperator() bool {
	return tok >= EQUAL_EQUAL && tok <= FALSE
}

// IsKeywordEquals returns true for I/O specifiers such as UNIT= and FMT=.
func (tok Token) IsKeywordEquals() bool {
	return tok >= UNIT_EQUAL && tok <= STATUS_EQUAL
}

// IsEOS returns true for tokens that end a statement.
func (tok Token) IsEOS() bool {
	return tok == NEWLINE || tok == COMMENT || tok == EOF
}

// LookupKeyword returns [ID] or the token for keyword maybeKeyword represents if found.
func LookupKeyword(maybeKeyword []byte) Token {
	// Convert to uppercase for case-insensitive comparison
	upper := bytes.ToUpper(maybeKeyword)
	switch string(upper) {
	default:
		return ID
	case "INTEGER":
		return INTEGER
	case "REAL":
		return REAL
	case "DOUBLE":
		return DOUBLE
	case "PRECISION":
		return PRECISION
	case "DOUBLEPRECISION":
		return DOUBLEPRECISION
	case "COMPLEX":
		return COMPLEX
	case "LOGICAL":
		return LOGICAL
	case "CHARACTER":
		return CHARACTER
	case "PROGRAM":
		return PROGRAM
	case "END":
		return END
	case "ENDPROGRAM":
		return ENDPROGRAM
	case "SUBROUTINE":
		return SUBROUTINE
	case "ENDSUBROUTINE":
		return ENDSUBROUTINE
	case "FUNCTION":
		return FUNCTION
	case "ENDFUNCTION":
		return ENDFUNCTION
	case "BLOCK":
		return BLOCK
	case "BLOCKDATA":
		return BLOCKDATA
	case "ENTRY":
		return ENTRY
	case "DATA":
		return DATA
	case "DIMENSION":
		return DIMENSION
	case "COMMON":
		return COMMON
	case "EQUIVALENCE":
		return EQUIVALENCE
	case "EXTERNAL":
		return EXTERNAL
	case "INTRINSIC":
		return INTRINSIC
	case "SAVE":
		return SAVE
	case "IMPLICIT":
		return IMPLICIT
	case "NONE":
		return NONE
	case "PARAMETER":
		return PARAMETER
	case "FORMAT":
		return FORMAT
	case "IF":
		return IF
	case "THEN":
		return THEN
	case "ELSE":
		return ELSE
	case "ELSEIF":
		return ELSEIF
	case "ENDIF":
		return ENDIF
	case "DO":
		return DO
	case "CONTINUE":
		return CONTINUE
	case "GOTO":
		return GOTO
	case "GO":
		return GO
	case "TO":
		return TO
	case "CALL":
		return CALL
	case "RETURN":
		return RETURN
	case "STOP":
		return STOP
	case "PAUSE":
		return PAUSE
	case "ASSIGN":
		return ASSIGN
	case "PRINT":
		return PRINT
	case "READ":
		return READ
	case "WRITE":
		return WRITE
	case "OPEN":
		return OPEN
	case "CLOSE":
		return CLOSE
	case "INQUIRE":
		return INQUIRE
	case "BACKSPACE":
		return BACKSPACE
	case "REWIND":
		return REWIND
	case "ENDFILE":
		return ENDFILE
	}
}

// LookupKeywordEquals returns the specifier token for ident when ident is one of
// the I/O keywords that may be immediately followed by '=', such as UNIT or FMT.
// It returns [Undefined] otherwise.
func LookupKeywordEquals(ident []byte) Token {
	switch string(bytes.ToUpper(ident)) {
	case "UNIT":
		return UNIT_EQUAL
	case "FILE":
		return FILE_EQUAL
	case "ERR":
		return ERR_EQUAL
	case "IOSTAT":
		return IOSTAT_EQUAL
	case "EXIST":
		return EXIST_EQUAL
	case "OPENED":
		return OPENED_EQUAL
	case "NUMBER":
		return NUMBER_EQUAL
	case "NAMED":
		return NAMED_EQUAL
	case "NAME":
		return NAME_EQUAL
	case "ACCESS":
		return ACCESS_EQUAL
	case "SEQUENTIAL":
		return SEQUENTIAL_EQUAL
	case "DIRECT":
		return DIRECT_EQUAL
	case "FORM":
		return FORM_EQUAL
	case "FORMATTED":
		return FORMATTED_EQUAL
	case "UNFORMATTED":
		return UNFORMATTED_EQUAL
	case "RECL":
		return RECL_EQUAL
	case "NEXTREC":
		return NEXTREC_EQUAL
	case "BLANK":
		return BLANK_EQUAL
	case "FMT":
		return FMT_EQUAL
	case "REC":
		return REC_EQUAL
	case "END":
		return END_EQUAL
	case "STATUS":
		return STATUS_EQUAL
	}
	return Undefined
}

// LookupDotOperator returns the operator token for a dotted operator spelled
// without its surrounding dots, i.e. "EQ" for ".EQ.". Matching is case-insensitive.
// .EQV. and .NEQV. share the equality tokens since the generated code compares logicals with == and !=.
// It returns [Undefined] if ident is not a dotted operator.
func LookupDotOperator(ident []byte) Token {
	switch string(bytes.ToUpper(ident)) {
	case "EQ", "EQV":
		return EQUAL_EQUAL
	case "NE", "NEQV":
		return BANG_EQUAL
	case "LT":
		return LESS
	case "LE":
		return LESS_EQUAL
	case "GT":
		return GREATER
	case "GE":
		return GREATER_EQUAL
	case "AND":
		return AND
	case "OR":
		return OR
	case "NOT":
		return NOT
	case "TRUE":
		return TRUE
	case "FALSE":
		return FALSE
	}
	return Undefined
}
