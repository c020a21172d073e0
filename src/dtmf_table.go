package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Keypad symbols and their DTMF frequency pairs.
 *
 * Description:	Each button is one row (low group) tone plus one
 *		column (high group) tone.
 *
 *		        1209  1336  1477  1633
 *		  697     1     2     3     A
 *		  770     4     5     6     B
 *		  852     7     8     9     C
 *		  941     *     0     #     D
 *
 *		The A-D column is only present in the extended keypad.
 *
 *---------------------------------------------------------------*/

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbol is returned by Lookup for characters outside the keypad.
var ErrUnknownSymbol = errors.New("unknown DTMF symbol")

// Symbol is one keypad character.
type Symbol byte

func (s Symbol) String() string {
	return string(rune(s))
}

// ToneDefinition is the canonical frequency pair for a Symbol.
type ToneDefinition struct {
	Symbol Symbol
	Low    float64 // Hz
	High   float64 // Hz
}

var standardKeypad = []ToneDefinition{
	{'1', 697, 1209}, {'2', 697, 1336}, {'3', 697, 1477},
	{'4', 770, 1209}, {'5', 770, 1336}, {'6', 770, 1477},
	{'7', 852, 1209}, {'8', 852, 1336}, {'9', 852, 1477},
	{'*', 941, 1209}, {'0', 941, 1336}, {'#', 941, 1477},
}

var extendedColumn = []ToneDefinition{
	{'A', 697, 1633}, {'B', 770, 1633}, {'C', 852, 1633}, {'D', 941, 1633},
}

// SymbolTable is read-only after construction.
type SymbolTable struct {
	defs     []ToneDefinition
	extended bool
}

// NewSymbolTable returns the 12 key table, or the 16 key table when extended is true.
func NewSymbolTable(extended bool) *SymbolTable {
	var defs = make([]ToneDefinition, 0, len(standardKeypad)+len(extendedColumn))
	defs = append(defs, standardKeypad...)

	if extended {
		defs = append(defs, extendedColumn...)
	}

	return &SymbolTable{defs: defs, extended: extended}
}

/*------------------------------------------------------------------
 *
 * Name:        Lookup
 *
 * Purpose:     Find the tone pair for a keypad symbol.
 *
 * Inputs:	s	- 0-9, *, #.  Also A-D (either case) for the
 *			  extended keypad.
 *
 * Returns:     Tone definition, or an error wrapping ErrUnknownSymbol.
 *
 *----------------------------------------------------------------*/

func (t *SymbolTable) Lookup(s Symbol) (ToneDefinition, error) {
	if t.extended && s >= 'a' && s <= 'd' {
		s -= 'a' - 'A'
	}

	for _, d := range t.defs {
		if d.Symbol == s {
			return d, nil
		}
	}

	return ToneDefinition{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, byte(s))
}

// All returns a copy of the table in keypad order.
func (t *SymbolTable) All() []ToneDefinition {
	var out = make([]ToneDefinition, len(t.defs))
	copy(out, t.defs)

	return out
}

func (t *SymbolTable) Len() int {
	return len(t.defs)
}
