package morse

// symbolCode describes one letter of the International Morse alphabet.
// pattern bit 0 is the first symbol keyed; 0 is a dot, 1 is a dash.
// Only the lowest length bits are meaningful. length is always 1..4
// for the supported A-Z alphabet.
type symbolCode struct {
	length  uint8
	pattern uint8
}

// symbolTable maps 'A'..'Z' (index letter-'A') to its morse pattern.
// Static data, never mutated.
var symbolTable = [26]symbolCode{
	// A .-
	{length: 2, pattern: 0b10},
	// B -...
	{length: 4, pattern: 0b0001},
	// C -.-.
	{length: 4, pattern: 0b0101},
	// D -..
	{length: 3, pattern: 0b001},
	// E .
	{length: 1, pattern: 0b0},
	// F ..-.
	{length: 4, pattern: 0b0100},
	// G --.
	{length: 3, pattern: 0b011},
	// H ....
	{length: 4, pattern: 0b0000},
	// I ..
	{length: 2, pattern: 0b00},
	// J .---
	{length: 4, pattern: 0b1110},
	// K -.-
	{length: 3, pattern: 0b101},
	// L .-..
	{length: 4, pattern: 0b0010},
	// M --
	{length: 2, pattern: 0b11},
	// N -.
	{length: 2, pattern: 0b01},
	// O ---
	{length: 3, pattern: 0b111},
	// P .--.
	{length: 4, pattern: 0b0110},
	// Q --.-
	{length: 4, pattern: 0b1011},
	// R .-.
	{length: 3, pattern: 0b010},
	// S ...
	{length: 3, pattern: 0b000},
	// T -
	{length: 1, pattern: 0b1},
	// U ..-
	{length: 3, pattern: 0b100},
	// V ...-
	{length: 4, pattern: 0b1000},
	// W .--
	{length: 3, pattern: 0b110},
	// X -..-
	{length: 4, pattern: 0b1001},
	// Y -.--
	{length: 4, pattern: 0b1101},
	// Z --..
	{length: 4, pattern: 0b0011},
}

// lookupSymbol returns the pattern for an uppercase Latin letter.
// The caller must normalize the input first; anything outside 'A'..'Z'
// is out of range.
func lookupSymbol(letter byte) symbolCode {
	return symbolTable[letter-'A']
}
