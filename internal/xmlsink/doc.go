// Package xmlsink adapts encoding/xml's token encoder into the four stream
// primitives the document writer needs: open an element, write character
// data, close an element, flush.
//
// The sink is forward-only. It keeps a stack of open element names purely so
// that a mismatched close is reported as an error instead of producing a
// malformed document silently. Escaping, indentation, and well-formedness at
// the byte level are the encoder's job; the sink never touches raw bytes.
package xmlsink
