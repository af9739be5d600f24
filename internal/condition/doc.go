// Package condition evaluates the comparison rule of a branch node against a
// payload and selects the output port that fires.
//
// The comparison rules are deliberately loose. Equality and containment work
// on the string form of the extracted value, so the number 5 equals the
// literal "5". Ordering comparisons coerce both sides to numbers; an operand
// that does not coerce becomes NaN and the comparison is false.
//
// A path that does not resolve is not an error. The extracted value is then
// "undefined", which stringifies as "undefined" and coerces to NaN.
package condition
