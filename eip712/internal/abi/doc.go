// Package abi packs (type, value) lists into 32-byte-word ABI encoding.
//
// Static types occupy one word each: booleans and integers are
// right-aligned (signed integers in two's complement), addresses are
// right-aligned, fixed byte strings are left-aligned. Dynamic string and
// bytes values use the head/tail layout: the head holds the offset of a
// tail made of a length word followed by the zero-padded content.
//
// This package is internal to eip712.
package abi
