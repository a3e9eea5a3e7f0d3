// Package rpeg implements a small lossy image codec.
//
// An image is trimmed to even dimensions and split into 2x2 blocks. Each
// block is converted to YPbPr; its four luma samples become an average and
// three detail coefficients, and its chroma is averaged and quantized to a
// 4-bit index per component. The result is packed into one 32-bit word:
//
//	bits 31-23  a   unsigned luma average
//	bits 22-18  b   signed vertical detail
//	bits 17-13  c   signed horizontal detail
//	bits 12-8   d   signed diagonal detail
//	bits  7-4   pb  chroma index
//	bits  3-0   pr  chroma index
//
// A stream is the text header "Compressed image format 2\n", the decimal
// width and height, a newline, and then the words in big-endian order,
// block rows top to bottom and blocks left to right within a row.
package rpeg
