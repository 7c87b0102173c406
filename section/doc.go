// Package section defines the binary structures at fixed offsets of a control
// file: the versioned metadata header and the constants that place the command
// and response regions after it.
//
// # Control File Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Metadata (20 bytes, padded to 64)                       │
//	│  - Version, command/response capacities                 │
//	│  - Counter label/value lengths (reserved, zero)         │
//	├─────────────────────────────────────────────────────────┤
//	│ Command ring region                                     │
//	│  - commandBufferLength + ring trailer                   │
//	├─────────────────────────────────────────────────────────┤
//	│ Response broadcast region                               │
//	│  - responseBufferLength + broadcast trailer             │
//	└─────────────────────────────────────────────────────────┘
//
// # Metadata Format
//
//	Bytes  | Field                      | Type
//	-------|----------------------------|-------
//	0-3    | Version                    | uint32
//	4-7    | CommandBufferLength        | uint32
//	8-11   | ResponseBufferLength       | uint32
//	12-15  | CounterLabelsBufferLength  | uint32
//	16-19  | CounterValuesBufferLength  | uint32
//	20-63  | padding                    |
//
// Fields are stored in host-native byte order: the file is only ever shared
// between processes on one host, and the ring trailers that follow use the
// same order.
package section
