package cpu

import "fmt"

// DecodeError reports an opcode sequence outside the documented Z80
// instruction set.
type DecodeError struct {
	Addr  uint16
	Bytes []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: undefined opcode % X at %04X", e.Bytes, e.Addr)
}
