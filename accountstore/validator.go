package accountstore

import (
	"bytes"
	"fmt"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

const (
	elfHeaderMinSize = 52
	elfClass32       = 1
	elfClass64       = 2
)

// ValidateProgramBytes checks the fixed ELF identification fields of extracted
// bytecode. It is not a loader, full verification happens in the execution
// environment.
func ValidateProgramBytes(data []byte) error {
	if len(data) < elfHeaderMinSize {
		return fmt.Errorf("bytecode holds %d bytes, ELF header needs %d", len(data), elfHeaderMinSize)
	}
	if !bytes.Equal(data[:4], elfMagic) {
		return fmt.Errorf("bad ELF magic %x", data[:4])
	}
	if class := data[4]; class != elfClass32 && class != elfClass64 {
		return fmt.Errorf("unsupported ELF class %d", class)
	}
	return nil
}
