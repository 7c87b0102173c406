package encoding

import (
	"encoding/hex"
	"fmt"

	"github.com/arloliu/nuklei/errs"
)

// DecodeHex converts a hex literal such as "0a1B" into bytes. Both letter
// cases are accepted; odd-length input is rejected.
func DecodeHex(text string) ([]byte, error) {
	b, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errs.ErrInvalidHex, text, err)
	}

	return b, nil
}
