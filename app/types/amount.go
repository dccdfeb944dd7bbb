package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Amount carries a requester-supplied amount as text. JSON strings and
// numbers are both accepted; anything else is kept raw so that parsing later
// reports a malformed amount instead of a bind failure.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	*a = Amount(string(data))
	return nil
}

// UnmarshalParam lets echo bind form and query values.
func (a *Amount) UnmarshalParam(param string) error {
	*a = Amount(strings.TrimSpace(param))
	return nil
}

func (a Amount) String() string {
	return string(a)
}
