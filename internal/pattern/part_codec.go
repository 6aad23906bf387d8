package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Parts serialize as a bare string or number so snapshots stay readable:
// ["P", 3] rather than [{"kind":1,...}].

func (p Part) MarshalJSON() ([]byte, error) {
	if p.kind == PartNumeric {
		return json.Marshal(p.num)
	}
	return json.Marshal(p.str)
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*p = Literal(x)
	case float64:
		*p = Numeric(int(x))
	default:
		return fmt.Errorf("pattern part: unexpected JSON value %s", data)
	}
	return nil
}

func (p Part) EncodeMsgpack(enc *msgpack.Encoder) error {
	if p.kind == PartNumeric {
		return enc.EncodeInt(int64(p.num))
	}
	return enc.EncodeString(p.str)
}

func (p *Part) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*p = Literal(x)
	case int64:
		*p = Numeric(int(x))
	case uint64:
		*p = Numeric(int(x)) // #nosec G115 -- encoded from an int
	default:
		return fmt.Errorf("pattern part: unexpected msgpack value %T", v)
	}
	return nil
}
