package bytecodec

import "github.com/klauspost/compress/s2"

// S2Codec compresses with S2, a Snappy derivative favoring speed over
// ratio. Residual byte streams are already narrow-typed and often small, so
// this is the cheap choice when byte compression is requested for a
// latency-sensitive column.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}
