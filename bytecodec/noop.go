package bytecodec

// NoOpCodec passes data through unmodified. It is the codec for
// AlgorithmNone, the zero value of Algorithm.
type NoOpCodec struct{}

var _ Codec = NoOpCodec{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
